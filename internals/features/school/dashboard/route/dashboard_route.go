package route

import (
	"schoolku_backend/internals/features/school/dashboard/controller"
	schoolMw "schoolku_backend/internals/middlewares/features"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func DashboardRoutes(api fiber.Router, db *gorm.DB) {
	ctl := controller.NewDashboardController(db)
	api.Get("/dashboard/stats", schoolMw.Staff(db), ctl.Stats)
}
