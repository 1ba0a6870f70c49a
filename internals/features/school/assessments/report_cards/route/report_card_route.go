package route

import (
	"schoolku_backend/internals/features/school/assessments/report_cards/controller"
	schoolMw "schoolku_backend/internals/middlewares/features"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func ReportCardRoutes(api fiber.Router, db *gorm.DB) {
	ctl := controller.NewReportCardController(db)

	g := api.Group("/report-cards")
	g.Get("/", schoolMw.AnyMember(db), ctl.Student)
	g.Get("/classroom", schoolMw.Staff(db), ctl.Classroom)
	g.Get("/classroom/export", schoolMw.Staff(db), ctl.Export)
}
