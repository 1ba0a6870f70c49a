package route

import (
	"schoolku_backend/internals/features/users/users/controller"
	helper "schoolku_backend/internals/helpers"
	authMiddleware "schoolku_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func UserRoutes(api fiber.Router, db *gorm.DB) {
	ctl := controller.NewUserController(db, helper.Validator())

	g := api.Group("/users", authMiddleware.OnlySuperAdmin())
	g.Get("/", ctl.List)
	g.Get("/:id", ctl.Get)
	g.Patch("/:id", ctl.Update)
}
