package route

import (
	"schoolku_backend/internals/features/school/classes/enrollments/controller"
	helper "schoolku_backend/internals/helpers"
	schoolMw "schoolku_backend/internals/middlewares/features"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func EnrollmentRoutes(api fiber.Router, db *gorm.DB) {
	ctl := controller.NewEnrollmentController(db, helper.Validator())

	g := api.Group("/enrollments")
	g.Get("/", schoolMw.AnyMember(db), ctl.List)
	g.Post("/import", schoolMw.AdminOnly(db), ctl.Import)
	g.Get("/:id", schoolMw.AnyMember(db), ctl.Get)

	g.Post("/", schoolMw.AdminOnly(db), ctl.Create)
	g.Patch("/:id", schoolMw.AdminOnly(db), ctl.Update)
	g.Delete("/:id", schoolMw.AdminOnly(db), ctl.Delete)
}
