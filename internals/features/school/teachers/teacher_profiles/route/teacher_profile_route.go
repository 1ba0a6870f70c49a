package route

import (
	"schoolku_backend/internals/features/school/teachers/teacher_profiles/controller"
	helper "schoolku_backend/internals/helpers"
	schoolMw "schoolku_backend/internals/middlewares/features"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func TeacherProfileRoutes(api fiber.Router, db *gorm.DB) {
	ctl := controller.NewTeacherProfileController(db, helper.Validator())

	g := api.Group("/teacher-profiles")
	g.Get("/", schoolMw.Staff(db), ctl.List)
	g.Get("/:id", schoolMw.Staff(db), ctl.Get)
	g.Post("/", schoolMw.AdminOnly(db), ctl.Create)
	g.Patch("/:id", schoolMw.AdminOnly(db), ctl.Update)
	g.Delete("/:id", schoolMw.AdminOnly(db), ctl.Delete)
}
