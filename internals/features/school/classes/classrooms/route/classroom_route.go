package route

import (
	"schoolku_backend/internals/features/school/classes/classrooms/controller"
	helper "schoolku_backend/internals/helpers"
	schoolMw "schoolku_backend/internals/middlewares/features"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func ClassroomRoutes(api fiber.Router, db *gorm.DB) {
	ctl := controller.NewClassroomController(db, helper.Validator())

	g := api.Group("/classrooms")
	g.Get("/", schoolMw.AnyMember(db), ctl.List)
	g.Get("/:id", schoolMw.AnyMember(db), ctl.Get)
	g.Get("/:id/students", schoolMw.Staff(db), ctl.Students)

	g.Post("/", schoolMw.AdminOnly(db), ctl.Create)
	g.Patch("/:id", schoolMw.AdminOnly(db), ctl.Update)
	g.Delete("/:id", schoolMw.AdminOnly(db), ctl.Delete)
}
