package route

import (
	"schoolku_backend/internals/features/school/academics/academic_years/controller"
	helper "schoolku_backend/internals/helpers"
	schoolMw "schoolku_backend/internals/middlewares/features"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func AcademicYearRoutes(api fiber.Router, db *gorm.DB) {
	ctl := controller.NewAcademicYearController(db, helper.Validator())

	g := api.Group("/academic-years")
	g.Get("/", schoolMw.AnyMember(db), ctl.List)
	g.Get("/current", schoolMw.AnyMember(db), ctl.Current)
	g.Get("/:id", schoolMw.AnyMember(db), ctl.Get)

	g.Post("/", schoolMw.AdminOnly(db), ctl.Create)
	g.Patch("/:id", schoolMw.AdminOnly(db), ctl.Update)
	g.Delete("/:id", schoolMw.AdminOnly(db), ctl.Delete)
	g.Post("/:id/set-current", schoolMw.AdminOnly(db), ctl.SetCurrent)
}
