package route

import (
	"schoolku_backend/internals/features/school/assessments/assessments/controller"
	helper "schoolku_backend/internals/helpers"
	schoolMw "schoolku_backend/internals/middlewares/features"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func AssessmentRoutes(api fiber.Router, db *gorm.DB) {
	ctl := controller.NewAssessmentController(db, helper.Validator())

	g := api.Group("/assessments")
	g.Get("/", schoolMw.AnyMember(db), ctl.List)
	g.Get("/:id", schoolMw.AnyMember(db), ctl.Get)
	g.Post("/", schoolMw.Staff(db), ctl.Create)
	g.Patch("/:id", schoolMw.Staff(db), ctl.Update)
	g.Delete("/:id", schoolMw.Staff(db), ctl.Delete)
}
