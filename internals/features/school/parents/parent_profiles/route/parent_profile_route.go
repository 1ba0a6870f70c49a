package route

import (
	"schoolku_backend/internals/features/school/parents/parent_profiles/controller"
	helper "schoolku_backend/internals/helpers"
	schoolMw "schoolku_backend/internals/middlewares/features"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func ParentProfileRoutes(api fiber.Router, db *gorm.DB) {
	ctl := controller.NewParentProfileController(db, helper.Validator())

	g := api.Group("/parent-profiles")
	g.Get("/", schoolMw.Staff(db), ctl.List)
	g.Get("/:id", schoolMw.Staff(db), ctl.Get)
	g.Post("/", schoolMw.AdminOnly(db), ctl.Create)
	g.Patch("/:id", schoolMw.AdminOnly(db), ctl.Update)
	g.Delete("/:id", schoolMw.AdminOnly(db), ctl.Delete)
}
