package route

import (
	"schoolku_backend/internals/features/schools/members/controller"
	helper "schoolku_backend/internals/helpers"
	schoolMw "schoolku_backend/internals/middlewares/features"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func MemberRoutes(api fiber.Router, db *gorm.DB) {
	ctl := controller.NewMemberController(db, helper.Validator())

	g := api.Group("/school-members", schoolMw.AdminOnly(db))
	g.Get("/", ctl.List)
	g.Post("/", ctl.Create)
	g.Patch("/:id", ctl.Update)
	g.Delete("/:id", ctl.Delete)
}
