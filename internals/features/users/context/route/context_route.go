package route

import (
	"schoolku_backend/internals/features/users/context/controller"
	helper "schoolku_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ContextRoutes needs only authentication: the school comes from the body or the cookie.
func ContextRoutes(api fiber.Router, db *gorm.DB) {
	ctl := controller.NewContextController(db, helper.Validator())

	g := api.Group("/context")
	g.Get("/", ctl.Get)
	g.Post("/school", ctl.SwitchSchool)
	g.Post("/academic-year", ctl.SwitchYear)
	g.Delete("/", ctl.Clear)
}
