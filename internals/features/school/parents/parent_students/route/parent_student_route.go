package route

import (
	"schoolku_backend/internals/constants"
	"schoolku_backend/internals/features/school/parents/parent_students/controller"
	helper "schoolku_backend/internals/helpers"
	schoolMw "schoolku_backend/internals/middlewares/features"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func ParentStudentRoutes(api fiber.Router, db *gorm.DB) {
	ctl := controller.NewParentStudentController(db, helper.Validator())

	g := api.Group("/parent-students")
	g.Get("/", schoolMw.Staff(db), ctl.List)
	g.Get("/children", schoolMw.RequireSchoolRole(db, constants.RoleAdmin, constants.RoleTeacher, constants.RoleParent), ctl.Children)
	g.Post("/", schoolMw.AdminOnly(db), ctl.Create)
	g.Delete("/:id", schoolMw.AdminOnly(db), ctl.Delete)
}
