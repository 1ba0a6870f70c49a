package route

import (
	"schoolku_backend/internals/features/school/timetables/timetable_entries/controller"
	helper "schoolku_backend/internals/helpers"
	schoolMw "schoolku_backend/internals/middlewares/features"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func TimetableEntryRoutes(api fiber.Router, db *gorm.DB) {
	ctl := controller.NewTimetableEntryController(db, helper.Validator())

	g := api.Group("/timetable-entries")
	g.Get("/", schoolMw.AnyMember(db), ctl.List)
	g.Get("/week", schoolMw.AnyMember(db), ctl.Week)
	g.Get("/:id", schoolMw.AnyMember(db), ctl.Get)
	g.Post("/", schoolMw.AdminOnly(db), ctl.Create)
	g.Patch("/:id", schoolMw.AdminOnly(db), ctl.Update)
	g.Delete("/:id", schoolMw.AdminOnly(db), ctl.Delete)
}
