package route

import (
	"schoolku_backend/internals/features/school/attendance/attendance_records/controller"
	helper "schoolku_backend/internals/helpers"
	schoolMw "schoolku_backend/internals/middlewares/features"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func AttendanceRecordRoutes(api fiber.Router, db *gorm.DB) {
	ctl := controller.NewAttendanceRecordController(db, helper.Validator())

	g := api.Group("/attendance-records")
	g.Get("/", schoolMw.AnyMember(db), ctl.List)
	g.Get("/summary", schoolMw.AnyMember(db), ctl.Summary)
	g.Get("/export", schoolMw.Staff(db), ctl.Export)
	g.Post("/bulk", schoolMw.Staff(db), ctl.Bulk)
	g.Get("/:id", schoolMw.AnyMember(db), ctl.Get)
	g.Post("/", schoolMw.Staff(db), ctl.Create)
	g.Patch("/:id", schoolMw.Staff(db), ctl.Update)
	g.Delete("/:id", schoolMw.Staff(db), ctl.Delete)
}
