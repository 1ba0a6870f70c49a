package route

import (
	"schoolku_backend/internals/constants"
	"schoolku_backend/internals/features/schools/schools/controller"
	helper "schoolku_backend/internals/helpers"
	helperAuth "schoolku_backend/internals/helpers/auth"
	"schoolku_backend/internals/helpers/storage"
	authMiddleware "schoolku_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SchoolRoutes mounts /schools. The school comes from :id, not from x-school-id.
func SchoolRoutes(api fiber.Router, db *gorm.DB, store storage.FileStore) {
	ctl := controller.NewSchoolController(db, helper.Validator(), store)

	g := api.Group("/schools")
	g.Get("/", ctl.List)
	g.Post("/", authMiddleware.OnlySuperAdmin(), ctl.Create)

	g.Get("/:id", pathSchool(db, constants.SchoolRoles...), ctl.Get)
	g.Patch("/:id", pathSchool(db, constants.AdminOnly...), ctl.Update)
	g.Post("/:id/logo", pathSchool(db, constants.AdminOnly...), ctl.UploadLogo)

	g.Delete("/:id", authMiddleware.OnlySuperAdmin(), ctl.Delete)
	g.Post("/:id/restore", authMiddleware.OnlySuperAdmin(), ctl.Restore)
}

// pathSchool is RequireSchoolRole with the school taken from :id.
func pathSchool(db *gorm.DB, allowed ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := helper.ParseUUIDParam(c, "id")
		if err != nil {
			return err
		}
		role, err := helperAuth.EnsureSchoolAccess(c.UserContext(), db, helperAuth.GetUserID(c), helperAuth.GetGlobalRole(c), id, allowed...)
		if err != nil {
			return err
		}
		c.Locals(helperAuth.LocSchoolID, id)
		c.Locals(helperAuth.LocSchoolRole, role)
		return c.Next()
	}
}
