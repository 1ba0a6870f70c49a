package middleware

import (
	"schoolku_backend/internals/constants"
	helperAuth "schoolku_backend/internals/helpers/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RequireSchoolRole resolves the school (x-school-id or active_school_id cookie),
// checks the caller's membership and role, then stores school_id and school_role
// in Locals. It runs before any body parsing, so a denied call is 403 whatever the payload.
func RequireSchoolRole(db *gorm.DB, allowed ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := helperAuth.GetUserID(c)
		if userID == uuid.Nil {
			return fiber.NewError(fiber.StatusUnauthorized, constants.MsgUnauthorized)
		}
		schoolID, err := helperAuth.ResolveSchoolID(c)
		if err != nil {
			return err
		}
		role, err := helperAuth.EnsureSchoolAccess(c.UserContext(), db, userID, helperAuth.GetGlobalRole(c), schoolID, allowed...)
		if err != nil {
			return err
		}
		c.Locals(helperAuth.LocSchoolID, schoolID)
		c.Locals(helperAuth.LocSchoolRole, role)
		return c.Next()
	}
}

// AnyMember admits every member of the school.
func AnyMember(db *gorm.DB) fiber.Handler {
	return RequireSchoolRole(db, constants.SchoolRoles...)
}

// Staff admits ADMIN and TEACHER.
func Staff(db *gorm.DB) fiber.Handler {
	return RequireSchoolRole(db, constants.StaffRoles...)
}

// AdminOnly admits ADMIN.
func AdminOnly(db *gorm.DB) fiber.Handler {
	return RequireSchoolRole(db, constants.AdminOnly...)
}
