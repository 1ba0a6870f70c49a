package helper

import (
	"schoolku_backend/internals/constants"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Locals keys set by the auth and school-scope middlewares.
const (
	LocUserID     = "user_id"
	LocEmail      = "user_email"
	LocGlobalRole = "user_role"
	LocRawToken   = "raw_token"
	LocTokenExp   = "token_exp"
	LocSchoolID   = "school_id"
	LocSchoolRole = "school_role"
)

func GetUserID(c *fiber.Ctx) uuid.UUID {
	if v, ok := c.Locals(LocUserID).(uuid.UUID); ok {
		return v
	}
	return uuid.Nil
}

func GetGlobalRole(c *fiber.Ctx) string {
	v, _ := c.Locals(LocGlobalRole).(string)
	return v
}

func IsSuperAdmin(c *fiber.Ctx) bool {
	return GetGlobalRole(c) == constants.RoleSuperAdmin
}

func GetSchoolID(c *fiber.Ctx) uuid.UUID {
	if v, ok := c.Locals(LocSchoolID).(uuid.UUID); ok {
		return v
	}
	return uuid.Nil
}

// GetSchoolRole is the effective role in the scoped school (SUPER_ADMIN for the global admin).
func GetSchoolRole(c *fiber.Ctx) string {
	v, _ := c.Locals(LocSchoolRole).(string)
	return v
}

// IsSchoolManager: ADMIN of the school or SUPER_ADMIN.
func IsSchoolManager(c *fiber.Ctx) bool {
	r := GetSchoolRole(c)
	return r == constants.RoleAdmin || r == constants.RoleSuperAdmin
}
