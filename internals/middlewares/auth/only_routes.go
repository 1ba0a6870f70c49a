package auth

import (
	"schoolku_backend/internals/constants"
	helperAuth "schoolku_backend/internals/helpers/auth"

	"github.com/gofiber/fiber/v2"
)

// OnlyRolesSlice allows the request when the global role is one of allowedRoles.
func OnlyRolesSlice(message string, allowedRoles []string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := helperAuth.GetGlobalRole(c)
		if role == "" {
			return fiber.NewError(fiber.StatusUnauthorized, constants.MsgUnauthorized)
		}
		for _, allowed := range allowedRoles {
			if role == allowed {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, message)
	}
}

func OnlySuperAdmin() fiber.Handler {
	return OnlyRolesSlice("Réservé au super administrateur", []string{constants.RoleSuperAdmin})
}
