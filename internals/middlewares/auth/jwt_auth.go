package auth

import (
	"errors"
	"strings"

	"schoolku_backend/internals/constants"
	userModel "schoolku_backend/internals/features/users/users/model"
	helperAuth "schoolku_backend/internals/helpers/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuthJWTOpts struct {
	Secret              string
	DB                  *gorm.DB             // when set, the user must exist and be active
	Blacklist           helperAuth.Blacklist // optional
	AllowCookieFallback bool                 // use the access_token cookie when no Bearer header
}

func AuthJWT(o AuthJWTOpts) fiber.Handler {
	secret := strings.TrimSpace(o.Secret)
	if secret == "" {
		panic("AuthJWT: secret is required")
	}

	return func(c *fiber.Ctx) error {
		raw := helperAuth.ExtractBearerToken(c, o.AllowCookieFallback)
		if raw == "" {
			return fiber.NewError(fiber.StatusUnauthorized, constants.MsgUnauthorized)
		}

		claims, err := helperAuth.ParseAccessToken(secret, raw)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, constants.MsgInvalidToken)
		}
		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, constants.MsgInvalidToken)
		}

		if o.Blacklist != nil {
			revoked, err := o.Blacklist.Contains(c.UserContext(), raw)
			if err != nil {
				return err
			}
			if revoked {
				return fiber.NewError(fiber.StatusUnauthorized, "Session terminée, reconnectez-vous")
			}
		}

		role := claims.Role
		if o.DB != nil {
			var u userModel.UserModel
			err := o.DB.WithContext(c.UserContext()).
				Select("id", "role", "is_active").
				Where("id = ?", userID).
				Take(&u).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusUnauthorized, constants.MsgInvalidToken)
			}
			if err != nil {
				return err
			}
			if !u.IsActive {
				return fiber.NewError(fiber.StatusUnauthorized, "Compte désactivé")
			}
			role = u.Role
		}

		c.Locals(helperAuth.LocUserID, userID)
		c.Locals(helperAuth.LocEmail, claims.Email)
		c.Locals(helperAuth.LocGlobalRole, role)
		c.Locals(helperAuth.LocRawToken, raw)
		if claims.ExpiresAt != nil {
			c.Locals(helperAuth.LocTokenExp, claims.ExpiresAt.Time)
		}
		return c.Next()
	}
}
