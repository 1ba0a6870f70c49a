package helper

import (
	"time"

	"schoolku_backend/internals/configs"

	"github.com/gofiber/fiber/v2"
)

const (
	CookieAccessToken  = "access_token"
	CookieActiveSchool = "active_school_id"
	CookieActiveYear   = "active_academic_year_id"

	HeaderSchoolID       = "x-school-id"
	HeaderAcademicYearID = "x-academic-year-id"
)

func SetCookie(c *fiber.Ctx, name, value string, ttl time.Duration) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HTTPOnly: true,
		Secure:   configs.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func ClearCookie(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   configs.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
