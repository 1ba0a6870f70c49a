package route

import (
	"schoolku_backend/internals/configs"
	"schoolku_backend/internals/features/users/auth/controller"
	"schoolku_backend/internals/features/users/auth/service"
	helper "schoolku_backend/internals/helpers"
	helperAuth "schoolku_backend/internals/helpers/auth"
	"schoolku_backend/internals/middlewares"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AuthRoutes mounts /auth on api; authMw guards the session endpoints.
func AuthRoutes(api fiber.Router, db *gorm.DB, bl helperAuth.Blacklist, google service.GoogleVerifier, authMw fiber.Handler) {
	svc := &service.AuthService{
		DB:        db,
		Blacklist: bl,
		Google:    google,
		Secret:    configs.JWTSecret,
		TTL:       configs.JWTTTL,
	}
	ctl := controller.NewAuthController(svc, helper.Validator())

	g := api.Group("/auth")
	g.Post("/login", middlewares.LoginRateLimiter(), ctl.Login)
	g.Post("/google", middlewares.LoginRateLimiter(), ctl.LoginGoogle)

	g.Post("/logout", authMw, ctl.Logout)
	g.Get("/me", authMw, ctl.Me)
	g.Patch("/password", authMw, ctl.ChangePassword)
}
