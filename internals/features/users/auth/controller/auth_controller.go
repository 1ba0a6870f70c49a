package controller

import (
	"time"

	"schoolku_backend/internals/configs"
	"schoolku_backend/internals/features/users/auth/dto"
	"schoolku_backend/internals/features/users/auth/service"
	helper "schoolku_backend/internals/helpers"
	helperAuth "schoolku_backend/internals/helpers/auth"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type AuthController struct {
	Service   *service.AuthService
	Validator *validator.Validate
}

func NewAuthController(s *service.AuthService, v *validator.Validate) *AuthController {
	return &AuthController{Service: s, Validator: v}
}

// POST /api/auth/login
func (ctl *AuthController) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &req); err != nil {
		return err
	}
	res, err := ctl.Service.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	helperAuth.SetCookie(c, helperAuth.CookieAccessToken, res.AccessToken, configs.JWTTTL)
	return helper.JsonOK(c, "Connexion réussie", res)
}

// POST /api/auth/google
func (ctl *AuthController) LoginGoogle(c *fiber.Ctx) error {
	var req dto.GoogleLoginRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &req); err != nil {
		return err
	}
	res, err := ctl.Service.LoginGoogle(c.UserContext(), req.IDToken)
	if err != nil {
		return err
	}
	helperAuth.SetCookie(c, helperAuth.CookieAccessToken, res.AccessToken, configs.JWTTTL)
	return helper.JsonOK(c, "Connexion réussie", res)
}

// POST /api/auth/logout
func (ctl *AuthController) Logout(c *fiber.Ctx) error {
	raw, _ := c.Locals(helperAuth.LocRawToken).(string)
	exp, _ := c.Locals(helperAuth.LocTokenExp).(time.Time)
	if err := ctl.Service.Logout(c.UserContext(), raw, exp); err != nil {
		return err
	}
	helperAuth.ClearCookie(c, helperAuth.CookieAccessToken)
	helperAuth.ClearCookie(c, helperAuth.CookieActiveSchool)
	helperAuth.ClearCookie(c, helperAuth.CookieActiveYear)
	return helper.JsonOK(c, "Déconnexion réussie", nil)
}

// GET /api/auth/me
func (ctl *AuthController) Me(c *fiber.Ctx) error {
	me, err := ctl.Service.Me(c.UserContext(), helperAuth.GetUserID(c))
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", me)
}

// PATCH /api/auth/password
func (ctl *AuthController) ChangePassword(c *fiber.Ctx) error {
	var req dto.ChangePasswordRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &req); err != nil {
		return err
	}
	if err := ctl.Service.ChangePassword(c.UserContext(), helperAuth.GetUserID(c), req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Mot de passe modifié", nil)
}
