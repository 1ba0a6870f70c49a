package controller

import (
	"strings"

	"schoolku_backend/internals/features/users/users/dto"
	"schoolku_backend/internals/features/users/users/model"
	helper "schoolku_backend/internals/helpers"
	helperAuth "schoolku_backend/internals/helpers/auth"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type UserController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewUserController(db *gorm.DB, v *validator.Validate) *UserController {
	return &UserController{DB: db, Validator: v}
}

var userSortable = map[string]string{
	"fullName":  "full_name",
	"email":     "email",
	"createdAt": "created_at",
}

// GET /api/users ?q ?role ?isActive (SUPER_ADMIN)
func (ctl *UserController) List(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "createdAt", "desc", helper.AdminOpts)
	q := ctl.DB.WithContext(c.UserContext()).Model(&model.UserModel{})
	if s := strings.TrimSpace(c.Query("q")); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(full_name) LIKE ? OR email LIKE ?", like, like)
	}
	if r := strings.ToUpper(strings.TrimSpace(c.Query("role"))); r != "" {
		q = q.Where("role = ?", r)
	}
	if v := c.Query("isActive"); v != "" {
		q = q.Where("is_active = ?", v == "true" || v == "1")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return err
	}
	rows := []model.UserModel{}
	if err := q.Order(p.SafeOrderClause(userSortable, "createdAt")).
		Limit(p.Limit()).Offset(p.Offset()).Find(&rows).Error; err != nil {
		return err
	}
	return helper.JsonList(c, "OK", rows, helper.BuildMeta(total, p))
}

func (ctl *UserController) Get(c *fiber.Ctx) error {
	u, err := ctl.find(c)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", u)
}

// PATCH /api/users/:id (SUPER_ADMIN). A super admin cannot demote or deactivate themself.
func (ctl *UserController) Update(c *fiber.Ctx) error {
	u, err := ctl.find(c)
	if err != nil {
		return err
	}
	var req dto.UpdateUserRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &req); err != nil {
		return err
	}
	self := u.ID == helperAuth.GetUserID(c)
	if self && ((req.Role != nil && *req.Role != u.Role) || (req.IsActive != nil && !*req.IsActive)) {
		return helper.Conflict("Impossible de modifier votre propre rôle ou statut")
	}

	if req.FullName != nil {
		u.FullName = *req.FullName
	}
	if req.Role != nil {
		u.Role = *req.Role
	}
	if req.IsActive != nil {
		u.IsActive = *req.IsActive
	}
	if err := ctl.DB.WithContext(c.UserContext()).Save(u).Error; err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Utilisateur mis à jour", u)
}

func (ctl *UserController) find(c *fiber.Ctx) (*model.UserModel, error) {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, err
	}
	var u model.UserModel
	if err := helper.FirstOr404(c.UserContext(), ctl.DB, &u, "Utilisateur introuvable", "id = ?", id); err != nil {
		return nil, err
	}
	return &u, nil
}
