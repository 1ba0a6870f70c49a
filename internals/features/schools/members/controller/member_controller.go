package controller

import (
	"context"
	"strings"

	"schoolku_backend/internals/constants"
	"schoolku_backend/internals/features/schools/members/dto"
	"schoolku_backend/internals/features/schools/members/model"
	authService "schoolku_backend/internals/features/users/auth/service"
	userModel "schoolku_backend/internals/features/users/users/model"
	userService "schoolku_backend/internals/features/users/users/service"
	helper "schoolku_backend/internals/helpers"
	helperAuth "schoolku_backend/internals/helpers/auth"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	msgMemberNotFound = "Membre introuvable"
	msgLastAdmin      = "L'école doit garder au moins un administrateur"
)

type MemberController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewMemberController(db *gorm.DB, v *validator.Validate) *MemberController {
	return &MemberController{DB: db, Validator: v}
}

var memberSortable = map[string]string{
	"fullName":  "u.full_name",
	"email":     "u.email",
	"role":      "us.user_school_role",
	"createdAt": "us.user_school_created_at",
}

func (ctl *MemberController) base(ctx context.Context, schoolID uuid.UUID) *gorm.DB {
	return ctl.DB.WithContext(ctx).
		Table("user_schools us").
		Joins("JOIN users u ON u.id = us.user_school_user_id").
		Where("us.user_school_school_id = ?", schoolID)
}

const memberColumns = `us.user_school_id AS id, us.user_school_user_id AS user_id,
	us.user_school_school_id AS school_id, u.full_name AS full_name, u.email AS email,
	u.is_active AS is_active, us.user_school_role AS role, us.user_school_created_at AS created_at`

/* ============================================
   GET /api/school-members ?role ?q
============================================ */

func (ctl *MemberController) List(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "fullName", "asc", helper.AdminOpts)
	q := ctl.base(c.UserContext(), helperAuth.GetSchoolID(c))
	if r := strings.ToUpper(strings.TrimSpace(c.Query("role"))); r != "" {
		q = q.Where("us.user_school_role = ?", r)
	}
	if s := strings.TrimSpace(c.Query("q")); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(u.full_name) LIKE ? OR u.email LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return err
	}
	rows := []dto.MemberResponse{}
	if err := q.Select(memberColumns).
		Order(p.SafeOrderClause(memberSortable, "fullName")).
		Limit(p.Limit()).Offset(p.Offset()).Scan(&rows).Error; err != nil {
		return err
	}
	return helper.JsonList(c, "OK", rows, helper.BuildMeta(total, p))
}

/* ============================================
   POST /api/school-members
============================================ */

func (ctl *MemberController) Create(c *fiber.Ctx) error {
	var req dto.CreateMemberRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &req); err != nil {
		return err
	}
	ctx := c.UserContext()
	schoolID := helperAuth.GetSchoolID(c)

	var memberID uuid.UUID
	err := ctl.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := ctl.resolveUser(ctx, tx, &req)
		if err != nil {
			return err
		}
		m := model.UserSchoolModel{
			UserSchoolUserID:   user.ID,
			UserSchoolSchoolID: schoolID,
			UserSchoolRole:     req.Role,
		}
		if err := tx.Create(&m).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return helper.Conflict("Cet utilisateur est déjà membre de l'école")
			}
			return err
		}
		memberID = m.UserSchoolID
		return nil
	})
	if err != nil {
		return err
	}
	out, err := ctl.load(ctx, schoolID, memberID)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Membre ajouté", out)
}

// resolveUser finds the target user, creating it for an unknown email when
// fullName and password are given.
func (ctl *MemberController) resolveUser(ctx context.Context, tx *gorm.DB, req *dto.CreateMemberRequest) (*userModel.UserModel, error) {
	if req.UserID != nil {
		var u userModel.UserModel
		if err := helper.FirstOr404(ctx, tx, &u, "Utilisateur introuvable", "id = ?", *req.UserID); err != nil {
			return nil, err
		}
		return &u, nil
	}
	u, err := userService.FindByEmail(ctx, tx, *req.Email)
	if err != nil || u != nil {
		return u, err
	}
	if req.FullName == nil || req.Password == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Utilisateur introuvable (fullName et password requis pour le créer)")
	}
	hash, err := authService.HashPassword(*req.Password)
	if err != nil {
		return nil, err
	}
	u = &userModel.UserModel{
		FullName:     *req.FullName,
		Email:        *req.Email,
		PasswordHash: hash,
		Role:         constants.RoleUser,
		IsActive:     true,
	}
	if err := tx.Create(u).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, helper.Conflict("Email déjà utilisé")
		}
		return nil, err
	}
	return u, nil
}

/* ============================================
   PATCH /api/school-members/:id
============================================ */

func (ctl *MemberController) Update(c *fiber.Ctx) error {
	var req dto.UpdateMemberRequest
	m, err := ctl.find(c)
	if err != nil {
		return err
	}
	if err := helper.BindAndValidate(c, ctl.Validator, &req); err != nil {
		return err
	}
	ctx := c.UserContext()
	err = ctl.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if m.UserSchoolRole == constants.RoleAdmin && req.Role != constants.RoleAdmin {
			if err := ensureOtherAdmin(tx, m); err != nil {
				return err
			}
		}
		return tx.Model(m).Update("user_school_role", req.Role).Error
	})
	if err != nil {
		return err
	}
	out, err := ctl.load(ctx, m.UserSchoolSchoolID, m.UserSchoolID)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Rôle mis à jour", out)
}

/* ============================================
   DELETE /api/school-members/:id
============================================ */

func (ctl *MemberController) Delete(c *fiber.Ctx) error {
	m, err := ctl.find(c)
	if err != nil {
		return err
	}
	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if m.UserSchoolRole == constants.RoleAdmin {
			if err := ensureOtherAdmin(tx, m); err != nil {
				return err
			}
		}
		return tx.Delete(m).Error
	})
	if err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Membre retiré", fiber.Map{"id": m.UserSchoolID})
}

func ensureOtherAdmin(tx *gorm.DB, m *model.UserSchoolModel) error {
	var n int64
	if err := tx.Model(&model.UserSchoolModel{}).
		Where("user_school_school_id = ? AND user_school_role = ? AND user_school_id <> ?",
			m.UserSchoolSchoolID, constants.RoleAdmin, m.UserSchoolID).
		Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return helper.Conflict(msgLastAdmin)
	}
	return nil
}

func (ctl *MemberController) load(ctx context.Context, schoolID, id uuid.UUID) (*dto.MemberResponse, error) {
	var out dto.MemberResponse
	res := ctl.base(ctx, schoolID).Select(memberColumns).Where("us.user_school_id = ?", id).Limit(1).Scan(&out)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, fiber.NewError(fiber.StatusNotFound, msgMemberNotFound)
	}
	return &out, nil
}

func (ctl *MemberController) find(c *fiber.Ctx) (*model.UserSchoolModel, error) {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, err
	}
	var m model.UserSchoolModel
	if err := helper.FirstOr404(c.UserContext(), ctl.DB, &m, msgMemberNotFound,
		"user_school_id = ? AND user_school_school_id = ?", id, helperAuth.GetSchoolID(c)); err != nil {
		return nil, err
	}
	return &m, nil
}
