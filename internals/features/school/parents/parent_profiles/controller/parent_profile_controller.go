package controller

import (
	"strings"

	"schoolku_backend/internals/constants"
	"schoolku_backend/internals/features/school/parents/parent_profiles/dto"
	"schoolku_backend/internals/features/school/parents/parent_profiles/model"
	linkModel "schoolku_backend/internals/features/school/parents/parent_students/model"
	userService "schoolku_backend/internals/features/users/users/service"
	helper "schoolku_backend/internals/helpers"
	helperAuth "schoolku_backend/internals/helpers/auth"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ParentProfileController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewParentProfileController(db *gorm.DB, v *validator.Validate) *ParentProfileController {
	return &ParentProfileController{DB: db, Validator: v}
}

// GET /api/parent-profiles ?q
func (ctl *ParentProfileController) List(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "createdAt", "desc", helper.DefaultOpts)
	q := ctl.DB.WithContext(c.UserContext()).Model(&model.ParentProfileModel{}).
		Where("parent_profile_school_id = ?", helperAuth.GetSchoolID(c))
	if s := strings.TrimSpace(c.Query("q")); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("parent_profile_user_id IN (?)",
			ctl.DB.Table("users").Select("id").Where("LOWER(full_name) LIKE ? OR email LIKE ?", like, like))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return err
	}
	rows := []model.ParentProfileModel{}
	if err := q.Order(p.SafeOrderClause(map[string]string{"createdAt": "parent_profile_created_at"}, "createdAt")).
		Limit(p.Limit()).Offset(p.Offset()).Find(&rows).Error; err != nil {
		return err
	}
	ids := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ParentProfileUserID)
	}
	users, err := userService.Briefs(c.UserContext(), ctl.DB, ids)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "OK", dto.FromModels(rows, users), helper.BuildMeta(total, p))
}

func (ctl *ParentProfileController) Get(c *fiber.Ctx) error {
	ent, err := ctl.find(c)
	if err != nil {
		return err
	}
	users, err := userService.Briefs(c.UserContext(), ctl.DB, []uuid.UUID{ent.ParentProfileUserID})
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", dto.FromModels([]model.ParentProfileModel{*ent}, users)[0])
}

// POST /api/parent-profiles (ADMIN). The user must be a PARENT member.
func (ctl *ParentProfileController) Create(c *fiber.Ctx) error {
	var req dto.CreateParentProfileRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &req); err != nil {
		return err
	}
	schoolID := helperAuth.GetSchoolID(c)
	ok, err := helperAuth.HasMembershipRole(c.UserContext(), ctl.DB, req.UserID, schoolID, constants.RoleParent)
	if err != nil {
		return err
	}
	if !ok {
		return helper.BadRequest("L'utilisateur n'est pas parent dans cette école")
	}
	ent := req.ToModel(schoolID)
	if err := ctl.DB.WithContext(c.UserContext()).Create(ent).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.Conflict("Profil parent déjà existant")
		}
		return err
	}
	return helper.JsonCreated(c, "Profil parent créé", ent)
}

func (ctl *ParentProfileController) Update(c *fiber.Ctx) error {
	ent, err := ctl.find(c)
	if err != nil {
		return err
	}
	var req dto.UpdateParentProfileRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &req); err != nil {
		return err
	}
	req.ApplyUpdates(ent)
	if err := ctl.DB.WithContext(c.UserContext()).Save(ent).Error; err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Profil parent mis à jour", ent)
}

// DELETE /api/parent-profiles/:id also drops the parent's child links.
func (ctl *ParentProfileController) Delete(c *fiber.Ctx) error {
	ent, err := ctl.find(c)
	if err != nil {
		return err
	}
	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("parent_student_parent_id = ?", ent.ParentProfileID).
			Delete(&linkModel.ParentStudentModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(ent).Error
	})
	if err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Profil parent supprimé", fiber.Map{"id": ent.ParentProfileID})
}

func (ctl *ParentProfileController) find(c *fiber.Ctx) (*model.ParentProfileModel, error) {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, err
	}
	var ent model.ParentProfileModel
	if err := helper.FirstOr404(c.UserContext(), ctl.DB, &ent, "Profil parent introuvable",
		"parent_profile_id = ? AND parent_profile_school_id = ?", id, helperAuth.GetSchoolID(c)); err != nil {
		return nil, err
	}
	return &ent, nil
}
