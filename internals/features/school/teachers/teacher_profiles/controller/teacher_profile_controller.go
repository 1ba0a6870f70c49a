// file: internals/features/school/teachers/teacher_profiles/controller/teacher_profile_controller.go
package controller

import (
	"strings"

	"schoolku_backend/internals/constants"
	"schoolku_backend/internals/features/school/teachers/teacher_profiles/dto"
	"schoolku_backend/internals/features/school/teachers/teacher_profiles/model"
	assignmentModel "schoolku_backend/internals/features/school/teachers/teacher_assignments/model"
	userService "schoolku_backend/internals/features/users/users/service"
	helper "schoolku_backend/internals/helpers"
	helperAuth "schoolku_backend/internals/helpers/auth"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TeacherProfileController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewTeacherProfileController(db *gorm.DB, v *validator.Validate) *TeacherProfileController {
	return &TeacherProfileController{DB: db, Validator: v}
}

// GET /api/teacher-profiles ?q (name or email)
func (ctl *TeacherProfileController) List(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "createdAt", "desc", helper.DefaultOpts)
	q := ctl.DB.WithContext(c.UserContext()).Model(&model.TeacherProfileModel{}).
		Where("teacher_profile_school_id = ?", helperAuth.GetSchoolID(c))
	if s := strings.TrimSpace(c.Query("q")); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("teacher_profile_user_id IN (?)",
			ctl.DB.Table("users").Select("id").Where("LOWER(full_name) LIKE ? OR email LIKE ?", like, like))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return err
	}
	rows := []model.TeacherProfileModel{}
	if err := q.Order(p.SafeOrderClause(map[string]string{"createdAt": "teacher_profile_created_at"}, "createdAt")).
		Limit(p.Limit()).Offset(p.Offset()).Find(&rows).Error; err != nil {
		return err
	}
	ids := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.TeacherProfileUserID)
	}
	users, err := userService.Briefs(c.UserContext(), ctl.DB, ids)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "OK", dto.FromModels(rows, users), helper.BuildMeta(total, p))
}

func (ctl *TeacherProfileController) Get(c *fiber.Ctx) error {
	ent, err := ctl.find(c)
	if err != nil {
		return err
	}
	users, err := userService.Briefs(c.UserContext(), ctl.DB, []uuid.UUID{ent.TeacherProfileUserID})
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", dto.FromModels([]model.TeacherProfileModel{*ent}, users)[0])
}

// POST /api/teacher-profiles (ADMIN). The user must be a TEACHER member.
func (ctl *TeacherProfileController) Create(c *fiber.Ctx) error {
	var req dto.CreateTeacherProfileRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &req); err != nil {
		return err
	}
	schoolID := helperAuth.GetSchoolID(c)
	ok, err := helperAuth.HasMembershipRole(c.UserContext(), ctl.DB, req.UserID, schoolID, constants.RoleTeacher)
	if err != nil {
		return err
	}
	if !ok {
		return helper.BadRequest("L'utilisateur n'est pas enseignant de cette école")
	}
	ent, err := req.ToModel(schoolID)
	if err != nil {
		return err
	}
	if err := ctl.DB.WithContext(c.UserContext()).Create(ent).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.Conflict("Profil enseignant déjà existant")
		}
		return err
	}
	return helper.JsonCreated(c, "Profil enseignant créé", ent)
}

func (ctl *TeacherProfileController) Update(c *fiber.Ctx) error {
	ent, err := ctl.find(c)
	if err != nil {
		return err
	}
	var req dto.UpdateTeacherProfileRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &req); err != nil {
		return err
	}
	if err := req.ApplyUpdates(ent); err != nil {
		return err
	}
	if err := ctl.DB.WithContext(c.UserContext()).Save(ent).Error; err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Profil enseignant mis à jour", ent)
}

// DELETE /api/teacher-profiles/:id removes the profile and its assignments.
func (ctl *TeacherProfileController) Delete(c *fiber.Ctx) error {
	ent, err := ctl.find(c)
	if err != nil {
		return err
	}
	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("teacher_assignment_teacher_id = ?", ent.TeacherProfileID).
			Delete(&assignmentModel.TeacherAssignmentModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(ent).Error
	})
	if err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Profil enseignant supprimé", fiber.Map{"id": ent.TeacherProfileID})
}

func (ctl *TeacherProfileController) find(c *fiber.Ctx) (*model.TeacherProfileModel, error) {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, err
	}
	var ent model.TeacherProfileModel
	if err := helper.FirstOr404(c.UserContext(), ctl.DB, &ent, "Profil enseignant introuvable",
		"teacher_profile_id = ? AND teacher_profile_school_id = ?", id, helperAuth.GetSchoolID(c)); err != nil {
		return nil, err
	}
	return &ent, nil
}
