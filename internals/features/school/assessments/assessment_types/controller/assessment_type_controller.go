package controller

import (
	"strings"

	"schoolku_backend/internals/features/school/assessments/assessment_types/dto"
	"schoolku_backend/internals/features/school/assessments/assessment_types/model"
	helper "schoolku_backend/internals/helpers"
	helperAuth "schoolku_backend/internals/helpers/auth"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AssessmentTypeController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewAssessmentTypeController(db *gorm.DB, v *validator.Validate) *AssessmentTypeController {
	return &AssessmentTypeController{DB: db, Validator: v}
}

// GET /api/assessment-types
func (ctl *AssessmentTypeController) List(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "name", "asc", helper.DefaultOpts)
	q := ctl.DB.WithContext(c.UserContext()).Model(&model.AssessmentTypeModel{}).
		Where("assessment_type_school_id = ?", helperAuth.GetSchoolID(c))
	if s := strings.TrimSpace(c.Query("q")); s != "" {
		q = q.Where("LOWER(assessment_type_name) LIKE ?", "%"+strings.ToLower(s)+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return err
	}
	rows := []model.AssessmentTypeModel{}
	if err := q.Order(p.SafeOrderClause(map[string]string{"name": "assessment_type_name", "weight": "assessment_type_weight"}, "name")).
		Limit(p.Limit()).Offset(p.Offset()).Find(&rows).Error; err != nil {
		return err
	}
	return helper.JsonList(c, "OK", rows, helper.BuildMeta(total, p))
}

func (ctl *AssessmentTypeController) Get(c *fiber.Ctx) error {
	ent, err := ctl.find(c)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", ent)
}

func (ctl *AssessmentTypeController) Create(c *fiber.Ctx) error {
	var req dto.CreateAssessmentTypeRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &req); err != nil {
		return err
	}
	ent := req.ToModel(helperAuth.GetSchoolID(c))
	if err := ctl.ensureNameFree(c, ent.AssessmentTypeName, uuid.Nil); err != nil {
		return err
	}
	if err := ctl.DB.WithContext(c.UserContext()).Create(ent).Error; err != nil {
		return err
	}
	return helper.JsonCreated(c, "Type d'évaluation créé", ent)
}

func (ctl *AssessmentTypeController) Update(c *fiber.Ctx) error {
	ent, err := ctl.find(c)
	if err != nil {
		return err
	}
	var req dto.UpdateAssessmentTypeRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &req); err != nil {
		return err
	}
	req.ApplyUpdates(ent)
	if req.Name != nil {
		if err := ctl.ensureNameFree(c, ent.AssessmentTypeName, ent.AssessmentTypeID); err != nil {
			return err
		}
	}
	if err := ctl.DB.WithContext(c.UserContext()).Save(ent).Error; err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Type d'évaluation mis à jour", ent)
}

func (ctl *AssessmentTypeController) Delete(c *fiber.Ctx) error {
	ent, err := ctl.find(c)
	if err != nil {
		return err
	}
	if err := ctl.DB.WithContext(c.UserContext()).Delete(ent).Error; err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Type d'évaluation supprimé", fiber.Map{"id": ent.AssessmentTypeID})
}

func (ctl *AssessmentTypeController) find(c *fiber.Ctx) (*model.AssessmentTypeModel, error) {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, err
	}
	var ent model.AssessmentTypeModel
	if err := helper.FirstOr404(c.UserContext(), ctl.DB, &ent, "Type d'évaluation introuvable",
		"assessment_type_id = ? AND assessment_type_school_id = ?", id, helperAuth.GetSchoolID(c)); err != nil {
		return nil, err
	}
	return &ent, nil
}

func (ctl *AssessmentTypeController) ensureNameFree(c *fiber.Ctx, name string, exceptID uuid.UUID) error {
	taken, err := helper.Exists(c.UserContext(), ctl.DB, &model.AssessmentTypeModel{},
		"assessment_type_school_id = ? AND LOWER(assessment_type_name) = ? AND assessment_type_id <> ?",
		helperAuth.GetSchoolID(c), strings.ToLower(name), exceptID)
	if err != nil {
		return err
	}
	if taken {
		return helper.Conflict("Un type d'évaluation porte déjà ce nom")
	}
	return nil
}
