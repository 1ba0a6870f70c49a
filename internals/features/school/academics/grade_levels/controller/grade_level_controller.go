package controller

import (
	"strings"

	"schoolku_backend/internals/features/school/academics/grade_levels/dto"
	"schoolku_backend/internals/features/school/academics/grade_levels/model"
	helper "schoolku_backend/internals/helpers"
	helperAuth "schoolku_backend/internals/helpers/auth"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GradeLevelController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewGradeLevelController(db *gorm.DB, v *validator.Validate) *GradeLevelController {
	return &GradeLevelController{DB: db, Validator: v}
}

var gradeLevelSortable = map[string]string{
	"order": "grade_level_order",
	"name":  "grade_level_name",
}

// GET /api/grade-levels
func (ctl *GradeLevelController) List(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "order", "asc", helper.DefaultOpts)
	q := ctl.DB.WithContext(c.UserContext()).Model(&model.GradeLevelModel{}).
		Where("grade_level_school_id = ?", helperAuth.GetSchoolID(c))
	if s := strings.TrimSpace(c.Query("q")); s != "" {
		q = q.Where("LOWER(grade_level_name) LIKE ?", "%"+strings.ToLower(s)+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return err
	}
	rows := []model.GradeLevelModel{}
	if err := q.Order(p.SafeOrderClause(gradeLevelSortable, "order")).
		Limit(p.Limit()).Offset(p.Offset()).Find(&rows).Error; err != nil {
		return err
	}
	return helper.JsonList(c, "OK", rows, helper.BuildMeta(total, p))
}

func (ctl *GradeLevelController) Get(c *fiber.Ctx) error {
	ent, err := ctl.find(c)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", ent)
}

// POST /api/grade-levels
func (ctl *GradeLevelController) Create(c *fiber.Ctx) error {
	var req dto.CreateGradeLevelRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &req); err != nil {
		return err
	}
	ent := req.ToModel(helperAuth.GetSchoolID(c))
	if err := ctl.ensureNameFree(c, ent.GradeLevelName, uuid.Nil); err != nil {
		return err
	}
	if err := ctl.DB.WithContext(c.UserContext()).Create(ent).Error; err != nil {
		return err
	}
	return helper.JsonCreated(c, "Niveau créé", ent)
}

// PATCH /api/grade-levels/:id
func (ctl *GradeLevelController) Update(c *fiber.Ctx) error {
	ent, err := ctl.find(c)
	if err != nil {
		return err
	}
	var req dto.UpdateGradeLevelRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &req); err != nil {
		return err
	}
	req.ApplyUpdates(ent)
	if req.Name != nil {
		if err := ctl.ensureNameFree(c, ent.GradeLevelName, ent.GradeLevelID); err != nil {
			return err
		}
	}
	if err := ctl.DB.WithContext(c.UserContext()).Save(ent).Error; err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Niveau mis à jour", ent)
}

func (ctl *GradeLevelController) Delete(c *fiber.Ctx) error {
	ent, err := ctl.find(c)
	if err != nil {
		return err
	}
	if err := ctl.DB.WithContext(c.UserContext()).Delete(ent).Error; err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Niveau supprimé", fiber.Map{"id": ent.GradeLevelID})
}

func (ctl *GradeLevelController) find(c *fiber.Ctx) (*model.GradeLevelModel, error) {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, err
	}
	var ent model.GradeLevelModel
	if err := helper.FirstOr404(c.UserContext(), ctl.DB, &ent, "Niveau introuvable",
		"grade_level_id = ? AND grade_level_school_id = ?", id, helperAuth.GetSchoolID(c)); err != nil {
		return nil, err
	}
	return &ent, nil
}

func (ctl *GradeLevelController) ensureNameFree(c *fiber.Ctx, name string, exceptID uuid.UUID) error {
	taken, err := helper.Exists(c.UserContext(), ctl.DB, &model.GradeLevelModel{},
		"grade_level_school_id = ? AND LOWER(grade_level_name) = ? AND grade_level_id <> ?",
		helperAuth.GetSchoolID(c), strings.ToLower(name), exceptID)
	if err != nil {
		return err
	}
	if taken {
		return helper.Conflict("Un niveau porte déjà ce nom")
	}
	return nil
}
