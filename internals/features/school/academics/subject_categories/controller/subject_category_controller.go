package controller

import (
	"strings"

	"schoolku_backend/internals/features/school/academics/subject_categories/dto"
	"schoolku_backend/internals/features/school/academics/subject_categories/model"
	subjectModel "schoolku_backend/internals/features/school/academics/subjects/model"
	helper "schoolku_backend/internals/helpers"
	helperAuth "schoolku_backend/internals/helpers/auth"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type SubjectCategoryController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewSubjectCategoryController(db *gorm.DB, v *validator.Validate) *SubjectCategoryController {
	return &SubjectCategoryController{DB: db, Validator: v}
}

// GET /api/subject-categories
func (ctl *SubjectCategoryController) List(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "name", "asc", helper.DefaultOpts)
	q := ctl.DB.WithContext(c.UserContext()).Model(&model.SubjectCategoryModel{}).
		Where("subject_category_school_id = ?", helperAuth.GetSchoolID(c))
	if s := strings.TrimSpace(c.Query("q")); s != "" {
		q = q.Where("LOWER(subject_category_name) LIKE ?", "%"+strings.ToLower(s)+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return err
	}
	rows := []model.SubjectCategoryModel{}
	if err := q.Order(p.SafeOrderClause(map[string]string{"name": "subject_category_name", "createdAt": "subject_category_created_at"}, "name")).
		Limit(p.Limit()).Offset(p.Offset()).Find(&rows).Error; err != nil {
		return err
	}
	return helper.JsonList(c, "OK", rows, helper.BuildMeta(total, p))
}

func (ctl *SubjectCategoryController) Get(c *fiber.Ctx) error {
	ent, err := ctl.find(c)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", ent)
}

func (ctl *SubjectCategoryController) Create(c *fiber.Ctx) error {
	var req dto.CreateSubjectCategoryRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &req); err != nil {
		return err
	}
	ent := req.ToModel(helperAuth.GetSchoolID(c))
	if err := ctl.DB.WithContext(c.UserContext()).Create(ent).Error; err != nil {
		return err
	}
	return helper.JsonCreated(c, "Catégorie créée", ent)
}

func (ctl *SubjectCategoryController) Update(c *fiber.Ctx) error {
	ent, err := ctl.find(c)
	if err != nil {
		return err
	}
	var req dto.UpdateSubjectCategoryRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &req); err != nil {
		return err
	}
	req.ApplyUpdates(ent)
	if err := ctl.DB.WithContext(c.UserContext()).Save(ent).Error; err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Catégorie mise à jour", ent)
}

// DELETE /api/subject-categories/:id detaches its subjects first.
func (ctl *SubjectCategoryController) Delete(c *fiber.Ctx) error {
	ent, err := ctl.find(c)
	if err != nil {
		return err
	}
	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&subjectModel.SubjectModel{}).
			Where("subject_category_id = ?", ent.SubjectCategoryID).
			UpdateColumn("subject_category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(ent).Error
	})
	if err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Catégorie supprimée", fiber.Map{"id": ent.SubjectCategoryID})
}

func (ctl *SubjectCategoryController) find(c *fiber.Ctx) (*model.SubjectCategoryModel, error) {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, err
	}
	var ent model.SubjectCategoryModel
	if err := helper.FirstOr404(c.UserContext(), ctl.DB, &ent, "Catégorie introuvable",
		"subject_category_id = ? AND subject_category_school_id = ?", id, helperAuth.GetSchoolID(c)); err != nil {
		return nil, err
	}
	return &ent, nil
}
