// file: internals/features/school/academics/subjects/controller/subject_controller.go
package controller

import (
	"strings"

	categoryModel "schoolku_backend/internals/features/school/academics/subject_categories/model"
	"schoolku_backend/internals/features/school/academics/subjects/dto"
	"schoolku_backend/internals/features/school/academics/subjects/model"
	helper "schoolku_backend/internals/helpers"
	helperAuth "schoolku_backend/internals/helpers/auth"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubjectController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewSubjectController(db *gorm.DB, v *validator.Validate) *SubjectController {
	return &SubjectController{DB: db, Validator: v}
}

var subjectSortable = map[string]string{
	"name":        "subject_name",
	"code":        "subject_code",
	"coefficient": "subject_coefficient",
	"createdAt":   "subject_created_at",
}

/* ============================================
   GET /api/subjects  ?q ?categoryId
============================================ */

func (ctl *SubjectController) List(c *fiber.Ctx) error {
	categoryID, err := helper.QueryUUID(c, "categoryId")
	if err != nil {
		return err
	}
	p := helper.ParseFiber(c, "name", "asc", helper.DefaultOpts)

	q := ctl.DB.WithContext(c.UserContext()).Model(&model.SubjectModel{}).
		Where("subject_school_id = ?", helperAuth.GetSchoolID(c))
	if categoryID != nil {
		q = q.Where("subject_category_id = ?", *categoryID)
	}
	if s := strings.TrimSpace(c.Query("q")); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(subject_name) LIKE ? OR LOWER(subject_code) LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return err
	}
	rows := []model.SubjectModel{}
	if err := q.Order(p.SafeOrderClause(subjectSortable, "name")).
		Limit(p.Limit()).Offset(p.Offset()).Find(&rows).Error; err != nil {
		return err
	}
	return helper.JsonList(c, "OK", rows, helper.BuildMeta(total, p))
}

func (ctl *SubjectController) Get(c *fiber.Ctx) error {
	ent, err := ctl.find(c)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", ent)
}

/* ============================================
   POST /api/subjects (ADMIN)
============================================ */

func (ctl *SubjectController) Create(c *fiber.Ctx) error {
	var req dto.CreateSubjectRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &req); err != nil {
		return err
	}
	ent := req.ToModel(helperAuth.GetSchoolID(c))
	if err := ctl.checkRefs(c, ent, uuid.Nil); err != nil {
		return err
	}
	if err := ctl.DB.WithContext(c.UserContext()).Create(ent).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.Conflict("Code matière déjà utilisé")
		}
		return err
	}
	return helper.JsonCreated(c, "Matière créée", ent)
}

/* ============================================
   PATCH /api/subjects/:id (ADMIN)
============================================ */

func (ctl *SubjectController) Update(c *fiber.Ctx) error {
	ent, err := ctl.find(c)
	if err != nil {
		return err
	}
	var req dto.UpdateSubjectRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &req); err != nil {
		return err
	}
	req.ApplyUpdates(ent)
	if err := ctl.checkRefs(c, ent, ent.SubjectID); err != nil {
		return err
	}
	if err := ctl.DB.WithContext(c.UserContext()).Save(ent).Error; err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Matière mise à jour", ent)
}

func (ctl *SubjectController) Delete(c *fiber.Ctx) error {
	ent, err := ctl.find(c)
	if err != nil {
		return err
	}
	if err := ctl.DB.WithContext(c.UserContext()).Delete(ent).Error; err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Matière supprimée", fiber.Map{"id": ent.SubjectID})
}

func (ctl *SubjectController) find(c *fiber.Ctx) (*model.SubjectModel, error) {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, err
	}
	var ent model.SubjectModel
	if err := helper.FirstOr404(c.UserContext(), ctl.DB, &ent, "Matière introuvable",
		"subject_id = ? AND subject_school_id = ?", id, helperAuth.GetSchoolID(c)); err != nil {
		return nil, err
	}
	return &ent, nil
}

// checkRefs: category in the same school, code unique among live subjects.
func (ctl *SubjectController) checkRefs(c *fiber.Ctx, ent *model.SubjectModel, exceptID uuid.UUID) error {
	ctx := c.UserContext()
	if ent.SubjectCategoryID != nil {
		if err := helper.RequireRef(ctx, ctl.DB, &categoryModel.SubjectCategoryModel{}, "Catégorie introuvable",
			"subject_category_id = ? AND subject_category_school_id = ?", *ent.SubjectCategoryID, ent.SubjectSchoolID); err != nil {
			return err
		}
	}
	if ent.SubjectCode != nil {
		taken, err := helper.Exists(ctx, ctl.DB, &model.SubjectModel{},
			"subject_school_id = ? AND UPPER(subject_code) = ? AND subject_id <> ?",
			ent.SubjectSchoolID, strings.ToUpper(*ent.SubjectCode), exceptID)
		if err != nil {
			return err
		}
		if taken {
			return helper.Conflict("Code matière déjà utilisé")
		}
	}
	return nil
}
