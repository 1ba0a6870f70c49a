// file: internals/features/school/academics/academic_years/controller/academic_year_controller.go
package controller

import (
	"strings"

	termModel "schoolku_backend/internals/features/school/academics/academic_terms/model"
	"schoolku_backend/internals/features/school/academics/academic_years/dto"
	"schoolku_backend/internals/features/school/academics/academic_years/model"
	helper "schoolku_backend/internals/helpers"
	helperAuth "schoolku_backend/internals/helpers/auth"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const msgYearNotFound = "Année scolaire introuvable"

type AcademicYearController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewAcademicYearController(db *gorm.DB, v *validator.Validate) *AcademicYearController {
	return &AcademicYearController{DB: db, Validator: v}
}

var yearSortable = map[string]string{
	"name":      "academic_year_name",
	"startDate": "academic_year_start_date",
	"createdAt": "academic_year_created_at",
}

/* ============================================
   GET /api/academic-years
============================================ */

func (ctl *AcademicYearController) List(c *fiber.Ctx) error {
	schoolID := helperAuth.GetSchoolID(c)
	p := helper.ParseFiber(c, "startDate", "desc", helper.DefaultOpts)

	q := ctl.DB.WithContext(c.UserContext()).Model(&model.AcademicYearModel{}).
		Where("academic_year_school_id = ?", schoolID)
	if s := strings.TrimSpace(c.Query("q")); s != "" {
		q = q.Where("LOWER(academic_year_name) LIKE ?", "%"+strings.ToLower(s)+"%")
	}
	if v := c.Query("isCurrent"); v != "" {
		q = q.Where("academic_year_is_current = ?", v == "true" || v == "1")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return err
	}
	rows := []model.AcademicYearModel{}
	if err := q.Order(p.SafeOrderClause(yearSortable, "startDate")).
		Limit(p.Limit()).Offset(p.Offset()).Find(&rows).Error; err != nil {
		return err
	}
	return helper.JsonList(c, "OK", rows, helper.BuildMeta(total, p))
}

/* ============================================
   GET /api/academic-years/current
============================================ */

func (ctl *AcademicYearController) Current(c *fiber.Ctx) error {
	y, err := helperAuth.RequireAcademicYear(c, ctl.DB, helperAuth.GetSchoolID(c))
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", y)
}

func (ctl *AcademicYearController) Get(c *fiber.Ctx) error {
	ent, err := ctl.find(c)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", ent)
}

/* ============================================
   POST /api/academic-years (ADMIN)
============================================ */

func (ctl *AcademicYearController) Create(c *fiber.Ctx) error {
	var req dto.CreateAcademicYearRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &req); err != nil {
		return err
	}
	schoolID := helperAuth.GetSchoolID(c)
	ent, err := req.ToModel(schoolID)
	if err != nil {
		return err
	}
	if err := ctl.ensureNameFree(c, schoolID, ent.AcademicYearName, uuid.Nil); err != nil {
		return err
	}

	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if ent.AcademicYearIsCurrent {
			if err := unsetCurrent(tx, schoolID); err != nil {
				return err
			}
		}
		return tx.Create(ent).Error
	})
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Année scolaire créée", ent)
}

/* ============================================
   PATCH /api/academic-years/:id (ADMIN)
============================================ */

func (ctl *AcademicYearController) Update(c *fiber.Ctx) error {
	ent, err := ctl.find(c)
	if err != nil {
		return err
	}
	var req dto.UpdateAcademicYearRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &req); err != nil {
		return err
	}
	if err := req.ApplyUpdates(ent); err != nil {
		return err
	}
	if req.Name != nil {
		if err := ctl.ensureNameFree(c, ent.AcademicYearSchoolID, ent.AcademicYearName, ent.AcademicYearID); err != nil {
			return err
		}
	}
	if req.StartDate != nil || req.EndDate != nil {
		if err := ctl.ensureTermsInside(c, ent); err != nil {
			return err
		}
	}
	if err := ctl.DB.WithContext(c.UserContext()).Save(ent).Error; err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Année scolaire mise à jour", ent)
}

/* ============================================
   POST /api/academic-years/:id/set-current (ADMIN)
============================================ */

func (ctl *AcademicYearController) SetCurrent(c *fiber.Ctx) error {
	ent, err := ctl.find(c)
	if err != nil {
		return err
	}
	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := unsetCurrent(tx, ent.AcademicYearSchoolID); err != nil {
			return err
		}
		return tx.Model(&model.AcademicYearModel{}).
			Where("academic_year_id = ?", ent.AcademicYearID).
			UpdateColumn("academic_year_is_current", true).Error
	})
	if err != nil {
		return err
	}
	ent.AcademicYearIsCurrent = true
	return helper.JsonUpdated(c, "Année scolaire courante définie", ent)
}

func (ctl *AcademicYearController) Delete(c *fiber.Ctx) error {
	ent, err := ctl.find(c)
	if err != nil {
		return err
	}
	if err := ctl.DB.WithContext(c.UserContext()).Delete(ent).Error; err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Année scolaire supprimée", fiber.Map{"id": ent.AcademicYearID})
}

/* ============================================
   helpers
============================================ */

func (ctl *AcademicYearController) find(c *fiber.Ctx) (*model.AcademicYearModel, error) {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, err
	}
	var ent model.AcademicYearModel
	if err := helper.FirstOr404(c.UserContext(), ctl.DB, &ent, msgYearNotFound,
		"academic_year_id = ? AND academic_year_school_id = ?", id, helperAuth.GetSchoolID(c)); err != nil {
		return nil, err
	}
	return &ent, nil
}

func (ctl *AcademicYearController) ensureNameFree(c *fiber.Ctx, schoolID uuid.UUID, name string, exceptID uuid.UUID) error {
	taken, err := helper.Exists(c.UserContext(), ctl.DB, &model.AcademicYearModel{},
		"academic_year_school_id = ? AND LOWER(academic_year_name) = ? AND academic_year_id <> ?",
		schoolID, strings.ToLower(name), exceptID)
	if err != nil {
		return err
	}
	if taken {
		return helper.Conflict("Une année scolaire porte déjà ce nom")
	}
	return nil
}

// UpdateColumn skips the model hooks; BeforeSave would reject the empty date range.
func unsetCurrent(tx *gorm.DB, schoolID uuid.UUID) error {
	return tx.Model(&model.AcademicYearModel{}).
		Where("academic_year_school_id = ? AND academic_year_is_current = ?", schoolID, true).
		UpdateColumn("academic_year_is_current", false).Error
}

// ensureTermsInside rejects new year bounds that would leave a live term outside them.
func (ctl *AcademicYearController) ensureTermsInside(c *fiber.Ctx, ent *model.AcademicYearModel) error {
	outside, err := helper.Exists(c.UserContext(), ctl.DB, &termModel.AcademicTermModel{},
		"academic_term_academic_year_id = ? AND (academic_term_start_date < ? OR academic_term_end_date > ?)",
		ent.AcademicYearID, ent.AcademicYearStartDate, ent.AcademicYearEndDate)
	if err != nil {
		return err
	}
	if outside {
		return helper.BadRequest("Des périodes de cette année sortiraient des nouvelles dates")
	}
	return nil
}
