// file: internals/features/school/academics/academic_terms/controller/academic_term_controller.go
package controller

import (
	"strings"

	"schoolku_backend/internals/features/school/academics/academic_terms/dto"
	"schoolku_backend/internals/features/school/academics/academic_terms/model"
	yearModel "schoolku_backend/internals/features/school/academics/academic_years/model"
	helper "schoolku_backend/internals/helpers"
	helperAuth "schoolku_backend/internals/helpers/auth"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const msgTermNotFound = "Période introuvable"

var errTermOutsideYear = helper.BadRequest("La période doit être comprise dans l'année scolaire")

type AcademicTermController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewAcademicTermController(db *gorm.DB, v *validator.Validate) *AcademicTermController {
	return &AcademicTermController{DB: db, Validator: v}
}

var termSortable = map[string]string{
	"order":     "academic_term_order",
	"name":      "academic_term_name",
	"startDate": "academic_term_start_date",
}

/* ============================================
   GET /api/terms
   ?academicYearId (default: active year)
============================================ */

func (ctl *AcademicTermController) List(c *fiber.Ctx) error {
	schoolID := helperAuth.GetSchoolID(c)
	year, err := helperAuth.ResolveAcademicYear(c, ctl.DB, schoolID)
	if err != nil {
		return err
	}
	p := helper.ParseFiber(c, "order", "asc", helper.DefaultOpts)

	q := ctl.DB.WithContext(c.UserContext()).Model(&model.AcademicTermModel{}).
		Where("academic_term_school_id = ?", schoolID)
	if year != nil {
		q = q.Where("academic_term_academic_year_id = ?", year.AcademicYearID)
	}
	if s := strings.TrimSpace(c.Query("q")); s != "" {
		q = q.Where("LOWER(academic_term_name) LIKE ?", "%"+strings.ToLower(s)+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return err
	}
	rows := []model.AcademicTermModel{}
	if err := q.Order(p.SafeOrderClause(termSortable, "order")).
		Limit(p.Limit()).Offset(p.Offset()).Find(&rows).Error; err != nil {
		return err
	}
	return helper.JsonList(c, "OK", rows, helper.BuildMeta(total, p))
}

func (ctl *AcademicTermController) Get(c *fiber.Ctx) error {
	ent, err := ctl.find(c)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", ent)
}

/* ============================================
   POST /api/terms (ADMIN)
============================================ */

func (ctl *AcademicTermController) Create(c *fiber.Ctx) error {
	var req dto.CreateAcademicTermRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &req); err != nil {
		return err
	}
	schoolID := helperAuth.GetSchoolID(c)

	var year *yearModel.AcademicYearModel
	var err error
	if req.AcademicYearID != nil {
		year, err = helperAuth.FindAcademicYear(c.UserContext(), ctl.DB, schoolID, *req.AcademicYearID)
		if err == nil && year == nil {
			err = helperAuth.ErrAcademicYearNotFound
		}
	} else {
		year, err = helperAuth.RequireAcademicYear(c, ctl.DB, schoolID)
	}
	if err != nil {
		return err
	}

	ent, err := req.ToModel(schoolID, year.AcademicYearID)
	if err != nil {
		return err
	}
	if !year.Contains(ent.AcademicTermStartDate, ent.AcademicTermEndDate) {
		return errTermOutsideYear
	}
	if err := ctl.DB.WithContext(c.UserContext()).Create(ent).Error; err != nil {
		return err
	}
	return helper.JsonCreated(c, "Période créée", ent)
}

/* ============================================
   PATCH /api/terms/:id (ADMIN)
============================================ */

func (ctl *AcademicTermController) Update(c *fiber.Ctx) error {
	ent, err := ctl.find(c)
	if err != nil {
		return err
	}
	var req dto.UpdateAcademicTermRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &req); err != nil {
		return err
	}
	if err := req.ApplyUpdates(ent); err != nil {
		return err
	}
	year, err := helperAuth.FindAcademicYear(c.UserContext(), ctl.DB, ent.AcademicTermSchoolID, ent.AcademicTermAcademicYearID)
	if err != nil {
		return err
	}
	if year != nil && !year.Contains(ent.AcademicTermStartDate, ent.AcademicTermEndDate) {
		return errTermOutsideYear
	}
	if err := ctl.DB.WithContext(c.UserContext()).Save(ent).Error; err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Période mise à jour", ent)
}

func (ctl *AcademicTermController) Delete(c *fiber.Ctx) error {
	ent, err := ctl.find(c)
	if err != nil {
		return err
	}
	if err := ctl.DB.WithContext(c.UserContext()).Delete(ent).Error; err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Période supprimée", fiber.Map{"id": ent.AcademicTermID})
}

func (ctl *AcademicTermController) find(c *fiber.Ctx) (*model.AcademicTermModel, error) {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, err
	}
	var ent model.AcademicTermModel
	if err := helper.FirstOr404(c.UserContext(), ctl.DB, &ent, msgTermNotFound,
		"academic_term_id = ? AND academic_term_school_id = ?", id, helperAuth.GetSchoolID(c)); err != nil {
		return nil, err
	}
	return &ent, nil
}
