package dto

import (
	"strings"

	"schoolku_backend/internals/features/school/academics/academic_years/model"
	helper "schoolku_backend/internals/helpers"

	"github.com/google/uuid"
)

type CreateAcademicYearRequest struct {
	Name      string `json:"name" validate:"required,min=2,max=50"`
	StartDate string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"endDate" validate:"required,datetime=2006-01-02"`
	IsCurrent bool   `json:"isCurrent"`
}

func (r *CreateAcademicYearRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.StartDate = strings.TrimSpace(r.StartDate)
	r.EndDate = strings.TrimSpace(r.EndDate)
}

func (r *CreateAcademicYearRequest) ToModel(schoolID uuid.UUID) (*model.AcademicYearModel, error) {
	start, end, err := helper.ParseDateRange(r.StartDate, r.EndDate)
	if err != nil {
		return nil, err
	}
	return &model.AcademicYearModel{
		AcademicYearSchoolID:  schoolID,
		AcademicYearName:      r.Name,
		AcademicYearStartDate: start,
		AcademicYearEndDate:   end,
		AcademicYearIsCurrent: r.IsCurrent,
	}, nil
}

type UpdateAcademicYearRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=2,max=50"`
	StartDate *string `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate   *string `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
}

func (r *UpdateAcademicYearRequest) Normalize() {
	r.Name = helper.TrimPtr(r.Name)
	r.StartDate = helper.TrimPtr(r.StartDate)
	r.EndDate = helper.TrimPtr(r.EndDate)
}

// ApplyUpdates copies the provided fields and re-checks the date order.
func (r *UpdateAcademicYearRequest) ApplyUpdates(m *model.AcademicYearModel) error {
	if r.Name != nil {
		m.AcademicYearName = *r.Name
	}
	if t, err := helper.ParseDatePtr(r.StartDate); err != nil {
		return helper.BadRequest("startDate invalide")
	} else if t != nil {
		m.AcademicYearStartDate = *t
	}
	if t, err := helper.ParseDatePtr(r.EndDate); err != nil {
		return helper.BadRequest("endDate invalide")
	} else if t != nil {
		m.AcademicYearEndDate = *t
	}
	return helper.CheckDateOrder(m.AcademicYearStartDate, m.AcademicYearEndDate)
}
