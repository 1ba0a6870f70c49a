package dto

import (
	"strings"

	"schoolku_backend/internals/features/school/academics/academic_terms/model"
	helper "schoolku_backend/internals/helpers"

	"github.com/google/uuid"
)

type CreateAcademicTermRequest struct {
	AcademicYearID *uuid.UUID `json:"academicYearId"`
	Name           string     `json:"name" validate:"required,min=2,max=50"`
	Order          int        `json:"order" validate:"omitempty,min=1,max=12"`
	StartDate      string     `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate        string     `json:"endDate" validate:"required,datetime=2006-01-02"`
}

func (r *CreateAcademicTermRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.StartDate = strings.TrimSpace(r.StartDate)
	r.EndDate = strings.TrimSpace(r.EndDate)
}

func (r *CreateAcademicTermRequest) ToModel(schoolID, yearID uuid.UUID) (*model.AcademicTermModel, error) {
	start, end, err := helper.ParseDateRange(r.StartDate, r.EndDate)
	if err != nil {
		return nil, err
	}
	order := r.Order
	if order == 0 {
		order = 1
	}
	return &model.AcademicTermModel{
		AcademicTermSchoolID:       schoolID,
		AcademicTermAcademicYearID: yearID,
		AcademicTermName:           r.Name,
		AcademicTermOrder:          order,
		AcademicTermStartDate:      start,
		AcademicTermEndDate:        end,
	}, nil
}

type UpdateAcademicTermRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=2,max=50"`
	Order     *int    `json:"order" validate:"omitempty,min=1,max=12"`
	StartDate *string `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate   *string `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
}

func (r *UpdateAcademicTermRequest) Normalize() {
	r.Name = helper.TrimPtr(r.Name)
	r.StartDate = helper.TrimPtr(r.StartDate)
	r.EndDate = helper.TrimPtr(r.EndDate)
}

func (r *UpdateAcademicTermRequest) ApplyUpdates(m *model.AcademicTermModel) error {
	if r.Name != nil {
		m.AcademicTermName = *r.Name
	}
	if r.Order != nil {
		m.AcademicTermOrder = *r.Order
	}
	if t, err := helper.ParseDatePtr(r.StartDate); err != nil {
		return helper.BadRequest("startDate invalide")
	} else if t != nil {
		m.AcademicTermStartDate = *t
	}
	if t, err := helper.ParseDatePtr(r.EndDate); err != nil {
		return helper.BadRequest("endDate invalide")
	} else if t != nil {
		m.AcademicTermEndDate = *t
	}
	return helper.CheckDateOrder(m.AcademicTermStartDate, m.AcademicTermEndDate)
}
