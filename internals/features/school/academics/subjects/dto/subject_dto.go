package dto

import (
	"strings"

	"schoolku_backend/internals/features/school/academics/subjects/model"
	helper "schoolku_backend/internals/helpers"

	"github.com/google/uuid"
)

type CreateSubjectRequest struct {
	Name        string     `json:"name" validate:"required,min=2,max=100"`
	Code        *string    `json:"code" validate:"omitempty,max=20"`
	Coefficient *float64   `json:"coefficient" validate:"omitempty,gt=0,lte=100"`
	CategoryID  *uuid.UUID `json:"categoryId"`
	Color       *string    `json:"color" validate:"omitempty,max=20"`
}

func (r *CreateSubjectRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Code = helper.TrimPtr(r.Code)
	r.Color = helper.TrimPtr(r.Color)
}

func (r *CreateSubjectRequest) ToModel(schoolID uuid.UUID) *model.SubjectModel {
	coef := 1.0
	if r.Coefficient != nil {
		coef = *r.Coefficient
	}
	return &model.SubjectModel{
		SubjectSchoolID:    schoolID,
		SubjectCategoryID:  r.CategoryID,
		SubjectName:        r.Name,
		SubjectCode:        r.Code,
		SubjectCoefficient: coef,
		SubjectColor:       r.Color,
	}
}

type UpdateSubjectRequest struct {
	Name        *string    `json:"name" validate:"omitempty,min=2,max=100"`
	Code        *string    `json:"code" validate:"omitempty,max=20"`
	Coefficient *float64   `json:"coefficient" validate:"omitempty,gt=0,lte=100"`
	CategoryID  *uuid.UUID `json:"categoryId"`
	Color       *string    `json:"color" validate:"omitempty,max=20"`
}

func (r *UpdateSubjectRequest) Normalize() {
	r.Name = helper.TrimPtr(r.Name)
	r.Code = helper.TrimPtr(r.Code)
	r.Color = helper.TrimPtr(r.Color)
}

func (r *UpdateSubjectRequest) ApplyUpdates(m *model.SubjectModel) {
	if r.Name != nil {
		m.SubjectName = *r.Name
	}
	if r.Code != nil {
		m.SubjectCode = r.Code
	}
	if r.Coefficient != nil {
		m.SubjectCoefficient = *r.Coefficient
	}
	if r.CategoryID != nil {
		m.SubjectCategoryID = r.CategoryID
	}
	if r.Color != nil {
		m.SubjectColor = r.Color
	}
}
