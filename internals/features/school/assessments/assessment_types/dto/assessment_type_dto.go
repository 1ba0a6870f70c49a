package dto

import (
	"strings"

	"schoolku_backend/internals/features/school/assessments/assessment_types/model"
	helper "schoolku_backend/internals/helpers"

	"github.com/google/uuid"
)

type CreateAssessmentTypeRequest struct {
	Name   string   `json:"name" validate:"required,min=2,max=60"`
	Weight *float64 `json:"weight" validate:"omitempty,gt=0,lte=100"`
}

func (r *CreateAssessmentTypeRequest) Normalize() { r.Name = strings.TrimSpace(r.Name) }

func (r *CreateAssessmentTypeRequest) ToModel(schoolID uuid.UUID) *model.AssessmentTypeModel {
	w := 1.0
	if r.Weight != nil {
		w = *r.Weight
	}
	return &model.AssessmentTypeModel{
		AssessmentTypeSchoolID: schoolID,
		AssessmentTypeName:     r.Name,
		AssessmentTypeWeight:   w,
	}
}

type UpdateAssessmentTypeRequest struct {
	Name   *string  `json:"name" validate:"omitempty,min=2,max=60"`
	Weight *float64 `json:"weight" validate:"omitempty,gt=0,lte=100"`
}

func (r *UpdateAssessmentTypeRequest) Normalize() { r.Name = helper.TrimPtr(r.Name) }

func (r *UpdateAssessmentTypeRequest) ApplyUpdates(m *model.AssessmentTypeModel) {
	if r.Name != nil {
		m.AssessmentTypeName = *r.Name
	}
	if r.Weight != nil {
		m.AssessmentTypeWeight = *r.Weight
	}
}
