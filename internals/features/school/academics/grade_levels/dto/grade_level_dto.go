package dto

import (
	"strings"

	"schoolku_backend/internals/features/school/academics/grade_levels/model"
	helper "schoolku_backend/internals/helpers"

	"github.com/google/uuid"
)

type CreateGradeLevelRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=50"`
	Order int    `json:"order" validate:"min=0,max=100"`
}

func (r *CreateGradeLevelRequest) Normalize() { r.Name = strings.TrimSpace(r.Name) }

func (r *CreateGradeLevelRequest) ToModel(schoolID uuid.UUID) *model.GradeLevelModel {
	return &model.GradeLevelModel{
		GradeLevelSchoolID: schoolID,
		GradeLevelName:     r.Name,
		GradeLevelOrder:    r.Order,
	}
}

type UpdateGradeLevelRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=50"`
	Order *int    `json:"order" validate:"omitempty,min=0,max=100"`
}

func (r *UpdateGradeLevelRequest) Normalize() { r.Name = helper.TrimPtr(r.Name) }

func (r *UpdateGradeLevelRequest) ApplyUpdates(m *model.GradeLevelModel) {
	if r.Name != nil {
		m.GradeLevelName = *r.Name
	}
	if r.Order != nil {
		m.GradeLevelOrder = *r.Order
	}
}
