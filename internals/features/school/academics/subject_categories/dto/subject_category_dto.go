package dto

import (
	"strings"

	"schoolku_backend/internals/features/school/academics/subject_categories/model"
	helper "schoolku_backend/internals/helpers"

	"github.com/google/uuid"
)

type CreateSubjectCategoryRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=80"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

func (r *CreateSubjectCategoryRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Description = helper.TrimPtr(r.Description)
}

func (r *CreateSubjectCategoryRequest) ToModel(schoolID uuid.UUID) *model.SubjectCategoryModel {
	return &model.SubjectCategoryModel{
		SubjectCategorySchoolID:    schoolID,
		SubjectCategoryName:        r.Name,
		SubjectCategoryDescription: r.Description,
	}
}

type UpdateSubjectCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=80"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

func (r *UpdateSubjectCategoryRequest) Normalize() {
	r.Name = helper.TrimPtr(r.Name)
	if r.Description != nil {
		d := strings.TrimSpace(*r.Description)
		r.Description = &d
	}
}

// ApplyUpdates: an empty description clears it.
func (r *UpdateSubjectCategoryRequest) ApplyUpdates(m *model.SubjectCategoryModel) {
	if r.Name != nil {
		m.SubjectCategoryName = *r.Name
	}
	if r.Description != nil {
		m.SubjectCategoryDescription = helper.TrimPtr(r.Description)
	}
}
