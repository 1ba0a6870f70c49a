package dto

import (
	"schoolku_backend/internals/features/school/assessments/student_grades/model"
	helper "schoolku_backend/internals/helpers"

	"github.com/google/uuid"
)

type CreateStudentGradeRequest struct {
	AssessmentID uuid.UUID `json:"assessmentId" validate:"required"`
	StudentID    uuid.UUID `json:"studentId" validate:"required"`
	Score        *float64  `json:"score" validate:"required,gte=0"`
	Comment      *string   `json:"comment" validate:"omitempty,max=1000"`
}

func (r *CreateStudentGradeRequest) Normalize() {
	r.Comment = helper.TrimPtr(r.Comment)
}

func (r *CreateStudentGradeRequest) ToModel(schoolID, gradedBy uuid.UUID) *model.StudentGradeModel {
	return &model.StudentGradeModel{
		StudentGradeSchoolID:     schoolID,
		StudentGradeAssessmentID: r.AssessmentID,
		StudentGradeStudentID:    r.StudentID,
		StudentGradeScore:        *r.Score,
		StudentGradeComment:      r.Comment,
		StudentGradeGradedBy:     &gradedBy,
	}
}

type UpdateStudentGradeRequest struct {
	Score   *float64 `json:"score" validate:"omitempty,gte=0"`
	Comment *string  `json:"comment" validate:"omitempty,max=1000"`
}

func (r *UpdateStudentGradeRequest) Normalize() {
	r.Comment = helper.TrimPtr(r.Comment)
}

func (r *UpdateStudentGradeRequest) ApplyUpdates(m *model.StudentGradeModel, gradedBy uuid.UUID) {
	if r.Score != nil {
		m.StudentGradeScore = *r.Score
	}
	if r.Comment != nil {
		m.StudentGradeComment = r.Comment
	}
	m.StudentGradeGradedBy = &gradedBy
}

type BulkGradeItem struct {
	StudentID uuid.UUID `json:"studentId" validate:"required"`
	Score     *float64  `json:"score" validate:"required,gte=0"`
	Comment   *string   `json:"comment" validate:"omitempty,max=1000"`
}

type BulkGradesRequest struct {
	AssessmentID uuid.UUID       `json:"assessmentId" validate:"required"`
	Grades       []BulkGradeItem `json:"grades" validate:"required,min=1,max=500,dive"`
}

func (r *BulkGradesRequest) Normalize() {
	for i := range r.Grades {
		r.Grades[i].Comment = helper.TrimPtr(r.Grades[i].Comment)
	}
}

type BulkGradesResponse struct {
	Count  int                       `json:"count"`
	Grades []model.StudentGradeModel `json:"grades"`
}
