package dto

import "github.com/google/uuid"

type CreateTeacherAssignmentRequest struct {
	TeacherID   uuid.UUID `json:"teacherId" validate:"required"`
	ClassroomID uuid.UUID `json:"classroomId" validate:"required"`
	SubjectID   uuid.UUID `json:"subjectId" validate:"required"`
}

type UpdateTeacherAssignmentRequest struct {
	TeacherID *uuid.UUID `json:"teacherId"`
}
