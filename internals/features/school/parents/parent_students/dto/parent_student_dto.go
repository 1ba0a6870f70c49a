package dto

import (
	"strings"

	"github.com/google/uuid"
)

type CreateParentStudentRequest struct {
	ParentID     uuid.UUID `json:"parentId" validate:"required"`
	StudentID    uuid.UUID `json:"studentId" validate:"required"`
	Relationship string    `json:"relationship" validate:"required,oneof=FATHER MOTHER GUARDIAN OTHER"`
}

func (r *CreateParentStudentRequest) Normalize() {
	r.Relationship = strings.ToUpper(strings.TrimSpace(r.Relationship))
}

// Child is a linked student as seen by the parent.
type Child struct {
	LinkID       uuid.UUID  `json:"linkId"`
	StudentID    uuid.UUID  `json:"studentId"`
	FullName     string     `json:"fullName"`
	Email        string     `json:"email"`
	Relationship string     `json:"relationship"`
	ClassroomID  *uuid.UUID `json:"classroomId,omitempty"`
}
