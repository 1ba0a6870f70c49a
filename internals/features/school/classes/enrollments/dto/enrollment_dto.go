package dto

import (
	"strings"

	"github.com/google/uuid"
)

type CreateEnrollmentRequest struct {
	StudentID   uuid.UUID `json:"studentId" validate:"required"`
	ClassroomID uuid.UUID `json:"classroomId" validate:"required"`
	Status      string    `json:"status" validate:"omitempty,oneof=ACTIVE TRANSFERRED WITHDRAWN"`
	EnrolledAt  *string   `json:"enrolledAt" validate:"omitempty,datetime=2006-01-02"`
}

func (r *CreateEnrollmentRequest) Normalize() {
	r.Status = strings.ToUpper(strings.TrimSpace(r.Status))
}

type UpdateEnrollmentRequest struct {
	ClassroomID *uuid.UUID `json:"classroomId"`
	Status      *string    `json:"status" validate:"omitempty,oneof=ACTIVE TRANSFERRED WITHDRAWN"`
	EnrolledAt  *string    `json:"enrolledAt" validate:"omitempty,datetime=2006-01-02"`
}

func (r *UpdateEnrollmentRequest) Normalize() {
	if r.Status != nil {
		s := strings.ToUpper(strings.TrimSpace(*r.Status))
		r.Status = &s
	}
}
