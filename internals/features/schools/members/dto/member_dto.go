package dto

import (
	"strings"
	"time"

	helper "schoolku_backend/internals/helpers"

	"github.com/google/uuid"
)

// CreateMemberRequest targets an existing user by userId or email. An unknown
// email with fullName and password creates the account.
type CreateMemberRequest struct {
	UserID   *uuid.UUID `json:"userId" validate:"required_without=Email"`
	Email    *string    `json:"email" validate:"omitempty,email,max=255"`
	Role     string     `json:"role" validate:"required,oneof=ADMIN TEACHER PARENT STUDENT"`
	FullName *string    `json:"fullName" validate:"omitempty,min=2,max=150"`
	Password *string    `json:"password" validate:"omitempty,min=8,max=72"`
}

func (r *CreateMemberRequest) Normalize() {
	r.Email = helper.TrimPtr(r.Email)
	if r.Email != nil {
		low := strings.ToLower(*r.Email)
		r.Email = &low
	}
	r.FullName = helper.TrimPtr(r.FullName)
	r.Role = strings.ToUpper(strings.TrimSpace(r.Role))
}

type UpdateMemberRequest struct {
	Role string `json:"role" validate:"required,oneof=ADMIN TEACHER PARENT STUDENT"`
}

func (r *UpdateMemberRequest) Normalize() {
	r.Role = strings.ToUpper(strings.TrimSpace(r.Role))
}

type MemberResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	SchoolID  uuid.UUID `json:"schoolId"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"isActive"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}
