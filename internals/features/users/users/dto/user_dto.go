package dto

import "strings"

type UpdateUserRequest struct {
	FullName *string `json:"fullName" validate:"omitempty,min=2,max=150"`
	Role     *string `json:"role" validate:"omitempty,oneof=SUPER_ADMIN USER"`
	IsActive *bool   `json:"isActive"`
}

func (r *UpdateUserRequest) Normalize() {
	if r.FullName != nil {
		s := strings.TrimSpace(*r.FullName)
		r.FullName = &s
	}
	if r.Role != nil {
		s := strings.ToUpper(strings.TrimSpace(*r.Role))
		r.Role = &s
	}
}
