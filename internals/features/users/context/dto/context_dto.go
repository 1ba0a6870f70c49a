package dto

import (
	authDto "schoolku_backend/internals/features/users/auth/dto"

	"github.com/google/uuid"
)

type SwitchSchoolRequest struct {
	SchoolID uuid.UUID `json:"schoolId" validate:"required"`
}

func (r *SwitchSchoolRequest) Normalize() {}

type SwitchYearRequest struct {
	AcademicYearID uuid.UUID `json:"academicYearId" validate:"required"`
}

func (r *SwitchYearRequest) Normalize() {}

type SchoolBrief struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
	Role string    `json:"role"`
}

type YearBrief struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	IsCurrent bool      `json:"isCurrent"`
}

type ContextResponse struct {
	School       *SchoolBrief                 `json:"school"`
	AcademicYear *YearBrief                   `json:"academicYear"`
	Memberships  []authDto.MembershipResponse `json:"memberships"`
}
