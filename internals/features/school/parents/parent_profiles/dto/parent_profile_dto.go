package dto

import (
	"schoolku_backend/internals/features/school/parents/parent_profiles/model"
	userService "schoolku_backend/internals/features/users/users/service"
	helper "schoolku_backend/internals/helpers"

	"github.com/google/uuid"
)

type CreateParentProfileRequest struct {
	UserID     uuid.UUID `json:"userId" validate:"required"`
	Phone      *string   `json:"phone" validate:"omitempty,max=30"`
	Address    *string   `json:"address" validate:"omitempty,max=500"`
	Occupation *string   `json:"occupation" validate:"omitempty,max=100"`
}

func (r *CreateParentProfileRequest) Normalize() {
	r.Phone = helper.TrimPtr(r.Phone)
	r.Address = helper.TrimPtr(r.Address)
	r.Occupation = helper.TrimPtr(r.Occupation)
}

func (r *CreateParentProfileRequest) ToModel(schoolID uuid.UUID) *model.ParentProfileModel {
	return &model.ParentProfileModel{
		ParentProfileSchoolID:   schoolID,
		ParentProfileUserID:     r.UserID,
		ParentProfilePhone:      r.Phone,
		ParentProfileAddress:    r.Address,
		ParentProfileOccupation: r.Occupation,
	}
}

type UpdateParentProfileRequest struct {
	Phone      *string `json:"phone" validate:"omitempty,max=30"`
	Address    *string `json:"address" validate:"omitempty,max=500"`
	Occupation *string `json:"occupation" validate:"omitempty,max=100"`
}

func (r *UpdateParentProfileRequest) Normalize() {
	r.Phone = helper.TrimPtr(r.Phone)
	r.Address = helper.TrimPtr(r.Address)
	r.Occupation = helper.TrimPtr(r.Occupation)
}

func (r *UpdateParentProfileRequest) ApplyUpdates(m *model.ParentProfileModel) {
	if r.Phone != nil {
		m.ParentProfilePhone = r.Phone
	}
	if r.Address != nil {
		m.ParentProfileAddress = r.Address
	}
	if r.Occupation != nil {
		m.ParentProfileOccupation = r.Occupation
	}
}

type ParentProfileResponse struct {
	model.ParentProfileModel
	User *userService.UserBrief `json:"user,omitempty"`
}

func FromModels(rows []model.ParentProfileModel, users map[uuid.UUID]userService.UserBrief) []ParentProfileResponse {
	out := make([]ParentProfileResponse, 0, len(rows))
	for _, r := range rows {
		item := ParentProfileResponse{ParentProfileModel: r}
		if u, ok := users[r.ParentProfileUserID]; ok {
			item.User = &u
		}
		out = append(out, item)
	}
	return out
}
