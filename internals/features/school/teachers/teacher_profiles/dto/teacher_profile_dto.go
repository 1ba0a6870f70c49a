package dto

import (
	"schoolku_backend/internals/features/school/teachers/teacher_profiles/model"
	userService "schoolku_backend/internals/features/users/users/service"
	helper "schoolku_backend/internals/helpers"

	"github.com/google/uuid"
)

type CreateTeacherProfileRequest struct {
	UserID    uuid.UUID `json:"userId" validate:"required"`
	Specialty *string   `json:"specialty" validate:"omitempty,max=100"`
	Phone     *string   `json:"phone" validate:"omitempty,max=30"`
	HireDate  *string   `json:"hireDate" validate:"omitempty,datetime=2006-01-02"`
}

func (r *CreateTeacherProfileRequest) Normalize() {
	r.Specialty = helper.TrimPtr(r.Specialty)
	r.Phone = helper.TrimPtr(r.Phone)
	r.HireDate = helper.TrimPtr(r.HireDate)
}

func (r *CreateTeacherProfileRequest) ToModel(schoolID uuid.UUID) (*model.TeacherProfileModel, error) {
	hire, err := helper.ParseDatePtr(r.HireDate)
	if err != nil {
		return nil, helper.BadRequest("hireDate invalide")
	}
	return &model.TeacherProfileModel{
		TeacherProfileSchoolID:  schoolID,
		TeacherProfileUserID:    r.UserID,
		TeacherProfileSpecialty: r.Specialty,
		TeacherProfilePhone:     r.Phone,
		TeacherProfileHireDate:  hire,
	}, nil
}

type UpdateTeacherProfileRequest struct {
	Specialty *string `json:"specialty" validate:"omitempty,max=100"`
	Phone     *string `json:"phone" validate:"omitempty,max=30"`
	HireDate  *string `json:"hireDate" validate:"omitempty,datetime=2006-01-02"`
}

func (r *UpdateTeacherProfileRequest) Normalize() {
	r.Specialty = helper.TrimPtr(r.Specialty)
	r.Phone = helper.TrimPtr(r.Phone)
	r.HireDate = helper.TrimPtr(r.HireDate)
}

func (r *UpdateTeacherProfileRequest) ApplyUpdates(m *model.TeacherProfileModel) error {
	if r.Specialty != nil {
		m.TeacherProfileSpecialty = r.Specialty
	}
	if r.Phone != nil {
		m.TeacherProfilePhone = r.Phone
	}
	if r.HireDate != nil {
		hire, err := helper.ParseDatePtr(r.HireDate)
		if err != nil {
			return helper.BadRequest("hireDate invalide")
		}
		m.TeacherProfileHireDate = hire
	}
	return nil
}

type TeacherProfileResponse struct {
	model.TeacherProfileModel
	User *userService.UserBrief `json:"user,omitempty"`
}

func FromModels(rows []model.TeacherProfileModel, users map[uuid.UUID]userService.UserBrief) []TeacherProfileResponse {
	out := make([]TeacherProfileResponse, 0, len(rows))
	for _, r := range rows {
		item := TeacherProfileResponse{TeacherProfileModel: r}
		if u, ok := users[r.TeacherProfileUserID]; ok {
			item.User = &u
		}
		out = append(out, item)
	}
	return out
}
