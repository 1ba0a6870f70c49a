package dto

import (
	"strings"

	"schoolku_backend/internals/features/schools/schools/model"
	helper "schoolku_backend/internals/helpers"

	"github.com/google/uuid"
)

type SettingsRequest struct {
	GradingScale *float64 `json:"gradingScale" validate:"omitempty,gt=0,lte=100"`
	PassingMark  *float64 `json:"passingMark" validate:"omitempty,gte=0"`
	Currency     *string  `json:"currency" validate:"omitempty,len=3,alpha"`
}

// Merge applies the provided values over cur; passingMark must stay within the scale.
func (r *SettingsRequest) Merge(cur model.SchoolSettings) (model.SchoolSettings, error) {
	if r == nil {
		return cur, nil
	}
	if r.GradingScale != nil {
		cur.GradingScale = *r.GradingScale
	}
	if r.PassingMark != nil {
		cur.PassingMark = *r.PassingMark
	}
	if r.Currency != nil {
		cur.Currency = strings.ToUpper(strings.TrimSpace(*r.Currency))
	}
	if cur.PassingMark > cur.GradingScale {
		return cur, helper.BadRequest("passingMark ne peut pas dépasser gradingScale")
	}
	return cur, nil
}

type CreateSchoolRequest struct {
	Name     string           `json:"name" validate:"required,min=2,max=150"`
	Code     *string          `json:"code" validate:"omitempty,max=30"`
	Address  *string          `json:"address" validate:"omitempty,max=500"`
	Phone    *string          `json:"phone" validate:"omitempty,max=30"`
	Email    *string          `json:"email" validate:"omitempty,email,max=255"`
	Settings *SettingsRequest `json:"settings"`
	IsActive *bool            `json:"isActive"`
}

func (r *CreateSchoolRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Code = helper.TrimPtr(r.Code)
	r.Address = helper.TrimPtr(r.Address)
	r.Phone = helper.TrimPtr(r.Phone)
	r.Email = helper.TrimPtr(r.Email)
	if r.Email != nil {
		low := strings.ToLower(*r.Email)
		r.Email = &low
	}
}

// ToModel leaves the slug empty; the controller derives it.
func (r *CreateSchoolRequest) ToModel() (*model.SchoolModel, error) {
	settings, err := r.Settings.Merge(model.DefaultSettings())
	if err != nil {
		return nil, err
	}
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return &model.SchoolModel{
		SchoolName:     r.Name,
		SchoolCode:     r.Code,
		SchoolAddress:  r.Address,
		SchoolPhone:    r.Phone,
		SchoolEmail:    r.Email,
		SchoolSettings: settings.JSON(),
		SchoolIsActive: active,
	}, nil
}

type UpdateSchoolRequest struct {
	Name     *string          `json:"name" validate:"omitempty,min=2,max=150"`
	Code     *string          `json:"code" validate:"omitempty,max=30"`
	Address  *string          `json:"address" validate:"omitempty,max=500"`
	Phone    *string          `json:"phone" validate:"omitempty,max=30"`
	Email    *string          `json:"email" validate:"omitempty,email,max=255"`
	Settings *SettingsRequest `json:"settings"`
	IsActive *bool            `json:"isActive"`
}

func (r *UpdateSchoolRequest) Normalize() {
	r.Name = helper.TrimPtr(r.Name)
	r.Code = helper.TrimPtr(r.Code)
	r.Address = helper.TrimPtr(r.Address)
	r.Phone = helper.TrimPtr(r.Phone)
	r.Email = helper.TrimPtr(r.Email)
}

// ApplyUpdates does not touch the slug: it stays stable after a rename.
func (r *UpdateSchoolRequest) ApplyUpdates(m *model.SchoolModel) error {
	if r.Name != nil {
		m.SchoolName = *r.Name
	}
	if r.Code != nil {
		m.SchoolCode = r.Code
	}
	if r.Address != nil {
		m.SchoolAddress = r.Address
	}
	if r.Phone != nil {
		m.SchoolPhone = r.Phone
	}
	if r.Email != nil {
		low := strings.ToLower(*r.Email)
		m.SchoolEmail = &low
	}
	if r.IsActive != nil {
		m.SchoolIsActive = *r.IsActive
	}
	if r.Settings != nil {
		s, err := r.Settings.Merge(m.Settings())
		if err != nil {
			return err
		}
		m.SchoolSettings = s.JSON()
	}
	return nil
}

type MemberBrief struct {
	ID       uuid.UUID `json:"id"`
	UserID   uuid.UUID `json:"userId"`
	FullName string    `json:"fullName"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
}

type SchoolDetail struct {
	*model.SchoolModel
	Settings model.SchoolSettings `json:"settings"`
	Members  []MemberBrief        `json:"members"`
	MyRole   string               `json:"myRole"`
}

// SchoolListItem is a school plus the caller's role (SUPER_ADMIN when listed globally).
type SchoolListItem struct {
	model.SchoolModel
	MyRole string `json:"myRole,omitempty"`
}
