package dto

import (
	"strings"

	"schoolku_backend/internals/features/school/assessments/assessments/model"
	helper "schoolku_backend/internals/helpers"

	"github.com/google/uuid"
)

// Either type or assessmentTypeId must be given.
type CreateAssessmentRequest struct {
	SubjectID        uuid.UUID  `json:"subjectId" validate:"required"`
	ClassroomID      uuid.UUID  `json:"classroomId" validate:"required"`
	TermID           uuid.UUID  `json:"termId" validate:"required"`
	Title            string     `json:"title" validate:"required,min=2,max=150"`
	Type             *string    `json:"type" validate:"required_without=AssessmentTypeID"`
	AssessmentTypeID *uuid.UUID `json:"assessmentTypeId"`
	MaxScore         *float64   `json:"maxScore" validate:"omitempty,gt=0,lte=1000"`
	Coefficient      *float64   `json:"coefficient" validate:"omitempty,gt=0,lte=100"`
	Date             *string    `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Description      *string    `json:"description" validate:"omitempty,max=2000"`
}

func (r *CreateAssessmentRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Type = upperPtr(r.Type)
	r.Date = helper.TrimPtr(r.Date)
	r.Description = helper.TrimPtr(r.Description)
}

func (r *CreateAssessmentRequest) ToModel(schoolID uuid.UUID) (*model.AssessmentModel, error) {
	if err := checkKind(r.Type); err != nil {
		return nil, err
	}
	date, err := helper.ParseDatePtr(r.Date)
	if err != nil {
		return nil, helper.BadRequest("date invalide")
	}
	maxScore, coef := 20.0, 1.0
	if r.MaxScore != nil {
		maxScore = *r.MaxScore
	}
	if r.Coefficient != nil {
		coef = *r.Coefficient
	}
	return &model.AssessmentModel{
		AssessmentSchoolID:    schoolID,
		AssessmentSubjectID:   r.SubjectID,
		AssessmentClassroomID: r.ClassroomID,
		AssessmentTermID:      r.TermID,
		AssessmentTypeID:      r.AssessmentTypeID,
		AssessmentKind:        r.Type,
		AssessmentTitle:       r.Title,
		AssessmentDescription: r.Description,
		AssessmentMaxScore:    maxScore,
		AssessmentCoefficient: coef,
		AssessmentDate:        date,
	}, nil
}

type UpdateAssessmentRequest struct {
	Title            *string    `json:"title" validate:"omitempty,min=2,max=150"`
	Type             *string    `json:"type"`
	AssessmentTypeID *uuid.UUID `json:"assessmentTypeId"`
	MaxScore         *float64   `json:"maxScore" validate:"omitempty,gt=0,lte=1000"`
	Coefficient      *float64   `json:"coefficient" validate:"omitempty,gt=0,lte=100"`
	Date             *string    `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Description      *string    `json:"description" validate:"omitempty,max=2000"`
}

func (r *UpdateAssessmentRequest) Normalize() {
	r.Title = helper.TrimPtr(r.Title)
	r.Type = upperPtr(r.Type)
	r.Date = helper.TrimPtr(r.Date)
	r.Description = helper.TrimPtr(r.Description)
}

func (r *UpdateAssessmentRequest) ApplyUpdates(m *model.AssessmentModel) error {
	if err := checkKind(r.Type); err != nil {
		return err
	}
	if r.Title != nil {
		m.AssessmentTitle = *r.Title
	}
	if r.Type != nil {
		m.AssessmentKind = r.Type
	}
	if r.AssessmentTypeID != nil {
		m.AssessmentTypeID = r.AssessmentTypeID
	}
	if r.MaxScore != nil {
		m.AssessmentMaxScore = *r.MaxScore
	}
	if r.Coefficient != nil {
		m.AssessmentCoefficient = *r.Coefficient
	}
	if r.Date != nil {
		d, err := helper.ParseDatePtr(r.Date)
		if err != nil {
			return helper.BadRequest("date invalide")
		}
		m.AssessmentDate = d
	}
	if r.Description != nil {
		m.AssessmentDescription = r.Description
	}
	return nil
}

func checkKind(kind *string) error {
	if kind == nil {
		return nil
	}
	for _, k := range model.AssessmentKinds {
		if *kind == k {
			return nil
		}
	}
	return helper.BadRequest("type doit être l'une des valeurs [" + strings.Join(model.AssessmentKinds, " ") + "]")
}

func upperPtr(s *string) *string {
	s = helper.TrimPtr(s)
	if s == nil {
		return nil
	}
	v := strings.ToUpper(*s)
	return &v
}
