package model

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var AssessmentKinds = []string{"EXAM", "QUIZ", "HOMEWORK", "PROJECT", "ORAL", "OTHER"}

type AssessmentModel struct {
	AssessmentID          uuid.UUID  `gorm:"type:uuid;primaryKey;column:assessment_id" json:"id"`
	AssessmentSchoolID    uuid.UUID  `gorm:"type:uuid;not null;index;column:assessment_school_id" json:"schoolId"`
	AssessmentSubjectID   uuid.UUID  `gorm:"type:uuid;not null;index;column:assessment_subject_id" json:"subjectId"`
	AssessmentClassroomID uuid.UUID  `gorm:"type:uuid;not null;index;column:assessment_classroom_id" json:"classroomId"`
	AssessmentTermID      uuid.UUID  `gorm:"type:uuid;not null;index;column:assessment_term_id" json:"termId"`
	AssessmentTypeID      *uuid.UUID `gorm:"type:uuid;column:assessment_type_id" json:"assessmentTypeId,omitempty"`
	AssessmentKind        *string    `gorm:"type:varchar(20);column:assessment_kind" json:"type,omitempty"`

	AssessmentTitle       string     `gorm:"type:varchar(150);not null;column:assessment_title" json:"title"`
	AssessmentDescription *string    `gorm:"type:text;column:assessment_description" json:"description,omitempty"`
	AssessmentMaxScore    float64    `gorm:"not null;column:assessment_max_score" json:"maxScore"`
	AssessmentCoefficient float64    `gorm:"not null;column:assessment_coefficient" json:"coefficient"`
	AssessmentDate        *time.Time `gorm:"column:assessment_date" json:"date,omitempty"`

	AssessmentCreatedAt time.Time      `gorm:"autoCreateTime;column:assessment_created_at" json:"createdAt"`
	AssessmentUpdatedAt time.Time      `gorm:"autoUpdateTime;column:assessment_updated_at" json:"updatedAt"`
	AssessmentDeletedAt gorm.DeletedAt `gorm:"index;column:assessment_deleted_at" json:"-"`
}

func (AssessmentModel) TableName() string { return "assessments" }

func (m *AssessmentModel) BeforeCreate(tx *gorm.DB) error {
	if m.AssessmentID == uuid.Nil {
		m.AssessmentID = uuid.New()
	}
	return nil
}

func (m *AssessmentModel) BeforeSave(tx *gorm.DB) error {
	if m.AssessmentMaxScore <= 0 {
		return errors.New("assessment_max_score must be > 0")
	}
	if m.AssessmentCoefficient <= 0 {
		return errors.New("assessment_coefficient must be > 0")
	}
	if m.AssessmentKind == nil && m.AssessmentTypeID == nil {
		return errors.New("assessment_kind or assessment_type_id is required")
	}
	m.AssessmentTitle = strings.TrimSpace(m.AssessmentTitle)
	return nil
}
