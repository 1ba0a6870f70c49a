package model

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AssessmentTypeModel struct {
	AssessmentTypeID       uuid.UUID `gorm:"type:uuid;primaryKey;column:assessment_type_id" json:"id"`
	AssessmentTypeSchoolID uuid.UUID `gorm:"type:uuid;not null;index;column:assessment_type_school_id" json:"schoolId"`
	AssessmentTypeName     string    `gorm:"type:varchar(60);not null;column:assessment_type_name" json:"name"`
	AssessmentTypeWeight   float64   `gorm:"not null;column:assessment_type_weight" json:"weight"`

	AssessmentTypeCreatedAt time.Time      `gorm:"autoCreateTime;column:assessment_type_created_at" json:"createdAt"`
	AssessmentTypeUpdatedAt time.Time      `gorm:"autoUpdateTime;column:assessment_type_updated_at" json:"updatedAt"`
	AssessmentTypeDeletedAt gorm.DeletedAt `gorm:"index;column:assessment_type_deleted_at" json:"-"`
}

func (AssessmentTypeModel) TableName() string { return "assessment_types" }

func (m *AssessmentTypeModel) BeforeCreate(tx *gorm.DB) error {
	if m.AssessmentTypeID == uuid.Nil {
		m.AssessmentTypeID = uuid.New()
	}
	return nil
}

func (m *AssessmentTypeModel) BeforeSave(tx *gorm.DB) error {
	if m.AssessmentTypeWeight <= 0 {
		return errors.New("assessment_type_weight must be > 0")
	}
	m.AssessmentTypeName = strings.TrimSpace(m.AssessmentTypeName)
	return nil
}
