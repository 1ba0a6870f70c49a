package model

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubjectModel struct {
	SubjectID          uuid.UUID  `gorm:"type:uuid;primaryKey;column:subject_id" json:"id"`
	SubjectSchoolID    uuid.UUID  `gorm:"type:uuid;not null;index;column:subject_school_id" json:"schoolId"`
	SubjectCategoryID  *uuid.UUID `gorm:"type:uuid;index;column:subject_category_id" json:"categoryId,omitempty"`
	SubjectName        string     `gorm:"type:varchar(100);not null;column:subject_name" json:"name"`
	SubjectCode        *string    `gorm:"type:varchar(20);column:subject_code" json:"code,omitempty"`
	SubjectCoefficient float64    `gorm:"not null;column:subject_coefficient" json:"coefficient"`
	SubjectColor       *string    `gorm:"type:varchar(20);column:subject_color" json:"color,omitempty"`

	SubjectCreatedAt time.Time      `gorm:"autoCreateTime;column:subject_created_at" json:"createdAt"`
	SubjectUpdatedAt time.Time      `gorm:"autoUpdateTime;column:subject_updated_at" json:"updatedAt"`
	SubjectDeletedAt gorm.DeletedAt `gorm:"index;column:subject_deleted_at" json:"-"`
}

func (SubjectModel) TableName() string { return "subjects" }

func (m *SubjectModel) BeforeCreate(tx *gorm.DB) error {
	if m.SubjectID == uuid.Nil {
		m.SubjectID = uuid.New()
	}
	return nil
}

// Mirror CHECK: coefficient > 0
func (m *SubjectModel) BeforeSave(tx *gorm.DB) error {
	if m.SubjectCoefficient <= 0 {
		return errors.New("subject_coefficient must be > 0")
	}
	m.SubjectName = strings.TrimSpace(m.SubjectName)
	if m.SubjectCode != nil {
		code := strings.ToUpper(strings.TrimSpace(*m.SubjectCode))
		m.SubjectCode = &code
	}
	return nil
}
