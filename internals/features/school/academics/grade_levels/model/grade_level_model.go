package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GradeLevelModel e.g. "CP", "CE1", "6ème".
type GradeLevelModel struct {
	GradeLevelID       uuid.UUID `gorm:"type:uuid;primaryKey;column:grade_level_id" json:"id"`
	GradeLevelSchoolID uuid.UUID `gorm:"type:uuid;not null;index;column:grade_level_school_id" json:"schoolId"`
	GradeLevelName     string    `gorm:"type:varchar(50);not null;column:grade_level_name" json:"name"`
	GradeLevelOrder    int       `gorm:"not null;column:grade_level_order" json:"order"`

	GradeLevelCreatedAt time.Time      `gorm:"autoCreateTime;column:grade_level_created_at" json:"createdAt"`
	GradeLevelUpdatedAt time.Time      `gorm:"autoUpdateTime;column:grade_level_updated_at" json:"updatedAt"`
	GradeLevelDeletedAt gorm.DeletedAt `gorm:"index;column:grade_level_deleted_at" json:"-"`
}

func (GradeLevelModel) TableName() string { return "grade_levels" }

func (m *GradeLevelModel) BeforeCreate(tx *gorm.DB) error {
	if m.GradeLevelID == uuid.Nil {
		m.GradeLevelID = uuid.New()
	}
	return nil
}

func (m *GradeLevelModel) BeforeSave(tx *gorm.DB) error {
	m.GradeLevelName = strings.TrimSpace(m.GradeLevelName)
	return nil
}
