package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubjectCategoryModel struct {
	SubjectCategoryID          uuid.UUID `gorm:"type:uuid;primaryKey;column:subject_category_id" json:"id"`
	SubjectCategorySchoolID    uuid.UUID `gorm:"type:uuid;not null;index;column:subject_category_school_id" json:"schoolId"`
	SubjectCategoryName        string    `gorm:"type:varchar(80);not null;column:subject_category_name" json:"name"`
	SubjectCategoryDescription *string   `gorm:"type:text;column:subject_category_description" json:"description,omitempty"`

	SubjectCategoryCreatedAt time.Time      `gorm:"autoCreateTime;column:subject_category_created_at" json:"createdAt"`
	SubjectCategoryUpdatedAt time.Time      `gorm:"autoUpdateTime;column:subject_category_updated_at" json:"updatedAt"`
	SubjectCategoryDeletedAt gorm.DeletedAt `gorm:"index;column:subject_category_deleted_at" json:"-"`
}

func (SubjectCategoryModel) TableName() string { return "subject_categories" }

func (m *SubjectCategoryModel) BeforeCreate(tx *gorm.DB) error {
	if m.SubjectCategoryID == uuid.Nil {
		m.SubjectCategoryID = uuid.New()
	}
	return nil
}
