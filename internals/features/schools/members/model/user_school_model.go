package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserSchoolModel is a user's membership in a school. Hard-deleted.
type UserSchoolModel struct {
	UserSchoolID       uuid.UUID `gorm:"type:uuid;primaryKey;column:user_school_id" json:"id"`
	UserSchoolUserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_user_school;column:user_school_user_id" json:"userId"`
	UserSchoolSchoolID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_user_school;index;column:user_school_school_id" json:"schoolId"`
	UserSchoolRole     string    `gorm:"type:varchar(20);not null;column:user_school_role" json:"role"`

	UserSchoolCreatedAt time.Time `gorm:"autoCreateTime;column:user_school_created_at" json:"createdAt"`
	UserSchoolUpdatedAt time.Time `gorm:"autoUpdateTime;column:user_school_updated_at" json:"updatedAt"`
}

func (UserSchoolModel) TableName() string { return "user_schools" }

func (m *UserSchoolModel) BeforeCreate(tx *gorm.DB) error {
	if m.UserSchoolID == uuid.Nil {
		m.UserSchoolID = uuid.New()
	}
	return nil
}
