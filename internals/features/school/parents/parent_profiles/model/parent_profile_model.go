package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ParentProfileModel struct {
	ParentProfileID         uuid.UUID `gorm:"type:uuid;primaryKey;column:parent_profile_id" json:"id"`
	ParentProfileSchoolID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_parent_profile_user_school;column:parent_profile_school_id" json:"schoolId"`
	ParentProfileUserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_parent_profile_user_school;column:parent_profile_user_id" json:"userId"`
	ParentProfilePhone      *string   `gorm:"type:varchar(30);column:parent_profile_phone" json:"phone,omitempty"`
	ParentProfileAddress    *string   `gorm:"type:text;column:parent_profile_address" json:"address,omitempty"`
	ParentProfileOccupation *string   `gorm:"type:varchar(100);column:parent_profile_occupation" json:"occupation,omitempty"`

	ParentProfileCreatedAt time.Time `gorm:"autoCreateTime;column:parent_profile_created_at" json:"createdAt"`
	ParentProfileUpdatedAt time.Time `gorm:"autoUpdateTime;column:parent_profile_updated_at" json:"updatedAt"`
}

func (ParentProfileModel) TableName() string { return "parent_profiles" }

func (m *ParentProfileModel) BeforeCreate(tx *gorm.DB) error {
	if m.ParentProfileID == uuid.Nil {
		m.ParentProfileID = uuid.New()
	}
	return nil
}
