package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TeacherProfileModel struct {
	TeacherProfileID        uuid.UUID  `gorm:"type:uuid;primaryKey;column:teacher_profile_id" json:"id"`
	TeacherProfileSchoolID  uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_teacher_profile_user_school;column:teacher_profile_school_id" json:"schoolId"`
	TeacherProfileUserID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_teacher_profile_user_school;column:teacher_profile_user_id" json:"userId"`
	TeacherProfileSpecialty *string    `gorm:"type:varchar(100);column:teacher_profile_specialty" json:"specialty,omitempty"`
	TeacherProfilePhone     *string    `gorm:"type:varchar(30);column:teacher_profile_phone" json:"phone,omitempty"`
	TeacherProfileHireDate  *time.Time `gorm:"column:teacher_profile_hire_date" json:"hireDate,omitempty"`

	TeacherProfileCreatedAt time.Time `gorm:"autoCreateTime;column:teacher_profile_created_at" json:"createdAt"`
	TeacherProfileUpdatedAt time.Time `gorm:"autoUpdateTime;column:teacher_profile_updated_at" json:"updatedAt"`
}

func (TeacherProfileModel) TableName() string { return "teacher_profiles" }

func (m *TeacherProfileModel) BeforeCreate(tx *gorm.DB) error {
	if m.TeacherProfileID == uuid.Nil {
		m.TeacherProfileID = uuid.New()
	}
	return nil
}
