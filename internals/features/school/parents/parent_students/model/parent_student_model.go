package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var Relationships = []string{"FATHER", "MOTHER", "GUARDIAN", "OTHER"}

type ParentStudentModel struct {
	ParentStudentID           uuid.UUID `gorm:"type:uuid;primaryKey;column:parent_student_id" json:"id"`
	ParentStudentSchoolID     uuid.UUID `gorm:"type:uuid;not null;index;column:parent_student_school_id" json:"schoolId"`
	ParentStudentParentID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_parent_student;column:parent_student_parent_id" json:"parentId"`
	ParentStudentStudentID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_parent_student;index;column:parent_student_student_id" json:"studentId"`
	ParentStudentRelationship string    `gorm:"type:varchar(20);not null;column:parent_student_relationship" json:"relationship"`

	ParentStudentCreatedAt time.Time `gorm:"autoCreateTime;column:parent_student_created_at" json:"createdAt"`
}

func (ParentStudentModel) TableName() string { return "parent_students" }

func (m *ParentStudentModel) BeforeCreate(tx *gorm.DB) error {
	if m.ParentStudentID == uuid.Nil {
		m.ParentStudentID = uuid.New()
	}
	return nil
}
