package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClassroomModel struct {
	ClassroomID             uuid.UUID  `gorm:"type:uuid;primaryKey;column:classroom_id" json:"id"`
	ClassroomSchoolID       uuid.UUID  `gorm:"type:uuid;not null;index;column:classroom_school_id" json:"schoolId"`
	ClassroomAcademicYearID uuid.UUID  `gorm:"type:uuid;not null;index;column:classroom_academic_year_id" json:"academicYearId"`
	ClassroomGradeLevelID   *uuid.UUID `gorm:"type:uuid;index;column:classroom_grade_level_id" json:"gradeLevelId,omitempty"`
	ClassroomName           string     `gorm:"type:varchar(80);not null;column:classroom_name" json:"name"`
	ClassroomCapacity       *int       `gorm:"column:classroom_capacity" json:"capacity,omitempty"`
	ClassroomRoom           *string    `gorm:"type:varchar(50);column:classroom_room" json:"room,omitempty"`

	ClassroomCreatedAt time.Time      `gorm:"autoCreateTime;column:classroom_created_at" json:"createdAt"`
	ClassroomUpdatedAt time.Time      `gorm:"autoUpdateTime;column:classroom_updated_at" json:"updatedAt"`
	ClassroomDeletedAt gorm.DeletedAt `gorm:"index;column:classroom_deleted_at" json:"-"`
}

func (ClassroomModel) TableName() string { return "classrooms" }

func (m *ClassroomModel) BeforeCreate(tx *gorm.DB) error {
	if m.ClassroomID == uuid.Nil {
		m.ClassroomID = uuid.New()
	}
	return nil
}

func (m *ClassroomModel) BeforeSave(tx *gorm.DB) error {
	m.ClassroomName = strings.TrimSpace(m.ClassroomName)
	return nil
}
