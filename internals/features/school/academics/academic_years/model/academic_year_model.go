package model

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AcademicYearModel struct {
	AcademicYearID        uuid.UUID `gorm:"type:uuid;primaryKey;column:academic_year_id" json:"id"`
	AcademicYearSchoolID  uuid.UUID `gorm:"type:uuid;not null;index;column:academic_year_school_id" json:"schoolId"`
	AcademicYearName      string    `gorm:"type:varchar(50);not null;column:academic_year_name" json:"name"`
	AcademicYearStartDate time.Time `gorm:"not null;column:academic_year_start_date" json:"startDate"`
	AcademicYearEndDate   time.Time `gorm:"not null;column:academic_year_end_date" json:"endDate"`
	AcademicYearIsCurrent bool      `gorm:"not null;column:academic_year_is_current" json:"isCurrent"`

	AcademicYearCreatedAt time.Time      `gorm:"autoCreateTime;column:academic_year_created_at" json:"createdAt"`
	AcademicYearUpdatedAt time.Time      `gorm:"autoUpdateTime;column:academic_year_updated_at" json:"updatedAt"`
	AcademicYearDeletedAt gorm.DeletedAt `gorm:"index;column:academic_year_deleted_at" json:"-"`
}

func (AcademicYearModel) TableName() string { return "academic_years" }

func (m *AcademicYearModel) BeforeCreate(tx *gorm.DB) error {
	if m.AcademicYearID == uuid.Nil {
		m.AcademicYearID = uuid.New()
	}
	return nil
}

// Mirror CHECK: end > start
func (m *AcademicYearModel) BeforeSave(tx *gorm.DB) error {
	if !m.AcademicYearEndDate.After(m.AcademicYearStartDate) {
		return errors.New("academic_year_end_date must be > academic_year_start_date")
	}
	m.AcademicYearName = strings.TrimSpace(m.AcademicYearName)
	return nil
}

// Contains reports whether [start, end] of a sub-period fits inside the year.
func (m *AcademicYearModel) Contains(start, end time.Time) bool {
	return !start.Before(m.AcademicYearStartDate) && !end.After(m.AcademicYearEndDate)
}
