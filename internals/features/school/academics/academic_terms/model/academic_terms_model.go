package model

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AcademicTermModel struct {
	AcademicTermID             uuid.UUID `gorm:"type:uuid;primaryKey;column:academic_term_id" json:"id"`
	AcademicTermSchoolID       uuid.UUID `gorm:"type:uuid;not null;index;column:academic_term_school_id" json:"schoolId"`
	AcademicTermAcademicYearID uuid.UUID `gorm:"type:uuid;not null;index;column:academic_term_academic_year_id" json:"academicYearId"`

	// Example: "Trimestre 1", "Semestre 2"
	AcademicTermName      string    `gorm:"type:varchar(50);not null;column:academic_term_name" json:"name"`
	AcademicTermOrder     int       `gorm:"not null;column:academic_term_order" json:"order"`
	AcademicTermStartDate time.Time `gorm:"not null;column:academic_term_start_date" json:"startDate"`
	AcademicTermEndDate   time.Time `gorm:"not null;column:academic_term_end_date" json:"endDate"`

	AcademicTermCreatedAt time.Time      `gorm:"autoCreateTime;column:academic_term_created_at" json:"createdAt"`
	AcademicTermUpdatedAt time.Time      `gorm:"autoUpdateTime;column:academic_term_updated_at" json:"updatedAt"`
	AcademicTermDeletedAt gorm.DeletedAt `gorm:"index;column:academic_term_deleted_at" json:"-"`
}

func (AcademicTermModel) TableName() string { return "academic_terms" }

func (m *AcademicTermModel) BeforeCreate(tx *gorm.DB) error {
	if m.AcademicTermID == uuid.Nil {
		m.AcademicTermID = uuid.New()
	}
	return nil
}

// Mirror CHECK: end > start
func (m *AcademicTermModel) BeforeSave(tx *gorm.DB) error {
	if !m.AcademicTermEndDate.After(m.AcademicTermStartDate) {
		return errors.New("academic_term_end_date must be > academic_term_start_date")
	}
	m.AcademicTermName = strings.TrimSpace(m.AcademicTermName)
	return nil
}
