package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	EnrollmentActive      = "ACTIVE"
	EnrollmentTransferred = "TRANSFERRED"
	EnrollmentWithdrawn   = "WITHDRAWN"
)

// EnrollmentModel places a student (users.id) in a classroom for one academic year.
type EnrollmentModel struct {
	EnrollmentID             uuid.UUID `gorm:"type:uuid;primaryKey;column:enrollment_id" json:"id"`
	EnrollmentSchoolID       uuid.UUID `gorm:"type:uuid;not null;index;column:enrollment_school_id" json:"schoolId"`
	EnrollmentStudentID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_enrollment_student_year;column:enrollment_student_id" json:"studentId"`
	EnrollmentAcademicYearID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_enrollment_student_year;column:enrollment_academic_year_id" json:"academicYearId"`
	EnrollmentClassroomID    uuid.UUID `gorm:"type:uuid;not null;index;column:enrollment_classroom_id" json:"classroomId"`
	EnrollmentStatus         string    `gorm:"type:varchar(20);not null;column:enrollment_status" json:"status"`
	EnrollmentEnrolledAt     time.Time `gorm:"not null;column:enrollment_enrolled_at" json:"enrolledAt"`

	EnrollmentCreatedAt time.Time `gorm:"autoCreateTime;column:enrollment_created_at" json:"createdAt"`
	EnrollmentUpdatedAt time.Time `gorm:"autoUpdateTime;column:enrollment_updated_at" json:"updatedAt"`
}

func (EnrollmentModel) TableName() string { return "enrollments" }

func (m *EnrollmentModel) BeforeCreate(tx *gorm.DB) error {
	if m.EnrollmentID == uuid.Nil {
		m.EnrollmentID = uuid.New()
	}
	if m.EnrollmentStatus == "" {
		m.EnrollmentStatus = EnrollmentActive
	}
	return nil
}
