package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StudentGradeModel struct {
	StudentGradeID           uuid.UUID  `gorm:"type:uuid;primaryKey;column:student_grade_id" json:"id"`
	StudentGradeSchoolID     uuid.UUID  `gorm:"type:uuid;not null;index;column:student_grade_school_id" json:"schoolId"`
	StudentGradeAssessmentID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_student_grade;column:student_grade_assessment_id" json:"assessmentId"`
	StudentGradeStudentID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_student_grade;index;column:student_grade_student_id" json:"studentId"`
	StudentGradeScore        float64    `gorm:"not null;column:student_grade_score" json:"score"`
	StudentGradeComment      *string    `gorm:"type:text;column:student_grade_comment" json:"comment,omitempty"`
	StudentGradeGradedBy     *uuid.UUID `gorm:"type:uuid;column:student_grade_graded_by" json:"gradedBy,omitempty"`

	StudentGradeCreatedAt time.Time `gorm:"autoCreateTime;column:student_grade_created_at" json:"createdAt"`
	StudentGradeUpdatedAt time.Time `gorm:"autoUpdateTime;column:student_grade_updated_at" json:"updatedAt"`
}

func (StudentGradeModel) TableName() string { return "student_grades" }

func (m *StudentGradeModel) BeforeCreate(tx *gorm.DB) error {
	if m.StudentGradeID == uuid.Nil {
		m.StudentGradeID = uuid.New()
	}
	return nil
}
