package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TeacherAssignmentModel: one teacher per (classroom, subject, year).
type TeacherAssignmentModel struct {
	TeacherAssignmentID             uuid.UUID `gorm:"type:uuid;primaryKey;column:teacher_assignment_id" json:"id"`
	TeacherAssignmentSchoolID       uuid.UUID `gorm:"type:uuid;not null;index;column:teacher_assignment_school_id" json:"schoolId"`
	TeacherAssignmentTeacherID      uuid.UUID `gorm:"type:uuid;not null;index;column:teacher_assignment_teacher_id" json:"teacherId"`
	TeacherAssignmentClassroomID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_teacher_assignment_slot;column:teacher_assignment_classroom_id" json:"classroomId"`
	TeacherAssignmentSubjectID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_teacher_assignment_slot;column:teacher_assignment_subject_id" json:"subjectId"`
	TeacherAssignmentAcademicYearID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_teacher_assignment_slot;column:teacher_assignment_academic_year_id" json:"academicYearId"`

	TeacherAssignmentCreatedAt time.Time `gorm:"autoCreateTime;column:teacher_assignment_created_at" json:"createdAt"`
	TeacherAssignmentUpdatedAt time.Time `gorm:"autoUpdateTime;column:teacher_assignment_updated_at" json:"updatedAt"`
}

func (TeacherAssignmentModel) TableName() string { return "teacher_assignments" }

func (m *TeacherAssignmentModel) BeforeCreate(tx *gorm.DB) error {
	if m.TeacherAssignmentID == uuid.Nil {
		m.TeacherAssignmentID = uuid.New()
	}
	return nil
}
