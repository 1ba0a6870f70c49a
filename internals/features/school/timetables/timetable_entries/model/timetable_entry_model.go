package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TimetableEntryModel is a weekly slot. Times are "HH:MM" strings; they compare lexically.
type TimetableEntryModel struct {
	TimetableEntryID             uuid.UUID  `gorm:"type:uuid;primaryKey;column:timetable_entry_id" json:"id"`
	TimetableEntrySchoolID       uuid.UUID  `gorm:"type:uuid;not null;index;column:timetable_entry_school_id" json:"schoolId"`
	TimetableEntryAcademicYearID uuid.UUID  `gorm:"type:uuid;not null;index;column:timetable_entry_academic_year_id" json:"academicYearId"`
	TimetableEntryClassroomID    uuid.UUID  `gorm:"type:uuid;not null;index;column:timetable_entry_classroom_id" json:"classroomId"`
	TimetableEntrySubjectID      uuid.UUID  `gorm:"type:uuid;not null;column:timetable_entry_subject_id" json:"subjectId"`
	TimetableEntryTeacherID      *uuid.UUID `gorm:"type:uuid;index;column:timetable_entry_teacher_id" json:"teacherId,omitempty"`
	TimetableEntryDayOfWeek      int        `gorm:"not null;column:timetable_entry_day_of_week" json:"dayOfWeek"`
	TimetableEntryStartTime      string     `gorm:"type:varchar(5);not null;column:timetable_entry_start_time" json:"startTime"`
	TimetableEntryEndTime        string     `gorm:"type:varchar(5);not null;column:timetable_entry_end_time" json:"endTime"`
	TimetableEntryRoom           *string    `gorm:"type:varchar(50);column:timetable_entry_room" json:"room,omitempty"`

	TimetableEntryCreatedAt time.Time `gorm:"autoCreateTime;column:timetable_entry_created_at" json:"createdAt"`
	TimetableEntryUpdatedAt time.Time `gorm:"autoUpdateTime;column:timetable_entry_updated_at" json:"updatedAt"`
}

func (TimetableEntryModel) TableName() string { return "timetable_entries" }

func (m *TimetableEntryModel) BeforeCreate(tx *gorm.DB) error {
	if m.TimetableEntryID == uuid.Nil {
		m.TimetableEntryID = uuid.New()
	}
	return nil
}
