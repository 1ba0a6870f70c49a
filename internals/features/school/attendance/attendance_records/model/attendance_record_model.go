package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPresent = "PRESENT"
	StatusAbsent  = "ABSENT"
	StatusLate    = "LATE"
	StatusExcused = "EXCUSED"
)

var Statuses = []string{StatusPresent, StatusAbsent, StatusLate, StatusExcused}

// AttendanceRecordModel is one status per (student, classroom, date, slot).
// Slot is the timetable entry id, or the nil UUID for a whole-day record.
type AttendanceRecordModel struct {
	AttendanceRecordID          uuid.UUID `gorm:"type:uuid;primaryKey;column:attendance_record_id" json:"id"`
	AttendanceRecordSchoolID    uuid.UUID `gorm:"type:uuid;not null;index;column:attendance_record_school_id" json:"schoolId"`
	AttendanceRecordStudentID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_attendance_slot;column:attendance_record_student_id" json:"studentId"`
	AttendanceRecordClassroomID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_attendance_slot;index;column:attendance_record_classroom_id" json:"classroomId"`
	AttendanceRecordDate        time.Time `gorm:"not null;uniqueIndex:uq_attendance_slot;column:attendance_record_date" json:"date"`
	AttendanceRecordSlotID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_attendance_slot;column:attendance_record_slot_id" json:"timetableEntryId"`
	AttendanceRecordStatus      string    `gorm:"type:varchar(10);not null;column:attendance_record_status" json:"status"`
	AttendanceRecordNote        *string   `gorm:"type:text;column:attendance_record_note" json:"note,omitempty"`
	AttendanceRecordRecordedBy  uuid.UUID `gorm:"type:uuid;not null;column:attendance_record_recorded_by" json:"recordedBy"`

	AttendanceRecordCreatedAt time.Time `gorm:"autoCreateTime;column:attendance_record_created_at" json:"createdAt"`
	AttendanceRecordUpdatedAt time.Time `gorm:"autoUpdateTime;column:attendance_record_updated_at" json:"updatedAt"`
}

func (AttendanceRecordModel) TableName() string { return "attendance_records" }

func (m *AttendanceRecordModel) BeforeCreate(tx *gorm.DB) error {
	if m.AttendanceRecordID == uuid.Nil {
		m.AttendanceRecordID = uuid.New()
	}
	return nil
}
