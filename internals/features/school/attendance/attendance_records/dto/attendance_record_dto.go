package dto

import (
	"strings"

	"schoolku_backend/internals/features/school/attendance/attendance_records/model"
	helper "schoolku_backend/internals/helpers"

	"github.com/google/uuid"
)

type CreateAttendanceRequest struct {
	StudentID        uuid.UUID  `json:"studentId" validate:"required"`
	ClassroomID      uuid.UUID  `json:"classroomId" validate:"required"`
	Date             string     `json:"date" validate:"required,datetime=2006-01-02"`
	Status           string     `json:"status" validate:"required,oneof=PRESENT ABSENT LATE EXCUSED"`
	TimetableEntryID *uuid.UUID `json:"timetableEntryId"`
	Note             *string    `json:"note" validate:"omitempty,max=500"`
}

func (r *CreateAttendanceRequest) Normalize() {
	r.Date = strings.TrimSpace(r.Date)
	r.Status = strings.ToUpper(strings.TrimSpace(r.Status))
	r.Note = helper.TrimPtr(r.Note)
}

func (r *CreateAttendanceRequest) ToModel(schoolID, recordedBy uuid.UUID) (*model.AttendanceRecordModel, error) {
	d, err := helper.ParseDate(r.Date)
	if err != nil {
		return nil, helper.BadRequest("date invalide")
	}
	return &model.AttendanceRecordModel{
		AttendanceRecordSchoolID:    schoolID,
		AttendanceRecordStudentID:   r.StudentID,
		AttendanceRecordClassroomID: r.ClassroomID,
		AttendanceRecordDate:        d,
		AttendanceRecordSlotID:      Slot(r.TimetableEntryID),
		AttendanceRecordStatus:      r.Status,
		AttendanceRecordNote:        r.Note,
		AttendanceRecordRecordedBy:  recordedBy,
	}, nil
}

type UpdateAttendanceRequest struct {
	Status *string `json:"status" validate:"omitempty,oneof=PRESENT ABSENT LATE EXCUSED"`
	Note   *string `json:"note" validate:"omitempty,max=500"`
}

func (r *UpdateAttendanceRequest) Normalize() {
	if s := helper.TrimPtr(r.Status); s != nil {
		v := strings.ToUpper(*s)
		r.Status = &v
	}
	r.Note = helper.TrimPtr(r.Note)
}

func (r *UpdateAttendanceRequest) ApplyUpdates(m *model.AttendanceRecordModel, recordedBy uuid.UUID) {
	if r.Status != nil {
		m.AttendanceRecordStatus = *r.Status
	}
	if r.Note != nil {
		m.AttendanceRecordNote = r.Note
	}
	m.AttendanceRecordRecordedBy = recordedBy
}

type BulkAttendanceItem struct {
	StudentID uuid.UUID `json:"studentId" validate:"required"`
	Status    string    `json:"status" validate:"required,oneof=PRESENT ABSENT LATE EXCUSED"`
	Note      *string   `json:"note" validate:"omitempty,max=500"`
}

type BulkAttendanceRequest struct {
	ClassroomID      uuid.UUID            `json:"classroomId" validate:"required"`
	Date             string               `json:"date" validate:"required,datetime=2006-01-02"`
	TimetableEntryID *uuid.UUID           `json:"timetableEntryId"`
	Records          []BulkAttendanceItem `json:"records" validate:"required,min=1,max=500,dive"`
}

func (r *BulkAttendanceRequest) Normalize() {
	r.Date = strings.TrimSpace(r.Date)
	for i := range r.Records {
		r.Records[i].Status = strings.ToUpper(strings.TrimSpace(r.Records[i].Status))
		r.Records[i].Note = helper.TrimPtr(r.Records[i].Note)
	}
}

type BulkAttendanceResponse struct {
	Count   int                           `json:"count"`
	Records []model.AttendanceRecordModel `json:"records"`
}

// Slot maps an optional timetable entry to the stored slot id (nil UUID = whole day).
func Slot(entryID *uuid.UUID) uuid.UUID {
	if entryID == nil {
		return uuid.Nil
	}
	return *entryID
}
