package dto

import (
	"strings"

	"schoolku_backend/internals/features/school/timetables/timetable_entries/model"
	helper "schoolku_backend/internals/helpers"

	"github.com/google/uuid"
)

type CreateTimetableEntryRequest struct {
	ClassroomID uuid.UUID  `json:"classroomId" validate:"required"`
	SubjectID   uuid.UUID  `json:"subjectId" validate:"required"`
	TeacherID   *uuid.UUID `json:"teacherId"`
	DayOfWeek   int        `json:"dayOfWeek" validate:"required,min=1,max=7"`
	StartTime   string     `json:"startTime" validate:"required,hhmm"`
	EndTime     string     `json:"endTime" validate:"required,hhmm"`
	Room        *string    `json:"room" validate:"omitempty,max=50"`
}

func (r *CreateTimetableEntryRequest) Normalize() {
	r.StartTime = strings.TrimSpace(r.StartTime)
	r.EndTime = strings.TrimSpace(r.EndTime)
	r.Room = helper.TrimPtr(r.Room)
}

func (r *CreateTimetableEntryRequest) ToModel(schoolID, yearID uuid.UUID) *model.TimetableEntryModel {
	return &model.TimetableEntryModel{
		TimetableEntrySchoolID:       schoolID,
		TimetableEntryAcademicYearID: yearID,
		TimetableEntryClassroomID:    r.ClassroomID,
		TimetableEntrySubjectID:      r.SubjectID,
		TimetableEntryTeacherID:      r.TeacherID,
		TimetableEntryDayOfWeek:      r.DayOfWeek,
		TimetableEntryStartTime:      r.StartTime,
		TimetableEntryEndTime:        r.EndTime,
		TimetableEntryRoom:           r.Room,
	}
}

type UpdateTimetableEntryRequest struct {
	SubjectID *uuid.UUID `json:"subjectId"`
	TeacherID *uuid.UUID `json:"teacherId"`
	DayOfWeek *int       `json:"dayOfWeek" validate:"omitempty,min=1,max=7"`
	StartTime *string    `json:"startTime" validate:"omitempty,hhmm"`
	EndTime   *string    `json:"endTime" validate:"omitempty,hhmm"`
	Room      *string    `json:"room" validate:"omitempty,max=50"`
}

func (r *UpdateTimetableEntryRequest) Normalize() {
	r.StartTime = helper.TrimPtr(r.StartTime)
	r.EndTime = helper.TrimPtr(r.EndTime)
	r.Room = helper.TrimPtr(r.Room)
}

func (r *UpdateTimetableEntryRequest) ApplyUpdates(m *model.TimetableEntryModel) {
	if r.SubjectID != nil {
		m.TimetableEntrySubjectID = *r.SubjectID
	}
	if r.TeacherID != nil {
		// uuid.Nil clears the teacher
		if *r.TeacherID == uuid.Nil {
			m.TimetableEntryTeacherID = nil
		} else {
			m.TimetableEntryTeacherID = r.TeacherID
		}
	}
	if r.DayOfWeek != nil {
		m.TimetableEntryDayOfWeek = *r.DayOfWeek
	}
	if r.StartTime != nil {
		m.TimetableEntryStartTime = *r.StartTime
	}
	if r.EndTime != nil {
		m.TimetableEntryEndTime = *r.EndTime
	}
	if r.Room != nil {
		m.TimetableEntryRoom = r.Room
	}
}
