package service

import (
	"context"
	"sort"

	"schoolku_backend/internals/features/school/timetables/timetable_entries/model"
	helper "schoolku_backend/internals/helpers"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrClassroomBusy = helper.Conflict("La classe a déjà un cours sur ce créneau")
	ErrTeacherBusy   = helper.Conflict("L'enseignant a déjà un cours sur ce créneau")
	ErrTimeOrder     = helper.BadRequest("L'heure de fin doit être postérieure à l'heure de début")
)

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
// Times are zero-padded "HH:MM" so string order is time order.
func Overlaps(aStart, aEnd, bStart, bEnd string) bool {
	return aStart < bEnd && bStart < aEnd
}

// EnsureFree rejects e when it overlaps another entry of the same classroom or
// teacher on the same day of the same academic year.
func EnsureFree(ctx context.Context, db *gorm.DB, e *model.TimetableEntryModel) error {
	if e.TimetableEntryEndTime <= e.TimetableEntryStartTime {
		return ErrTimeOrder
	}
	base := func() *gorm.DB {
		return db.WithContext(ctx).Model(&model.TimetableEntryModel{}).
			Where("timetable_entry_school_id = ? AND timetable_entry_academic_year_id = ? AND timetable_entry_day_of_week = ?",
				e.TimetableEntrySchoolID, e.TimetableEntryAcademicYearID, e.TimetableEntryDayOfWeek).
			Where("timetable_entry_id <> ?", e.TimetableEntryID).
			Where("timetable_entry_start_time < ? AND ? < timetable_entry_end_time",
				e.TimetableEntryEndTime, e.TimetableEntryStartTime)
	}

	var n int64
	if err := base().Where("timetable_entry_classroom_id = ?", e.TimetableEntryClassroomID).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return ErrClassroomBusy
	}
	if e.TimetableEntryTeacherID != nil && *e.TimetableEntryTeacherID != uuid.Nil {
		if err := base().Where("timetable_entry_teacher_id = ?", *e.TimetableEntryTeacherID).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrTeacherBusy
		}
	}
	return nil
}

type Day struct {
	DayOfWeek int                         `json:"dayOfWeek"`
	Entries   []model.TimetableEntryModel `json:"entries"`
}

// GroupByDay returns seven days (1 = Monday) with their entries in start order.
func GroupByDay(entries []model.TimetableEntryModel) []Day {
	week := make([]Day, 7)
	for i := range week {
		week[i] = Day{DayOfWeek: i + 1, Entries: []model.TimetableEntryModel{}}
	}
	for _, e := range entries {
		if e.TimetableEntryDayOfWeek < 1 || e.TimetableEntryDayOfWeek > 7 {
			continue
		}
		d := &week[e.TimetableEntryDayOfWeek-1]
		d.Entries = append(d.Entries, e)
	}
	for i := range week {
		es := week[i].Entries
		sort.SliceStable(es, func(a, b int) bool {
			return es[a].TimetableEntryStartTime < es[b].TimetableEntryStartTime
		})
	}
	return week
}
