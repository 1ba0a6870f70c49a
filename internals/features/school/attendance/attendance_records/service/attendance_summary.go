package service

import (
	"context"
	"math"
	"time"

	"schoolku_backend/internals/features/school/attendance/attendance_records/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Counts are attendance tallies for one student or a whole selection.
type Counts struct {
	Total          int64   `json:"total"`
	Present        int64   `json:"present"`
	Absent         int64   `json:"absent"`
	Late           int64   `json:"late"`
	Excused        int64   `json:"excused"`
	AttendanceRate float64 `json:"attendanceRate"`
}

type StudentSummary struct {
	StudentID uuid.UUID `json:"studentId"`
	FullName  string    `json:"fullName"`
	Counts
}

type Summary struct {
	Students []StudentSummary `json:"students"`
	Totals   Counts           `json:"totals"`
}

// Rate = (present + late) / (total - excused) * 100, 2 decimals; 0 when nothing counts.
func Rate(present, late, excused, total int64) float64 {
	den := total - excused
	if den <= 0 {
		return 0
	}
	return math.Round(float64(present+late)/float64(den)*100*100) / 100
}

func (c *Counts) fill() {
	c.AttendanceRate = Rate(c.Present, c.Late, c.Excused, c.Total)
}

type Filter struct {
	SchoolID    uuid.UUID
	ClassroomID *uuid.UUID
	StudentIDs  []uuid.UUID // nil means no narrowing
	From, To    *time.Time
}

func (f Filter) apply(q *gorm.DB) *gorm.DB {
	q = q.Where("r.attendance_record_school_id = ?", f.SchoolID)
	if f.ClassroomID != nil {
		q = q.Where("r.attendance_record_classroom_id = ?", *f.ClassroomID)
	}
	if f.StudentIDs != nil {
		q = q.Where("r.attendance_record_student_id IN ?", append(f.StudentIDs, uuid.Nil))
	}
	if f.From != nil {
		q = q.Where("r.attendance_record_date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("r.attendance_record_date <= ?", *f.To)
	}
	return q
}

// Summarize tallies the records matching f per student, ordered by name.
func Summarize(ctx context.Context, db *gorm.DB, f Filter) (*Summary, error) {
	rows := []StudentSummary{}
	q := db.WithContext(ctx).Table("attendance_records r").
		Select(`r.attendance_record_student_id AS student_id, u.full_name AS full_name,
			COUNT(*) AS total,
			SUM(CASE WHEN r.attendance_record_status = ? THEN 1 ELSE 0 END) AS present,
			SUM(CASE WHEN r.attendance_record_status = ? THEN 1 ELSE 0 END) AS absent,
			SUM(CASE WHEN r.attendance_record_status = ? THEN 1 ELSE 0 END) AS late,
			SUM(CASE WHEN r.attendance_record_status = ? THEN 1 ELSE 0 END) AS excused`,
			model.StatusPresent, model.StatusAbsent, model.StatusLate, model.StatusExcused).
		Joins("JOIN users u ON u.id = r.attendance_record_student_id")
	err := f.apply(q).
		Group("r.attendance_record_student_id, u.full_name").
		Order("u.full_name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := &Summary{Students: rows}
	for i := range out.Students {
		s := &out.Students[i]
		s.fill()
		out.Totals.Total += s.Total
		out.Totals.Present += s.Present
		out.Totals.Absent += s.Absent
		out.Totals.Late += s.Late
		out.Totals.Excused += s.Excused
	}
	out.Totals.fill()
	return out, nil
}

// DayRate is the school-wide rate for one date.
func DayRate(ctx context.Context, db *gorm.DB, schoolID uuid.UUID, day time.Time) (float64, error) {
	s, err := Summarize(ctx, db, Filter{SchoolID: schoolID, From: &day, To: &day})
	if err != nil {
		return 0, err
	}
	return s.Totals.AttendanceRate, nil
}
