package service

import (
	"context"
	"errors"

	termModel "schoolku_backend/internals/features/school/academics/academic_terms/model"
	"schoolku_backend/internals/features/school/assessments/report_cards/reportcard"
	classroomModel "schoolku_backend/internals/features/school/classes/classrooms/model"
	enrollmentModel "schoolku_backend/internals/features/school/classes/enrollments/model"
	schoolModel "schoolku_backend/internals/features/schools/schools/model"
	helper "schoolku_backend/internals/helpers"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNoEnrollment = errors.New("no enrollment for the term's academic year")

type ClassroomRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type TermRef struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	AcademicYearID uuid.UUID `json:"academicYearId"`
}

type ClassroomReport struct {
	Classroom ClassroomRef `json:"classroom"`
	Term      TermRef      `json:"term"`
	reportcard.Result
}

type StudentReport struct {
	Classroom   ClassroomRef     `json:"classroom"`
	Term        TermRef          `json:"term"`
	Scale       float64          `json:"scale"`
	PassingMark float64          `json:"passingMark"`
	Card        reportcard.Card  `json:"card"`
	Stats       reportcard.Stats `json:"classStats"`
}

type Builder struct {
	DB *gorm.DB
}

func (b Builder) Term(ctx context.Context, schoolID, termID uuid.UUID) (*termModel.AcademicTermModel, error) {
	var t termModel.AcademicTermModel
	if err := helper.FirstOr404(ctx, b.DB, &t, "Période introuvable",
		"academic_term_id = ? AND academic_term_school_id = ?", termID, schoolID); err != nil {
		return nil, err
	}
	return &t, nil
}

func (b Builder) Classroom(ctx context.Context, schoolID, classroomID uuid.UUID) (*classroomModel.ClassroomModel, error) {
	var cl classroomModel.ClassroomModel
	if err := helper.FirstOr404(ctx, b.DB, &cl, "Classe introuvable",
		"classroom_id = ? AND classroom_school_id = ?", classroomID, schoolID); err != nil {
		return nil, err
	}
	return &cl, nil
}

// ForClassroom ranks the ACTIVE students of classroom for term.
func (b Builder) ForClassroom(ctx context.Context, classroom *classroomModel.ClassroomModel, term *termModel.AcademicTermModel, extra ...uuid.UUID) (*ClassroomReport, error) {
	if term.AcademicTermAcademicYearID != classroom.ClassroomAcademicYearID {
		return nil, helper.BadRequest("La période et la classe doivent appartenir à la même année scolaire")
	}
	settings, err := b.settings(ctx, classroom.ClassroomSchoolID)
	if err != nil {
		return nil, err
	}
	students, err := b.students(ctx, classroom.ClassroomID, extra)
	if err != nil {
		return nil, err
	}
	subjects, err := b.subjects(ctx, classroom.ClassroomID, term.AcademicTermID)
	if err != nil {
		return nil, err
	}
	grades, err := b.grades(ctx, classroom.ClassroomID, term.AcademicTermID)
	if err != nil {
		return nil, err
	}
	res := reportcard.Compute(students, subjects, grades, reportcard.Settings{
		Scale:       settings.GradingScale,
		PassingMark: settings.PassingMark,
	})
	return &ClassroomReport{
		Classroom: ClassroomRef{ID: classroom.ClassroomID, Name: classroom.ClassroomName},
		Term:      TermRef{ID: term.AcademicTermID, Name: term.AcademicTermName, AcademicYearID: term.AcademicTermAcademicYearID},
		Result:    res,
	}, nil
}

// ForStudent computes the classroom report of the student's enrollment in the
// term's year and extracts the student's card. A non-ACTIVE enrollment still
// gets a card; it is ranked with the classroom.
func (b Builder) ForStudent(ctx context.Context, schoolID, studentID uuid.UUID, term *termModel.AcademicTermModel) (*StudentReport, error) {
	var e enrollmentModel.EnrollmentModel
	err := b.DB.WithContext(ctx).
		Where("enrollment_school_id = ? AND enrollment_student_id = ? AND enrollment_academic_year_id = ?",
			schoolID, studentID, term.AcademicTermAcademicYearID).
		Take(&e).Error
	if helper.IsNotFound(err) {
		return nil, ErrNoEnrollment
	}
	if err != nil {
		return nil, err
	}
	classroom, err := b.Classroom(ctx, schoolID, e.EnrollmentClassroomID)
	if err != nil {
		return nil, err
	}
	rep, err := b.ForClassroom(ctx, classroom, term, studentID)
	if err != nil {
		return nil, err
	}
	for _, card := range rep.Cards {
		if card.StudentID == studentID {
			return &StudentReport{
				Classroom:   rep.Classroom,
				Term:        rep.Term,
				Scale:       rep.Scale,
				PassingMark: rep.PassingMark,
				Card:        card,
				Stats:       rep.Stats,
			}, nil
		}
	}
	return nil, ErrNoEnrollment
}

func (b Builder) settings(ctx context.Context, schoolID uuid.UUID) (schoolModel.SchoolSettings, error) {
	var s schoolModel.SchoolModel
	if err := b.DB.WithContext(ctx).Select("school_id", "school_settings").
		Where("school_id = ?", schoolID).Take(&s).Error; err != nil {
		return schoolModel.DefaultSettings(), err
	}
	return s.Settings(), nil
}

// students: ACTIVE enrollments of the classroom plus any extra ids enrolled there.
func (b Builder) students(ctx context.Context, classroomID uuid.UUID, extra []uuid.UUID) ([]reportcard.Student, error) {
	type row struct {
		ID       uuid.UUID
		FullName string
	}
	rows := []row{}
	err := b.DB.WithContext(ctx).Table("enrollments e").
		Select("u.id AS id, u.full_name AS full_name").
		Joins("JOIN users u ON u.id = e.enrollment_student_id").
		Where("e.enrollment_classroom_id = ?", classroomID).
		Where("e.enrollment_status = ? OR e.enrollment_student_id IN ?",
			enrollmentModel.EnrollmentActive, append(extra, uuid.Nil)).
		Order("u.full_name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]reportcard.Student, len(rows))
	for i, r := range rows {
		out[i] = reportcard.Student{ID: r.ID, FullName: r.FullName}
	}
	return out, nil
}

// subjects taught in the classroom (assignments) or assessed in the term.
func (b Builder) subjects(ctx context.Context, classroomID, termID uuid.UUID) ([]reportcard.Subject, error) {
	type row struct {
		SubjectID          uuid.UUID
		SubjectName        string
		SubjectCode        *string
		SubjectCoefficient float64
	}
	rows := []row{}
	db := b.DB.WithContext(ctx)
	err := db.Table("subjects").
		Select("subject_id, subject_name, subject_code, subject_coefficient").
		Where("subject_deleted_at IS NULL").
		Where("subject_id IN (?) OR subject_id IN (?)",
			db.Table("teacher_assignments").Select("teacher_assignment_subject_id").
				Where("teacher_assignment_classroom_id = ?", classroomID),
			db.Table("assessments").Select("assessment_subject_id").
				Where("assessment_classroom_id = ? AND assessment_term_id = ? AND assessment_deleted_at IS NULL", classroomID, termID),
		).
		Order("subject_name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]reportcard.Subject, len(rows))
	for i, r := range rows {
		out[i] = reportcard.Subject{ID: r.SubjectID, Name: r.SubjectName, Code: r.SubjectCode, Coefficient: r.SubjectCoefficient}
	}
	return out, nil
}

func (b Builder) grades(ctx context.Context, classroomID, termID uuid.UUID) ([]reportcard.Grade, error) {
	rows := []reportcard.Grade{}
	err := b.DB.WithContext(ctx).Table("student_grades g").
		Select(`g.student_grade_student_id AS student_id, a.assessment_subject_id AS subject_id,
			g.student_grade_score AS score, a.assessment_max_score AS max_score,
			a.assessment_coefficient AS coefficient, COALESCE(t.assessment_type_weight, 0) AS type_weight`).
		Joins("JOIN assessments a ON a.assessment_id = g.student_grade_assessment_id AND a.assessment_deleted_at IS NULL").
		Joins("LEFT JOIN assessment_types t ON t.assessment_type_id = a.assessment_type_id AND t.assessment_type_deleted_at IS NULL").
		Where("a.assessment_classroom_id = ? AND a.assessment_term_id = ?", classroomID, termID).
		Scan(&rows).Error
	return rows, err
}
