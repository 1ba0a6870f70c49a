package service

import (
	"context"
	"time"

	"schoolku_backend/internals/constants"
	classroomModel "schoolku_backend/internals/features/school/classes/classrooms/model"
	"schoolku_backend/internals/features/school/classes/enrollments/model"
	helper "schoolku_backend/internals/helpers"
	helperAuth "schoolku_backend/internals/helpers/auth"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrClassroomFull    = helper.Conflict("Classe complète")
	ErrAlreadyEnrolled  = helper.Conflict("Élève déjà inscrit pour cette année scolaire")
	ErrNotStudentMember = helper.BadRequest("L'utilisateur n'est pas élève de cette école")
)

// EnsureCapacity fails when the classroom already holds capacity ACTIVE enrollments.
// exceptID excludes the enrollment being moved.
func EnsureCapacity(tx *gorm.DB, classroom *classroomModel.ClassroomModel, exceptID uuid.UUID) error {
	if classroom.ClassroomCapacity == nil {
		return nil
	}
	var active int64
	if err := tx.Model(&model.EnrollmentModel{}).
		Where("enrollment_classroom_id = ? AND enrollment_status = ? AND enrollment_id <> ?",
			classroom.ClassroomID, model.EnrollmentActive, exceptID).
		Count(&active).Error; err != nil {
		return err
	}
	if active >= int64(*classroom.ClassroomCapacity) {
		return ErrClassroomFull
	}
	return nil
}

// Enroll creates the enrollment inside tx after the membership, duplicate and capacity checks.
func Enroll(ctx context.Context, tx *gorm.DB, classroom *classroomModel.ClassroomModel, studentID uuid.UUID, status string, enrolledAt time.Time) (*model.EnrollmentModel, error) {
	ok, err := helperAuth.HasMembershipRole(ctx, tx, studentID, classroom.ClassroomSchoolID, constants.RoleStudent)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotStudentMember
	}

	dup, err := helper.Exists(ctx, tx, &model.EnrollmentModel{},
		"enrollment_student_id = ? AND enrollment_academic_year_id = ?", studentID, classroom.ClassroomAcademicYearID)
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, ErrAlreadyEnrolled
	}

	if status == "" {
		status = model.EnrollmentActive
	}
	if status == model.EnrollmentActive {
		if err := EnsureCapacity(tx, classroom, uuid.Nil); err != nil {
			return nil, err
		}
	}

	ent := &model.EnrollmentModel{
		EnrollmentSchoolID:       classroom.ClassroomSchoolID,
		EnrollmentStudentID:      studentID,
		EnrollmentAcademicYearID: classroom.ClassroomAcademicYearID,
		EnrollmentClassroomID:    classroom.ClassroomID,
		EnrollmentStatus:         status,
		EnrollmentEnrolledAt:     enrolledAt,
	}
	if ent.EnrollmentEnrolledAt.IsZero() {
		ent.EnrollmentEnrolledAt = helper.DateOnly(time.Now())
	}
	if err := tx.WithContext(ctx).Create(ent).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, ErrAlreadyEnrolled
		}
		return nil, err
	}
	return ent, nil
}
