package helper

import (
	"context"
	"errors"

	"schoolku_backend/internals/constants"
	parentProfileModel "schoolku_backend/internals/features/school/parents/parent_profiles/model"
	parentStudentModel "schoolku_backend/internals/features/school/parents/parent_students/model"
	assignmentModel "schoolku_backend/internals/features/school/teachers/teacher_assignments/model"
	teacherProfileModel "schoolku_backend/internals/features/school/teachers/teacher_profiles/model"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNotAssigned = fiber.NewError(fiber.StatusForbidden, "Vous n'êtes pas affecté à cette classe ou matière")

// TeacherProfileID returns uuid.Nil when the user has no teacher profile in the school.
func TeacherProfileID(ctx context.Context, db *gorm.DB, schoolID, userID uuid.UUID) (uuid.UUID, error) {
	var p teacherProfileModel.TeacherProfileModel
	err := db.WithContext(ctx).
		Select("teacher_profile_id").
		Where("teacher_profile_school_id = ? AND teacher_profile_user_id = ?", schoolID, userID).
		Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, nil
	}
	return p.TeacherProfileID, err
}

// TeacherClassroomIDs lists the classrooms where the caller holds at least one assignment.
func TeacherClassroomIDs(ctx context.Context, db *gorm.DB, schoolID, userID uuid.UUID) ([]uuid.UUID, error) {
	tid, err := TeacherProfileID(ctx, db, schoolID, userID)
	if err != nil || tid == uuid.Nil {
		return []uuid.UUID{}, err
	}
	ids := []uuid.UUID{}
	err = db.WithContext(ctx).Model(&assignmentModel.TeacherAssignmentModel{}).
		Where("teacher_assignment_school_id = ? AND teacher_assignment_teacher_id = ?", schoolID, tid).
		Distinct().
		Pluck("teacher_assignment_classroom_id", &ids).Error
	return ids, err
}

// EnsureCanTeach lets ADMIN/SUPER_ADMIN through; a TEACHER must be assigned to
// (classroomID, subjectID), or to any subject of classroomID when subjectID is nil.
func EnsureCanTeach(c *fiber.Ctx, db *gorm.DB, classroomID uuid.UUID, subjectID *uuid.UUID) error {
	if IsSchoolManager(c) {
		return nil
	}
	if GetSchoolRole(c) != constants.RoleTeacher {
		return ErrRoleForbidden
	}
	ctx := c.UserContext()
	schoolID := GetSchoolID(c)
	tid, err := TeacherProfileID(ctx, db, schoolID, GetUserID(c))
	if err != nil {
		return err
	}
	if tid == uuid.Nil {
		return ErrNotAssigned
	}
	q := db.WithContext(ctx).Model(&assignmentModel.TeacherAssignmentModel{}).
		Where("teacher_assignment_school_id = ? AND teacher_assignment_teacher_id = ? AND teacher_assignment_classroom_id = ?",
			schoolID, tid, classroomID)
	if subjectID != nil {
		q = q.Where("teacher_assignment_subject_id = ?", *subjectID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotAssigned
	}
	return nil
}

// ChildrenIDs lists the students linked to the caller's parent profile.
func ChildrenIDs(ctx context.Context, db *gorm.DB, schoolID, userID uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	err := db.WithContext(ctx).Model(&parentStudentModel.ParentStudentModel{}).
		Joins("JOIN parent_profiles pp ON pp.parent_profile_id = parent_students.parent_student_parent_id").
		Where("parent_students.parent_student_school_id = ? AND pp.parent_profile_user_id = ?", schoolID, userID).
		Pluck("parent_students.parent_student_student_id", &ids).Error
	return ids, err
}

// ParentProfileID returns uuid.Nil when the user has no parent profile in the school.
func ParentProfileID(ctx context.Context, db *gorm.DB, schoolID, userID uuid.UUID) (uuid.UUID, error) {
	var p parentProfileModel.ParentProfileModel
	err := db.WithContext(ctx).
		Select("parent_profile_id").
		Where("parent_profile_school_id = ? AND parent_profile_user_id = ?", schoolID, userID).
		Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, nil
	}
	return p.ParentProfileID, err
}

// VisibleStudentIDs narrows student-owned reads: PARENT sees linked children,
// STUDENT sees self. restricted=false means every student of the school.
func VisibleStudentIDs(c *fiber.Ctx, db *gorm.DB) (ids []uuid.UUID, restricted bool, err error) {
	switch GetSchoolRole(c) {
	case constants.RoleParent:
		ids, err = ChildrenIDs(c.UserContext(), db, GetSchoolID(c), GetUserID(c))
		return ids, true, err
	case constants.RoleStudent:
		return []uuid.UUID{GetUserID(c)}, true, nil
	default:
		return nil, false, nil
	}
}

// CanSeeStudent applies VisibleStudentIDs to one student.
func CanSeeStudent(c *fiber.Ctx, db *gorm.DB, studentID uuid.UUID) error {
	ids, restricted, err := VisibleStudentIDs(c, db)
	if err != nil {
		return err
	}
	if !restricted {
		return nil
	}
	for _, id := range ids {
		if id == studentID {
			return nil
		}
	}
	return fiber.NewError(fiber.StatusForbidden, constants.MsgForbidden)
}
