package service

import (
	"context"
	"fmt"
	"strconv"

	assessmentModel "schoolku_backend/internals/features/school/assessments/assessments/model"
	enrollmentModel "schoolku_backend/internals/features/school/classes/enrollments/model"
	helper "schoolku_backend/internals/helpers"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNotEnrolled = helper.BadRequest("L'élève n'est pas inscrit dans la classe de l'évaluation")

func LoadAssessment(ctx context.Context, db *gorm.DB, schoolID, id uuid.UUID) (*assessmentModel.AssessmentModel, error) {
	var a assessmentModel.AssessmentModel
	if err := helper.FirstOr404(ctx, db, &a, "Évaluation introuvable",
		"assessment_id = ? AND assessment_school_id = ?", id, schoolID); err != nil {
		return nil, err
	}
	return &a, nil
}

// CheckScore: 0 <= score <= maxScore.
func CheckScore(a *assessmentModel.AssessmentModel, score float64) error {
	if score < 0 || score > a.AssessmentMaxScore {
		return helper.BadRequest(fmt.Sprintf("score doit être compris entre 0 et %s",
			strconv.FormatFloat(a.AssessmentMaxScore, 'f', -1, 64)))
	}
	return nil
}

// EnrolledStudents returns the ACTIVE students of the assessment's classroom.
func EnrolledStudents(ctx context.Context, db *gorm.DB, a *assessmentModel.AssessmentModel) (map[uuid.UUID]struct{}, error) {
	ids := []uuid.UUID{}
	if err := db.WithContext(ctx).Model(&enrollmentModel.EnrollmentModel{}).
		Where("enrollment_classroom_id = ? AND enrollment_status = ?", a.AssessmentClassroomID, enrollmentModel.EnrollmentActive).
		Pluck("enrollment_student_id", &ids).Error; err != nil {
		return nil, err
	}
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

func EnsureEnrolled(ctx context.Context, db *gorm.DB, a *assessmentModel.AssessmentModel, studentID uuid.UUID) error {
	ok, err := helper.Exists(ctx, db, &enrollmentModel.EnrollmentModel{},
		"enrollment_classroom_id = ? AND enrollment_student_id = ? AND enrollment_status = ?",
		a.AssessmentClassroomID, studentID, enrollmentModel.EnrollmentActive)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotEnrolled
	}
	return nil
}
