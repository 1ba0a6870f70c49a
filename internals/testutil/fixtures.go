package testutil

import (
	"testing"
	"time"

	"schoolku_backend/internals/constants"
	paymentModel "schoolku_backend/internals/features/finance/payments/model"
	termModel "schoolku_backend/internals/features/school/academics/academic_terms/model"
	yearModel "schoolku_backend/internals/features/school/academics/academic_years/model"
	subjectModel "schoolku_backend/internals/features/school/academics/subjects/model"
	assessmentModel "schoolku_backend/internals/features/school/assessments/assessments/model"
	classroomModel "schoolku_backend/internals/features/school/classes/classrooms/model"
	enrollmentModel "schoolku_backend/internals/features/school/classes/enrollments/model"
	parentProfileModel "schoolku_backend/internals/features/school/parents/parent_profiles/model"
	parentStudentModel "schoolku_backend/internals/features/school/parents/parent_students/model"
	assignmentModel "schoolku_backend/internals/features/school/teachers/teacher_assignments/model"
	teacherProfileModel "schoolku_backend/internals/features/school/teachers/teacher_profiles/model"
	memberModel "schoolku_backend/internals/features/schools/members/model"
	schoolModel "schoolku_backend/internals/features/schools/schools/model"
	authService "schoolku_backend/internals/features/users/auth/service"
	userModel "schoolku_backend/internals/features/users/users/model"
	helper "schoolku_backend/internals/helpers"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const Password = "secret-pass-123"

func User(t *testing.T, db *gorm.DB, email, globalRole string) *userModel.UserModel {
	t.Helper()
	hash, err := authService.HashPassword(Password)
	require.NoError(t, err)
	u := &userModel.UserModel{
		FullName:     email,
		Email:        email,
		PasswordHash: hash,
		Role:         globalRole,
		IsActive:     true,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func School(t *testing.T, db *gorm.DB, name string) *schoolModel.SchoolModel {
	t.Helper()
	s := &schoolModel.SchoolModel{
		SchoolName:     name,
		SchoolSlug:     helper.Slugify(name, 120),
		SchoolSettings: schoolModel.DefaultSettings().JSON(),
		SchoolIsActive: true,
	}
	require.NoError(t, db.Create(s).Error)
	return s
}

func Member(t *testing.T, db *gorm.DB, userID, schoolID uuid.UUID, role string) *memberModel.UserSchoolModel {
	t.Helper()
	m := &memberModel.UserSchoolModel{UserSchoolUserID: userID, UserSchoolSchoolID: schoolID, UserSchoolRole: role}
	require.NoError(t, db.Create(m).Error)
	return m
}

// SchoolUser creates a user that is a member of schoolID with role.
func SchoolUser(t *testing.T, db *gorm.DB, schoolID uuid.UUID, email, role string) *userModel.UserModel {
	t.Helper()
	u := User(t, db, email, constants.RoleUser)
	Member(t, db, u.ID, schoolID, role)
	return u
}

func Year(t *testing.T, db *gorm.DB, schoolID uuid.UUID, name string, current bool) *yearModel.AcademicYearModel {
	t.Helper()
	y := &yearModel.AcademicYearModel{
		AcademicYearSchoolID:  schoolID,
		AcademicYearName:      name,
		AcademicYearStartDate: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		AcademicYearEndDate:   time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC),
		AcademicYearIsCurrent: current,
	}
	require.NoError(t, db.Create(y).Error)
	return y
}

func Term(t *testing.T, db *gorm.DB, year *yearModel.AcademicYearModel, name string, order int) *termModel.AcademicTermModel {
	t.Helper()
	m := &termModel.AcademicTermModel{
		AcademicTermSchoolID:       year.AcademicYearSchoolID,
		AcademicTermAcademicYearID: year.AcademicYearID,
		AcademicTermName:           name,
		AcademicTermOrder:          order,
		AcademicTermStartDate:      year.AcademicYearStartDate,
		AcademicTermEndDate:        year.AcademicYearStartDate.AddDate(0, 3, 0),
	}
	require.NoError(t, db.Create(m).Error)
	return m
}

func Classroom(t *testing.T, db *gorm.DB, year *yearModel.AcademicYearModel, name string) *classroomModel.ClassroomModel {
	t.Helper()
	m := &classroomModel.ClassroomModel{
		ClassroomSchoolID:       year.AcademicYearSchoolID,
		ClassroomAcademicYearID: year.AcademicYearID,
		ClassroomName:           name,
	}
	require.NoError(t, db.Create(m).Error)
	return m
}

func Subject(t *testing.T, db *gorm.DB, schoolID uuid.UUID, name string, coefficient float64) *subjectModel.SubjectModel {
	t.Helper()
	m := &subjectModel.SubjectModel{SubjectSchoolID: schoolID, SubjectName: name, SubjectCoefficient: coefficient}
	require.NoError(t, db.Create(m).Error)
	return m
}

func Enroll(t *testing.T, db *gorm.DB, studentID uuid.UUID, classroom *classroomModel.ClassroomModel) *enrollmentModel.EnrollmentModel {
	t.Helper()
	m := &enrollmentModel.EnrollmentModel{
		EnrollmentSchoolID:       classroom.ClassroomSchoolID,
		EnrollmentStudentID:      studentID,
		EnrollmentAcademicYearID: classroom.ClassroomAcademicYearID,
		EnrollmentClassroomID:    classroom.ClassroomID,
		EnrollmentStatus:         enrollmentModel.EnrollmentActive,
		EnrollmentEnrolledAt:     time.Now().UTC(),
	}
	require.NoError(t, db.Create(m).Error)
	return m
}

func TeacherProfile(t *testing.T, db *gorm.DB, schoolID, userID uuid.UUID) *teacherProfileModel.TeacherProfileModel {
	t.Helper()
	m := &teacherProfileModel.TeacherProfileModel{TeacherProfileSchoolID: schoolID, TeacherProfileUserID: userID}
	require.NoError(t, db.Create(m).Error)
	return m
}

func Assign(t *testing.T, db *gorm.DB, teacherID uuid.UUID, classroom *classroomModel.ClassroomModel, subjectID uuid.UUID) *assignmentModel.TeacherAssignmentModel {
	t.Helper()
	m := &assignmentModel.TeacherAssignmentModel{
		TeacherAssignmentSchoolID:       classroom.ClassroomSchoolID,
		TeacherAssignmentTeacherID:      teacherID,
		TeacherAssignmentClassroomID:    classroom.ClassroomID,
		TeacherAssignmentSubjectID:      subjectID,
		TeacherAssignmentAcademicYearID: classroom.ClassroomAcademicYearID,
	}
	require.NoError(t, db.Create(m).Error)
	return m
}

// LinkParent creates the parent profile when needed and links it to studentID.
func LinkParent(t *testing.T, db *gorm.DB, schoolID, parentUserID, studentID uuid.UUID) *parentProfileModel.ParentProfileModel {
	t.Helper()
	var p parentProfileModel.ParentProfileModel
	err := db.Where("parent_profile_school_id = ? AND parent_profile_user_id = ?", schoolID, parentUserID).Take(&p).Error
	if err != nil {
		p = parentProfileModel.ParentProfileModel{ParentProfileSchoolID: schoolID, ParentProfileUserID: parentUserID}
		require.NoError(t, db.Create(&p).Error)
	}
	require.NoError(t, db.Create(&parentStudentModel.ParentStudentModel{
		ParentStudentSchoolID:     schoolID,
		ParentStudentParentID:     p.ParentProfileID,
		ParentStudentStudentID:    studentID,
		ParentStudentRelationship: "GUARDIAN",
	}).Error)
	return &p
}

func Assessment(t *testing.T, db *gorm.DB, classroom *classroomModel.ClassroomModel, subjectID, termID uuid.UUID, maxScore float64) *assessmentModel.AssessmentModel {
	t.Helper()
	kind := "EXAM"
	m := &assessmentModel.AssessmentModel{
		AssessmentSchoolID:    classroom.ClassroomSchoolID,
		AssessmentClassroomID: classroom.ClassroomID,
		AssessmentSubjectID:   subjectID,
		AssessmentTermID:      termID,
		AssessmentTitle:       "Contrôle",
		AssessmentKind:        &kind,
		AssessmentMaxScore:    maxScore,
		AssessmentCoefficient: 1,
	}
	require.NoError(t, db.Create(m).Error)
	return m
}

func Payment(t *testing.T, db *gorm.DB, schoolID, studentID uuid.UUID, amount int64) *paymentModel.Payment {
	t.Helper()
	p := &paymentModel.Payment{
		PaymentSchoolID:  schoolID,
		PaymentStudentID: studentID,
		PaymentLabel:     "Scolarité",
		PaymentAmount:    amount,
		PaymentCurrency:  "XOF",
		PaymentStatus:    paymentModel.PaymentStatusPending,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}
