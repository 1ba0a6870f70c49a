package database

import (
	"log"

	paymentModel "schoolku_backend/internals/features/finance/payments/model"
	yearModel "schoolku_backend/internals/features/school/academics/academic_years/model"
	termModel "schoolku_backend/internals/features/school/academics/academic_terms/model"
	gradeLevelModel "schoolku_backend/internals/features/school/academics/grade_levels/model"
	subjectCategoryModel "schoolku_backend/internals/features/school/academics/subject_categories/model"
	subjectModel "schoolku_backend/internals/features/school/academics/subjects/model"
	assessmentTypeModel "schoolku_backend/internals/features/school/assessments/assessment_types/model"
	assessmentModel "schoolku_backend/internals/features/school/assessments/assessments/model"
	gradeModel "schoolku_backend/internals/features/school/assessments/student_grades/model"
	attendanceModel "schoolku_backend/internals/features/school/attendance/attendance_records/model"
	classroomModel "schoolku_backend/internals/features/school/classes/classrooms/model"
	enrollmentModel "schoolku_backend/internals/features/school/classes/enrollments/model"
	parentProfileModel "schoolku_backend/internals/features/school/parents/parent_profiles/model"
	parentStudentModel "schoolku_backend/internals/features/school/parents/parent_students/model"
	assignmentModel "schoolku_backend/internals/features/school/teachers/teacher_assignments/model"
	teacherProfileModel "schoolku_backend/internals/features/school/teachers/teacher_profiles/model"
	timetableModel "schoolku_backend/internals/features/school/timetables/timetable_entries/model"
	memberModel "schoolku_backend/internals/features/schools/members/model"
	schoolModel "schoolku_backend/internals/features/schools/schools/model"
	authModel "schoolku_backend/internals/features/users/auth/model"
	userModel "schoolku_backend/internals/features/users/users/model"

	"gorm.io/gorm"
)

// Models lists every table, parents first.
func Models() []any {
	return []any{
		&userModel.UserModel{},
		&authModel.TokenBlacklist{},
		&schoolModel.SchoolModel{},
		&memberModel.UserSchoolModel{},
		&yearModel.AcademicYearModel{},
		&termModel.AcademicTermModel{},
		&gradeLevelModel.GradeLevelModel{},
		&subjectCategoryModel.SubjectCategoryModel{},
		&subjectModel.SubjectModel{},
		&classroomModel.ClassroomModel{},
		&enrollmentModel.EnrollmentModel{},
		&teacherProfileModel.TeacherProfileModel{},
		&assignmentModel.TeacherAssignmentModel{},
		&assessmentTypeModel.AssessmentTypeModel{},
		&assessmentModel.AssessmentModel{},
		&gradeModel.StudentGradeModel{},
		&timetableModel.TimetableEntryModel{},
		&attendanceModel.AttendanceRecordModel{},
		&parentProfileModel.ParentProfileModel{},
		&parentStudentModel.ParentStudentModel{},
		&paymentModel.Payment{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return err
	}
	log.Println("✅ AutoMigrate terminé")
	return nil
}
