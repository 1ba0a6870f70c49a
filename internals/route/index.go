// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"schoolku_backend/internals/configs"
	paymentRoute "schoolku_backend/internals/features/finance/payments/route"
	paymentService "schoolku_backend/internals/features/finance/payments/service"
	academicTermRoute "schoolku_backend/internals/features/school/academics/academic_terms/route"
	academicYearRoute "schoolku_backend/internals/features/school/academics/academic_years/route"
	gradeLevelRoute "schoolku_backend/internals/features/school/academics/grade_levels/route"
	subjectCategoryRoute "schoolku_backend/internals/features/school/academics/subject_categories/route"
	subjectRoute "schoolku_backend/internals/features/school/academics/subjects/route"
	assessmentTypeRoute "schoolku_backend/internals/features/school/assessments/assessment_types/route"
	assessmentRoute "schoolku_backend/internals/features/school/assessments/assessments/route"
	reportCardRoute "schoolku_backend/internals/features/school/assessments/report_cards/route"
	studentGradeRoute "schoolku_backend/internals/features/school/assessments/student_grades/route"
	attendanceRoute "schoolku_backend/internals/features/school/attendance/attendance_records/route"
	classroomRoute "schoolku_backend/internals/features/school/classes/classrooms/route"
	enrollmentRoute "schoolku_backend/internals/features/school/classes/enrollments/route"
	dashboardRoute "schoolku_backend/internals/features/school/dashboard/route"
	parentProfileRoute "schoolku_backend/internals/features/school/parents/parent_profiles/route"
	parentStudentRoute "schoolku_backend/internals/features/school/parents/parent_students/route"
	teacherAssignmentRoute "schoolku_backend/internals/features/school/teachers/teacher_assignments/route"
	teacherProfileRoute "schoolku_backend/internals/features/school/teachers/teacher_profiles/route"
	timetableRoute "schoolku_backend/internals/features/school/timetables/timetable_entries/route"
	memberRoute "schoolku_backend/internals/features/schools/members/route"
	schoolRoute "schoolku_backend/internals/features/schools/schools/route"
	authRoute "schoolku_backend/internals/features/users/auth/route"
	authService "schoolku_backend/internals/features/users/auth/service"
	contextRoute "schoolku_backend/internals/features/users/context/route"
	userRoute "schoolku_backend/internals/features/users/users/route"
	helperAuth "schoolku_backend/internals/helpers/auth"
	"schoolku_backend/internals/helpers/storage"
	authMiddleware "schoolku_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var startTime time.Time

// Deps are the shared services the routes need. Nil Gateway disables checkout.
type Deps struct {
	DB        *gorm.DB
	Blacklist helperAuth.Blacklist
	Google    authService.GoogleVerifier
	Gateway   paymentService.Gateway
	Store     storage.FileStore
	Secret    string
	ServerKey string
}

func SetupRoutes(app *fiber.App, d Deps) {
	startTime = time.Now()
	db := d.DB

	log.Println("[INFO] Setting up BaseRoutes...")
	BaseRoutes(app, db)

	if configs.UploadDir != "" {
		app.Static("/uploads", configs.UploadDir, fiber.Static{MaxAge: 86400})
	}

	authMw := authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
		Secret:              d.Secret,
		DB:                  db,
		Blacklist:           d.Blacklist,
		AllowCookieFallback: true,
	})

	// ===================== PUBLIC =====================
	// Registered first: fiber matches in order, so these never reach authMw.
	log.Println("[INFO] Setting up payment webhook...")
	paymentRoute.PaymentWebhookRoutes(app, db, d.ServerKey)

	api := app.Group("/api")
	log.Println("[INFO] Setting up AuthRoutes...")
	authRoute.AuthRoutes(api, db, d.Blacklist, d.Google, authMw)

	// ===================== PRIVATE =====================
	log.Println("[INFO] Setting up PRIVATE group (JWT)...")
	private := app.Group("/api", authMw)

	log.Println("[INFO] Setting up account routes...")
	userRoute.UserRoutes(private, db)
	contextRoute.ContextRoutes(private, db)
	schoolRoute.SchoolRoutes(private, db, d.Store)
	memberRoute.MemberRoutes(private, db)

	log.Println("[INFO] Setting up academic routes...")
	academicYearRoute.AcademicYearRoutes(private, db)
	academicTermRoute.AcademicTermRoutes(private, db)
	gradeLevelRoute.GradeLevelRoutes(private, db)
	subjectCategoryRoute.SubjectCategoryRoutes(private, db)
	subjectRoute.SubjectRoutes(private, db)
	classroomRoute.ClassroomRoutes(private, db)
	enrollmentRoute.EnrollmentRoutes(private, db)

	log.Println("[INFO] Setting up people routes...")
	teacherProfileRoute.TeacherProfileRoutes(private, db)
	teacherAssignmentRoute.TeacherAssignmentRoutes(private, db)
	parentProfileRoute.ParentProfileRoutes(private, db)
	parentStudentRoute.ParentStudentRoutes(private, db)

	log.Println("[INFO] Setting up grading routes...")
	assessmentTypeRoute.AssessmentTypeRoutes(private, db)
	assessmentRoute.AssessmentRoutes(private, db)
	studentGradeRoute.StudentGradeRoutes(private, db)
	reportCardRoute.ReportCardRoutes(private, db)

	log.Println("[INFO] Setting up attendance & timetable routes...")
	attendanceRoute.AttendanceRecordRoutes(private, db)
	timetableRoute.TimetableEntryRoutes(private, db)

	log.Println("[INFO] Setting up finance & dashboard routes...")
	paymentRoute.PaymentRoutes(private, db, d.Gateway, d.ServerKey)
	dashboardRoute.DashboardRoutes(private, db)
}
