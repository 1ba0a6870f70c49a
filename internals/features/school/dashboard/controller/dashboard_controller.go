package controller

import (
	"time"

	paymentModel "schoolku_backend/internals/features/finance/payments/model"
	paymentService "schoolku_backend/internals/features/finance/payments/service"
	subjectModel "schoolku_backend/internals/features/school/academics/subjects/model"
	attendanceService "schoolku_backend/internals/features/school/attendance/attendance_records/service"
	classroomModel "schoolku_backend/internals/features/school/classes/classrooms/model"
	enrollmentModel "schoolku_backend/internals/features/school/classes/enrollments/model"
	teacherModel "schoolku_backend/internals/features/school/teachers/teacher_profiles/model"
	helper "schoolku_backend/internals/helpers"
	helperAuth "schoolku_backend/internals/helpers/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DashboardController struct {
	DB *gorm.DB
}

func NewDashboardController(db *gorm.DB) *DashboardController {
	return &DashboardController{DB: db}
}

type Stats struct {
	AcademicYearID      *uuid.UUID `json:"academicYearId"`
	Students            int64      `json:"students"`
	Teachers            int64      `json:"teachers"`
	Classrooms          int64      `json:"classrooms"`
	Subjects            int64      `json:"subjects"`
	AttendanceRateToday float64    `json:"attendanceRateToday"`
	PaymentsCollected   int64      `json:"paymentsCollected"`
	PaymentsPending     int64      `json:"paymentsPending"`
}

// GET /api/dashboard/stats (ADMIN, TEACHER). Year-bound counts are 0 without an active year.
func (ctl *DashboardController) Stats(c *fiber.Ctx) error {
	ctx := c.UserContext()
	schoolID := helperAuth.GetSchoolID(c)
	year, err := helperAuth.ResolveAcademicYear(c, ctl.DB, schoolID)
	if err != nil {
		return err
	}
	db := ctl.DB.WithContext(ctx)
	var out Stats

	if err := db.Model(&teacherModel.TeacherProfileModel{}).
		Where("teacher_profile_school_id = ?", schoolID).Count(&out.Teachers).Error; err != nil {
		return err
	}
	if err := db.Model(&subjectModel.SubjectModel{}).
		Where("subject_school_id = ?", schoolID).Count(&out.Subjects).Error; err != nil {
		return err
	}

	payments := db.Model(&paymentModel.Payment{}).Where("payment_school_id = ?", schoolID)
	if year != nil {
		out.AcademicYearID = &year.AcademicYearID
		if err := db.Model(&enrollmentModel.EnrollmentModel{}).
			Where("enrollment_school_id = ? AND enrollment_academic_year_id = ? AND enrollment_status = ?",
				schoolID, year.AcademicYearID, enrollmentModel.EnrollmentActive).
			Count(&out.Students).Error; err != nil {
			return err
		}
		if err := db.Model(&classroomModel.ClassroomModel{}).
			Where("classroom_school_id = ? AND classroom_academic_year_id = ?", schoolID, year.AcademicYearID).
			Count(&out.Classrooms).Error; err != nil {
			return err
		}
		payments = payments.Where("payment_academic_year_id = ?", year.AcademicYearID)
	}

	sum, err := paymentService.Summarize(payments)
	if err != nil {
		return err
	}
	out.PaymentsCollected, out.PaymentsPending = sum.Collected, sum.Pending

	rate, err := attendanceService.DayRate(ctx, ctl.DB, schoolID, helper.DateOnly(time.Now()))
	if err != nil {
		return err
	}
	out.AttendanceRateToday = rate

	return helper.JsonOK(c, "OK", out)
}
