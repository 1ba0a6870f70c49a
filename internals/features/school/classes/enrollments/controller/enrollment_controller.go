// file: internals/features/school/classes/enrollments/controller/enrollment_controller.go
package controller

import (
	"strings"
	"time"

	classroomModel "schoolku_backend/internals/features/school/classes/classrooms/model"
	"schoolku_backend/internals/features/school/classes/enrollments/dto"
	"schoolku_backend/internals/features/school/classes/enrollments/model"
	"schoolku_backend/internals/features/school/classes/enrollments/service"
	helper "schoolku_backend/internals/helpers"
	helperAuth "schoolku_backend/internals/helpers/auth"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const msgEnrollmentNotFound = "Inscription introuvable"

type EnrollmentController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewEnrollmentController(db *gorm.DB, v *validator.Validate) *EnrollmentController {
	return &EnrollmentController{DB: db, Validator: v}
}

var enrollmentSortable = map[string]string{
	"enrolledAt": "enrollment_enrolled_at",
	"createdAt":  "enrollment_created_at",
	"status":     "enrollment_status",
}

/* ============================================
   GET /api/enrollments
   ?classroomId ?studentId ?status ?academicYearId (default active year)
============================================ */

func (ctl *EnrollmentController) List(c *fiber.Ctx) error {
	schoolID := helperAuth.GetSchoolID(c)
	year, err := helperAuth.ResolveAcademicYear(c, ctl.DB, schoolID)
	if err != nil {
		return err
	}
	classroomID, err := helper.QueryUUID(c, "classroomId")
	if err != nil {
		return err
	}
	studentID, err := helper.QueryUUID(c, "studentId")
	if err != nil {
		return err
	}
	visible, restricted, err := helperAuth.VisibleStudentIDs(c, ctl.DB)
	if err != nil {
		return err
	}
	p := helper.ParseFiber(c, "enrolledAt", "desc", helper.DefaultOpts)

	q := ctl.DB.WithContext(c.UserContext()).Model(&model.EnrollmentModel{}).
		Where("enrollment_school_id = ?", schoolID)
	if year != nil {
		q = q.Where("enrollment_academic_year_id = ?", year.AcademicYearID)
	}
	if classroomID != nil {
		q = q.Where("enrollment_classroom_id = ?", *classroomID)
	}
	if studentID != nil {
		q = q.Where("enrollment_student_id = ?", *studentID)
	}
	if s := strings.ToUpper(strings.TrimSpace(c.Query("status"))); s != "" {
		q = q.Where("enrollment_status = ?", s)
	}
	if restricted {
		q = q.Where("enrollment_student_id IN ?", append(visible, uuid.Nil))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return err
	}
	rows := []model.EnrollmentModel{}
	if err := q.Order(p.SafeOrderClause(enrollmentSortable, "enrolledAt")).
		Limit(p.Limit()).Offset(p.Offset()).Find(&rows).Error; err != nil {
		return err
	}
	return helper.JsonList(c, "OK", rows, helper.BuildMeta(total, p))
}

func (ctl *EnrollmentController) Get(c *fiber.Ctx) error {
	ent, err := ctl.find(c)
	if err != nil {
		return err
	}
	if err := helperAuth.CanSeeStudent(c, ctl.DB, ent.EnrollmentStudentID); err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", ent)
}

/* ============================================
   POST /api/enrollments (ADMIN)
============================================ */

func (ctl *EnrollmentController) Create(c *fiber.Ctx) error {
	var req dto.CreateEnrollmentRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &req); err != nil {
		return err
	}
	enrolledAt, err := helper.ParseDatePtr(req.EnrolledAt)
	if err != nil {
		return helper.BadRequest("enrolledAt invalide")
	}
	classroom, err := ctl.classroom(c, req.ClassroomID)
	if err != nil {
		return err
	}

	var ent *model.EnrollmentModel
	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		var at time.Time
		if enrolledAt != nil {
			at = *enrolledAt
		}
		var err error
		ent, err = service.Enroll(c.UserContext(), tx, classroom, req.StudentID, req.Status, at)
		return err
	})
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Élève inscrit", ent)
}

/* ============================================
   PATCH /api/enrollments/:id (ADMIN)
   Moving classroom stays inside the same academic year.
============================================ */

func (ctl *EnrollmentController) Update(c *fiber.Ctx) error {
	ent, err := ctl.find(c)
	if err != nil {
		return err
	}
	var req dto.UpdateEnrollmentRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &req); err != nil {
		return err
	}
	enrolledAt, err := helper.ParseDatePtr(req.EnrolledAt)
	if err != nil {
		return helper.BadRequest("enrolledAt invalide")
	}

	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		target := ent.EnrollmentClassroomID
		if req.ClassroomID != nil {
			target = *req.ClassroomID
		}
		status := ent.EnrollmentStatus
		if req.Status != nil {
			status = *req.Status
		}

		moved := target != ent.EnrollmentClassroomID
		activated := status == model.EnrollmentActive && ent.EnrollmentStatus != model.EnrollmentActive
		if moved || activated {
			classroom, err := ctl.classroomTx(c, tx, target)
			if err != nil {
				return err
			}
			if classroom.ClassroomAcademicYearID != ent.EnrollmentAcademicYearID {
				return helper.BadRequest("La nouvelle classe doit appartenir à la même année scolaire")
			}
			if status == model.EnrollmentActive {
				if err := service.EnsureCapacity(tx, classroom, ent.EnrollmentID); err != nil {
					return err
				}
			}
		}

		ent.EnrollmentClassroomID = target
		ent.EnrollmentStatus = status
		if enrolledAt != nil {
			ent.EnrollmentEnrolledAt = *enrolledAt
		}
		return tx.Save(ent).Error
	})
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Inscription mise à jour", ent)
}

func (ctl *EnrollmentController) Delete(c *fiber.Ctx) error {
	ent, err := ctl.find(c)
	if err != nil {
		return err
	}
	if err := ctl.DB.WithContext(c.UserContext()).Delete(ent).Error; err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Inscription supprimée", fiber.Map{"id": ent.EnrollmentID})
}

/* ============================================
   POST /api/enrollments/import (ADMIN)
   multipart: file (.xlsx), classroomId
============================================ */

func (ctl *EnrollmentController) Import(c *fiber.Ctx) error {
	classroomID, err := uuid.Parse(strings.TrimSpace(c.FormValue("classroomId")))
	if err != nil {
		return helper.BadRequest("classroomId est requis")
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return helper.BadRequest("file est requis")
	}
	if !strings.HasSuffix(strings.ToLower(fh.Filename), ".xlsx") {
		return helper.BadRequest("Le fichier doit être au format .xlsx")
	}
	classroom, err := ctl.classroom(c, classroomID)
	if err != nil {
		return err
	}
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	res, err := service.ImportStudents(c.UserContext(), ctl.DB, classroom, f)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Import terminé", res)
}

/* ============================================
   helpers
============================================ */

func (ctl *EnrollmentController) find(c *fiber.Ctx) (*model.EnrollmentModel, error) {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, err
	}
	var ent model.EnrollmentModel
	if err := helper.FirstOr404(c.UserContext(), ctl.DB, &ent, msgEnrollmentNotFound,
		"enrollment_id = ? AND enrollment_school_id = ?", id, helperAuth.GetSchoolID(c)); err != nil {
		return nil, err
	}
	return &ent, nil
}

func (ctl *EnrollmentController) classroom(c *fiber.Ctx, id uuid.UUID) (*classroomModel.ClassroomModel, error) {
	return ctl.classroomTx(c, ctl.DB, id)
}

func (ctl *EnrollmentController) classroomTx(c *fiber.Ctx, db *gorm.DB, id uuid.UUID) (*classroomModel.ClassroomModel, error) {
	var cl classroomModel.ClassroomModel
	if err := helper.FirstOr404(c.UserContext(), db, &cl, "Classe introuvable",
		"classroom_id = ? AND classroom_school_id = ?", id, helperAuth.GetSchoolID(c)); err != nil {
		return nil, err
	}
	return &cl, nil
}
