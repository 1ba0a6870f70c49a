// file: internals/features/school/classes/classrooms/controller/classroom_controller.go
package controller

import (
	"strings"

	gradeLevelModel "schoolku_backend/internals/features/school/academics/grade_levels/model"
	"schoolku_backend/internals/features/school/classes/classrooms/dto"
	"schoolku_backend/internals/features/school/classes/classrooms/model"
	enrollmentModel "schoolku_backend/internals/features/school/classes/enrollments/model"
	helper "schoolku_backend/internals/helpers"
	helperAuth "schoolku_backend/internals/helpers/auth"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const msgClassroomNotFound = "Classe introuvable"

type ClassroomController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewClassroomController(db *gorm.DB, v *validator.Validate) *ClassroomController {
	return &ClassroomController{DB: db, Validator: v}
}

var classroomSortable = map[string]string{
	"name":      "classroom_name",
	"createdAt": "classroom_created_at",
}

/* ============================================
   GET /api/classrooms
   ?academicYearId (default active year) ?gradeLevelId ?q
   TEACHER only sees the classrooms they are assigned to.
============================================ */

func (ctl *ClassroomController) List(c *fiber.Ctx) error {
	schoolID := helperAuth.GetSchoolID(c)
	year, err := helperAuth.ResolveAcademicYear(c, ctl.DB, schoolID)
	if err != nil {
		return err
	}
	gradeLevelID, err := helper.QueryUUID(c, "gradeLevelId")
	if err != nil {
		return err
	}
	p := helper.ParseFiber(c, "name", "asc", helper.DefaultOpts)

	q := ctl.DB.WithContext(c.UserContext()).Model(&model.ClassroomModel{}).
		Where("classroom_school_id = ?", schoolID)
	if year != nil {
		q = q.Where("classroom_academic_year_id = ?", year.AcademicYearID)
	}
	if gradeLevelID != nil {
		q = q.Where("classroom_grade_level_id = ?", *gradeLevelID)
	}
	if s := strings.TrimSpace(c.Query("q")); s != "" {
		q = q.Where("LOWER(classroom_name) LIKE ?", "%"+strings.ToLower(s)+"%")
	}
	if c.Query("mine") == "true" {
		ids, err := helperAuth.TeacherClassroomIDs(c.UserContext(), ctl.DB, schoolID, helperAuth.GetUserID(c))
		if err != nil {
			return err
		}
		q = q.Where("classroom_id IN ?", append(ids, uuid.Nil))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return err
	}
	rows := []model.ClassroomModel{}
	if err := q.Order(p.SafeOrderClause(classroomSortable, "name")).
		Limit(p.Limit()).Offset(p.Offset()).Find(&rows).Error; err != nil {
		return err
	}
	return helper.JsonList(c, "OK", rows, helper.BuildMeta(total, p))
}

func (ctl *ClassroomController) Get(c *fiber.Ctx) error {
	ent, err := ctl.find(c)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", ent)
}

/* ============================================
   GET /api/classrooms/:id/students
============================================ */

func (ctl *ClassroomController) Students(c *fiber.Ctx) error {
	ent, err := ctl.find(c)
	if err != nil {
		return err
	}
	rows, err := ActiveStudents(ctl.DB.WithContext(c.UserContext()), ent.ClassroomID)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", rows)
}

// ActiveStudents lists the ACTIVE enrollments of a classroom ordered by name.
func ActiveStudents(db *gorm.DB, classroomID uuid.UUID) ([]dto.ClassroomStudent, error) {
	rows := []dto.ClassroomStudent{}
	err := db.Table("enrollments e").
		Select(`e.enrollment_id AS enrollment_id, e.enrollment_student_id AS student_id,
			u.full_name AS full_name, u.email AS email,
			e.enrollment_status AS status, e.enrollment_enrolled_at AS enrolled_at`).
		Joins("JOIN users u ON u.id = e.enrollment_student_id").
		Where("e.enrollment_classroom_id = ? AND e.enrollment_status = ?", classroomID, enrollmentModel.EnrollmentActive).
		Order("u.full_name ASC").
		Scan(&rows).Error
	return rows, err
}

/* ============================================
   POST /api/classrooms (ADMIN)
============================================ */

func (ctl *ClassroomController) Create(c *fiber.Ctx) error {
	var req dto.CreateClassroomRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &req); err != nil {
		return err
	}
	schoolID := helperAuth.GetSchoolID(c)

	var yearID uuid.UUID
	if req.AcademicYearID != nil {
		y, err := helperAuth.FindAcademicYear(c.UserContext(), ctl.DB, schoolID, *req.AcademicYearID)
		if err != nil {
			return err
		}
		if y == nil {
			return helperAuth.ErrAcademicYearNotFound
		}
		yearID = y.AcademicYearID
	} else {
		y, err := helperAuth.RequireAcademicYear(c, ctl.DB, schoolID)
		if err != nil {
			return err
		}
		yearID = y.AcademicYearID
	}

	ent := req.ToModel(schoolID, yearID)
	if err := ctl.checkRefs(c, ent, uuid.Nil); err != nil {
		return err
	}
	if err := ctl.DB.WithContext(c.UserContext()).Create(ent).Error; err != nil {
		return err
	}
	return helper.JsonCreated(c, "Classe créée", ent)
}

/* ============================================
   PATCH /api/classrooms/:id (ADMIN)
============================================ */

func (ctl *ClassroomController) Update(c *fiber.Ctx) error {
	ent, err := ctl.find(c)
	if err != nil {
		return err
	}
	var req dto.UpdateClassroomRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &req); err != nil {
		return err
	}
	req.ApplyUpdates(ent)
	if err := ctl.checkRefs(c, ent, ent.ClassroomID); err != nil {
		return err
	}
	if ent.ClassroomCapacity != nil {
		var active int64
		if err := ctl.DB.WithContext(c.UserContext()).Model(&enrollmentModel.EnrollmentModel{}).
			Where("enrollment_classroom_id = ? AND enrollment_status = ?", ent.ClassroomID, enrollmentModel.EnrollmentActive).
			Count(&active).Error; err != nil {
			return err
		}
		if active > int64(*ent.ClassroomCapacity) {
			return helper.Conflict("La capacité est inférieure au nombre d'élèves inscrits")
		}
	}
	if err := ctl.DB.WithContext(c.UserContext()).Save(ent).Error; err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Classe mise à jour", ent)
}

func (ctl *ClassroomController) Delete(c *fiber.Ctx) error {
	ent, err := ctl.find(c)
	if err != nil {
		return err
	}
	if err := ctl.DB.WithContext(c.UserContext()).Delete(ent).Error; err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Classe supprimée", fiber.Map{"id": ent.ClassroomID})
}

func (ctl *ClassroomController) find(c *fiber.Ctx) (*model.ClassroomModel, error) {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, err
	}
	var ent model.ClassroomModel
	if err := helper.FirstOr404(c.UserContext(), ctl.DB, &ent, msgClassroomNotFound,
		"classroom_id = ? AND classroom_school_id = ?", id, helperAuth.GetSchoolID(c)); err != nil {
		return nil, err
	}
	return &ent, nil
}

// checkRefs: grade level of the same school, name unique within the year.
func (ctl *ClassroomController) checkRefs(c *fiber.Ctx, ent *model.ClassroomModel, exceptID uuid.UUID) error {
	ctx := c.UserContext()
	if ent.ClassroomGradeLevelID != nil {
		if err := helper.RequireRef(ctx, ctl.DB, &gradeLevelModel.GradeLevelModel{}, "Niveau introuvable",
			"grade_level_id = ? AND grade_level_school_id = ?", *ent.ClassroomGradeLevelID, ent.ClassroomSchoolID); err != nil {
			return err
		}
	}
	taken, err := helper.Exists(ctx, ctl.DB, &model.ClassroomModel{},
		"classroom_school_id = ? AND classroom_academic_year_id = ? AND LOWER(classroom_name) = ? AND classroom_id <> ?",
		ent.ClassroomSchoolID, ent.ClassroomAcademicYearID, strings.ToLower(ent.ClassroomName), exceptID)
	if err != nil {
		return err
	}
	if taken {
		return helper.Conflict("Une classe porte déjà ce nom pour cette année")
	}
	return nil
}
