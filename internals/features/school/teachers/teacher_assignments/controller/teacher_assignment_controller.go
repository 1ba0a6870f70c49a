// file: internals/features/school/teachers/teacher_assignments/controller/teacher_assignment_controller.go
package controller

import (
	"schoolku_backend/internals/constants"
	subjectModel "schoolku_backend/internals/features/school/academics/subjects/model"
	classroomModel "schoolku_backend/internals/features/school/classes/classrooms/model"
	"schoolku_backend/internals/features/school/teachers/teacher_assignments/dto"
	"schoolku_backend/internals/features/school/teachers/teacher_assignments/model"
	profileModel "schoolku_backend/internals/features/school/teachers/teacher_profiles/model"
	helper "schoolku_backend/internals/helpers"
	helperAuth "schoolku_backend/internals/helpers/auth"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var errAssignmentTaken = helper.Conflict("Cette matière a déjà un enseignant dans cette classe")

type TeacherAssignmentController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewTeacherAssignmentController(db *gorm.DB, v *validator.Validate) *TeacherAssignmentController {
	return &TeacherAssignmentController{DB: db, Validator: v}
}

/* ============================================
   GET /api/teacher-assignments
   ?teacherId ?classroomId ?subjectId ?academicYearId (default active year)
   TEACHER: own assignments only.
============================================ */

func (ctl *TeacherAssignmentController) List(c *fiber.Ctx) error {
	schoolID := helperAuth.GetSchoolID(c)
	year, err := helperAuth.ResolveAcademicYear(c, ctl.DB, schoolID)
	if err != nil {
		return err
	}
	p := helper.ParseFiber(c, "createdAt", "desc", helper.DefaultOpts)

	q := ctl.DB.WithContext(c.UserContext()).Model(&model.TeacherAssignmentModel{}).
		Where("teacher_assignment_school_id = ?", schoolID)
	if year != nil {
		q = q.Where("teacher_assignment_academic_year_id = ?", year.AcademicYearID)
	}
	for param, col := range map[string]string{
		"teacherId":   "teacher_assignment_teacher_id",
		"classroomId": "teacher_assignment_classroom_id",
		"subjectId":   "teacher_assignment_subject_id",
	} {
		id, err := helper.QueryUUID(c, param)
		if err != nil {
			return err
		}
		if id != nil {
			q = q.Where(col+" = ?", *id)
		}
	}
	if helperAuth.GetSchoolRole(c) == constants.RoleTeacher {
		tid, err := helperAuth.TeacherProfileID(c.UserContext(), ctl.DB, schoolID, helperAuth.GetUserID(c))
		if err != nil {
			return err
		}
		q = q.Where("teacher_assignment_teacher_id = ?", tid)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return err
	}
	rows := []model.TeacherAssignmentModel{}
	if err := q.Order(p.SafeOrderClause(map[string]string{"createdAt": "teacher_assignment_created_at"}, "createdAt")).
		Limit(p.Limit()).Offset(p.Offset()).Find(&rows).Error; err != nil {
		return err
	}
	return helper.JsonList(c, "OK", rows, helper.BuildMeta(total, p))
}

func (ctl *TeacherAssignmentController) Get(c *fiber.Ctx) error {
	ent, err := ctl.find(c)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", ent)
}

/* ============================================
   POST /api/teacher-assignments (ADMIN)
============================================ */

func (ctl *TeacherAssignmentController) Create(c *fiber.Ctx) error {
	var req dto.CreateTeacherAssignmentRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &req); err != nil {
		return err
	}
	ctx := c.UserContext()
	schoolID := helperAuth.GetSchoolID(c)

	if err := ctl.requireTeacher(c, req.TeacherID); err != nil {
		return err
	}
	var classroom classroomModel.ClassroomModel
	if err := helper.FirstOr404(ctx, ctl.DB, &classroom, "Classe introuvable",
		"classroom_id = ? AND classroom_school_id = ?", req.ClassroomID, schoolID); err != nil {
		return err
	}
	if err := helper.RequireRef(ctx, ctl.DB, &subjectModel.SubjectModel{}, "Matière introuvable",
		"subject_id = ? AND subject_school_id = ?", req.SubjectID, schoolID); err != nil {
		return err
	}

	ent := &model.TeacherAssignmentModel{
		TeacherAssignmentSchoolID:       schoolID,
		TeacherAssignmentTeacherID:      req.TeacherID,
		TeacherAssignmentClassroomID:    classroom.ClassroomID,
		TeacherAssignmentSubjectID:      req.SubjectID,
		TeacherAssignmentAcademicYearID: classroom.ClassroomAcademicYearID,
	}
	if err := ctl.DB.WithContext(ctx).Create(ent).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return errAssignmentTaken
		}
		return err
	}
	return helper.JsonCreated(c, "Affectation créée", ent)
}

// PATCH /api/teacher-assignments/:id hands the slot to another teacher.
func (ctl *TeacherAssignmentController) Update(c *fiber.Ctx) error {
	ent, err := ctl.find(c)
	if err != nil {
		return err
	}
	var req dto.UpdateTeacherAssignmentRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &req); err != nil {
		return err
	}
	if req.TeacherID != nil {
		if err := ctl.requireTeacher(c, *req.TeacherID); err != nil {
			return err
		}
		ent.TeacherAssignmentTeacherID = *req.TeacherID
	}
	if err := ctl.DB.WithContext(c.UserContext()).Save(ent).Error; err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Affectation mise à jour", ent)
}

func (ctl *TeacherAssignmentController) Delete(c *fiber.Ctx) error {
	ent, err := ctl.find(c)
	if err != nil {
		return err
	}
	if err := ctl.DB.WithContext(c.UserContext()).Delete(ent).Error; err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Affectation supprimée", fiber.Map{"id": ent.TeacherAssignmentID})
}

func (ctl *TeacherAssignmentController) find(c *fiber.Ctx) (*model.TeacherAssignmentModel, error) {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, err
	}
	var ent model.TeacherAssignmentModel
	if err := helper.FirstOr404(c.UserContext(), ctl.DB, &ent, "Affectation introuvable",
		"teacher_assignment_id = ? AND teacher_assignment_school_id = ?", id, helperAuth.GetSchoolID(c)); err != nil {
		return nil, err
	}
	return &ent, nil
}

func (ctl *TeacherAssignmentController) requireTeacher(c *fiber.Ctx, teacherID uuid.UUID) error {
	return helper.RequireRef(c.UserContext(), ctl.DB, &profileModel.TeacherProfileModel{}, "Enseignant introuvable",
		"teacher_profile_id = ? AND teacher_profile_school_id = ?", teacherID, helperAuth.GetSchoolID(c))
}
