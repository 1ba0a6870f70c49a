// file: internals/features/school/assessments/assessments/controller/assessment_controller.go
package controller

import (
	"strings"

	"schoolku_backend/internals/constants"
	termModel "schoolku_backend/internals/features/school/academics/academic_terms/model"
	subjectModel "schoolku_backend/internals/features/school/academics/subjects/model"
	typeModel "schoolku_backend/internals/features/school/assessments/assessment_types/model"
	"schoolku_backend/internals/features/school/assessments/assessments/dto"
	"schoolku_backend/internals/features/school/assessments/assessments/model"
	gradeModel "schoolku_backend/internals/features/school/assessments/student_grades/model"
	classroomModel "schoolku_backend/internals/features/school/classes/classrooms/model"
	helper "schoolku_backend/internals/helpers"
	helperAuth "schoolku_backend/internals/helpers/auth"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const msgAssessmentNotFound = "Évaluation introuvable"

type AssessmentController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewAssessmentController(db *gorm.DB, v *validator.Validate) *AssessmentController {
	return &AssessmentController{DB: db, Validator: v}
}

var assessmentSortable = map[string]string{
	"date":      "assessment_date",
	"title":     "assessment_title",
	"createdAt": "assessment_created_at",
}

/* ============================================
   GET /api/assessments ?classroomId ?subjectId ?termId ?q
   TEACHER: assigned (classroom, subject) pairs.
   PARENT/STUDENT: classrooms of the visible students.
============================================ */

func (ctl *AssessmentController) List(c *fiber.Ctx) error {
	ctx := c.UserContext()
	schoolID := helperAuth.GetSchoolID(c)
	p := helper.ParseFiber(c, "date", "desc", helper.DefaultOpts)

	q := ctl.DB.WithContext(ctx).Model(&model.AssessmentModel{}).
		Where("assessment_school_id = ?", schoolID)
	for param, col := range map[string]string{
		"classroomId": "assessment_classroom_id",
		"subjectId":   "assessment_subject_id",
		"termId":      "assessment_term_id",
	} {
		id, err := helper.QueryUUID(c, param)
		if err != nil {
			return err
		}
		if id != nil {
			q = q.Where(col+" = ?", *id)
		}
	}
	if s := strings.TrimSpace(c.Query("q")); s != "" {
		q = q.Where("LOWER(assessment_title) LIKE ?", "%"+strings.ToLower(s)+"%")
	}

	switch helperAuth.GetSchoolRole(c) {
	case constants.RoleTeacher:
		tid, err := helperAuth.TeacherProfileID(ctx, ctl.DB, schoolID, helperAuth.GetUserID(c))
		if err != nil {
			return err
		}
		q = q.Where(`EXISTS (SELECT 1 FROM teacher_assignments ta
			WHERE ta.teacher_assignment_teacher_id = ?
			AND ta.teacher_assignment_classroom_id = assessments.assessment_classroom_id
			AND ta.teacher_assignment_subject_id = assessments.assessment_subject_id)`, tid)
	case constants.RoleParent, constants.RoleStudent:
		ids, _, err := helperAuth.VisibleStudentIDs(c, ctl.DB)
		if err != nil {
			return err
		}
		q = q.Where("assessment_classroom_id IN (?)",
			ctl.DB.Table("enrollments").Select("enrollment_classroom_id").
				Where("enrollment_student_id IN ?", append(ids, uuid.Nil)))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return err
	}
	rows := []model.AssessmentModel{}
	if err := q.Order(p.SafeOrderClause(assessmentSortable, "date")).
		Limit(p.Limit()).Offset(p.Offset()).Find(&rows).Error; err != nil {
		return err
	}
	return helper.JsonList(c, "OK", rows, helper.BuildMeta(total, p))
}

func (ctl *AssessmentController) Get(c *fiber.Ctx) error {
	ent, err := ctl.find(c)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", ent)
}

/* ============================================
   POST /api/assessments (ADMIN, assigned TEACHER)
============================================ */

func (ctl *AssessmentController) Create(c *fiber.Ctx) error {
	var req dto.CreateAssessmentRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &req); err != nil {
		return err
	}
	ent, err := req.ToModel(helperAuth.GetSchoolID(c))
	if err != nil {
		return err
	}
	if err := ctl.checkRefs(c, ent); err != nil {
		return err
	}
	if err := helperAuth.EnsureCanTeach(c, ctl.DB, ent.AssessmentClassroomID, &ent.AssessmentSubjectID); err != nil {
		return err
	}
	if err := ctl.DB.WithContext(c.UserContext()).Create(ent).Error; err != nil {
		return err
	}
	return helper.JsonCreated(c, "Évaluation créée", ent)
}

/* ============================================
   PATCH /api/assessments/:id
============================================ */

func (ctl *AssessmentController) Update(c *fiber.Ctx) error {
	ent, err := ctl.find(c)
	if err != nil {
		return err
	}
	if err := helperAuth.EnsureCanTeach(c, ctl.DB, ent.AssessmentClassroomID, &ent.AssessmentSubjectID); err != nil {
		return err
	}
	var req dto.UpdateAssessmentRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &req); err != nil {
		return err
	}
	if err := req.ApplyUpdates(ent); err != nil {
		return err
	}
	if req.AssessmentTypeID != nil {
		if err := ctl.requireType(c, *req.AssessmentTypeID); err != nil {
			return err
		}
	}
	if req.MaxScore != nil {
		over, err := helper.Exists(c.UserContext(), ctl.DB, &gradeModel.StudentGradeModel{},
			"student_grade_assessment_id = ? AND student_grade_score > ?", ent.AssessmentID, ent.AssessmentMaxScore)
		if err != nil {
			return err
		}
		if over {
			return helper.Conflict("Des notes existantes dépassent la nouvelle note maximale")
		}
	}
	if err := ctl.DB.WithContext(c.UserContext()).Save(ent).Error; err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Évaluation mise à jour", ent)
}

func (ctl *AssessmentController) Delete(c *fiber.Ctx) error {
	ent, err := ctl.find(c)
	if err != nil {
		return err
	}
	if err := helperAuth.EnsureCanTeach(c, ctl.DB, ent.AssessmentClassroomID, &ent.AssessmentSubjectID); err != nil {
		return err
	}
	if err := ctl.DB.WithContext(c.UserContext()).Delete(ent).Error; err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Évaluation supprimée", fiber.Map{"id": ent.AssessmentID})
}

/* ============================================
   helpers
============================================ */

func (ctl *AssessmentController) find(c *fiber.Ctx) (*model.AssessmentModel, error) {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, err
	}
	var ent model.AssessmentModel
	if err := helper.FirstOr404(c.UserContext(), ctl.DB, &ent, msgAssessmentNotFound,
		"assessment_id = ? AND assessment_school_id = ?", id, helperAuth.GetSchoolID(c)); err != nil {
		return nil, err
	}
	return &ent, nil
}

// checkRefs: classroom, subject, term and type of the school; the term belongs to the classroom's year.
func (ctl *AssessmentController) checkRefs(c *fiber.Ctx, ent *model.AssessmentModel) error {
	ctx := c.UserContext()
	schoolID := ent.AssessmentSchoolID

	var classroom classroomModel.ClassroomModel
	if err := helper.FirstOr404(ctx, ctl.DB, &classroom, "Classe introuvable",
		"classroom_id = ? AND classroom_school_id = ?", ent.AssessmentClassroomID, schoolID); err != nil {
		return err
	}
	if err := helper.RequireRef(ctx, ctl.DB, &subjectModel.SubjectModel{}, "Matière introuvable",
		"subject_id = ? AND subject_school_id = ?", ent.AssessmentSubjectID, schoolID); err != nil {
		return err
	}
	var term termModel.AcademicTermModel
	if err := helper.FirstOr404(ctx, ctl.DB, &term, "Période introuvable",
		"academic_term_id = ? AND academic_term_school_id = ?", ent.AssessmentTermID, schoolID); err != nil {
		return err
	}
	if term.AcademicTermAcademicYearID != classroom.ClassroomAcademicYearID {
		return helper.BadRequest("La période et la classe doivent appartenir à la même année scolaire")
	}
	if ent.AssessmentTypeID != nil {
		return ctl.requireType(c, *ent.AssessmentTypeID)
	}
	return nil
}

func (ctl *AssessmentController) requireType(c *fiber.Ctx, id uuid.UUID) error {
	return helper.RequireRef(c.UserContext(), ctl.DB, &typeModel.AssessmentTypeModel{}, "Type d'évaluation introuvable",
		"assessment_type_id = ? AND assessment_type_school_id = ?", id, helperAuth.GetSchoolID(c))
}
