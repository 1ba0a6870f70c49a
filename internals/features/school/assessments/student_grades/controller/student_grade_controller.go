package controller

import (
	"fmt"

	assessmentModel "schoolku_backend/internals/features/school/assessments/assessments/model"
	"schoolku_backend/internals/features/school/assessments/student_grades/dto"
	"schoolku_backend/internals/features/school/assessments/student_grades/model"
	"schoolku_backend/internals/features/school/assessments/student_grades/service"
	helper "schoolku_backend/internals/helpers"
	helperAuth "schoolku_backend/internals/helpers/auth"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const msgGradeNotFound = "Note introuvable"

type StudentGradeController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewStudentGradeController(db *gorm.DB, v *validator.Validate) *StudentGradeController {
	return &StudentGradeController{DB: db, Validator: v}
}

/* ============================================
   GET /api/student-grades ?assessmentId ?studentId ?classroomId ?termId
============================================ */

func (ctl *StudentGradeController) List(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "createdAt", "desc", helper.DefaultOpts)
	q := ctl.DB.WithContext(c.UserContext()).Model(&model.StudentGradeModel{}).
		Where("student_grade_school_id = ?", helperAuth.GetSchoolID(c))

	assessmentID, err := helper.QueryUUID(c, "assessmentId")
	if err != nil {
		return err
	}
	if assessmentID != nil {
		q = q.Where("student_grade_assessment_id = ?", *assessmentID)
	}
	studentID, err := helper.QueryUUID(c, "studentId")
	if err != nil {
		return err
	}
	if studentID != nil {
		q = q.Where("student_grade_student_id = ?", *studentID)
	}

	sub := ctl.DB.Model(&assessmentModel.AssessmentModel{}).Select("assessment_id")
	narrowed := false
	for param, col := range map[string]string{"classroomId": "assessment_classroom_id", "termId": "assessment_term_id"} {
		id, err := helper.QueryUUID(c, param)
		if err != nil {
			return err
		}
		if id != nil {
			sub = sub.Where(col+" = ?", *id)
			narrowed = true
		}
	}
	if narrowed {
		q = q.Where("student_grade_assessment_id IN (?)", sub)
	}

	ids, restricted, err := helperAuth.VisibleStudentIDs(c, ctl.DB)
	if err != nil {
		return err
	}
	if restricted {
		q = q.Where("student_grade_student_id IN ?", append(ids, uuid.Nil))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return err
	}
	rows := []model.StudentGradeModel{}
	if err := q.Order(p.SafeOrderClause(map[string]string{
		"createdAt": "student_grade_created_at",
		"score":     "student_grade_score",
	}, "createdAt")).Limit(p.Limit()).Offset(p.Offset()).Find(&rows).Error; err != nil {
		return err
	}
	return helper.JsonList(c, "OK", rows, helper.BuildMeta(total, p))
}

func (ctl *StudentGradeController) Get(c *fiber.Ctx) error {
	ent, err := ctl.find(c)
	if err != nil {
		return err
	}
	if err := helperAuth.CanSeeStudent(c, ctl.DB, ent.StudentGradeStudentID); err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", ent)
}

/* ============================================
   POST /api/student-grades
============================================ */

func (ctl *StudentGradeController) Create(c *fiber.Ctx) error {
	ctx := c.UserContext()
	var req dto.CreateStudentGradeRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &req); err != nil {
		return err
	}
	schoolID := helperAuth.GetSchoolID(c)
	a, err := service.LoadAssessment(ctx, ctl.DB, schoolID, req.AssessmentID)
	if err != nil {
		return err
	}
	if err := helperAuth.EnsureCanTeach(c, ctl.DB, a.AssessmentClassroomID, &a.AssessmentSubjectID); err != nil {
		return err
	}
	if err := service.CheckScore(a, *req.Score); err != nil {
		return err
	}
	if err := service.EnsureEnrolled(ctx, ctl.DB, a, req.StudentID); err != nil {
		return err
	}

	ent := req.ToModel(schoolID, helperAuth.GetUserID(c))
	if err := ctl.DB.WithContext(ctx).Create(ent).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.Conflict("Une note existe déjà pour cet élève sur cette évaluation")
		}
		return err
	}
	return helper.JsonCreated(c, "Note enregistrée", ent)
}

/* ============================================
   POST /api/student-grades/bulk
   Upsert on (assessment, student), all or nothing.
============================================ */

func (ctl *StudentGradeController) Bulk(c *fiber.Ctx) error {
	ctx := c.UserContext()
	var req dto.BulkGradesRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &req); err != nil {
		return err
	}
	schoolID := helperAuth.GetSchoolID(c)
	a, err := service.LoadAssessment(ctx, ctl.DB, schoolID, req.AssessmentID)
	if err != nil {
		return err
	}
	if err := helperAuth.EnsureCanTeach(c, ctl.DB, a.AssessmentClassroomID, &a.AssessmentSubjectID); err != nil {
		return err
	}
	enrolled, err := service.EnrolledStudents(ctx, ctl.DB, a)
	if err != nil {
		return err
	}

	gradedBy := helperAuth.GetUserID(c)
	seen := make(map[uuid.UUID]struct{}, len(req.Grades))
	rows := make([]model.StudentGradeModel, 0, len(req.Grades))
	for i, g := range req.Grades {
		if _, dup := seen[g.StudentID]; dup {
			return helper.BadRequest(fmt.Sprintf("grades[%d]: élève en double", i))
		}
		seen[g.StudentID] = struct{}{}
		if _, ok := enrolled[g.StudentID]; !ok {
			return helper.BadRequest(fmt.Sprintf("grades[%d]: %s", i, service.ErrNotEnrolled.Error()))
		}
		if err := service.CheckScore(a, *g.Score); err != nil {
			return helper.BadRequest(fmt.Sprintf("grades[%d]: %s", i, err.Error()))
		}
		rows = append(rows, model.StudentGradeModel{
			StudentGradeID:           uuid.New(),
			StudentGradeSchoolID:     schoolID,
			StudentGradeAssessmentID: a.AssessmentID,
			StudentGradeStudentID:    g.StudentID,
			StudentGradeScore:        *g.Score,
			StudentGradeComment:      g.Comment,
			StudentGradeGradedBy:     &gradedBy,
		})
	}

	err = ctl.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "student_grade_assessment_id"}, {Name: "student_grade_student_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"student_grade_score", "student_grade_comment", "student_grade_graded_by", "student_grade_updated_at",
			}),
		}).Create(&rows).Error; err != nil {
			return err
		}
		// re-read so upserted rows carry their persisted ids
		return tx.Where("student_grade_assessment_id = ? AND student_grade_student_id IN ?", a.AssessmentID, keys(seen)).
			Order("student_grade_student_id").Find(&rows).Error
	})
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Notes enregistrées", dto.BulkGradesResponse{Count: len(rows), Grades: rows})
}

/* ============================================
   PATCH / DELETE /api/student-grades/:id
============================================ */

func (ctl *StudentGradeController) Update(c *fiber.Ctx) error {
	ent, a, err := ctl.findWithAssessment(c)
	if err != nil {
		return err
	}
	var req dto.UpdateStudentGradeRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &req); err != nil {
		return err
	}
	if req.Score != nil {
		if err := service.CheckScore(a, *req.Score); err != nil {
			return err
		}
	}
	req.ApplyUpdates(ent, helperAuth.GetUserID(c))
	if err := ctl.DB.WithContext(c.UserContext()).Save(ent).Error; err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Note mise à jour", ent)
}

func (ctl *StudentGradeController) Delete(c *fiber.Ctx) error {
	ent, _, err := ctl.findWithAssessment(c)
	if err != nil {
		return err
	}
	if err := ctl.DB.WithContext(c.UserContext()).Delete(ent).Error; err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Note supprimée", fiber.Map{"id": ent.StudentGradeID})
}

func (ctl *StudentGradeController) find(c *fiber.Ctx) (*model.StudentGradeModel, error) {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, err
	}
	var ent model.StudentGradeModel
	if err := helper.FirstOr404(c.UserContext(), ctl.DB, &ent, msgGradeNotFound,
		"student_grade_id = ? AND student_grade_school_id = ?", id, helperAuth.GetSchoolID(c)); err != nil {
		return nil, err
	}
	return &ent, nil
}

// findWithAssessment also enforces the teacher assignment for writes.
func (ctl *StudentGradeController) findWithAssessment(c *fiber.Ctx) (*model.StudentGradeModel, *assessmentModel.AssessmentModel, error) {
	ent, err := ctl.find(c)
	if err != nil {
		return nil, nil, err
	}
	a, err := service.LoadAssessment(c.UserContext(), ctl.DB, ent.StudentGradeSchoolID, ent.StudentGradeAssessmentID)
	if err != nil {
		return nil, nil, err
	}
	if err := helperAuth.EnsureCanTeach(c, ctl.DB, a.AssessmentClassroomID, &a.AssessmentSubjectID); err != nil {
		return nil, nil, err
	}
	return ent, a, nil
}

func keys(m map[uuid.UUID]struct{}) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
