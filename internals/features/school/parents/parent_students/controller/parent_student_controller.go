// file: internals/features/school/parents/parent_students/controller/parent_student_controller.go
package controller

import (
	"schoolku_backend/internals/constants"
	parentModel "schoolku_backend/internals/features/school/parents/parent_profiles/model"
	"schoolku_backend/internals/features/school/parents/parent_students/dto"
	"schoolku_backend/internals/features/school/parents/parent_students/model"
	helper "schoolku_backend/internals/helpers"
	helperAuth "schoolku_backend/internals/helpers/auth"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ParentStudentController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewParentStudentController(db *gorm.DB, v *validator.Validate) *ParentStudentController {
	return &ParentStudentController{DB: db, Validator: v}
}

// GET /api/parent-students ?parentId ?studentId
func (ctl *ParentStudentController) List(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "createdAt", "desc", helper.DefaultOpts)
	q := ctl.DB.WithContext(c.UserContext()).Model(&model.ParentStudentModel{}).
		Where("parent_student_school_id = ?", helperAuth.GetSchoolID(c))
	parentID, err := helper.QueryUUID(c, "parentId")
	if err != nil {
		return err
	}
	if parentID != nil {
		q = q.Where("parent_student_parent_id = ?", *parentID)
	}
	studentID, err := helper.QueryUUID(c, "studentId")
	if err != nil {
		return err
	}
	if studentID != nil {
		q = q.Where("parent_student_student_id = ?", *studentID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return err
	}
	rows := []model.ParentStudentModel{}
	if err := q.Order(p.SafeOrderClause(map[string]string{"createdAt": "parent_student_created_at"}, "createdAt")).
		Limit(p.Limit()).Offset(p.Offset()).Find(&rows).Error; err != nil {
		return err
	}
	return helper.JsonList(c, "OK", rows, helper.BuildMeta(total, p))
}

/* ============================================
   GET /api/parent-students/children
   PARENT: own children. Staff may pass ?parentId.
============================================ */

func (ctl *ParentStudentController) Children(c *fiber.Ctx) error {
	ctx := c.UserContext()
	schoolID := helperAuth.GetSchoolID(c)

	var parentID uuid.UUID
	if helperAuth.GetSchoolRole(c) == constants.RoleParent {
		id, err := helperAuth.ParentProfileID(ctx, ctl.DB, schoolID, helperAuth.GetUserID(c))
		if err != nil {
			return err
		}
		parentID = id
	} else {
		id, err := helper.QueryUUID(c, "parentId")
		if err != nil {
			return err
		}
		if id == nil {
			return helper.BadRequest("parentId est requis")
		}
		parentID = *id
	}

	year, err := helperAuth.ResolveAcademicYear(c, ctl.DB, schoolID)
	if err != nil {
		return err
	}
	yearID := uuid.Nil
	if year != nil {
		yearID = year.AcademicYearID
	}

	rows := []dto.Child{}
	err = ctl.DB.WithContext(ctx).Table("parent_students ps").
		Select(`ps.parent_student_id AS link_id, ps.parent_student_student_id AS student_id,
			u.full_name AS full_name, u.email AS email, ps.parent_student_relationship AS relationship,
			e.enrollment_classroom_id AS classroom_id`).
		Joins("JOIN users u ON u.id = ps.parent_student_student_id").
		Joins("LEFT JOIN enrollments e ON e.enrollment_student_id = ps.parent_student_student_id AND e.enrollment_academic_year_id = ?", yearID).
		Where("ps.parent_student_school_id = ? AND ps.parent_student_parent_id = ?", schoolID, parentID).
		Order("u.full_name ASC").
		Scan(&rows).Error
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", rows)
}

// POST /api/parent-students (ADMIN)
func (ctl *ParentStudentController) Create(c *fiber.Ctx) error {
	var req dto.CreateParentStudentRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &req); err != nil {
		return err
	}
	ctx := c.UserContext()
	schoolID := helperAuth.GetSchoolID(c)

	if err := helper.RequireRef(ctx, ctl.DB, &parentModel.ParentProfileModel{}, "Parent introuvable",
		"parent_profile_id = ? AND parent_profile_school_id = ?", req.ParentID, schoolID); err != nil {
		return err
	}
	ok, err := helperAuth.HasMembershipRole(ctx, ctl.DB, req.StudentID, schoolID, constants.RoleStudent)
	if err != nil {
		return err
	}
	if !ok {
		return helper.BadRequest("L'utilisateur n'est pas élève de cette école")
	}

	ent := &model.ParentStudentModel{
		ParentStudentSchoolID:     schoolID,
		ParentStudentParentID:     req.ParentID,
		ParentStudentStudentID:    req.StudentID,
		ParentStudentRelationship: req.Relationship,
	}
	if err := ctl.DB.WithContext(ctx).Create(ent).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.Conflict("Ce lien parent-élève existe déjà")
		}
		return err
	}
	return helper.JsonCreated(c, "Lien parent-élève créé", ent)
}

func (ctl *ParentStudentController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var ent model.ParentStudentModel
	if err := helper.FirstOr404(c.UserContext(), ctl.DB, &ent, "Lien introuvable",
		"parent_student_id = ? AND parent_student_school_id = ?", id, helperAuth.GetSchoolID(c)); err != nil {
		return err
	}
	if err := ctl.DB.WithContext(c.UserContext()).Delete(&ent).Error; err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Lien supprimé", fiber.Map{"id": ent.ParentStudentID})
}
