package controller

import (
	"strconv"

	subjectModel "schoolku_backend/internals/features/school/academics/subjects/model"
	classroomModel "schoolku_backend/internals/features/school/classes/classrooms/model"
	profileModel "schoolku_backend/internals/features/school/teachers/teacher_profiles/model"
	"schoolku_backend/internals/features/school/timetables/timetable_entries/dto"
	"schoolku_backend/internals/features/school/timetables/timetable_entries/model"
	"schoolku_backend/internals/features/school/timetables/timetable_entries/service"
	helper "schoolku_backend/internals/helpers"
	helperAuth "schoolku_backend/internals/helpers/auth"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type TimetableEntryController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewTimetableEntryController(db *gorm.DB, v *validator.Validate) *TimetableEntryController {
	return &TimetableEntryController{DB: db, Validator: v}
}

// filtered applies ?classroomId ?teacherId ?dayOfWeek and the active year.
func (ctl *TimetableEntryController) filtered(c *fiber.Ctx) (*gorm.DB, error) {
	schoolID := helperAuth.GetSchoolID(c)
	q := ctl.DB.WithContext(c.UserContext()).Model(&model.TimetableEntryModel{}).
		Where("timetable_entry_school_id = ?", schoolID)

	year, err := helperAuth.ResolveAcademicYear(c, ctl.DB, schoolID)
	if err != nil {
		return nil, err
	}
	if year != nil {
		q = q.Where("timetable_entry_academic_year_id = ?", year.AcademicYearID)
	}
	for param, col := range map[string]string{
		"classroomId": "timetable_entry_classroom_id",
		"teacherId":   "timetable_entry_teacher_id",
		"subjectId":   "timetable_entry_subject_id",
	} {
		id, err := helper.QueryUUID(c, param)
		if err != nil {
			return nil, err
		}
		if id != nil {
			q = q.Where(col+" = ?", *id)
		}
	}
	if raw := c.Query("dayOfWeek"); raw != "" {
		d, err := strconv.Atoi(raw)
		if err != nil || d < 1 || d > 7 {
			return nil, helper.BadRequest("dayOfWeek doit être compris entre 1 et 7")
		}
		q = q.Where("timetable_entry_day_of_week = ?", d)
	}
	return q, nil
}

// GET /api/timetable-entries
func (ctl *TimetableEntryController) List(c *fiber.Ctx) error {
	q, err := ctl.filtered(c)
	if err != nil {
		return err
	}
	p := helper.ParseFiber(c, "day", "asc", helper.DefaultOpts)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return err
	}
	rows := []model.TimetableEntryModel{}
	order := p.SafeOrderClause(map[string]string{
		"day":       "timetable_entry_day_of_week",
		"startTime": "timetable_entry_start_time",
	}, "day")
	if err := q.Order(order).Order("timetable_entry_start_time ASC").
		Limit(p.Limit()).Offset(p.Offset()).Find(&rows).Error; err != nil {
		return err
	}
	return helper.JsonList(c, "OK", rows, helper.BuildMeta(total, p))
}

// GET /api/timetable-entries/week?classroomId
func (ctl *TimetableEntryController) Week(c *fiber.Ctx) error {
	if c.Query("classroomId") == "" && c.Query("teacherId") == "" {
		return helper.BadRequest("classroomId ou teacherId est requis")
	}
	q, err := ctl.filtered(c)
	if err != nil {
		return err
	}
	rows := []model.TimetableEntryModel{}
	if err := q.Find(&rows).Error; err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", service.GroupByDay(rows))
}

func (ctl *TimetableEntryController) Get(c *fiber.Ctx) error {
	ent, err := ctl.find(c)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", ent)
}

// POST /api/timetable-entries (ADMIN)
func (ctl *TimetableEntryController) Create(c *fiber.Ctx) error {
	var req dto.CreateTimetableEntryRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &req); err != nil {
		return err
	}
	ctx := c.UserContext()
	schoolID := helperAuth.GetSchoolID(c)

	var classroom classroomModel.ClassroomModel
	if err := helper.FirstOr404(ctx, ctl.DB, &classroom, "Classe introuvable",
		"classroom_id = ? AND classroom_school_id = ?", req.ClassroomID, schoolID); err != nil {
		return err
	}
	ent := req.ToModel(schoolID, classroom.ClassroomAcademicYearID)
	if err := ctl.checkRefs(c, ent); err != nil {
		return err
	}
	if err := service.EnsureFree(ctx, ctl.DB, ent); err != nil {
		return err
	}
	if err := ctl.DB.WithContext(ctx).Create(ent).Error; err != nil {
		return err
	}
	return helper.JsonCreated(c, "Créneau créé", ent)
}

// PATCH /api/timetable-entries/:id (ADMIN)
func (ctl *TimetableEntryController) Update(c *fiber.Ctx) error {
	ent, err := ctl.find(c)
	if err != nil {
		return err
	}
	var req dto.UpdateTimetableEntryRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &req); err != nil {
		return err
	}
	req.ApplyUpdates(ent)
	if err := ctl.checkRefs(c, ent); err != nil {
		return err
	}
	if err := service.EnsureFree(c.UserContext(), ctl.DB, ent); err != nil {
		return err
	}
	if err := ctl.DB.WithContext(c.UserContext()).Save(ent).Error; err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Créneau mis à jour", ent)
}

func (ctl *TimetableEntryController) Delete(c *fiber.Ctx) error {
	ent, err := ctl.find(c)
	if err != nil {
		return err
	}
	if err := ctl.DB.WithContext(c.UserContext()).Delete(ent).Error; err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Créneau supprimé", fiber.Map{"id": ent.TimetableEntryID})
}

func (ctl *TimetableEntryController) find(c *fiber.Ctx) (*model.TimetableEntryModel, error) {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, err
	}
	var ent model.TimetableEntryModel
	if err := helper.FirstOr404(c.UserContext(), ctl.DB, &ent, "Créneau introuvable",
		"timetable_entry_id = ? AND timetable_entry_school_id = ?", id, helperAuth.GetSchoolID(c)); err != nil {
		return nil, err
	}
	return &ent, nil
}

func (ctl *TimetableEntryController) checkRefs(c *fiber.Ctx, ent *model.TimetableEntryModel) error {
	ctx := c.UserContext()
	if err := helper.RequireRef(ctx, ctl.DB, &subjectModel.SubjectModel{}, "Matière introuvable",
		"subject_id = ? AND subject_school_id = ?", ent.TimetableEntrySubjectID, ent.TimetableEntrySchoolID); err != nil {
		return err
	}
	if ent.TimetableEntryTeacherID != nil {
		return helper.RequireRef(ctx, ctl.DB, &profileModel.TeacherProfileModel{}, "Enseignant introuvable",
			"teacher_profile_id = ? AND teacher_profile_school_id = ?", *ent.TimetableEntryTeacherID, ent.TimetableEntrySchoolID)
	}
	return nil
}
