// file: internals/features/school/attendance/attendance_records/controller/attendance_record_controller.go
package controller

import (
	"fmt"
	"time"

	"schoolku_backend/internals/features/school/attendance/attendance_records/dto"
	"schoolku_backend/internals/features/school/attendance/attendance_records/model"
	"schoolku_backend/internals/features/school/attendance/attendance_records/service"
	classroomModel "schoolku_backend/internals/features/school/classes/classrooms/model"
	enrollmentModel "schoolku_backend/internals/features/school/classes/enrollments/model"
	timetableModel "schoolku_backend/internals/features/school/timetables/timetable_entries/model"
	helper "schoolku_backend/internals/helpers"
	helperAuth "schoolku_backend/internals/helpers/auth"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const msgAttendanceNotFound = "Présence introuvable"

var errAttendanceDuplicate = helper.Conflict("Une présence existe déjà pour cet élève sur ce créneau")

type AttendanceRecordController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewAttendanceRecordController(db *gorm.DB, v *validator.Validate) *AttendanceRecordController {
	return &AttendanceRecordController{DB: db, Validator: v}
}

/* ============================================
   GET /api/attendance-records
   ?classroomId ?studentId ?date ?from ?to ?status
============================================ */

func (ctl *AttendanceRecordController) List(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "date", "desc", helper.DefaultOpts)
	q := ctl.DB.WithContext(c.UserContext()).Model(&model.AttendanceRecordModel{}).
		Where("attendance_record_school_id = ?", helperAuth.GetSchoolID(c))

	for param, col := range map[string]string{
		"classroomId":      "attendance_record_classroom_id",
		"studentId":        "attendance_record_student_id",
		"timetableEntryId": "attendance_record_slot_id",
	} {
		id, err := helper.QueryUUID(c, param)
		if err != nil {
			return err
		}
		if id != nil {
			q = q.Where(col+" = ?", *id)
		}
	}
	for param, op := range map[string]string{"date": "=", "from": ">=", "to": "<="} {
		d, err := helper.QueryDate(c, param)
		if err != nil {
			return err
		}
		if d != nil {
			q = q.Where("attendance_record_date "+op+" ?", *d)
		}
	}
	if s := c.Query("status"); s != "" {
		q = q.Where("attendance_record_status = ?", s)
	}

	ids, restricted, err := helperAuth.VisibleStudentIDs(c, ctl.DB)
	if err != nil {
		return err
	}
	if restricted {
		q = q.Where("attendance_record_student_id IN ?", append(ids, uuid.Nil))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return err
	}
	rows := []model.AttendanceRecordModel{}
	if err := q.Order(p.SafeOrderClause(map[string]string{
		"date":      "attendance_record_date",
		"status":    "attendance_record_status",
		"createdAt": "attendance_record_created_at",
	}, "date")).Limit(p.Limit()).Offset(p.Offset()).Find(&rows).Error; err != nil {
		return err
	}
	return helper.JsonList(c, "OK", rows, helper.BuildMeta(total, p))
}

func (ctl *AttendanceRecordController) Get(c *fiber.Ctx) error {
	ent, err := ctl.find(c)
	if err != nil {
		return err
	}
	if err := helperAuth.CanSeeStudent(c, ctl.DB, ent.AttendanceRecordStudentID); err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", ent)
}

/* ============================================
   POST /api/attendance-records
============================================ */

func (ctl *AttendanceRecordController) Create(c *fiber.Ctx) error {
	var req dto.CreateAttendanceRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &req); err != nil {
		return err
	}
	ent, err := req.ToModel(helperAuth.GetSchoolID(c), helperAuth.GetUserID(c))
	if err != nil {
		return err
	}
	if err := ctl.checkScope(c, ent.AttendanceRecordClassroomID, req.TimetableEntryID); err != nil {
		return err
	}
	enrolled, err := ctl.enrolled(c, ent.AttendanceRecordClassroomID)
	if err != nil {
		return err
	}
	if _, ok := enrolled[ent.AttendanceRecordStudentID]; !ok {
		return helper.BadRequest("L'élève n'est pas inscrit dans cette classe")
	}
	if err := ctl.DB.WithContext(c.UserContext()).Create(ent).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return errAttendanceDuplicate
		}
		return err
	}
	return helper.JsonCreated(c, "Présence enregistrée", ent)
}

/* ============================================
   POST /api/attendance-records/bulk
   One call per roll-call; upsert on (student, classroom, date, slot).
============================================ */

func (ctl *AttendanceRecordController) Bulk(c *fiber.Ctx) error {
	var req dto.BulkAttendanceRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &req); err != nil {
		return err
	}
	day, err := helper.ParseDate(req.Date)
	if err != nil {
		return helper.BadRequest("date invalide")
	}
	if err := ctl.checkScope(c, req.ClassroomID, req.TimetableEntryID); err != nil {
		return err
	}
	enrolled, err := ctl.enrolled(c, req.ClassroomID)
	if err != nil {
		return err
	}

	schoolID, userID := helperAuth.GetSchoolID(c), helperAuth.GetUserID(c)
	slot := dto.Slot(req.TimetableEntryID)
	seen := make(map[uuid.UUID]struct{}, len(req.Records))
	rows := make([]model.AttendanceRecordModel, 0, len(req.Records))
	ids := make([]uuid.UUID, 0, len(req.Records))
	for i, r := range req.Records {
		if _, dup := seen[r.StudentID]; dup {
			return helper.BadRequest(fmt.Sprintf("records[%d]: élève en double", i))
		}
		seen[r.StudentID] = struct{}{}
		if _, ok := enrolled[r.StudentID]; !ok {
			return helper.BadRequest(fmt.Sprintf("records[%d]: l'élève n'est pas inscrit dans cette classe", i))
		}
		ids = append(ids, r.StudentID)
		rows = append(rows, model.AttendanceRecordModel{
			AttendanceRecordID:          uuid.New(),
			AttendanceRecordSchoolID:    schoolID,
			AttendanceRecordStudentID:   r.StudentID,
			AttendanceRecordClassroomID: req.ClassroomID,
			AttendanceRecordDate:        day,
			AttendanceRecordSlotID:      slot,
			AttendanceRecordStatus:      r.Status,
			AttendanceRecordNote:        r.Note,
			AttendanceRecordRecordedBy:  userID,
		})
	}

	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "attendance_record_student_id"},
				{Name: "attendance_record_classroom_id"},
				{Name: "attendance_record_date"},
				{Name: "attendance_record_slot_id"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"attendance_record_status", "attendance_record_note",
				"attendance_record_recorded_by", "attendance_record_updated_at",
			}),
		}).Create(&rows).Error; err != nil {
			return err
		}
		return tx.Where(`attendance_record_classroom_id = ? AND attendance_record_date = ?
			AND attendance_record_slot_id = ? AND attendance_record_student_id IN ?`,
			req.ClassroomID, day, slot, ids).
			Find(&rows).Error
	})
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Présences enregistrées", dto.BulkAttendanceResponse{Count: len(rows), Records: rows})
}

/* ============================================
   PATCH / DELETE /api/attendance-records/:id
============================================ */

func (ctl *AttendanceRecordController) Update(c *fiber.Ctx) error {
	ent, err := ctl.find(c)
	if err != nil {
		return err
	}
	if err := helperAuth.EnsureCanTeach(c, ctl.DB, ent.AttendanceRecordClassroomID, nil); err != nil {
		return err
	}
	var req dto.UpdateAttendanceRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &req); err != nil {
		return err
	}
	req.ApplyUpdates(ent, helperAuth.GetUserID(c))
	if err := ctl.DB.WithContext(c.UserContext()).Save(ent).Error; err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Présence mise à jour", ent)
}

func (ctl *AttendanceRecordController) Delete(c *fiber.Ctx) error {
	ent, err := ctl.find(c)
	if err != nil {
		return err
	}
	if err := helperAuth.EnsureCanTeach(c, ctl.DB, ent.AttendanceRecordClassroomID, nil); err != nil {
		return err
	}
	if err := ctl.DB.WithContext(c.UserContext()).Delete(ent).Error; err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Présence supprimée", fiber.Map{"id": ent.AttendanceRecordID})
}

/* ============================================
   GET /api/attendance-records/summary ?classroomId|studentId ?from ?to
============================================ */

func (ctl *AttendanceRecordController) Summary(c *fiber.Ctx) error {
	f, err := ctl.summaryFilter(c, false)
	if err != nil {
		return err
	}
	out, err := service.Summarize(c.UserContext(), ctl.DB, *f)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", out)
}

// GET /api/attendance-records/export ?classroomId ?from ?to
func (ctl *AttendanceRecordController) Export(c *fiber.Ctx) error {
	f, err := ctl.summaryFilter(c, true)
	if err != nil {
		return err
	}
	var classroom classroomModel.ClassroomModel
	if err := helper.FirstOr404(c.UserContext(), ctl.DB, &classroom, "Classe introuvable",
		"classroom_id = ? AND classroom_school_id = ?", *f.ClassroomID, f.SchoolID); err != nil {
		return err
	}
	if err := helperAuth.EnsureCanTeach(c, ctl.DB, classroom.ClassroomID, nil); err != nil {
		return err
	}
	sum, err := service.Summarize(c.UserContext(), ctl.DB, *f)
	if err != nil {
		return err
	}

	headers := []string{"Élève", "Total", "Présent", "Absent", "Retard", "Excusé", "Taux de présence (%)"}
	rows := make([][]any, 0, len(sum.Students)+1)
	for _, s := range sum.Students {
		rows = append(rows, []any{s.FullName, s.Total, s.Present, s.Absent, s.Late, s.Excused, s.AttendanceRate})
	}
	t := sum.Totals
	rows = append(rows, []any{"Total", t.Total, t.Present, t.Absent, t.Late, t.Excused, t.AttendanceRate})

	xl, err := helper.NewSheet("Présences", headers, rows)
	if err != nil {
		return err
	}
	return helper.SendXLSX(c, fmt.Sprintf("presences-%s-%s.xlsx",
		helper.Slugify(classroom.ClassroomName, 40), time.Now().Format("20060102")), xl)
}

/* ============================================
   helpers
============================================ */

func (ctl *AttendanceRecordController) summaryFilter(c *fiber.Ctx, classroomRequired bool) (*service.Filter, error) {
	f := &service.Filter{SchoolID: helperAuth.GetSchoolID(c)}
	classroomID, err := helper.QueryUUID(c, "classroomId")
	if err != nil {
		return nil, err
	}
	studentID, err := helper.QueryUUID(c, "studentId")
	if err != nil {
		return nil, err
	}
	if classroomRequired && classroomID == nil {
		return nil, helper.BadRequest("classroomId est requis")
	}
	if classroomID == nil && studentID == nil {
		return nil, helper.BadRequest("classroomId ou studentId est requis")
	}
	f.ClassroomID = classroomID
	if f.From, err = helper.QueryDate(c, "from"); err != nil {
		return nil, err
	}
	if f.To, err = helper.QueryDate(c, "to"); err != nil {
		return nil, err
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return nil, helper.BadRequest("La date de fin doit être postérieure à la date de début")
	}

	ids, restricted, err := helperAuth.VisibleStudentIDs(c, ctl.DB)
	if err != nil {
		return nil, err
	}
	switch {
	case studentID != nil:
		if err := helperAuth.CanSeeStudent(c, ctl.DB, *studentID); err != nil {
			return nil, err
		}
		f.StudentIDs = []uuid.UUID{*studentID}
	case restricted:
		f.StudentIDs = ids
	}
	return f, nil
}

// checkScope: the classroom is in the school, the caller teaches there and the
// timetable entry, when given, belongs to the classroom.
func (ctl *AttendanceRecordController) checkScope(c *fiber.Ctx, classroomID uuid.UUID, entryID *uuid.UUID) error {
	ctx := c.UserContext()
	schoolID := helperAuth.GetSchoolID(c)
	if err := helper.RequireRef(ctx, ctl.DB, &classroomModel.ClassroomModel{}, "Classe introuvable",
		"classroom_id = ? AND classroom_school_id = ?", classroomID, schoolID); err != nil {
		return err
	}
	if err := helperAuth.EnsureCanTeach(c, ctl.DB, classroomID, nil); err != nil {
		return err
	}
	if entryID != nil {
		return helper.RequireRef(ctx, ctl.DB, &timetableModel.TimetableEntryModel{}, "Créneau introuvable pour cette classe",
			"timetable_entry_id = ? AND timetable_entry_school_id = ? AND timetable_entry_classroom_id = ?",
			*entryID, schoolID, classroomID)
	}
	return nil
}

func (ctl *AttendanceRecordController) enrolled(c *fiber.Ctx, classroomID uuid.UUID) (map[uuid.UUID]struct{}, error) {
	ids := []uuid.UUID{}
	if err := ctl.DB.WithContext(c.UserContext()).Model(&enrollmentModel.EnrollmentModel{}).
		Where("enrollment_classroom_id = ? AND enrollment_status = ?", classroomID, enrollmentModel.EnrollmentActive).
		Pluck("enrollment_student_id", &ids).Error; err != nil {
		return nil, err
	}
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

func (ctl *AttendanceRecordController) find(c *fiber.Ctx) (*model.AttendanceRecordModel, error) {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, err
	}
	var ent model.AttendanceRecordModel
	if err := helper.FirstOr404(c.UserContext(), ctl.DB, &ent, msgAttendanceNotFound,
		"attendance_record_id = ? AND attendance_record_school_id = ?", id, helperAuth.GetSchoolID(c)); err != nil {
		return nil, err
	}
	return &ent, nil
}
