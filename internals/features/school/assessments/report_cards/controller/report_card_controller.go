package controller

import (
	"errors"
	"fmt"

	"schoolku_backend/internals/features/school/assessments/report_cards/service"
	helper "schoolku_backend/internals/helpers"
	helperAuth "schoolku_backend/internals/helpers/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReportCardController struct {
	DB      *gorm.DB
	Builder service.Builder
}

func NewReportCardController(db *gorm.DB) *ReportCardController {
	return &ReportCardController{DB: db, Builder: service.Builder{DB: db}}
}

func requiredUUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := helper.QueryUUID(c, name)
	if err != nil {
		return uuid.Nil, err
	}
	if id == nil {
		return uuid.Nil, helper.BadRequest(name + " est requis")
	}
	return *id, nil
}

// GET /api/report-cards?studentId&termId
func (ctl *ReportCardController) Student(c *fiber.Ctx) error {
	studentID, err := requiredUUID(c, "studentId")
	if err != nil {
		return err
	}
	termID, err := requiredUUID(c, "termId")
	if err != nil {
		return err
	}
	if err := helperAuth.CanSeeStudent(c, ctl.DB, studentID); err != nil {
		return err
	}
	ctx := c.UserContext()
	schoolID := helperAuth.GetSchoolID(c)
	term, err := ctl.Builder.Term(ctx, schoolID, termID)
	if err != nil {
		return err
	}
	rep, err := ctl.Builder.ForStudent(ctx, schoolID, studentID, term)
	if errors.Is(err, service.ErrNoEnrollment) {
		return fiber.NewError(fiber.StatusNotFound, "Aucune inscription de l'élève pour cette période")
	}
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", rep)
}

// GET /api/report-cards/classroom?classroomId&termId
func (ctl *ReportCardController) Classroom(c *fiber.Ctx) error {
	rep, err := ctl.classroomReport(c)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", rep)
}

// GET /api/report-cards/classroom/export?classroomId&termId
func (ctl *ReportCardController) Export(c *fiber.Ctx) error {
	rep, err := ctl.classroomReport(c)
	if err != nil {
		return err
	}

	headers := []string{"Rang", "Élève"}
	if len(rep.Cards) > 0 {
		for _, s := range rep.Cards[0].Subjects {
			headers = append(headers, fmt.Sprintf("%s (coef %g)", s.SubjectName, s.Coefficient))
		}
	}
	headers = append(headers, "Moyenne", "Appréciation", "Décision")

	rows := make([][]any, 0, len(rep.Cards)+1)
	for _, card := range rep.Cards {
		row := []any{optInt(card.Rank), card.FullName}
		for _, s := range card.Subjects {
			row = append(row, optFloat(s.Average))
		}
		decision := "Non admis"
		if card.Passed {
			decision = "Admis"
		}
		if card.Average == nil {
			decision = ""
		}
		row = append(row, optFloat(card.Average), optString(card.Appreciation), decision)
		rows = append(rows, row)
	}
	rows = append(rows, []any{"", fmt.Sprintf("Moyenne de classe / min / max: %s / %s / %s",
		fmtOpt(rep.Stats.Mean), fmtOpt(rep.Stats.Min), fmtOpt(rep.Stats.Max))})

	f, err := helper.NewSheet("Bulletin", headers, rows)
	if err != nil {
		return err
	}
	name := fmt.Sprintf("bulletin-%s-%s.xlsx",
		helper.Slugify(rep.Classroom.Name, 40), helper.Slugify(rep.Term.Name, 40))
	return helper.SendXLSX(c, name, f)
}

func (ctl *ReportCardController) classroomReport(c *fiber.Ctx) (*service.ClassroomReport, error) {
	classroomID, err := requiredUUID(c, "classroomId")
	if err != nil {
		return nil, err
	}
	termID, err := requiredUUID(c, "termId")
	if err != nil {
		return nil, err
	}
	ctx := c.UserContext()
	schoolID := helperAuth.GetSchoolID(c)
	classroom, err := ctl.Builder.Classroom(ctx, schoolID, classroomID)
	if err != nil {
		return nil, err
	}
	if err := helperAuth.EnsureCanTeach(c, ctl.DB, classroom.ClassroomID, nil); err != nil {
		return nil, err
	}
	term, err := ctl.Builder.Term(ctx, schoolID, termID)
	if err != nil {
		return nil, err
	}
	return ctl.Builder.ForClassroom(ctx, classroom, term)
}

func optInt(v *int) any {
	if v == nil {
		return ""
	}
	return *v
}

func optFloat(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}

func optString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func fmtOpt(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}
