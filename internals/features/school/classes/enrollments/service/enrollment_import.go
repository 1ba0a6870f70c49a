package service

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"time"

	"schoolku_backend/internals/constants"
	classroomModel "schoolku_backend/internals/features/school/classes/classrooms/model"
	memberModel "schoolku_backend/internals/features/schools/members/model"
	userModel "schoolku_backend/internals/features/users/users/model"
	helper "schoolku_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

var errNameRequired = helper.BadRequest("fullName requis pour un nouvel utilisateur")

type ImportRowError struct {
	Row   int    `json:"row"`
	Email string `json:"email,omitempty"`
	Error string `json:"error"`
}

type ImportResult struct {
	Created int              `json:"created"`
	Skipped int              `json:"skipped"`
	Errors  []ImportRowError `json:"errors"`
}

// ImportStudents reads the first sheet of an .xlsx (header row with "email" and
// optional "fullName") and enrolls every row into classroom. Unknown emails become
// new users with a STUDENT membership; rows already enrolled this year are skipped.
// Each row commits on its own.
func ImportStudents(ctx context.Context, db *gorm.DB, classroom *classroomModel.ClassroomModel, r io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, helper.BadRequest("Fichier Excel illisible")
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, helper.BadRequest("Fichier Excel illisible")
	}
	if len(rows) == 0 {
		return nil, helper.BadRequest("Fichier vide")
	}

	emailCol, nameCol := -1, -1
	for i, h := range rows[0] {
		switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(h), " ", "")) {
		case "email", "e-mail":
			emailCol = i
		case "fullname", "nom", "name":
			nameCol = i
		}
	}
	if emailCol < 0 {
		return nil, helper.BadRequest("Colonne email manquante")
	}

	res := &ImportResult{Errors: []ImportRowError{}}
	today := helper.DateOnly(time.Now())
	for i, row := range rows[1:] {
		line := i + 2
		email := strings.ToLower(strings.TrimSpace(cell(row, emailCol)))
		name := strings.TrimSpace(cell(row, nameCol))
		if email == "" && name == "" {
			continue
		}
		if email == "" || !strings.Contains(email, "@") {
			res.Errors = append(res.Errors, ImportRowError{Row: line, Email: email, Error: "email invalide"})
			continue
		}

		err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			u, err := findOrCreateStudent(tx, classroom, email, name)
			if err != nil {
				return err
			}
			_, err = Enroll(ctx, tx, classroom, u.ID, "", today)
			return err
		})
		switch {
		case err == nil:
			res.Created++
		case errors.Is(err, ErrAlreadyEnrolled):
			res.Skipped++
		default:
			res.Errors = append(res.Errors, ImportRowError{Row: line, Email: email, Error: rowMessage(err)})
		}
	}
	return res, nil
}

func findOrCreateStudent(tx *gorm.DB, classroom *classroomModel.ClassroomModel, email, name string) (*userModel.UserModel, error) {
	var u userModel.UserModel
	err := tx.Where("email = ?", email).Take(&u).Error
	if helper.IsNotFound(err) {
		if name == "" {
			return nil, errNameRequired
		}
		u = userModel.UserModel{FullName: name, Email: email, Role: constants.RoleUser, IsActive: true}
		if err := tx.Create(&u).Error; err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	var m memberModel.UserSchoolModel
	err = tx.Where("user_school_user_id = ? AND user_school_school_id = ?", u.ID, classroom.ClassroomSchoolID).Take(&m).Error
	if helper.IsNotFound(err) {
		m = memberModel.UserSchoolModel{
			UserSchoolUserID:   u.ID,
			UserSchoolSchoolID: classroom.ClassroomSchoolID,
			UserSchoolRole:     constants.RoleStudent,
		}
		return &u, tx.Create(&m).Error
	}
	if err != nil {
		return nil, err
	}
	if m.UserSchoolRole != constants.RoleStudent {
		return nil, ErrNotStudentMember
	}
	return &u, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// rowMessage keeps business errors readable and masks the rest.
func rowMessage(err error) string {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Message
	}
	log.Printf("[ERROR] enrollment import: %v", err)
	return constants.MsgServerError
}
