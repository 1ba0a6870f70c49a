package controller_test

import (
	"bytes"
	"fmt"
	"net/http"
	"testing"

	"schoolku_backend/internals/constants"
	userModel "schoolku_backend/internals/features/users/users/model"
	"schoolku_backend/internals/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type fixture struct {
	app          *testutil.App
	schoolID     uuid.UUID
	termID       uuid.UUID
	classroomID  uuid.UUID
	assessmentID uuid.UUID

	teacher, outsider, awa, binta *userModel.UserModel
}

func newFixture(t *testing.T) *fixture {
	db := testutil.NewDB(t)
	school := testutil.School(t, db, "École Alpha")
	f := &fixture{app: testutil.NewApp(t, db), schoolID: school.SchoolID}

	f.teacher = testutil.SchoolUser(t, db, f.schoolID, "prof@alpha.test", constants.RoleTeacher)
	f.outsider = testutil.SchoolUser(t, db, f.schoolID, "prof2@alpha.test", constants.RoleTeacher)
	f.awa = testutil.SchoolUser(t, db, f.schoolID, "awa@alpha.test", constants.RoleStudent)
	f.binta = testutil.SchoolUser(t, db, f.schoolID, "binta@alpha.test", constants.RoleStudent)

	year := testutil.Year(t, db, f.schoolID, "2025-2026", true)
	f.termID = testutil.Term(t, db, year, "Trimestre 1", 1).AcademicTermID
	classroom := testutil.Classroom(t, db, year, "6e A")
	f.classroomID = classroom.ClassroomID
	math := testutil.Subject(t, db, f.schoolID, "Mathématiques", 2)

	testutil.Assign(t, db, testutil.TeacherProfile(t, db, f.schoolID, f.teacher.ID).TeacherProfileID, classroom, math.SubjectID)
	testutil.TeacherProfile(t, db, f.schoolID, f.outsider.ID)
	testutil.Enroll(t, db, f.awa.ID, classroom)
	testutil.Enroll(t, db, f.binta.ID, classroom)
	f.assessmentID = testutil.Assessment(t, db, classroom, math.SubjectID, f.termID, 40).AssessmentID
	return f
}

func (f *fixture) do(t *testing.T, u *userModel.UserModel, method, path string, body any) *testutil.Response {
	return f.app.Do(t, testutil.Request{Method: method, Path: path, Body: body, Token: testutil.Token(t, u), SchoolID: f.schoolID})
}

func (f *fixture) grade(t *testing.T, u *userModel.UserModel, scores map[uuid.UUID]float64) *testutil.Response {
	grades := []map[string]any{}
	for id, s := range scores {
		grades = append(grades, map[string]any{"studentId": id, "score": s})
	}
	return f.do(t, u, http.MethodPost, "/api/student-grades/bulk", map[string]any{"assessmentId": f.assessmentID, "grades": grades})
}

func TestBulkGradesGuards(t *testing.T) {
	f := newFixture(t)

	res := f.grade(t, f.outsider, map[uuid.UUID]float64{f.awa.ID: 20})
	assert.Equal(t, fiber.StatusForbidden, res.Status, "teacher not assigned to the pair")

	res = f.grade(t, f.teacher, map[uuid.UUID]float64{f.awa.ID: 41})
	assert.Equal(t, fiber.StatusBadRequest, res.Status, "score above maxScore")
	assert.Equal(t, "grades[0]: score doit être compris entre 0 et 40", res.JSON["error"])

	res = f.grade(t, f.teacher, map[uuid.UUID]float64{f.teacher.ID: 10})
	assert.Equal(t, fiber.StatusBadRequest, res.Status, "not enrolled")
	assert.Equal(t, "grades[0]: L'élève n'est pas inscrit dans la classe de l'évaluation", res.JSON["error"])

	res = f.grade(t, f.teacher, map[uuid.UUID]float64{f.awa.ID: 30, f.binta.ID: 20})
	require.Equal(t, fiber.StatusCreated, res.Status, string(res.Raw))
	assert.Equal(t, 2.0, res.Data()["count"])

	// second pass updates in place
	res = f.grade(t, f.teacher, map[uuid.UUID]float64{f.awa.ID: 32})
	require.Equal(t, fiber.StatusCreated, res.Status)
	var n int64
	require.NoError(t, f.app.DB.Table("student_grades").Count(&n).Error)
	assert.Equal(t, int64(2), n)
}

func TestReportCards(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, fiber.StatusCreated, f.grade(t, f.teacher, map[uuid.UUID]float64{f.awa.ID: 32, f.binta.ID: 18}).Status)
	query := fmt.Sprintf("classroomId=%s&termId=%s", f.classroomID, f.termID)

	res := f.do(t, f.teacher, http.MethodGet, "/api/report-cards/classroom?"+query, nil)
	require.Equal(t, fiber.StatusOK, res.Status, string(res.Raw))
	cards := res.Data()["students"].([]any)
	require.Len(t, cards, 2)
	byStudent := map[string]map[string]any{}
	for _, c := range cards {
		m := c.(map[string]any)
		byStudent[m["studentId"].(string)] = m
	}
	assert.Equal(t, 16.0, byStudent[f.awa.ID.String()]["average"])
	assert.Equal(t, 1.0, byStudent[f.awa.ID.String()]["rank"])
	assert.Equal(t, "Très bien", byStudent[f.awa.ID.String()]["appreciation"])
	assert.Equal(t, 9.0, byStudent[f.binta.ID.String()]["average"])
	assert.Equal(t, false, byStudent[f.binta.ID.String()]["passed"])
	stats := res.Data()["stats"].(map[string]any)
	assert.Equal(t, 12.5, stats["mean"])

	res = f.do(t, f.awa, http.MethodGet, fmt.Sprintf("/api/report-cards?studentId=%s&termId=%s", f.awa.ID, f.termID), nil)
	require.Equal(t, fiber.StatusOK, res.Status, string(res.Raw))
	card := res.Data()["card"].(map[string]any)
	assert.Equal(t, 16.0, card["average"])
	assert.Equal(t, true, card["passed"])

	res = f.do(t, f.awa, http.MethodGet, fmt.Sprintf("/api/report-cards?studentId=%s&termId=%s", f.binta.ID, f.termID), nil)
	assert.Equal(t, fiber.StatusForbidden, res.Status)

	res = f.do(t, f.awa, http.MethodGet, "/api/report-cards/classroom?"+query, nil)
	assert.Equal(t, fiber.StatusForbidden, res.Status)

	res = f.do(t, f.teacher, http.MethodGet, "/api/report-cards?termId="+f.termID.String(), nil)
	assert.Equal(t, fiber.StatusBadRequest, res.Status)
}

func TestReportCardExport(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, fiber.StatusCreated, f.grade(t, f.teacher, map[uuid.UUID]float64{f.awa.ID: 32}).Status)

	res := f.do(t, f.teacher, http.MethodGet,
		fmt.Sprintf("/api/report-cards/classroom/export?classroomId=%s&termId=%s", f.classroomID, f.termID), nil)
	require.Equal(t, fiber.StatusOK, res.Status)
	assert.Contains(t, res.Header.Get(fiber.HeaderContentDisposition), ".xlsx")

	book, err := excelize.OpenReader(bytes.NewReader(res.Raw))
	require.NoError(t, err)
	defer book.Close()
	rows, err := book.GetRows(book.GetSheetName(0))
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 3, "header plus one row per student")
	assert.Equal(t, []string{"Rang", "Élève"}, rows[0][:2])
	assert.Contains(t, rows[0], "Moyenne")
}
