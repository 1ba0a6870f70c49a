package routes_test

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"schoolku_backend/internals/constants"
	yearModel "schoolku_backend/internals/features/school/academics/academic_years/model"
	attendanceModel "schoolku_backend/internals/features/school/attendance/attendance_records/model"
	classroomModel "schoolku_backend/internals/features/school/classes/classrooms/model"
	enrollmentModel "schoolku_backend/internals/features/school/classes/enrollments/model"
	helperAuth "schoolku_backend/internals/helpers/auth"
	"schoolku_backend/internals/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func (e *env) do(t *testing.T, token, method, path string, body any) *testutil.Response {
	t.Helper()
	return e.app.Do(t, testutil.Request{Method: method, Path: path, Body: body, Token: token, SchoolID: e.schoolID})
}

func (e *env) newClassroom(t *testing.T, name string, capacity int) string {
	t.Helper()
	body := map[string]any{"name": name, "academicYearId": e.yearID}
	if capacity > 0 {
		body["capacity"] = capacity
	}
	res := e.do(t, e.tok(t, constants.RoleAdmin), http.MethodPost, "/api/classrooms", body)
	require.Equal(t, http.StatusCreated, res.Status, string(res.Raw))
	return res.Data()["id"].(string)
}

func TestAcademicYearDatesKeepTermsInside(t *testing.T) {
	e := setup(t)
	admin := e.tok(t, constants.RoleAdmin)
	path := "/api/academic-years/" + e.yearID.String()

	// the term runs 2025-09-01 -> 2025-12-01
	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{"end before the term ends", map[string]any{"endDate": "2025-10-01"}, http.StatusBadRequest},
		{"start after the term starts", map[string]any{"startDate": "2025-10-01"}, http.StatusBadRequest},
		{"both bounds squeeze the term", map[string]any{"startDate": "2025-09-15", "endDate": "2025-11-01"}, http.StatusBadRequest},
		{"end moved earlier but still after the term", map[string]any{"endDate": "2026-06-30"}, http.StatusOK},
		{"start moved earlier", map[string]any{"startDate": "2025-08-25"}, http.StatusOK},
		{"rename only", map[string]any{"name": "Année 2025-2026"}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := e.do(t, admin, http.MethodPatch, path, tt.body)
			assert.Equal(t, tt.want, res.Status, string(res.Raw))
		})
	}

	var y yearModel.AcademicYearModel
	require.NoError(t, e.app.DB.First(&y, "academic_year_id = ?", e.yearID).Error)
	assert.Equal(t, "2025-08-25", y.AcademicYearStartDate.UTC().Format("2006-01-02"))
	assert.Equal(t, "2026-06-30", y.AcademicYearEndDate.UTC().Format("2006-01-02"))

	// once the term is deleted the year can shrink
	res := e.do(t, admin, http.MethodDelete, "/api/terms/"+e.termID.String(), nil)
	require.Equal(t, http.StatusOK, res.Status, string(res.Raw))
	res = e.do(t, admin, http.MethodPatch, path, map[string]any{"endDate": "2025-10-01"})
	assert.Equal(t, http.StatusOK, res.Status, string(res.Raw))
}

func TestSetCurrentYearLeavesOne(t *testing.T) {
	e := setup(t)
	admin := e.tok(t, constants.RoleAdmin)

	res := e.do(t, admin, http.MethodPost, "/api/academic-years",
		map[string]any{"name": "2026-2027", "startDate": "2026-09-01", "endDate": "2027-07-01"})
	require.Equal(t, http.StatusCreated, res.Status, string(res.Raw))
	nextID := res.Data()["id"].(string)
	assert.Equal(t, false, res.Data()["isCurrent"])

	res = e.do(t, testutil.Token(t, e.teacher), http.MethodPost, "/api/academic-years/"+nextID+"/set-current", nil)
	assert.Equal(t, http.StatusForbidden, res.Status)

	res = e.do(t, admin, http.MethodPost, "/api/academic-years/"+nextID+"/set-current", nil)
	require.Equal(t, http.StatusOK, res.Status, string(res.Raw))

	var current []yearModel.AcademicYearModel
	require.NoError(t, e.app.DB.Where("academic_year_school_id = ? AND academic_year_is_current = ?", e.schoolID, true).
		Find(&current).Error)
	require.Len(t, current, 1)
	assert.Equal(t, nextID, current[0].AcademicYearID.String())

	res = e.do(t, admin, http.MethodGet, "/api/academic-years/current", nil)
	require.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, nextID, res.Data()["id"])
}

func TestTimetableConflicts(t *testing.T) {
	e := setup(t)
	admin := e.tok(t, constants.RoleAdmin)
	otherClassroom := e.newClassroom(t, "6e B", 0)
	teacher := e.teacherProf.TeacherProfileID

	slot := func(classroom any, day int, start, end string) map[string]any {
		return map[string]any{"classroomId": classroom, "subjectId": e.subjectID, "teacherId": teacher,
			"dayOfWeek": day, "startTime": start, "endTime": end}
	}
	// applied in order; each case sees the rows created before it
	tests := []struct {
		name    string
		body    map[string]any
		want    int
		wantMsg string
	}{
		{"first slot", slot(e.classroomID, 1, "08:00", "10:00"), http.StatusCreated, ""},
		{"classroom overlap", slot(e.classroomID, 1, "09:00", "11:00"), http.StatusConflict, "La classe a déjà un cours sur ce créneau"},
		{"teacher overlap in another classroom", slot(otherClassroom, 1, "09:30", "10:30"), http.StatusConflict, "L'enseignant a déjà un cours sur ce créneau"},
		{"slot inside an existing one", slot(e.classroomID, 1, "08:30", "09:00"), http.StatusConflict, "La classe a déjà un cours sur ce créneau"},
		{"adjacent slot", slot(e.classroomID, 1, "10:00", "11:00"), http.StatusCreated, ""},
		{"other classroom after the teacher is free", slot(otherClassroom, 1, "11:00", "12:00"), http.StatusCreated, ""},
		{"same hours another day", slot(e.classroomID, 2, "08:00", "10:00"), http.StatusCreated, ""},
		{"end before start", slot(e.classroomID, 3, "10:00", "09:00"), http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := e.do(t, admin, http.MethodPost, "/api/timetable-entries", tt.body)
			assert.Equal(t, tt.want, res.Status, string(res.Raw))
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, res.JSON["error"])
			}
		})
	}

	res := e.do(t, admin, http.MethodGet, "/api/timetable-entries/week?classroomId="+e.classroomID.String(), nil)
	require.Equal(t, http.StatusOK, res.Status, string(res.Raw))
	week := res.List()
	require.Len(t, week, 7)
	monday := week[0].(map[string]any)["entries"].([]any)
	require.Len(t, monday, 2)
	assert.Equal(t, "08:00", monday[0].(map[string]any)["startTime"])
	assert.Equal(t, "10:00", monday[1].(map[string]any)["startTime"])
	assert.Len(t, week[1].(map[string]any)["entries"], 1)
	assert.Empty(t, week[6].(map[string]any)["entries"])
}

func TestEnrollmentRules(t *testing.T) {
	e := setup(t)
	admin := e.tok(t, constants.RoleAdmin)
	small := e.newClassroom(t, "6e B", 1)
	student3 := testutil.SchoolUser(t, e.app.DB, e.schoolID, "student3@alpha.test", constants.RoleStudent)

	tests := []struct {
		name      string
		studentID uuid.UUID
		want      int
		wantMsg   string
	}{
		{"fills the last seat", e.student2.ID, http.StatusCreated, ""},
		{"classroom full", student3.ID, http.StatusConflict, "Classe complète"},
		{"already enrolled this year", e.student.ID, http.StatusConflict, "Élève déjà inscrit pour cette année scolaire"},
		{"not a student of the school", e.teacher.ID, http.StatusBadRequest, "L'utilisateur n'est pas élève de cette école"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := e.do(t, admin, http.MethodPost, "/api/enrollments", map[string]any{"studentId": tt.studentID, "classroomId": small})
			assert.Equal(t, tt.want, res.Status, string(res.Raw))
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, res.JSON["error"])
			}
		})
	}

	// a withdrawn enrollment frees the seat
	var seat enrollmentModel.EnrollmentModel
	require.NoError(t, e.app.DB.First(&seat, "enrollment_student_id = ?", e.student2.ID).Error)
	res := e.do(t, admin, http.MethodPatch, "/api/enrollments/"+seat.EnrollmentID.String(), map[string]any{"status": "WITHDRAWN"})
	require.Equal(t, http.StatusOK, res.Status, string(res.Raw))
	res = e.do(t, admin, http.MethodPost, "/api/enrollments", map[string]any{"studentId": student3.ID, "classroomId": small})
	assert.Equal(t, http.StatusCreated, res.Status, string(res.Raw))
}

func xlsxUpload(t *testing.T, e *env, classroomID, filename string, rows [][]any) *http.Request {
	t.Helper()
	book := excelize.NewFile()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, book.SetSheetRow("Sheet1", cell, &row))
	}
	var file bytes.Buffer
	require.NoError(t, book.Write(&file))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("classroomId", classroomID))
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(file.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/enrollments/import", &body)
	req.Header.Set(fiber.HeaderContentType, mw.FormDataContentType())
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+e.tok(t, constants.RoleAdmin))
	req.Header.Set(helperAuth.HeaderSchoolID, e.schoolID.String())
	return req
}

func TestEnrollmentImport(t *testing.T) {
	e := setup(t)
	classroom := e.classroomID.String()

	res := e.app.Send(t, xlsxUpload(t, e, classroom, "eleves.xlsx", [][]any{
		{"email", "fullName"},
		{"STUDENT2@alpha.test", ""},
		{"student@alpha.test", ""},
		{"nouvel@alpha.test", "Nouvel Élève"},
		{"", ""},
		{"pas-un-email", "X"},
		{"teacher@alpha.test", ""},
		{"inconnu@alpha.test", ""},
	}))
	require.Equal(t, http.StatusOK, res.Status, string(res.Raw))
	out := res.Data()
	assert.Equal(t, 2.0, out["created"])
	assert.Equal(t, 1.0, out["skipped"])
	errs := out["errors"].([]any)
	require.Len(t, errs, 3)
	rows := map[float64]string{}
	for _, x := range errs {
		m := x.(map[string]any)
		rows[m["row"].(float64)] = m["error"].(string)
	}
	assert.Equal(t, "email invalide", rows[6])
	assert.Equal(t, "L'utilisateur n'est pas élève de cette école", rows[7])
	assert.Equal(t, "fullName requis pour un nouvel utilisateur", rows[8])

	res = e.do(t, e.tok(t, constants.RoleAdmin), http.MethodGet, "/api/classrooms/"+classroom+"/students", nil)
	require.Equal(t, http.StatusOK, res.Status)
	assert.Len(t, res.List(), 3)

	// a second run only skips
	res = e.app.Send(t, xlsxUpload(t, e, classroom, "eleves.xlsx", [][]any{{"email"}, {"nouvel@alpha.test"}}))
	require.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, 0.0, res.Data()["created"])
	assert.Equal(t, 1.0, res.Data()["skipped"])

	bad := []struct {
		name     string
		filename string
		rows     [][]any
	}{
		{"not xlsx", "eleves.csv", [][]any{{"email"}}},
		{"no email column", "eleves.xlsx", [][]any{{"nom"}, {"Awa"}}},
	}
	for _, tt := range bad {
		t.Run(tt.name, func(t *testing.T) {
			res := e.app.Send(t, xlsxUpload(t, e, classroom, tt.filename, tt.rows))
			assert.Equal(t, http.StatusBadRequest, res.Status, string(res.Raw))
		})
	}
}

func TestAttendanceBulkSummaryExport(t *testing.T) {
	e := setup(t)
	classroom := e.classroomID.String()
	testutil.Enroll(t, e.app.DB, e.student2.ID, mustClassroom(t, e))
	teacher := e.tok(t, constants.RoleTeacher)

	bulk := func(token, date string, records ...map[string]any) *testutil.Response {
		return e.do(t, token, http.MethodPost, "/api/attendance-records/bulk",
			map[string]any{"classroomId": e.classroomID, "date": date, "records": records})
	}
	rec := func(id uuid.UUID, status string) map[string]any {
		return map[string]any{"studentId": id, "status": status}
	}

	res := bulk(testutil.Token(t, e.teacher2), "2025-10-01", rec(e.student.ID, "PRESENT"))
	assert.Equal(t, http.StatusForbidden, res.Status, "teacher without assignment")

	res = bulk(teacher, "2025-10-01", rec(e.student.ID, "LATE"), rec(e.student2.ID, "ABSENT"))
	require.Equal(t, http.StatusCreated, res.Status, string(res.Raw))
	assert.Equal(t, 2.0, res.Data()["count"])

	// same day again: rows are updated, not duplicated
	res = bulk(teacher, "2025-10-01", rec(e.student2.ID, "EXCUSED"))
	require.Equal(t, http.StatusCreated, res.Status, string(res.Raw))
	res = bulk(teacher, "2025-10-02", rec(e.student.ID, "PRESENT"), rec(e.student2.ID, "ABSENT"))
	require.Equal(t, http.StatusCreated, res.Status, string(res.Raw))

	var n int64
	require.NoError(t, e.app.DB.Model(&attendanceModel.AttendanceRecordModel{}).Count(&n).Error)
	assert.Equal(t, int64(4), n)

	res = bulk(teacher, "2025-10-03", rec(e.teacher.ID, "PRESENT"))
	assert.Equal(t, http.StatusBadRequest, res.Status, "not enrolled")

	query := fmt.Sprintf("classroomId=%s&from=2025-10-01&to=2025-10-31", classroom)
	res = e.do(t, teacher, http.MethodGet, "/api/attendance-records/summary?"+query, nil)
	require.Equal(t, http.StatusOK, res.Status, string(res.Raw))
	byStudent := map[string]map[string]any{}
	for _, s := range res.Data()["students"].([]any) {
		m := s.(map[string]any)
		byStudent[m["studentId"].(string)] = m
	}
	require.Len(t, byStudent, 2)
	first := byStudent[e.student.ID.String()]
	assert.Equal(t, 2.0, first["total"])
	assert.Equal(t, 1.0, first["late"])
	assert.Equal(t, 100.0, first["attendanceRate"])
	second := byStudent[e.student2.ID.String()]
	assert.Equal(t, 1.0, second["excused"])
	assert.Equal(t, 0.0, second["attendanceRate"])
	totals := res.Data()["totals"].(map[string]any)
	assert.Equal(t, 4.0, totals["total"])
	assert.Equal(t, 66.67, totals["attendanceRate"])

	// a parent only sees their own child
	res = e.do(t, e.tok(t, constants.RoleParent), http.MethodGet, "/api/attendance-records/summary?"+query, nil)
	require.Equal(t, http.StatusOK, res.Status, string(res.Raw))
	assert.Len(t, res.Data()["students"], 1)
	res = e.do(t, e.tok(t, constants.RoleParent), http.MethodGet,
		"/api/attendance-records/summary?studentId="+e.student2.ID.String(), nil)
	assert.Equal(t, http.StatusForbidden, res.Status)

	res = e.do(t, teacher, http.MethodGet, "/api/attendance-records/summary?from=2025-10-01", nil)
	assert.Equal(t, http.StatusBadRequest, res.Status, "classroomId or studentId required")

	res = e.do(t, teacher, http.MethodGet, "/api/attendance-records/export?"+query, nil)
	require.Equal(t, http.StatusOK, res.Status)
	assert.Contains(t, res.Header.Get(fiber.HeaderContentDisposition), ".xlsx")
	book, err := excelize.OpenReader(bytes.NewReader(res.Raw))
	require.NoError(t, err)
	defer book.Close()
	sheet, err := book.GetRows(book.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, sheet, 4, "header, two students, totals")
	assert.Equal(t, "Élève", sheet[0][0])
	assert.Equal(t, "Total", sheet[3][0])

	res = e.do(t, e.tok(t, constants.RoleParent), http.MethodGet, "/api/attendance-records/export?"+query, nil)
	assert.Equal(t, http.StatusForbidden, res.Status)
}

func mustClassroom(t *testing.T, e *env) *classroomModel.ClassroomModel {
	t.Helper()
	var c classroomModel.ClassroomModel
	require.NoError(t, e.app.DB.First(&c, "classroom_id = ?", e.classroomID).Error)
	return &c
}

func TestDashboardStats(t *testing.T) {
	e := setup(t)
	admin := e.tok(t, constants.RoleAdmin)

	for _, amount := range []int{50000, 20000} {
		res := e.do(t, admin, http.MethodPost, "/api/payments",
			map[string]any{"studentId": e.student.ID, "label": "Scolarité", "amount": amount})
		require.Equal(t, http.StatusCreated, res.Status, string(res.Raw))
		if amount == 20000 {
			res = e.do(t, admin, http.MethodPost, fmt.Sprintf("/api/payments/%s/mark-paid", res.Data()["id"]),
				map[string]any{"method": "CASH"})
			require.Equal(t, http.StatusOK, res.Status, string(res.Raw))
		}
	}

	res := e.do(t, e.tok(t, constants.RoleTeacher), http.MethodGet, "/api/dashboard/stats", nil)
	require.Equal(t, http.StatusOK, res.Status, string(res.Raw))
	stats := res.Data()
	assert.Equal(t, e.yearID.String(), stats["academicYearId"])
	assert.Equal(t, 1.0, stats["students"])
	assert.Equal(t, 1.0, stats["teachers"])
	assert.Equal(t, 1.0, stats["classrooms"])
	assert.Equal(t, 2.0, stats["subjects"])
	assert.Equal(t, 20000.0, stats["paymentsCollected"])
	assert.Equal(t, 50000.0, stats["paymentsPending"])
	assert.Equal(t, 0.0, stats["attendanceRateToday"])

	res = e.do(t, e.tok(t, constants.RoleParent), http.MethodGet, "/api/dashboard/stats", nil)
	assert.Equal(t, http.StatusForbidden, res.Status)

	require.NoError(t, e.app.DB.Model(&yearModel.AcademicYearModel{}).
		Where("academic_year_school_id = ?", e.schoolID).Update("academic_year_is_current", false).Error)
	res = e.do(t, admin, http.MethodGet, "/api/dashboard/stats", nil)
	require.Equal(t, http.StatusOK, res.Status, string(res.Raw))
	stats = res.Data()
	assert.Nil(t, stats["academicYearId"])
	assert.Equal(t, 0.0, stats["students"])
	assert.Equal(t, 0.0, stats["classrooms"])
	assert.Equal(t, 1.0, stats["teachers"], "school-wide counts do not depend on the year")
}

func TestTeacherAssessmentScope(t *testing.T) {
	e := setup(t)
	admin := e.tok(t, constants.RoleAdmin)
	teacher := e.tok(t, constants.RoleTeacher)
	other := testutil.Assessment(t, e.app.DB, mustClassroom(t, e), e.subject2ID, e.termID, 20)

	tests := []struct {
		name  string
		token string
		want  []string
	}{
		{"admin sees every assessment", admin, []string{e.assessmentID.String(), other.AssessmentID.String()}},
		{"teacher sees assigned pairs only", teacher, []string{e.assessmentID.String()}},
		{"teacher without profile sees nothing", testutil.Token(t, e.teacher2), nil},
		{"enrolled student sees the classroom", e.tok(t, constants.RoleStudent), []string{e.assessmentID.String(), other.AssessmentID.String()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := e.do(t, tt.token, http.MethodGet, "/api/assessments", nil)
			require.Equal(t, http.StatusOK, res.Status, string(res.Raw))
			got := []string{}
			for _, a := range res.List() {
				got = append(got, a.(map[string]any)["id"].(string))
			}
			assert.ElementsMatch(t, tt.want, got)
		})
	}

	body := func(subject uuid.UUID) map[string]any {
		return map[string]any{"subjectId": subject, "classroomId": e.classroomID, "termId": e.termID, "title": "Devoir 2", "type": "HOMEWORK"}
	}
	res := e.do(t, teacher, http.MethodPost, "/api/assessments", body(e.subject2ID))
	assert.Equal(t, http.StatusForbidden, res.Status, "subject not assigned")
	res = e.do(t, teacher, http.MethodPost, "/api/assessments", body(e.subjectID))
	assert.Equal(t, http.StatusCreated, res.Status, string(res.Raw))
	res = e.do(t, teacher, http.MethodPatch, "/api/assessments/"+other.AssessmentID.String(), map[string]any{"title": "Modifié"})
	assert.Equal(t, http.StatusForbidden, res.Status)
}
