package routes_test

import (
	"net/http"
	"testing"

	"schoolku_backend/internals/constants"
	teacherProfileModel "schoolku_backend/internals/features/school/teachers/teacher_profiles/model"
	userModel "schoolku_backend/internals/features/users/users/model"
	"schoolku_backend/internals/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type env struct {
	app *testutil.App

	schoolID uuid.UUID
	yearID   uuid.UUID
	termID   uuid.UUID

	classroomID  uuid.UUID
	subjectID    uuid.UUID
	subject2ID   uuid.UUID
	teacherProf  *teacherProfileModel.TeacherProfileModel
	parentProfID uuid.UUID
	assessmentID uuid.UUID

	admin, teacher, teacher2, parent, parent2, student, student2 *userModel.UserModel
}

func (e *env) tok(t *testing.T, role string) string {
	switch role {
	case constants.RoleAdmin:
		return testutil.Token(t, e.admin)
	case constants.RoleTeacher:
		return testutil.Token(t, e.teacher)
	case constants.RoleParent:
		return testutil.Token(t, e.parent)
	default:
		return testutil.Token(t, e.student)
	}
}

func setup(t *testing.T) *env {
	db := testutil.NewDB(t)
	e := &env{app: testutil.NewApp(t, db)}

	school := testutil.School(t, db, "École Alpha")
	e.schoolID = school.SchoolID
	e.admin = testutil.SchoolUser(t, db, e.schoolID, "admin@alpha.test", constants.RoleAdmin)
	e.teacher = testutil.SchoolUser(t, db, e.schoolID, "teacher@alpha.test", constants.RoleTeacher)
	e.teacher2 = testutil.SchoolUser(t, db, e.schoolID, "teacher2@alpha.test", constants.RoleTeacher)
	e.parent = testutil.SchoolUser(t, db, e.schoolID, "parent@alpha.test", constants.RoleParent)
	e.parent2 = testutil.SchoolUser(t, db, e.schoolID, "parent2@alpha.test", constants.RoleParent)
	e.student = testutil.SchoolUser(t, db, e.schoolID, "student@alpha.test", constants.RoleStudent)
	e.student2 = testutil.SchoolUser(t, db, e.schoolID, "student2@alpha.test", constants.RoleStudent)

	year := testutil.Year(t, db, e.schoolID, "2025-2026", true)
	e.yearID = year.AcademicYearID
	e.termID = testutil.Term(t, db, year, "Trimestre 1", 1).AcademicTermID
	classroom := testutil.Classroom(t, db, year, "6e A")
	e.classroomID = classroom.ClassroomID
	e.subjectID = testutil.Subject(t, db, e.schoolID, "Mathématiques", 4).SubjectID
	e.subject2ID = testutil.Subject(t, db, e.schoolID, "Français", 3).SubjectID

	e.teacherProf = testutil.TeacherProfile(t, db, e.schoolID, e.teacher.ID)
	testutil.Assign(t, db, e.teacherProf.TeacherProfileID, classroom, e.subjectID)
	testutil.Enroll(t, db, e.student.ID, classroom)
	e.parentProfID = testutil.LinkParent(t, db, e.schoolID, e.parent.ID, e.student.ID).ParentProfileID
	e.assessmentID = testutil.Assessment(t, db, classroom, e.subjectID, e.termID, 20).AssessmentID
	return e
}

type contractCase struct {
	path   string
	body   func(e *env) map[string]any
	denied string
}

var contractCases = []contractCase{
	{"/api/academic-years", func(e *env) map[string]any {
		return map[string]any{"name": "2026-2027", "startDate": "2026-09-01", "endDate": "2027-07-01"}
	}, constants.RoleTeacher},
	{"/api/terms", func(e *env) map[string]any {
		return map[string]any{"academicYearId": e.yearID, "name": "Trimestre 2", "order": 2, "startDate": "2026-01-05", "endDate": "2026-03-27"}
	}, constants.RoleTeacher},
	{"/api/grade-levels", func(e *env) map[string]any {
		return map[string]any{"name": "CM2", "order": 5}
	}, constants.RoleParent},
	{"/api/subject-categories", func(e *env) map[string]any {
		return map[string]any{"name": "Sciences"}
	}, constants.RoleTeacher},
	{"/api/subjects", func(e *env) map[string]any {
		return map[string]any{"name": "Physique", "code": "PC", "coefficient": 2}
	}, constants.RoleStudent},
	{"/api/classrooms", func(e *env) map[string]any {
		return map[string]any{"name": "6e B", "academicYearId": e.yearID, "capacity": 30}
	}, constants.RoleTeacher},
	{"/api/enrollments", func(e *env) map[string]any {
		return map[string]any{"studentId": e.student2.ID, "classroomId": e.classroomID}
	}, constants.RoleTeacher},
	{"/api/teacher-profiles", func(e *env) map[string]any {
		return map[string]any{"userId": e.teacher2.ID, "specialty": "Français"}
	}, constants.RoleTeacher},
	{"/api/teacher-assignments", func(e *env) map[string]any {
		return map[string]any{"teacherId": e.teacherProf.TeacherProfileID, "classroomId": e.classroomID, "subjectId": e.subject2ID}
	}, constants.RoleTeacher},
	{"/api/parent-profiles", func(e *env) map[string]any {
		return map[string]any{"userId": e.parent2.ID, "phone": "+221770000000"}
	}, constants.RoleParent},
	{"/api/parent-students", func(e *env) map[string]any {
		return map[string]any{"parentId": e.parentProfID, "studentId": e.student2.ID, "relationship": "MOTHER"}
	}, constants.RoleParent},
	{"/api/assessment-types", func(e *env) map[string]any {
		return map[string]any{"name": "Oral", "weight": 1}
	}, constants.RoleTeacher},
	{"/api/assessments", func(e *env) map[string]any {
		return map[string]any{"subjectId": e.subjectID, "classroomId": e.classroomID, "termId": e.termID, "title": "Devoir 1", "type": "HOMEWORK"}
	}, constants.RoleStudent},
	{"/api/student-grades", func(e *env) map[string]any {
		return map[string]any{"assessmentId": e.assessmentID, "studentId": e.student.ID, "score": 12.5}
	}, constants.RoleParent},
	{"/api/attendance-records", func(e *env) map[string]any {
		return map[string]any{"studentId": e.student.ID, "classroomId": e.classroomID, "date": "2025-10-01", "status": "PRESENT"}
	}, constants.RoleParent},
	{"/api/timetable-entries", func(e *env) map[string]any {
		return map[string]any{"classroomId": e.classroomID, "subjectId": e.subjectID, "teacherId": e.teacherProf.TeacherProfileID, "dayOfWeek": 1, "startTime": "08:00", "endTime": "09:00"}
	}, constants.RoleTeacher},
	{"/api/payments", func(e *env) map[string]any {
		return map[string]any{"studentId": e.student.ID, "label": "Frais de scolarité", "amount": 50000}
	}, constants.RoleTeacher},
	{"/api/school-members", func(e *env) map[string]any {
		return map[string]any{"email": "nouveau@alpha.test", "role": "TEACHER", "fullName": "Nouveau Prof", "password": "password123"}
	}, constants.RoleTeacher},
}

func TestResourceContract(t *testing.T) {
	for _, tc := range contractCases {
		t.Run(tc.path, func(t *testing.T) {
			e := setup(t)
			admin := e.tok(t, constants.RoleAdmin)

			res := e.app.Do(t, testutil.Request{Method: http.MethodGet, Path: tc.path, Token: admin, SchoolID: e.schoolID})
			require.Equal(t, http.StatusOK, res.Status, string(res.Raw))
			assert.Equal(t, true, res.JSON["success"])
			assert.NotNil(t, res.JSON["pagination"])

			res = e.app.Do(t, testutil.Request{Method: http.MethodPost, Path: tc.path, Body: map[string]any{}, Token: admin, SchoolID: e.schoolID})
			assert.Equal(t, http.StatusBadRequest, res.Status, string(res.Raw))
			assert.Equal(t, false, res.JSON["success"])

			denied := e.tok(t, tc.denied)
			for _, body := range []any{map[string]any{}, tc.body(e)} {
				res = e.app.Do(t, testutil.Request{Method: http.MethodPost, Path: tc.path, Body: body, Token: denied, SchoolID: e.schoolID})
				assert.Equal(t, http.StatusForbidden, res.Status, string(res.Raw))
			}

			res = e.app.Do(t, testutil.Request{Method: http.MethodPost, Path: tc.path, Body: tc.body(e), Token: admin, SchoolID: e.schoolID})
			require.Equal(t, http.StatusCreated, res.Status, string(res.Raw))
			assert.NotEmpty(t, res.Data()["id"])
		})
	}
}

func TestTenancyIsolation(t *testing.T) {
	e := setup(t)
	other := testutil.School(t, e.app.DB, "École Beta")
	testutil.Member(t, e.app.DB, e.admin.ID, other.SchoolID, constants.RoleAdmin)
	admin := e.tok(t, constants.RoleAdmin)

	paths := []string{
		"/api/classrooms/" + e.classroomID.String(),
		"/api/subjects/" + e.subjectID.String(),
		"/api/academic-years/" + e.yearID.String(),
		"/api/terms/" + e.termID.String(),
		"/api/assessments/" + e.assessmentID.String(),
		"/api/teacher-profiles/" + e.teacherProf.TeacherProfileID.String(),
	}
	for _, p := range paths {
		res := e.app.Do(t, testutil.Request{Method: http.MethodGet, Path: p, Token: admin, SchoolID: e.schoolID})
		assert.Equal(t, http.StatusOK, res.Status, p)

		res = e.app.Do(t, testutil.Request{Method: http.MethodGet, Path: p, Token: admin, SchoolID: other.SchoolID})
		assert.Equal(t, http.StatusNotFound, res.Status, p)
	}
}

func TestSchoolScopeErrors(t *testing.T) {
	e := setup(t)
	admin := e.tok(t, constants.RoleAdmin)
	outsider := testutil.User(t, e.app.DB, "outsider@x.test", constants.RoleUser)
	super := testutil.User(t, e.app.DB, "root@x.test", constants.RoleSuperAdmin)

	tests := []struct {
		name     string
		token    string
		schoolID uuid.UUID
		header   map[string]string
		want     int
	}{
		{name: "no token", schoolID: e.schoolID, want: http.StatusUnauthorized},
		{name: "garbage token", token: "nope", schoolID: e.schoolID, want: http.StatusUnauthorized},
		{name: "missing school", token: admin, want: http.StatusBadRequest},
		{name: "malformed school", token: admin, header: map[string]string{"x-school-id": "abc"}, want: http.StatusBadRequest},
		{name: "unknown school", token: admin, schoolID: uuid.New(), want: http.StatusNotFound},
		{name: "not a member", token: testutil.Token(t, outsider), schoolID: e.schoolID, want: http.StatusForbidden},
		{name: "super admin bypass", token: testutil.Token(t, super), schoolID: e.schoolID, want: http.StatusOK},
		{name: "member", token: admin, schoolID: e.schoolID, want: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := e.app.Do(t, testutil.Request{Method: http.MethodGet, Path: "/api/classrooms", Token: tt.token, SchoolID: tt.schoolID, Header: tt.header})
			assert.Equal(t, tt.want, res.Status, string(res.Raw))
		})
	}
}

func TestServerErrorIsMasked(t *testing.T) {
	e := setup(t)
	sqlDB, err := e.app.DB.DB()
	require.NoError(t, err)
	admin := e.tok(t, constants.RoleAdmin)
	require.NoError(t, sqlDB.Close())

	res := e.app.Do(t, testutil.Request{Method: http.MethodGet, Path: "/api/classrooms", Token: admin, SchoolID: e.schoolID})
	assert.Equal(t, http.StatusInternalServerError, res.Status)
	assert.Equal(t, constants.MsgServerError, res.JSON["error"])
	assert.Equal(t, "INTERNAL_ERROR", res.JSON["error_code"])
}

func TestHealth(t *testing.T) {
	e := setup(t)
	res := e.app.Do(t, testutil.Request{Method: http.MethodGet, Path: "/health"})
	assert.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, "OK", res.JSON["status"])
}
