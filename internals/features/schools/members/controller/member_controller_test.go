package controller_test

import (
	"net/http"
	"testing"

	"schoolku_backend/internals/constants"
	memberModel "schoolku_backend/internals/features/schools/members/model"
	userModel "schoolku_backend/internals/features/users/users/model"
	"schoolku_backend/internals/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	app      *testutil.App
	db       *gorm.DB
	schoolID uuid.UUID
	admin    *userModel.UserModel
	token    string
}

func newFixture(t *testing.T) *fixture {
	db := testutil.NewDB(t)
	school := testutil.School(t, db, "École Alpha")
	admin := testutil.SchoolUser(t, db, school.SchoolID, "admin@alpha.test", constants.RoleAdmin)
	return &fixture{
		app:      testutil.NewApp(t, db),
		db:       db,
		schoolID: school.SchoolID,
		admin:    admin,
		token:    testutil.Token(t, admin),
	}
}

func (f *fixture) do(t *testing.T, method, path string, body any) *testutil.Response {
	return f.app.Do(t, testutil.Request{Method: method, Path: path, Body: body, Token: f.token, SchoolID: f.schoolID})
}

func (f *fixture) membership(t *testing.T, userID uuid.UUID) memberModel.UserSchoolModel {
	t.Helper()
	var m memberModel.UserSchoolModel
	require.NoError(t, f.db.Where("user_school_user_id = ? AND user_school_school_id = ?", userID, f.schoolID).Take(&m).Error)
	return m
}

func TestCreateMember(t *testing.T) {
	f := newFixture(t)
	existing := testutil.User(t, f.db, "existing@alpha.test", constants.RoleUser)

	t.Run("existing user by id", func(t *testing.T) {
		res := f.do(t, http.MethodPost, "/api/school-members", map[string]any{"userId": existing.ID, "role": "teacher"})
		require.Equal(t, fiber.StatusCreated, res.Status, string(res.Raw))
		assert.Equal(t, constants.RoleTeacher, res.Data()["role"])
		assert.Equal(t, existing.ID.String(), res.Data()["userId"])
	})

	t.Run("same user twice conflicts", func(t *testing.T) {
		res := f.do(t, http.MethodPost, "/api/school-members", map[string]any{"email": "EXISTING@alpha.test", "role": "PARENT"})
		assert.Equal(t, fiber.StatusConflict, res.Status)
	})

	t.Run("unknown email without identity", func(t *testing.T) {
		res := f.do(t, http.MethodPost, "/api/school-members", map[string]any{"email": "ghost@alpha.test", "role": "STUDENT"})
		assert.Equal(t, fiber.StatusNotFound, res.Status)
	})

	t.Run("unknown email creates the account", func(t *testing.T) {
		res := f.do(t, http.MethodPost, "/api/school-members", map[string]any{
			"email": " Eleve@Alpha.test ", "role": "STUDENT", "fullName": "Awa Diop", "password": "motdepasse1",
		})
		require.Equal(t, fiber.StatusCreated, res.Status, string(res.Raw))
		assert.Equal(t, "eleve@alpha.test", res.Data()["email"])

		var u userModel.UserModel
		require.NoError(t, f.db.Where("email = ?", "eleve@alpha.test").Take(&u).Error)
		assert.Equal(t, constants.RoleUser, u.Role)
		assert.NotEqual(t, "motdepasse1", u.PasswordHash)
	})

	t.Run("invalid role", func(t *testing.T) {
		res := f.do(t, http.MethodPost, "/api/school-members", map[string]any{"userId": existing.ID, "role": "SUPER_ADMIN"})
		assert.Equal(t, fiber.StatusBadRequest, res.Status)
	})
}

func TestListMembersFilters(t *testing.T) {
	f := newFixture(t)
	testutil.SchoolUser(t, f.db, f.schoolID, "prof@alpha.test", constants.RoleTeacher)
	testutil.SchoolUser(t, f.db, f.schoolID, "eleve@alpha.test", constants.RoleStudent)

	res := f.do(t, http.MethodGet, "/api/school-members?role=teacher", nil)
	require.Equal(t, fiber.StatusOK, res.Status)
	require.Len(t, res.List(), 1)
	assert.Equal(t, "prof@alpha.test", res.List()[0].(map[string]any)["email"])

	res = f.do(t, http.MethodGet, "/api/school-members?q=ELEVE", nil)
	require.Equal(t, fiber.StatusOK, res.Status)
	assert.Len(t, res.List(), 1)

	teacher := testutil.SchoolUser(t, f.db, f.schoolID, "prof2@alpha.test", constants.RoleTeacher)
	res = f.app.Do(t, testutil.Request{Method: http.MethodGet, Path: "/api/school-members", Token: testutil.Token(t, teacher), SchoolID: f.schoolID})
	assert.Equal(t, fiber.StatusForbidden, res.Status)
}

func TestLastAdminIsProtected(t *testing.T) {
	f := newFixture(t)
	own := f.membership(t, f.admin.ID)
	path := "/api/school-members/" + own.UserSchoolID.String()

	res := f.do(t, http.MethodPatch, path, map[string]any{"role": "TEACHER"})
	assert.Equal(t, fiber.StatusConflict, res.Status)
	res = f.do(t, http.MethodDelete, path, nil)
	assert.Equal(t, fiber.StatusConflict, res.Status)

	second := testutil.SchoolUser(t, f.db, f.schoolID, "admin2@alpha.test", constants.RoleAdmin)
	res = f.do(t, http.MethodPatch, path, map[string]any{"role": "TEACHER"})
	require.Equal(t, fiber.StatusOK, res.Status, string(res.Raw))
	assert.Equal(t, constants.RoleTeacher, f.membership(t, f.admin.ID).UserSchoolRole)

	// second admin is alone again and cannot leave
	m2 := f.membership(t, second.ID)
	res = f.app.Do(t, testutil.Request{Method: http.MethodDelete, Path: "/api/school-members/" + m2.UserSchoolID.String(),
		Token: testutil.Token(t, second), SchoolID: f.schoolID})
	assert.Equal(t, fiber.StatusConflict, res.Status)
}

func TestMemberOfOtherSchoolIsNotFound(t *testing.T) {
	f := newFixture(t)
	other := testutil.School(t, f.db, "École Beta")
	foreign := testutil.SchoolUser(t, f.db, other.SchoolID, "prof@beta.test", constants.RoleTeacher)

	var m memberModel.UserSchoolModel
	require.NoError(t, f.db.Where("user_school_user_id = ?", foreign.ID).Take(&m).Error)

	res := f.do(t, http.MethodDelete, "/api/school-members/"+m.UserSchoolID.String(), nil)
	assert.Equal(t, fiber.StatusNotFound, res.Status)
	res = f.do(t, http.MethodPatch, "/api/school-members/"+m.UserSchoolID.String(), map[string]any{"role": "ADMIN"})
	assert.Equal(t, fiber.StatusNotFound, res.Status)
}
