package controller_test

import (
	"net/http"
	"testing"

	"schoolku_backend/internals/constants"
	userModel "schoolku_backend/internals/features/users/users/model"
	helperAuth "schoolku_backend/internals/helpers/auth"
	"schoolku_backend/internals/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	db := testutil.NewDB(t)
	app := testutil.NewApp(t, db)
	school := testutil.School(t, db, "École Alpha")
	testutil.SchoolUser(t, db, school.SchoolID, "prof@alpha.test", constants.RoleTeacher)
	inactive := testutil.User(t, db, "parti@alpha.test", constants.RoleUser)
	require.NoError(t, db.Model(inactive).Update("is_active", false).Error)

	tests := []struct {
		name     string
		email    string
		password string
		want     int
	}{
		{"valid credentials", " PROF@alpha.test", testutil.Password, fiber.StatusOK},
		{"wrong password", "prof@alpha.test", "nope", fiber.StatusUnauthorized},
		{"unknown email", "ghost@alpha.test", testutil.Password, fiber.StatusUnauthorized},
		{"inactive account", "parti@alpha.test", testutil.Password, fiber.StatusForbidden},
		{"malformed email", "prof", testutil.Password, fiber.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := app.Do(t, testutil.Request{Method: http.MethodPost, Path: "/api/auth/login",
				Body: map[string]any{"email": tt.email, "password": tt.password}})
			require.Equal(t, tt.want, res.Status, string(res.Raw))
			if tt.want == fiber.StatusOK {
				assert.NotEmpty(t, res.Data()["accessToken"])
				assert.Equal(t, "prof@alpha.test", res.Data()["user"].(map[string]any)["email"])
				assert.Contains(t, res.Header.Get(fiber.HeaderSetCookie), helperAuth.CookieAccessToken+"=")
			} else {
				assert.Equal(t, false, res.JSON["success"])
			}
		})
	}
}

func TestMeAndLogout(t *testing.T) {
	db := testutil.NewDB(t)
	app := testutil.NewApp(t, db)
	school := testutil.School(t, db, "École Alpha")
	testutil.SchoolUser(t, db, school.SchoolID, "prof@alpha.test", constants.RoleTeacher)

	res := app.Do(t, testutil.Request{Method: http.MethodPost, Path: "/api/auth/login",
		Body: map[string]any{"email": "prof@alpha.test", "password": testutil.Password}})
	require.Equal(t, fiber.StatusOK, res.Status)
	token := res.Data()["accessToken"].(string)

	res = app.Do(t, testutil.Request{Method: http.MethodGet, Path: "/api/auth/me", Token: token})
	require.Equal(t, fiber.StatusOK, res.Status)
	ms := res.Data()["memberships"].([]any)
	require.Len(t, ms, 1)
	assert.Equal(t, constants.RoleTeacher, ms[0].(map[string]any)["role"])
	assert.Equal(t, "ecole-alpha", ms[0].(map[string]any)["schoolSlug"])

	res = app.Do(t, testutil.Request{Method: http.MethodPost, Path: "/api/auth/logout", Token: token})
	require.Equal(t, fiber.StatusOK, res.Status)

	res = app.Do(t, testutil.Request{Method: http.MethodGet, Path: "/api/auth/me", Token: token})
	assert.Equal(t, fiber.StatusUnauthorized, res.Status)

	res = app.Do(t, testutil.Request{Method: http.MethodGet, Path: "/api/auth/me"})
	assert.Equal(t, fiber.StatusUnauthorized, res.Status)
	res = app.Do(t, testutil.Request{Method: http.MethodGet, Path: "/api/auth/me", Token: "not.a.jwt"})
	assert.Equal(t, fiber.StatusUnauthorized, res.Status)
}

func TestDeactivatedUserTokenIsRejected(t *testing.T) {
	db := testutil.NewDB(t)
	app := testutil.NewApp(t, db)
	u := testutil.User(t, db, "prof@alpha.test", constants.RoleUser)
	token := testutil.Token(t, u)

	require.NoError(t, db.Model(u).Update("is_active", false).Error)
	res := app.Do(t, testutil.Request{Method: http.MethodGet, Path: "/api/auth/me", Token: token})
	assert.Equal(t, fiber.StatusUnauthorized, res.Status)
}

func TestChangePassword(t *testing.T) {
	db := testutil.NewDB(t)
	app := testutil.NewApp(t, db)
	u := testutil.User(t, db, "prof@alpha.test", constants.RoleUser)
	token := testutil.Token(t, u)

	res := app.Do(t, testutil.Request{Method: http.MethodPatch, Path: "/api/auth/password", Token: token,
		Body: map[string]any{"currentPassword": "wrong", "newPassword": "nouveau-mdp-1"}})
	assert.Equal(t, fiber.StatusBadRequest, res.Status)

	res = app.Do(t, testutil.Request{Method: http.MethodPatch, Path: "/api/auth/password", Token: token,
		Body: map[string]any{"currentPassword": testutil.Password, "newPassword": "court"}})
	assert.Equal(t, fiber.StatusBadRequest, res.Status)

	res = app.Do(t, testutil.Request{Method: http.MethodPatch, Path: "/api/auth/password", Token: token,
		Body: map[string]any{"currentPassword": testutil.Password, "newPassword": "nouveau-mdp-1"}})
	require.Equal(t, fiber.StatusOK, res.Status, string(res.Raw))

	res = app.Do(t, testutil.Request{Method: http.MethodPost, Path: "/api/auth/login",
		Body: map[string]any{"email": "prof@alpha.test", "password": "nouveau-mdp-1"}})
	assert.Equal(t, fiber.StatusOK, res.Status)
}

func TestGoogleLogin(t *testing.T) {
	db := testutil.NewDB(t)
	app := testutil.NewApp(t, db)
	existing := testutil.User(t, db, "awa@gmail.test", constants.RoleUser)

	res := app.Do(t, testutil.Request{Method: http.MethodPost, Path: "/api/auth/google", Body: map[string]any{"idToken": "awa"}})
	require.Equal(t, fiber.StatusOK, res.Status, string(res.Raw))
	assert.Equal(t, existing.ID.String(), res.Data()["user"].(map[string]any)["id"])

	var linked userModel.UserModel
	require.NoError(t, db.First(&linked, "id = ?", existing.ID).Error)
	require.NotNil(t, linked.GoogleID)
	assert.Equal(t, "google-awa", *linked.GoogleID)

	res = app.Do(t, testutil.Request{Method: http.MethodPost, Path: "/api/auth/google", Body: map[string]any{"idToken": "moussa"}})
	require.Equal(t, fiber.StatusOK, res.Status)
	var created userModel.UserModel
	require.NoError(t, db.First(&created, "email = ?", "moussa@gmail.test").Error)
	assert.Equal(t, constants.RoleUser, created.Role)

	res = app.Do(t, testutil.Request{Method: http.MethodPost, Path: "/api/auth/google", Body: map[string]any{"idToken": "bad"}})
	assert.Equal(t, fiber.StatusUnauthorized, res.Status)
}
