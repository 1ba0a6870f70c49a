package controller_test

import (
	"net/http"
	"testing"

	"schoolku_backend/internals/constants"
	helperAuth "schoolku_backend/internals/helpers/auth"
	"schoolku_backend/internals/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cookies(res *testutil.Response) map[string]string {
	out := map[string]string{}
	for _, ck := range (&http.Response{Header: res.Header}).Cookies() {
		out[ck.Name] = ck.Value
	}
	return out
}

func TestSwitchSchoolSetsCookies(t *testing.T) {
	db := testutil.NewDB(t)
	app := testutil.NewApp(t, db)
	alpha := testutil.School(t, db, "École Alpha")
	beta := testutil.School(t, db, "École Beta")
	gamma := testutil.School(t, db, "École Gamma")
	user := testutil.SchoolUser(t, db, alpha.SchoolID, "prof@alpha.test", constants.RoleTeacher)
	testutil.Member(t, db, user.ID, beta.SchoolID, constants.RoleParent)
	alphaYear := testutil.Year(t, db, alpha.SchoolID, "2025-2026", true)
	token := testutil.Token(t, user)

	res := app.Do(t, testutil.Request{Method: http.MethodPost, Path: "/api/context/school", Token: token,
		Body: map[string]any{"schoolId": alpha.SchoolID}})
	require.Equal(t, fiber.StatusOK, res.Status, string(res.Raw))
	ck := cookies(res)
	assert.Equal(t, alpha.SchoolID.String(), ck[helperAuth.CookieActiveSchool])
	assert.Equal(t, alphaYear.AcademicYearID.String(), ck[helperAuth.CookieActiveYear])
	assert.Equal(t, constants.RoleTeacher, res.Data()["school"].(map[string]any)["role"])
	assert.Len(t, res.Data()["memberships"], 2)

	// the alpha year cookie does not belong to beta and is cleared
	res = app.Do(t, testutil.Request{Method: http.MethodPost, Path: "/api/context/school", Token: token,
		Body:   map[string]any{"schoolId": beta.SchoolID},
		Header: map[string]string{"Cookie": helperAuth.CookieActiveYear + "=" + alphaYear.AcademicYearID.String()}})
	require.Equal(t, fiber.StatusOK, res.Status)
	ck = cookies(res)
	assert.Equal(t, beta.SchoolID.String(), ck[helperAuth.CookieActiveSchool])
	assert.Equal(t, "", ck[helperAuth.CookieActiveYear])
	assert.Nil(t, res.Data()["academicYear"])

	res = app.Do(t, testutil.Request{Method: http.MethodPost, Path: "/api/context/school", Token: token,
		Body: map[string]any{"schoolId": gamma.SchoolID}})
	assert.Equal(t, fiber.StatusForbidden, res.Status)

	res = app.Do(t, testutil.Request{Method: http.MethodPost, Path: "/api/context/school", Token: token,
		Body: map[string]any{}})
	assert.Equal(t, fiber.StatusBadRequest, res.Status)
}

func TestSwitchYear(t *testing.T) {
	db := testutil.NewDB(t)
	app := testutil.NewApp(t, db)
	alpha := testutil.School(t, db, "École Alpha")
	beta := testutil.School(t, db, "École Beta")
	user := testutil.SchoolUser(t, db, alpha.SchoolID, "admin@alpha.test", constants.RoleAdmin)
	testutil.Year(t, db, alpha.SchoolID, "2025-2026", true)
	past := testutil.Year(t, db, alpha.SchoolID, "2024-2025", false)
	foreign := testutil.Year(t, db, beta.SchoolID, "2025-2026", true)
	token := testutil.Token(t, user)

	res := app.Do(t, testutil.Request{Method: http.MethodPost, Path: "/api/context/academic-year", Token: token,
		Body: map[string]any{"academicYearId": past.AcademicYearID}})
	assert.Equal(t, fiber.StatusBadRequest, res.Status, "no school in context")

	res = app.Do(t, testutil.Request{Method: http.MethodPost, Path: "/api/context/academic-year", Token: token,
		SchoolID: alpha.SchoolID, Body: map[string]any{"academicYearId": past.AcademicYearID}})
	require.Equal(t, fiber.StatusOK, res.Status, string(res.Raw))
	assert.Equal(t, past.AcademicYearID.String(), cookies(res)[helperAuth.CookieActiveYear])
	assert.Equal(t, "2024-2025", res.Data()["academicYear"].(map[string]any)["name"])

	res = app.Do(t, testutil.Request{Method: http.MethodPost, Path: "/api/context/academic-year", Token: token,
		Header: map[string]string{"Cookie": helperAuth.CookieActiveSchool + "=" + alpha.SchoolID.String()},
		Body:   map[string]any{"academicYearId": foreign.AcademicYearID}})
	assert.Equal(t, fiber.StatusNotFound, res.Status)
}

func TestGetAndClearContext(t *testing.T) {
	db := testutil.NewDB(t)
	app := testutil.NewApp(t, db)
	alpha := testutil.School(t, db, "École Alpha")
	beta := testutil.School(t, db, "École Beta")
	user := testutil.SchoolUser(t, db, alpha.SchoolID, "eleve@alpha.test", constants.RoleStudent)
	year := testutil.Year(t, db, alpha.SchoolID, "2025-2026", true)
	token := testutil.Token(t, user)

	res := app.Do(t, testutil.Request{Method: http.MethodGet, Path: "/api/context", Token: token,
		Header: map[string]string{"Cookie": helperAuth.CookieActiveSchool + "=" + alpha.SchoolID.String() +
			"; " + helperAuth.CookieActiveYear + "=" + year.AcademicYearID.String()}})
	require.Equal(t, fiber.StatusOK, res.Status)
	assert.Equal(t, alpha.SchoolID.String(), res.Data()["school"].(map[string]any)["id"])
	assert.Equal(t, year.AcademicYearID.String(), res.Data()["academicYear"].(map[string]any)["id"])

	// a cookie for a school the user left resolves to null
	res = app.Do(t, testutil.Request{Method: http.MethodGet, Path: "/api/context", Token: token,
		Header: map[string]string{"Cookie": helperAuth.CookieActiveSchool + "=" + beta.SchoolID.String()}})
	require.Equal(t, fiber.StatusOK, res.Status)
	assert.Nil(t, res.Data()["school"])

	res = app.Do(t, testutil.Request{Method: http.MethodDelete, Path: "/api/context", Token: token})
	require.Equal(t, fiber.StatusOK, res.Status)
	ck := cookies(res)
	assert.Contains(t, ck, helperAuth.CookieActiveSchool)
	assert.Equal(t, "", ck[helperAuth.CookieActiveSchool])

	res = app.Do(t, testutil.Request{Method: http.MethodGet, Path: "/api/context"})
	assert.Equal(t, fiber.StatusUnauthorized, res.Status)
}
