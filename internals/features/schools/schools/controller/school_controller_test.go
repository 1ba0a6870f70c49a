package controller_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"schoolku_backend/internals/constants"
	schoolModel "schoolku_backend/internals/features/schools/schools/model"
	"schoolku_backend/internals/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSchoolDerivesUniqueSlug(t *testing.T) {
	db := testutil.NewDB(t)
	app := testutil.NewApp(t, db)
	testutil.School(t, db, "École Alpha")
	super := testutil.Token(t, testutil.User(t, db, "root@schoolku.test", constants.RoleSuperAdmin))

	res := app.Do(t, testutil.Request{Method: http.MethodPost, Path: "/api/schools", Token: super,
		Body: map[string]any{"name": "  École Alpha ", "settings": map[string]any{"gradingScale": 20, "passingMark": 10}}})
	require.Equal(t, fiber.StatusCreated, res.Status, string(res.Raw))
	assert.Equal(t, "ecole-alpha-2", res.Data()["slug"])
	assert.Equal(t, "École Alpha", res.Data()["name"])

	res = app.Do(t, testutil.Request{Method: http.MethodPost, Path: "/api/schools", Token: super,
		Body: map[string]any{"name": "Lycée Sainte-Thérèse"}})
	require.Equal(t, fiber.StatusCreated, res.Status)
	assert.Equal(t, "lycee-sainte-therese", res.Data()["slug"])

	res = app.Do(t, testutil.Request{Method: http.MethodPost, Path: "/api/schools", Token: super,
		Body: map[string]any{"name": "Bêta", "settings": map[string]any{"gradingScale": 20, "passingMark": 25}}})
	assert.Equal(t, fiber.StatusBadRequest, res.Status)

	user := testutil.Token(t, testutil.User(t, db, "someone@schoolku.test", constants.RoleUser))
	res = app.Do(t, testutil.Request{Method: http.MethodPost, Path: "/api/schools", Token: user,
		Body: map[string]any{"name": "Gamma"}})
	assert.Equal(t, fiber.StatusForbidden, res.Status)
}

func TestListSchoolsScopedToMemberships(t *testing.T) {
	db := testutil.NewDB(t)
	app := testutil.NewApp(t, db)
	alpha := testutil.School(t, db, "École Alpha")
	testutil.School(t, db, "École Beta")
	teacher := testutil.SchoolUser(t, db, alpha.SchoolID, "prof@alpha.test", constants.RoleTeacher)
	super := testutil.User(t, db, "root@schoolku.test", constants.RoleSuperAdmin)

	res := app.Do(t, testutil.Request{Method: http.MethodGet, Path: "/api/schools", Token: testutil.Token(t, teacher)})
	require.Equal(t, fiber.StatusOK, res.Status)
	require.Len(t, res.List(), 1)
	item := res.List()[0].(map[string]any)
	assert.Equal(t, alpha.SchoolID.String(), item["id"])
	assert.Equal(t, constants.RoleTeacher, item["myRole"])

	res = app.Do(t, testutil.Request{Method: http.MethodGet, Path: "/api/schools?q=beta", Token: testutil.Token(t, super)})
	require.Equal(t, fiber.StatusOK, res.Status)
	assert.Len(t, res.List(), 1)
}

func TestGetAndUpdateSchool(t *testing.T) {
	db := testutil.NewDB(t)
	app := testutil.NewApp(t, db)
	alpha := testutil.School(t, db, "École Alpha")
	beta := testutil.School(t, db, "École Beta")
	admin := testutil.Token(t, testutil.SchoolUser(t, db, alpha.SchoolID, "admin@alpha.test", constants.RoleAdmin))
	teacher := testutil.Token(t, testutil.SchoolUser(t, db, alpha.SchoolID, "prof@alpha.test", constants.RoleTeacher))

	res := app.Do(t, testutil.Request{Method: http.MethodGet, Path: "/api/schools/" + alpha.SchoolID.String(), Token: teacher})
	require.Equal(t, fiber.StatusOK, res.Status)
	assert.Len(t, res.Data()["members"], 2)
	assert.Equal(t, 20.0, res.Data()["settings"].(map[string]any)["gradingScale"])

	res = app.Do(t, testutil.Request{Method: http.MethodGet, Path: "/api/schools/" + beta.SchoolID.String(), Token: teacher})
	assert.Equal(t, fiber.StatusForbidden, res.Status)

	res = app.Do(t, testutil.Request{Method: http.MethodPatch, Path: "/api/schools/" + alpha.SchoolID.String(), Token: teacher,
		Body: map[string]any{"name": "Autre"}})
	assert.Equal(t, fiber.StatusForbidden, res.Status)

	res = app.Do(t, testutil.Request{Method: http.MethodPatch, Path: "/api/schools/" + alpha.SchoolID.String(), Token: admin,
		Body: map[string]any{"name": "École Alpha Renommée", "settings": map[string]any{"currency": "eur"}}})
	require.Equal(t, fiber.StatusOK, res.Status, string(res.Raw))

	var got schoolModel.SchoolModel
	require.NoError(t, db.First(&got, "school_id = ?", alpha.SchoolID).Error)
	assert.Equal(t, "École Alpha Renommée", got.SchoolName)
	assert.Equal(t, "ecole-alpha", got.SchoolSlug)
	assert.Equal(t, "EUR", got.Settings().Currency)
}

func TestDeleteAndRestoreSchool(t *testing.T) {
	db := testutil.NewDB(t)
	app := testutil.NewApp(t, db)
	alpha := testutil.School(t, db, "École Alpha")
	super := testutil.Token(t, testutil.User(t, db, "root@schoolku.test", constants.RoleSuperAdmin))
	path := "/api/schools/" + alpha.SchoolID.String()

	res := app.Do(t, testutil.Request{Method: http.MethodPost, Path: path + "/restore", Token: super})
	assert.Equal(t, fiber.StatusConflict, res.Status)

	res = app.Do(t, testutil.Request{Method: http.MethodDelete, Path: path, Token: super})
	require.Equal(t, fiber.StatusOK, res.Status)

	res = app.Do(t, testutil.Request{Method: http.MethodGet, Path: path, Token: super})
	assert.Equal(t, fiber.StatusNotFound, res.Status)

	// the slug stays reserved while the school is in the trash
	res = app.Do(t, testutil.Request{Method: http.MethodPost, Path: "/api/schools", Token: super,
		Body: map[string]any{"name": "École Alpha"}})
	require.Equal(t, fiber.StatusCreated, res.Status)
	assert.Equal(t, "ecole-alpha-2", res.Data()["slug"])

	res = app.Do(t, testutil.Request{Method: http.MethodPost, Path: path + "/restore", Token: super})
	require.Equal(t, fiber.StatusOK, res.Status)
	res = app.Do(t, testutil.Request{Method: http.MethodGet, Path: path, Token: super})
	assert.Equal(t, fiber.StatusOK, res.Status)
}

func logoRequest(t *testing.T, path, token, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	return req
}

func TestUploadLogo(t *testing.T) {
	db := testutil.NewDB(t)
	app := testutil.NewApp(t, db)
	alpha := testutil.School(t, db, "École Alpha")
	admin := testutil.Token(t, testutil.SchoolUser(t, db, alpha.SchoolID, "admin@alpha.test", constants.RoleAdmin))
	path := "/api/schools/" + alpha.SchoolID.String() + "/logo"

	img := image.NewRGBA(image.Rect(0, 0, 1200, 600))
	img.Set(10, 10, color.RGBA{G: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	res := app.Send(t, logoRequest(t, path, admin, "logo.png", buf.Bytes()))
	require.Equal(t, fiber.StatusOK, res.Status, string(res.Raw))
	url, _ := res.Data()["logoUrl"].(string)
	require.True(t, strings.HasPrefix(url, "/uploads/schools/"+alpha.SchoolID.String()+"/"), url)

	stored, err := os.ReadFile(filepath.Join(app.Store.Dir, filepath.FromSlash(strings.TrimPrefix(url, "/uploads/"))))
	require.NoError(t, err)
	cfg, err := png.DecodeConfig(bytes.NewReader(stored))
	require.NoError(t, err)
	assert.Equal(t, 512, cfg.Width)
	assert.Equal(t, 256, cfg.Height)

	res = app.Send(t, logoRequest(t, path, admin, "logo.svg", []byte("<svg/>")))
	assert.Equal(t, fiber.StatusUnsupportedMediaType, res.Status)

	res = app.Send(t, logoRequest(t, path, admin, "logo.png", []byte("pas une image")))
	assert.Equal(t, fiber.StatusBadRequest, res.Status)

	other := testutil.Token(t, testutil.SchoolUser(t, db, alpha.SchoolID, "prof@alpha.test", constants.RoleTeacher))
	res = app.Send(t, logoRequest(t, path, other, "logo.png", buf.Bytes()))
	assert.Equal(t, fiber.StatusForbidden, res.Status)
}
