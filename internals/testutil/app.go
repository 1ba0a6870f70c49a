package testutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"schoolku_backend/internals/configs"
	paymentModel "schoolku_backend/internals/features/finance/payments/model"
	paymentService "schoolku_backend/internals/features/finance/payments/service"
	authService "schoolku_backend/internals/features/users/auth/service"
	userModel "schoolku_backend/internals/features/users/users/model"
	helperAuth "schoolku_backend/internals/helpers/auth"
	"schoolku_backend/internals/helpers/storage"
	"schoolku_backend/internals/middlewares"
	routes "schoolku_backend/internals/route"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	Secret    = "test-jwt-secret"
	ServerKey = "SB-Mid-server-test"
)

// FakeGateway records the payments it was asked to check out.
type FakeGateway struct {
	Calls []paymentModel.Payment
	Err   error
}

func (g *FakeGateway) CreateCheckout(p paymentModel.Payment, _ paymentService.Customer) (*paymentService.Checkout, error) {
	g.Calls = append(g.Calls, p)
	if g.Err != nil {
		return nil, g.Err
	}
	return &paymentService.Checkout{
		Token:       "snap-token",
		RedirectURL: "https://app.sandbox.midtrans.com/snap/v2/vtweb/snap-token",
		OrderID:     *p.PaymentExternalID,
	}, nil
}

type fakeGoogle struct{}

func (fakeGoogle) Verify(idToken string) (authService.GoogleIdentity, error) {
	if idToken == "" || idToken == "bad" {
		return authService.GoogleIdentity{}, errors.New("invalid")
	}
	return authService.GoogleIdentity{Sub: "google-" + idToken, Email: idToken + "@gmail.test", Name: idToken}, nil
}

type App struct {
	*fiber.App
	DB      *gorm.DB
	Gateway *FakeGateway
	Store   *storage.LocalStore
}

// NewApp wires every route on db the way main does, with fakes for Google and Midtrans.
func NewApp(t *testing.T, db *gorm.DB) *App {
	t.Helper()
	configs.JWTSecret = Secret
	configs.JWTTTL = time.Hour
	configs.UploadDir = t.TempDir()

	gw := &FakeGateway{}
	store := storage.NewLocalStore(configs.UploadDir, "/uploads")
	app := fiber.New(middlewares.AppConfig(nil))
	routes.SetupRoutes(app, routes.Deps{
		DB:        db,
		Blacklist: helperAuth.NewBlacklist(db, nil, Secret),
		Google:    fakeGoogle{},
		Gateway:   gw,
		Store:     store,
		Secret:    Secret,
		ServerKey: ServerKey,
	})
	return &App{App: app, DB: db, Gateway: gw, Store: store}
}

func Token(t *testing.T, u *userModel.UserModel) string {
	t.Helper()
	tok, _, err := helperAuth.IssueAccessToken(Secret, time.Hour, u.ID, u.Email, u.Role)
	require.NoError(t, err)
	return tok
}

// Request describes one call; zero SchoolID sends no x-school-id.
type Request struct {
	Method   string
	Path     string
	Body     any
	Token    string
	SchoolID uuid.UUID
	Header   map[string]string
}

type Response struct {
	Status int
	Header http.Header
	Raw    []byte
	JSON   map[string]any
}

// Data returns the "data" member of the envelope as a map.
func (r *Response) Data() map[string]any {
	m, _ := r.JSON["data"].(map[string]any)
	return m
}

// List returns the "data" member of the envelope as a slice.
func (r *Response) List() []any {
	l, _ := r.JSON["data"].([]any)
	return l
}

func (a *App) Do(t *testing.T, r Request) *Response {
	t.Helper()
	var body io.Reader
	switch b := r.Body.(type) {
	case nil:
	case string:
		body = bytes.NewBufferString(b)
	case []byte:
		body = bytes.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(r.Method, r.Path, body)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if r.Token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+r.Token)
	}
	if r.SchoolID != uuid.Nil {
		req.Header.Set(helperAuth.HeaderSchoolID, r.SchoolID.String())
	}
	for k, v := range r.Header {
		req.Header.Set(k, v)
	}
	return a.Send(t, req)
}

// Send runs a prepared request (multipart uploads, cookies).
func (a *App) Send(t *testing.T, req *http.Request) *Response {
	t.Helper()
	resp, err := a.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := &Response{Status: resp.StatusCode, Header: resp.Header, Raw: raw}
	if len(raw) > 0 && raw[0] == '{' {
		_ = json.Unmarshal(raw, &out.JSON)
	}
	return out
}
