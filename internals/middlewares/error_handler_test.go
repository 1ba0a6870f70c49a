package middlewares_test

import (
	"errors"
	"net/http/httptest"
	"testing"

	"schoolku_backend/internals/constants"
	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/middlewares"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingReporter struct{ n int }

func (r *recordingReporter) Error(error, map[string]interface{}) { r.n++ }
func (r *recordingReporter) Close()                              {}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantCode  int
		wantMsg   string
		wantErrCd string
		reported  bool
	}{
		{"client error passes through", fiber.NewError(fiber.StatusConflict, "Classe complète"), 409, "Classe complète", "CONFLICT", false},
		{"business 400", helper.BadRequest("date invalide"), 400, "date invalide", "BAD_REQUEST", false},
		{"gateway failure keeps its status", fiber.NewError(fiber.StatusBadGateway, "Passerelle indisponible"), 502, "Passerelle indisponible", "UPSTREAM_ERROR", true},
		{"gateway timeout", fiber.NewError(fiber.StatusGatewayTimeout, "Délai dépassé"), 504, "Délai dépassé", "UPSTREAM_ERROR", true},
		{"explicit 500 is masked", fiber.NewError(fiber.StatusInternalServerError, "pq: relation missing"), 500, constants.MsgServerError, "INTERNAL_ERROR", true},
		{"plain error is masked", errors.New("dial tcp: refused"), 500, constants.MsgServerError, "INTERNAL_ERROR", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recordingReporter{}
			app := fiber.New(middlewares.AppConfig(rec))
			app.Get("/", func(c *fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			var body map[string]any
			require.NoError(t, sonic.ConfigDefault.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.wantCode, resp.StatusCode)
			assert.Equal(t, tt.wantMsg, body["error"])
			assert.Equal(t, tt.wantErrCd, body["error_code"])
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.reported, rec.n == 1)
		})
	}
}
