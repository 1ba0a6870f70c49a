package controller_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"schoolku_backend/internals/constants"
	"schoolku_backend/internals/features/finance/payments/model"
	"schoolku_backend/internals/features/finance/payments/service"
	userModel "schoolku_backend/internals/features/users/users/model"
	"schoolku_backend/internals/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	app      *testutil.App
	schoolID uuid.UUID
	admin    *userModel.UserModel
	parent   *userModel.UserModel
	student  *userModel.UserModel
	other    *userModel.UserModel
}

func newFixture(t *testing.T) *fixture {
	db := testutil.NewDB(t)
	school := testutil.School(t, db, "École Alpha")
	f := &fixture{app: testutil.NewApp(t, db), schoolID: school.SchoolID}
	f.admin = testutil.SchoolUser(t, db, f.schoolID, "admin@alpha.test", constants.RoleAdmin)
	f.parent = testutil.SchoolUser(t, db, f.schoolID, "parent@alpha.test", constants.RoleParent)
	f.student = testutil.SchoolUser(t, db, f.schoolID, "eleve@alpha.test", constants.RoleStudent)
	f.other = testutil.SchoolUser(t, db, f.schoolID, "eleve2@alpha.test", constants.RoleStudent)
	testutil.LinkParent(t, db, f.schoolID, f.parent.ID, f.student.ID)
	return f
}

func (f *fixture) do(t *testing.T, u *userModel.UserModel, method, path string, body any) *testutil.Response {
	return f.app.Do(t, testutil.Request{Method: method, Path: path, Body: body, Token: testutil.Token(t, u), SchoolID: f.schoolID})
}

func TestCreatePaymentUsesSchoolCurrency(t *testing.T) {
	f := newFixture(t)

	res := f.do(t, f.admin, http.MethodPost, "/api/payments", map[string]any{
		"studentId": f.student.ID, "label": "Cantine", "amount": 15000, "dueDate": "2025-10-31",
	})
	require.Equal(t, fiber.StatusCreated, res.Status, string(res.Raw))
	assert.Equal(t, "XOF", res.Data()["currency"])
	assert.Equal(t, string(model.PaymentStatusPending), res.Data()["status"])

	res = f.do(t, f.admin, http.MethodPost, "/api/payments", map[string]any{
		"studentId": f.parent.ID, "label": "Cantine", "amount": 15000,
	})
	assert.Equal(t, fiber.StatusBadRequest, res.Status, "parent is not a student")

	res = f.do(t, f.admin, http.MethodPost, "/api/payments", map[string]any{
		"studentId": f.student.ID, "label": "Cantine", "amount": 0,
	})
	assert.Equal(t, fiber.StatusBadRequest, res.Status)
}

func TestPaymentVisibility(t *testing.T) {
	f := newFixture(t)
	testutil.Payment(t, f.app.DB, f.schoolID, f.student.ID, 10000)
	testutil.Payment(t, f.app.DB, f.schoolID, f.other.ID, 20000)

	res := f.do(t, f.admin, http.MethodGet, "/api/payments", nil)
	require.Equal(t, fiber.StatusOK, res.Status)
	assert.Len(t, res.List(), 2)

	res = f.do(t, f.parent, http.MethodGet, "/api/payments", nil)
	require.Equal(t, fiber.StatusOK, res.Status)
	require.Len(t, res.List(), 1)
	assert.Equal(t, f.student.ID.String(), res.List()[0].(map[string]any)["studentId"])

	res = f.do(t, f.other, http.MethodGet, "/api/payments/summary", nil)
	require.Equal(t, fiber.StatusOK, res.Status)
	assert.Equal(t, 20000.0, res.Data()["pending"])
	assert.Equal(t, 1.0, res.Data()["count"])
}

func TestMarkPaidLocksPayment(t *testing.T) {
	f := newFixture(t)
	p := testutil.Payment(t, f.app.DB, f.schoolID, f.student.ID, 10000)
	path := "/api/payments/" + p.PaymentID.String()

	res := f.do(t, f.admin, http.MethodPost, path+"/mark-paid", map[string]any{"method": "CASH", "reference": "REC-001"})
	require.Equal(t, fiber.StatusOK, res.Status, string(res.Raw))
	assert.Equal(t, string(model.PaymentStatusPaid), res.Data()["status"])
	assert.NotEmpty(t, res.Data()["paidAt"])

	res = f.do(t, f.admin, http.MethodPost, path+"/mark-paid", map[string]any{"method": "CASH"})
	assert.Equal(t, fiber.StatusConflict, res.Status)
	res = f.do(t, f.admin, http.MethodPatch, path, map[string]any{"amount": 5})
	assert.Equal(t, fiber.StatusConflict, res.Status)
	res = f.do(t, f.admin, http.MethodDelete, path, nil)
	assert.Equal(t, fiber.StatusConflict, res.Status)
}

func TestCheckout(t *testing.T) {
	f := newFixture(t)
	p := testutil.Payment(t, f.app.DB, f.schoolID, f.student.ID, 10000)
	foreign := testutil.Payment(t, f.app.DB, f.schoolID, f.other.ID, 10000)

	res := f.do(t, f.parent, http.MethodPost, "/api/payments/"+p.PaymentID.String()+"/checkout", nil)
	require.Equal(t, fiber.StatusOK, res.Status, string(res.Raw))
	checkout := res.Data()["checkout"].(map[string]any)
	assert.Equal(t, "snap-token", checkout["token"])
	require.Len(t, f.app.Gateway.Calls, 1)
	assert.Equal(t, p.PaymentID, f.app.Gateway.Calls[0].PaymentID)

	var saved model.Payment
	require.NoError(t, f.app.DB.First(&saved, "payment_id = ?", p.PaymentID).Error)
	require.NotNil(t, saved.PaymentExternalID)
	assert.Equal(t, model.PaymentMethodOnline, *saved.PaymentMethod)

	res = f.do(t, f.parent, http.MethodPost, "/api/payments/"+foreign.PaymentID.String()+"/checkout", nil)
	assert.Equal(t, fiber.StatusForbidden, res.Status)

	res = f.do(t, f.student, http.MethodPost, "/api/payments/"+p.PaymentID.String()+"/checkout", nil)
	assert.Equal(t, fiber.StatusForbidden, res.Status)

	f.app.Gateway.Err = errors.New("boom")
	res = f.do(t, f.admin, http.MethodPost, "/api/payments/"+p.PaymentID.String()+"/checkout", nil)
	assert.Equal(t, fiber.StatusBadGateway, res.Status)
	assert.Equal(t, "UPSTREAM_ERROR", res.JSON["error_code"])
	assert.Equal(t, "La passerelle de paiement a refusé la transaction", res.JSON["error"])
}

func notification(orderID, status, fraud, key string) service.Notification {
	n := service.Notification{
		TransactionStatus: status,
		StatusCode:        "200",
		OrderID:           orderID,
		GrossAmount:       "10000.00",
		FraudStatus:       fraud,
		TransactionID:     "trx-" + orderID,
	}
	n.SignatureKey = service.Signature(n.OrderID, n.StatusCode, n.GrossAmount, key)
	return n
}

func TestNotificationWebhook(t *testing.T) {
	f := newFixture(t)
	p := testutil.Payment(t, f.app.DB, f.schoolID, f.student.ID, 10000)
	orderID := "SCH-TEST-1"
	require.NoError(t, f.app.DB.Model(p).Update("payment_external_id", orderID).Error)

	post := func(n service.Notification) *testutil.Response {
		raw, err := json.Marshal(n)
		require.NoError(t, err)
		return f.app.Do(t, testutil.Request{Method: http.MethodPost, Path: "/api/payments/notification", Body: raw})
	}

	res := post(notification(orderID, "settlement", "", "wrong-key"))
	assert.Equal(t, fiber.StatusUnauthorized, res.Status)

	res = post(notification(orderID, "capture", "challenge", testutil.ServerKey))
	require.Equal(t, fiber.StatusOK, res.Status, string(res.Raw))
	assert.Equal(t, string(model.PaymentStatusPending), res.Data()["status"])

	res = post(notification(orderID, "settlement", "", testutil.ServerKey))
	require.Equal(t, fiber.StatusOK, res.Status)
	assert.Equal(t, string(model.PaymentStatusPaid), res.Data()["status"])

	// a late expiry does not reopen a settled payment
	res = post(notification(orderID, "expire", "", testutil.ServerKey))
	require.Equal(t, fiber.StatusOK, res.Status)
	assert.Equal(t, string(model.PaymentStatusPaid), res.Data()["status"])

	var saved model.Payment
	require.NoError(t, f.app.DB.First(&saved, "payment_id = ?", p.PaymentID).Error)
	require.NotNil(t, saved.PaymentReference)
	assert.Equal(t, "trx-"+orderID, *saved.PaymentReference)
	assert.NotNil(t, saved.PaymentPaidAt)

	res = post(notification("UNKNOWN", "settlement", "", testutil.ServerKey))
	assert.Equal(t, fiber.StatusOK, res.Status)

	res = f.app.Do(t, testutil.Request{Method: http.MethodPost, Path: "/api/payments/notification", Body: "{"})
	assert.Equal(t, fiber.StatusBadRequest, res.Status)
}
