package service

import (
	"crypto/sha512"
	"encoding/hex"
	"strings"
	"testing"

	"schoolku_backend/internals/features/finance/payments/model"

	"github.com/stretchr/testify/assert"
)

func TestSignature(t *testing.T) {
	sum := sha512.Sum512([]byte("ORD-1" + "200" + "150000.00" + "server-key"))
	assert.Equal(t, hex.EncodeToString(sum[:]), Signature("ORD-1", "200", "150000.00", "server-key"))
}

func TestNotificationVerify(t *testing.T) {
	n := Notification{OrderID: "ORD-1", StatusCode: "200", GrossAmount: "150000.00"}
	n.SignatureKey = strings.ToUpper(Signature(n.OrderID, n.StatusCode, n.GrossAmount, "k"))

	assert.True(t, n.Verify("k"), "signature match is case-insensitive")
	assert.False(t, n.Verify("other"))
	assert.False(t, n.Verify(""))

	n.SignatureKey = ""
	assert.False(t, n.Verify("k"))
}

func TestMapStatus(t *testing.T) {
	cur := model.PaymentStatusPending
	assert.Equal(t, model.PaymentStatusPaid, MapStatus(cur, "settlement", ""))
	assert.Equal(t, model.PaymentStatusPaid, MapStatus(cur, "capture", "accept"))
	assert.Equal(t, model.PaymentStatusPending, MapStatus(cur, "capture", "challenge"))
	assert.Equal(t, model.PaymentStatusFailed, MapStatus(cur, "capture", "deny"))
	assert.Equal(t, model.PaymentStatusCancelled, MapStatus(cur, "expire", ""))
	assert.Equal(t, model.PaymentStatusCancelled, MapStatus(cur, "cancel", ""))
	assert.Equal(t, model.PaymentStatusFailed, MapStatus(cur, "deny", ""))
	assert.Equal(t, model.PaymentStatusPaid, MapStatus(model.PaymentStatusPaid, "refund_unknown", ""))
}

func TestGenOrderID(t *testing.T) {
	id := GenOrderID("SCH")
	assert.True(t, strings.HasPrefix(id, "SCH-"))
	assert.NotEqual(t, id, GenOrderID("SCH"))
}
