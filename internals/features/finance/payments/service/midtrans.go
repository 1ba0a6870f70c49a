package service

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"schoolku_backend/internals/features/finance/payments/model"

	"github.com/google/uuid"
	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

/* =========================================================
   Gateway
========================================================= */

type Customer struct {
	FullName string
	Email    string
}

type Checkout struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirectUrl"`
	OrderID     string `json:"orderId"`
}

// Gateway creates hosted checkouts. Tests swap in a fake.
type Gateway interface {
	CreateCheckout(p model.Payment, cust Customer) (*Checkout, error)
}

type MidtransGateway struct {
	client snap.Client
}

// NewMidtransGateway returns nil when serverKey is empty; checkout is then unavailable.
func NewMidtransGateway(serverKey string, useProduction bool) *MidtransGateway {
	if serverKey == "" {
		return nil
	}
	g := &MidtransGateway{}
	if useProduction {
		g.client.New(serverKey, midtrans.Production)
	} else {
		g.client.New(serverKey, midtrans.Sandbox)
	}
	return g
}

func (g *MidtransGateway) CreateCheckout(p model.Payment, cust Customer) (*Checkout, error) {
	if p.PaymentAmount <= 0 {
		return nil, errors.New("invalid payment amount")
	}
	if p.PaymentExternalID == nil || *p.PaymentExternalID == "" {
		return nil, errors.New("payment external id is required (used as order id)")
	}
	first, last := splitName(cust.FullName)

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  *p.PaymentExternalID,
			GrossAmt: p.PaymentAmount,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: first,
			LName: last,
			Email: cust.Email,
		},
		Items: &[]midtrans.ItemDetails{{
			ID:    p.PaymentID.String(),
			Price: p.PaymentAmount,
			Qty:   1,
			Name:  truncate(p.PaymentLabel, 50),
		}},
	}

	resp, err := g.client.CreateTransaction(req)
	if err != nil {
		return nil, err
	}
	return &Checkout{Token: resp.Token, RedirectURL: resp.RedirectURL, OrderID: *p.PaymentExternalID}, nil
}

/* =========================================================
   Notifications
========================================================= */

// Notification is the subset of the Midtrans HTTP notification we use.
type Notification struct {
	TransactionStatus string `json:"transaction_status"`
	StatusCode        string `json:"status_code"`
	SignatureKey      string `json:"signature_key"`
	OrderID           string `json:"order_id"`
	GrossAmount       string `json:"gross_amount"`
	PaymentType       string `json:"payment_type"`
	FraudStatus       string `json:"fraud_status"`
	TransactionID     string `json:"transaction_id"`
}

// Signature = hex(sha512(order_id + status_code + gross_amount + server_key)).
func Signature(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

func (n Notification) Verify(serverKey string) bool {
	if n.SignatureKey == "" || serverKey == "" {
		return false
	}
	want := Signature(n.OrderID, n.StatusCode, n.GrossAmount, serverKey)
	return subtle.ConstantTimeCompare([]byte(want), []byte(strings.ToLower(n.SignatureKey))) == 1
}

// MapStatus converts a Midtrans transaction status; unknown values keep current.
func MapStatus(current model.PaymentStatus, transactionStatus, fraudStatus string) model.PaymentStatus {
	switch strings.ToLower(transactionStatus) {
	case "capture":
		switch strings.ToLower(fraudStatus) {
		case "", "accept":
			return model.PaymentStatusPaid
		case "challenge":
			return model.PaymentStatusPending
		}
		return model.PaymentStatusFailed
	case "settlement":
		return model.PaymentStatusPaid
	case "pending":
		return model.PaymentStatusPending
	case "cancel", "expire":
		return model.PaymentStatusCancelled
	case "deny", "failure":
		return model.PaymentStatusFailed
	}
	return current
}

// GenOrderID builds the order id sent to the gateway.
func GenOrderID(prefix string) string {
	now := time.Now().UTC().Format("20060102-150405")
	u := strings.ToUpper(uuid.New().String()[:8])
	return prefix + "-" + now + "-" + u
}

func splitName(full string) (string, string) {
	full = strings.TrimSpace(full)
	if i := strings.LastIndex(full, " "); i > 0 {
		return full[:i], full[i+1:]
	}
	return full, ""
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n]
}
