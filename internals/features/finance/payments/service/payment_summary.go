package service

import (
	"schoolku_backend/internals/features/finance/payments/model"

	"gorm.io/gorm"
)

type StatusTotal struct {
	Status model.PaymentStatus `json:"status"`
	Count  int64               `json:"count"`
	Amount int64               `json:"amount"`
}

type Summary struct {
	ByStatus  []StatusTotal `json:"byStatus"`
	Collected int64         `json:"collected"`
	Pending   int64         `json:"pending"`
	Count     int64         `json:"count"`
}

// Summarize groups the rows selected by q (a payments query) by status.
// Every status appears, zero when absent.
func Summarize(q *gorm.DB) (*Summary, error) {
	rows := []StatusTotal{}
	if err := q.Select("payment_status AS status, COUNT(*) AS count, COALESCE(SUM(payment_amount), 0) AS amount").
		Group("payment_status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	byStatus := make(map[model.PaymentStatus]StatusTotal, len(rows))
	for _, r := range rows {
		byStatus[r.Status] = r
	}

	out := &Summary{ByStatus: make([]StatusTotal, 0, len(model.PaymentStatuses))}
	for _, st := range model.PaymentStatuses {
		t := byStatus[st]
		t.Status = st
		out.ByStatus = append(out.ByStatus, t)
		out.Count += t.Count
		switch st {
		case model.PaymentStatusPaid:
			out.Collected = t.Amount
		case model.PaymentStatusPending:
			out.Pending = t.Amount
		}
	}
	return out, nil
}
