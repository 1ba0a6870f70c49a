package dto

import (
	"strings"
	"time"

	"schoolku_backend/internals/features/finance/payments/model"
	helper "schoolku_backend/internals/helpers"

	"github.com/google/uuid"
)

type CreatePaymentRequest struct {
	StudentID      uuid.UUID  `json:"studentId" validate:"required"`
	AcademicYearID *uuid.UUID `json:"academicYearId"`
	Label          string     `json:"label" validate:"required,min=2,max=150"`
	Amount         int64      `json:"amount" validate:"required,gt=0"`
	Currency       *string    `json:"currency" validate:"omitempty,len=3,alpha"`
	DueDate        *string    `json:"dueDate" validate:"omitempty,datetime=2006-01-02"`
	Reference      *string    `json:"reference" validate:"omitempty,max=100"`
}

func (r *CreatePaymentRequest) Normalize() {
	r.Label = strings.TrimSpace(r.Label)
	r.Currency = helper.TrimPtr(r.Currency)
	r.DueDate = helper.TrimPtr(r.DueDate)
	r.Reference = helper.TrimPtr(r.Reference)
}

func (r *CreatePaymentRequest) ToModel(schoolID uuid.UUID, defaultCurrency string) (*model.Payment, error) {
	due, err := helper.ParseDatePtr(r.DueDate)
	if err != nil {
		return nil, helper.BadRequest("dueDate invalide")
	}
	currency := defaultCurrency
	if r.Currency != nil {
		currency = *r.Currency
	}
	return &model.Payment{
		PaymentSchoolID:       schoolID,
		PaymentStudentID:      r.StudentID,
		PaymentAcademicYearID: r.AcademicYearID,
		PaymentLabel:          r.Label,
		PaymentAmount:         r.Amount,
		PaymentCurrency:       currency,
		PaymentDueDate:        due,
		PaymentStatus:         model.PaymentStatusPending,
		PaymentReference:      r.Reference,
	}, nil
}

type UpdatePaymentRequest struct {
	Label     *string `json:"label" validate:"omitempty,min=2,max=150"`
	Amount    *int64  `json:"amount" validate:"omitempty,gt=0"`
	DueDate   *string `json:"dueDate" validate:"omitempty,datetime=2006-01-02"`
	Status    *string `json:"status" validate:"omitempty,oneof=PENDING CANCELLED"`
	Reference *string `json:"reference" validate:"omitempty,max=100"`
}

func (r *UpdatePaymentRequest) Normalize() {
	r.Label = helper.TrimPtr(r.Label)
	r.DueDate = helper.TrimPtr(r.DueDate)
	r.Reference = helper.TrimPtr(r.Reference)
	if s := helper.TrimPtr(r.Status); s != nil {
		v := strings.ToUpper(*s)
		r.Status = &v
	}
}

func (r *UpdatePaymentRequest) ApplyUpdates(p *model.Payment) error {
	if r.Label != nil {
		p.PaymentLabel = *r.Label
	}
	if r.Amount != nil {
		p.PaymentAmount = *r.Amount
	}
	if r.DueDate != nil {
		d, err := helper.ParseDatePtr(r.DueDate)
		if err != nil {
			return helper.BadRequest("dueDate invalide")
		}
		p.PaymentDueDate = d
	}
	if r.Status != nil {
		p.PaymentStatus = model.PaymentStatus(*r.Status)
	}
	if r.Reference != nil {
		p.PaymentReference = r.Reference
	}
	return nil
}

type MarkPaidRequest struct {
	Method    string  `json:"method" validate:"required,oneof=CASH BANK_TRANSFER MOBILE_MONEY ONLINE"`
	Reference *string `json:"reference" validate:"omitempty,max=100"`
	PaidAt    *string `json:"paidAt" validate:"omitempty,datetime=2006-01-02"`
}

func (r *MarkPaidRequest) Normalize() {
	r.Method = strings.ToUpper(strings.TrimSpace(r.Method))
	r.Reference = helper.TrimPtr(r.Reference)
	r.PaidAt = helper.TrimPtr(r.PaidAt)
}

func (r *MarkPaidRequest) Apply(p *model.Payment, now time.Time) error {
	paidAt := now.UTC()
	if r.PaidAt != nil {
		d, err := helper.ParseDate(*r.PaidAt)
		if err != nil {
			return helper.BadRequest("paidAt invalide")
		}
		paidAt = d
	}
	method := model.PaymentMethod(r.Method)
	p.PaymentStatus = model.PaymentStatusPaid
	p.PaymentMethod = &method
	p.PaymentPaidAt = &paidAt
	if r.Reference != nil {
		p.PaymentReference = r.Reference
	}
	return nil
}
