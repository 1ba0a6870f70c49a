package model

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Payment is a fee owed by a student. Amount is in minor currency units.
type Payment struct {
	PaymentID             uuid.UUID  `gorm:"type:uuid;primaryKey;column:payment_id" json:"id"`
	PaymentSchoolID       uuid.UUID  `gorm:"type:uuid;not null;index;column:payment_school_id" json:"schoolId"`
	PaymentStudentID      uuid.UUID  `gorm:"type:uuid;not null;index;column:payment_student_id" json:"studentId"`
	PaymentAcademicYearID *uuid.UUID `gorm:"type:uuid;index;column:payment_academic_year_id" json:"academicYearId,omitempty"`

	PaymentLabel     string         `gorm:"type:varchar(150);not null;column:payment_label" json:"label"`
	PaymentAmount    int64          `gorm:"not null;column:payment_amount" json:"amount"`
	PaymentCurrency  string         `gorm:"type:varchar(3);not null;column:payment_currency" json:"currency"`
	PaymentDueDate   *time.Time     `gorm:"column:payment_due_date" json:"dueDate,omitempty"`
	PaymentStatus    PaymentStatus  `gorm:"type:varchar(20);not null;index;column:payment_status" json:"status"`
	PaymentMethod    *PaymentMethod `gorm:"type:varchar(20);column:payment_method" json:"method,omitempty"`
	PaymentPaidAt    *time.Time     `gorm:"column:payment_paid_at" json:"paidAt,omitempty"`
	PaymentReference *string        `gorm:"type:varchar(100);column:payment_reference" json:"reference,omitempty"`

	// Gateway (Midtrans): external id is the order_id sent to Snap.
	PaymentExternalID     *string        `gorm:"type:varchar(80);uniqueIndex;column:payment_external_id" json:"externalId,omitempty"`
	PaymentGatewayPayload datatypes.JSON `gorm:"column:payment_gateway_payload" json:"-"`

	PaymentCreatedAt time.Time      `gorm:"autoCreateTime;column:payment_created_at" json:"createdAt"`
	PaymentUpdatedAt time.Time      `gorm:"autoUpdateTime;column:payment_updated_at" json:"updatedAt"`
	PaymentDeletedAt gorm.DeletedAt `gorm:"index;column:payment_deleted_at" json:"-"`
}

func (Payment) TableName() string { return "payments" }

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.PaymentID == uuid.Nil {
		p.PaymentID = uuid.New()
	}
	if p.PaymentStatus == "" {
		p.PaymentStatus = PaymentStatusPending
	}
	return nil
}

func (p *Payment) BeforeSave(tx *gorm.DB) error {
	if p.PaymentAmount <= 0 {
		return errors.New("payment_amount must be > 0")
	}
	if p.PaymentStatus == PaymentStatusPaid && p.PaymentPaidAt == nil {
		now := time.Now().UTC()
		p.PaymentPaidAt = &now
	}
	p.PaymentCurrency = strings.ToUpper(strings.TrimSpace(p.PaymentCurrency))
	p.PaymentLabel = strings.TrimSpace(p.PaymentLabel)
	return nil
}
