package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	PaymentStatusPending    = "pending"
	PaymentStatusProcessing = "processing"
	PaymentStatusCompleted  = "completed"
	PaymentStatusFailed     = "failed"
	PaymentStatusCancelled  = "cancelled"
	PaymentStatusRefunded   = "refunded"
)

const (
	PaymentMethodCreditCard   = "credit_card"
	PaymentMethodDebitCard    = "debit_card"
	PaymentMethodPaypal       = "paypal"
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodStripe       = "stripe"
)

const (
	GatewayStripe   = "stripe"
	GatewayPaypal   = "paypal"
	GatewayMidtrans = "midtrans"
	GatewayMock     = "mock"
)

type PaymentModel struct {
	ID             int64             `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	PublisherID    int64             `gorm:"column:publisher_id;not null;index:idx_payments_publisher" json:"publisher_id"`
	StudentID      *int64            `gorm:"column:student_id;index:idx_payments_student" json:"student_id,omitempty"`
	JobID          *int64            `gorm:"column:job_id" json:"job_id,omitempty"`
	Amount         float64           `gorm:"column:amount;type:decimal(12,2);not null" json:"amount"`
	Currency       string            `gorm:"column:currency;size:3;not null;default:'USD'" json:"currency"`
	PaymentMethod  string            `gorm:"column:payment_method;size:30;not null" json:"payment_method"`
	PaymentGateway *string           `gorm:"column:payment_gateway;size:30" json:"payment_gateway,omitempty"`
	TransactionID  *string           `gorm:"column:transaction_id;size:255;index:idx_payments_transaction" json:"transaction_id,omitempty"`
	Status         string            `gorm:"column:status;size:20;not null;default:'pending'" json:"status"`
	PaymentDate    *time.Time        `gorm:"column:payment_date" json:"payment_date,omitempty"`
	Description    *string           `gorm:"column:description;type:text" json:"description,omitempty"`
	Metadata       datatypes.JSONMap `gorm:"column:metadata" json:"metadata,omitempty"`
	CreatedAt      time.Time         `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt      time.Time         `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (PaymentModel) TableName() string { return "payments" }

func (p *PaymentModel) Gateway() string {
	if p.PaymentGateway == nil || *p.PaymentGateway == "" {
		return GatewayMock
	}
	return *p.PaymentGateway
}

func IsPaymentMethod(m string) bool {
	switch m {
	case PaymentMethodCreditCard, PaymentMethodDebitCard, PaymentMethodPaypal, PaymentMethodBankTransfer, PaymentMethodStripe:
		return true
	}
	return false
}

// CanTransition: pending -> processing -> completed|failed, completed -> refunded,
// pending|processing|failed -> cancelled.
func CanTransition(from, to string) bool {
	switch to {
	case PaymentStatusProcessing:
		return from == PaymentStatusPending
	case PaymentStatusCompleted, PaymentStatusFailed:
		return from == PaymentStatusProcessing
	case PaymentStatusRefunded:
		return from == PaymentStatusCompleted
	case PaymentStatusCancelled:
		return from == PaymentStatusPending || from == PaymentStatusProcessing || from == PaymentStatusFailed
	}
	return false
}
