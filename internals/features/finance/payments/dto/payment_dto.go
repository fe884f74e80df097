package dto

import "strings"

type CreatePaymentRequest struct {
	StudentID      *int64         `json:"student_id" validate:"omitempty,gt=0"`
	JobID          *int64         `json:"job_id" validate:"omitempty,gt=0"`
	Amount         float64        `json:"amount" validate:"gt=0"`
	Currency       string         `json:"currency" validate:"omitempty,len=3,alpha"`
	PaymentMethod  string         `json:"payment_method" validate:"required,oneof=credit_card debit_card paypal bank_transfer stripe"`
	PaymentGateway *string        `json:"payment_gateway" validate:"omitempty,oneof=stripe paypal midtrans mock"`
	Description    *string        `json:"description" validate:"omitempty,max=1000"`
	Metadata       map[string]any `json:"metadata"`
}

func (r *CreatePaymentRequest) Normalize() {
	r.Currency = strings.ToUpper(strings.TrimSpace(r.Currency))
	if r.Currency == "" {
		r.Currency = "USD"
	}
	r.PaymentMethod = strings.ToLower(strings.TrimSpace(r.PaymentMethod))
	if r.PaymentGateway != nil {
		g := strings.ToLower(strings.TrimSpace(*r.PaymentGateway))
		r.PaymentGateway = &g
	}
}

type RefundRequest struct {
	Amount *float64 `json:"amount" validate:"omitempty,gt=0"`
	Reason *string  `json:"reason" validate:"omitempty,max=500"`
}

type FailRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

type CompleteRequest struct {
	TransactionID *string `json:"transaction_id" validate:"omitempty,max=255"`
}

// MidtransNotification is the subset of the HTTP notification payload we use.
type MidtransNotification struct {
	TransactionTime   string `json:"transaction_time"`
	TransactionStatus string `json:"transaction_status"`
	TransactionID     string `json:"transaction_id"`
	StatusCode        string `json:"status_code"`
	SignatureKey      string `json:"signature_key"`
	OrderID           string `json:"order_id"`
	GrossAmount       string `json:"gross_amount"`
	PaymentType       string `json:"payment_type"`
	FraudStatus       string `json:"fraud_status"`
}

type StatusTotal struct {
	Count  int64   `json:"count"`
	Amount float64 `json:"amount"`
}

type PaymentStats struct {
	ByStatus        map[string]StatusTotal `json:"by_status"`
	CompletedVolume float64                `json:"completed_volume"`
	RefundedVolume  float64                `json:"refunded_volume"`
}
