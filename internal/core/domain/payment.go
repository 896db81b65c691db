package domain

import (
	"errors"
	"time"
)

// PaymentStatus is the settlement state of a payment request.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// PaymentMethod is how a payment was (or will be) settled.
type PaymentMethod string

const (
	MethodCreditCard   PaymentMethod = "credit_card"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodCash         PaymentMethod = "cash"
)

var ErrPaymentNotFound = errors.New("payment not found")
var ErrCaseClientMismatch = errors.New("case does not belong to the specified client")

// Payment is a fee request issued by staff against a client, optionally tied
// to a case (attorney fees, expert fees, court costs).
type Payment struct {
	ID          int64         `json:"id" bson:"_id"`
	Reference   string        `json:"payment_id" bson:"reference"`
	Amount      float64       `json:"amount" bson:"amount"`
	Currency    string        `json:"currency" bson:"currency"`
	Description string        `json:"description" bson:"description"`
	Status      PaymentStatus `json:"status" bson:"status"`
	Method      PaymentMethod `json:"method,omitempty" bson:"method,omitempty"`
	ClientID    int64         `json:"client_id" bson:"client_id"`
	CaseID      int64         `json:"case_id,omitempty" bson:"case_id,omitempty"`
	CreatedAt   time.Time     `json:"created_at" bson:"created_at"`
	CompletedAt *time.Time    `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
}
