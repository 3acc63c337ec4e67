package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReceiptType discriminates financial receipts from credential receipts.
type ReceiptType string

const (
	ReceiptPayment ReceiptType = "PAYMENT"
	ReceiptDocency ReceiptType = "DOCENCY"
)

// ReceiptStatus indicates the state of an issued receipt.
type ReceiptStatus string

const (
	ReceiptIssued ReceiptStatus = "ISSUED"
)

// Receipt is a financial (PAYMENT) or credential (DOCENCY) artifact.
// Receipts are created exclusively by the side-effect dispatcher, never
// directly by a caller. ValueCents is set for payment receipts only.
type Receipt struct {
	ID         uuid.UUID
	Type       ReceiptType
	URL        string
	ValueCents *int64
	Status     ReceiptStatus
	UserID     uuid.UUID
	CreatedAt  time.Time
}
