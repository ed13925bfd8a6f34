package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionLogEntry is a write-once snapshot of a payment event.
// Checksum covers {TransactionID, Amount, Currency, PayerID} and is never
// recomputed in place after creation.
type TransactionLogEntry struct {
	ID            string          `json:"id"`
	Timestamp     time.Time       `json:"timestamp"`
	TransactionID string          `json:"transaction_id"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	PayerID       string          `json:"payer_id"`
	Status        PaymentStatus   `json:"status"`
	Metadata      map[string]any  `json:"metadata,omitempty"`
	Checksum      string          `json:"checksum"`
}

// LogFilter narrows a transaction-log query. Zero-valued fields are
// unconstrained; populated fields AND together.
type LogFilter struct {
	PayerID   string
	Status    PaymentStatus
	StartDate time.Time
	EndDate   time.Time
	MinAmount *decimal.Decimal
}
