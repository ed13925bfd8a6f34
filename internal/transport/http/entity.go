// nolint: revive,staticcheck
// swagger:meta
package httpt

import (
	"github.com/shopspring/decimal"

	"github.com/Mohamedgad1983/PROShael-sub019/internal/entity"
)

// swagger:model ErrorResponse
type ErrorResponse struct {
	Error string `json:"error"`
}

// swagger:model ValidationErrorResponse
type ValidationErrorResponse struct {
	Errors []string `json:"errors"`
}

// swagger:model TransitionRequest
type TransitionRequest struct {
	FromStatus entity.PaymentStatus `json:"from_status" binding:"required"`
	ToStatus   entity.PaymentStatus `json:"to_status"   binding:"required"`
	Metadata   map[string]any       `json:"metadata"`
}

// swagger:model NormalizeRequest
type NormalizeRequest struct {
	Payments []*entity.Payment `json:"payments" binding:"required"`
}

// swagger:model VerifyResponse
type VerifyResponse struct {
	LogID string `json:"log_id"`
	Valid bool   `json:"valid"`
}

// swagger:model Payment
type Payment entity.Payment

// swagger:model StatusTransition
type StatusTransition entity.StatusTransition

// swagger:model TransactionLogEntry
type TransactionLogEntry entity.TransactionLogEntry

// logFilterQuery binds the transaction-log query parameters. Omitted
// parameters leave their filter unconstrained.
type logFilterQuery struct {
	PayerID   string `form:"payer_id"`
	Status    string `form:"status"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	MinAmount string `form:"min_amount"`
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}
