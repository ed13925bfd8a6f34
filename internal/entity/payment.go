package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	MethodCash         PaymentMethod = "cash"
	MethodCard         PaymentMethod = "card"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodOnline       PaymentMethod = "online"
)

// PaymentMethods lists every accepted method, in the order error messages cite them.
func PaymentMethods() []PaymentMethod {
	return []PaymentMethod{MethodCash, MethodCard, MethodBankTransfer, MethodOnline}
}

type PaymentRequest struct {
	Amount        decimal.Decimal `json:"amount"         validate:"required"`
	Currency      string          `json:"currency"       validate:"required,len=3"`
	PayerID       string          `json:"payer_id"       validate:"required,max=64"`
	PaymentMethod PaymentMethod   `json:"payment_method" validate:"required"`
	Description   string          `json:"description"    validate:"max=255"`
	Metadata      map[string]any  `json:"metadata"`
}

type Payment struct {
	ID                 string          `json:"id"`
	PayerID            string          `json:"payer_id"`
	Amount             decimal.Decimal `json:"amount"`
	Currency           string          `json:"currency"`
	PaymentMethod      PaymentMethod   `json:"payment_method"`
	Fee                decimal.Decimal `json:"fee"`
	NetAmount          decimal.Decimal `json:"net_amount"`
	BaseCurrencyAmount decimal.Decimal `json:"base_currency_amount"`
	Status             PaymentStatus   `json:"status"`
	Description        string          `json:"description,omitempty"`
	Metadata           map[string]any  `json:"metadata,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}
