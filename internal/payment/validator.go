package payment

import (
	"fmt"
	"strings"
	"time"

	"github.com/Mohamedgad1983/PROShael-sub019/internal/currency"
	"github.com/Mohamedgad1983/PROShael-sub019/internal/entity"
	"github.com/Mohamedgad1983/PROShael-sub019/internal/fee"
)

// Validator checks raw payment requests against the configured method and
// currency sets. Every rule is evaluated independently so a caller sees the
// complete violation list in one pass.
type Validator struct {
	schedule *fee.Schedule
	table    *currency.Table
	ids      *IDGenerator
}

func NewValidator(schedule *fee.Schedule, table *currency.Table) *Validator {
	return &Validator{
		schedule: schedule,
		table:    table,
		ids:      NewIDGenerator(),
	}
}

func (v *Validator) Validate(req *entity.PaymentRequest) []string {
	var errs []string

	if !req.Amount.IsPositive() {
		errs = append(errs, "Invalid amount: must be greater than 0")
	}

	if strings.TrimSpace(req.PayerID) == "" {
		errs = append(errs, "Payer ID is required")
	}

	if _, ok := v.schedule.Rate(req.PaymentMethod); !ok {
		errs = append(errs, fmt.Sprintf(
			"Invalid payment method: %s. Accepted: %s",
			req.PaymentMethod, joinMethods(v.schedule.Methods()),
		))
	}

	if _, ok := v.table.Lookup(req.Currency); !ok {
		errs = append(errs, fmt.Sprintf(
			"Invalid currency: %s. Accepted: %s",
			req.Currency, strings.Join(v.table.Codes(), ", "),
		))
	}

	return errs
}

// CreatePayment re-validates the request and mints the initial payment
// record: generated id, pending status, creation timestamps. Fee and
// base-currency figures are filled in downstream; nothing is persisted here.
func (v *Validator) CreatePayment(req *entity.PaymentRequest) (*entity.Payment, error) {
	if errs := v.Validate(req); len(errs) > 0 {
		return nil, &entity.ValidationError{Errors: errs}
	}

	now := time.Now().UTC()

	return &entity.Payment{
		ID:            v.ids.NextPaymentID(now),
		PayerID:       req.PayerID,
		Amount:        req.Amount,
		Currency:      req.Currency,
		PaymentMethod: req.PaymentMethod,
		Status:        entity.StatusPending,
		Description:   req.Description,
		Metadata:      req.Metadata,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

func joinMethods(methods []entity.PaymentMethod) string {
	parts := make([]string, len(methods))
	for i, m := range methods {
		parts[i] = string(m)
	}
	return strings.Join(parts, ", ")
}
