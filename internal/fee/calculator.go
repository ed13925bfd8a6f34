package fee

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Mohamedgad1983/PROShael-sub019/internal/entity"
)

// fee math always rounds to two decimal places in the payment's native
// currency; currency display precision is applied later, at formatting time
const _feePrecision = 2

// Breakdown is the fee split for a single gross amount.
type Breakdown struct {
	Fee         decimal.Decimal `json:"fee"`
	NetAmount   decimal.Decimal `json:"net_amount"`
	GrossAmount decimal.Decimal `json:"gross_amount"`
}

type Calculator struct {
	schedule *Schedule
}

func NewCalculator(schedule *Schedule) *Calculator {
	return &Calculator{schedule: schedule}
}

// Calculate splits amount into fee and net for the given method.
// Fee and net are each rounded half-up to two decimals; the gross
// amount passes through unchanged.
func (c *Calculator) Calculate(
	amount decimal.Decimal,
	method entity.PaymentMethod,
) (Breakdown, error) {
	rate, ok := c.schedule.Rate(method)
	if !ok {
		return Breakdown{}, fmt.Errorf("fee.Calculate: no rate for payment method %q", method)
	}

	return Breakdown{
		Fee:         amount.Mul(rate).Round(_feePrecision),
		NetAmount:   amount.Mul(decimal.NewFromInt(1).Sub(rate)).Round(_feePrecision),
		GrossAmount: amount,
	}, nil
}
