package currency

import (
	"github.com/shopspring/decimal"

	"github.com/Mohamedgad1983/PROShael-sub019/internal/entity"
)

// conversions round to two decimals per item before any accumulation, so
// every displayed amount sums exactly to its currency subtotal
const _basePrecision = 2

type (
	// NormalizedPayment is a payment with its base-currency amount attached.
	NormalizedPayment struct {
		*entity.Payment
		BaseAmount decimal.Decimal `json:"base_amount"`
	}

	// CurrencyTotal is the running aggregate for one currency inside a batch.
	CurrencyTotal struct {
		Count         int             `json:"count"`
		OriginalTotal decimal.Decimal `json:"original_total"`
		BaseTotal     decimal.Decimal `json:"base_total"`
	}

	// BatchResult carries a normalized batch: per-payment base amounts,
	// per-currency totals and a grand total in the base currency. It is
	// derived data, rebuilt on every call.
	BatchResult struct {
		Payments          []NormalizedPayment      `json:"payments"`
		Totals            map[string]CurrencyTotal `json:"totals"`
		BaseCurrencyTotal decimal.Decimal          `json:"base_currency_total"`
	}

	Normalizer struct {
		table *Table
	}
)

func NewNormalizer(table *Table) *Normalizer {
	return &Normalizer{table: table}
}

// Format renders an amount with the currency's precision and symbol placement.
func (n *Normalizer) Format(amount decimal.Decimal, code string) (string, error) {
	c, ok := n.table.Lookup(code)
	if !ok {
		return "", &entity.UnsupportedCurrencyError{Currency: code}
	}

	fixed := amount.StringFixed(c.Decimals)
	if c.SymbolPrefix {
		return c.Symbol + fixed, nil
	}
	return fixed + " " + c.Symbol, nil
}

// ToBase converts an amount into the base currency. Amounts already in the
// base currency pass through unchanged.
func (n *Normalizer) ToBase(amount decimal.Decimal, code string) (decimal.Decimal, error) {
	if code == n.table.Base() {
		return amount, nil
	}

	c, ok := n.table.Lookup(code)
	if !ok {
		return decimal.Zero, &entity.UnsupportedCurrencyError{Currency: code}
	}

	return amount.Div(c.Rate).Round(_basePrecision), nil
}

// NormalizeBatch attaches base amounts to a mixed-currency batch and
// accumulates per-currency and grand totals from the already-rounded
// per-item conversions.
func (n *Normalizer) NormalizeBatch(payments []*entity.Payment) (*BatchResult, error) {
	result := &BatchResult{
		Payments:          make([]NormalizedPayment, 0, len(payments)),
		Totals:            make(map[string]CurrencyTotal),
		BaseCurrencyTotal: decimal.Zero,
	}

	for _, p := range payments {
		baseAmount, err := n.ToBase(p.Amount, p.Currency)
		if err != nil {
			return nil, err
		}

		result.Payments = append(result.Payments, NormalizedPayment{
			Payment:    p,
			BaseAmount: baseAmount,
		})

		total := result.Totals[p.Currency]
		total.Count++
		total.OriginalTotal = total.OriginalTotal.Add(p.Amount)
		total.BaseTotal = total.BaseTotal.Add(baseAmount)
		result.Totals[p.Currency] = total

		result.BaseCurrencyTotal = result.BaseCurrencyTotal.Add(baseAmount)
	}

	for code, total := range result.Totals {
		total.OriginalTotal = total.OriginalTotal.Round(_basePrecision)
		total.BaseTotal = total.BaseTotal.Round(_basePrecision)
		result.Totals[code] = total
	}
	result.BaseCurrencyTotal = result.BaseCurrencyTotal.Round(_basePrecision)

	return result, nil
}
