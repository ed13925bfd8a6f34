package currency

import (
	"github.com/shopspring/decimal"

	"github.com/Mohamedgad1983/PROShael-sub019/internal/config"
)

// Currency couples an exchange rate with the display rules for one code.
// Rate is expressed relative to the base currency (base = 1.00), so a KWD
// rate of 0.082 means 1 KWD buys 1/0.082 base units.
type Currency struct {
	Code         string
	Symbol       string
	SymbolPrefix bool
	Decimals     int32
	Rate         decimal.Decimal
}

type Table struct {
	base       string
	currencies map[string]Currency
}

// NewTable builds the supported-currency set. Rates come from configuration;
// display rules (precision, symbol placement) are part of the currency's
// identity and live here.
func NewTable(cfg config.Currency) *Table {
	return &Table{
		base: cfg.Base,
		currencies: map[string]Currency{
			"SAR": {
				Code:     "SAR",
				Symbol:   "ر.س",
				Decimals: 2,
				Rate:     decimal.NewFromFloat(cfg.SARRate),
			},
			"KWD": {
				Code:     "KWD",
				Symbol:   "د.ك",
				Decimals: 3,
				Rate:     decimal.NewFromFloat(cfg.KWDRate),
			},
			"USD": {
				Code:         "USD",
				Symbol:       "$",
				SymbolPrefix: true,
				Decimals:     2,
				Rate:         decimal.NewFromFloat(cfg.USDRate),
			},
			"EUR": {
				Code:         "EUR",
				Symbol:       "€",
				SymbolPrefix: true,
				Decimals:     2,
				Rate:         decimal.NewFromFloat(cfg.EURRate),
			},
		},
	}
}

func (t *Table) Base() string {
	return t.base
}

func (t *Table) Lookup(code string) (Currency, bool) {
	c, ok := t.currencies[code]
	return c, ok
}

// Codes returns the supported currency codes in a stable order.
func (t *Table) Codes() []string {
	codes := make([]string, 0, len(t.currencies))
	for _, code := range []string{"SAR", "KWD", "USD", "EUR"} {
		if _, ok := t.currencies[code]; ok {
			codes = append(codes, code)
		}
	}
	return codes
}
