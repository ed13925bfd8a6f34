package fee

import (
	"github.com/shopspring/decimal"

	"github.com/Mohamedgad1983/PROShael-sub019/internal/config"
	"github.com/Mohamedgad1983/PROShael-sub019/internal/entity"
)

// Schedule maps a payment method to its fee rate. Rates arrive from
// configuration so operators can change them without a rebuild.
type Schedule struct {
	rates map[entity.PaymentMethod]decimal.Decimal
}

func NewSchedule(cfg config.Fees) *Schedule {
	return &Schedule{
		rates: map[entity.PaymentMethod]decimal.Decimal{
			entity.MethodCash:         decimal.NewFromFloat(cfg.Cash),
			entity.MethodCard:         decimal.NewFromFloat(cfg.Card),
			entity.MethodBankTransfer: decimal.NewFromFloat(cfg.BankTransfer),
			entity.MethodOnline:       decimal.NewFromFloat(cfg.Online),
		},
	}
}

func (s *Schedule) Rate(method entity.PaymentMethod) (decimal.Decimal, bool) {
	rate, ok := s.rates[method]
	return rate, ok
}

// Methods returns the accepted payment methods in their canonical order.
func (s *Schedule) Methods() []entity.PaymentMethod {
	methods := make([]entity.PaymentMethod, 0, len(s.rates))
	for _, m := range entity.PaymentMethods() {
		if _, ok := s.rates[m]; ok {
			methods = append(methods, m)
		}
	}
	return methods
}
