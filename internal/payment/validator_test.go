package payment_test

import (
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/Mohamedgad1983/PROShael-sub019/internal/config"
	"github.com/Mohamedgad1983/PROShael-sub019/internal/currency"
	"github.com/Mohamedgad1983/PROShael-sub019/internal/entity"
	"github.com/Mohamedgad1983/PROShael-sub019/internal/fee"
	"github.com/Mohamedgad1983/PROShael-sub019/internal/payment"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newValidator() *payment.Validator {
	schedule := fee.NewSchedule(config.Fees{
		Cash:         0,
		Card:         0.025,
		BankTransfer: 0.01,
		Online:       0.03,
	})
	table := currency.NewTable(config.Currency{
		Base:    "SAR",
		SARRate: 1.0,
		KWDRate: 0.082,
		USDRate: 0.27,
		EURRate: 0.25,
	})
	return payment.NewValidator(schedule, table)
}

func validRequest() *entity.PaymentRequest {
	return &entity.PaymentRequest{
		Amount:        decimal.RequireFromString("150.00"),
		Currency:      "SAR",
		PayerID:       gofakeit.Username(),
		PaymentMethod: entity.MethodCard,
		Description:   gofakeit.Sentence(4),
	}
}

func TestValidator_Validate(t *testing.T) {
	t.Parallel()

	v := newValidator()

	testCases := []struct {
		desc     string
		mutate   func(req *entity.PaymentRequest)
		expected []string
	}{
		{
			desc:     "ValidRequest",
			mutate:   func(_ *entity.PaymentRequest) {},
			expected: nil,
		},
		{
			desc: "ZeroAmount",
			mutate: func(req *entity.PaymentRequest) {
				req.Amount = decimal.Zero
			},
			expected: []string{"Invalid amount: must be greater than 0"},
		},
		{
			desc: "NegativeAmount",
			mutate: func(req *entity.PaymentRequest) {
				req.Amount = decimal.RequireFromString("-10")
			},
			expected: []string{"Invalid amount: must be greater than 0"},
		},
		{
			desc: "MissingPayerID",
			mutate: func(req *entity.PaymentRequest) {
				req.PayerID = "   "
			},
			expected: []string{"Payer ID is required"},
		},
		{
			desc: "UnknownMethod",
			mutate: func(req *entity.PaymentRequest) {
				req.PaymentMethod = "crypto"
			},
			expected: []string{
				"Invalid payment method: crypto. Accepted: cash, card, bank_transfer, online",
			},
		},
		{
			desc: "UnknownCurrency",
			mutate: func(req *entity.PaymentRequest) {
				req.Currency = "GBP"
			},
			expected: []string{
				"Invalid currency: GBP. Accepted: SAR, KWD, USD, EUR",
			},
		},
		{
			desc: "AllRulesReported",
			mutate: func(req *entity.PaymentRequest) {
				req.Amount = decimal.Zero
				req.PayerID = ""
				req.PaymentMethod = "barter"
				req.Currency = "XYZ"
			},
			expected: []string{
				"Invalid amount: must be greater than 0",
				"Payer ID is required",
				"Invalid payment method: barter. Accepted: cash, card, bank_transfer, online",
				"Invalid currency: XYZ. Accepted: SAR, KWD, USD, EUR",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()

			req := validRequest()
			tc.mutate(req)

			require.Equal(t, tc.expected, v.Validate(req))
		})
	}
}

func TestValidator_CreatePayment(t *testing.T) {
	t.Parallel()

	v := newValidator()
	req := validRequest()

	created, err := v.CreatePayment(req)
	require.NoError(t, err)

	require.Regexp(t, regexp.MustCompile(`^PAY-\d+-\d{6}$`), created.ID)
	require.Equal(t, entity.StatusPending, created.Status)
	require.Equal(t, req.PayerID, created.PayerID)
	require.True(t, created.Amount.Equal(req.Amount))
	require.Equal(t, req.Currency, created.Currency)
	require.Equal(t, req.PaymentMethod, created.PaymentMethod)
	require.False(t, created.CreatedAt.IsZero())
	require.Equal(t, created.CreatedAt, created.UpdatedAt)
}

func TestValidator_CreatePaymentInvalid(t *testing.T) {
	t.Parallel()

	v := newValidator()
	req := validRequest()
	req.Amount = decimal.Zero

	created, err := v.CreatePayment(req)
	require.Nil(t, created)

	var validationErr *entity.ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, []string{"Invalid amount: must be greater than 0"}, validationErr.Errors)
}

func TestIDGenerator_ConcurrentIDsAreUnique(t *testing.T) {
	t.Parallel()

	gen := payment.NewIDGenerator()
	now := time.Now()

	const goroutines = 50
	const perGoroutine = 20

	var (
		mu  sync.Mutex
		ids = make(map[string]struct{}, goroutines*perGoroutine)
		wg  sync.WaitGroup
	)

	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perGoroutine {
				id := gen.NextPaymentID(now)
				mu.Lock()
				ids[id] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Len(t, ids, goroutines*perGoroutine)
}
