package fee_test

import (
	"testing"

	"github.com/Mohamedgad1983/PROShael-sub019/internal/config"
	"github.com/Mohamedgad1983/PROShael-sub019/internal/entity"
	"github.com/Mohamedgad1983/PROShael-sub019/internal/fee"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func defaultFees() config.Fees {
	return config.Fees{
		Cash:         0,
		Card:         0.025,
		BankTransfer: 0.01,
		Online:       0.03,
	}
}

func TestCalculator_Calculate(t *testing.T) {
	t.Parallel()

	calc := fee.NewCalculator(fee.NewSchedule(defaultFees()))

	testCases := []struct {
		desc        string
		amount      string
		method      entity.PaymentMethod
		expectedFee string
		expectedNet string
	}{
		{
			desc:        "CardFee",
			amount:      "1000",
			method:      entity.MethodCard,
			expectedFee: "25",
			expectedNet: "975",
		},
		{
			desc:        "CashIsFree",
			amount:      "1000",
			method:      entity.MethodCash,
			expectedFee: "0",
			expectedNet: "1000",
		},
		{
			desc:        "BankTransferFee",
			amount:      "250",
			method:      entity.MethodBankTransfer,
			expectedFee: "2.5",
			expectedNet: "247.5",
		},
		{
			desc:        "OnlineFee",
			amount:      "99.99",
			method:      entity.MethodOnline,
			expectedFee: "3",
			expectedNet: "96.99",
		},
		{
			desc:        "FeeRoundsHalfUp",
			amount:      "10.10",
			method:      entity.MethodCard,
			expectedFee: "0.25",
			expectedNet: "9.85",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()

			amount := decimal.RequireFromString(tc.amount)

			breakdown, err := calc.Calculate(amount, tc.method)
			require.NoError(t, err)

			require.True(t, breakdown.Fee.Equal(decimal.RequireFromString(tc.expectedFee)),
				"fee: got %s", breakdown.Fee)
			require.True(t, breakdown.NetAmount.Equal(decimal.RequireFromString(tc.expectedNet)),
				"net: got %s", breakdown.NetAmount)
			require.True(t, breakdown.GrossAmount.Equal(amount))
		})
	}
}

func TestCalculator_UnknownMethod(t *testing.T) {
	t.Parallel()

	calc := fee.NewCalculator(fee.NewSchedule(defaultFees()))

	_, err := calc.Calculate(decimal.NewFromInt(100), entity.PaymentMethod("crypto"))
	require.Error(t, err)
}

func TestCalculator_FeePlusNetCoversGross(t *testing.T) {
	t.Parallel()

	calc := fee.NewCalculator(fee.NewSchedule(defaultFees()))
	methods := entity.PaymentMethods()

	for range 100 {
		amount := decimal.NewFromFloat(gofakeit.Price(0.01, 100000)).Round(2)
		method := methods[gofakeit.Number(0, len(methods)-1)]

		breakdown, err := calc.Calculate(amount, method)
		require.NoError(t, err)

		// net is derived from (1-rate) rather than amount-fee, so the
		// two rounded halves may drift from the gross by at most a cent
		diff := breakdown.Fee.Add(breakdown.NetAmount).Sub(amount).Abs()
		require.True(t, diff.LessThanOrEqual(decimal.New(1, -2)),
			"amount %s method %s fee %s net %s", amount, method, breakdown.Fee, breakdown.NetAmount)
	}
}

func TestSchedule_Methods(t *testing.T) {
	t.Parallel()

	schedule := fee.NewSchedule(defaultFees())

	require.Equal(t, entity.PaymentMethods(), schedule.Methods())
}
