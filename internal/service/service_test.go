package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Mohamedgad1983/PROShael-sub019/internal/config"
	"github.com/Mohamedgad1983/PROShael-sub019/internal/currency"
	"github.com/Mohamedgad1983/PROShael-sub019/internal/entity"
	"github.com/Mohamedgad1983/PROShael-sub019/internal/fee"
	"github.com/Mohamedgad1983/PROShael-sub019/internal/ledger"
	"github.com/Mohamedgad1983/PROShael-sub019/internal/payment"
	"github.com/Mohamedgad1983/PROShael-sub019/internal/service"
	"github.com/Mohamedgad1983/PROShael-sub019/internal/status"
	"github.com/Mohamedgad1983/PROShael-sub019/pkg/cache"
	mock_logger "github.com/Mohamedgad1983/PROShael-sub019/pkg/logger/mock"
	"github.com/Mohamedgad1983/PROShael-sub019/pkg/metric"
	"github.com/Mohamedgad1983/PROShael-sub019/pkg/storage/postgres"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// In-memory repository fakes. The service's correctness depends on its real
// domain collaborators (validator, machine, ledger), so behavioral fakes for
// the persistence edge give more signal than expectation mocks.

type fakePaymentRepo struct {
	mu       sync.Mutex
	payments map[string]*entity.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[string]*entity.Payment)}
}

func (r *fakePaymentRepo) Create(
	_ context.Context,
	_ postgres.QueryExecuter,
	p *entity.Payment,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.payments[p.ID]; exists {
		return nil
	}
	stored := *p
	r.payments[p.ID] = &stored
	return nil
}

func (r *fakePaymentRepo) UpdateStatus(
	_ context.Context,
	_ postgres.QueryExecuter,
	paymentID string,
	newStatus entity.PaymentStatus,
	updatedAt time.Time,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.payments[paymentID]
	if !ok {
		return entity.ErrDataNotFound
	}
	p.Status = newStatus
	p.UpdatedAt = updatedAt
	return nil
}

func (r *fakePaymentRepo) GetByID(_ context.Context, paymentID string) (*entity.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.payments[paymentID]
	if !ok {
		return nil, entity.ErrDataNotFound
	}
	stored := *p
	return &stored, nil
}

func (r *fakePaymentRepo) GetAll(_ context.Context) ([]*entity.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*entity.Payment, 0, len(r.payments))
	for _, p := range r.payments {
		stored := *p
		out = append(out, &stored)
	}
	return out, nil
}

type fakeTransitionRepo struct {
	mu          sync.Mutex
	transitions []entity.StatusTransition
}

func (r *fakeTransitionRepo) Create(
	_ context.Context,
	_ postgres.QueryExecuter,
	transition *entity.StatusTransition,
	_ int,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transitions = append(r.transitions, *transition)
	return nil
}

func (r *fakeTransitionRepo) GetByPaymentID(
	_ context.Context,
	paymentID string,
) ([]entity.StatusTransition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []entity.StatusTransition
	for _, t := range r.transitions {
		if t.PaymentID == paymentID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTransitionRepo) GetAll(_ context.Context) ([]entity.StatusTransition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]entity.StatusTransition, len(r.transitions))
	copy(out, r.transitions)
	return out, nil
}

type fakeLogRepo struct {
	mu      sync.Mutex
	entries []entity.TransactionLogEntry
}

func (r *fakeLogRepo) Create(
	_ context.Context,
	_ postgres.QueryExecuter,
	entry *entity.TransactionLogEntry,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeLogRepo) GetAll(_ context.Context) ([]entity.TransactionLogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]entity.TransactionLogEntry, len(r.entries))
	copy(out, r.entries)
	return out, nil
}

type fakeTxManager struct {
	err error
}

func (m *fakeTxManager) ExecuteInTransaction(
	_ context.Context,
	_ string,
	fn func(tx postgres.QueryExecuter) error,
) error {
	if m.err != nil {
		return m.err
	}
	return fn(nil)
}

type testEnv struct {
	svc            *service.PaymentService
	paymentRepo    *fakePaymentRepo
	transitionRepo *fakeTransitionRepo
	logRepo        *fakeLogRepo
	txManager      *fakeTxManager
	ledger         *ledger.Ledger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithRepos(t, newFakePaymentRepo(), &fakeTransitionRepo{}, &fakeLogRepo{})
}

func validRequest() *entity.PaymentRequest {
	return &entity.PaymentRequest{
		Amount:        decimal.RequireFromString("1000"),
		Currency:      "SAR",
		PayerID:       gofakeit.Username(),
		PaymentMethod: entity.MethodCard,
		Description:   gofakeit.Sentence(4),
	}
}

func TestPaymentService_CreatePayment(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	clientContext := map[string]any{"ip": "203.0.113.7", "user_agent": "test-agent"}

	created, err := env.svc.CreatePayment(ctx, validRequest(), clientContext)
	require.NoError(t, err)

	require.Equal(t, entity.StatusPending, created.Status)
	require.True(t, created.Fee.Equal(decimal.RequireFromString("25")))
	require.True(t, created.NetAmount.Equal(decimal.RequireFromString("975")))
	require.True(t, created.BaseCurrencyAmount.Equal(created.Amount))

	persisted, err := env.paymentRepo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, persisted.ID)

	entries := env.ledger.AuditTrail(created.PayerID)
	require.Len(t, entries, 1)
	require.Equal(t, ledger.EntryTypePaymentCreated, entries[0].Type)
	require.Equal(t, clientContext, entries[0].Metadata)

	require.Len(t, env.logRepo.entries, 1)
	require.Equal(t, entries[0].ID, env.logRepo.entries[0].ID)
}

func TestPaymentService_CreatePaymentConvertsToBase(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	req := validRequest()
	req.Currency = "USD"
	req.Amount = decimal.RequireFromString("200")

	created, err := env.svc.CreatePayment(context.Background(), req, nil)
	require.NoError(t, err)
	require.True(t, created.BaseCurrencyAmount.Equal(decimal.RequireFromString("740.74")),
		"got %s", created.BaseCurrencyAmount)
}

func TestPaymentService_CreatePaymentInvalidRequest(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	req := validRequest()
	req.Amount = decimal.Zero
	req.Currency = "GBP"

	created, err := env.svc.CreatePayment(context.Background(), req, nil)
	require.Nil(t, created)

	var validationErr *entity.ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Len(t, validationErr.Errors, 2)

	// a rejected request leaves no trace anywhere
	require.Equal(t, 0, env.ledger.Len())
	require.Empty(t, env.logRepo.entries)
	all, _ := env.paymentRepo.GetAll(context.Background())
	require.Empty(t, all)
}

func TestPaymentService_CreatePaymentPersistFailure(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.txManager.err = errors.New("connection reset")

	created, err := env.svc.CreatePayment(context.Background(), validRequest(), nil)
	require.Error(t, err)
	require.Nil(t, created)

	// the in-memory log must never run ahead of storage
	require.Equal(t, 0, env.ledger.Len())
}

func TestPaymentService_TransitionStatus(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.svc.CreatePayment(ctx, validRequest(), nil)
	require.NoError(t, err)

	result, err := env.svc.TransitionStatus(
		ctx, created.ID, entity.StatusPending, entity.StatusProcessing,
		map[string]any{"actor": "ops"},
	)
	require.NoError(t, err)
	require.Equal(t, entity.StatusProcessing, result.Status)
	require.Equal(t, entity.StatusPending, result.PreviousStatus)

	updated, err := env.svc.GetPayment(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, entity.StatusProcessing, updated.Status)

	history, err := env.svc.GetHistory(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, map[string]any{"actor": "ops"}, history[0].Metadata)

	require.Len(t, env.transitionRepo.transitions, 1)

	trail := env.svc.AuditTrail(created.PayerID)
	require.Len(t, trail, 2)
	require.Equal(t, ledger.EntryTypeStatusChange, trail[1].Type)
	require.Equal(t, map[string]any{
		"from_status": string(entity.StatusPending),
		"to_status":   string(entity.StatusProcessing),
	}, trail[1].Metadata)
}

func TestPaymentService_TransitionStatusIllegalMove(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.svc.CreatePayment(ctx, validRequest(), nil)
	require.NoError(t, err)

	_, err = env.svc.TransitionStatus(
		ctx, created.ID, entity.StatusPending, entity.StatusRefunded, nil,
	)

	var transitionErr *entity.InvalidTransitionError
	require.ErrorAs(t, err, &transitionErr)

	// state is untouched after a rejection
	current, err := env.svc.GetPayment(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, entity.StatusPending, current.Status)
	require.Empty(t, env.transitionRepo.transitions)
}

func TestPaymentService_TransitionStatusStaleFrom(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.svc.CreatePayment(ctx, validRequest(), nil)
	require.NoError(t, err)

	_, err = env.svc.TransitionStatus(
		ctx, created.ID, entity.StatusPending, entity.StatusProcessing, nil,
	)
	require.NoError(t, err)

	_, err = env.svc.TransitionStatus(
		ctx, created.ID, entity.StatusPending, entity.StatusCancelled, nil,
	)

	var transitionErr *entity.InvalidTransitionError
	require.ErrorAs(t, err, &transitionErr)
}

func TestPaymentService_TransitionStatusUnknownPayment(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	_, err := env.svc.TransitionStatus(
		context.Background(), "PAY-missing", entity.StatusPending, entity.StatusProcessing, nil,
	)
	require.ErrorIs(t, err, entity.ErrDataNotFound)
}

func TestPaymentService_ConcurrentTransitionsOnlyOneWins(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.svc.CreatePayment(ctx, validRequest(), nil)
	require.NoError(t, err)

	const attempts = 10

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)

	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, transitionErr := env.svc.TransitionStatus(
				ctx, created.ID, entity.StatusPending, entity.StatusProcessing, nil,
			)
			if transitionErr == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1, succeeded)

	history, err := env.svc.GetHistory(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Len(t, env.transitionRepo.transitions, 1)
}

func TestPaymentService_TransitionDoesNotMutateSharedAggregate(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.svc.CreatePayment(ctx, validRequest(), nil)
	require.NoError(t, err)

	// A reader holding the aggregate from before the transition must keep
	// seeing the old snapshot; only fresh reads observe the new status.
	before, err := env.svc.GetPayment(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, entity.StatusPending, before.Status)

	_, err = env.svc.TransitionStatus(
		ctx, created.ID, entity.StatusPending, entity.StatusProcessing, nil,
	)
	require.NoError(t, err)

	require.Equal(t, entity.StatusPending, before.Status)

	after, err := env.svc.GetPayment(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, entity.StatusProcessing, after.Status)
}

func TestPaymentService_ConcurrentReadsDuringTransitions(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.svc.CreatePayment(ctx, validRequest(), nil)
	require.NoError(t, err)

	steps := []struct{ from, to entity.PaymentStatus }{
		{entity.StatusPending, entity.StatusProcessing},
		{entity.StatusProcessing, entity.StatusCompleted},
		{entity.StatusCompleted, entity.StatusRefunded},
	}

	var (
		wg        sync.WaitGroup
		readerErr error
	)
	done := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
				p, getErr := env.svc.GetPayment(ctx, created.ID)
				if getErr != nil {
					readerErr = getErr
					return
				}
				if !p.Status.Valid() {
					readerErr = fmt.Errorf("read torn status %q", p.Status)
					return
				}
			}
		}
	}()

	for _, step := range steps {
		_, err = env.svc.TransitionStatus(ctx, created.ID, step.from, step.to, nil)
		require.NoError(t, err)
	}
	close(done)
	wg.Wait()
	require.NoError(t, readerErr)

	final, err := env.svc.GetPayment(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, entity.StatusRefunded, final.Status)
}

func TestPaymentService_GetPaymentFallsBackToRepository(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	seeded := &entity.Payment{
		ID:       "PAY-cold",
		PayerID:  "alice",
		Amount:   decimal.RequireFromString("42"),
		Currency: "SAR",
		Status:   entity.StatusPending,
	}
	require.NoError(t, env.paymentRepo.Create(ctx, nil, seeded))

	fetched, err := env.svc.GetPayment(ctx, "PAY-cold")
	require.NoError(t, err)
	require.Equal(t, seeded.ID, fetched.ID)

	_, err = env.svc.GetPayment(ctx, "PAY-missing")
	require.ErrorIs(t, err, entity.ErrDataNotFound)
}

func TestPaymentService_VerifyLogEntry(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.svc.CreatePayment(ctx, validRequest(), nil)
	require.NoError(t, err)

	entries := env.svc.AuditTrail(created.PayerID)
	require.Len(t, entries, 1)

	valid, err := env.svc.VerifyLogEntry(entries[0].ID)
	require.NoError(t, err)
	require.True(t, valid)

	_, err = env.svc.VerifyLogEntry("LOG-missing")
	require.ErrorIs(t, err, entity.ErrDataNotFound)
}

func TestPaymentService_Summary(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	amounts := []struct {
		amount   string
		currency string
	}{
		{"100", "SAR"},
		{"75", "SAR"},
		{"200", "USD"},
		{"150", "EUR"},
		{"50", "KWD"},
	}

	var lastID string
	for _, a := range amounts {
		req := validRequest()
		req.Amount = decimal.RequireFromString(a.amount)
		req.Currency = a.currency

		created, createErr := env.svc.CreatePayment(ctx, req, nil)
		require.NoError(t, createErr)
		lastID = created.ID
	}

	// a status change entry must not inflate the payment totals
	_, err := env.svc.TransitionStatus(
		ctx, lastID, entity.StatusPending, entity.StatusProcessing, nil,
	)
	require.NoError(t, err)

	summary, err := env.svc.Summary()
	require.NoError(t, err)

	require.Equal(t, 5, summary.Entries)
	require.True(t, summary.BaseCurrencyTotal.Equal(decimal.RequireFromString("2125.50")),
		"got %s", summary.BaseCurrencyTotal)
	require.Equal(t, 2, summary.Totals["SAR"].Count)
	require.True(t, summary.Totals["SAR"].OriginalTotal.Equal(decimal.RequireFromString("175")))
}

func TestPaymentService_RestoreState(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	seed := newTestEnv(t)
	created, err := seed.svc.CreatePayment(ctx, validRequest(), nil)
	require.NoError(t, err)

	_, err = seed.svc.TransitionStatus(
		ctx, created.ID, entity.StatusPending, entity.StatusProcessing, nil,
	)
	require.NoError(t, err)

	// fresh process sharing the same storage
	env := newTestEnvWithRepos(t, seed.paymentRepo, seed.transitionRepo, seed.logRepo)
	require.NoError(t, env.svc.RestoreState(ctx))

	fetched, err := env.svc.GetPayment(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, entity.StatusProcessing, fetched.Status)

	history, err := env.svc.GetHistory(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)

	trail := env.svc.AuditTrail(created.PayerID)
	require.Len(t, trail, 2)

	for _, entry := range trail {
		valid, verifyErr := env.svc.VerifyLogEntry(entry.ID)
		require.NoError(t, verifyErr)
		require.True(t, valid)
	}

	// restored history still gates transitions
	_, err = env.svc.TransitionStatus(
		ctx, created.ID, entity.StatusPending, entity.StatusCancelled, nil,
	)
	require.Error(t, err)

	_, err = env.svc.TransitionStatus(
		ctx, created.ID, entity.StatusProcessing, entity.StatusCompleted, nil,
	)
	require.NoError(t, err)
}

func newTestEnvWithRepos(
	t *testing.T,
	paymentRepo *fakePaymentRepo,
	transitionRepo *fakeTransitionRepo,
	logRepo *fakeLogRepo,
) *testEnv {
	t.Helper()

	ctrl := gomock.NewController(t)
	mockLogger := mock_logger.NewMockLogger(ctrl)
	mockLogger.EXPECT().Ctx(gomock.Any()).Return(mockLogger).AnyTimes()
	mockLogger.EXPECT().LogAttrs(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Debugw(gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Infow(gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Warnw(gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Errorw(gomock.Any(), gomock.Any()).AnyTimes()

	metrics := metric.NewFactory()

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

	paymentCache, err := cache.NewLRUCache[string, *entity.Payment](
		128,
		mockLogger,
		metrics.Cache(),
	)
	require.NoError(t, err)

	env := &testEnv{
		paymentRepo:    paymentRepo,
		transitionRepo: transitionRepo,
		logRepo:        logRepo,
		txManager:      &fakeTxManager{},
		ledger:         ledger.NewLedger(mockLogger, metrics.Ledger()),
	}

	env.svc = service.NewPaymentService(
		payment.NewValidator(schedule, table),
		fee.NewCalculator(schedule),
		currency.NewNormalizer(table),
		status.NewMachine(mockLogger, metrics.Ledger()),
		env.ledger,
		env.paymentRepo,
		env.transitionRepo,
		env.logRepo,
		env.txManager,
		mockLogger,
		metrics.Ledger(),
		paymentCache,
		time.Minute,
	)

	return env
}
