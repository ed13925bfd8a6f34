package main

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/Mohamedgad1983/PROShael-sub019/internal/config"
	"github.com/Mohamedgad1983/PROShael-sub019/internal/currency"
	"github.com/Mohamedgad1983/PROShael-sub019/internal/entity"
	"github.com/Mohamedgad1983/PROShael-sub019/internal/fee"
	"github.com/Mohamedgad1983/PROShael-sub019/internal/ledger"
	"github.com/Mohamedgad1983/PROShael-sub019/internal/payment"
	"github.com/Mohamedgad1983/PROShael-sub019/internal/repository"
	"github.com/Mohamedgad1983/PROShael-sub019/internal/service"
	"github.com/Mohamedgad1983/PROShael-sub019/internal/status"
	"github.com/Mohamedgad1983/PROShael-sub019/pkg/cache"
	"github.com/Mohamedgad1983/PROShael-sub019/pkg/logger"
	"github.com/Mohamedgad1983/PROShael-sub019/pkg/metric"
	"github.com/Mohamedgad1983/PROShael-sub019/pkg/storage/postgres"
	"github.com/Mohamedgad1983/PROShael-sub019/pkg/storage/postgres/transaction"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type IntegrationTestSuite struct {
	suite.Suite

	db             *postgres.Postgres
	paymentService *service.PaymentService
	cfg            *config.Config
}

func (s *IntegrationTestSuite) SetupSuite() {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	cfg, err := config.Load()
	s.Require().NoError(err, "Failed to load configuration")
	s.cfg = cfg

	testLogger, err := logger.NewAdapter(cfg)
	s.Require().NoError(err)

	maxRetries := 10
	var db *postgres.Postgres

	for i := range maxRetries {
		db, err = postgres.NewPostgres(&cfg.Postgres, testLogger)
		if err == nil {
			break
		}
		testLogger.Info("Waiting for database to be ready...", "attempt", i+1, "error", err.Error())
		time.Sleep(5 * time.Second)
	}
	s.Require().NoError(err, "Failed to connect to postgres after retries")
	s.db = db

	err = db.Pool.Ping(ctx)
	s.Require().NoError(err, "Failed to ping database")

	metrics := metric.NewFactory()

	txManager, err := transaction.NewManager(db, testLogger, metrics.Transaction())
	s.Require().NoError(err)

	schedule := fee.NewSchedule(cfg.Fees)
	table := currency.NewTable(cfg.Currency)

	paymentCache, err := cache.NewLRUCache[string, *entity.Payment](
		cfg.Cache.Capacity,
		testLogger,
		metrics.Cache(),
	)
	s.Require().NoError(err)

	s.paymentService = service.NewPaymentService(
		payment.NewValidator(schedule, table),
		fee.NewCalculator(schedule),
		currency.NewNormalizer(table),
		status.NewMachine(testLogger, metrics.Ledger()),
		ledger.NewLedger(testLogger, metrics.Ledger()),
		repository.NewPaymentRepository(db),
		repository.NewTransitionRepository(db),
		repository.NewLogEntryRepository(db),
		txManager,
		testLogger,
		metrics.Ledger(),
		paymentCache,
		cfg.Cache.TTL,
	)
}

func (s *IntegrationTestSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Pool.Close()
	}
}

func (s *IntegrationTestSuite) TearDownTest() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err := s.db.Pool.Exec(
		ctx,
		"TRUNCATE TABLE transaction_log, status_transitions, payments RESTART IDENTITY CASCADE;",
	)
	s.Require().NoError(err)
}

func (s *IntegrationTestSuite) TestCreateAndGetPayment() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	req := generateFakePaymentRequest()

	created, err := s.paymentService.CreatePayment(ctx, req, map[string]any{"source": "integration"})
	s.Require().NoError(err)
	s.Require().NotNil(created)
	s.Require().Equal(entity.StatusPending, created.Status)
	s.Require().Equal(req.PayerID, created.PayerID)
	diff := created.Fee.Add(created.NetAmount).Sub(created.Amount).Abs()
	s.Require().True(diff.LessThanOrEqual(decimal.New(1, -2)))

	retrieved, err := s.paymentService.GetPayment(ctx, created.ID)
	s.Require().NoError(err)
	s.Require().NotNil(retrieved)
	s.Require().Equal(created.ID, retrieved.ID)
	s.Require().True(created.Amount.Equal(retrieved.Amount))
	s.Require().Equal(created.Currency, retrieved.Currency)
}

func (s *IntegrationTestSuite) TestTransitionPersistsHistory() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	req := generateFakePaymentRequest()

	created, err := s.paymentService.CreatePayment(ctx, req, nil)
	s.Require().NoError(err)

	result, err := s.paymentService.TransitionStatus(
		ctx,
		created.ID,
		entity.StatusPending,
		entity.StatusProcessing,
		map[string]any{"actor": "integration-test"},
	)
	s.Require().NoError(err)
	s.Require().Equal(entity.StatusProcessing, result.Status)
	s.Require().Equal(entity.StatusPending, result.PreviousStatus)

	history, err := s.paymentService.GetHistory(ctx, created.ID)
	s.Require().NoError(err)
	s.Require().Len(history, 1)
	s.Require().Equal(entity.StatusPending, history[0].FromStatus)
	s.Require().Equal(entity.StatusProcessing, history[0].ToStatus)

	trail := s.paymentService.AuditTrail(created.PayerID)
	s.Require().Len(trail, 2)
	s.Require().Equal(ledger.EntryTypePaymentCreated, trail[0].Type)
	s.Require().Equal(ledger.EntryTypeStatusChange, trail[1].Type)
}

func (s *IntegrationTestSuite) TestLedgerEntriesVerify() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	created, err := s.paymentService.CreatePayment(ctx, generateFakePaymentRequest(), nil)
	s.Require().NoError(err)

	entries := s.paymentService.QueryLogs(entity.LogFilter{PayerID: created.PayerID})
	s.Require().NotEmpty(entries)

	for _, entry := range entries {
		valid, verifyErr := s.paymentService.VerifyLogEntry(entry.ID)
		s.Require().NoError(verifyErr)
		s.Require().True(valid)
	}
}

func TestIntegration(t *testing.T) {
	t.Parallel()
	if os.Getenv("INTEGRATION_TEST") == "" {
		t.Skip("Skipping integration test; set INTEGRATION_TEST to run.")
	}
	suite.Run(t, new(IntegrationTestSuite))
}

func generateFakePaymentRequest() *entity.PaymentRequest {
	methods := entity.PaymentMethods()
	currencies := []string{"SAR", "KWD", "USD", "EUR"}

	return &entity.PaymentRequest{
		Amount:        decimal.NewFromFloat(gofakeit.Price(10, 5000)).Round(2),
		Currency:      currencies[gofakeit.Number(0, len(currencies)-1)],
		PayerID:       gofakeit.Username(),
		PaymentMethod: methods[gofakeit.Number(0, len(methods)-1)],
		Description:   gofakeit.Sentence(5),
		Metadata:      map[string]any{"reference": gofakeit.UUID()},
	}
}
