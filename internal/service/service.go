package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Mohamedgad1983/PROShael-sub019/internal/currency"
	"github.com/Mohamedgad1983/PROShael-sub019/internal/entity"
	"github.com/Mohamedgad1983/PROShael-sub019/internal/fee"
	"github.com/Mohamedgad1983/PROShael-sub019/internal/ledger"
	"github.com/Mohamedgad1983/PROShael-sub019/internal/payment"
	"github.com/Mohamedgad1983/PROShael-sub019/internal/status"
	"github.com/Mohamedgad1983/PROShael-sub019/pkg/cache"
	"github.com/Mohamedgad1983/PROShael-sub019/pkg/logger"
	"github.com/Mohamedgad1983/PROShael-sub019/pkg/metric"
	"github.com/Mohamedgad1983/PROShael-sub019/pkg/storage/postgres"
	"github.com/Mohamedgad1983/PROShael-sub019/pkg/storage/postgres/transaction"
)

const (
	_defaultContextTimeout = 500 * time.Millisecond
	_slowOpThreshold       = 200 * time.Millisecond
)

type (
	PaymentRepository interface {
		Create(
			ctx context.Context,
			queryExecuter postgres.QueryExecuter,
			payment *entity.Payment,
		) error
		UpdateStatus(
			ctx context.Context,
			queryExecuter postgres.QueryExecuter,
			paymentID string,
			status entity.PaymentStatus,
			updatedAt time.Time,
		) error
		GetByID(ctx context.Context, paymentID string) (*entity.Payment, error)
		GetAll(ctx context.Context) ([]*entity.Payment, error)
	}

	TransitionRepository interface {
		Create(
			ctx context.Context,
			queryExecuter postgres.QueryExecuter,
			transition *entity.StatusTransition,
			sequenceNumber int,
		) error
		GetByPaymentID(ctx context.Context, paymentID string) ([]entity.StatusTransition, error)
		GetAll(ctx context.Context) ([]entity.StatusTransition, error)
	}

	LogEntryRepository interface {
		Create(
			ctx context.Context,
			queryExecuter postgres.QueryExecuter,
			entry *entity.TransactionLogEntry,
		) error
		GetAll(ctx context.Context) ([]entity.TransactionLogEntry, error)
	}

	// LedgerSummary aggregates the payment-created slice of the log into
	// per-currency and base-currency totals.
	LedgerSummary struct {
		Entries           int                               `json:"entries"`
		Totals            map[string]currency.CurrencyTotal `json:"totals"`
		BaseCurrencyTotal decimal.Decimal                   `json:"base_currency_total"`
	}

	// PaymentService orchestrates validate → fee → normalize → persist →
	// log for creates, and the lifecycle machine for transitions.
	// Operations on the same payment are serialized by a per-id lock;
	// operations on different payments run fully in parallel.
	PaymentService struct {
		validator      *payment.Validator
		fees           *fee.Calculator
		normalizer     *currency.Normalizer
		machine        *status.Machine
		ledger         *ledger.Ledger
		paymentRepo    PaymentRepository
		transitionRepo TransitionRepository
		logRepo        LogEntryRepository
		txManager      transaction.Manager
		logger         logger.Logger
		metrics        metric.Ledger
		cache          cache.Cache[string, *entity.Payment]
		cacheTTL       time.Duration

		paymentLocks sync.Map // payment id -> *sync.Mutex
	}
)

func NewPaymentService(
	validator *payment.Validator,
	fees *fee.Calculator,
	normalizer *currency.Normalizer,
	machine *status.Machine,
	ledgerStore *ledger.Ledger,
	paymentRepo PaymentRepository,
	transitionRepo TransitionRepository,
	logRepo LogEntryRepository,
	txManager transaction.Manager,
	log logger.Logger,
	metrics metric.Ledger,
	paymentCache cache.Cache[string, *entity.Payment],
	cacheTTL time.Duration,
) *PaymentService {
	paymentCache.SetOnEvicted(func(key string, value *entity.Payment) {
		log.Infow("cache eviction",
			"key", key,
			"type", fmt.Sprintf("%T", value),
		)
	})

	return &PaymentService{
		validator:      validator,
		fees:           fees,
		normalizer:     normalizer,
		machine:        machine,
		ledger:         ledgerStore,
		paymentRepo:    paymentRepo,
		transitionRepo: transitionRepo,
		logRepo:        logRepo,
		txManager:      txManager,
		logger:         log,
		metrics:        metrics,
		cache:          paymentCache,
		cacheTTL:       cacheTTL,
	}
}

// lockPayment serializes all operations touching one payment id.
func (ps *PaymentService) lockPayment(paymentID string) func() {
	v, _ := ps.paymentLocks.LoadOrStore(paymentID, &sync.Mutex{})
	mu, _ := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// RestoreState reloads payments, transition history and the transaction log
// from the database at startup so in-memory queries survive restarts.
func (ps *PaymentService) RestoreState(ctx context.Context) error {
	const op = "service.RestoreState"
	log := ps.logger.Ctx(ctx)

	log.LogAttrs(ctx, logger.InfoLevel, "starting state restoration from database")

	payments, err := ps.paymentRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("%s: get all payments: %w", op, err)
	}
	for _, p := range payments {
		ps.cache.Put(p.ID, p, ps.cacheTTL)
	}

	transitions, err := ps.transitionRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("%s: get all transitions: %w", op, err)
	}
	ps.machine.Restore(transitions)

	entries, err := ps.logRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("%s: get all log entries: %w", op, err)
	}
	ps.ledger.Restore(entries)

	log.LogAttrs(ctx, logger.InfoLevel, "state restoration finished",
		logger.Int("payments", len(payments)),
		logger.Int("transitions", len(transitions)),
		logger.Int("log_entries", len(entries)),
	)

	return nil
}

// CreatePayment validates the request, computes fee and base-currency
// figures, persists the aggregate together with its initial log entry, and
// appends the entry to the in-memory ledger. Nothing is recorded when any
// validation rule fails.
func (ps *PaymentService) CreatePayment(
	ctx context.Context,
	req *entity.PaymentRequest,
	clientContext map[string]any,
) (*entity.Payment, error) {
	const op = "service.CreatePayment"
	log := ps.logger.Ctx(ctx)

	startTime := time.Now()
	defer ps.warnIfSlow(ctx, op, startTime)

	created, err := ps.validator.CreatePayment(req)
	if err != nil {
		log.LogAttrs(ctx, logger.WarnLevel, "payment validation failed",
			logger.String("op", op),
			logger.String("payer_id", req.PayerID),
			logger.Any("error", err),
		)
		return nil, fmt.Errorf("%s: validate request: %w", op, err)
	}

	breakdown, err := ps.fees.Calculate(created.Amount, created.PaymentMethod)
	if err != nil {
		return nil, fmt.Errorf("%s: calculate fees: %w", op, err)
	}
	created.Fee = breakdown.Fee
	created.NetAmount = breakdown.NetAmount

	baseAmount, err := ps.normalizer.ToBase(created.Amount, created.Currency)
	if err != nil {
		return nil, fmt.Errorf("%s: convert to base currency: %w", op, err)
	}
	created.BaseCurrencyAmount = baseAmount

	unlock := ps.lockPayment(created.ID)
	defer unlock()

	entry := ps.ledger.NewEntry(created, ledger.EntryTypePaymentCreated, clientContext)

	err = ps.txManager.ExecuteInTransaction(ctx, "CreatePayment",
		func(tx postgres.QueryExecuter) error {
			if txErr := ps.paymentRepo.Create(ctx, tx, created); txErr != nil {
				return transaction.HandleError("CreatePayment", "create payment", txErr)
			}
			if txErr := ps.logRepo.Create(ctx, tx, &entry); txErr != nil {
				return transaction.HandleError("CreatePayment", "create log entry", txErr)
			}
			return nil
		},
	)
	if err != nil {
		log.LogAttrs(ctx, logger.ErrorLevel, "payment creation failed",
			logger.String("op", op),
			logger.String("payment_id", created.ID),
			logger.Any("error", err),
		)
		return nil, err
	}

	ps.ledger.Append(entry)
	ps.cache.Put(created.ID, created, ps.cacheTTL)
	ps.metrics.PaymentCreated(string(created.PaymentMethod), created.Currency)

	log.LogAttrs(ctx, logger.InfoLevel, "payment created",
		logger.String("op", op),
		logger.String("payment_id", created.ID),
		logger.String("payer_id", created.PayerID),
		logger.String("amount", created.Amount.String()),
		logger.String("currency", created.Currency),
	)

	return created, nil
}

// TransitionStatus moves a payment through its lifecycle. The aggregate's
// current status must match the caller's from-status; the machine enforces
// the transition table and appends history atomically. The new status, the
// history record and a status-change log entry are persisted in one
// transaction with idempotent writes.
func (ps *PaymentService) TransitionStatus(
	ctx context.Context,
	paymentID string,
	from, to entity.PaymentStatus,
	metadata map[string]any,
) (*entity.TransitionResult, error) {
	const op = "service.TransitionStatus"
	log := ps.logger.Ctx(ctx)

	startTime := time.Now()
	defer ps.warnIfSlow(ctx, op, startTime)

	unlock := ps.lockPayment(paymentID)
	defer unlock()

	current, err := ps.getPayment(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("%s: get payment: %w", op, err)
	}

	if current.Status != from {
		log.LogAttrs(ctx, logger.WarnLevel, "transition rejected: stale from-status",
			logger.String("op", op),
			logger.String("payment_id", paymentID),
			logger.String("requested_from", string(from)),
			logger.String("actual_status", string(current.Status)),
		)
		return nil, &entity.InvalidTransitionError{From: from, To: to}
	}

	result, err := ps.machine.Transition(paymentID, from, to, metadata)
	if err != nil {
		return nil, fmt.Errorf("%s: transition: %w", op, err)
	}

	// The cached aggregate is shared with concurrent readers; mutate a copy
	// and swap it in only after the transaction commits.
	updated := *current
	updated.Status = to
	updated.UpdatedAt = result.TransitionTime

	history := ps.machine.History(paymentID)
	sequenceNumber := len(history) - 1
	appended := history[sequenceNumber]

	entry := ps.ledger.NewEntry(&updated, ledger.EntryTypeStatusChange, map[string]any{
		"from_status": string(from),
		"to_status":   string(to),
	})

	err = ps.txManager.ExecuteInTransaction(ctx, "TransitionStatus",
		func(tx postgres.QueryExecuter) error {
			if txErr := ps.paymentRepo.UpdateStatus(
				ctx, tx, paymentID, to, result.TransitionTime,
			); txErr != nil {
				return transaction.HandleError("TransitionStatus", "update payment", txErr)
			}
			if txErr := ps.transitionRepo.Create(ctx, tx, &appended, sequenceNumber); txErr != nil {
				return transaction.HandleError("TransitionStatus", "create transition", txErr)
			}
			if txErr := ps.logRepo.Create(ctx, tx, &entry); txErr != nil {
				return transaction.HandleError("TransitionStatus", "create log entry", txErr)
			}
			return nil
		},
	)
	if err != nil {
		log.LogAttrs(ctx, logger.ErrorLevel, "transition persistence failed",
			logger.String("op", op),
			logger.String("payment_id", paymentID),
			logger.Any("error", err),
		)
		return nil, err
	}

	ps.ledger.Append(entry)
	ps.cache.Put(paymentID, &updated, ps.cacheTTL)

	log.LogAttrs(ctx, logger.InfoLevel, "payment status changed",
		logger.String("op", op),
		logger.String("payment_id", paymentID),
		logger.String("from", string(from)),
		logger.String("to", string(to)),
	)

	return result, nil
}

// GetPayment serves the aggregate from cache, falling back to the database.
func (ps *PaymentService) GetPayment(
	ctx context.Context,
	paymentID string,
) (*entity.Payment, error) {
	const op = "service.GetPayment"
	log := ps.logger.Ctx(ctx)

	if cached, found := ps.cache.Get(paymentID); found {
		return cached, nil
	}

	log.LogAttrs(ctx, logger.DebugLevel, "cache miss",
		logger.String("op", op),
		logger.String("payment_id", paymentID),
	)

	fetchCtx, cancel := context.WithTimeout(ctx, _defaultContextTimeout)
	defer cancel()

	fetched, err := ps.paymentRepo.GetByID(fetchCtx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ps.cache.Put(paymentID, fetched, ps.cacheTTL)
	return fetched, nil
}

// getPayment is GetPayment without the read-path logging, for use inside
// operations already holding the per-payment lock.
func (ps *PaymentService) getPayment(
	ctx context.Context,
	paymentID string,
) (*entity.Payment, error) {
	if cached, found := ps.cache.Get(paymentID); found {
		return cached, nil
	}

	fetchCtx, cancel := context.WithTimeout(ctx, _defaultContextTimeout)
	defer cancel()

	return ps.paymentRepo.GetByID(fetchCtx, paymentID)
}

// GetHistory returns a payment's ordered transition sequence.
func (ps *PaymentService) GetHistory(
	ctx context.Context,
	paymentID string,
) ([]entity.StatusTransition, error) {
	if _, err := ps.getPayment(ctx, paymentID); err != nil {
		return nil, fmt.Errorf("service.GetHistory: %w", err)
	}
	return ps.machine.History(paymentID), nil
}

// QueryLogs filters the transaction log; all populated filters AND together.
func (ps *PaymentService) QueryLogs(filter entity.LogFilter) []entity.TransactionLogEntry {
	return ps.ledger.Query(filter)
}

// AuditTrail returns every log entry for one payer in chronological order.
func (ps *PaymentService) AuditTrail(payerID string) []entity.TransactionLogEntry {
	return ps.ledger.AuditTrail(payerID)
}

// VerifyLogEntry recomputes a stored entry's checksum. A false result means
// the entry's core fields were altered after logging.
func (ps *PaymentService) VerifyLogEntry(logID string) (bool, error) {
	entry, ok := ps.ledger.Get(logID)
	if !ok {
		return false, fmt.Errorf("service.VerifyLogEntry: %w", entity.ErrDataNotFound)
	}
	return ps.ledger.VerifyIntegrity(&entry), nil
}

// NormalizeBatch converts a mixed-currency batch into base-currency amounts
// with per-currency totals.
func (ps *PaymentService) NormalizeBatch(
	payments []*entity.Payment,
) (*currency.BatchResult, error) {
	result, err := ps.normalizer.NormalizeBatch(payments)
	if err != nil {
		return nil, fmt.Errorf("service.NormalizeBatch: %w", err)
	}
	return result, nil
}

// FormatAmount renders an amount using the currency's display rules.
func (ps *PaymentService) FormatAmount(amount decimal.Decimal, code string) (string, error) {
	formatted, err := ps.normalizer.Format(amount, code)
	if err != nil {
		return "", fmt.Errorf("service.FormatAmount: %w", err)
	}
	return formatted, nil
}

// Summary aggregates the payment-created entries of the log into
// per-currency and base-currency totals.
func (ps *PaymentService) Summary() (*LedgerSummary, error) {
	const op = "service.Summary"

	summary := &LedgerSummary{
		Totals:            make(map[string]currency.CurrencyTotal),
		BaseCurrencyTotal: decimal.Zero,
	}

	for _, entry := range ps.ledger.Entries() {
		if entry.Type != ledger.EntryTypePaymentCreated {
			continue
		}

		baseAmount, err := ps.normalizer.ToBase(entry.Amount, entry.Currency)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		total := summary.Totals[entry.Currency]
		total.Count++
		total.OriginalTotal = total.OriginalTotal.Add(entry.Amount)
		total.BaseTotal = total.BaseTotal.Add(baseAmount)
		summary.Totals[entry.Currency] = total

		summary.BaseCurrencyTotal = summary.BaseCurrencyTotal.Add(baseAmount)
		summary.Entries++
	}

	return summary, nil
}

func (ps *PaymentService) warnIfSlow(ctx context.Context, op string, startTime time.Time) {
	duration := time.Since(startTime)
	if duration > _slowOpThreshold {
		ps.logger.Ctx(ctx).LogAttrs(ctx, logger.WarnLevel, "slow service operation",
			logger.String("op", op),
			logger.String("duration", duration.String()),
		)
	}
}
