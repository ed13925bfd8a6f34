package app

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/Mohamedgad1983/PROShael-sub019/internal/config"
	"github.com/Mohamedgad1983/PROShael-sub019/internal/currency"
	"github.com/Mohamedgad1983/PROShael-sub019/internal/entity"
	"github.com/Mohamedgad1983/PROShael-sub019/internal/fee"
	"github.com/Mohamedgad1983/PROShael-sub019/internal/ledger"
	"github.com/Mohamedgad1983/PROShael-sub019/internal/payment"
	"github.com/Mohamedgad1983/PROShael-sub019/internal/repository"
	"github.com/Mohamedgad1983/PROShael-sub019/internal/service"
	"github.com/Mohamedgad1983/PROShael-sub019/internal/status"
	httpt "github.com/Mohamedgad1983/PROShael-sub019/internal/transport/http"
	kafkat "github.com/Mohamedgad1983/PROShael-sub019/internal/transport/kafka"
	"github.com/Mohamedgad1983/PROShael-sub019/pkg/cache"
	"github.com/Mohamedgad1983/PROShael-sub019/pkg/kafka"
	"github.com/Mohamedgad1983/PROShael-sub019/pkg/kafka/dlq"
	"github.com/Mohamedgad1983/PROShael-sub019/pkg/logger"
	"github.com/Mohamedgad1983/PROShael-sub019/pkg/metric"
	"github.com/Mohamedgad1983/PROShael-sub019/pkg/storage/postgres"
	"github.com/Mohamedgad1983/PROShael-sub019/pkg/storage/postgres/transaction"

	"golang.org/x/sync/errgroup"
)

func Run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	eg, ctx := errgroup.WithContext(ctx)

	metrics := initMetrics(eg, &cfg.Metrics, log)

	db, dbErr := initDatabase(&cfg.Postgres, log)
	if dbErr != nil {
		return dbErr
	}
	defer closeDB(db)

	txManager, txErr := initTransactionManager(
		db,
		log,
		metrics,
	)
	if txErr != nil {
		return txErr
	}

	paymentCache, cacheErr := initCache(&cfg.Cache, log, metrics)
	if cacheErr != nil {
		return cacheErr
	}
	defer stopCache(paymentCache)

	paymentService := initPaymentService(
		cfg,
		db,
		txManager,
		paymentCache,
		log,
		metrics,
	)

	if err := paymentService.RestoreState(ctx); err != nil {
		log.Errorw("failed to restore ledger state from database", "error", err)
	}

	if serverErr := initHTTPServer(ctx, eg, &cfg.HTTP, paymentService, log, metrics); serverErr != nil {
		return serverErr
	}

	if kafkaErr := initKafkaComponents(ctx, eg, cfg, paymentService, log, metrics); kafkaErr != nil {
		return kafkaErr
	}

	return waitForShutdown(eg)
}

func initMetrics(
	eg *errgroup.Group,
	cfg *config.Metrics,
	log logger.Logger,
) metric.Factory {
	metrics := metric.NewFactory()

	hostPort := net.JoinHostPort(cfg.Host, cfg.Port)
	metricsServer := &http.Server{
		Addr:              hostPort,
		Handler:           metrics.Handler(),
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	eg.Go(func() error {
		log.Infow("starting metrics server", "port", cfg.Port)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("app.initMetrics: %w", err)
		}
		return nil
	})

	return metrics
}

func initDatabase(cfg *config.Postgres, log logger.Logger) (*postgres.Postgres, error) {
	db, err := postgres.NewPostgres(
		cfg,
		log.With("component", "database"),
		postgres.MaxPoolSize(cfg.PoolMax),
	)
	if err != nil {
		return nil, fmt.Errorf("app.initDatabase: %w", err)
	}
	return db, nil
}

func closeDB(db *postgres.Postgres) {
	if db != nil {
		db.Close()
	}
}

func initTransactionManager(
	db *postgres.Postgres,
	log logger.Logger,
	metrics metric.Factory,
) (transaction.Manager, error) {
	txManager, err := transaction.NewManager(
		db,
		log.With("component", "transaction manager"),
		metrics.Transaction(),
	)
	if err != nil {
		return nil, fmt.Errorf("app.initTransactionManager: %w", err)
	}
	return txManager, nil
}

func initCache(
	cfg *config.Cache,
	log logger.Logger,
	metrics metric.Factory,
) (cache.Cache[string, *entity.Payment], error) {
	paymentCache, err := cache.NewLRUCache[string, *entity.Payment](
		cfg.Capacity,
		log.With("component", "cache"),
		metrics.Cache(),
	)
	if err != nil {
		return nil, fmt.Errorf("app.initCache: %w", err)
	}
	paymentCache.StartCleanup(cfg.CleanupInterval)
	return paymentCache, nil
}

func stopCache(paymentCache cache.Cache[string, *entity.Payment]) {
	if paymentCache != nil {
		paymentCache.StopCleanup()
	}
}

func initPaymentService(
	cfg *config.Config,
	db *postgres.Postgres,
	txManager transaction.Manager,
	paymentCache cache.Cache[string, *entity.Payment],
	log logger.Logger,
	metrics metric.Factory,
) *service.PaymentService {
	schedule := fee.NewSchedule(cfg.Fees)
	table := currency.NewTable(cfg.Currency)

	validator := payment.NewValidator(schedule, table)
	calculator := fee.NewCalculator(schedule)
	normalizer := currency.NewNormalizer(table)

	ledgerMetrics := metrics.Ledger()
	machine := status.NewMachine(log.With("component", "status machine"), ledgerMetrics)
	ledgerStore := ledger.NewLedger(log.With("component", "ledger"), ledgerMetrics)

	paymentRepo := repository.NewPaymentRepository(db)
	transitionRepo := repository.NewTransitionRepository(db)
	logRepo := repository.NewLogEntryRepository(db)

	paymentService := service.NewPaymentService(
		validator,
		calculator,
		normalizer,
		machine,
		ledgerStore,
		paymentRepo,
		transitionRepo,
		logRepo,
		txManager,
		log.With("component", "payment service"),
		ledgerMetrics,
		paymentCache,
		cfg.Cache.TTL,
	)

	return paymentService
}

func initHTTPServer(
	ctx context.Context,
	eg *errgroup.Group,
	cfg *config.HTTP,
	paymentService *service.PaymentService,
	log logger.Logger,
	metrics metric.Factory,
) error {
	httpServer, err := httpt.NewHTTPServer(
		httpt.NewPaymentHandler(paymentService, log, metrics.HTTP()),
		cfg,
		log.With("component", "http server"),
	)
	if err != nil {
		return fmt.Errorf("app.initHTTPServer: %w", err)
	}

	eg.Go(func() error {
		return httpServer.Start(ctx)
	})
	return nil
}

func initKafkaComponents(
	ctx context.Context,
	eg *errgroup.Group,
	cfg *config.Config,
	paymentService *service.PaymentService,
	log logger.Logger,
	metrics metric.Factory,
) error {
	kafkaReader, err := kafka.NewKafkaReader(cfg.Kafka, log.With("component", "kafka reader"))
	if err != nil {
		return fmt.Errorf("app.initKafkaComponents: kafka reader creation: %w", err)
	}

	deadLetterQueue, err := dlq.NewDLQ(cfg.DLQ, log.With("component", "dlq"), metrics.DLQ())
	if err != nil {
		return fmt.Errorf("app.initKafkaComponents: dead letter queue creation: %w", err)
	}

	paymentConsumer := kafkat.NewPaymentConsumer(
		kafkaReader,
		deadLetterQueue,
		paymentService,
		metrics.Kafka(),
		log,
	)
	eg.Go(func() error {
		return paymentConsumer.Start(ctx)
	})

	dlqProcessor := kafkat.NewDLQProcessor(
		kafkaReader,
		deadLetterQueue,
		paymentService,
		cfg.DLQ.MaxRetryCount,
		log,
	)
	eg.Go(func() error {
		return dlqProcessor.Start(ctx)
	})

	return nil
}

func waitForShutdown(eg *errgroup.Group) error {
	if err := eg.Wait(); err != nil && !isShutdownSignal(err) {
		return fmt.Errorf("app.waitForShutdown: application failed: %w", err)
	}
	return nil
}

func isShutdownSignal(err error) bool {
	return err != nil && err.Error() == "shutdown signal"
}
