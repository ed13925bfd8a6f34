package kafkat

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Mohamedgad1983/PROShael-sub019/internal/entity"
	"github.com/Mohamedgad1983/PROShael-sub019/internal/service"
	"github.com/Mohamedgad1983/PROShael-sub019/pkg/kafka/dlq"
	"github.com/Mohamedgad1983/PROShael-sub019/pkg/logger"
	"github.com/Mohamedgad1983/PROShael-sub019/pkg/metric"

	"github.com/segmentio/kafka-go"
	"golang.org/x/sync/errgroup"
)

type DLQ interface {
	Send(ctx context.Context, msg kafka.Message, err error, retryCount int) error
}

type PaymentConsumer struct {
	reader *kafka.Reader
	dlq    *dlq.DLQ
	svc    *service.PaymentService
	metric metric.Kafka
	log    logger.Logger
}

func NewPaymentConsumer(
	reader *kafka.Reader,
	dlq *dlq.DLQ,
	svc *service.PaymentService,
	metric metric.Kafka,
	log logger.Logger,
) *PaymentConsumer {
	return &PaymentConsumer{
		reader: reader,
		dlq:    dlq,
		svc:    svc,
		metric: metric,
		log:    log,
	}
}

func (c *PaymentConsumer) Start(ctx context.Context) error {
	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		return c.run(ctx)
	})

	eg.Go(func() error {
		<-ctx.Done()
		c.log.Infow("shutting down consumer")
		return c.reader.Close()
	})

	if err := eg.Wait(); err != nil {
		return fmt.Errorf("transport.kafka.payment_consumer.Start: %w", err)
	}
	return nil
}

func (c *PaymentConsumer) run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("transport.kafka.payment_consumer.run: %w", err)
			}
			return nil
		default:
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if errors.Is(ctx.Err(), context.Canceled) {
					return nil
				}
				c.log.Errorw("kafka read failed",
					"error", err,
				)
				continue
			}

			c.metric.MessageProcessed(msg.Topic, msg.Partition)
			c.processMessage(ctx, msg)
		}
	}
}

func (c *PaymentConsumer) processMessage(ctx context.Context, msg kafka.Message) {
	c.log.Infow("processing kafka message",
		"topic", msg.Topic,
		"partition", msg.Partition,
		"offset", msg.Offset,
	)

	err := dlq.ProcessWithRetry(
		ctx,
		msg,
		c.handleMessage,
		c.dlq,
		c.log,
	)
	if err != nil {
		// Requests that fail validation will never succeed on retry;
		// they are logged and dropped instead of clogging the DLQ.
		var validationErr *entity.ValidationError
		if errors.As(err, &validationErr) {
			c.log.Warnw("dropping invalid payment request",
				"offset", msg.Offset,
				"errors", validationErr.Errors,
			)
			c.metric.MessageFailed(msg.Topic, msg.Partition, "validation_failed")
			return
		}

		dlqErr := c.dlq.Send(ctx, msg, err, c.dlq.MaxAttempts)
		if dlqErr != nil {
			c.log.Errorw("critical: failed to send to DLQ after retries",
				"offset", msg.Offset,
				"original_error", err,
				"dlq_error", dlqErr,
			)
			c.log.Errorw("dlq fallback",
				"payload_hash", sha256.Sum256(msg.Value),
				"offset", msg.Offset,
			)
		} else {
			c.log.Infow("message sent to DLQ after max retries",
				"offset", msg.Offset,
				"retry_count", c.dlq.MaxAttempts,
			)
		}
		c.metric.MessageFailed(msg.Topic, msg.Partition, "retry_limit_exceeded")
	}
}

func (c *PaymentConsumer) handleMessage(ctx context.Context, msg kafka.Message) error {
	const op = "transport.kafka.payment_consumer.handleMessage"

	var req entity.PaymentRequest
	if err := json.Unmarshal(msg.Value, &req); err != nil {
		return fmt.Errorf("%s: unmarshal payment request: %w", op, err)
	}

	clientContext := map[string]any{
		"source":      "kafka",
		"topic":       msg.Topic,
		"message_key": string(msg.Key),
	}

	created, err := c.svc.CreatePayment(ctx, &req, clientContext)
	if err != nil {
		// A request that fails domain validation can never succeed on
		// retry; short-circuit the backoff loop.
		var validationErr *entity.ValidationError
		if errors.As(err, &validationErr) {
			return dlq.Permanent(fmt.Errorf("%s: create payment: %w", op, err))
		}
		return fmt.Errorf("%s: create payment: %w", op, err)
	}

	c.log.Infow("payment recorded from kafka",
		"payment_id", created.ID,
		"payer_id", created.PayerID,
		"offset", msg.Offset,
	)

	return nil
}
