//nolint:mnd
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/Mohamedgad1983/PROShael-sub019/internal/entity"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

func main() {
	kafkaBrokers := flag.String(
		"brokers",
		"kafka:29092",
		"Kafka bootstrap brokers to connect to, as a comma separated list",
	)
	kafkaTopic := flag.String("topic", "payments-dev", "Kafka topic to write messages to")
	numMessages := flag.Int("count", 1, "Number of messages to send")
	interval := flag.Duration("interval", 1*time.Second, "Interval between sending messages")

	flag.Parse()

	writer := &kafka.Writer{
		Addr:     kafka.TCP(*kafkaBrokers),
		Topic:    *kafkaTopic,
		Balancer: &kafka.LeastBytes{},
	}
	defer writer.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Printf(
		"Starting Kafka producer. Will send %d messages to topic '%s' at broker(s) '%s' every %v\n",
		*numMessages,
		*kafkaTopic,
		*kafkaBrokers,
		*interval,
	)

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	messagesSent := 0

	sendMessage(ctx, writer)

	messagesSent++
	if messagesSent >= *numMessages {
		log.Printf("Sent all %d messages. Exiting.\n", *numMessages)
		return
	}

	for {
		select {
		case <-ctx.Done():
			log.Println("Shutting down producer...")
			return
		case <-ticker.C:
			sendMessage(ctx, writer)
			messagesSent++
			if messagesSent >= *numMessages {
				log.Printf("Sent all %d messages. Exiting.\n", *numMessages)
				return
			}
		}
	}
}

func sendMessage(ctx context.Context, writer *kafka.Writer) {
	messageKey := uuid.NewString()

	req := generateFakePaymentRequest()
	reqBytes, err := json.Marshal(req)
	if err != nil {
		log.Printf("Failed to marshal payment request: %v", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(messageKey),
		Value: reqBytes,
	}

	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = writer.WriteMessages(writeCtx, msg)
	if err != nil {
		log.Printf("Failed to write message to Kafka: %v", err)
	}

	log.Printf("Successfully sent payment request for payer: %s", req.PayerID)
}

func generateFakePaymentRequest() *entity.PaymentRequest {
	methods := entity.PaymentMethods()
	currencies := []string{"SAR", "KWD", "USD", "EUR"}

	amount := decimal.NewFromFloat(gofakeit.Price(10, 5000)).Round(2)

	return &entity.PaymentRequest{
		Amount:        amount,
		Currency:      currencies[gofakeit.Number(0, len(currencies)-1)],
		PayerID:       gofakeit.Username(),
		PaymentMethod: methods[gofakeit.Number(0, len(methods)-1)],
		Description:   gofakeit.Sentence(6),
		Metadata: map[string]any{
			"channel":   "producer",
			"reference": gofakeit.UUID(),
		},
	}
}
