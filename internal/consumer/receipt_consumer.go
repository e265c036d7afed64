package consumer

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/Eursukkul/room-booking-service/internal/dto"
	"github.com/Eursukkul/room-booking-service/pkg/logger"
	"github.com/Eursukkul/room-booking-service/pkg/metrics"
)

type ReceiptPatcher interface {
	PatchReceiptURL(ctx context.Context, id, url string) (bool, error)
}

var errMalformed = errors.New("receipt event without valid id or receiptUrl")

// ReceiptConsumer applies receipt-generated events to stored bookings.
type ReceiptConsumer struct {
	svc     ReceiptPatcher
	metrics *metrics.Metrics
	log     *zap.Logger
}

func NewReceiptConsumer(svc ReceiptPatcher, m *metrics.Metrics) *ReceiptConsumer {
	return &ReceiptConsumer{svc: svc, metrics: m, log: logger.Named("consumer")}
}

// Start handles deliveries on a goroutine until msgs closes or ctx is done.
// The returned channel closes when the goroutine exits.
func (rc *ReceiptConsumer) Start(ctx context.Context, msgs <-chan amqp.Delivery) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				rc.log.Info("context cancelled, stopping consumer")
				return
			case msg, ok := <-msgs:
				if !ok {
					rc.log.Info("channel closed, stopping consumer")
					return
				}
				rc.handleMessage(ctx, msg)
			}
		}
	}()
	return done
}

func (rc *ReceiptConsumer) handleMessage(ctx context.Context, msg amqp.Delivery) {
	ev, err := decode(msg.Body)
	if err != nil {
		rc.log.Warn("dropping malformed receipt event", zap.Error(err))
		rc.count("malformed")
		_ = msg.Nack(false, false)
		return
	}

	patched, err := rc.svc.PatchReceiptURL(ctx, ev.ID, *ev.ReceiptURL)
	if err != nil {
		rc.log.Error("failed to patch receipt url", zap.String("booking_id", ev.ID), zap.Error(err))
		rc.count("failed")
		_ = msg.Nack(false, true)
		return
	}

	if patched {
		rc.log.Info("receipt url stored", zap.String("booking_id", ev.ID))
		rc.count("patched")
	} else {
		rc.log.Info("receipt for unknown booking ignored", zap.String("booking_id", ev.ID))
		rc.count("missing")
	}
	_ = msg.Ack(false)
}

func decode(body []byte) (*dto.BookingEvent, error) {
	var ev dto.BookingEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return nil, err
	}
	if ev.ReceiptURL == nil || *ev.ReceiptURL == "" {
		return nil, errMalformed
	}
	// Non-UUID ids never match a booking row.
	id, err := uuid.Parse(ev.ID)
	if err != nil {
		return nil, errMalformed
	}
	ev.ID = id.String()
	return &ev, nil
}

func (rc *ReceiptConsumer) count(result string) {
	if rc.metrics != nil {
		rc.metrics.ReceiptsConsumed.WithLabelValues(result).Inc()
	}
}
