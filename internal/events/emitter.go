package events

import (
	"context"

	"go.uber.org/zap"

	"github.com/Eursukkul/room-booking-service/internal/dto"
	"github.com/Eursukkul/room-booking-service/pkg/logger"
	"github.com/Eursukkul/room-booking-service/pkg/metrics"
)

const (
	RoutingBookingCreated = "booking.created"
	RoutingReviewCreated  = "review.created"
)

type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// Emitter publishes domain events. Publishing is best effort: a failure is
// logged and counted and never reaches the caller.
type Emitter struct {
	pub     Publisher
	metrics *metrics.Metrics
	log     *zap.Logger
}

func NewEmitter(pub Publisher, m *metrics.Metrics) *Emitter {
	return &Emitter{pub: pub, metrics: m, log: logger.Named("events")}
}

func (e *Emitter) BookingCreated(ctx context.Context, ev dto.BookingEvent) {
	e.publish(ctx, RoutingBookingCreated, ev.ID, ev)
}

func (e *Emitter) ReviewCreated(ctx context.Context, b dto.BookingResponse) {
	e.publish(ctx, RoutingReviewCreated, b.ID, b)
}

func (e *Emitter) publish(ctx context.Context, routingKey, bookingID string, payload any) {
	// The request may finish before the broker confirms; do not inherit its cancellation.
	err := e.pub.Publish(context.WithoutCancel(ctx), routingKey, payload)

	result := "ok"
	if err != nil {
		result = "failed"
		e.log.Error("publish event failed",
			zap.String("routing_key", routingKey),
			zap.String("booking_id", bookingID),
			zap.Error(err),
		)
	}
	if e.metrics != nil {
		e.metrics.EventsPublished.WithLabelValues(routingKey, result).Inc()
	}
}
