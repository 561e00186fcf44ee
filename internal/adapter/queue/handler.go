package queue

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Handler processes a single delivery. Implementations must be
// idempotent: the broker redelivers on connection loss.
// Return nil => ACK; return error => NACK (requeue behavior controlled
// by Router).
type Handler interface {
	Handle(ctx context.Context, d amqp.Delivery) error
}

// JSONHandler adapts a typed function into a raw Delivery handler; the
// notification worker registers one per fan-out queue. A body that does
// not unmarshal into T is NACKed and, with requeue off, dropped.
type JSONHandler[T any] struct {
	HandleFunc func(ctx context.Context, msg T) error
}

func (h JSONHandler[T]) Handle(ctx context.Context, d amqp.Delivery) error {
	var v T
	if err := json.Unmarshal(d.Body, &v); err != nil {
		return err
	}
	return h.HandleFunc(ctx, v)
}
