/*
 * Copyright © 2025 ABC Retailors, All rights reserved.
 */

package queue

import (
	"context"

	"github.com/abcretailors/retailstore/errors"
)

// Delivery is a message handed to one receiver. Receipt identifies the
// delivery when acknowledging it and is transport specific.
type Delivery struct {
	ID      string
	Receipt string
	Payload string
}

// Transport is a durable message queue.
type Transport interface {
	// CreateQueue creates the queue if it does not exist.
	CreateQueue(ctx context.Context, queue string) error
	// Send enqueues payload.
	Send(ctx context.Context, queue, payload string) error
	// Receive takes at most one message, hiding it from other receivers until
	// it is deleted or its visibility lapses. It returns nil when the queue is empty.
	Receive(ctx context.Context, queue string) (*Delivery, error)
	// Delete acknowledges a delivery so it is never delivered again.
	Delete(ctx context.Context, queue string, d *Delivery) error
}

// Recoverer is implemented by transports without a visibility timeout. Recover
// makes every message still in flight on queue deliverable again and returns
// how many were moved.
type Recoverer interface {
	Recover(ctx context.Context, queue string) (int, error)
}

// Relay sends and receives string payloads with receive-then-delete semantics.
type Relay struct {
	transport Transport
}

// NewRelay creates a Relay on top of transport
func NewRelay(transport Transport) *Relay {
	return &Relay{transport: transport}
}

// Send enqueues payload on queue.
func (r *Relay) Send(ctx context.Context, queue, payload string) error {
	if queue == "" {
		return errors.NewValidationError("queue", "must not be empty")
	}
	return r.transport.Send(ctx, queue, payload)
}

// Receive returns the payload of at most one message and deletes it before
// returning. ok is false when the queue is empty.
//
// If the delete fails the error is returned and the message becomes visible
// again once its visibility lapses, so it may be delivered a second time.
// A process that fails after Receive returns loses the message.
func (r *Relay) Receive(ctx context.Context, queue string) (payload string, ok bool, err error) {
	if queue == "" {
		return "", false, errors.NewValidationError("queue", "must not be empty")
	}
	d, err := r.transport.Receive(ctx, queue)
	if err != nil {
		return "", false, err
	}
	if d == nil {
		return "", false, nil
	}
	if err := r.transport.Delete(ctx, queue, d); err != nil {
		return "", false, err
	}
	return d.Payload, true, nil
}

// Recover returns messages whose receiver never deleted them to the queue.
// Transports that redeliver on their own after a visibility timeout have
// nothing to recover and report zero.
func (r *Relay) Recover(ctx context.Context, queue string) (int, error) {
	if queue == "" {
		return 0, errors.NewValidationError("queue", "must not be empty")
	}
	rec, ok := r.transport.(Recoverer)
	if !ok {
		return 0, nil
	}
	return rec.Recover(ctx, queue)
}
