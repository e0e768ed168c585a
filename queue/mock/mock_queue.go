/*
 * Copyright © 2025 ABC Retailors, All rights reserved.
 */

// Package mock provides an in-memory queue.Transport for testing
package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/abcretailors/retailstore/errors"
	"github.com/abcretailors/retailstore/queue"
)

type message struct {
	id      string
	payload string
}

type state struct {
	ready    []message
	inFlight map[string]message
}

// Transport is an in-memory FIFO queue with visibility tracking.
type Transport struct {
	mu     sync.Mutex
	queues map[string]*state

	createError  error
	sendError    error
	receiveError error
	deleteError  error
}

// New creates a mock Transport without queues
func New() *Transport {
	return &Transport{queues: make(map[string]*state)}
}

// WithCreateError makes CreateQueue return an error
func (m *Transport) WithCreateError(err error) *Transport {
	m.createError = err
	return m
}

// WithSendError makes Send return an error
func (m *Transport) WithSendError(err error) *Transport {
	m.sendError = err
	return m
}

// WithReceiveError makes Receive return an error
func (m *Transport) WithReceiveError(err error) *Transport {
	m.receiveError = err
	return m
}

// WithDeleteError makes Delete return an error
func (m *Transport) WithDeleteError(err error) *Transport {
	m.deleteError = err
	return m
}

func (m *Transport) CreateQueue(ctx context.Context, name string) error {
	if m.createError != nil {
		return m.createError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.queues[name]; !ok {
		m.queues[name] = &state{inFlight: make(map[string]message)}
	}
	return nil
}

func (m *Transport) Send(ctx context.Context, name, payload string) error {
	if m.sendError != nil {
		return m.sendError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	q, err := m.lookup("Send", name)
	if err != nil {
		return err
	}
	q.ready = append(q.ready, message{id: uuid.NewString(), payload: payload})
	return nil
}

func (m *Transport) Receive(ctx context.Context, name string) (*queue.Delivery, error) {
	if m.receiveError != nil {
		return nil, m.receiveError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	q, err := m.lookup("Receive", name)
	if err != nil {
		return nil, err
	}
	if len(q.ready) == 0 {
		return nil, nil
	}
	msg := q.ready[0]
	q.ready = q.ready[1:]
	receipt := uuid.NewString()
	q.inFlight[receipt] = msg
	return &queue.Delivery{ID: msg.id, Receipt: receipt, Payload: msg.payload}, nil
}

func (m *Transport) Delete(ctx context.Context, name string, d *queue.Delivery) error {
	if m.deleteError != nil {
		return m.deleteError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	q, err := m.lookup("Delete", name)
	if err != nil {
		return err
	}
	if _, ok := q.inFlight[d.Receipt]; !ok {
		return errors.NewBackendError("Delete", name, fmt.Errorf("receipt %q is not in flight", d.Receipt))
	}
	delete(q.inFlight, d.Receipt)
	return nil
}

// ExpireVisibility makes every in-flight message of the queue visible again.
func (m *Transport) ExpireVisibility(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.queues[name]
	if !ok {
		return
	}
	for receipt, msg := range q.inFlight {
		q.ready = append(q.ready, msg)
		delete(q.inFlight, receipt)
	}
}

// Recover moves every in-flight message back to the queue, as a transport
// without visibility timeouts would after a receiver crashed.
func (m *Transport) Recover(ctx context.Context, name string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, err := m.lookup("Recover", name)
	if err != nil {
		return 0, err
	}
	moved := len(q.inFlight)
	for receipt, msg := range q.inFlight {
		q.ready = append(q.ready, msg)
		delete(q.inFlight, receipt)
	}
	return moved, nil
}

// Len returns the number of visible and in-flight messages.
func (m *Transport) Len(name string) (visible, inFlight int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.queues[name]
	if !ok {
		return 0, 0
	}
	return len(q.ready), len(q.inFlight)
}

// Exists reports whether the queue was created.
func (m *Transport) Exists(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.queues[name]
	return ok
}

func (m *Transport) lookup(op, name string) (*state, error) {
	q, ok := m.queues[name]
	if !ok {
		return nil, errors.NewBackendError(op, name, fmt.Errorf("queue %q does not exist", name))
	}
	return q, nil
}
