// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package queue buffers raw events for primitives that receive them
// from goroutines instead of a file descriptor.
package queue

import (
	"context"
	"errors"
	"sync"

	"github.com/black-desk/dirwatch/pkg/types"
)

var ErrClosed = errors.New("event queue is closed.")

type Queue struct {
	mu     sync.Mutex
	events []types.RawEvent
	ready  chan struct{}
	closed chan struct{}
	once   sync.Once
}

func New() *Queue {
	return &Queue{
		ready:  make(chan struct{}, 1),
		closed: make(chan struct{}),
	}
}

func (q *Queue) Push(events ...types.RawEvent) {
	q.mu.Lock()
	q.events = append(q.events, events...)
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
}

func (q *Queue) Drain() (ret []types.RawEvent) {
	q.mu.Lock()
	defer q.mu.Unlock()

	ret, q.events = q.events, nil
	return
}

func (q *Queue) Wait(ctx context.Context) error {
	for {
		q.mu.Lock()
		pending := len(q.events)
		q.mu.Unlock()

		if pending > 0 {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-q.closed:
			return ErrClosed
		case <-q.ready:
		}
	}
}

func (q *Queue) Close() {
	q.once.Do(func() {
		close(q.closed)
	})
}

// Done is closed by Close.
func (q *Queue) Done() <-chan struct{} {
	return q.closed
}
