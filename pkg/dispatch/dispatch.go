// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package dispatch delivers batches of events to user callbacks.
package dispatch

import (
	"context"
	"sync"

	"github.com/black-desk/dirwatch/pkg/types"
)

// Dispatcher hands one batch of events, in arrival order,
// to the callbacks it holds.
// Delivery stops as soon as ctx is done.
type Dispatcher interface {
	Dispatch(ctx context.Context, events []types.Event)
}

// Noop drops every event.
type Noop struct{}

func (Noop) Dispatch(context.Context, []types.Event) {}

// Func is called for each event in turn.
// Returning false drops the rest of the batch.
type Func func(ctx context.Context, event types.Event) bool

func (f Func) Dispatch(ctx context.Context, events []types.Event) {
	for i := range events {
		if ctx.Err() != nil || !f(ctx, events[i]) {
			return
		}
	}
}

type (
	ChangeFunc func(ctx context.Context, events []types.Event)
	PathFunc   func(ctx context.Context, path string)
)

type entry struct {
	mask types.EventFlag
	fn   PathFunc
}

// Table calls change callbacks once per batch,
// then every mask callback whose mask intersects the event flags.
// Mask callbacks run in registration order for each event.
//
// Callbacks can be registered at any time, even from a callback.
// They take effect from the next batch.
type Table struct {
	mu      sync.Mutex
	change  []ChangeFunc
	entries []entry
}

func (t *Table) OnChange(fn ChangeFunc) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.change = append(t.change, fn)
}

func (t *Table) On(mask types.EventFlag, fn PathFunc) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.entries = append(t.entries, entry{mask: mask, fn: fn})
}

func (t *Table) Empty() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.change) == 0 && len(t.entries) == 0
}

func (t *Table) Dispatch(ctx context.Context, events []types.Event) {
	if len(events) == 0 {
		return
	}

	t.mu.Lock()
	change := t.change[:len(t.change):len(t.change)]
	entries := t.entries[:len(t.entries):len(t.entries)]
	t.mu.Unlock()

	if len(change) == 0 && len(entries) == 0 {
		return
	}

	for i := range change {
		if ctx.Err() != nil {
			return
		}
		change[i](ctx, events)
	}

	if len(entries) == 0 {
		return
	}

	for i := range events {
		for j := range entries {
			if !events[i].Flags.Intersects(entries[j].mask) {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			entries[j].fn(ctx, events[i].Path)
		}
	}
}
