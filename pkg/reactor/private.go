// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package reactor

import (
	"context"

	"github.com/black-desk/dirwatch/pkg/interfaces"
	"github.com/sourcegraph/conc"
)

type ownerKey struct{}

type task struct {
	ctx  context.Context
	fn   func(ctx context.Context) error
	err  error
	done chan struct{}

	dropped bool
	logErr  bool
}

func newTask(ctx context.Context, fn func(ctx context.Context) error) *task {
	return &task{
		ctx:  ctx,
		fn:   fn,
		done: make(chan struct{}),
	}
}

type pump struct {
	src        interfaces.Readable
	onReadable func(ctx context.Context) error
	onClosed   func(ctx context.Context, err error)

	cancel context.CancelFunc
	wg     *conc.WaitGroup
}

func (l *Loop) post(t *task) bool {
	l.state.Lock()
	defer l.state.Unlock()

	if !l.running || l.ctx.Err() != nil {
		return false
	}

	l.queue = append(l.queue, t)

	select {
	case l.wake <- struct{}{}:
	default:
	}

	return true
}

func (l *Loop) next() (t *task) {
	l.state.Lock()
	defer l.state.Unlock()

	if l.ctx.Err() != nil || len(l.queue) == 0 {
		return nil
	}

	t = l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return
}

func (l *Loop) exec(t *task) {
	l.mu.Lock()
	defer l.mu.Unlock()
	defer close(t.done)

	t.err = t.fn(t.ctx)
	if t.err != nil && t.logErr {
		l.log.Errorw("Task failed.",
			"error", t.err,
		)
	}
}

func (l *Loop) shutdown() {
	l.state.Lock()
	l.running = false
	l.cancel()

	pending := l.queue
	l.queue = nil

	var stopping []*pump
	for _, p := range l.pumps {
		if p.cancel == nil {
			continue
		}
		p.cancel()
		p.cancel = nil
		stopping = append(stopping, p)
	}
	l.state.Unlock()

	for i := range pending {
		pending[i].dropped = true
		close(pending[i].done)
	}

	for i := range stopping {
		stopping[i].wg.Wait()
	}

	select {
	case <-l.wake:
	default:
	}

	l.log.Debugw("Reactor loop exited.",
		"dropped", len(pending),
	)
}

// startPump must be called with l.state held and the loop running.
func (l *Loop) startPump(p *pump) {
	ctx, cancel := context.WithCancel(l.ctx)
	p.cancel = cancel
	p.wg = conc.NewWaitGroup()
	p.wg.Go(func() {
		l.runPump(ctx, p)
	})
}

func (l *Loop) runPump(ctx context.Context, p *pump) {
	for {
		err := p.src.WaitReadable(ctx)
		if ctx.Err() != nil {
			return
		}

		if err == nil {
			err = l.postAndWait(ctx, p.onReadable)
			if ctx.Err() != nil {
				return
			}
			if err == nil {
				continue
			}
		}

		l.log.Debugw("Readable source stopped.",
			"error", err,
		)

		if p.onClosed == nil {
			return
		}

		_ = l.postAndWait(ctx, func(ctx context.Context) error {
			p.onClosed(ctx, err)
			return nil
		})
		return
	}
}

// postAndWait runs fn on the loop unless ctx is cancelled first.
// When the pump is cancelled from a loop task,
// fn is never started afterwards.
func (l *Loop) postAndWait(
	ctx context.Context, fn func(ctx context.Context) error,
) error {
	t := newTask(ctx, func(ctx context.Context) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fn(ctx)
	})

	if !l.post(t) {
		return ErrLoopNotRunning
	}

	select {
	case <-t.done:
		if t.dropped {
			return ErrLoopNotRunning
		}
		return t.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
