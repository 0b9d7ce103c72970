// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package reactor

import (
	"context"

	"github.com/black-desk/dirwatch/pkg/interfaces"
	. "github.com/black-desk/lib/go/errwrap"
)

// Run executes tasks until Exit is called or ctx is done.
// A loop can be run again after Run returns.
func (l *Loop) Run(ctx context.Context) (err error) {
	defer Wrap(&err, "running reactor loop")

	l.state.Lock()
	if l.running {
		l.state.Unlock()
		err = ErrLoopRunning
		return
	}

	loopCtx, cancel := context.WithCancel(ctx)
	l.ctx = context.WithValue(loopCtx, ownerKey{}, l)
	l.cancel = cancel
	l.running = true
	for _, p := range l.pumps {
		l.startPump(p)
	}
	l.state.Unlock()

	l.log.Debugw("Reactor loop started.")

	defer l.shutdown()

LOOP:
	for {
		select {
		case <-loopCtx.Done():
			break LOOP
		case <-l.wake:
		}

		for t := l.next(); t != nil; t = l.next() {
			l.exec(t)
		}
	}

	// NOTE: Exit is a normal way to leave the loop.
	err = ctx.Err()
	return
}

// Exit makes Run return after the task currently running.
// Tasks still queued are dropped.
func (l *Loop) Exit() {
	l.state.Lock()
	defer l.state.Unlock()

	if !l.running {
		return
	}

	l.log.Debugw("Exit reactor loop.")
	l.cancel()
}

func (l *Loop) Running() bool {
	l.state.Lock()
	defer l.state.Unlock()

	return l.running
}

// Owns reports whether ctx was handed out by this loop.
func (l *Loop) Owns(ctx context.Context) bool {
	owner, ok := ctx.Value(ownerKey{}).(*Loop)
	return ok && owner == l
}

// Call runs fn on the loop and waits for its result.
//
// fn runs inline when ctx is owned by the loop,
// or when the loop is not running.
// In the latter case, fn still excludes every other task.
func (l *Loop) Call(
	ctx context.Context, fn func(ctx context.Context) error,
) error {
	if l.Owns(ctx) {
		return fn(ctx)
	}

	t := newTask(context.WithValue(ctx, ownerKey{}, l), fn)
	if l.post(t) {
		select {
		case <-t.done:
			if !t.dropped {
				return t.err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	return fn(t.ctx)
}

// Post queues fn without waiting for it.
// Errors returned by fn are logged.
func (l *Loop) Post(fn func(ctx context.Context) error) (err error) {
	defer Wrap(&err, "post task to reactor loop")

	l.state.Lock()
	ctx := l.ctx
	l.state.Unlock()

	if ctx == nil {
		err = ErrLoopNotRunning
		return
	}

	t := newTask(ctx, fn)
	t.logErr = true
	if !l.post(t) {
		err = ErrLoopNotRunning
		return
	}

	return
}

// RegisterReadable asks the loop to call onReadable each time src
// becomes readable. The next wait starts only after onReadable returns.
//
// onClosed, if not nil, is called once on the loop when waiting fails
// or onReadable returns an error. The source is not polled after that.
func (l *Loop) RegisterReadable(
	src interfaces.Readable,
	onReadable func(ctx context.Context) error,
	onClosed func(ctx context.Context, err error),
) (err error) {
	defer Wrap(&err, "register readable source")

	l.state.Lock()
	defer l.state.Unlock()

	if _, ok := l.pumps[src]; ok {
		err = ErrSourceExists
		return
	}

	p := &pump{
		src:        src,
		onReadable: onReadable,
		onClosed:   onClosed,
	}
	l.pumps[src] = p

	if l.running {
		l.startPump(p)
	}

	l.log.Debugw("Readable source registered.",
		"running", l.running,
	)

	return
}

// UnregisterReadable stops polling src.
// It returns after the pump of src has finished.
// Called from a loop task, it also guarantees
// that the callbacks of src are never called again.
func (l *Loop) UnregisterReadable(src interfaces.Readable) {
	l.state.Lock()
	p, ok := l.pumps[src]
	delete(l.pumps, src)
	var cancel context.CancelFunc
	if ok {
		cancel, p.cancel = p.cancel, nil
	}
	l.state.Unlock()

	if !ok {
		return
	}

	if cancel != nil {
		cancel()
		p.wg.Wait()
	}

	l.log.Debugw("Readable source unregistered.")
}
