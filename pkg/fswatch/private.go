// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package fswatch

import (
	"context"
	"errors"

	. "github.com/black-desk/lib/go/errwrap"
)

func (w *Watcher) defaultOptions() (ret Options) {
	events := make([]string, 0, len(w.events))
	for _, flag := range w.events {
		for _, single := range flag.Split() {
			events = append(events, single.Name())
		}
	}

	ret.Set("--event", events)
	ret.Set("--latency", w.latency)
	ret.Set("--from-path", w.fromPath)
	ret.Set("--recursive", w.recursive)
	ret.Set("--insensitive", w.insensitive)
	return
}

func (w *Watcher) start(ctx context.Context) (err error) {
	defer Wrap(&err, "start fswatch")

	if w.proc != nil {
		return
	}

	var cmd Command
	cmd, err = w.Command()
	if err != nil {
		return
	}

	w.log.Infow("Starting fswatch.",
		"command", cmd.String(),
	)

	w.proc, err = w.spawner(ctx, cmd.Binary, cmd.Args)
	if err != nil {
		return
	}

	w.stopping = false
	w.lines = lineBuffer{}

	err = w.loop.RegisterReadable(w.proc, w.onReadable, w.onClosed)
	if err != nil {
		_ = w.proc.Terminate()
		_ = w.proc.Wait()
		w.proc = nil
		return
	}

	return
}

// release must run on the loop.
func (w *Watcher) release(ctx context.Context) (err error) {
	if w.proc == nil {
		return
	}

	proc := w.proc
	w.proc = nil

	w.loop.UnregisterReadable(proc)

	err = proc.Terminate()
	waitErr := proc.Wait()
	w.log.Debugw("Fswatch terminated.",
		"error", waitErr,
	)

	w.lines = lineBuffer{}
	return
}

func (w *Watcher) onReadable(ctx context.Context) error {
	if w.proc == nil {
		return nil
	}

	w.deliver(ctx, w.lines.Feed(w.proc.ReadAvailable()))
	return nil
}

func (w *Watcher) onClosed(ctx context.Context, err error) {
	if w.stopping || w.proc == nil {
		return
	}

	w.deliver(ctx, w.lines.Feed(w.proc.ReadAvailable()))
	w.deliver(ctx, w.lines.Flush())

	// NOTE: A callback may have stopped the watcher.
	if w.stopping || w.proc == nil {
		return
	}

	proc := w.proc
	w.proc = nil

	w.loop.UnregisterReadable(proc)

	waitErr := proc.Wait()
	w.log.Warnw("Fswatch exited.",
		"read error", err,
		"wait error", waitErr,
	)

	w.exitErr = &ErrProcessExited{Err: waitErr}
	w.loop.Exit()
}

func (w *Watcher) deliver(ctx context.Context, text string) {
	if text == "" {
		return
	}

	events, err := ParseEvents(text)
	if err != nil {
		w.errorHandler()(ctx, err)
		return
	}

	w.log.Debugw("Fswatch events received.",
		"count", len(events),
	)

	w.callbacks.Dispatch(ctx, events)
}

func (w *Watcher) logError(ctx context.Context, err error) {
	var invalid *ErrInvalidOutput
	if errors.As(err, &invalid) {
		w.log.Errorw("Drop malformed fswatch output.",
			"line", invalid.Line,
			"error", err,
		)
		return
	}

	w.log.Errorw("Fswatch watcher error.",
		"error", err,
	)
}

func (w *Watcher) errorHandler() func(ctx context.Context, err error) {
	w.errMu.Lock()
	defer w.errMu.Unlock()

	if w.onError == nil {
		return w.logError
	}
	return w.onError
}
