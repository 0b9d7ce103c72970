// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package fswatch

import (
	"context"
	"errors"

	"github.com/black-desk/dirwatch/pkg/dispatch"
	"github.com/black-desk/dirwatch/pkg/reactor"
	"github.com/black-desk/dirwatch/pkg/types"
	. "github.com/black-desk/lib/go/errwrap"
)

// Run starts fswatch and delivers its events until Stop is called
// or ctx is done.
//
// When fswatch exits on its own, Run returns *ErrProcessExited.
func (w *Watcher) Run(ctx context.Context) (err error) {
	defer Wrap(&err, "running fswatch watcher")

	err = w.loop.Call(ctx, w.start)
	if err != nil {
		return
	}

	err = w.loop.Run(ctx)
	if errors.Is(err, reactor.ErrLoopRunning) {
		return
	}

	_ = w.loop.Call(context.WithoutCancel(ctx), func(ctx context.Context) error {
		releaseErr := w.release(ctx)
		if releaseErr != nil {
			w.log.Errorw("Failed to release fswatch process.",
				"error", releaseErr,
			)
		}

		if w.exitErr != nil {
			err = w.exitErr
			w.exitErr = nil
		}
		return nil
	})

	return
}

// Stop terminates fswatch and makes Run return.
// No callback is called after Stop returns.
// It is safe to call Stop from a callback.
func (w *Watcher) Stop(ctx context.Context) (err error) {
	defer Wrap(&err, "stop fswatch watcher")

	return w.loop.Call(ctx, func(ctx context.Context) error {
		w.stopping = true
		defer w.loop.Exit()

		return w.release(ctx)
	})
}

// OnChange registers fn to be called once for every batch of events.
func (w *Watcher) OnChange(fn func(ctx context.Context, events []types.Event)) {
	w.callbacks.OnChange(fn)
}

// On registers fn to be called with the path of every event
// sharing at least one flag with mask.
func (w *Watcher) On(mask types.EventFlag, fn func(ctx context.Context, path string)) {
	w.callbacks.On(mask, dispatch.PathFunc(fn))
}

// OnError replaces the handler of malformed output.
// By default the error is logged.
func (w *Watcher) OnError(fn func(ctx context.Context, err error)) {
	w.errMu.Lock()
	defer w.errMu.Unlock()

	w.onError = fn
}

// Options returns the options fswatch is started with,
// in command line order.
func (w *Watcher) Options() Options {
	return Merge(w.defaultOptions(), w.user, Options{list: fixedOptions})
}

// Command resolves the binary and builds the command line.
func (w *Watcher) Command() (ret Command, err error) {
	defer Wrap(&err, "build fswatch command")

	ret.Binary, err = ResolveBinary(w.binary)
	if err != nil {
		return
	}

	ret.Args = BuildArguments(w.Options(), w.paths)
	return
}

func (w *Watcher) Paths() []string {
	return append([]string(nil), w.paths...)
}
