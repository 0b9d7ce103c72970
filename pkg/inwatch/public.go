// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package inwatch

import (
	"context"
	"errors"

	"github.com/black-desk/dirwatch/pkg/reactor"
	"github.com/black-desk/dirwatch/pkg/types"
	. "github.com/black-desk/lib/go/errwrap"
)

// Run watches the configured paths and delivers events to the handler
// until Stop is called or ctx is done.
func (w *Watcher) Run(ctx context.Context) (err error) {
	defer Wrap(&err, "running inotify watcher")

	err = w.Watch(ctx)
	if err != nil {
		return
	}

	err = w.loop.Run(ctx)
	if errors.Is(err, reactor.ErrLoopRunning) {
		return
	}

	releaseErr := w.loop.Call(context.WithoutCancel(ctx), func(context.Context) error {
		return w.release()
	})
	if releaseErr != nil {
		w.log.Errorw("Failed to release watch primitive.",
			"error", releaseErr,
		)
	}

	return
}

// Watch walks the configured paths and starts listening.
// It does nothing when already listening.
func (w *Watcher) Watch(ctx context.Context) (err error) {
	defer Wrap(&err, "watch")

	return w.loop.Call(ctx, func(ctx context.Context) error {
		if w.walker != nil {
			return nil
		}

		return w.init()
	})
}

// Rewatch drops every watch and walks the configured paths again
// with a fresh primitive. Settings changed since the last walk
// take effect here.
func (w *Watcher) Rewatch(ctx context.Context) (err error) {
	defer Wrap(&err, "rewatch")

	return w.loop.Call(ctx, func(ctx context.Context) error {
		w.log.Infow("Rewatch.")

		releaseErr := w.release()
		if releaseErr != nil {
			w.log.Warnw("Failed to release watch primitive.",
				"error", releaseErr,
			)
		}

		return w.init()
	})
}

// Stop drops every watch and makes Run return.
// No handler is called after Stop returns.
// It is safe to call Stop from the handler.
func (w *Watcher) Stop(ctx context.Context) (err error) {
	defer Wrap(&err, "stop")

	return w.loop.Call(ctx, func(ctx context.Context) error {
		defer w.loop.Exit()

		return w.release()
	})
}

// SetHandler replaces the handler.
// It returns false to drop the rest of the events read together.
func (w *Watcher) SetHandler(handler Handler) {
	w.cfgMu.Lock()
	defer w.cfgMu.Unlock()

	w.handler = handler
}

func (w *Watcher) Paths() []string {
	w.cfgMu.Lock()
	defer w.cfgMu.Unlock()

	return append([]string(nil), w.paths...)
}

func (w *Watcher) SetPaths(paths ...string) {
	w.cfgMu.Lock()
	defer w.cfgMu.Unlock()

	w.paths = append([]string(nil), paths...)
}

func (w *Watcher) ExcludedPaths() []string {
	w.cfgMu.Lock()
	defer w.cfgMu.Unlock()

	return append([]string(nil), w.excluded...)
}

func (w *Watcher) SetExcludedPaths(paths ...string) {
	w.cfgMu.Lock()
	defer w.cfgMu.Unlock()

	w.excluded = append([]string(nil), paths...)
}

func (w *Watcher) Suffixes() []string {
	w.cfgMu.Lock()
	defer w.cfgMu.Unlock()

	return append([]string(nil), w.suffixes...)
}

func (w *Watcher) SetSuffixes(suffixes ...string) {
	w.cfgMu.Lock()
	defer w.cfgMu.Unlock()

	w.suffixes = append([]string(nil), suffixes...)
}

func (w *Watcher) Masks() []types.EventFlag {
	w.cfgMu.Lock()
	defer w.cfgMu.Unlock()

	return append([]types.EventFlag(nil), w.masks...)
}

func (w *Watcher) SetMasks(masks ...types.EventFlag) {
	w.cfgMu.Lock()
	defer w.cfgMu.Unlock()

	w.masks = append([]types.EventFlag(nil), masks...)
}

// MaskValue is the union of Masks.
func (w *Watcher) MaskValue() types.EventFlag {
	return types.Union(w.Masks()...)
}

// WatchedPaths lists the paths currently watched, in lexical order.
// Directories end with a separator.
func (w *Watcher) WatchedPaths(ctx context.Context) (ret []string, err error) {
	err = w.loop.Call(ctx, func(context.Context) error {
		ret = w.table.List()
		return nil
	})
	return
}

func (w *Watcher) IsWatched(ctx context.Context, path string) (ret bool, err error) {
	err = w.loop.Call(ctx, func(context.Context) error {
		ret = w.table.IsWatched(path)
		return nil
	})
	return
}
