// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package inwatch watches directory trees directly with a kernel
// watch primitive, inotify by default.
//
// Every path accepted by the filter gets its own watch.
// Paths created or moved in later are walked and watched too,
// paths moved away are forgotten, and watches the kernel drops are set
// up again when their path still exists.
//
// A file is watched by itself as well as through its directory,
// so one change can be reported twice.
package inwatch

import (
	"context"
	"sync"

	"github.com/black-desk/dirwatch/pkg/dispatch"
	"github.com/black-desk/dirwatch/pkg/interfaces"
	"github.com/black-desk/dirwatch/pkg/pathfilter"
	"github.com/black-desk/dirwatch/pkg/primitive/inotify"
	"github.com/black-desk/dirwatch/pkg/reactor"
	"github.com/black-desk/dirwatch/pkg/rewatch"
	"github.com/black-desk/dirwatch/pkg/treewalk"
	"github.com/black-desk/dirwatch/pkg/types"
	"github.com/black-desk/dirwatch/pkg/watchtab"
	. "github.com/black-desk/lib/go/errwrap"
	"go.uber.org/zap"
)

// DefaultMasks are the event categories watched when none is set.
var DefaultMasks = []types.EventFlag{
	types.AttributeModified,
	types.Created,
	types.Removed,
	types.Updated,
	types.MovedFrom,
	types.MovedTo,
}

type Handler func(ctx context.Context, w *Watcher, event types.Event) bool

type Watcher struct {
	factory interfaces.PrimitiveFactory
	loop    *reactor.Loop

	// cfgMu guards the settings below,
	// they are read each time the tree is walked.
	cfgMu    sync.Mutex
	paths    []string
	excluded []string
	suffixes []string
	masks    []types.EventFlag
	handler  Handler

	// Owned by loop.
	prim    interfaces.Primitive
	table   *watchtab.Table
	filter  *pathfilter.Filter
	walker  *treewalk.Walker
	rewatch *rewatch.Controller

	log *zap.SugaredLogger
}

type Opt func(w *Watcher) (ret *Watcher, err error)

// New checks that the primitive can be opened.
// The instance opened here is the one used by the first Watch.
func New(opts ...Opt) (ret *Watcher, err error) {
	defer Wrap(&err, "create inotify watcher")

	w := &Watcher{
		masks: append([]types.EventFlag(nil), DefaultMasks...),
		table: watchtab.New(),
	}

	for i := range opts {
		w, err = opts[i](w)
		if err != nil {
			return
		}
	}

	if w.log == nil {
		w.log = zap.NewNop().Sugar()
	}

	if w.factory == nil {
		w.factory = InotifyFactory(w.log)
	}

	if w.loop == nil {
		w.loop, err = reactor.New(reactor.WithLogger(w.log))
		if err != nil {
			return
		}
	}

	w.prim, err = w.factory()
	if err != nil {
		err = &ErrConfiguration{Err: err}
		return
	}

	ret = w
	return
}

// InotifyFactory opens inotify instances.
func InotifyFactory(log *zap.SugaredLogger) interfaces.PrimitiveFactory {
	return func() (interfaces.Primitive, error) {
		p, err := inotify.New(inotify.WithLogger(log))
		if err != nil {
			return nil, err
		}
		return p, nil
	}
}

func WithPrimitiveFactory(factory interfaces.PrimitiveFactory) Opt {
	return func(w *Watcher) (ret *Watcher, err error) {
		if factory == nil {
			err = ErrFactoryMissing
			return
		}

		w.factory = factory
		ret = w
		return
	}
}

func WithPaths(paths ...string) Opt {
	return func(w *Watcher) (ret *Watcher, err error) {
		w.paths = append(w.paths, paths...)
		ret = w
		return
	}
}

func WithExcludedPaths(paths ...string) Opt {
	return func(w *Watcher) (ret *Watcher, err error) {
		w.excluded = append(w.excluded, paths...)
		ret = w
		return
	}
}

func WithSuffixes(suffixes ...string) Opt {
	return func(w *Watcher) (ret *Watcher, err error) {
		w.suffixes = append(w.suffixes, suffixes...)
		ret = w
		return
	}
}

// WithMasks replaces DefaultMasks.
func WithMasks(masks ...types.EventFlag) Opt {
	return func(w *Watcher) (ret *Watcher, err error) {
		w.masks = append([]types.EventFlag(nil), masks...)
		ret = w
		return
	}
}

func WithHandler(handler Handler) Opt {
	return func(w *Watcher) (ret *Watcher, err error) {
		w.handler = handler
		ret = w
		return
	}
}

func WithLoop(loop *reactor.Loop) Opt {
	return func(w *Watcher) (ret *Watcher, err error) {
		w.loop = loop
		ret = w
		return
	}
}

func WithLogger(log *zap.SugaredLogger) Opt {
	return func(w *Watcher) (ret *Watcher, err error) {
		if log == nil {
			err = ErrLoggerMissing
			return
		}

		w.log = log
		ret = w
		return
	}
}

func (w *Watcher) dispatcher() dispatch.Dispatcher {
	w.cfgMu.Lock()
	handler := w.handler
	w.cfgMu.Unlock()

	if handler == nil {
		return dispatch.Noop{}
	}

	return dispatch.Func(func(ctx context.Context, event types.Event) bool {
		return handler(ctx, w, event)
	})
}
