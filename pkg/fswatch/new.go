// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package fswatch watches paths by running the fswatch program
// and parsing its output.
package fswatch

import (
	"context"
	"strings"
	"sync"

	"github.com/black-desk/dirwatch/pkg/dispatch"
	"github.com/black-desk/dirwatch/pkg/interfaces"
	"github.com/black-desk/dirwatch/pkg/process"
	"github.com/black-desk/dirwatch/pkg/reactor"
	"github.com/black-desk/dirwatch/pkg/types"
	. "github.com/black-desk/lib/go/errwrap"
	"go.uber.org/zap"
)

const DefaultLatency = 0.0001

type Watcher struct {
	paths       []string
	binary      string
	latency     float64
	recursive   bool
	insensitive bool
	fromPath    string
	events      []types.EventFlag
	user        Options

	spawner   interfaces.Spawner
	loop      *reactor.Loop
	callbacks dispatch.Table
	errMu     sync.Mutex
	onError   func(ctx context.Context, err error)

	// Owned by loop.
	proc     interfaces.Process
	lines    lineBuffer
	stopping bool
	exitErr  error

	log *zap.SugaredLogger
}

type Opt func(w *Watcher) (ret *Watcher, err error)

func New(opts ...Opt) (ret *Watcher, err error) {
	defer Wrap(&err, "create fswatch watcher")

	w := &Watcher{
		latency:     DefaultLatency,
		recursive:   true,
		insensitive: true,
	}

	for i := range opts {
		w, err = opts[i](w)
		if err != nil {
			return
		}
	}

	if len(w.paths) == 0 {
		err = ErrPathsMissing
		return
	}

	if w.log == nil {
		w.log = zap.NewNop().Sugar()
	}

	if w.spawner == nil {
		w.spawner = process.NewSpawner(w.log)
	}

	if w.loop == nil {
		w.loop, err = reactor.New(reactor.WithLogger(w.log))
		if err != nil {
			return
		}
	}

	ret = w
	return
}

// WithPaths adds paths to watch. Paths are trimmed,
// duplicates are dropped when the command line is built.
func WithPaths(paths ...string) Opt {
	return func(w *Watcher) (ret *Watcher, err error) {
		for i := range paths {
			path := strings.TrimSpace(paths[i])
			if path == "" {
				continue
			}
			w.paths = append(w.paths, path)
		}
		ret = w
		return
	}
}

// WithBinary sets the fswatch executable. Empty means search for it.
func WithBinary(path string) Opt {
	return func(w *Watcher) (ret *Watcher, err error) {
		w.binary = path
		ret = w
		return
	}
}

func WithLatency(seconds float64) Opt {
	return func(w *Watcher) (ret *Watcher, err error) {
		w.latency = seconds
		ret = w
		return
	}
}

func WithRecursive(recursive bool) Opt {
	return func(w *Watcher) (ret *Watcher, err error) {
		w.recursive = recursive
		ret = w
		return
	}
}

func WithInsensitive(insensitive bool) Opt {
	return func(w *Watcher) (ret *Watcher, err error) {
		w.insensitive = insensitive
		ret = w
		return
	}
}

func WithFromPath(path string) Opt {
	return func(w *Watcher) (ret *Watcher, err error) {
		w.fromPath = path
		ret = w
		return
	}
}

// WithEvents makes fswatch report only events carrying one of flags.
func WithEvents(flags ...types.EventFlag) Opt {
	return func(w *Watcher) (ret *Watcher, err error) {
		w.events = append(w.events, flags...)
		ret = w
		return
	}
}

// WithOption passes an extra option to fswatch.
// Options the watcher depends on cannot be overridden.
func WithOption(key string, value any) Opt {
	return func(w *Watcher) (ret *Watcher, err error) {
		w.user.Set(key, value)
		ret = w
		return
	}
}

func WithSpawner(spawner interfaces.Spawner) Opt {
	return func(w *Watcher) (ret *Watcher, err error) {
		w.spawner = spawner
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
