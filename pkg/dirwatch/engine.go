// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package dirwatch

import (
	"context"

	"github.com/black-desk/dirwatch/pkg/dirwatch/config"
	"github.com/black-desk/dirwatch/pkg/fswatch"
	"github.com/black-desk/dirwatch/pkg/interfaces"
	"github.com/black-desk/dirwatch/pkg/inwatch"
	"github.com/black-desk/dirwatch/pkg/pathfilter"
	"github.com/black-desk/dirwatch/pkg/primitive/fsnotify"
	"github.com/black-desk/dirwatch/pkg/primitive/notify"
	"github.com/black-desk/dirwatch/pkg/types"
	. "github.com/black-desk/lib/go/errwrap"
	"go.uber.org/zap"
)

// NewEngine builds the engine cfg asks for.
// Events the engine reports are sent to out.
func NewEngine(
	cfg *config.Config, out chan<- types.Event, log *zap.SugaredLogger,
) (
	ret interfaces.Engine, err error,
) {
	defer Wrap(&err, "create %s engine", cfg.Engine)

	if log == nil {
		log = zap.NewNop().Sugar()
	}

	switch cfg.Engine {
	case config.EngineNative:
		return newNativeEngine(cfg, out, log)
	case config.EngineFSWatch:
		return newFSWatchEngine(cfg, out, log)
	}

	err = &ErrUnknownEngine{Engine: string(cfg.Engine)}
	return
}

// PrimitiveFactory returns a factory opening the named watch primitive.
func PrimitiveFactory(
	name config.Primitive, log *zap.SugaredLogger,
) (
	ret interfaces.PrimitiveFactory, err error,
) {
	switch name {
	case config.PrimitiveInotify, "":
		ret = inwatch.InotifyFactory(log)
	case config.PrimitiveNotify:
		ret = func() (interfaces.Primitive, error) {
			p, err := notify.New(notify.WithLogger(log))
			if err != nil {
				return nil, err
			}
			return p, nil
		}
	case config.PrimitiveFsnotify:
		ret = func() (interfaces.Primitive, error) {
			p, err := fsnotify.New(fsnotify.WithLogger(log))
			if err != nil {
				return nil, err
			}
			return p, nil
		}
	default:
		err = &ErrUnknownPrimitive{Primitive: string(name)}
	}
	return
}

func send(ctx context.Context, out chan<- types.Event, event types.Event) bool {
	select {
	case out <- event:
		return true
	case <-ctx.Done():
		return false
	}
}

func newNativeEngine(
	cfg *config.Config, out chan<- types.Event, log *zap.SugaredLogger,
) (
	ret interfaces.Engine, err error,
) {
	var factory interfaces.PrimitiveFactory
	factory, err = PrimitiveFactory(cfg.Native.Primitive, log)
	if err != nil {
		return
	}

	opts := []inwatch.Opt{
		inwatch.WithPrimitiveFactory(factory),
		inwatch.WithPaths(cfg.Paths...),
		inwatch.WithExcludedPaths(cfg.ExcludedPaths...),
		inwatch.WithSuffixes(cfg.Suffixes...),
		inwatch.WithHandler(func(
			ctx context.Context, _ *inwatch.Watcher, event types.Event,
		) bool {
			return send(ctx, out, event)
		}),
		inwatch.WithLogger(log),
	}
	if len(cfg.MaskFlags) != 0 {
		opts = append(opts, inwatch.WithMasks(cfg.MaskFlags...))
	}

	var w *inwatch.Watcher
	w, err = inwatch.New(opts...)
	if err != nil {
		return
	}

	ret = w
	return
}

func newFSWatchEngine(
	cfg *config.Config, out chan<- types.Event, log *zap.SugaredLogger,
) (
	ret interfaces.Engine, err error,
) {
	var filter *pathfilter.Filter
	filter, err = pathfilter.New(
		pathfilter.WithExcludedPaths(cfg.ExcludedPaths),
		pathfilter.WithSuffixes(cfg.Suffixes),
		pathfilter.WithLogger(log),
	)
	if err != nil {
		return
	}

	opts := []fswatch.Opt{
		fswatch.WithPaths(cfg.Paths...),
		fswatch.WithBinary(cfg.FSWatch.Binary),
		fswatch.WithLatency(cfg.FSWatch.Latency),
		fswatch.WithRecursive(*cfg.FSWatch.Recursive),
		fswatch.WithInsensitive(*cfg.FSWatch.Insensitive),
		fswatch.WithFromPath(cfg.FSWatch.FromPath),
		fswatch.WithEvents(cfg.FSWatch.EventFlags...),
		fswatch.WithLogger(log),
	}
	for i := range cfg.FSWatch.Options {
		option := cfg.FSWatch.Options[i]
		if option.Value == "" {
			opts = append(opts, fswatch.WithOption(option.Key, true))
			continue
		}
		opts = append(opts, fswatch.WithOption(option.Key, option.Value))
	}

	var w *fswatch.Watcher
	w, err = fswatch.New(opts...)
	if err != nil {
		return
	}

	mask := types.Union(cfg.MaskFlags...)

	w.OnChange(func(ctx context.Context, events []types.Event) {
		for i := range events {
			if !accept(filter, mask, events[i]) {
				continue
			}
			if !send(ctx, out, events[i]) {
				return
			}
		}
	})

	ret = w
	return
}

// accept applies the filters the fswatch program has no option for.
func accept(filter *pathfilter.Filter, mask types.EventFlag, event types.Event) bool {
	if mask != types.NoOp && !event.Flags.Intersects(mask) {
		return false
	}

	if filter.IsExcluded(event.Path) {
		return false
	}

	if event.Flags.Intersects(types.IsDir) {
		return true
	}

	return filter.MatchSuffix(event.Path)
}
