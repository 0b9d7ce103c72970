// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package inwatch

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/black-desk/dirwatch/pkg/pathfilter"
	"github.com/black-desk/dirwatch/pkg/rewatch"
	"github.com/black-desk/dirwatch/pkg/treewalk"
	"github.com/black-desk/dirwatch/pkg/types"
	"github.com/black-desk/dirwatch/pkg/watchtab"
	. "github.com/black-desk/lib/go/errwrap"
)

// init opens a primitive if needed, walks every configured path
// and registers the primitive on the loop. It must run on the loop.
func (w *Watcher) init() (err error) {
	defer Wrap(&err, "initialize watches")

	w.cfgMu.Lock()
	paths := append([]string(nil), w.paths...)
	excluded := append([]string(nil), w.excluded...)
	suffixes := append([]string(nil), w.suffixes...)
	mask := types.Union(w.masks...)
	w.cfgMu.Unlock()

	if w.prim == nil {
		w.prim, err = w.factory()
		if err != nil {
			err = &ErrConfiguration{Err: err}
			return
		}
	}

	w.filter, err = pathfilter.New(
		pathfilter.WithExcludedPaths(excluded),
		pathfilter.WithSuffixes(suffixes),
		pathfilter.WithLogger(w.log),
	)
	if err != nil {
		return
	}

	w.table.Clear()

	w.walker, err = treewalk.New(
		treewalk.WithPrimitive(w.prim),
		treewalk.WithTable(w.table),
		treewalk.WithFilter(w.filter),
		treewalk.WithMask(mask),
		treewalk.WithLogger(w.log),
	)
	if err != nil {
		return
	}

	w.rewatch, err = rewatch.New(
		rewatch.WithTable(w.table),
		rewatch.WithWalker(w.walker),
		rewatch.WithLogger(w.log),
	)
	if err != nil {
		return
	}

	for i := range paths {
		_, walkErr := w.walker.Walk(paths[i])
		if walkErr == nil {
			continue
		}

		// NOTE: Paths that could be watched stay watched.
		w.log.Errorw("Failed to watch part of a tree.",
			"path", paths[i],
			"error", walkErr,
		)
	}

	err = w.loop.RegisterReadable(w.prim, w.onReadable, w.onClosed)
	if err != nil {
		return
	}

	w.log.Infow("Watching.",
		"paths", paths,
		"watches", w.table.Len(),
		"handles", w.table.Handles(),
		"mask", mask,
	)

	return
}

// release must run on the loop.
func (w *Watcher) release() (err error) {
	w.walker = nil
	w.rewatch = nil
	w.table.Clear()

	if w.prim == nil {
		return
	}

	prim := w.prim
	w.prim = nil

	w.loop.UnregisterReadable(prim)

	err = prim.Close()
	return
}

func (w *Watcher) onReadable(ctx context.Context) (err error) {
	if w.prim == nil {
		return
	}

	var raw []types.RawEvent
	raw, err = w.prim.Read()
	if err != nil {
		return
	}

	events := make([]types.Event, 0, len(raw))
	for i := range raw {
		event, ok := w.translate(raw[i])
		if !ok {
			continue
		}
		events = append(events, event)
	}

	if len(events) == 0 {
		return
	}

	w.dispatcher().Dispatch(ctx, events)
	return
}

func (w *Watcher) onClosed(ctx context.Context, err error) {
	w.log.Errorw("Watch primitive stopped working.",
		"error", err,
	)
}

// translate turns a raw event into the event handed to the handler.
// Watches are added for new directories on the way.
func (w *Watcher) translate(raw types.RawEvent) (event types.Event, ok bool) {
	if raw.Flags.Intersects(types.Overflow) {
		w.log.Warnw("Events lost, consider a rewatch.")
		event = types.Event{Handle: raw.Handle, Flags: raw.Flags}
		ok = true
		return
	}

	if raw.Ignored {
		w.invalidate(raw.Handle)
		return
	}

	entry, found := w.table.Lookup(raw.Handle)
	if !found {
		w.log.Debugw("Drop event of unknown handle.",
			"handle", raw.Handle,
			"name", raw.Name,
		)
		return
	}

	event = types.Event{
		Handle: raw.Handle,
		Path:   entry.Path,
		Name:   raw.Name,
		Flags:  raw.Flags,
	}

	if raw.Name == "" {
		if entry.IsDir {
			event.Flags |= types.IsDir
		} else {
			event.Flags |= types.IsFile
		}

		if raw.Flags.Intersects(types.Renamed) {
			w.forgetMoved(entry.Path)
		}

		ok = true
		return
	}

	event.Path = filepath.Join(entry.Path, raw.Name)

	if raw.Flags.Intersects(types.MovedFrom) {
		w.prune(event.Path)
	}

	if w.filter.IsExcluded(event.Path) {
		return
	}

	if !event.Flags.Intersects(types.IsDir) {
		if !w.filter.MatchSuffix(raw.Name) {
			return
		}
		event.Flags |= types.IsFile
	}

	if event.Flags.Intersects(types.Created | types.MovedTo) {
		_, err := w.walker.Walk(event.Path)
		if err != nil {
			w.log.Errorw("Failed to watch new path.",
				"path", event.Path,
				"error", err,
			)
		}
	}

	ok = true
	return
}

// forgetMoved stops watching path when the watched file was moved
// somewhere this watcher cannot see.
func (w *Watcher) forgetMoved(path string) {
	if _, err := os.Lstat(path); err == nil {
		return
	}

	w.prune(path)
}

func (w *Watcher) prune(path string) {
	err := w.walker.Prune(path)
	if err == nil {
		return
	}

	w.log.Errorw("Failed to stop watching moved path.",
		"path", path,
		"error", err,
	)
}

func (w *Watcher) invalidate(handle types.Handle) {
	state, err := w.rewatch.Invalidate(handle)

	var unknown *watchtab.ErrUnknownHandle
	if errors.As(err, &unknown) {
		w.log.Debugw("Invalidated handle is not watched.",
			"handle", handle,
		)
		return
	}

	if err != nil {
		w.log.Errorw("Failed to rewatch.",
			"handle", handle,
			"state", state,
			"error", err,
		)
		return
	}

	w.log.Debugw("Handle invalidated.",
		"handle", handle,
		"state", state,
	)
}
