// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package fsnotify implements the watch primitive
// with github.com/fsnotify/fsnotify.
//
// fsnotify identifies watches by path,
// handles are assigned here in the order paths are added.
package fsnotify

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/black-desk/dirwatch/pkg/interfaces"
	"github.com/black-desk/dirwatch/pkg/primitive/internal/queue"
	"github.com/black-desk/dirwatch/pkg/types"
	. "github.com/black-desk/lib/go/errwrap"
	"github.com/fsnotify/fsnotify"
	"github.com/sourcegraph/conc"
	"go.uber.org/zap"
)

type watch struct {
	path string
	mask types.EventFlag
}

type Primitive struct {
	watcher *fsnotify.Watcher

	mu      sync.Mutex
	next    types.Handle
	watches map[types.Handle]*watch
	byPath  map[string]types.Handle

	queue *queue.Queue
	wg    conc.WaitGroup
	once  sync.Once

	log *zap.SugaredLogger
}

var _ interfaces.Primitive = &Primitive{}

type Opt func(p *Primitive) (ret *Primitive, err error)

func New(opts ...Opt) (ret *Primitive, err error) {
	defer Wrap(&err, "create fsnotify primitive")

	p := &Primitive{
		next:    1,
		watches: map[types.Handle]*watch{},
		byPath:  map[string]types.Handle{},
		queue:   queue.New(),
	}

	for i := range opts {
		p, err = opts[i](p)
		if err != nil {
			return
		}
	}

	if p.log == nil {
		p.log = zap.NewNop().Sugar()
	}

	p.watcher, err = fsnotify.NewWatcher()
	if err != nil {
		return
	}

	p.wg.Go(p.forward)

	ret = p
	return
}

func WithLogger(log *zap.SugaredLogger) Opt {
	return func(p *Primitive) (ret *Primitive, err error) {
		if log == nil {
			err = ErrLoggerMissing
			return
		}

		p.log = log
		ret = p
		return
	}
}

func (p *Primitive) AddWatch(path string, mask types.EventFlag) (handle types.Handle, err error) {
	handle = types.InvalidHandle

	select {
	case <-p.queue.Done():
		err = ErrClosed
		return
	default:
	}

	path = filepath.Clean(path)

	err = p.watcher.Add(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			err = &os.PathError{Op: "watch", Path: path, Err: os.ErrNotExist}
		}
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if h, ok := p.byPath[path]; ok {
		p.watches[h].mask |= mask
		handle = h
		return
	}

	handle = p.next
	p.next++
	p.watches[handle] = &watch{path: path, mask: mask}
	p.byPath[path] = handle
	return
}

func (p *Primitive) RemoveWatch(handle types.Handle) (err error) {
	p.mu.Lock()
	w, ok := p.watches[handle]
	if ok {
		delete(p.watches, handle)
		delete(p.byPath, w.path)
	}
	p.mu.Unlock()

	if !ok {
		return
	}

	err = p.watcher.Remove(w.path)
	if errors.Is(err, fsnotify.ErrNonExistentWatch) {
		err = nil
	}
	return
}

func (p *Primitive) Read() ([]types.RawEvent, error) {
	return p.queue.Drain(), nil
}

func (p *Primitive) WaitReadable(ctx context.Context) error {
	return p.queue.Wait(ctx)
}

func (p *Primitive) Close() (err error) {
	p.once.Do(func() {
		p.queue.Close()
		err = p.watcher.Close()
		p.wg.Wait()
	})
	return
}

func (p *Primitive) forward() {
	for {
		select {
		case event, ok := <-p.watcher.Events:
			if !ok {
				return
			}
			for _, raw := range p.translate(event) {
				p.queue.Push(raw)
			}
		case err, ok := <-p.watcher.Errors:
			if !ok {
				return
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				p.queue.Push(types.RawEvent{
					Handle: types.InvalidHandle,
					Flags:  types.Overflow,
				})
				continue
			}
			p.log.Errorw("Fsnotify reported an error.",
				"error", err,
			)
		}
	}
}

// translate gives the raw events of one fsnotify event. A watched path
// removed by itself yields its Removed event, when the mask asks for it,
// followed by an ignored event.
func (p *Primitive) translate(event fsnotify.Event) (ret []types.RawEvent) {
	path := filepath.Clean(event.Name)

	p.mu.Lock()
	defer p.mu.Unlock()

	var (
		raw types.RawEvent
		w   *watch
	)
	handle, self := p.byPath[path]
	if self {
		w = p.watches[handle]
	} else {
		var ok bool
		handle, ok = p.byPath[filepath.Dir(path)]
		if !ok {
			return
		}
		w = p.watches[handle]
		raw.Name = filepath.Base(path)
	}

	raw.Handle = handle
	raw.Flags = toFlags(event.Op, self)

	if self && event.Has(fsnotify.Remove) {
		// NOTE: fsnotify drops the watch of a removed path by itself.
		delete(p.watches, handle)
		delete(p.byPath, path)

		if raw.Flags.Intersects(w.mask) {
			ret = append(ret, raw)
		}

		ret = append(ret, types.RawEvent{Handle: handle, Ignored: true})
		return
	}

	if !raw.Flags.Intersects(w.mask) {
		return
	}

	if st, err := os.Lstat(path); err == nil && st.IsDir() {
		raw.Flags |= types.IsDir
	}

	ret = append(ret, raw)
	return
}

func toFlags(op fsnotify.Op, self bool) (ret types.EventFlag) {
	if op.Has(fsnotify.Create) {
		ret |= types.Created
	}
	if op.Has(fsnotify.Write) {
		ret |= types.Updated
	}
	if op.Has(fsnotify.Remove) {
		ret |= types.Removed
	}
	if op.Has(fsnotify.Rename) {
		if self {
			ret |= types.Renamed
		} else {
			ret |= types.MovedFrom
		}
	}
	if op.Has(fsnotify.Chmod) {
		ret |= types.AttributeModified
	}
	return
}
