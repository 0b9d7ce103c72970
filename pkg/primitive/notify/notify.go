// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package notify implements the watch primitive
// with github.com/rjeczalik/notify.
//
// Every watch owns a channel registered with notify.Watch.
// Events of all channels are merged into one queue,
// tagged with the handle of the watch they came from.
package notify

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/black-desk/dirwatch/pkg/interfaces"
	"github.com/black-desk/dirwatch/pkg/primitive/internal/queue"
	"github.com/black-desk/dirwatch/pkg/types"
	. "github.com/black-desk/lib/go/errwrap"
	"github.com/rjeczalik/notify"
	"github.com/sourcegraph/conc"
	"go.uber.org/zap"
)

const channelSize = 1 << 10

type watch struct {
	path string
	mask types.EventFlag
	ch   chan notify.EventInfo
	stop chan struct{}
}

type Primitive struct {
	mu      sync.Mutex
	next    types.Handle
	watches map[types.Handle]*watch
	queue   *queue.Queue
	wg      conc.WaitGroup

	log *zap.SugaredLogger
}

var _ interfaces.Primitive = &Primitive{}

type Opt func(p *Primitive) (ret *Primitive, err error)

func New(opts ...Opt) (ret *Primitive, err error) {
	defer Wrap(&err, "create notify primitive")

	p := &Primitive{
		next:    1,
		watches: map[types.Handle]*watch{},
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

	_, err = os.Stat(path)
	if err != nil {
		return
	}

	w := &watch{
		path: filepath.Clean(path),
		mask: mask,
		ch:   make(chan notify.EventInfo, channelSize),
		stop: make(chan struct{}),
	}

	// NOTE: Remove is always requested, it is how invalidation is noticed.
	err = notify.Watch(w.path, w.ch, append(toNotifyEvents(mask), notify.Remove)...)
	if err != nil {
		err = &os.PathError{Op: "watch", Path: path, Err: err}
		return
	}

	p.mu.Lock()
	handle = p.next
	p.next++
	p.watches[handle] = w
	p.mu.Unlock()

	p.wg.Go(func() {
		p.forward(handle, w)
	})

	return
}

func (p *Primitive) RemoveWatch(handle types.Handle) (err error) {
	p.mu.Lock()
	w, ok := p.watches[handle]
	delete(p.watches, handle)
	p.mu.Unlock()

	if !ok {
		return nil
	}

	notify.Stop(w.ch)
	close(w.stop)
	return
}

func (p *Primitive) Read() ([]types.RawEvent, error) {
	return p.queue.Drain(), nil
}

func (p *Primitive) WaitReadable(ctx context.Context) error {
	return p.queue.Wait(ctx)
}

func (p *Primitive) Close() (err error) {
	p.mu.Lock()
	watches := p.watches
	p.watches = map[types.Handle]*watch{}
	p.mu.Unlock()

	for _, w := range watches {
		notify.Stop(w.ch)
		close(w.stop)
	}

	p.queue.Close()
	p.wg.Wait()

	p.log.Debugw("Notify primitive closed.",
		"watches", len(watches),
	)
	return
}

func (p *Primitive) forward(handle types.Handle, w *watch) {
	for {
		select {
		case <-w.stop:
			return
		case info := <-w.ch:
			events := toRawEvents(handle, w, info)
			for i := range events {
				p.queue.Push(events[i])
			}
			if len(events) > 0 && events[len(events)-1].Ignored {
				p.invalidate(handle, w)
				return
			}
		}
	}
}

// invalidate drops a watch whose path is gone.
func (p *Primitive) invalidate(handle types.Handle, w *watch) {
	p.mu.Lock()
	_, ok := p.watches[handle]
	delete(p.watches, handle)
	p.mu.Unlock()

	if ok {
		notify.Stop(w.ch)
	}
}

func toNotifyEvents(mask types.EventFlag) (ret []notify.Event) {
	if mask.Intersects(types.Created) {
		ret = append(ret, notify.Create)
	}
	if mask.Intersects(types.Updated | types.AttributeModified | types.OwnerModified) {
		ret = append(ret, notify.Write)
	}
	if mask.Intersects(types.Renamed | types.MovedFrom | types.MovedTo) {
		ret = append(ret, notify.Rename)
	}
	return
}

// toRawEvents gives the raw events of one notification. A watched path
// removed by itself yields its Removed event, when the mask asks for it,
// followed by an ignored event.
func toRawEvents(handle types.Handle, w *watch, info notify.EventInfo) (ret []types.RawEvent) {
	raw := types.RawEvent{Handle: handle}

	path := filepath.Clean(info.Path())
	self := path == w.path
	if !self {
		raw.Name = filepath.Base(path)
	}

	switch info.Event() {
	case notify.Create:
		raw.Flags = types.Created
	case notify.Write:
		raw.Flags = types.Updated
	case notify.Remove:
		raw.Flags = types.Removed
		if self {
			if raw.Flags.Intersects(w.mask) {
				ret = append(ret, raw)
			}
			ret = append(ret, types.RawEvent{Handle: handle, Ignored: true})
			return
		}
	case notify.Rename:
		if self {
			raw.Flags = types.Renamed
		} else {
			raw.Flags = types.MovedFrom
		}
	default:
		raw.Flags = types.PlatformSpecific
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
