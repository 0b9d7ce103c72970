// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package primitive provides an in-memory watch primitive for tests.
// Events are injected with Emit.
//
// Like inotify, it follows symlinks and hands out one handle per file,
// whatever name the file is added under.
package primitive

import (
	"context"
	"errors"
	"os"
	"sync"

	"github.com/black-desk/dirwatch/pkg/interfaces"
	"github.com/black-desk/dirwatch/pkg/types"
)

var ErrClosed = errors.New("fake primitive is closed.")

type Primitive struct {
	mu      sync.Mutex
	next    types.Handle
	watches map[types.Handle]string
	masks   map[types.Handle]types.EventFlag
	files   map[types.Handle]os.FileInfo
	queue   []types.RawEvent
	ready   chan struct{}
	closed  chan struct{}
	once    sync.Once

	// AddErr, when set, is returned by AddWatch for the given path.
	AddErr map[string]error
}

var _ interfaces.Primitive = &Primitive{}

func New() *Primitive {
	return &Primitive{
		next:    1,
		watches: map[types.Handle]string{},
		masks:   map[types.Handle]types.EventFlag{},
		files:   map[types.Handle]os.FileInfo{},
		ready:   make(chan struct{}, 1),
		closed:  make(chan struct{}),
		AddErr:  map[string]error{},
	}
}

// Factory returns an interfaces.PrimitiveFactory recording every
// primitive it opens.
func Factory(opened *[]*Primitive, mu *sync.Mutex) interfaces.PrimitiveFactory {
	return func() (interfaces.Primitive, error) {
		p := New()
		mu.Lock()
		*opened = append(*opened, p)
		mu.Unlock()
		return p, nil
	}
}

func (p *Primitive) AddWatch(path string, mask types.EventFlag) (types.Handle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.AddErr[path]; err != nil {
		return types.InvalidHandle, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return types.InvalidHandle, err
	}

	for h, file := range p.files {
		if os.SameFile(file, info) {
			p.watches[h] = path
			p.masks[h] = mask
			return h, nil
		}
	}

	h := p.next
	p.next++
	p.watches[h] = path
	p.masks[h] = mask
	p.files[h] = info
	return h, nil
}

func (p *Primitive) RemoveWatch(handle types.Handle) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.watches[handle]; !ok {
		return os.ErrInvalid
	}

	p.forget(handle)
	return nil
}

func (p *Primitive) Read() ([]types.RawEvent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ret := p.queue
	p.queue = nil
	return ret, nil
}

func (p *Primitive) WaitReadable(ctx context.Context) error {
	for {
		p.mu.Lock()
		pending := len(p.queue)
		p.mu.Unlock()

		if pending > 0 {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.closed:
			return ErrClosed
		case <-p.ready:
		}
	}
}

func (p *Primitive) Close() error {
	p.once.Do(func() {
		close(p.closed)
	})
	return nil
}

// Emit queues events for the next Read.
// Like the kernel, it forgets a watch once it is reported as ignored.
func (p *Primitive) Emit(events ...types.RawEvent) {
	p.mu.Lock()
	for i := range events {
		if events[i].Ignored {
			p.forget(events[i].Handle)
		}
	}
	p.queue = append(p.queue, events...)
	p.mu.Unlock()

	select {
	case p.ready <- struct{}{}:
	default:
	}
}

func (p *Primitive) forget(handle types.Handle) {
	delete(p.watches, handle)
	delete(p.masks, handle)
	delete(p.files, handle)
}

// Handle returns the live handle of path,
// the name the file was last added under.
func (p *Primitive) Handle(path string) (types.Handle, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for h, watched := range p.watches {
		if watched == path {
			return h, true
		}
	}
	return types.InvalidHandle, false
}

func (p *Primitive) Mask(handle types.Handle) types.EventFlag {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.masks[handle]
}

func (p *Primitive) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.watches)
}

func (p *Primitive) Closed() bool {
	select {
	case <-p.closed:
		return true
	default:
		return false
	}
}
