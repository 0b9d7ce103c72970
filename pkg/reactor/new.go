// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package reactor provides a single-owner event loop.
//
// Every task submitted to a Loop runs on the goroutine that called Run,
// one at a time. Readable sources registered on the loop are polled by
// pump goroutines, but their callbacks are executed as loop tasks too,
// so state owned by the loop never needs its own locking.
//
// A context handed to a task carries the identity of the loop.
// Calling back into the loop with that context runs the function inline,
// which lets callbacks stop or restart the component that owns the loop.
package reactor

import (
	"context"
	"sync"

	"github.com/black-desk/dirwatch/pkg/interfaces"
	. "github.com/black-desk/lib/go/errwrap"
	"go.uber.org/zap"
)

type Loop struct {
	// mu is held while a task runs.
	mu sync.Mutex

	// state guards every field below.
	state   sync.Mutex
	running bool
	ctx     context.Context
	cancel  context.CancelFunc
	queue   []*task
	wake    chan struct{}
	pumps   map[interfaces.Readable]*pump

	log *zap.SugaredLogger
}

type Opt func(l *Loop) (ret *Loop, err error)

func New(opts ...Opt) (ret *Loop, err error) {
	defer Wrap(&err, "create reactor loop")

	l := &Loop{
		wake:  make(chan struct{}, 1),
		pumps: map[interfaces.Readable]*pump{},
	}

	for i := range opts {
		l, err = opts[i](l)
		if err != nil {
			return
		}
	}

	if l.log == nil {
		l.log = zap.NewNop().Sugar()
	}

	ret = l
	return
}

func WithLogger(log *zap.SugaredLogger) Opt {
	return func(l *Loop) (ret *Loop, err error) {
		if log == nil {
			err = ErrLoggerMissing
			return
		}

		l.log = log
		ret = l
		return
	}
}
