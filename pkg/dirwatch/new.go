// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package dirwatch runs a watch engine built from a configuration
// and reports every event it delivers.
package dirwatch

import (
	"github.com/black-desk/dirwatch/pkg/dirwatch/config"
	"github.com/black-desk/dirwatch/pkg/interfaces"
	"github.com/black-desk/dirwatch/pkg/types"
	. "github.com/black-desk/lib/go/errwrap"
	"go.uber.org/zap"
)

type Dirwatch struct {
	cfg *config.Config

	engine  interfaces.Engine
	events  <-chan types.Event
	printer *Printer
	hook    *Hook

	log *zap.SugaredLogger
}

type Opt = (func(*Dirwatch) (*Dirwatch, error))

func New(opts ...Opt) (ret *Dirwatch, err error) {
	defer Wrap(&err, "create new dirwatch daemon")

	d := &Dirwatch{}
	for i := range opts {
		d, err = opts[i](d)
		if err != nil {
			d = nil
			return
		}
	}

	if d.log == nil {
		d.log = zap.NewNop().Sugar()
	}

	if d.cfg == nil {
		err = ErrConfigMissing
		return
	}

	if d.engine == nil {
		err = ErrEngineMissing
		return
	}

	if d.events == nil {
		err = ErrEventsMissing
		return
	}

	ret = d

	d.log.Debugw("Create a new daemon.",
		"engine", d.cfg.Engine,
		"paths", d.cfg.Paths,
	)

	return
}

func WithConfig(cfg *config.Config) Opt {
	return func(d *Dirwatch) (ret *Dirwatch, err error) {
		d.cfg = cfg
		ret = d
		return
	}
}

func WithLogger(log *zap.SugaredLogger) Opt {
	return func(d *Dirwatch) (ret *Dirwatch, err error) {
		if log == nil {
			err = ErrLoggerMissing
			return
		}

		d.log = log
		ret = d
		return
	}
}

// WithEngine sets the engine and the channel its events are sent to.
func WithEngine(engine interfaces.Engine, events <-chan types.Event) Opt {
	return func(d *Dirwatch) (ret *Dirwatch, err error) {
		d.engine = engine
		d.events = events
		ret = d
		return
	}
}

// WithPrinter sets where events are printed. Nothing is printed without it.
func WithPrinter(printer *Printer) Opt {
	return func(d *Dirwatch) (ret *Dirwatch, err error) {
		d.printer = printer
		ret = d
		return
	}
}

func WithHook(hook *Hook) Opt {
	return func(d *Dirwatch) (ret *Dirwatch, err error) {
		d.hook = hook
		ret = d
		return
	}
}
