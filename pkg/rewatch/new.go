// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package rewatch recovers a single watch after the primitive
// reported it as no longer valid.
package rewatch

import (
	"github.com/black-desk/dirwatch/pkg/treewalk"
	"github.com/black-desk/dirwatch/pkg/watchtab"
	. "github.com/black-desk/lib/go/errwrap"
	"go.uber.org/zap"
)

type Controller struct {
	table  *watchtab.Table
	walker *treewalk.Walker
	log    *zap.SugaredLogger
}

type Opt func(c *Controller) (ret *Controller, err error)

func New(opts ...Opt) (ret *Controller, err error) {
	defer Wrap(&err, "create rewatch controller")

	c := &Controller{}

	for i := range opts {
		c, err = opts[i](c)
		if err != nil {
			return
		}
	}

	if c.table == nil {
		err = ErrTableMissing
		return
	}

	if c.walker == nil {
		err = ErrWalkerMissing
		return
	}

	if c.log == nil {
		c.log = zap.NewNop().Sugar()
	}

	ret = c
	return
}

func WithTable(t *watchtab.Table) Opt {
	return func(c *Controller) (ret *Controller, err error) {
		c.table = t
		ret = c
		return
	}
}

func WithWalker(w *treewalk.Walker) Opt {
	return func(c *Controller) (ret *Controller, err error) {
		c.walker = w
		ret = c
		return
	}
}

func WithLogger(log *zap.SugaredLogger) Opt {
	return func(c *Controller) (ret *Controller, err error) {
		if log == nil {
			err = ErrLoggerMissing
			return
		}

		c.log = log
		ret = c
		return
	}
}
