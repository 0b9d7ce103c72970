// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package treewalk registers watches for a directory tree.
package treewalk

import (
	"github.com/black-desk/dirwatch/pkg/interfaces"
	"github.com/black-desk/dirwatch/pkg/pathfilter"
	"github.com/black-desk/dirwatch/pkg/types"
	"github.com/black-desk/dirwatch/pkg/watchtab"
	. "github.com/black-desk/lib/go/errwrap"
	"go.uber.org/zap"
)

type Walker struct {
	primitive interfaces.Primitive
	table     *watchtab.Table
	filter    *pathfilter.Filter
	mask      types.EventFlag
	log       *zap.SugaredLogger
}

type Opt func(w *Walker) (ret *Walker, err error)

func New(opts ...Opt) (ret *Walker, err error) {
	defer Wrap(&err, "create tree walker")

	w := &Walker{}

	for i := range opts {
		w, err = opts[i](w)
		if err != nil {
			return
		}
	}

	if w.primitive == nil {
		err = ErrPrimitiveMissing
		return
	}

	if w.table == nil {
		err = ErrTableMissing
		return
	}

	if w.filter == nil {
		w.filter, err = pathfilter.New()
		if err != nil {
			return
		}
	}

	if w.log == nil {
		w.log = zap.NewNop().Sugar()
	}

	ret = w
	return
}

func WithPrimitive(p interfaces.Primitive) Opt {
	return func(w *Walker) (ret *Walker, err error) {
		w.primitive = p
		ret = w
		return
	}
}

func WithTable(t *watchtab.Table) Opt {
	return func(w *Walker) (ret *Walker, err error) {
		w.table = t
		ret = w
		return
	}
}

func WithFilter(f *pathfilter.Filter) Opt {
	return func(w *Walker) (ret *Walker, err error) {
		w.filter = f
		ret = w
		return
	}
}

func WithMask(mask types.EventFlag) Opt {
	return func(w *Walker) (ret *Walker, err error) {
		w.mask = mask
		ret = w
		return
	}
}

func WithLogger(log *zap.SugaredLogger) Opt {
	return func(w *Walker) (ret *Walker, err error) {
		if log == nil {
			err = ErrLoggerMissing
			return
		}

		w.log = log
		ret = w
		return
	}
}
