// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package inotify implements the watch primitive with the inotify(7) API.
package inotify

import (
	"go.uber.org/zap"
)

type Opt func(p *Primitive) (ret *Primitive, err error)

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
