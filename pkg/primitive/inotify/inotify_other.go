// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

//go:build !linux

package inotify

import (
	"context"

	"github.com/black-desk/dirwatch/pkg/types"
	"go.uber.org/zap"
)

type Primitive struct {
	log *zap.SugaredLogger
}

func New(opts ...Opt) (*Primitive, error) {
	return nil, ErrUnsupported
}

func (p *Primitive) AddWatch(string, types.EventFlag) (types.Handle, error) {
	return types.InvalidHandle, ErrUnsupported
}

func (p *Primitive) RemoveWatch(types.Handle) error { return ErrUnsupported }

func (p *Primitive) Read() ([]types.RawEvent, error) { return nil, ErrUnsupported }

func (p *Primitive) WaitReadable(context.Context) error { return ErrUnsupported }

func (p *Primitive) Close() error { return nil }
