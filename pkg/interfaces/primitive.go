// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package interfaces

import (
	"context"

	"github.com/black-desk/dirwatch/pkg/types"
)

// Readable is a source the reactor can wait on.
//
// WaitReadable blocks until the source has data, ctx is done,
// or the source is closed.
// It returns a nil error only when data is available.
type Readable interface {
	WaitReadable(ctx context.Context) error
}

// Primitive is a kernel-level watch facility.
//
// Read never blocks: it returns whatever has been queued,
// possibly nothing.
type Primitive interface {
	Readable

	AddWatch(path string, mask types.EventFlag) (types.Handle, error)
	RemoveWatch(handle types.Handle) error
	Read() ([]types.RawEvent, error)
	Close() error
}

// PrimitiveFactory opens a fresh primitive.
type PrimitiveFactory func() (Primitive, error)
