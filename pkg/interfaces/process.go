// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package interfaces

import (
	"context"
)

// Process is a running child whose stdout is read by the reactor.
type Process interface {
	Readable

	// ReadAvailable returns the bytes read from stdout since the last call.
	ReadAvailable() []byte
	Terminate() error
	Wait() error
}

type Spawner func(ctx context.Context, bin string, argv []string) (Process, error)
