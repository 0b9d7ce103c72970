// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package watchtab

import (
	"fmt"

	"github.com/black-desk/dirwatch/pkg/types"
)

type ErrUnknownHandle struct {
	Handle types.Handle
}

func (e *ErrUnknownHandle) Error() string {
	return fmt.Sprintf("watch handle %d is not in the table", e.Handle)
}

type ErrDuplicateWatch struct {
	Path     string
	Handle   types.Handle
	Existing types.WatchedPath
}

func (e *ErrDuplicateWatch) Error() string {
	return fmt.Sprintf(
		"cannot register %s (handle %d): %s is already registered with handle %d",
		e.Path, e.Handle, e.Existing.Path, e.Existing.Handle,
	)
}
