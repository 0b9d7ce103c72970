// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package rewatch

import (
	"github.com/black-desk/dirwatch/pkg/types"
	. "github.com/black-desk/lib/go/errwrap"
)

// Invalidate drives the entry of handle from Invalidated to either
// Active, when its path could be watched again, or Absent.
//
// Only the entry of handle is touched. Walking the path registers
// descendants that are not in the table any more, while descendants
// still in the table are left to their own invalidation.
func (c *Controller) Invalidate(handle types.Handle) (state State, err error) {
	defer Wrap(&err, "rewatch handle %d", handle)

	state = Invalidated

	var path string
	path, err = c.table.Unregister(handle)
	if err != nil {
		return
	}

	c.log.Debugw("Watch invalidated.",
		"handle", handle,
		"path", path,
	)

	state = Rewatching

	var accepted bool
	accepted, err = c.walker.Walk(path)
	if accepted && c.table.IsWatched(path) {
		state = Active
	} else {
		state = Absent
	}

	c.log.Debugw("Rewatch finished.",
		"path", path,
		"state", state,
		"error", err,
	)

	return
}
