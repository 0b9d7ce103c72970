// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package watchtab keeps the mapping between the handles issued by a watch
// primitive and the paths they watch.
//
// A handle normally watches one path. The kernel hands out the same handle
// for every name of one inode, so a handle can also carry aliases,
// added with Alias. Lookup by handle always gives the first path.
//
// A Table is not safe for concurrent use. It is meant to be owned by one
// reactor loop, see package reactor.
package watchtab

import (
	"github.com/black-desk/dirwatch/pkg/types"
)

type Table struct {
	// The first entry of each slice is the path the handle was
	// registered with, the rest are aliases.
	byHandle map[types.Handle][]*types.WatchedPath
	byPath   map[string]*types.WatchedPath
}

func New() *Table {
	return &Table{
		byHandle: map[types.Handle][]*types.WatchedPath{},
		byPath:   map[string]*types.WatchedPath{},
	}
}
