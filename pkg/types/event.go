// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package types

// Handle is the opaque identifier a watch primitive issues for one watched path.
type Handle int

// InvalidHandle is carried by events not bound to any watch,
// e.g. a queue overflow.
const InvalidHandle Handle = -1

// RawEvent is what a watch primitive reports.
type RawEvent struct {
	Handle Handle
	// Name is the entry name relative to the watched directory,
	// empty when the event is about the watched path itself.
	Name  string
	Flags EventFlag
	// Ignored means the handle is no longer valid.
	Ignored bool
}

// Event is the normalized event handed to user callbacks.
type Event struct {
	Handle Handle    `json:"-"`
	Path   string    `json:"path"`
	Name   string    `json:"name,omitempty"`
	Flags  EventFlag `json:"flags"`
}

// WatchedPath is one entry of a watch table.
type WatchedPath struct {
	Path   string
	Handle Handle
	IsDir  bool
}
