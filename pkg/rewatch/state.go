// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package rewatch

//go:generate go run golang.org/x/tools/cmd/stringer@latest -type=State

// State is where a single watch entry is in its recovery.
type State int

const (
	Active State = iota
	Invalidated
	Rewatching
	// Absent is terminal: the path is gone and nothing watches it.
	Absent
)
