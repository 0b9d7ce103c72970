// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package config

const (
	DefaultConfig = `
version: 1
engine: native
paths:
  - .
`

	DefaultLatency    = 0.1
	DefaultMaxSize    = 10
	DefaultMaxBackups = 3
	DefaultMaxAge     = 28
)
