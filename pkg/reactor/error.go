// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package reactor

import "errors"

var (
	ErrLoggerMissing  = errors.New("logger is missing.")
	ErrLoopRunning    = errors.New("loop is already running.")
	ErrLoopNotRunning = errors.New("loop is not running.")
	ErrSourceExists   = errors.New("readable source is already registered.")
)
