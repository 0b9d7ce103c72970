// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package inotify

import "errors"

var (
	ErrLoggerMissing = errors.New("logger is missing.")
	ErrClosed        = errors.New("inotify instance is closed.")
	ErrUnsupported   = errors.New("inotify is not available on this platform.")
)
