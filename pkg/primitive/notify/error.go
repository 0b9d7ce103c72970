// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package notify

import "errors"

var (
	ErrLoggerMissing = errors.New("logger is missing.")
	ErrClosed        = errors.New("notify primitive is closed.")
)
