// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package rewatch

import "errors"

var (
	ErrLoggerMissing = errors.New("logger is missing.")
	ErrTableMissing  = errors.New("watch table is missing.")
	ErrWalkerMissing = errors.New("tree walker is missing.")
)
