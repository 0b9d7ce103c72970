// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package treewalk

import "errors"

var (
	ErrLoggerMissing    = errors.New("logger is missing.")
	ErrPrimitiveMissing = errors.New("watch primitive is missing.")
	ErrTableMissing     = errors.New("watch table is missing.")
)
