// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package inwatch

import (
	"errors"
	"fmt"
)

var (
	ErrLoggerMissing  = errors.New("logger is missing.")
	ErrFactoryMissing = errors.New("primitive factory is missing.")
)

// ErrConfiguration means the watch primitive cannot be used.
type ErrConfiguration struct {
	Err error
}

func (e *ErrConfiguration) Error() string {
	return fmt.Sprintf("watch primitive is not available: %s", e.Err)
}

func (e *ErrConfiguration) Unwrap() error {
	return e.Err
}
