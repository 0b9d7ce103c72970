// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package dirwatch

import (
	"errors"
	"fmt"
)

var (
	ErrConfigMissing = errors.New("config is missing.")
	ErrLoggerMissing = errors.New("logger is missing.")
	ErrEngineMissing = errors.New("engine is missing.")
	ErrEventsMissing = errors.New("event channel is missing.")
)

type ErrUnknownEngine struct {
	Engine string
}

func (e *ErrUnknownEngine) Error() string {
	return fmt.Sprintf("unknown engine %q.", e.Engine)
}

type ErrUnknownPrimitive struct {
	Primitive string
}

func (e *ErrUnknownPrimitive) Error() string {
	return fmt.Sprintf("unknown watch primitive %q.", e.Primitive)
}

type ErrHook struct {
	Command string
	Err     error
}

func (e *ErrHook) Error() string {
	return fmt.Sprintf("hook %s: %v", e.Command, e.Err)
}

func (e *ErrHook) Unwrap() error {
	return e.Err
}
