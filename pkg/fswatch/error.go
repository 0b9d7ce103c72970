// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package fswatch

import (
	"errors"
	"fmt"
)

var (
	ErrLoggerMissing  = errors.New("logger is missing.")
	ErrPathsMissing   = errors.New("no path to watch.")
	ErrBinaryNotFound = errors.New("fswatch binary not found.")
)

type ErrBinaryNotExecutable struct {
	Path string
}

func (e *ErrBinaryNotExecutable) Error() string {
	return fmt.Sprintf("fswatch binary %s is not executable.", e.Path)
}

type ErrInvalidOutput struct {
	Line string
	Err  error
}

func (e *ErrInvalidOutput) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("unexpected fswatch output %q.", e.Line)
	}
	return fmt.Sprintf("unexpected fswatch output %q: %s", e.Line, e.Err)
}

func (e *ErrInvalidOutput) Unwrap() error {
	return e.Err
}

type ErrProcessExited struct {
	Err error
}

func (e *ErrProcessExited) Error() string {
	if e.Err == nil {
		return "fswatch exited unexpectedly."
	}
	return fmt.Sprintf("fswatch exited unexpectedly: %s", e.Err)
}

func (e *ErrProcessExited) Unwrap() error {
	return e.Err
}
