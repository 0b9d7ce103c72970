// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

//go:build debug
// +build debug

package log

import "go.uber.org/zap/zapcore"

const defaultLevel = zapcore.DebugLevel
