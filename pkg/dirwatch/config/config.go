// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"github.com/black-desk/dirwatch/pkg/types"
	"go.uber.org/zap"
)

type Config struct {
	Version string `yaml:"version" validate:"required,eq=1"`

	Engine Engine `yaml:"engine" validate:"required,oneof=native fswatch"`

	Paths         []string `yaml:"paths" validate:"dive,required"`
	ExcludedPaths []string `yaml:"excluded-paths" validate:"dive,required"`
	// Suffixes limits file events to names ending with one of them.
	// Directories are never filtered by suffix.
	Suffixes []string `yaml:"suffixes" validate:"dive,required"`
	// Masks are names of event flags, e.g. Created or MovedTo.
	Masks []string `yaml:"masks"`

	Native  *Native  `yaml:"native"`
	FSWatch *FSWatch `yaml:"fswatch"`
	Output  *Output  `yaml:"output"`
	Log     *Log     `yaml:"log"`

	// MaskFlags is Masks parsed.
	MaskFlags []types.EventFlag `yaml:"-"`

	log *zap.SugaredLogger `yaml:"-"`
	raw []byte
}

type Engine string

const (
	EngineNative  Engine = "native"
	EngineFSWatch Engine = "fswatch"
)

type Native struct {
	Primitive Primitive `yaml:"primitive" validate:"omitempty,oneof=inotify notify fsnotify"`
}

type Primitive string

const (
	PrimitiveInotify  Primitive = "inotify"
	PrimitiveNotify   Primitive = "notify"
	PrimitiveFsnotify Primitive = "fsnotify"
)

type FSWatch struct {
	// Binary is the fswatch executable,
	// searched in $PATH and a few well known directories when empty.
	Binary      string   `yaml:"binary"`
	Latency     float64  `yaml:"latency" validate:"gte=0"`
	Recursive   *bool    `yaml:"recursive"`
	Insensitive *bool    `yaml:"insensitive"`
	FromPath    string   `yaml:"from-path"`
	Events      []string `yaml:"events"`
	Options     []Option `yaml:"options" validate:"dive"`

	// EventFlags is Events parsed.
	EventFlags []types.EventFlag `yaml:"-"`
}

// Option is passed to fswatch as is, see fswatch(7).
type Option struct {
	Key   string `yaml:"key" validate:"required,startswith=-"`
	Value string `yaml:"value"`
}

type Output struct {
	Format Format `yaml:"format" validate:"omitempty,oneof=text json"`
	// Exec is a command line run for every event.
	// The event is passed through environment variables.
	Exec string `yaml:"exec"`
}

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Log configures a rotating log file.
// Logs go to the default logger when File is empty.
type Log struct {
	File       string `yaml:"file"`
	MaxSize    int    `yaml:"max-size" validate:"gte=0"`
	MaxBackups int    `yaml:"max-backups" validate:"gte=0"`
	MaxAge     int    `yaml:"max-age" validate:"gte=0"`
	Compress   bool   `yaml:"compress"`
}
