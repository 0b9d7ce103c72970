// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"path/filepath"

	"github.com/black-desk/dirwatch/pkg/types"
	. "github.com/black-desk/lib/go/errwrap"
	"github.com/go-playground/validator/v10"
)

func (c *Config) check() (err error) {
	defer Wrap(&err, "check configuration")

	var validator = validator.New()
	err = validator.Struct(c)
	if err != nil {
		err = fmt.Errorf("validator: %w", err)
		return
	}

	if len(c.Paths) == 0 {
		err = ErrPathsMissing
		return
	}

	for i := range c.Paths {
		c.Paths[i], err = filepath.Abs(c.Paths[i])
		if err != nil {
			Wrap(&err, "resolve path %s", c.Paths[i])
			return
		}
	}

	for i := range c.ExcludedPaths {
		c.ExcludedPaths[i], err = filepath.Abs(c.ExcludedPaths[i])
		if err != nil {
			Wrap(&err, "resolve excluded path %s", c.ExcludedPaths[i])
			return
		}
	}

	c.MaskFlags, err = types.ParseFlags(c.Masks)
	if err != nil {
		Wrap(&err, "parse masks")
		return
	}

	if c.Native == nil {
		c.Native = &Native{}
	}
	if c.Native.Primitive == "" {
		c.Native.Primitive = PrimitiveInotify
	}

	if c.FSWatch == nil {
		c.FSWatch = &FSWatch{}
	}
	if c.FSWatch.Latency == 0 {
		c.FSWatch.Latency = DefaultLatency
	}
	if c.FSWatch.Recursive == nil {
		recursive := true
		c.FSWatch.Recursive = &recursive
	}
	if c.FSWatch.Insensitive == nil {
		insensitive := true
		c.FSWatch.Insensitive = &insensitive
	}
	c.FSWatch.EventFlags, err = types.ParseFlags(c.FSWatch.Events)
	if err != nil {
		Wrap(&err, "parse fswatch events")
		return
	}

	if c.Output == nil {
		c.Output = &Output{}
	}
	if c.Output.Format == "" {
		c.Output.Format = FormatText
	}

	if c.Log == nil {
		c.Log = &Log{}
	}
	if c.Log.MaxSize == 0 {
		c.Log.MaxSize = DefaultMaxSize
	}
	if c.Log.MaxBackups == 0 {
		c.Log.MaxBackups = DefaultMaxBackups
	}
	if c.Log.MaxAge == 0 {
		c.Log.MaxAge = DefaultMaxAge
	}

	c.log.Debugw("Configuration checked.",
		"engine", c.Engine,
		"paths", c.Paths,
	)

	return
}
