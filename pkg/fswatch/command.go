// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package fswatch

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	. "github.com/black-desk/lib/go/errwrap"
	"github.com/kballard/go-shellquote"
)

const DefaultBinary = "fswatch"

// FallbackDirs are searched after $PATH.
var FallbackDirs = []string{"/usr/local/bin", "/usr/bin", "/opt/homebrew/bin"}

// Option keys the watcher always sets.
// They make fswatch print one "<path> <numeric flags>" line per event.
var fixedOptions = []Option{
	{Key: "--numeric", Value: true},
	{Key: "--extended", Value: true},
	{Key: "--event-flags", Value: true},
}

type Option struct {
	Key   string
	Value any
}

// Options is an ordered set of command line options.
type Options struct {
	list []Option
}

// Set overwrites the value of key in place,
// or appends key when it is new.
func (o *Options) Set(key string, value any) {
	for i := range o.list {
		if o.list[i].Key == key {
			o.list[i].Value = value
			return
		}
	}
	o.list = append(o.list, Option{Key: key, Value: value})
}

func (o *Options) Get(key string) (value any, ok bool) {
	for i := range o.list {
		if o.list[i].Key == key {
			return o.list[i].Value, true
		}
	}
	return nil, false
}

func (o *Options) List() []Option {
	return append([]Option(nil), o.list...)
}

func (o *Options) Len() int {
	return len(o.list)
}

// Merge applies layers from left to right.
// Later layers win, keys keep the position they first appeared at.
func Merge(layers ...Options) (ret Options) {
	for i := range layers {
		for _, opt := range layers[i].list {
			ret.Set(opt.Key, opt.Value)
		}
	}
	return
}

// BuildArguments renders options and appends paths.
//
// true renders as a bare flag, other non-zero values as --key=value,
// string slices as one --key=value per element.
// false, zero, empty strings, empty slices and nil are left out.
// Paths are trimmed and deduplicated, the first occurrence wins.
func BuildArguments(options Options, paths []string) (ret []string) {
	ret = []string{}

	for _, opt := range options.list {
		ret = append(ret, renderOption(opt.Key, opt.Value)...)
	}

	seen := map[string]struct{}{}
	for i := range paths {
		path := strings.TrimSpace(paths[i])
		if path == "" {
			continue
		}
		if _, ok := seen[path]; ok {
			continue
		}
		seen[path] = struct{}{}
		ret = append(ret, path)
	}

	return
}

func renderOption(key string, value any) []string {
	switch v := value.(type) {
	case nil:
		return nil
	case bool:
		if !v {
			return nil
		}
		return []string{key}
	case string:
		if v == "" {
			return nil
		}
		return []string{key + "=" + v}
	case []string:
		ret := make([]string, 0, len(v))
		for i := range v {
			if v[i] == "" {
				continue
			}
			ret = append(ret, key+"="+v[i])
		}
		return ret
	case float64:
		if v == 0 {
			return nil
		}
		return []string{key + "=" + strconv.FormatFloat(v, 'f', -1, 64)}
	case float32:
		if v == 0 {
			return nil
		}
		return []string{key + "=" + strconv.FormatFloat(float64(v), 'f', -1, 32)}
	case int:
		if v == 0 {
			return nil
		}
		return []string{key + "=" + strconv.Itoa(v)}
	case int64:
		if v == 0 {
			return nil
		}
		return []string{key + "=" + strconv.FormatInt(v, 10)}
	case uint32:
		if v == 0 {
			return nil
		}
		return []string{key + "=" + strconv.FormatUint(uint64(v), 10)}
	default:
		s := fmt.Sprint(v)
		if s == "" {
			return nil
		}
		return []string{key + "=" + s}
	}
}

// Command is a resolved fswatch invocation.
type Command struct {
	Binary string
	Args   []string
}

func (c Command) String() string {
	return shellquote.Join(append([]string{c.Binary}, c.Args...)...)
}

// ResolveBinary finds the fswatch executable.
//
// A non-empty explicit path is used as is.
// Otherwise $PATH and then FallbackDirs are searched,
// the first executable candidate wins.
func ResolveBinary(explicit string) (ret string, err error) {
	defer Wrap(&err, "resolve fswatch binary")

	candidate := strings.TrimSpace(explicit)
	if candidate != "" {
		var info fs.FileInfo
		info, err = os.Stat(candidate)
		if err != nil || info.IsDir() {
			err = ErrBinaryNotFound
			return
		}
		if !isExecutable(info) {
			err = &ErrBinaryNotExecutable{Path: candidate}
			return
		}
		ret = candidate
		return
	}

	dirs := append(filepath.SplitList(os.Getenv("PATH")), FallbackDirs...)

	var notExecutable string
	for _, dir := range dirs {
		if dir == "" {
			continue
		}

		path := filepath.Join(dir, DefaultBinary)
		info, statErr := os.Stat(path)
		if statErr != nil || info.IsDir() {
			continue
		}

		if isExecutable(info) {
			ret = path
			return
		}

		if notExecutable == "" {
			notExecutable = path
		}
	}

	if notExecutable != "" {
		err = &ErrBinaryNotExecutable{Path: notExecutable}
		return
	}

	err = ErrBinaryNotFound
	return
}

func isExecutable(info fs.FileInfo) bool {
	return info.Mode().Perm()&0o111 != 0
}
