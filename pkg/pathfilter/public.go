// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package pathfilter

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ShouldWatch reports whether path should be watched,
// looking at the filesystem as it is right now.
// A path that does not exist is never watched.
func (f *Filter) ShouldWatch(path string) bool {
	if f.IsExcluded(path) {
		return false
	}

	info, err := os.Stat(path)
	if err != nil {
		f.log.Debugw("Path is not accessible, skip it.",
			"path", path,
			"error", err,
		)
		return false
	}

	return f.Accept(path, info)
}

// Accept is ShouldWatch without touching the filesystem.
func (f *Filter) Accept(path string, info fs.FileInfo) bool {
	if f.IsExcluded(path) {
		return false
	}

	if info == nil {
		return false
	}

	if info.IsDir() {
		return true
	}

	return f.MatchSuffix(path)
}

// IsExcluded reports whether path is one of the excluded paths.
// Paths are compared after filepath.Clean, never by prefix.
func (f *Filter) IsExcluded(path string) bool {
	_, ok := f.excluded[filepath.Clean(path)]
	return ok
}

// MatchSuffix reports whether name ends with one of the suffixes.
// Everything matches when no suffix is configured.
func (f *Filter) MatchSuffix(name string) bool {
	if len(f.suffixes) == 0 {
		return true
	}

	for i := range f.suffixes {
		if strings.HasSuffix(name, f.suffixes[i]) {
			return true
		}
	}

	return false
}

func (f *Filter) Suffixes() []string {
	return append([]string(nil), f.suffixes...)
}
