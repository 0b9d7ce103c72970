// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package treewalk

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/black-desk/dirwatch/pkg/types"
	"go.uber.org/multierr"
)

// canonical gives directories a trailing separator.
func canonical(path string, isDir bool) string {
	path = filepath.Clean(path)
	if !isDir || strings.HasSuffix(path, string(filepath.Separator)) {
		return path
	}

	return path + string(filepath.Separator)
}

// register watches path. descend is false when path turned out to be
// another name of a watched directory, whose content is watched already.
func (w *Walker) register(path string, isDir bool) (descend bool, err error) {
	path = canonical(path, isDir)

	if w.table.IsWatched(path) {
		descend = true
		return
	}

	var handle types.Handle
	handle, err = w.primitive.AddWatch(path, w.mask)
	if errors.Is(err, fs.ErrNotExist) {
		w.log.Debugw("Path disappeared before registering it.",
			"path", path,
		)
		err = nil
		return
	}
	if err != nil {
		return
	}

	entry := types.WatchedPath{
		Path:   path,
		Handle: handle,
		IsDir:  isDir,
	}

	existing, known := w.table.Lookup(handle)
	switch {
	case !known:
		descend = true
		err = w.table.Register(entry)
	case moved(existing.Path, path):
		descend = true
		w.log.Debugw("Watched path moved.",
			"from", existing.Path,
			"to", path,
			"handle", handle,
		)
		err = w.table.Rebind(handle, path)
	default:
		w.log.Debugw("Path is another name of a watched path.",
			"path", path,
			"existing", existing.Path,
			"handle", handle,
		)
		err = w.table.Alias(entry)
	}
	if err != nil {
		w.log.Errorw("Watch table out of sync with primitive.",
			"path", path,
			"handle", handle,
			"error", err,
		)
		return
	}

	w.log.Debugw("Path registered.",
		"path", path,
		"handle", handle,
	)

	return
}

// moved reports whether the file once found at from is not there any
// more but can be found at to.
func moved(from, to string) bool {
	old, err := os.Lstat(from)
	if err != nil {
		return true
	}

	current, err := os.Lstat(to)
	if err != nil {
		return false
	}

	return !os.SameFile(old, current)
}

func (w *Walker) walk(path string, isDir bool) (err error) {
	var descend bool
	descend, err = w.register(path, isDir)
	if err != nil || !isDir || !descend {
		return
	}

	entries, readErr := os.ReadDir(path)
	if errors.Is(readErr, fs.ErrNotExist) {
		return
	}
	if readErr != nil {
		err = readErr
		return
	}

	for i := range entries {
		child := filepath.Join(path, entries[i].Name())

		if entries[i].Type()&fs.ModeSymlink != 0 {
			// NOTE: The watch of path reports changes of the link itself.
			// Its target is either watched under its own name or not at all.
			w.log.Debugw("Skip symlink.",
				"path", child,
			)
			continue
		}

		info, statErr := os.Stat(child)
		if errors.Is(statErr, fs.ErrNotExist) {
			continue
		}
		if statErr != nil {
			err = multierr.Append(err, statErr)
			continue
		}

		if !w.filter.Accept(child, info) {
			w.log.Debugw("Path rejected by filter.",
				"path", child,
			)
			continue
		}

		err = multierr.Append(err, w.walk(child, info.IsDir()))
	}

	return
}
