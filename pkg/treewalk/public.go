// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package treewalk

import (
	"errors"
	"io/fs"
	"os"

	. "github.com/black-desk/lib/go/errwrap"
	"go.uber.org/multierr"
)

// Walk registers root and, when root is a directory, everything below it
// that the filter accepts. Paths already in the table are kept as they are.
//
// accepted is false when root itself was rejected or does not exist.
// Failures on single entries do not stop the walk,
// they are collected into err.
func (w *Walker) Walk(root string) (accepted bool, err error) {
	defer Wrap(&err, "walk %s", root)

	var info fs.FileInfo
	info, err = os.Stat(root)
	if errors.Is(err, fs.ErrNotExist) {
		w.log.Debugw("Path disappeared before walking it.",
			"path", root,
		)
		err = nil
		return
	}
	if err != nil {
		return
	}

	if !w.filter.Accept(root, info) {
		w.log.Debugw("Path rejected by filter.",
			"path", root,
		)
		return
	}

	accepted = true
	err = w.walk(root, info.IsDir())
	return
}

// Forget removes every entry of the table from the primitive
// and clears the table.
func (w *Walker) Forget() (err error) {
	defer Wrap(&err, "forget watched paths")

	for _, entry := range w.table.Entries() {
		// Aliases go with the first path of their handle.
		if _, unregisterErr := w.table.Unregister(entry.Handle); unregisterErr != nil {
			continue
		}

		removeErr := w.primitive.RemoveWatch(entry.Handle)
		if removeErr == nil {
			continue
		}

		w.log.Debugw("Failed to remove watch.",
			"path", entry.Path,
			"handle", entry.Handle,
			"error", removeErr,
		)
		err = multierr.Append(err, removeErr)
	}

	w.table.Clear()
	return
}

// Prune stops watching path and everything below it.
// Handles still watching another name of their file are kept.
func (w *Walker) Prune(path string) (err error) {
	defer Wrap(&err, "prune %s", path)

	orphans := w.table.RemoveTree(path)
	for i := range orphans {
		// NOTE: The primitive reports each removed handle as ignored
		// later on, by then it is unknown to the table.
		removeErr := w.primitive.RemoveWatch(orphans[i])
		if removeErr == nil {
			continue
		}

		w.log.Debugw("Failed to remove watch.",
			"path", path,
			"handle", orphans[i],
			"error", removeErr,
		)
		err = multierr.Append(err, removeErr)
	}

	w.log.Debugw("Tree pruned.",
		"path", path,
		"watches", len(orphans),
	)

	return
}
