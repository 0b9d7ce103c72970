// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package watchtab

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/black-desk/dirwatch/pkg/types"
)

// Register adds an entry. Callers are expected to check IsWatched first,
// so an error here means the table and the primitive disagree.
func (t *Table) Register(entry types.WatchedPath) error {
	if existing, ok := t.byHandle[entry.Handle]; ok {
		return &ErrDuplicateWatch{
			Path:     entry.Path,
			Handle:   entry.Handle,
			Existing: *existing[0],
		}
	}

	key := filepath.Clean(entry.Path)
	if existing, ok := t.byPath[key]; ok {
		return &ErrDuplicateWatch{
			Path:     entry.Path,
			Handle:   entry.Handle,
			Existing: *existing,
		}
	}

	e := entry
	t.byHandle[e.Handle] = []*types.WatchedPath{&e}
	t.byPath[key] = &e

	return nil
}

// Alias adds another path for a handle that is already registered.
func (t *Table) Alias(entry types.WatchedPath) error {
	entries, ok := t.byHandle[entry.Handle]
	if !ok {
		return &ErrUnknownHandle{Handle: entry.Handle}
	}

	key := filepath.Clean(entry.Path)
	if existing, ok := t.byPath[key]; ok {
		return &ErrDuplicateWatch{
			Path:     entry.Path,
			Handle:   entry.Handle,
			Existing: *existing,
		}
	}

	e := entry
	t.byHandle[e.Handle] = append(entries, &e)
	t.byPath[key] = &e

	return nil
}

// IsWatched reports whether path has a live entry.
// "/a" and "/a/" name the same entry.
func (t *Table) IsWatched(path string) bool {
	_, ok := t.byPath[filepath.Clean(path)]
	return ok
}

func (t *Table) Lookup(handle types.Handle) (entry types.WatchedPath, ok bool) {
	var entries []*types.WatchedPath
	entries, ok = t.byHandle[handle]
	if !ok {
		return
	}

	entry = *entries[0]
	return
}

func (t *Table) LookupPath(path string) (entry types.WatchedPath, ok bool) {
	var e *types.WatchedPath
	e, ok = t.byPath[filepath.Clean(path)]
	if !ok {
		return
	}

	entry = *e
	return
}

// Unregister removes the entry of handle, aliases included,
// and returns its path.
func (t *Table) Unregister(handle types.Handle) (path string, err error) {
	entries, ok := t.byHandle[handle]
	if !ok {
		err = &ErrUnknownHandle{Handle: handle}
		return
	}

	delete(t.byHandle, handle)
	for i := range entries {
		delete(t.byPath, filepath.Clean(entries[i].Path))
	}

	path = entries[0].Path
	return
}

// RemovePath removes a single path. When it was the last path of its
// handle, orphaned is true and the handle should be removed from the
// primitive.
func (t *Table) RemovePath(path string) (entry types.WatchedPath, orphaned bool, ok bool) {
	var e *types.WatchedPath
	key := filepath.Clean(path)
	e, ok = t.byPath[key]
	if !ok {
		return
	}

	delete(t.byPath, key)

	entries := t.byHandle[e.Handle]
	rest := make([]*types.WatchedPath, 0, len(entries))
	for i := range entries {
		if entries[i] != e {
			rest = append(rest, entries[i])
		}
	}

	if len(rest) == 0 {
		delete(t.byHandle, e.Handle)
		orphaned = true
	} else {
		t.byHandle[e.Handle] = rest
	}

	entry = *e
	return
}

// RemoveTree removes path and every path below it.
// The handles left without any path are returned.
func (t *Table) RemoveTree(path string) (orphans []types.Handle) {
	key := filepath.Clean(path)
	prefix := dirPrefix(key)

	var keys []string
	for k := range t.byPath {
		if k == key || strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for i := range keys {
		entry, orphaned, ok := t.RemovePath(keys[i])
		if ok && orphaned {
			orphans = append(orphans, entry.Handle)
		}
	}

	return
}

// Rebind moves the first path of handle to path.
// When it is a directory, every path below the old one is moved along.
func (t *Table) Rebind(handle types.Handle, path string) error {
	entries, ok := t.byHandle[handle]
	if !ok {
		return &ErrUnknownHandle{Handle: handle}
	}

	e := entries[0]
	oldKey := filepath.Clean(e.Path)
	newKey := filepath.Clean(path)
	if oldKey == newKey {
		return nil
	}

	if existing, ok := t.byPath[newKey]; ok {
		return &ErrDuplicateWatch{
			Path:     path,
			Handle:   handle,
			Existing: *existing,
		}
	}

	moved := []*types.WatchedPath{e}
	if e.IsDir {
		prefix := dirPrefix(oldKey)
		for k, child := range t.byPath {
			if strings.HasPrefix(k, prefix) {
				moved = append(moved, child)
			}
		}
	}

	for i := range moved {
		delete(t.byPath, filepath.Clean(moved[i].Path))
	}

	e.Path = path
	for i := 1; i < len(moved); i++ {
		moved[i].Path = newKey + moved[i].Path[len(oldKey):]
	}

	for i := range moved {
		key := filepath.Clean(moved[i].Path)
		if _, stale := t.byPath[key]; stale {
			t.RemovePath(key)
		}
		t.byPath[key] = moved[i]
	}

	return nil
}

func (t *Table) Clear() {
	t.byHandle = map[types.Handle][]*types.WatchedPath{}
	t.byPath = map[string]*types.WatchedPath{}
}

// List returns the watched paths in lexical order, aliases included.
func (t *Table) List() []string {
	ret := make([]string, 0, len(t.byPath))
	for _, e := range t.byPath {
		ret = append(ret, e.Path)
	}

	sort.Strings(ret)
	return ret
}

// Entries returns a copy of all entries in lexical order of their paths.
func (t *Table) Entries() []types.WatchedPath {
	ret := make([]types.WatchedPath, 0, len(t.byPath))
	for _, e := range t.byPath {
		ret = append(ret, *e)
	}

	sort.Slice(ret, func(i, j int) bool {
		return ret[i].Path < ret[j].Path
	})
	return ret
}

// Len is the number of watched paths.
func (t *Table) Len() int {
	return len(t.byPath)
}

// Handles is the number of distinct handles.
func (t *Table) Handles() int {
	return len(t.byHandle)
}

func dirPrefix(key string) string {
	if strings.HasSuffix(key, string(filepath.Separator)) {
		return key
	}
	return key + string(filepath.Separator)
}
