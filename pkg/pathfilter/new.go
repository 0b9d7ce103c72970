// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package pathfilter

import (
	"path/filepath"

	. "github.com/black-desk/lib/go/errwrap"
	"go.uber.org/zap"
)

// Filter decides whether a path should be watched.
type Filter struct {
	excluded map[string]struct{}
	suffixes []string
	log      *zap.SugaredLogger
}

type Opt func(f *Filter) (ret *Filter, err error)

func New(opts ...Opt) (ret *Filter, err error) {
	defer Wrap(&err, "create path filter")

	f := &Filter{
		excluded: map[string]struct{}{},
	}

	for i := range opts {
		f, err = opts[i](f)
		if err != nil {
			return
		}
	}

	if f.log == nil {
		f.log = zap.NewNop().Sugar()
	}

	ret = f

	f.log.Debugw("Create a path filter.",
		"excluded", len(f.excluded),
		"suffixes", f.suffixes,
	)

	return
}

func WithExcludedPaths(paths []string) Opt {
	return func(f *Filter) (ret *Filter, err error) {
		for i := range paths {
			if paths[i] == "" {
				err = ErrEmptyPath
				return
			}
			f.excluded[filepath.Clean(paths[i])] = struct{}{}
		}
		ret = f
		return
	}
}

func WithSuffixes(suffixes []string) Opt {
	return func(f *Filter) (ret *Filter, err error) {
		for i := range suffixes {
			if suffixes[i] == "" {
				continue
			}
			f.suffixes = append(f.suffixes, suffixes[i])
		}
		ret = f
		return
	}
}

func WithLogger(log *zap.SugaredLogger) Opt {
	return func(f *Filter) (ret *Filter, err error) {
		if log == nil {
			err = ErrLoggerMissing
			return
		}
		f.log = log
		ret = f
		return
	}
}
