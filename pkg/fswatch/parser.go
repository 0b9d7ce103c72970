// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package fswatch

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/black-desk/dirwatch/pkg/types"
)

// ParseEvents parses fswatch output printed with --numeric --event-flags.
// Empty lines are skipped, a single malformed line rejects the whole text.
func ParseEvents(text string) (ret []types.Event, err error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	lines := strings.Split(text, "\n")
	events := make([]types.Event, 0, len(lines))

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.Split(line, " ")
		if len(fields) != 2 {
			err = &ErrInvalidOutput{Line: line}
			return
		}

		var flags uint64
		flags, err = strconv.ParseUint(fields[1], 10, 32)
		if err != nil {
			err = &ErrInvalidOutput{Line: line, Err: err}
			return
		}

		events = append(events, types.Event{
			Handle: types.InvalidHandle,
			Path:   fields[0],
			Flags:  types.EventFlag(flags),
		})
	}

	ret = events
	return
}

// lineBuffer keeps the incomplete last line between reads.
type lineBuffer struct {
	rest []byte
}

// Feed returns every complete line seen so far.
func (b *lineBuffer) Feed(data []byte) string {
	b.rest = append(b.rest, data...)

	end := bytes.LastIndexByte(b.rest, '\n')
	if end < 0 {
		return ""
	}

	complete := string(b.rest[:end+1])
	b.rest = append([]byte(nil), b.rest[end+1:]...)
	return complete
}

// Flush returns what is left, complete or not.
func (b *lineBuffer) Flush() string {
	ret := string(b.rest)
	b.rest = nil
	return ret
}
