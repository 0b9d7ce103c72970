// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package dirwatch

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/black-desk/dirwatch/pkg/dirwatch/config"
	"github.com/black-desk/dirwatch/pkg/types"
)

// Printer writes one line per event.
//
// The text format is the path followed by the flag names,
// the same shape as the output of fswatch --event-flags.
// The json format is one object per line.
type Printer struct {
	mu     sync.Mutex
	w      io.Writer
	format config.Format
}

func NewPrinter(w io.Writer, format config.Format) *Printer {
	return &Printer{w: w, format: format}
}

type jsonEvent struct {
	Path  string   `json:"path"`
	Name  string   `json:"name,omitempty"`
	Flags []string `json:"flags"`
}

func flagNames(flags types.EventFlag) []string {
	split := flags.Split()
	ret := make([]string, 0, len(split))
	for i := range split {
		ret = append(ret, split[i].Name())
	}
	return ret
}

func (p *Printer) Print(event types.Event) (err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.format == config.FormatJSON {
		return json.NewEncoder(p.w).Encode(jsonEvent{
			Path:  event.Path,
			Name:  event.Name,
			Flags: flagNames(event.Flags),
		})
	}

	_, err = fmt.Fprintf(p.w, "%s %s\n",
		event.Path, strings.Join(flagNames(event.Flags), " "),
	)
	return
}
