// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package dirwatch

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/black-desk/dirwatch/pkg/process"
	"github.com/black-desk/dirwatch/pkg/types"
	. "github.com/black-desk/lib/go/errwrap"
	"github.com/kballard/go-shellquote"
	"go.uber.org/zap"
)

// Hook runs a command for every event.
// The event is passed in DIRWATCH_PATH, DIRWATCH_NAME, DIRWATCH_FLAGS
// and DIRWATCH_FLAGS_VALUE. The output of the command is logged.
type Hook struct {
	command string
	argv    []string
	log     *zap.SugaredLogger
}

// NewHook splits command the way a shell would.
// It returns nil for an empty command.
func NewHook(command string, log *zap.SugaredLogger) (ret *Hook, err error) {
	defer Wrap(&err, "parse hook command")

	var argv []string
	argv, err = shellquote.Split(command)
	if err != nil {
		return
	}

	if len(argv) == 0 {
		return
	}

	if log == nil {
		log = zap.NewNop().Sugar()
	}

	ret = &Hook{
		command: command,
		argv:    argv,
		log:     log,
	}
	return
}

func (h *Hook) Argv() []string {
	return append([]string(nil), h.argv...)
}

// Run runs the command and waits for it to exit.
func (h *Hook) Run(ctx context.Context, event types.Event) (err error) {
	defer func() {
		if err == nil {
			return
		}
		err = &ErrHook{Command: h.command, Err: err}
	}()

	var p *process.Process
	p, err = process.Start(ctx, h.argv[0], h.argv[1:],
		process.WithLogger(h.log),
		process.WithEnv(
			"DIRWATCH_PATH="+event.Path,
			"DIRWATCH_NAME="+event.Name,
			"DIRWATCH_FLAGS="+strings.Join(flagNames(event.Flags), " "),
			"DIRWATCH_FLAGS_VALUE="+strconv.FormatUint(uint64(event.Flags), 10),
		),
	)
	if err != nil {
		return
	}

	var output strings.Builder
	for {
		readErr := p.WaitReadable(ctx)
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			_ = p.Terminate()
			break
		}
		output.Write(p.ReadAvailable())
	}

	err = p.Wait()

	if output.Len() != 0 {
		h.log.Infow("Hook output.",
			"command", h.command,
			"path", event.Path,
			"output", strings.TrimRight(output.String(), "\n"),
		)
	}

	return
}
