// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package process runs a child process whose standard output
// is consumed by a reactor loop.
package process

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"sync"

	"github.com/black-desk/dirwatch/pkg/interfaces"
	. "github.com/black-desk/lib/go/errwrap"
	"github.com/kballard/go-shellquote"
	"github.com/sourcegraph/conc"
	"go.uber.org/zap"
	"go.uber.org/zap/zapio"
	"golang.org/x/sys/unix"
)

type Process struct {
	cmd    *exec.Cmd
	env    []string
	stdout *os.File

	mu    sync.Mutex
	buf   bytes.Buffer
	eof   error
	ready chan struct{}

	pump     conc.WaitGroup
	waitOnce sync.Once
	waitErr  error

	stderr *zapio.Writer
	log    *zap.SugaredLogger
}

var _ interfaces.Process = &Process{}

type Opt func(p *Process) (ret *Process, err error)

func WithLogger(log *zap.SugaredLogger) Opt {
	return func(p *Process) (ret *Process, err error) {
		if log == nil {
			err = ErrLoggerMissing
			return
		}

		p.log = log
		ret = p
		return
	}
}

// WithEnv adds environment variables, in "KEY=value" form,
// to the environment inherited by the child.
func WithEnv(env ...string) Opt {
	return func(p *Process) (ret *Process, err error) {
		p.env = append(p.env, env...)
		ret = p
		return
	}
}

// Start runs bin with argv.
// When ctx is done the child receives SIGTERM.
func Start(
	ctx context.Context, bin string, argv []string, opts ...Opt,
) (ret *Process, err error) {
	defer Wrap(&err, "start %s", shellquote.Join(append([]string{bin}, argv...)...))

	p := &Process{
		ready: make(chan struct{}, 1),
	}

	for i := range opts {
		p, err = opts[i](p)
		if err != nil {
			return
		}
	}

	if p.log == nil {
		p.log = zap.NewNop().Sugar()
	}

	var w *os.File
	p.stdout, w, err = os.Pipe()
	if err != nil {
		return
	}

	p.stderr = &zapio.Writer{
		Log:   p.log.Desugar().With(zap.String("stream", "stderr")),
		Level: zap.WarnLevel,
	}

	p.cmd = exec.CommandContext(ctx, bin, argv...)
	p.cmd.Stdout = w
	if len(p.env) != 0 {
		p.cmd.Env = append(os.Environ(), p.env...)
	}
	p.cmd.Stderr = p.stderr
	p.cmd.Cancel = func() error {
		return p.cmd.Process.Signal(unix.SIGTERM)
	}

	err = p.cmd.Start()
	// NOTE: The child holds its own copy of the write end.
	closeErr := w.Close()
	if err != nil {
		_ = p.stdout.Close()
		return
	}
	if closeErr != nil {
		p.log.Warnw("Failed to close write end of stdout pipe.",
			"error", closeErr,
		)
	}

	p.log.Debugw("Process started.",
		"pid", p.cmd.Process.Pid,
		"command", shellquote.Join(append([]string{bin}, argv...)...),
	)

	p.pump.Go(p.readLoop)

	ret = p
	return
}

// Spawn is an interfaces.Spawner without logging.
func Spawn(ctx context.Context, bin string, argv []string) (interfaces.Process, error) {
	return Start(ctx, bin, argv)
}

func NewSpawner(log *zap.SugaredLogger) interfaces.Spawner {
	return func(ctx context.Context, bin string, argv []string) (interfaces.Process, error) {
		return Start(ctx, bin, argv, WithLogger(log))
	}
}
