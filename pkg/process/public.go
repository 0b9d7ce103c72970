// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package process

import (
	"context"
	"errors"
	"os"

	. "github.com/black-desk/lib/go/errwrap"
	"golang.org/x/sys/unix"
)

// WaitReadable returns nil when output is buffered,
// and io.EOF once the output has been closed and fully consumed.
func (p *Process) WaitReadable(ctx context.Context) error {
	for {
		p.mu.Lock()
		pending := p.buf.Len()
		eof := p.eof
		p.mu.Unlock()

		if pending > 0 {
			return nil
		}

		if eof != nil {
			return eof
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.ready:
		}
	}
}

func (p *Process) ReadAvailable() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.buf.Len() == 0 {
		return nil
	}

	ret := make([]byte, p.buf.Len())
	copy(ret, p.buf.Bytes())
	p.buf.Reset()
	return ret
}

// Terminate asks the child to exit with SIGTERM.
func (p *Process) Terminate() (err error) {
	defer Wrap(&err, "terminate process %d", p.cmd.Process.Pid)

	err = p.cmd.Process.Signal(unix.SIGTERM)
	if errors.Is(err, os.ErrProcessDone) {
		err = nil
	}
	return
}

// Wait reaps the child. It can be called more than once.
func (p *Process) Wait() error {
	p.waitOnce.Do(func() {
		p.waitErr = p.cmd.Wait()
		p.pump.Wait()
		_ = p.stdout.Close()
		_ = p.stderr.Close()

		p.log.Debugw("Process exited.",
			"pid", p.cmd.Process.Pid,
			"state", p.cmd.ProcessState.String(),
		)
	})

	return p.waitErr
}

func (p *Process) Pid() int {
	return p.cmd.Process.Pid
}
