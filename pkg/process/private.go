// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package process

import (
	"errors"
	"io"
	"os"
)

const readSize = 1 << 16

func (p *Process) readLoop() {
	buf := make([]byte, readSize)

	for {
		n, err := p.stdout.Read(buf)

		p.mu.Lock()
		p.buf.Write(buf[:n])
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, os.ErrClosed) {
				p.log.Debugw("Failed to read process output.",
					"error", err,
				)
			}
			p.eof = io.EOF
		}
		p.mu.Unlock()

		select {
		case p.ready <- struct{}{}:
		default:
		}

		if err != nil {
			return
		}
	}
}
