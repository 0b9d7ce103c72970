// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package dirwatch

import (
	"context"

	"github.com/black-desk/dirwatch/pkg/types"
)

func (d *Dirwatch) runEngine(ctx context.Context) (err error) {
	defer d.log.Debugw("Engine exited.")

	d.log.Debugw("Start engine.")

	err = d.engine.Run(ctx)
	if err != nil {
		return
	}

	return ctx.Err()
}

func (d *Dirwatch) runOutput(ctx context.Context) (err error) {
	defer d.log.Debugw("Output exited.")

	d.log.Debugw("Start output.")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-d.events:
			d.report(ctx, event)
		}
	}
}

func (d *Dirwatch) report(ctx context.Context, event types.Event) {
	d.log.Debugw("Event received.",
		"path", event.Path,
		"flags", event.Flags,
	)

	if d.printer != nil {
		err := d.printer.Print(event)
		if err != nil {
			d.log.Errorw("Failed to print event.",
				"path", event.Path,
				"error", err,
			)
		}
	}

	if d.hook != nil {
		err := d.hook.Run(ctx, event)
		if err != nil {
			d.log.Warnw("Hook failed.",
				"path", event.Path,
				"error", err,
			)
		}
	}
}
