// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package dirwatch

import (
	"context"

	. "github.com/black-desk/lib/go/errwrap"
	"github.com/sourcegraph/conc/pool"
)

// Run runs the engine and reports its events until ctx is done
// or the engine fails.
func (d *Dirwatch) Run(ctx context.Context) (err error) {
	defer Wrap(&err, "running dirwatch daemon")

	pool := pool.New().
		WithContext(ctx).
		WithCancelOnError()

	pool.Go(d.runEngine)
	pool.Go(d.runOutput)

	return pool.Wait()
}
