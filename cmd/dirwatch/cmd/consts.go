// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

const (
	CheckDocumentString = `
Go to check
1. documentation https://pkg.go.dev/github.com/black-desk/dirwatch/cmd/dirwatch
2. wiki https://github.com/black-desk/dirwatch/wiki
for some help.
`
	DirwatchCfgPath = "/etc/dirwatch/config.yaml"

	// MinUserWatches is the inotify watch limit below which
	// watching a large tree is likely to fail.
	MinUserWatches = 8192
)
