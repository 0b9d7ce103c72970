// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Command dirwatch reports changes under a set of directories.
package main

import "github.com/black-desk/dirwatch/cmd/dirwatch/cmd"

func main() {
	cmd.Execute()
}
