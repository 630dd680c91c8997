// courtside - a terminal client for the padel court-finder assistant.
//
// Copyright (c) 2025 Courtside Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"github.com/courtside/courtside-tui/internal/cli"
)

func main() {
	cli.Execute()
}
