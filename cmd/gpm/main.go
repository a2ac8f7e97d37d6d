// SPDX-FileCopyrightText: Copyright 2025 Frédéric BIDON
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/aerys/gpm/internal/commands"
)

func main() {
	commands.Execute()
}
