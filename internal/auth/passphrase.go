// SPDX-FileCopyrightText: Copyright 2025 Frédéric BIDON
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// Passphrase resolves the passphrase for an encrypted SSH key: first from
// GPM_SSH_PASS (only if non-empty; a set-but-empty value still falls
// through to the prompt, spec §6), then by prompting on the controlling
// terminal (no echo) when stdin is a TTY and allowPrompt permits it. It
// returns ok=false when no source is available, the caller maps that to
// [gpmerr.ErrPassphraseRequired].
func Passphrase(allowPrompt bool) (string, bool) {
	if v := os.Getenv("GPM_SSH_PASS"); v != "" {
		return v, true
	}

	if !allowPrompt || !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", false
	}

	fmt.Fprint(os.Stderr, "Enter passphrase for SSH key: ")

	pass, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", false
	}

	return string(pass), true
}
