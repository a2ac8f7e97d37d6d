// SPDX-FileCopyrightText: Copyright 2025 Frédéric BIDON
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"log/slog"
	"os"
	"path/filepath"

	gitssh "github.com/go-git/go-git/v5/plumbing/transport/ssh"
	"github.com/skeema/knownhosts"
	"golang.org/x/crypto/ssh"
)

// knownHostsHelper builds a go-git host key callback backed by
// "~/.ssh/known_hosts". If the file can't be read, it logs a warning and
// returns an empty helper, so host key verification falls back to
// go-git's own known_hosts lookup, which fails the connection if it
// cannot load any known_hosts file either.
func knownHostsHelper() gitssh.HostKeyCallbackHelper {
	home, err := os.UserHomeDir()
	if err != nil {
		slog.Warn("could not determine home directory for known_hosts", "module", "auth", "error", err)

		return gitssh.HostKeyCallbackHelper{}
	}

	path := filepath.Join(home, ".ssh", "known_hosts")

	callback, err := knownhosts.New(path)
	if err != nil {
		slog.Warn("could not load known_hosts, deferring to go-git's default host key lookup", "module", "auth", "path", path, "error", err)

		return gitssh.HostKeyCallbackHelper{}
	}

	return gitssh.HostKeyCallbackHelper{
		HostKeyCallback: ssh.HostKeyCallback(callback),
	}
}
