// SPDX-FileCopyrightText: Copyright 2025 Frédéric BIDON
// SPDX-License-Identifier: Apache-2.0

// Package commands wires GPM's four CLI operations (update, clean,
// install, download) onto a cobra command tree: config and sources-list
// loading, telemetry setup, SIGINT cancellation, and exit-code mapping
// all live here, leaving the gpm package itself free of anything
// CLI-shaped (spec §1: "the thin command dispatcher" is explicitly an
// external collaborator of the core).
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aerys/gpm/internal/config"
	"github.com/aerys/gpm/internal/telemetry"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:          "gpm",
	Short:        "GPM treats Git repositories as package registries",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		telemetry.Setup()

		loaded, err := config.Load()
		if err != nil {
			return fmt.Errorf("could not load configuration: %w", err)
		}

		cfg = loaded

		return nil
	},
}

// Execute runs the CLI, translating the outcome into a process exit code:
// 0 on success, 2 on a usage error (unknown command or flag), 1 on any
// other failure, with a single line on stderr (spec §6: CLI).
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return
	}

	fmt.Fprintln(os.Stderr, "gpm: "+err.Error())

	if isUsageError(err) {
		os.Exit(2)
	}

	os.Exit(1)
}

// isUsageError recognizes the handful of error shapes cobra itself
// produces for malformed command lines, as opposed to errors returned by
// a command's own RunE.
func isUsageError(err error) bool {
	msg := err.Error()

	return strings.HasPrefix(msg, "unknown command") ||
		strings.HasPrefix(msg, "unknown flag:") ||
		strings.HasPrefix(msg, "unknown shorthand flag:") ||
		strings.Contains(msg, "accepts ") && strings.Contains(msg, "arg(s)")
}
