// SPDX-FileCopyrightText: Copyright 2025 Frédéric BIDON
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"github.com/spf13/cobra"

	"github.com/aerys/gpm/internal/gitcache"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the entire cache root",
	Args:  cobra.NoArgs,
	RunE:  runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}

func runClean(_ *cobra.Command, _ []string) error {
	cache := gitcache.New(cfg.CacheDir, cfg.LockTimeout)

	return cache.Clean()
}
