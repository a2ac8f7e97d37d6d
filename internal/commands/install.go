// SPDX-FileCopyrightText: Copyright 2025 Frédéric BIDON
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aerys/gpm"
)

var installPrefix string

var installCmd = &cobra.Command{
	Use:   "install <ref>",
	Short: "Resolve a package reference and extract it into a prefix directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runInstall,
}

func init() {
	installCmd.Flags().StringVar(&installPrefix, "prefix", "", "destination directory to extract the archive into (required)")
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	if installPrefix == "" {
		return fmt.Errorf("--prefix is required")
	}

	ref, err := gpm.ParseReference(args[0])
	if err != nil {
		return err
	}

	sources, err := loadSources()
	if err != nil && ref.Remote == nil {
		return err
	}

	installer := gpm.NewInstallerFromConfig(cfg, sources)

	return installer.Install(cmd.Context(), ref, installPrefix)
}
