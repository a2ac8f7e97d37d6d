// SPDX-FileCopyrightText: Copyright 2025 Frédéric BIDON
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aerys/gpm"
)

var downloadPrefix string

var downloadCmd = &cobra.Command{
	Use:   "download <ref>",
	Short: "Resolve a package reference and write its archive verbatim",
	Args:  cobra.ExactArgs(1),
	RunE:  runDownload,
}

func init() {
	downloadCmd.Flags().StringVar(&downloadPrefix, "prefix", "", "destination directory to write the archive into (required)")
	rootCmd.AddCommand(downloadCmd)
}

func runDownload(cmd *cobra.Command, args []string) error {
	if downloadPrefix == "" {
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

	dest, err := installer.Download(cmd.Context(), ref, downloadPrefix)
	if err != nil {
		return err
	}

	fmt.Println(dest)

	return nil
}
