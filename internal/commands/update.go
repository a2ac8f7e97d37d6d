// SPDX-FileCopyrightText: Copyright 2025 Frédéric BIDON
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/aerys/gpm"
	"github.com/aerys/gpm/internal/auth"
	"github.com/aerys/gpm/internal/gitcache"
	"github.com/aerys/gpm/internal/gitrepo"
	"github.com/aerys/gpm/internal/gpmerr"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Refresh every cache entry against its remote",
	Args:  cobra.NoArgs,
	RunE:  runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, _ []string) error {
	sources, err := loadSources()
	if err != nil {
		return err
	}

	cache := gitcache.New(cfg.CacheDir, cfg.LockTimeout)

	var errs []error
	for _, remote := range sources.Remotes {
		if err := updateOne(cmd.Context(), cache, remote); err != nil {
			slog.Warn("could not update cache entry", "module", "commands", "remote", remote.String(), "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", remote.String(), err))
		}
	}

	return errors.Join(errs...)
}

// updateOne refreshes a single remote's cache entry, trying successive
// credentials from the Authentication Provider until one is accepted or
// every candidate is exhausted (spec §3: CacheEntry lifecycle, "fetch
// --all, reset --hard").
func updateOne(ctx context.Context, cache *gitcache.Cache, remote *gpm.Remote) error {
	entry, err := cache.Entry(remote.String())
	if err != nil {
		return err
	}

	if err := entry.Lock(); err != nil {
		return err
	}
	defer entry.Unlock()

	basicUser, basicPass, hasBasic := remote.BasicAuth()
	provider := auth.New(remote.Transport, remote.URL().Host, basicUser, basicPass, hasBasic, cfg.AllowPassphrasePrompt)

	for {
		method, ok, err := provider.Next()
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no credentials were accepted for %s: %w: %w", remote.String(), gpmerr.ErrAuthenticationFailed, gpmerr.Error)
		}

		repo := gitrepo.NewRepo(remote.URL(), &gitrepo.Options{
			IsFSBacked: true,
			Dir:        entry.CloneDir(),
			Auth:       method,
			Retries:    cfg.GitRetries,
		})

		err = repo.FetchAll(ctx)
		if err == nil {
			return entry.WriteMetadata(gitcache.Metadata{RemoteURL: remote.String(), LastUpdate: time.Now()})
		}

		if !gitrepo.IsAuthError(err) {
			return fmt.Errorf("%w: %w", err, gpmerr.ErrNetwork)
		}

		slog.Debug("credential rejected, trying next candidate", "module", "commands", "remote", remote.String())
	}
}
