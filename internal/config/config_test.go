// SPDX-FileCopyrightText: Copyright 2025 Frédéric BIDON
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg, err := Default()
	require.NoError(t, err)
	require.Equal(t, 60*time.Second, cfg.LockTimeout)
	require.Equal(t, 3, cfg.GitRetries)
	require.Equal(t, 5, cfg.LfsRetries)
	require.True(t, cfg.AllowPassphrasePrompt)
}

func TestMergeFile(t *testing.T) {
	t.Parallel()

	t.Run("should leave defaults untouched when the overlay is absent", func(t *testing.T) {
		cfg, err := Default()
		require.NoError(t, err)

		before := *cfg
		require.NoError(t, mergeFile(cfg, filepath.Join(t.TempDir(), "does-not-exist.yaml")))
		require.Equal(t, before, *cfg)
	})

	t.Run("should override fields present in the overlay", func(t *testing.T) {
		cfg, err := Default()
		require.NoError(t, err)

		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("git_retries: 9\n"), 0o644))

		require.NoError(t, mergeFile(cfg, path))
		require.Equal(t, 9, cfg.GitRetries)
		require.Equal(t, 5, cfg.LfsRetries) // untouched field keeps its default
	})
}

func TestApplyEnv(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	t.Setenv("GPM_GIT_RETRIES", "7")
	t.Setenv("GPM_NO_PASSPHRASE_PROMPT", "1")

	applyEnv(cfg)
	require.Equal(t, 7, cfg.GitRetries)
	require.False(t, cfg.AllowPassphrasePrompt)
}
