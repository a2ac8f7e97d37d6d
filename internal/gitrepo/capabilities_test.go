// SPDX-FileCopyrightText: Copyright 2025 Frédéric BIDON
// SPDX-License-Identifier: Apache-2.0

package gitrepo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDumpCapabilities(t *testing.T) {
	t.Parallel()

	t.Run("should reject an endpoint with an unsupported scheme", func(t *testing.T) {
		_, err := dumpCapabilities(t.Context(), "ftp://example.com/repo.git", nil)
		require.Error(t, err)
	})
}
