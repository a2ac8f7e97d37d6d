// SPDX-FileCopyrightText: Copyright 2025 Frédéric BIDON
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"

	"github.com/aerys/gpm"
)

// loadSources reads the configured sources list. A missing file is
// reported as-is: `update` has nothing to do without one, `clean` does
// not read it, and `install`/`download` only need it for bare
// (non-URI-bound) references.
func loadSources() (*gpm.SourcesList, error) {
	sources, err := gpm.LoadSourcesList(cfg.SourcesListPath)
	if err != nil {
		return nil, fmt.Errorf("could not load sources list %q: %w", cfg.SourcesListPath, err)
	}

	return sources, nil
}
