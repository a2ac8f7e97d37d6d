// SPDX-FileCopyrightText: Copyright 2025 Frédéric BIDON
// SPDX-License-Identifier: Apache-2.0

package gitrepo

import (
	"context"

	"github.com/go-git/go-git/v5/plumbing/protocol/packp/capability"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/client"
)

// dumpCapabilities opens an upload-pack session against url without
// fetching anything, and returns the protocol capabilities it advertised.
// It backs the debug-level capability dump that [Repository.ListRefs]
// emits when Options.Debug is set.
func dumpCapabilities(ctx context.Context, url string, auth transport.AuthMethod) (*capability.List, error) {
	s, err := newUploadPackSession(url, auth)
	if err != nil {
		return nil, err
	}

	ar, err := s.AdvertisedReferencesContext(ctx)
	if err != nil {
		return nil, err
	}

	return ar.Capabilities, nil
}

func newUploadPackSession(url string, auth transport.AuthMethod) (transport.UploadPackSession, error) {
	ep, err := transport.NewEndpoint(url)
	if err != nil {
		return nil, err
	}

	c, err := client.NewClient(ep)
	if err != nil {
		return nil, err
	}

	return c.NewUploadPackSession(ep, auth)
}
