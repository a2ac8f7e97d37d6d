// SPDX-FileCopyrightText: Copyright 2025 Frédéric BIDON
// SPDX-License-Identifier: Apache-2.0

package gpm

import (
	"fmt"
	"net/url"
	"strings"
)

// supportedTransports are the Git URL schemes GPM knows how to reach a
// remote through. See spec §3 (Remote) and §1 (supported protocols).
var supportedTransports = map[string]bool{
	"http":  true,
	"https": true,
	"ssh":   true,
	"git":   true,
	"file":  true,
}

// Remote is a Git URL tagged with its transport, with any embedded HTTP
// Basic credentials split out.
//
// See spec §3.
type Remote struct {
	url       *url.URL
	Transport string

	basicUser string
	basicPass string
	hasBasic  bool
}

// ParseRemote parses a remote URL string into a [Remote].
func ParseRemote(raw string) (*Remote, error) {
	if raw == "" {
		return nil, fmt.Errorf("empty remote is invalid: %w: %w", ErrParse, Error)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("a remote must be a valid URL: %w: %w: %w", err, ErrParse, Error)
	}

	return RemoteFromURL(u)
}

// RemoteFromURL builds a [Remote] from a parsed [url.URL].
func RemoteFromURL(u *url.URL) (*Remote, error) {
	if !supportedTransports[strings.ToLower(u.Scheme)] {
		return nil, fmt.Errorf("unsupported transport scheme %q: %w: %w", u.Scheme, ErrParse, Error)
	}

	r := &Remote{
		url:       cloneURL(u),
		Transport: strings.ToLower(u.Scheme),
	}

	if u.User != nil {
		pass, isSet := u.User.Password()
		if isSet {
			r.basicUser = u.User.Username()
			r.basicPass = pass
			r.hasBasic = true

			// credentials are stripped from the canonical URL: they are
			// surfaced through BasicAuth(), not carried in URL().
			stripped := cloneURL(u)
			stripped.User = nil
			r.url = stripped
		}
	}

	return r, nil
}

// URL returns the remote's URL with any embedded credentials stripped.
func (r *Remote) URL() *url.URL {
	return cloneURL(r.url)
}

// String returns the remote URL (without credentials).
func (r *Remote) String() string {
	return r.url.String()
}

// BasicAuth returns the HTTP Basic credentials embedded in the remote URL,
// if any (spec §3: "For https, embedded user:password@ is extracted as
// HTTP Basic credentials").
func (r *Remote) BasicAuth() (user, pass string, ok bool) {
	return r.basicUser, r.basicPass, r.hasBasic
}

func cloneURL(u *url.URL) *url.URL {
	v := *u

	return &v
}
