// SPDX-FileCopyrightText: Copyright 2025 Frédéric BIDON
// SPDX-License-Identifier: Apache-2.0

// Package auth implements the Authentication Provider component: it turns
// a [gpm.Remote]'s transport and embedded credentials into a go-git
// [transport.AuthMethod], trying SSH keys, an SSH agent, and HTTP Basic
// credentials in turn, and caps retries per connection attempt.
package auth

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5/plumbing/transport"

	"github.com/aerys/gpm/internal/gpmerr"
)

// MaxAttempts bounds how many times the Authentication Provider will
// offer a different credential for the same connection before giving up
// (spec §4.4: Authentication Provider).
const MaxAttempts = 3

// Provider resolves credentials for a single remote across up to
// MaxAttempts connection attempts, advancing to the next candidate
// credential each time the previous one is rejected.
type Provider struct {
	transport             string
	host                  string
	user                  string
	basicUser             string
	basicPass             string
	hasBasic              bool
	allowPassphrasePrompt bool
	candidates            []func() (transport.AuthMethod, error)
	attempt               int
	lastErr               error
}

// New builds a Provider for a remote reached over the given transport and
// host, with optional embedded HTTP Basic credentials. allowPassphrasePrompt
// gates whether an encrypted SSH key may fall back to an interactive TTY
// prompt (spec §4.4: Authentication Provider, §9: "passphrase prompt
// policy").
func New(transportScheme, host string, basicUser, basicPass string, hasBasic bool, allowPassphrasePrompt bool) *Provider {
	p := &Provider{
		transport:             transportScheme,
		host:                  host,
		basicUser:             basicUser,
		basicPass:             basicPass,
		hasBasic:              hasBasic,
		allowPassphrasePrompt: allowPassphrasePrompt,
	}

	switch transportScheme {
	case "ssh", "git":
		p.candidates = []func() (transport.AuthMethod, error){
			p.sshFromEnv,
			p.sshFromConfig,
			p.sshDefaultKey,
			p.sshAgent,
		}
	case "http", "https":
		p.candidates = []func() (transport.AuthMethod, error){
			p.httpBasic,
		}
	default:
		p.candidates = nil
	}

	return p
}

// Next returns the next candidate [transport.AuthMethod] to try. It
// returns (nil, false, nil) once every candidate has been exhausted or
// MaxAttempts has been reached, at which point the caller should report
// [gpmerr.ErrAuthenticationFailed] — unless a candidate failed with
// [gpmerr.ErrPassphraseRequired], which is surfaced directly instead of
// being masked behind that generic failure.
func (p *Provider) Next() (transport.AuthMethod, bool, error) {
	for p.attempt < len(p.candidates) && p.attempt < MaxAttempts {
		candidate := p.candidates[p.attempt]
		p.attempt++

		method, err := candidate()
		if err != nil {
			if errors.Is(err, gpmerr.ErrPassphraseRequired) {
				p.lastErr = err
			}

			continue // this candidate isn't viable, try the next one
		}
		if method == nil {
			continue
		}

		return method, true, nil
	}

	if p.lastErr != nil {
		return nil, false, p.lastErr
	}

	return nil, false, nil
}

// Exhausted reports whether every candidate has been tried.
func (p *Provider) Exhausted() bool {
	return p.attempt >= len(p.candidates) || p.attempt >= MaxAttempts
}

func authFailed(reason string) error {
	return fmt.Errorf("%s: %w: %w", reason, gpmerr.ErrAuthenticationFailed, gpmerr.Error)
}
