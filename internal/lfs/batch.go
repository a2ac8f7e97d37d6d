// SPDX-FileCopyrightText: Copyright 2025 Frédéric BIDON
// SPDX-License-Identifier: Apache-2.0

package lfs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"

	"github.com/aerys/gpm/internal/gpmerr"
)

const lfsMediaType = "application/vnd.git-lfs+json"

type batchRequest struct {
	Operation string           `json:"operation"`
	Transfers []string         `json:"transfers"`
	Objects   []batchObjectReq `json:"objects"`
}

type batchObjectReq struct {
	OID  string `json:"oid"`
	Size int64  `json:"size"`
}

type batchResponse struct {
	Objects []batchObjectResp `json:"objects"`
}

type batchObjectResp struct {
	OID     string            `json:"oid"`
	Size    int64             `json:"size"`
	Actions map[string]action `json:"actions"`
	Error   *batchObjectError `json:"error"`
}

type batchObjectError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type action struct {
	Href   string            `json:"href"`
	Header map[string]string `json:"header"`
}

// Download is the resolved transfer target for one LFS object.
type Download struct {
	Href   string
	Header map[string]string
}

// Batch negotiates a download URL for one object via the LFS batch API
// (spec §4.5: LFS Client). endpoint is the repository's LFS endpoint,
// conventionally "${remote}.git/info/lfs" (GitHub/GitLab both serve it
// there); auth, when non-nil, is attached as an Authorization header via
// go-git's http.BasicAuth/TokenAuth conventions.
func Batch(ctx context.Context, client *http.Client, endpoint string, p Pointer, auth githttp.AuthMethod) (Download, error) {
	reqBody := batchRequest{
		Operation: "download",
		Transfers: []string{"basic"},
		Objects:   []batchObjectReq{{OID: p.OID, Size: p.Size}},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return Download{}, fmt.Errorf("could not encode LFS batch request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"/objects/batch", bytes.NewReader(payload))
	if err != nil {
		return Download{}, fmt.Errorf("could not build LFS batch request: %w", err)
	}

	req.Header.Set("Accept", lfsMediaType)
	req.Header.Set("Content-Type", lfsMediaType)
	applyAuth(req, auth)

	resp, err := client.Do(req)
	if err != nil {
		return Download{}, fmt.Errorf("LFS batch request to %q failed: %w: %w", endpoint, gpmerr.ErrNetwork, gpmerr.Error)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Download{}, fmt.Errorf("LFS batch request to %q returned %s: %w: %w", endpoint, resp.Status, gpmerr.ErrRemoteNotFound, gpmerr.Error)
	}

	var parsed batchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Download{}, fmt.Errorf("could not decode LFS batch response: %w", err)
	}

	if len(parsed.Objects) == 0 {
		return Download{}, fmt.Errorf("LFS batch response named no objects for oid %s", p.OID)
	}

	obj := parsed.Objects[0]
	if obj.Error != nil {
		return Download{}, fmt.Errorf("LFS server rejected oid %s: %s (code %d): %w: %w", p.OID, obj.Error.Message, obj.Error.Code, gpmerr.ErrRemoteNotFound, gpmerr.Error)
	}

	dl, ok := obj.Actions["download"]
	if !ok {
		return Download{}, fmt.Errorf("LFS batch response for oid %s named no download action", p.OID)
	}

	return Download{Href: dl.Href, Header: dl.Header}, nil
}

// applyAuth copies an already-resolved go-git auth method onto an LFS
// HTTP request, covering the two transport.AuthMethod shapes the
// Authentication Provider produces for http(s) remotes.
func applyAuth(req *http.Request, auth githttp.AuthMethod) {
	if auth == nil {
		return
	}

	auth.SetAuth(req)
}
