// Copyright (c) 2025 Sessionctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"net/http"

	"sessionctl/cli/internal/session"
)

// Me calls GET /users/me with the stored bearer token.
// Caching is the session layer's job; every call goes to the network.
func (h *HTTP) Me(ctx context.Context) (*session.UserProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+h.endpoints.Me, nil)
	if err != nil {
		return nil, err
	}
	h.setStandardHeaders(req)
	if err := h.authorize(req); err != nil {
		return nil, err
	}

	var u session.UserProfile
	if err := h.do(ctx, req, &u); err != nil {
		return nil, err
	}
	if err := h.checkStruct(h.endpoints.Me, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
