// Copyright (c) 2025 Sessionctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"sessionctl/cli/internal/session"
)

// Login posts an OAuth2 password-grant form to the login endpoint.
// The token may arrive in the JSON body or, failing that, an Authorization
// header; a response with neither yields an empty AccessToken so the session
// manager can classify it.
func (h *HTTP) Login(ctx context.Context, c session.Credentials) (*session.AccessToken, error) {
	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("username", c.Username)
	form.Set("password", c.Password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+h.endpoints.Login, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	h.setStandardHeaders(req)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var raw map[string]any
	hdr, err := h.send(ctx, req, &raw)
	if err != nil {
		return nil, err
	}

	tok := &session.AccessToken{AccessToken: extractAccessToken(raw)}
	if v, ok := raw["token_type"].(string); ok {
		tok.TokenType = v
	}
	if tok.AccessToken == "" {
		tok.AccessToken = findBearerTokenInHeaders(hdr)
	}
	h.log.Debug().Bool("token", tok.AccessToken != "").Msg("login response")
	return tok, nil
}

// Signup posts the registration as JSON and returns the created profile.
func (h *HTTP) Signup(ctx context.Context, r session.RegistrationRequest) (*session.UserProfile, error) {
	body, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+h.endpoints.Signup, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	h.setStandardHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	var u session.UserProfile
	if err := h.do(ctx, req, &u); err != nil {
		return nil, err
	}
	if err := h.checkStruct(h.endpoints.Signup, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
