// Copyright (c) 2025 Sessionctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperr "sessionctl/cli/internal/errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// maxErrorBody caps how much of an error response is kept.
const maxErrorBody = 64 << 10

// TokenSource returns the current access token, or "" when logged out.
type TokenSource func() (string, error)

// Options configures New.
type Options struct {
	BaseURL   string
	Endpoints Endpoints
	Token     TokenSource
	// OnError sees every failed request, e.g. the session's auth interceptor.
	OnError   func(error)
	UserAgent string
	Timeout   time.Duration
	Logger    zerolog.Logger
}

// HTTP implements API over REST endpoints.
type HTTP struct {
	// baseURL is the base URL for all HTTP requests (e.g., "https://api.example.com")
	baseURL string
	// endpoints contains the URL paths for the API endpoints
	endpoints Endpoints
	// client is the underlying HTTP client with configured timeout
	client    *http.Client
	token     TokenSource
	onError   func(error)
	userAgent string
	validate  *validator.Validate
	log       zerolog.Logger
}

var _ API = (*HTTP)(nil)

// New creates the HTTP client. It configures a 10-second timeout unless
// Options.Timeout says otherwise.
func New(opts Options) *HTTP {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = "sessionctl"
	}
	return &HTTP{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		endpoints: opts.Endpoints.withDefaults(),
		client:    &http.Client{Timeout: timeout},
		token:     opts.Token,
		onError:   opts.OnError,
		userAgent: ua,
		validate:  validator.New(),
		log:       opts.Logger.With().Str("component", "backend").Logger(),
	}
}

// SetErrorHook replaces the hook called for failed requests.
func (h *HTTP) SetErrorHook(fn func(error)) { h.onError = fn }

// setStandardHeaders sets headers common to every request.
func (h *HTTP) setStandardHeaders(req *http.Request) {
	req.Header.Set("User-Agent", h.userAgent)
	req.Header.Set("Accept", "application/json")
}

// authorize adds the bearer token when one is stored.
func (h *HTTP) authorize(req *http.Request) error {
	if h.token == nil {
		return nil
	}
	tok, err := h.token()
	if err != nil {
		return apperr.Wrap(apperr.StorageError, "load token", err)
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	return nil
}

// do sends req and decodes a 2xx JSON body into out.
func (h *HTTP) do(ctx context.Context, req *http.Request, out any) error {
	_, err := h.send(ctx, req, out)
	return err
}

// send is do that also returns the response headers. Non-2xx responses
// become *APIError. Every failure is passed to the error hook.
func (h *HTTP) send(ctx context.Context, req *http.Request, out any) (hdr http.Header, err error) {
	defer func() {
		if err != nil && h.onError != nil {
			h.onError(err)
		}
	}()

	start := time.Now()
	resp, err := h.client.Do(req.WithContext(ctx))
	if err != nil {
		h.log.Debug().Err(err).Str("method", req.Method).Str("path", req.URL.Path).Msg("request failed")
		return nil, err
	}
	defer resp.Body.Close()

	h.log.Debug().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return resp.Header, &APIError{
			Method: req.Method,
			Path:   req.URL.Path,
			Status: resp.StatusCode,
			Body:   b,
		}
	}
	if out == nil {
		return resp.Header, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.Header, apperr.Wrap(apperr.MalformedResponse, fmt.Sprintf("decode %s response", req.URL.Path), err)
	}
	return resp.Header, nil
}

// checkStruct runs validation tags on a decoded response.
func (h *HTTP) checkStruct(path string, v any) error {
	if err := h.validate.Struct(v); err != nil {
		err = apperr.Wrap(apperr.MalformedResponse, fmt.Sprintf("invalid %s response", path), err)
		if h.onError != nil {
			h.onError(err)
		}
		return err
	}
	return nil
}

// HealthCheck calls the health endpoint. No authentication required.
func (h *HTTP) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+h.endpoints.Health, nil)
	if err != nil {
		return err
	}
	h.setStandardHeaders(req)
	return h.do(ctx, req, nil)
}
