// Copyright (c) 2025 Sessionctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package backend is the HTTP client for the account API the session manager
// talks to: OAuth2 password login, current-user lookup, signup and a health
// probe. Every failed request is passed to an optional error hook so the
// session layer can react to rejected tokens in one place.
package backend

import (
	"context"

	"sessionctl/cli/internal/session"
)

// API defines backend operations the CLI depends on.
// Implementations may call real HTTP endpoints or provide mocks for tests.
type API interface {
	// Login exchanges credentials for an access token.
	Login(ctx context.Context, c session.Credentials) (*session.AccessToken, error)
	// Me returns the profile for the stored token.
	Me(ctx context.Context) (*session.UserProfile, error)
	// Signup registers a new account.
	Signup(ctx context.Context, r session.RegistrationRequest) (*session.UserProfile, error)
	// HealthCheck reports whether the backend answers.
	HealthCheck(ctx context.Context) error
}

// Endpoints contains REST API endpoint paths relative to the base URL.
type Endpoints struct {
	Login  string `json:"login"`
	Me     string `json:"me"`
	Signup string `json:"signup"`
	Health string `json:"health"`
}

// DefaultEndpoints match the FastAPI project layout.
var DefaultEndpoints = Endpoints{
	Login:  "/api/v1/login/access-token",
	Me:     "/api/v1/users/me",
	Signup: "/api/v1/users/signup",
	Health: "/api/v1/utils/health-check/",
}

// withDefaults fills empty paths from DefaultEndpoints.
func (e Endpoints) withDefaults() Endpoints {
	if e.Login == "" {
		e.Login = DefaultEndpoints.Login
	}
	if e.Me == "" {
		e.Me = DefaultEndpoints.Me
	}
	if e.Signup == "" {
		e.Signup = DefaultEndpoints.Signup
	}
	if e.Health == "" {
		e.Health = DefaultEndpoints.Health
	}
	return e
}

// SessionConfig adapts an API to the session manager's capability bundle.
func SessionConfig(api API, showError func(string)) session.Config {
	return session.Config{
		LoginFn:   api.Login,
		UserFn:    api.Me,
		SignupFn:  api.Signup,
		ShowError: showError,
	}
}
