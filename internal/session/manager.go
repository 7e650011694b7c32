// Copyright (c) 2025 Sessionctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package session manages the bearer-token lifecycle of a backend client.
// It provides login, logout, signup and current-user lookup on top of an
// injected token store, result cache and router, and a handler that ends the
// session when any backend call reports 401 or 403.
//
// The presence of a token in the store is the only notion of "logged in";
// nothing else the manager holds may contradict it.
package session

import (
	"context"
	"fmt"

	apperr "sessionctl/cli/internal/errors"
	"sessionctl/cli/internal/logging"

	"github.com/rs/zerolog"
)

// Deps are the effects the manager drives.
type Deps struct {
	Store  Store
	Cache  Cache
	Router Router
	Routes Routes
	Logger zerolog.Logger
}

// Manager owns the session token. It is safe for concurrent use.
type Manager struct {
	cfg    Config
	store  Store
	cache  Cache
	router Router
	routes Routes
	log    zerolog.Logger
}

// New validates cfg and deps and returns a Manager.
func New(cfg Config, deps Deps) (*Manager, error) {
	switch {
	case cfg.LoginFn == nil:
		return nil, apperr.New(apperr.ConfigurationError, "login function is required")
	case cfg.UserFn == nil:
		return nil, apperr.New(apperr.ConfigurationError, "user function is required")
	case cfg.ShowError == nil:
		return nil, apperr.New(apperr.ConfigurationError, "error reporter is required")
	case deps.Store == nil || deps.Cache == nil || deps.Router == nil:
		return nil, apperr.New(apperr.ConfigurationError, "store, cache and router are required")
	}

	routes := deps.Routes.WithDefaults()

	return &Manager{
		cfg:    cfg,
		store:  deps.Store,
		cache:  deps.Cache,
		router: deps.Router,
		routes: routes,
		log:    deps.Logger.With().Str("component", "session").Logger(),
	}, nil
}

// IsAuthenticated reports whether a token is stored. A store that cannot be
// read counts as logged out.
func (m *Manager) IsAuthenticated() bool {
	_, ok, err := m.store.Get(TokenKey)
	if err != nil {
		m.log.Warn().Err(err).Msg("read token")
		return false
	}
	return ok
}

// CurrentUser returns the authenticated profile, or nil when logged out.
// The profile is cached until logout or signup; failures are returned as
// FetchError and not cached.
func (m *Manager) CurrentUser(ctx context.Context) (*UserProfile, error) {
	if !m.IsAuthenticated() {
		return nil, nil
	}

	v, err := m.cache.Fetch(ctx, CurrentUserKey, func(ctx context.Context) (any, error) {
		return m.cfg.UserFn(ctx)
	})
	if err != nil {
		m.log.Debug().Err(err).Msg("current user")
		return nil, apperr.Wrap(apperr.FetchError, "load current user", err)
	}

	u, ok := v.(*UserProfile)
	if !ok || u == nil {
		return nil, apperr.New(apperr.MalformedResponse, fmt.Sprintf("unexpected current user value %T", v))
	}
	return u, nil
}

// Login exchanges credentials for a token, stores it and navigates home.
// The store write completes before navigation. On failure the store is left
// untouched and the error is reported through ShowError.
func (m *Manager) Login(ctx context.Context, c Credentials) error {
	resp, err := m.cfg.LoginFn(ctx, c)
	if err != nil {
		m.report(err)
		return apperr.Wrap(apperr.AuthenticationFailure, "login", err)
	}
	if resp == nil || resp.AccessToken == "" {
		err := apperr.New(apperr.MalformedResponse, "login response has no access token")
		m.report(err)
		return err
	}

	if err := m.store.Set(TokenKey, resp.AccessToken); err != nil {
		err := apperr.Wrap(apperr.StorageError, "save token", err)
		m.report(err)
		return err
	}
	m.log.Info().Str("user", c.Username).Str("token", logging.Token(resp.AccessToken)).Msg("logged in")

	m.cache.Invalidate(CurrentUserKey)
	m.router.Navigate(m.routes.Home)
	return nil
}

// Signup registers a new account and navigates to the login route.
// Without a SignupFn it fails with ConfigurationError before any effect.
// The users listing is invalidated once the call settles, whatever the outcome.
func (m *Manager) Signup(ctx context.Context, r RegistrationRequest) (*UserProfile, error) {
	if m.cfg.SignupFn == nil {
		return nil, apperr.New(apperr.ConfigurationError, "signup not supported")
	}
	defer m.cache.Invalidate(UsersKey)

	u, err := m.cfg.SignupFn(ctx, r)
	if err != nil {
		m.report(err)
		return nil, apperr.Wrap(apperr.AuthenticationFailure, "signup", err)
	}
	m.log.Info().Str("email", r.Email).Msg("signed up")

	m.cache.Invalidate(CurrentUserKey)
	m.router.Navigate(m.routes.Login)
	return u, nil
}

// Logout removes the token and navigates to the login route. Logging out
// twice is harmless.
func (m *Manager) Logout() error {
	if err := m.store.Delete(TokenKey); err != nil {
		return apperr.Wrap(apperr.StorageError, "remove token", err)
	}
	m.cache.Invalidate(CurrentUserKey)
	m.log.Info().Msg("logged out")
	m.router.Navigate(m.routes.Login)
	return nil
}

// AuthErrorInterceptor returns a handler for the request layer. Errors with
// status 401 or 403 end the session and force a hard redirect to login; all
// other errors are ignored.
func (m *Manager) AuthErrorInterceptor() func(error) {
	return func(err error) {
		if err == nil || !IsSessionInvalid(err) {
			return
		}
		if delErr := m.store.Delete(TokenKey); delErr != nil {
			m.log.Error().Err(delErr).Msg("remove token after rejected session")
		}
		m.cache.Invalidate(CurrentUserKey)
		m.log.Warn().
			Err(apperr.Wrap(apperr.SessionInvalidated, "backend rejected token", err)).
			Msg("session invalidated")
		m.router.Redirect(m.routes.Login)
	}
}

// report shows the backend's message as is; only the log line is masked.
func (m *Manager) report(err error) {
	ev := m.log.Debug()
	if apperr.KindOf(err) == apperr.StorageError {
		ev = m.log.Error()
	}
	ev.Str("error", logging.Mask(err.Error())).Msg("reported")
	m.cfg.ShowError(ExtractErrorMessage(err))
}
