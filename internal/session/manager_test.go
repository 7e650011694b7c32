// Copyright (c) 2025 Sessionctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

package session

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	apperr "sessionctl/cli/internal/errors"
	"sessionctl/cli/internal/querycache"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore records the order of effects alongside its contents.
type memStore struct {
	mu     sync.Mutex
	data   map[string]string
	events *[]string
	failOn string
}

func (s *memStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failOn == "get" {
		return "", false, errors.New("keyring locked")
	}
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *memStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failOn == "set" {
		return errors.New("keyring locked")
	}
	s.data[key] = value
	*s.events = append(*s.events, "store:"+key)
	return nil
}

func (s *memStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failOn == "delete" {
		return errors.New("keyring locked")
	}
	delete(s.data, key)
	*s.events = append(*s.events, "delete:"+key)
	return nil
}

type recordingRouter struct {
	events *[]string
}

func (r recordingRouter) Navigate(route string) { *r.events = append(*r.events, "navigate:"+route) }
func (r recordingRouter) Redirect(route string) { *r.events = append(*r.events, "redirect:"+route) }

type spyCache struct {
	*querycache.Cache
	mu          sync.Mutex
	invalidated []string
}

func (c *spyCache) Invalidate(key string) {
	c.mu.Lock()
	c.invalidated = append(c.invalidated, key)
	c.mu.Unlock()
	c.Cache.Invalidate(key)
}

// httpErr mimics the backend client's error type.
type httpErr struct {
	status int
	body   string
}

func (e *httpErr) Error() string     { return "request failed" }
func (e *httpErr) StatusCode() int   { return e.status }
func (e *httpErr) ErrorBody() []byte { return []byte(e.body) }

type fixture struct {
	mgr       *Manager
	store     *memStore
	cache     *spyCache
	events    *[]string
	toasts    []string
	userCalls int32
	cfg       Config
}

func newFixture(t *testing.T, mutate func(*Config)) *fixture {
	t.Helper()
	events := &[]string{}
	f := &fixture{
		store:  &memStore{data: map[string]string{}, events: events},
		cache:  &spyCache{Cache: querycache.New(zerolog.Nop())},
		events: events,
	}
	f.cfg = Config{
		LoginFn: func(ctx context.Context, c Credentials) (*AccessToken, error) {
			return &AccessToken{AccessToken: "tok123", TokenType: "bearer"}, nil
		},
		UserFn: func(ctx context.Context) (*UserProfile, error) {
			atomic.AddInt32(&f.userCalls, 1)
			return &UserProfile{ID: "u1", Email: "a@example.com", IsActive: true}, nil
		},
		ShowError: func(msg string) { f.toasts = append(f.toasts, msg) },
	}
	if mutate != nil {
		mutate(&f.cfg)
	}
	mgr, err := New(f.cfg, Deps{
		Store:  f.store,
		Cache:  f.cache,
		Router: recordingRouter{events: events},
		Logger: zerolog.Nop(),
	})
	require.NoError(t, err)
	f.mgr = mgr
	return f
}

func TestNewRequiresCapabilities(t *testing.T) {
	deps := Deps{Store: &memStore{data: map[string]string{}, events: &[]string{}}, Cache: querycache.New(zerolog.Nop()), Router: recordingRouter{events: &[]string{}}}

	_, err := New(Config{}, deps)
	require.ErrorIs(t, err, apperr.ErrConfiguration)

	_, err = New(Config{
		LoginFn:   func(context.Context, Credentials) (*AccessToken, error) { return nil, nil },
		UserFn:    func(context.Context) (*UserProfile, error) { return nil, nil },
		ShowError: func(string) {},
	}, Deps{})
	require.ErrorIs(t, err, apperr.ErrConfiguration)
}

func TestLoginStoresTokenBeforeNavigating(t *testing.T) {
	f := newFixture(t, nil)
	assert.False(t, f.mgr.IsAuthenticated())

	require.NoError(t, f.mgr.Login(context.Background(), Credentials{Username: "a", Password: "b"}))

	assert.True(t, f.mgr.IsAuthenticated())
	assert.Equal(t, "tok123", f.store.data[TokenKey])
	assert.Equal(t, []string{"store:access_token", "navigate:/"}, *f.events)
	assert.Empty(t, f.toasts)
}

func TestLoginFailureLeavesStoreUntouched(t *testing.T) {
	f := newFixture(t, func(c *Config) {
		c.LoginFn = func(context.Context, Credentials) (*AccessToken, error) {
			return nil, &httpErr{status: 400, body: `{"detail":"Incorrect email or password"}`}
		}
	})

	err := f.mgr.Login(context.Background(), Credentials{Username: "a", Password: "wrong"})
	require.ErrorIs(t, err, apperr.ErrAuthenticationFailure)

	assert.False(t, f.mgr.IsAuthenticated())
	assert.Empty(t, *f.events)
	assert.Equal(t, []string{"Incorrect email or password"}, f.toasts)
}

func TestLoginWithoutTokenIsMalformed(t *testing.T) {
	for name, resp := range map[string]*AccessToken{
		"nil response": nil,
		"empty token":  {TokenType: "bearer"},
	} {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, func(c *Config) {
				c.LoginFn = func(context.Context, Credentials) (*AccessToken, error) { return resp, nil }
			})

			err := f.mgr.Login(context.Background(), Credentials{Username: "a", Password: "b"})
			require.ErrorIs(t, err, apperr.ErrMalformedResponse)
			assert.False(t, f.mgr.IsAuthenticated())
			assert.Empty(t, *f.events)
			assert.Len(t, f.toasts, 1)
		})
	}
}

func TestLoginStoreFailure(t *testing.T) {
	f := newFixture(t, nil)
	f.store.failOn = "set"

	err := f.mgr.Login(context.Background(), Credentials{Username: "a", Password: "b"})
	require.ErrorIs(t, err, apperr.ErrStorage)
	assert.Empty(t, *f.events, "no navigation without a stored token")
	assert.Len(t, f.toasts, 1)
}

func TestLogoutIsIdempotent(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.mgr.Login(context.Background(), Credentials{Username: "a", Password: "b"}))

	require.NoError(t, f.mgr.Logout())
	assert.False(t, f.mgr.IsAuthenticated())

	require.NoError(t, f.mgr.Logout())
	assert.False(t, f.mgr.IsAuthenticated())

	assert.Equal(t, []string{
		"store:access_token", "navigate:/",
		"delete:access_token", "navigate:/login",
		"delete:access_token", "navigate:/login",
	}, *f.events)
}

func TestLogoutStoreFailure(t *testing.T) {
	f := newFixture(t, nil)
	f.store.failOn = "delete"
	require.ErrorIs(t, f.mgr.Logout(), apperr.ErrStorage)
}

func TestCurrentUserSkipsFetchWhenLoggedOut(t *testing.T) {
	f := newFixture(t, nil)

	u, err := f.mgr.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Nil(t, u)
	assert.Equal(t, int32(0), atomic.LoadInt32(&f.userCalls))
}

func TestCurrentUserIsCachedUntilLogout(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	require.NoError(t, f.mgr.Login(ctx, Credentials{Username: "a", Password: "b"}))

	for i := 0; i < 3; i++ {
		u, err := f.mgr.CurrentUser(ctx)
		require.NoError(t, err)
		assert.Equal(t, "a@example.com", u.Email)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&f.userCalls))

	require.NoError(t, f.mgr.Logout())
	u, err := f.mgr.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, u)

	require.NoError(t, f.mgr.Login(ctx, Credentials{Username: "a", Password: "b"}))
	_, err = f.mgr.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&f.userCalls))
}

func TestCurrentUserSurfacesFetchError(t *testing.T) {
	boom := errors.New("network down")
	f := newFixture(t, func(c *Config) {
		c.UserFn = func(context.Context) (*UserProfile, error) { return nil, boom }
	})
	f.store.data[TokenKey] = "tok123"

	u, err := f.mgr.CurrentUser(context.Background())
	assert.Nil(t, u)
	require.ErrorIs(t, err, apperr.ErrFetch)
	require.ErrorIs(t, err, boom)
	assert.Empty(t, f.toasts, "fetch errors are returned, not reported")
}

func TestCurrentUserTreatsUnreadableStoreAsLoggedOut(t *testing.T) {
	f := newFixture(t, nil)
	f.store.data[TokenKey] = "tok123"
	f.store.failOn = "get"

	assert.False(t, f.mgr.IsAuthenticated())
	u, err := f.mgr.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Nil(t, u)
	assert.Equal(t, int32(0), atomic.LoadInt32(&f.userCalls))
}

func TestSignupWithoutCapability(t *testing.T) {
	var loginCalls int32
	f := newFixture(t, func(c *Config) {
		c.LoginFn = func(context.Context, Credentials) (*AccessToken, error) {
			atomic.AddInt32(&loginCalls, 1)
			return nil, nil
		}
	})

	u, err := f.mgr.Signup(context.Background(), RegistrationRequest{Email: "a@example.com", Password: "pw"})
	assert.Nil(t, u)
	require.ErrorIs(t, err, apperr.ErrConfiguration)
	assert.Contains(t, err.Error(), "signup not supported")

	assert.Empty(t, *f.events)
	assert.Empty(t, f.toasts)
	assert.Empty(t, f.cache.invalidated)
	assert.Equal(t, int32(0), atomic.LoadInt32(&loginCalls))
	assert.Equal(t, int32(0), atomic.LoadInt32(&f.userCalls))
}

func TestSignupSuccess(t *testing.T) {
	name := "Alice"
	f := newFixture(t, func(c *Config) {
		c.SignupFn = func(_ context.Context, r RegistrationRequest) (*UserProfile, error) {
			return &UserProfile{ID: "u2", Email: r.Email, IsActive: true, FullName: r.FullName}, nil
		}
	})

	u, err := f.mgr.Signup(context.Background(), RegistrationRequest{Email: "new@example.com", Password: "pw", FullName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.DisplayName())
	assert.Equal(t, []string{"navigate:/login"}, *f.events)
	assert.Equal(t, []string{CurrentUserKey, UsersKey}, f.cache.invalidated)
	assert.False(t, f.mgr.IsAuthenticated(), "signup does not log in")
}

func TestSignupFailureStillInvalidatesUsers(t *testing.T) {
	f := newFixture(t, func(c *Config) {
		c.SignupFn = func(context.Context, RegistrationRequest) (*UserProfile, error) {
			return nil, &httpErr{status: 400, body: `{"detail":[{"loc":["body","email"],"msg":"email already exists","type":"value_error"}]}`}
		}
	})

	_, err := f.mgr.Signup(context.Background(), RegistrationRequest{Email: "dup@example.com", Password: "pw"})
	require.ErrorIs(t, err, apperr.ErrAuthenticationFailure)
	assert.Equal(t, []string{"email already exists"}, f.toasts)
	assert.Equal(t, []string{UsersKey}, f.cache.invalidated)
	assert.Empty(t, *f.events)
}

func TestAuthErrorInterceptor(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantLogout bool
	}{
		{name: "401", err: &httpErr{status: 401}, wantLogout: true},
		{name: "403", err: &httpErr{status: 403}, wantLogout: true},
		{name: "wrapped 403", err: apperr.Wrap(apperr.FetchError, "me", &httpErr{status: 403}), wantLogout: true},
		{name: "500", err: &httpErr{status: 500}},
		{name: "404", err: &httpErr{status: 404}},
		{name: "plain error", err: errors.New("network down")},
		{name: "nil", err: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			f.store.data[TokenKey] = "tok123"

			handle := f.mgr.AuthErrorInterceptor()
			handle(tt.err)

			if tt.wantLogout {
				assert.False(t, f.mgr.IsAuthenticated())
				assert.Equal(t, []string{"delete:access_token", "redirect:/login"}, *f.events)
			} else {
				assert.True(t, f.mgr.IsAuthenticated())
				assert.Empty(t, *f.events)
			}
		})
	}
}

func TestInterceptorIsReusable(t *testing.T) {
	f := newFixture(t, nil)
	handle := f.mgr.AuthErrorInterceptor()

	f.store.data[TokenKey] = "tok1"
	handle(&httpErr{status: 401})
	f.store.data[TokenKey] = "tok2"
	handle(&httpErr{status: 403})

	assert.False(t, f.mgr.IsAuthenticated())
	assert.Equal(t, []string{
		"delete:access_token", "redirect:/login",
		"delete:access_token", "redirect:/login",
	}, *f.events)
}

func TestCustomRoutes(t *testing.T) {
	events := &[]string{}
	mgr, err := New(Config{
		LoginFn: func(context.Context, Credentials) (*AccessToken, error) {
			return &AccessToken{AccessToken: "tok"}, nil
		},
		UserFn:    func(context.Context) (*UserProfile, error) { return nil, nil },
		ShowError: func(string) {},
	}, Deps{
		Store:  &memStore{data: map[string]string{}, events: events},
		Cache:  querycache.New(zerolog.Nop()),
		Router: recordingRouter{events: events},
		Routes: Routes{Home: "/dashboard"},
	})
	require.NoError(t, err)

	require.NoError(t, mgr.Login(context.Background(), Credentials{}))
	require.NoError(t, mgr.Logout())
	assert.Equal(t, []string{"store:access_token", "navigate:/dashboard", "delete:access_token", "navigate:/login"}, *events)
}

func TestReportedMessageIsShownVerbatim(t *testing.T) {
	const detail = "Bearer tokens are not accepted here"
	f := newFixture(t, func(c *Config) {
		c.LoginFn = func(context.Context, Credentials) (*AccessToken, error) {
			return nil, &httpErr{status: 400, body: `{"detail":"` + detail + `"}`}
		}
	})
	var logs bytes.Buffer
	mgr, err := New(f.cfg, Deps{
		Store:  f.store,
		Cache:  f.cache,
		Router: recordingRouter{events: f.events},
		Logger: zerolog.New(&logs).Level(zerolog.DebugLevel),
	})
	require.NoError(t, err)

	err = mgr.Login(context.Background(), Credentials{Username: "a", Password: "b"})
	require.Error(t, err)
	assert.Equal(t, []string{detail}, f.toasts)
	assert.Contains(t, logs.String(), "reported")
}

func TestRoutesWithDefaults(t *testing.T) {
	assert.Equal(t, DefaultRoutes, Routes{}.WithDefaults())
	assert.Equal(t, Routes{Home: "/app", Login: "/login"}, Routes{Home: "/app"}.WithDefaults())
	assert.Equal(t, Routes{Home: "/", Login: "/signin"}, Routes{Login: "/signin"}.WithDefaults())
}
