// Copyright (c) 2025 Sessionctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"io"

	"sessionctl/cli/internal/backend"
	"sessionctl/cli/internal/config"
	"sessionctl/cli/internal/keychain"
	"sessionctl/cli/internal/logging"
	"sessionctl/cli/internal/notify"
	"sessionctl/cli/internal/querycache"
	"sessionctl/cli/internal/route"
	"sessionctl/cli/internal/session"
	"sessionctl/cli/internal/xdg"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app is everything a command needs, wired from configuration.
type app struct {
	cfg     config.Config
	log     zerolog.Logger
	store   session.Store
	cache   *querycache.Cache
	router  *route.Terminal
	toast   *notify.Toast
	api     *backend.HTTP
	session *session.Manager
	out     io.Writer
}

// openStore opens the token store. Tests replace it.
var openStore = func(cfg config.Config, log zerolog.Logger) (session.Store, error) {
	opts := keychain.Options{Kind: keychain.Kind(cfg.Storage), Logger: log}
	if opts.Kind == keychain.KindFile {
		dir, err := xdg.StateDir()
		if err != nil {
			return nil, err
		}
		opts.FileDir = dir
	}
	return keychain.Open(opts)
}

// loadConfig reads configuration and applies persistent flags.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if apiURLFlag != "" {
		if err := cfg.Set("api_url", apiURLFlag); err != nil {
			return cfg, err
		}
	}
	if storageFlag != "" {
		if err := cfg.Set("storage", storageFlag); err != nil {
			return cfg, err
		}
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

// newApp wires the session manager for cmd.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	out := cmd.OutOrStdout()
	log := logging.NewWithWriter(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)

	store, err := openStore(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("open token storage: %w", err)
	}

	a := &app{
		cfg:   cfg,
		log:   log,
		store: store,
		cache: querycache.New(log),
		toast: notify.NewToast(cmd.ErrOrStderr()),
		out:   out,
	}
	routes := session.Routes{Home: cfg.Routes.Home, Login: cfg.Routes.Login}.WithDefaults()
	a.router = route.NewTerminal(out, a.cache, routeHints(routes), log)

	a.api = backend.New(backend.Options{
		BaseURL:   cfg.APIURL,
		Token:     a.token,
		UserAgent: "sessionctl/" + Version,
		Logger:    log,
	})

	a.session, err = session.New(backend.SessionConfig(a.api, a.toast.Show), session.Deps{
		Store:  store,
		Cache:  a.cache,
		Router: a.router,
		Routes: routes,
		Logger: log,
	})
	if err != nil {
		return nil, err
	}
	a.api.SetErrorHook(a.session.AuthErrorInterceptor())

	log.Debug().
		Str("api_url", logging.Mask(cfg.APIURL)).
		Str("storage", cfg.Storage).
		Msg("session ready")
	return a, nil
}

// routeHints maps each route to the next step shown after navigating there.
func routeHints(r session.Routes) map[string]string {
	const (
		homeHint  = "Run 'sessionctl whoami' to see your account."
		loginHint = "Run 'sessionctl login' to sign in."
	)
	if r.Home == r.Login {
		return map[string]string{r.Home: "Run 'sessionctl whoami' to see your account or 'sessionctl login' to sign in."}
	}
	return map[string]string{r.Home: homeHint, r.Login: loginHint}
}

// token reads the stored bearer token for the backend client.
func (a *app) token() (string, error) {
	tok, _, err := a.store.Get(session.TokenKey)
	return tok, err
}
