// Copyright (c) 2025 Sessionctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package route turns the session manager's navigation effects into terminal
// output. A CLI has no pages, so a route resolves to the next command the
// user should run; a hard redirect additionally drops all cached query state.
package route

import (
	"io"
	"sync"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// Resetter discards in-memory state on a hard redirect.
type Resetter interface {
	Reset()
}

// Terminal implements session.Router for the CLI.
type Terminal struct {
	mu      sync.Mutex
	current string
	hints   map[string]string
	out     io.Writer
	state   Resetter
	log     zerolog.Logger
}

// NewTerminal returns a router that prints the hint registered for a route.
// Routes without a hint are recorded silently.
func NewTerminal(out io.Writer, state Resetter, hints map[string]string, log zerolog.Logger) *Terminal {
	h := make(map[string]string, len(hints))
	for k, v := range hints {
		h[k] = v
	}
	return &Terminal{
		hints: h,
		out:   out,
		state: state,
		log:   log.With().Str("component", "router").Logger(),
	}
}

// Navigate moves to route.
func (t *Terminal) Navigate(route string) {
	t.mu.Lock()
	t.current = route
	hint := t.hints[route]
	t.mu.Unlock()

	t.log.Debug().Str("route", route).Msg("navigate")
	if hint != "" {
		pterm.Info.WithWriter(t.out).Println(hint)
	}
}

// Redirect drops cached state and moves to route.
func (t *Terminal) Redirect(route string) {
	if t.state != nil {
		t.state.Reset()
	}
	t.mu.Lock()
	t.current = route
	hint := t.hints[route]
	t.mu.Unlock()

	t.log.Info().Str("route", route).Msg("redirect")
	pterm.Warning.WithWriter(t.out).Println("Your session is no longer valid.")
	if hint != "" {
		pterm.Info.WithWriter(t.out).Println(hint)
	}
}

// Current returns the last route navigated or redirected to.
func (t *Terminal) Current() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}
