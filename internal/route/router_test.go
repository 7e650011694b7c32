// Copyright (c) 2025 Sessionctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

package route

import (
	"bytes"
	"testing"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type resetCounter struct{ n int }

func (r *resetCounter) Reset() { r.n++ }

func TestNavigatePrintsHint(t *testing.T) {
	pterm.DisableStyling()
	defer pterm.EnableStyling()

	var buf bytes.Buffer
	state := &resetCounter{}
	r := NewTerminal(&buf, state, map[string]string{"/": "Run 'sessionctl whoami' to see your account."}, zerolog.Nop())

	r.Navigate("/")
	assert.Equal(t, "/", r.Current())
	assert.Contains(t, buf.String(), "sessionctl whoami")
	assert.Equal(t, 0, state.n, "soft navigation keeps cached state")

	buf.Reset()
	r.Navigate("/elsewhere")
	assert.Equal(t, "/elsewhere", r.Current())
	assert.Empty(t, buf.String())
}

func TestRedirectResetsState(t *testing.T) {
	pterm.DisableStyling()
	defer pterm.EnableStyling()

	var buf bytes.Buffer
	state := &resetCounter{}
	r := NewTerminal(&buf, state, map[string]string{"/login": "Run 'sessionctl login' to sign in again."}, zerolog.Nop())

	r.Redirect("/login")
	assert.Equal(t, "/login", r.Current())
	assert.Equal(t, 1, state.n)
	assert.Contains(t, buf.String(), "no longer valid")
	assert.Contains(t, buf.String(), "sessionctl login")
}

func TestRedirectWithoutState(t *testing.T) {
	var buf bytes.Buffer
	r := NewTerminal(&buf, nil, nil, zerolog.Nop())
	r.Redirect("/login")
	assert.Equal(t, "/login", r.Current())
}
