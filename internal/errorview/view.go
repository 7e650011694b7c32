// Copyright (c) 2025 Sessionctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package errorview renders the full-screen error panel shown when a command
// fails in a way the user cannot fix inline.
package errorview

import (
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"
)

// Options controls the panel text. Zero fields take the defaults.
type Options struct {
	Title       string
	Description string
	// HomeRoute is where the action points, rendered as a command.
	HomeRoute  string
	ButtonText string
}

// Defaults for Options.
const (
	DefaultTitle       = "Error"
	DefaultDescription = "Something went wrong. Please try again."
	DefaultHomeRoute   = "/"
	DefaultButtonText  = "Go Home"
)

func (o Options) withDefaults() Options {
	if o.Title == "" {
		o.Title = DefaultTitle
	}
	if o.Description == "" {
		o.Description = DefaultDescription
	}
	if o.HomeRoute == "" {
		o.HomeRoute = DefaultHomeRoute
	}
	if o.ButtonText == "" {
		o.ButtonText = DefaultButtonText
	}
	return o
}

// Render writes the panel to w.
func Render(w io.Writer, opts Options) error {
	_, err := io.WriteString(w, Sprint(opts))
	return err
}

// Sprint returns the panel as a string.
func Sprint(opts Options) string {
	o := opts.withDefaults()

	var b strings.Builder
	b.WriteString(pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint(strings.ToUpper(o.Title)))
	b.WriteString("\n")
	b.WriteString(pterm.NewStyle(pterm.Bold).Sprint("Oops!"))
	b.WriteString("\n\n")
	b.WriteString(o.Description)
	b.WriteString("\n\n")
	b.WriteString(pterm.NewStyle(pterm.FgYellow).Sprint(fmt.Sprintf("→ %s: %s", o.ButtonText, o.HomeRoute)))

	box := pterm.DefaultBox.WithTitle(o.Title).WithTitleTopCenter()
	return box.Sprint(b.String()) + "\n"
}
