// Copyright (c) 2025 Sessionctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package notify shows short user-facing messages in the terminal.
package notify

import (
	"io"
	"sync"

	"github.com/pterm/pterm"
)

// Toast prints one-line error notices.
type Toast struct {
	mu   sync.Mutex
	out  io.Writer
	last string
}

// NewToast returns a Toast writing to out.
func NewToast(out io.Writer) *Toast {
	return &Toast{out: out}
}

// Show prints msg as an error line. It matches session.Config.ShowError.
func (t *Toast) Show(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.last = msg
	pterm.Error.WithWriter(t.out).Println(msg)
}

// Last returns the most recent message, or "".
func (t *Toast) Last() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last
}
