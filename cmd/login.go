// Copyright (c) 2025 Sessionctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"
	"time"

	"sessionctl/cli/internal/session"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	loginUsername string
	loginTimeout  time.Duration
)

// loginCmd exchanges a username and password for a bearer token.
var loginCmd = &cobra.Command{
	Use:     "login",
	Aliases: []string{"auth"},
	Short:   "Sign in and store the session token",
	Long: `The login command prompts for your email and password, exchanges them for an
access token at the account API and stores the token in the OS keychain.

If a session is already stored and the API still accepts it, the command reports
the signed-in account and does nothing else. The password can be piped on stdin
for scripted use.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), loginTimeout)
		defer cancel()

		if a.session.IsAuthenticated() {
			if u, err := a.session.CurrentUser(ctx); err == nil && u != nil {
				fmt.Fprintf(a.out, "Already logged in as %s\n", u.Email)
				return nil
			}
			// The stored token was rejected or unreadable; fall through to a fresh login.
		}

		p := newPrompter(cmd.InOrStdin(), a.out)
		creds := session.Credentials{Username: loginUsername}
		if creds.Username == "" {
			if creds.Username, err = p.line("Email", ""); err != nil {
				return err
			}
		}
		if creds.Password, err = p.secret("Password"); err != nil {
			return err
		}

		stop := startInlineSpinner(a.out, "Signing in", spinnerFrames, 120*time.Millisecond)
		err = a.session.Login(ctx, creds)
		stop()
		if err != nil {
			return &alreadyReported{err: err}
		}

		showLoginGreeting(ctx, a)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Account email (prompted when omitted)")
	loginCmd.Flags().DurationVar(&loginTimeout, "timeout", 30*time.Second, "Give up after this long")
}

// showLoginGreeting displays a greeting with the signed-in account.
func showLoginGreeting(ctx context.Context, a *app) {
	u, err := a.session.CurrentUser(ctx)
	if err == nil && u != nil {
		pterm.Success.WithWriter(a.out).Printfln("Logged in as %s", u.DisplayName())
		return
	}
	// Generic success message if we can't get user data
	pterm.Success.WithWriter(a.out).Println("Login successful!")
}
