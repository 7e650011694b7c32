// Copyright (c) 2025 Sessionctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sessionctl/cli/internal/backend"
	"sessionctl/cli/internal/httperrors"
	"sessionctl/cli/internal/session"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// whoamiCmd shows the account the stored token belongs to.
var whoamiCmd = &cobra.Command{
	Use:     "whoami",
	Aliases: []string{"me"},
	Short:   "Show the signed-in account",
	Long: `The whoami command loads the current account from the API using the stored
token. If the API rejects the token, the token is removed and you are asked to
sign in again.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		if !a.session.IsAuthenticated() {
			fmt.Fprintln(a.out, "Not logged in. Run 'sessionctl login' to sign in.")
			return nil
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
		defer cancel()

		stop := startInlineSpinner(a.out, "Loading account", spinnerFrames, 120*time.Millisecond)
		u, err := a.session.CurrentUser(ctx)
		stop()
		if err != nil {
			var apiErr *backend.APIError
			switch {
			case session.IsSessionInvalid(err):
				// The router already told the user to sign in again.
				return &alreadyReported{err: err}
			case errors.As(err, &apiErr):
				return err
			default:
				return &alreadyReported{err: httperrors.FormatNetworkError(cmd.ErrOrStderr(),
					err, "loading your account", httperrors.ExtractHostFromURL(a.cfg.APIURL))}
			}
		}
		if u == nil {
			fmt.Fprintln(a.out, "Not logged in. Run 'sessionctl login' to sign in.")
			return nil
		}

		printProfile(a, u)
		return nil
	},
}

func printProfile(a *app, u *session.UserProfile) {
	name := "-"
	if u.FullName != nil && *u.FullName != "" {
		name = *u.FullName
	}
	_ = pterm.DefaultTable.WithWriter(a.out).WithData(pterm.TableData{
		{"Email", u.Email},
		{"Name", name},
		{"ID", u.ID},
		{"Active", yesNo(u.IsActive)},
		{"Superuser", yesNo(u.IsSuperuser)},
	}).Render()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
