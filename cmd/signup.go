// Copyright (c) 2025 Sessionctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"time"

	apperr "sessionctl/cli/internal/errors"
	"sessionctl/cli/internal/session"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	signupEmail    string
	signupFullName string
)

// signupCmd registers a new account.
var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create a new account",
	Long: `The signup command registers a new account with the account API. It does not
sign you in; run 'sessionctl login' afterwards.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		p := newPrompter(cmd.InOrStdin(), a.out)
		req := session.RegistrationRequest{Email: signupEmail}
		if req.Email == "" {
			if req.Email, err = p.line("Email", ""); err != nil {
				return err
			}
		}
		name := signupFullName
		if !cmd.Flags().Changed("full-name") {
			if name, err = p.line("Full name (optional)", ""); err != nil {
				return err
			}
		}
		if name != "" {
			req.FullName = &name
		}
		if req.Password, err = p.secret("Password"); err != nil {
			return err
		}

		stop := startInlineSpinner(a.out, "Creating account", spinnerFrames, 120*time.Millisecond)
		u, err := a.session.Signup(ctx, req)
		stop()
		if err != nil {
			if apperr.KindOf(err) == apperr.AuthenticationFailure {
				return &alreadyReported{err: err}
			}
			return err
		}
		pterm.Success.WithWriter(a.out).Printfln("Account created for %s", u.Email)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(signupCmd)
	signupCmd.Flags().StringVar(&signupEmail, "email", "", "Account email (prompted when omitted)")
	signupCmd.Flags().StringVar(&signupFullName, "full-name", "", "Display name")
}
