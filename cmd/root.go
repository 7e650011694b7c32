// Copyright (c) 2025 Sessionctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for sessionctl.
// It implements login, logout, signup, whoami, status and config subcommands
// using the Cobra CLI framework. Each command builds the session manager from
// the user's configuration, so the token lifecycle rules live in one place.
package cmd

import (
	"errors"
	"fmt"
	"os"

	apperr "sessionctl/cli/internal/errors"
	"sessionctl/cli/internal/errorview"
	"sessionctl/cli/internal/logging"

	"github.com/spf13/cobra"
)

var (
	showVersion bool
	verbose     bool
	apiURLFlag  string
	storageFlag string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:           "sessionctl",
	Short:         "Sign in to the account API and manage the local session",
	Long:          `sessionctl signs in to a FastAPI-style account API, keeps the issued bearer token in the OS keychain, and shows who you are signed in as.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Fprintf(cmd.OutOrStdout(), "sessionctl %s\n", Version)
			return nil
		}
		return cmd.Help()
	},
}

// Execute runs the CLI application.
// It executes the root command and handles any errors that occur during execution.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		reportFailure(err)
		os.Exit(1)
	}
}

// reportFailure prints err the way the user should see it. Errors the session
// manager already reported are not repeated; unexpected ones get the error panel.
func reportFailure(err error) {
	var silent *alreadyReported
	if errors.As(err, &silent) {
		return
	}
	switch apperr.KindOf(err) {
	case apperr.ConfigurationError, apperr.StorageError:
		_ = errorview.Render(os.Stderr, errorview.Options{
			Title:       "Setup problem",
			Description: logging.Mask(err.Error()),
			HomeRoute:   "sessionctl config show",
			ButtonText:  "Check your settings",
		})
	default:
		fmt.Fprintln(os.Stderr, logging.PresentError("sessionctl", err))
	}
}

// alreadyReported marks an error whose message was already shown.
type alreadyReported struct{ err error }

func (e *alreadyReported) Error() string { return e.err.Error() }
func (e *alreadyReported) Unwrap() error { return e.err }

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show CLI version information")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&apiURLFlag, "api-url", "", "Override the account API base URL")
	rootCmd.PersistentFlags().StringVar(&storageFlag, "storage", "", "Token storage: keyring, file or memory")
}
