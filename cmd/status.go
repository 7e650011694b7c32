// Copyright (c) 2025 Sessionctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"
	"time"

	"sessionctl/cli/internal/httperrors"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var statusCheckAPI bool

// statusCmd reports local session state without calling the API.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a session token is stored",
	Long: `The status command reports whether a session token is stored locally. It does
not contact the API unless --check-api is given, in which case it also probes the
API health endpoint.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}

		state := "logged out"
		if a.session.IsAuthenticated() {
			state = "logged in"
		}
		fmt.Fprintf(a.out, "API:     %s\n", a.cfg.APIURL)
		fmt.Fprintf(a.out, "Storage: %s\n", a.cfg.Storage)
		fmt.Fprintf(a.out, "Session: %s\n", state)

		if !statusCheckAPI {
			return nil
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()
		if err := a.api.HealthCheck(ctx); err != nil {
			return &alreadyReported{err: httperrors.FormatNetworkError(cmd.ErrOrStderr(),
				err, "checking the API", httperrors.ExtractHostFromURL(a.cfg.APIURL))}
		}
		pterm.Success.WithWriter(a.out).Println("API is reachable")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolVar(&statusCheckAPI, "check-api", false, "Also probe the API health endpoint")
}
