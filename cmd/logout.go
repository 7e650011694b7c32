// Copyright (c) 2025 Sessionctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// logoutCmd removes the stored session token.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored session token",
	Long: `The logout command removes the access token from local storage. It does not
contact the API and is safe to run when already logged out.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		was := a.session.IsAuthenticated()
		if err := a.session.Logout(); err != nil {
			return err
		}
		if was {
			pterm.Success.WithWriter(a.out).Println("Logged out")
		} else {
			pterm.Info.WithWriter(a.out).Println("Already logged out")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
