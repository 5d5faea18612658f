/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cristianoliveira/jira-intray/internal/colors"
	"github.com/cristianoliveira/jira-intray/internal/dispatch"
)

// logoutCmd represents the logout command
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the current session",
	Long: `End the current session.

Local session state is cleared even when the backend cannot be reached.

USAGE:
    jira-intray logout`,
	RunE: runLogout,
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

func runLogout(cmd *cobra.Command, args []string) error {
	resp, err := sendMessage(cmd, dispatch.Request{Type: dispatch.TypeAuthLogout})
	if err != nil {
		return err
	}
	if !resp.Success {
		// Local state is already cleared; the remote call failed.
		colors.Warning("logged out locally; backend logout failed: " + resp.Error)
		return fmt.Errorf("logout incomplete: %s", resp.Error)
	}
	colors.Success("logged out")
	return nil
}
