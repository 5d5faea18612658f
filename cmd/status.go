/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cristianoliveira/jira-intray/internal/dispatch"
	"github.com/cristianoliveira/jira-intray/internal/format"
	"github.com/cristianoliveira/jira-intray/internal/session"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current authentication status",
	Long: `Show the current authentication status.

USAGE:
    jira-intray status`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	resp, err := sendMessage(cmd, dispatch.Request{Type: dispatch.TypeAuthStatus})
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("status check failed: %s", resp.Error)
	}

	var payload session.StatusPayload
	if err := dispatch.DecodeData(resp, &payload); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), format.AuthStatus(payload))
	return nil
}
