/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cristianoliveira/jira-intray/internal/dispatch"
	"github.com/cristianoliveira/jira-intray/internal/format"
	"github.com/cristianoliveira/jira-intray/internal/reminder"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Poll for due reminders now",
	Long: `Poll for due reminders now.

Runs one poll cycle immediately instead of waiting for the next
scheduled one. Found reminders are queued for notification display and
listed on stdout.

USAGE:
    jira-intray check`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	resp, err := sendMessage(cmd, dispatch.Request{Type: dispatch.TypeCheckReminders})
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("reminder check failed: %s", resp.Error)
	}

	var result reminder.CheckResult
	if err := dispatch.DecodeData(resp, &result); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), format.ReminderTable(result.Reminders))
	return nil
}
