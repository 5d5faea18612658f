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

// actCmd represents the act command
var actCmd = &cobra.Command{
	Use:   "act <notification-id> <action>",
	Short: "Resolve a notification action",
	Long: `Resolve a notification action.

This is the entry point notification button handlers call back into.
The issue key is recovered from the stored notification handle when not
given.

USAGE:
    jira-intray act <notification-id> <action> [issue-key]

EXAMPLES:
    jira-intray act 4f1c... Done
    jira-intray act 4f1c... Snooze PROJ-9`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runAct,
}

func init() {
	rootCmd.AddCommand(actCmd)
}

func runAct(cmd *cobra.Command, args []string) error {
	req := dispatch.Request{
		Type:           dispatch.TypeNotificationAction,
		NotificationID: args[0],
		Action:         args[1],
	}
	if len(args) == 3 {
		req.IssueKey = args[2]
	}

	resp, err := sendMessage(cmd, req)
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("action failed: %s", resp.Error)
	}
	colors.Success(fmt.Sprintf("%s handled", args[1]))
	return nil
}
