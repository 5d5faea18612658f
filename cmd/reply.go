/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cristianoliveira/jira-intray/internal/action"
	"github.com/cristianoliveira/jira-intray/internal/dispatch"
	"github.com/cristianoliveira/jira-intray/internal/format"
)

// replyCmd represents the reply command
var replyCmd = &cobra.Command{
	Use:   "reply <issue-key> <message...>",
	Short: "Reply to a reminder in plain language",
	Long: `Reply to a reminder in plain language.

The backend classifies the message ("mark it done", "remind me
tomorrow", a comment) and performs the matching operation.

USAGE:
    jira-intray reply <issue-key> <message...>

OPTIONS:
    --notification <id>   Notification the reply answers; it is cleared
                          on success
    -h, --help            Show this help

EXAMPLES:
    jira-intray reply PROJ-42 mark as done please
    jira-intray reply PROJ-42 push it to next week`,
	Args: cobra.MinimumNArgs(2),
	RunE: runReply,
}

var replyNotificationID string

func init() {
	replyCmd.Flags().StringVar(&replyNotificationID, "notification", "", "notification id the reply answers")
	rootCmd.AddCommand(replyCmd)
}

func runReply(cmd *cobra.Command, args []string) error {
	issueKey := args[0]
	message := strings.Join(args[1:], " ")

	resp, err := sendMessage(cmd, dispatch.Request{
		Type:           dispatch.TypeSendReply,
		NotificationID: replyNotificationID,
		IssueKey:       issueKey,
		Message:        message,
	})
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("reply failed: %s", resp.Error)
	}

	var result action.ReplyResult
	if err := dispatch.DecodeData(resp, &result); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), format.ReplyOutcome(issueKey, result))
	return nil
}
