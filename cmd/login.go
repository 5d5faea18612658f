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

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Start the browser login flow",
	Long: `Start the browser login flow.

Opens the backend's login page in your browser. The daemon learns about
the completed login on its next status check.

USAGE:
    jira-intray login`,
	RunE: runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	resp, err := sendMessage(cmd, dispatch.Request{Type: dispatch.TypeAuthLogin})
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("login failed: %s", resp.Error)
	}
	colors.Success("login page opened; finish signing in from your browser")
	return nil
}
