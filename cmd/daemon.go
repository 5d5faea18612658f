/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/cristianoliveira/jira-intray/internal/config"
	"github.com/cristianoliveira/jira-intray/internal/dispatch"
)

var daemonAddr string

// sendFunc delivers a message to the daemon. Can be changed for testing.
var sendFunc = func(ctx context.Context, req dispatch.Request) (dispatch.Response, error) {
	return dispatch.NewClient(daemonAddr).Send(ctx, req)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&daemonAddr, "daemon", "", "address of the running daemon")
}

// sendMessage sends one message to the daemon on behalf of a CLI
// command.
func sendMessage(cmd *cobra.Command, req dispatch.Request) (dispatch.Response, error) {
	config.Load()
	return sendFunc(cmd.Context(), req)
}
