/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/cristianoliveira/jira-intray/internal/action"
	"github.com/cristianoliveira/jira-intray/internal/browser"
	"github.com/cristianoliveira/jira-intray/internal/client"
	"github.com/cristianoliveira/jira-intray/internal/colors"
	"github.com/cristianoliveira/jira-intray/internal/config"
	"github.com/cristianoliveira/jira-intray/internal/dispatch"
	"github.com/cristianoliveira/jira-intray/internal/logging"
	"github.com/cristianoliveira/jira-intray/internal/notify"
	"github.com/cristianoliveira/jira-intray/internal/reminder"
	"github.com/cristianoliveira/jira-intray/internal/session"
	"github.com/cristianoliveira/jira-intray/internal/storage/sqlite"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the background daemon",
	Long: `Run the background daemon.

The daemon polls the backend for due reminders, shows them as desktop
notifications one at a time, and answers messages from the other CLI
commands on a loopback listener.

USAGE:
    jira-intray serve [OPTIONS]

OPTIONS:
    --listen <addr>   Listen address for CLI messages (default: from config)
    -h, --help        Show this help`,
	RunE: runServe,
}

var serveListenAddr string

func init() {
	serveCmd.Flags().StringVar(&serveListenAddr, "listen", "", "listen address for CLI messages")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	config.Load()

	logger, err := logging.Init(logging.FromGlobalConfig())
	if err != nil {
		colors.Warning(fmt.Sprintf("logging disabled: %s", err))
		logger = logging.Nop()
	}
	defer logger.Shutdown()

	stateDir := config.Get("state_dir", "")
	if err := os.MkdirAll(stateDir, 0o700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	store, err := sqlite.New(filepath.Join(stateDir, "jira-intray.db"))
	if err != nil {
		return fmt.Errorf("open state store: %w", err)
	}
	defer store.Close()

	opener := browser.ExecOpener{}
	notifier := notify.NewExecNotifier(logger)
	backend := client.New(store, logger)
	sess := session.NewManager(backend, store, opener, logger)
	pipeline := reminder.New(sess, sess, store, notifier, nil, logger, reminder.Options{})
	router := action.New(sess, store, notifier, opener, logger)
	dispatcher := dispatch.New(sess, pipeline, router, notifier, logger)

	addr := serveListenAddr
	if addr == "" {
		addr = config.Get("listen_addr", "127.0.0.1:8571")
	}
	server := dispatch.NewServer(dispatcher, addr, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Establish the authentication state before the first poll.
	status := sess.Status(ctx)
	if status.Authenticated {
		colors.Success("session active")
	} else {
		colors.Warning("not authenticated; run `jira-intray login`")
	}

	pipeline.Start(ctx)
	defer pipeline.Stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()
	colors.Info(fmt.Sprintf("listening on %s", addr))

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("message server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown incomplete", "error", err)
	}
	return nil
}
