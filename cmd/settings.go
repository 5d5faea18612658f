/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cristianoliveira/jira-intray/internal/config"
	"github.com/cristianoliveira/jira-intray/internal/storage"
	"github.com/cristianoliveira/jira-intray/internal/storage/sqlite"
)

// settableKeys are the durable settings a user may change. Values win
// over the config file because components read the store first.
var settableKeys = map[string]string{
	storage.KeyServerURL:            "backend base URL",
	storage.KeyNotificationsEnabled: "whether reminder notifications are shown (true/false)",
}

// settingsCmd represents the settings command
var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Inspect and change durable settings",
	Long: `Inspect and change durable settings.

Settings live in the daemon's state database and take effect on the
next operation; no restart is needed.

USAGE:
    jira-intray settings list
    jira-intray settings get <key>
    jira-intray settings set <key> <value>`,
}

var settingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List settings and their current values",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openSettingsStore()
		if err != nil {
			return err
		}
		defer store.Close()

		keys := make([]string, 0, len(settableKeys))
		for key := range settableKeys {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			value, err := store.GetValue(key)
			if err != nil {
				return err
			}
			if value == "" {
				value = "(unset)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-24s  %s\n", key, value)
		}
		return nil
	},
}

var settingsGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one setting's value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openSettingsStore()
		if err != nil {
			return err
		}
		defer store.Close()

		value, err := store.GetValue(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), value)
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if _, ok := settableKeys[key]; !ok {
			keys := make([]string, 0, len(settableKeys))
			for k := range settableKeys {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			return fmt.Errorf("unknown setting %q (known: %s)", key, strings.Join(keys, ", "))
		}
		if key == storage.KeyNotificationsEnabled {
			lower := strings.ToLower(value)
			if lower != "true" && lower != "false" {
				return fmt.Errorf("value for %s must be true or false", key)
			}
			value = lower
		}
		if key == storage.KeyServerURL {
			value = strings.TrimSuffix(value, "/")
		}

		store, err := openSettingsStore()
		if err != nil {
			return err
		}
		defer store.Close()
		return store.SetValue(key, value)
	},
}

func init() {
	settingsCmd.AddCommand(settingsListCmd)
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func openSettingsStore() (*sqlite.Storage, error) {
	config.Load()
	stateDir := config.Get("state_dir", "")
	if err := os.MkdirAll(stateDir, 0o700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return sqlite.New(filepath.Join(stateDir, "jira-intray.db"))
}
