package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestEnv(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, ".config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(tmp, ".state"))
	t.Setenv("JIRA_INTRAY_CONFIG_PATH", "")
	return tmp
}

func TestDefaults(t *testing.T) {
	setupTestEnv(t)
	Load()

	assert.Equal(t, DefaultServerURL, Get("server_url", ""))
	assert.Equal(t, DefaultListenAddr, Get("listen_addr", ""))
	assert.True(t, GetBool("notifications_enabled", false))
	assert.Equal(t, 5, GetInt("poll_interval_minutes", 0))
	assert.Equal(t, 5, GetInt("notification_delay_seconds", 0))
	assert.Equal(t, 1, GetInt("snooze_days", 0))
}

func TestEnvOverride(t *testing.T) {
	setupTestEnv(t)
	t.Setenv("JIRA_INTRAY_SERVER_URL", "https://tasks.example.com")
	t.Setenv("JIRA_INTRAY_NOTIFICATIONS_ENABLED", "off")
	t.Setenv("JIRA_INTRAY_POLL_INTERVAL_MINUTES", "2")
	Load()

	assert.Equal(t, "https://tasks.example.com", Get("server_url", ""))
	assert.False(t, GetBool("notifications_enabled", true))
	assert.Equal(t, 2, GetInt("poll_interval_minutes", 0))
}

func TestFileLoadAndEnvWins(t *testing.T) {
	tmp := setupTestEnv(t)
	configDir := filepath.Join(tmp, ".config", "jira-intray")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	content := "server_url = \"https://from-file.example.com\"\nsnooze_days = 3\n"
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(content), 0o644))

	Load()
	assert.Equal(t, "https://from-file.example.com", Get("server_url", ""))
	assert.Equal(t, 3, GetInt("snooze_days", 0))

	t.Setenv("JIRA_INTRAY_SERVER_URL", "https://from-env.example.com")
	Load()
	assert.Equal(t, "https://from-env.example.com", Get("server_url", ""))
}

func TestExplicitConfigPath(t *testing.T) {
	tmp := setupTestEnv(t)
	path := filepath.Join(tmp, "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte("listen_addr = \"127.0.0.1:9000\"\n"), 0o644))
	t.Setenv("JIRA_INTRAY_CONFIG_PATH", path)
	Load()

	assert.Equal(t, "127.0.0.1:9000", Get("listen_addr", ""))
}

func TestInvalidValuesFallBackToDefaults(t *testing.T) {
	setupTestEnv(t)
	t.Setenv("JIRA_INTRAY_SERVER_URL", "not a url")
	t.Setenv("JIRA_INTRAY_POLL_INTERVAL_MINUTES", "-4")
	t.Setenv("JIRA_INTRAY_NOTIFICATIONS_ENABLED", "maybe")
	t.Setenv("JIRA_INTRAY_LISTEN_ADDR", "no-port")
	Load()

	assert.Equal(t, DefaultServerURL, Get("server_url", ""))
	assert.Equal(t, 5, GetInt("poll_interval_minutes", 0))
	assert.True(t, GetBool("notifications_enabled", true))
	assert.Equal(t, DefaultListenAddr, Get("listen_addr", ""))
}

func TestServerURLTrailingSlashStripped(t *testing.T) {
	setupTestEnv(t)
	t.Setenv("JIRA_INTRAY_SERVER_URL", "http://localhost:8000/")
	Load()

	assert.Equal(t, "http://localhost:8000", Get("server_url", ""))
}

func TestBoolNormalization(t *testing.T) {
	setupTestEnv(t)
	for _, val := range []string{"1", "yes", "on", "TRUE"} {
		t.Setenv("JIRA_INTRAY_LOGGING_ENABLED", val)
		Load()
		assert.True(t, GetBool("logging_enabled", false), "value %q", val)
	}
	for _, val := range []string{"0", "no", "off", "FALSE"} {
		t.Setenv("JIRA_INTRAY_LOGGING_ENABLED", val)
		Load()
		assert.False(t, GetBool("logging_enabled", true), "value %q", val)
	}
}
