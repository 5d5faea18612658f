// Package config provides configuration loading.
//
// Configuration is resolved from three layers, later layers winning:
// built-in defaults, the TOML config file, and JIRA_INTRAY_* environment
// variables. Values are normalized and validated on load; invalid values
// fall back to their default with a warning rather than aborting.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/cristianoliveira/jira-intray/internal/colors"
)

// DefaultServerURL is the backend origin used when no server_url is
// configured anywhere.
const DefaultServerURL = "http://localhost:8000"

// DefaultListenAddr is the loopback address the daemon's message
// endpoint binds to by default.
const DefaultListenAddr = "127.0.0.1:8571"

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "JIRA_INTRAY_"

// File permission constants.
const (
	// FileModeDir is the permission for directories (rwxr-xr-x).
	FileModeDir os.FileMode = 0755
	// FileModeFile is the permission for data files (rw-r--r--).
	FileModeFile os.FileMode = 0644
)

var (
	config   map[string]string
	defaults map[string]string
	mu       sync.RWMutex
)

// Load initializes configuration. It is safe to call repeatedly; every
// call re-reads the file and environment.
func Load() {
	mu.Lock()
	defer mu.Unlock()

	config = make(map[string]string)
	defaults = make(map[string]string)

	setDefaults()
	loadFromFile()
	// Environment wins over the file.
	loadFromEnv()
	validate()
}

// ensureLoaded loads configuration on first access.
func ensureLoaded() {
	mu.RLock()
	loaded := config != nil
	mu.RUnlock()
	if !loaded {
		Load()
	}
}

// setDefaults populates config with default values.
func setDefaults() {
	home, _ := os.UserHomeDir()
	xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfigHome == "" {
		xdgConfigHome = filepath.Join(home, ".config")
	}
	xdgStateHome := os.Getenv("XDG_STATE_HOME")
	if xdgStateHome == "" {
		xdgStateHome = filepath.Join(home, ".local", "state")
	}

	setDefault("config_dir", filepath.Join(xdgConfigHome, "jira-intray"))
	setDefault("state_dir", filepath.Join(xdgStateHome, "jira-intray"))
	setDefault("server_url", DefaultServerURL)
	setDefault("listen_addr", DefaultListenAddr)
	setDefault("notifications_enabled", "true")
	setDefault("poll_interval_minutes", "5")
	setDefault("notification_delay_seconds", "5")
	setDefault("snooze_days", "1")
	setDefault("logging_enabled", "false")
	setDefault("logging_level", "info")
	setDefault("logging_max_files", "10")
	setDefault("debug", "false")
	setDefault("quiet", "false")
}

func setDefault(key, value string) {
	config[key] = value
	defaults[key] = value
}

// loadFromFile reads configuration from the TOML config file, if any.
func loadFromFile() {
	configPath := os.Getenv(EnvPrefix + "CONFIG_PATH")
	if configPath == "" {
		configPath = filepath.Join(config["config_dir"], "config.toml")
		if _, err := os.Stat(configPath); err != nil {
			return
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		colors.Debug(fmt.Sprintf("unable to read config file %s: %v", configPath, err))
		return
	}

	var raw map[string]interface{}
	if err := toml.Unmarshal(data, &raw); err != nil {
		colors.Warning(fmt.Sprintf("unable to parse config file %s: %v", configPath, err))
		return
	}

	for k, v := range raw {
		key := strings.ToLower(k)
		converted, ok := coerceConfigValue(v)
		if !ok {
			colors.Warning(fmt.Sprintf("unsupported config value type for %s: %T", key, v))
			continue
		}
		config[key] = converted
	}
}

// coerceConfigValue converts a configuration value to its string
// representation. Supported types are string, int, int64, float64, and bool.
func coerceConfigValue(value interface{}) (string, bool) {
	switch typed := value.(type) {
	case string:
		return typed, true
	case int:
		return strconv.Itoa(typed), true
	case int64:
		return strconv.FormatInt(typed, 10), true
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(typed), true
	default:
		return "", false
	}
}

// loadFromEnv applies environment variable overrides.
func loadFromEnv() {
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, EnvPrefix) {
			continue
		}
		parts := strings.SplitN(env, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(parts[0], EnvPrefix))
		if key == "config_path" || parts[1] == "" {
			continue
		}
		config[key] = parts[1]
	}
}

// validate checks and normalizes configuration values using the
// registered validators.
func validate() {
	for key, value := range config {
		validator := getValidator(key)
		if validator == nil {
			continue
		}
		defaultValue := defaults[key]
		normalized, err := validator(key, value, defaultValue)
		if err != nil {
			colors.Warning(fmt.Sprintf("validation error for %s: %v, using default: %s", key, err, defaultValue))
			config[key] = defaultValue
			continue
		}
		config[key] = normalized
	}
}

// Get returns the configuration value for key, or defaultValue when unset.
func Get(key, defaultValue string) string {
	ensureLoaded()
	mu.RLock()
	defer mu.RUnlock()
	if v, ok := config[key]; ok && v != "" {
		return v
	}
	return defaultValue
}

// GetInt returns the configuration value for key parsed as an integer.
func GetInt(key string, defaultValue int) int {
	v := Get(key, "")
	if v == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue
	}
	return n
}

// GetBool returns the configuration value for key parsed as a boolean.
func GetBool(key string, defaultValue bool) bool {
	v := Get(key, "")
	switch normalizeBool(v) {
	case "true":
		return true
	case "false":
		return false
	default:
		return defaultValue
	}
}

// normalizeBool converts various boolean representations to "true"/"false".
func normalizeBool(val string) string {
	switch strings.ToLower(val) {
	case "1", "true", "yes", "on":
		return "true"
	case "0", "false", "no", "off":
		return "false"
	default:
		return val
	}
}
