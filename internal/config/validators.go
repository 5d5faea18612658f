package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/cristianoliveira/jira-intray/internal/colors"
)

// Validator validates and normalizes a configuration value.
// Returns the normalized value and an error if validation fails.
type Validator func(key, value, defaultValue string) (normalized string, err error)

var (
	validatorMu sync.RWMutex
	validators  = make(map[string]Validator)
)

// RegisterValidator registers a validator for a configuration key.
// Panics if a validator is already registered for the key.
func RegisterValidator(key string, validator Validator) {
	validatorMu.Lock()
	defer validatorMu.Unlock()
	if _, exists := validators[key]; exists {
		panic(fmt.Sprintf("validator already registered for key: %s", key))
	}
	validators[key] = validator
}

// getValidator returns the validator for a key, or nil if not registered.
func getValidator(key string) Validator {
	validatorMu.RLock()
	defer validatorMu.RUnlock()
	return validators[key]
}

// PositiveIntValidator returns a validator that ensures a value is a
// positive integer.
func PositiveIntValidator() Validator {
	return func(key, value, defaultValue string) (string, error) {
		if value == "" {
			return defaultValue, nil
		}
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			colors.Warning(fmt.Sprintf("invalid %s value '%s': must be a positive integer, using default: %s", key, value, defaultValue))
			return defaultValue, nil
		}
		return value, nil
	}
}

// BoolValidator returns a validator that normalizes boolean values.
func BoolValidator() Validator {
	return func(key, value, defaultValue string) (string, error) {
		if value == "" {
			return defaultValue, nil
		}
		normalized := normalizeBool(value)
		if normalized != "true" && normalized != "false" {
			colors.Warning(fmt.Sprintf("invalid boolean value for %s: '%s', must be one of: 1, true, yes, on, 0, false, no, off; using default: %s", key, value, defaultValue))
			return defaultValue, nil
		}
		return normalized, nil
	}
}

// URLValidator returns a validator that ensures a value is an absolute
// http(s) URL. Trailing slashes are stripped so endpoint joining stays
// predictable.
func URLValidator() Validator {
	return func(key, value, defaultValue string) (string, error) {
		if value == "" {
			return defaultValue, nil
		}
		parsed, err := url.Parse(value)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			colors.Warning(fmt.Sprintf("invalid %s value '%s': must be an absolute http(s) URL, using default: %s", key, value, defaultValue))
			return defaultValue, nil
		}
		return strings.TrimRight(value, "/"), nil
	}
}

// HostPortValidator returns a validator that ensures a value looks like
// a host:port listen address.
func HostPortValidator() Validator {
	return func(key, value, defaultValue string) (string, error) {
		if value == "" {
			return defaultValue, nil
		}
		host, port, found := strings.Cut(value, ":")
		if !found || host == "" || port == "" {
			colors.Warning(fmt.Sprintf("invalid %s value '%s': must be host:port, using default: %s", key, value, defaultValue))
			return defaultValue, nil
		}
		if _, err := strconv.Atoi(port); err != nil {
			colors.Warning(fmt.Sprintf("invalid %s value '%s': port must be numeric, using default: %s", key, value, defaultValue))
			return defaultValue, nil
		}
		return value, nil
	}
}

func init() {
	positiveInt := PositiveIntValidator()
	RegisterValidator("poll_interval_minutes", positiveInt)
	RegisterValidator("notification_delay_seconds", positiveInt)
	RegisterValidator("snooze_days", positiveInt)
	RegisterValidator("logging_max_files", positiveInt)

	boolValidator := BoolValidator()
	RegisterValidator("notifications_enabled", boolValidator)
	RegisterValidator("logging_enabled", boolValidator)
	RegisterValidator("debug", boolValidator)
	RegisterValidator("quiet", boolValidator)

	RegisterValidator("server_url", URLValidator())
	RegisterValidator("listen_addr", HostPortValidator())
}
