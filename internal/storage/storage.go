// Package storage defines the durable state boundary for the daemon.
//
// Two kinds of state are persisted: a small key-value area for settings
// mirrors (server_url override, notifications_enabled, is_authenticated,
// oauth_state) and notification handles, which map a displayed
// notification's generated id back to the reminder it came from. Button
// clicks and replies arrive as separate events with no closure over the
// original reminder, so the handle is the only way to resolve them.
package storage

import (
	"errors"
	"time"
)

// Well-known key-value keys.
const (
	KeyServerURL            = "server_url"
	KeyNotificationsEnabled = "notifications_enabled"
	KeyIsAuthenticated      = "is_authenticated"
	KeyOAuthState           = "oauth_state"
)

// ErrHandleNotFound indicates that a notification handle does not exist.
var ErrHandleNotFound = errors.New("notification handle not found")

// Handle binds a live on-screen notification to its originating
// reminder. It is created when the notification is shown and deleted
// once the user's response has been resolved.
type Handle struct {
	ID        string
	IssueKey  string
	Title     string
	Message   string
	Priority  string
	Status    string
	Urgency   string
	Actions   []string
	CreatedAt time.Time
}

// Store is the durable state interface consumed by the daemon's
// components.
type Store interface {
	// GetValue returns the value for key, or "" when unset.
	GetValue(key string) (string, error)
	// SetValue stores value under key, replacing any previous value.
	SetValue(key, value string) error
	// DeleteValue removes key. Deleting an absent key is not an error.
	DeleteValue(key string) error

	// SaveHandle persists a notification handle.
	SaveHandle(h Handle) error
	// GetHandle returns the handle with the given id, or
	// ErrHandleNotFound.
	GetHandle(id string) (Handle, error)
	// DeleteHandle removes a handle. Deleting an absent handle is not
	// an error.
	DeleteHandle(id string) error
	// ListHandles returns all live handles, oldest first.
	ListHandles() ([]Handle, error)

	// Close releases the underlying resources.
	Close() error
}
