// Package notify defines the platform notification boundary.
//
// The host notification surface shows at most MaxButtons action
// buttons per notification; callers truncate the action list before
// display and keep the full set in the stored notification handle.
package notify

import (
	"context"
	"sync"
)

// MaxButtons is the host platform's limit on action buttons per
// notification.
const MaxButtons = 2

// Notification is one user-facing notification.
type Notification struct {
	// Title is the headline, e.g. "PROJ-42: Fix login redirect".
	Title string
	// Message is the body text.
	Message string
	// Context is the secondary line, e.g. "Priority: High | Status: Open".
	Context string
	// Buttons are the clickable action labels, at most MaxButtons.
	Buttons []string
	// Sticky requires explicit user interaction instead of
	// auto-dismissing.
	Sticky bool
}

// Notifier presents notifications on the host platform.
type Notifier interface {
	// Show displays a notification under the caller-provided id.
	Show(ctx context.Context, id string, n Notification) error
	// Clear removes a displayed notification. Clearing an unknown id
	// is not an error.
	Clear(ctx context.Context, id string) error
}

// TruncateButtons caps an action list at the platform button limit.
func TruncateButtons(actions []string) []string {
	if len(actions) <= MaxButtons {
		return actions
	}
	return actions[:MaxButtons]
}

// Recorder is a Notifier for tests that records shown and cleared
// notifications.
type Recorder struct {
	mu      sync.Mutex
	Shown   []ShownNotification
	Cleared []string
}

// ShownNotification is one recorded Show call.
type ShownNotification struct {
	ID           string
	Notification Notification
}

var _ Notifier = (*Recorder)(nil)

func (r *Recorder) Show(_ context.Context, id string, n Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Shown = append(r.Shown, ShownNotification{ID: id, Notification: n})
	return nil
}

func (r *Recorder) Clear(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Cleared = append(r.Cleared, id)
	return nil
}

// ShownIDs returns the ids of all recorded notifications in order.
func (r *Recorder) ShownIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, len(r.Shown))
	for i, s := range r.Shown {
		ids[i] = s.ID
	}
	return ids
}
