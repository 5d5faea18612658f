// Package reminder implements the reminder notification pipeline: it
// polls the backend for due reminders, queues them, and serializes
// their on-screen presentation.
package reminder

import (
	"fmt"

	"github.com/cristianoliveira/jira-intray/internal/notify"
	"github.com/cristianoliveira/jira-intray/internal/storage"
)

// Response verbs a reminder can offer.
const (
	ActionDone   = "Done"
	ActionSnooze = "Snooze"
	ActionView   = "View"
	ActionReply  = "Reply"
)

// Reminder is a due-date notice sourced from the remote task tracker.
type Reminder struct {
	Key       string   `json:"key"`
	Title     string   `json:"title"`
	Message   string   `json:"message"`
	Priority  string   `json:"priority"`
	Status    string   `json:"status"`
	Urgency   string   `json:"urgency"`
	Actions   []string `json:"actions"`
	Timestamp string   `json:"timestamp,omitempty"`
}

// AugmentActions guarantees that the free-text reply path is always
// available: Reply is appended when the source payload omitted it. The
// notification surface may still truncate it out of the visible
// buttons; the reply path does not depend on a button.
func (r Reminder) AugmentActions() Reminder {
	for _, a := range r.Actions {
		if a == ActionReply {
			return r
		}
	}
	augmented := make([]string, 0, len(r.Actions)+1)
	augmented = append(augmented, r.Actions...)
	augmented = append(augmented, ActionReply)
	r.Actions = augmented
	return r
}

// Notification renders the reminder as a platform notification. Only
// the first two actions become buttons; the rest stay reachable through
// the stored handle.
func (r Reminder) Notification() notify.Notification {
	return notify.Notification{
		Title:   fmt.Sprintf("%s: %s", r.Key, r.Title),
		Message: r.Message,
		Context: fmt.Sprintf("Priority: %s | Status: %s", r.Priority, r.Status),
		Buttons: notify.TruncateButtons(r.Actions),
		Sticky:  true,
	}
}

// Handle converts the reminder into a durable notification handle under
// the given generated id.
func (r Reminder) Handle(id string) storage.Handle {
	return storage.Handle{
		ID:       id,
		IssueKey: r.Key,
		Title:    r.Title,
		Message:  r.Message,
		Priority: r.Priority,
		Status:   r.Status,
		Urgency:  r.Urgency,
		Actions:  r.Actions,
	}
}
