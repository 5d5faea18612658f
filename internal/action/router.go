// Package action maps notification button clicks and free-text replies
// to backend reminder operations and user-visible feedback.
package action

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/cristianoliveira/jira-intray/internal/browser"
	"github.com/cristianoliveira/jira-intray/internal/config"
	"github.com/cristianoliveira/jira-intray/internal/logging"
	"github.com/cristianoliveira/jira-intray/internal/notify"
	"github.com/cristianoliveira/jira-intray/internal/reminder"
	"github.com/cristianoliveira/jira-intray/internal/storage"
)

const (
	markDoneEndpoint = "/api/reminders/mark-done"
	snoozeEndpoint   = "/api/reminders/snooze"
	replyEndpoint    = "/api/reminders/reply"
)

// Reply intents classified by the backend's language-model layer.
const (
	IntentComplete = "COMPLETE"
	IntentSnooze   = "SNOOZE"
	IntentUpdate   = "UPDATE"
	IntentView     = "VIEW"
	IntentUnknown  = "UNKNOWN"
)

// Backend issues authenticated calls and exposes the configured base
// URL for building browse and reply links.
type Backend interface {
	Call(ctx context.Context, method, endpoint string, body, result interface{}) error
	BaseURL() string
}

// HandleStore resolves and retires notification handles.
type HandleStore interface {
	GetHandle(id string) (storage.Handle, error)
	DeleteHandle(id string) error
}

// ReplyResult is the backend's response to a free-text reply. Days and
// Comment are populated only for the intents that extracted them.
type ReplyResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Intent  string `json:"intent"`
	Days    int    `json:"days,omitempty"`
	Comment string `json:"comment,omitempty"`
}

// Router resolves notification responses against the backend.
type Router struct {
	backend  Backend
	store    HandleStore
	notifier notify.Notifier
	opener   browser.Opener
	logger   logging.Logger
}

// New creates an action router.
func New(backend Backend, store HandleStore, notifier notify.Notifier, opener browser.Opener, logger logging.Logger) *Router {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Router{
		backend:  backend,
		store:    store,
		notifier: notifier,
		opener:   opener,
		logger:   logger,
	}
}

// HandleAction resolves one notification button click. Every verb
// except Reply clears the notification; Reply keeps it live until the
// reply itself is submitted.
func (r *Router) HandleAction(ctx context.Context, notificationID, act, issueKey string) error {
	r.logger.Info("notification action", "id", notificationID, "action", act, "issue", issueKey)

	switch act {
	case reminder.ActionDone:
		body := map[string]string{"issue_key": issueKey}
		if err := r.backend.Call(ctx, "POST", markDoneEndpoint, body, nil); err != nil {
			return fmt.Errorf("action: mark done %s: %w", issueKey, err)
		}
		r.retire(ctx, notificationID)
		return nil

	case reminder.ActionSnooze:
		body := map[string]interface{}{
			"issue_key": issueKey,
			"days":      config.GetInt("snooze_days", 1),
		}
		if err := r.backend.Call(ctx, "POST", snoozeEndpoint, body, nil); err != nil {
			return fmt.Errorf("action: snooze %s: %w", issueKey, err)
		}
		r.retire(ctx, notificationID)
		return nil

	case reminder.ActionView:
		if err := r.openBrowse(ctx, issueKey); err != nil {
			return err
		}
		r.retire(ctx, notificationID)
		return nil

	case reminder.ActionReply:
		u := fmt.Sprintf("%s/reply?notification_id=%s&issue_key=%s",
			r.backend.BaseURL(), url.QueryEscape(notificationID), url.QueryEscape(issueKey))
		if err := r.opener.Open(ctx, u); err != nil {
			return fmt.Errorf("action: open reply for %s: %w", issueKey, err)
		}
		// The notification stays live until the reply is submitted.
		return nil

	default:
		r.logger.Warn("unknown notification action", "action", act, "issue", issueKey)
		r.retire(ctx, notificationID)
		return nil
	}
}

// HandleReply sends a free-text reply for classification and turns the
// returned intent into a feedback notification. Backend errors surface
// as an error-titled notification and are still returned to the
// caller.
func (r *Router) HandleReply(ctx context.Context, notificationID, issueKey, message string) (ReplyResult, error) {
	body := map[string]string{"issue_key": issueKey, "message": message}

	var result ReplyResult
	if err := r.backend.Call(ctx, "POST", replyEndpoint, body, &result); err != nil {
		r.feedback(ctx, "Reply Failed", fmt.Sprintf("Could not send reply for %s: %v", issueKey, err))
		return ReplyResult{}, fmt.Errorf("action: reply %s: %w", issueKey, err)
	}

	title, text := r.replyFeedback(result.Intent, issueKey)
	if result.Intent == IntentView {
		if err := r.openBrowse(ctx, issueKey); err != nil {
			r.logger.Warn("opening issue from reply failed", "issue", issueKey, "error", err)
		}
	}
	r.feedback(ctx, title, text)

	if notificationID != "" {
		r.retire(ctx, notificationID)
	}
	return result, nil
}

// replyFeedback maps a classified intent to a feedback title and body.
// Unrecognized intents degrade to the generic comment acknowledgement.
func (r *Router) replyFeedback(intent, issueKey string) (string, string) {
	switch intent {
	case IntentComplete:
		return "Task Completed", fmt.Sprintf("Task %s has been marked as done", issueKey)
	case IntentSnooze:
		return "Task Snoozed", fmt.Sprintf("Task %s has been snoozed until tomorrow", issueKey)
	case IntentUpdate:
		return "Comment Added", fmt.Sprintf("Your comment has been added to %s", issueKey)
	case IntentView:
		return "Opening Task", fmt.Sprintf("Opening %s in your browser", issueKey)
	default:
		return "Reply Sent", fmt.Sprintf("Your reply to %s has been processed as a comment", issueKey)
	}
}

// openBrowse opens the issue's browse page. The browsing base is the
// configured base URL with its API suffix stripped.
func (r *Router) openBrowse(ctx context.Context, issueKey string) error {
	base := strings.TrimSuffix(strings.TrimSuffix(r.backend.BaseURL(), "/"), "/api")
	u := fmt.Sprintf("%s/browse/%s", base, url.PathEscape(issueKey))
	if err := r.opener.Open(ctx, u); err != nil {
		return fmt.Errorf("action: open %s: %w", issueKey, err)
	}
	return nil
}

// retire clears the on-screen notification and drops its stored
// handle. Both are best effort: the remote operation already
// succeeded.
func (r *Router) retire(ctx context.Context, notificationID string) {
	if notificationID == "" {
		return
	}
	if err := r.notifier.Clear(ctx, notificationID); err != nil {
		r.logger.Warn("clearing notification failed", "id", notificationID, "error", err)
	}
	if err := r.store.DeleteHandle(notificationID); err != nil && !errors.Is(err, storage.ErrHandleNotFound) {
		r.logger.Warn("deleting notification handle failed", "id", notificationID, "error", err)
	}
}

// ResolveIssueKey recovers the issue key for a notification when the
// caller only has the notification id.
func (r *Router) ResolveIssueKey(notificationID string) (string, error) {
	h, err := r.store.GetHandle(notificationID)
	if err != nil {
		return "", err
	}
	return h.IssueKey, nil
}

// feedback shows a transient feedback notification.
func (r *Router) feedback(ctx context.Context, title, message string) {
	n := notify.Notification{Title: title, Message: message}
	if err := r.notifier.Show(ctx, uuid.NewString(), n); err != nil {
		r.logger.Warn("showing feedback notification failed", "title", title, "error", err)
	}
}
