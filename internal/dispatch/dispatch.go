// Package dispatch is the daemon's single inbound boundary. Every
// request from the UI layer arrives as a tagged message, is routed to
// the owning component, and leaves as a success envelope. No component
// error crosses this boundary unwrapped.
package dispatch

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/cristianoliveira/jira-intray/internal/action"
	"github.com/cristianoliveira/jira-intray/internal/logging"
	"github.com/cristianoliveira/jira-intray/internal/notify"
	"github.com/cristianoliveira/jira-intray/internal/reminder"
	"github.com/cristianoliveira/jira-intray/internal/session"
)

// Message type tags accepted by the dispatcher.
const (
	TypeAPIRequest         = "API_REQUEST"
	TypeShowNotification   = "SHOW_NOTIFICATION"
	TypeAuthLogin          = "AUTH_LOGIN"
	TypeAuthLogout         = "AUTH_LOGOUT"
	TypeAuthStatus         = "AUTH_STATUS"
	TypeCheckReminders     = "CHECK_REMINDERS"
	TypeNotificationAction = "HANDLE_NOTIFICATION_ACTION"
	TypeSendReply          = "SEND_REPLY"
)

// Request is one inbound message. Fields beyond Type are populated
// per message kind.
type Request struct {
	Type string `json:"type"`

	// API_REQUEST
	Endpoint string          `json:"endpoint,omitempty"`
	Method   string          `json:"method,omitempty"`
	Data     json.RawMessage `json:"data,omitempty"`

	// SHOW_NOTIFICATION
	Title   string   `json:"title,omitempty"`
	Message string   `json:"message,omitempty"`
	Actions []string `json:"actions,omitempty"`

	// HANDLE_NOTIFICATION_ACTION / SEND_REPLY
	NotificationID string `json:"notificationId,omitempty"`
	Action         string `json:"action,omitempty"`
	IssueKey       string `json:"issueKey,omitempty"`
}

// Response is the uniform reply envelope.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Session is the authentication surface the dispatcher forwards to.
type Session interface {
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Status(ctx context.Context) session.StatusPayload
	Call(ctx context.Context, method, endpoint string, body, result interface{}) error
}

// Checker runs one reminder poll cycle on demand.
type Checker interface {
	CheckNow(ctx context.Context) (reminder.CheckResult, error)
}

// ActionRouter resolves notification responses.
type ActionRouter interface {
	HandleAction(ctx context.Context, notificationID, act, issueKey string) error
	HandleReply(ctx context.Context, notificationID, issueKey, message string) (action.ReplyResult, error)
	ResolveIssueKey(notificationID string) (string, error)
}

// Dispatcher routes tagged messages to components.
type Dispatcher struct {
	session  Session
	checker  Checker
	router   ActionRouter
	notifier notify.Notifier
	logger   logging.Logger
}

// New creates a dispatcher.
func New(s Session, c Checker, r ActionRouter, n notify.Notifier, logger logging.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Dispatcher{session: s, checker: c, router: r, notifier: n, logger: logger}
}

// Handle processes one message and always returns a well-formed
// envelope. Component errors and panics are normalized into
// {success:false}.
func (d *Dispatcher) Handle(ctx context.Context, req Request) (resp Response) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("panic handling message", "type", req.Type, "panic", r)
			resp = Response{Success: false, Error: fmt.Sprintf("internal error: %v", r)}
		}
	}()

	d.logger.Debug("message received", "type", req.Type)

	data, err := d.route(ctx, req)
	if err != nil {
		d.logger.Warn("message failed", "type", req.Type, "error", err)
		return Response{Success: false, Error: err.Error()}
	}
	return Response{Success: true, Data: data}
}

func (d *Dispatcher) route(ctx context.Context, req Request) (interface{}, error) {
	switch req.Type {
	case TypeAPIRequest:
		return d.apiRequest(ctx, req)

	case TypeShowNotification:
		n := notify.Notification{
			Title:   req.Title,
			Message: req.Message,
			Buttons: notify.TruncateButtons(req.Actions),
		}
		if err := d.notifier.Show(ctx, uuid.NewString(), n); err != nil {
			return nil, err
		}
		return nil, nil

	case TypeAuthLogin:
		if err := d.session.Login(ctx); err != nil {
			return nil, err
		}
		return nil, nil

	case TypeAuthLogout:
		if err := d.session.Logout(ctx); err != nil {
			return nil, err
		}
		return nil, nil

	case TypeAuthStatus:
		return d.session.Status(ctx), nil

	case TypeCheckReminders:
		result, err := d.checker.CheckNow(ctx)
		if err != nil {
			return nil, err
		}
		return result, nil

	case TypeNotificationAction:
		issueKey := req.IssueKey
		if issueKey == "" && req.NotificationID != "" {
			resolved, err := d.router.ResolveIssueKey(req.NotificationID)
			if err != nil {
				return nil, err
			}
			issueKey = resolved
		}
		if err := d.router.HandleAction(ctx, req.NotificationID, req.Action, issueKey); err != nil {
			return nil, err
		}
		return map[string]string{"action": req.Action, "issueKey": issueKey}, nil

	case TypeSendReply:
		return d.router.HandleReply(ctx, req.NotificationID, req.IssueKey, req.Message)

	default:
		return nil, fmt.Errorf("unknown message type %q", req.Type)
	}
}

// apiRequest forwards a raw backend call through the session so it
// gets the same refresh-and-retry treatment as internal calls.
func (d *Dispatcher) apiRequest(ctx context.Context, req Request) (interface{}, error) {
	if req.Endpoint == "" {
		return nil, fmt.Errorf("api request requires an endpoint")
	}
	method := req.Method
	if method == "" {
		method = "GET"
	}

	var body interface{}
	if len(req.Data) > 0 {
		var decoded interface{}
		if err := json.Unmarshal(req.Data, &decoded); err != nil {
			return nil, fmt.Errorf("invalid request data: %w", err)
		}
		body = decoded
	}

	var result interface{}
	if err := d.session.Call(ctx, method, req.Endpoint, body, &result); err != nil {
		return nil, err
	}
	return result, nil
}
