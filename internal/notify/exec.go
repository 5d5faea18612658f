package notify

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/cristianoliveira/jira-intray/internal/logging"
)

// ExecNotifier posts desktop notifications through notify-send.
// Delivery is best-effort: the host notification system may drop or
// auto-dismiss what we post, and not every server supports actions or
// explicit dismissal.
type ExecNotifier struct {
	logger logging.Logger
}

var _ Notifier = (*ExecNotifier)(nil)

// NewExecNotifier creates a notify-send backed Notifier.
func NewExecNotifier(logger logging.Logger) *ExecNotifier {
	if logger == nil {
		logger = logging.Nop()
	}
	return &ExecNotifier{logger: logger}
}

// Show posts the notification. The id is forwarded so action callbacks
// fired from the notification can name it back to the daemon.
func (e *ExecNotifier) Show(ctx context.Context, id string, n Notification) error {
	args := []string{"--app-name=jira-intray"}
	if n.Sticky {
		// Zero timeout asks the server to keep the notification until
		// the user interacts with it.
		args = append(args, "--expire-time=0")
	}
	for _, button := range TruncateButtons(n.Buttons) {
		args = append(args, fmt.Sprintf("--action=%s=%s", button, button))
	}
	body := n.Message
	if n.Context != "" {
		body += "\n" + n.Context
	}
	args = append(args, n.Title, body)

	cmd := exec.CommandContext(ctx, "notify-send", args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("notify: show %s: %w (%s)", id, err, output)
	}
	e.logger.Debug("notification shown", "id", id, "title", n.Title)
	return nil
}

// Clear is a no-op for notify-send, which has no dismissal API; the
// notification times out or is closed by the user.
func (e *ExecNotifier) Clear(_ context.Context, id string) error {
	e.logger.Debug("notification cleared", "id", id)
	return nil
}
