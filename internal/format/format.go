// Package format renders daemon responses for terminal output.
package format

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cristianoliveira/jira-intray/internal/action"
	"github.com/cristianoliveira/jira-intray/internal/reminder"
	"github.com/cristianoliveira/jira-intray/internal/session"
)

const (
	keyWidth      = 12
	priorityWidth = 8
	statusWidth   = 14
	titleWidth    = 40
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4"))
	keyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	subtleStyle  = lipgloss.NewStyle().Faint(true)
	urgentStyles = map[string]lipgloss.Style{
		"high":   errStyle,
		"medium": warnStyle,
		"low":    subtleStyle,
	}
)

// AuthStatus renders a status payload as a short human-readable block.
func AuthStatus(payload session.StatusPayload) string {
	var b strings.Builder
	if payload.Authenticated {
		b.WriteString(okStyle.Render("● authenticated"))
		if payload.User != nil {
			b.WriteString("\n")
			b.WriteString(fmt.Sprintf("  user:  %s", payload.User.Name))
			if payload.User.Email != "" {
				b.WriteString(subtleStyle.Render(" <" + payload.User.Email + ">"))
			}
		}
	} else {
		b.WriteString(errStyle.Render("○ not authenticated"))
		if payload.Error != "" {
			b.WriteString("\n")
			b.WriteString(subtleStyle.Render("  " + payload.Error))
		}
		b.WriteString("\n")
		b.WriteString(subtleStyle.Render("  run `jira-intray login` to sign in"))
	}
	return b.String()
}

// ReminderTable renders reminders as an aligned table with a styled
// header row.
func ReminderTable(reminders []reminder.Reminder) string {
	if len(reminders) == 0 {
		return subtleStyle.Render("no due reminders")
	}

	var b strings.Builder
	header := fmt.Sprintf("%-*s  %-*s  %-*s  %-*s",
		keyWidth, "KEY",
		priorityWidth, "PRIORITY",
		statusWidth, "STATUS",
		titleWidth, "TITLE",
	)
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	for _, r := range reminders {
		title := r.Title
		if runes := []rune(title); len(runes) > titleWidth {
			title = string(runes[:titleWidth-3]) + "..."
		}
		style := urgencyStyle(r.Urgency)
		row := fmt.Sprintf("%s  %s",
			keyStyle.Render(fmt.Sprintf("%-*s", keyWidth, r.Key)),
			style.Render(fmt.Sprintf("%-*s  %-*s  %-*s",
				priorityWidth, r.Priority,
				statusWidth, r.Status,
				titleWidth, title,
			)),
		)
		b.WriteString(row)
		b.WriteString("\n")
	}
	b.WriteString(subtleStyle.Render(fmt.Sprintf("%d reminder(s) due", len(reminders))))
	return b.String()
}

// ReplyOutcome renders the backend's classification of a free-text
// reply.
func ReplyOutcome(issueKey string, result action.ReplyResult) string {
	var label string
	switch result.Intent {
	case action.IntentComplete:
		label = okStyle.Render("completed")
	case action.IntentSnooze:
		label = warnStyle.Render("snoozed")
	case action.IntentUpdate:
		label = okStyle.Render("comment added")
	case action.IntentView:
		label = keyStyle.Render("opened")
	default:
		label = subtleStyle.Render("recorded as comment")
	}
	out := fmt.Sprintf("%s  %s", keyStyle.Render(issueKey), label)
	if result.Message != "" {
		out += "\n" + subtleStyle.Render("  "+result.Message)
	}
	return out
}

func urgencyStyle(urgency string) lipgloss.Style {
	if s, ok := urgentStyles[strings.ToLower(urgency)]; ok {
		return s
	}
	return lipgloss.NewStyle()
}
