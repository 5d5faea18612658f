package reminder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAugmentActionsAppendsReply(t *testing.T) {
	r := Reminder{Key: "PROJ-1", Actions: []string{ActionDone, ActionView}}
	augmented := r.AugmentActions()
	assert.Equal(t, []string{ActionDone, ActionView, ActionReply}, augmented.Actions)
	// The original is untouched.
	assert.Equal(t, []string{ActionDone, ActionView}, r.Actions)
}

func TestAugmentActionsIsIdempotent(t *testing.T) {
	r := Reminder{Key: "PROJ-1", Actions: []string{ActionReply, ActionDone}}
	augmented := r.AugmentActions().AugmentActions()
	assert.Equal(t, []string{ActionReply, ActionDone}, augmented.Actions)
}

func TestAugmentActionsOnEmptySet(t *testing.T) {
	augmented := Reminder{Key: "PROJ-1"}.AugmentActions()
	assert.Equal(t, []string{ActionReply}, augmented.Actions)
}

func TestNotificationRendering(t *testing.T) {
	r := Reminder{
		Key:      "PROJ-42",
		Title:    "Fix login redirect",
		Message:  "Task PROJ-42 is due TODAY: Fix login redirect",
		Priority: "High",
		Status:   "In Progress",
		Actions:  []string{ActionDone, ActionView, ActionSnooze, ActionReply},
	}
	n := r.Notification()
	assert.Equal(t, "PROJ-42: Fix login redirect", n.Title)
	assert.Equal(t, r.Message, n.Message)
	assert.Equal(t, "Priority: High | Status: In Progress", n.Context)
	assert.Equal(t, []string{ActionDone, ActionView}, n.Buttons)
	assert.True(t, n.Sticky)
}

func TestHandleConversion(t *testing.T) {
	r := Reminder{
		Key:     "PROJ-7",
		Title:   "Review PR",
		Urgency: "medium",
		Actions: []string{ActionView, ActionReply},
	}
	h := r.Handle("abc-123")
	assert.Equal(t, "abc-123", h.ID)
	assert.Equal(t, "PROJ-7", h.IssueKey)
	assert.Equal(t, "medium", h.Urgency)
	assert.Equal(t, []string{ActionView, ActionReply}, h.Actions)
}
