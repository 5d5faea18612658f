package reminder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueFIFO(t *testing.T) {
	var q Queue
	q.Push(Reminder{Key: "A"}, Reminder{Key: "B"})
	q.Push(Reminder{Key: "C"})

	// The queue holds the union of all pushes in first-seen order.
	keys := func() []string {
		var out []string
		for _, r := range q.Snapshot() {
			out = append(out, r.Key)
		}
		return out
	}
	assert.Equal(t, []string{"A", "B", "C"}, keys())

	first, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, "A", first.Key)

	second, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, "B", second.Key)

	// Appends after pops still go to the tail.
	q.Push(Reminder{Key: "D"})
	assert.Equal(t, []string{"C", "D"}, keys())
}

func TestQueuePopEmpty(t *testing.T) {
	var q Queue
	_, ok := q.Pop()
	assert.False(t, ok)
	assert.Zero(t, q.Len())
}
