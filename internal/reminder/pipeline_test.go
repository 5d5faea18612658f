package reminder

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cristianoliveira/jira-intray/internal/logging"
	"github.com/cristianoliveira/jira-intray/internal/notify"
	"github.com/cristianoliveira/jira-intray/internal/sched"
	"github.com/cristianoliveira/jira-intray/internal/storage"
)

// fakeCaller scripts reminder-check responses cycle by cycle.
type fakeCaller struct {
	mu        sync.Mutex
	responses [][]Reminder
	hits      int
	err       error
}

func (f *fakeCaller) Call(_ context.Context, _, endpoint string, _, result interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if endpoint != checkEndpoint {
		return errors.New("unexpected endpoint: " + endpoint)
	}
	f.hits++
	if f.err != nil {
		return f.err
	}
	out := result.(*CheckResult)
	if len(f.responses) > 0 {
		out.Reminders = f.responses[0]
		f.responses = f.responses[1:]
	}
	out.Count = len(out.Reminders)
	return nil
}

func (f *fakeCaller) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits
}

type fakeAuth struct{ authenticated bool }

func (f *fakeAuth) Authenticated() bool { return f.authenticated }

// fakeStore records handles and serves the notifications preference.
type fakeStore struct {
	mu      sync.Mutex
	values  map[string]string
	handles []storage.Handle
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: map[string]string{storage.KeyNotificationsEnabled: "true"}}
}

func (f *fakeStore) GetValue(key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[key], nil
}

func (f *fakeStore) SaveHandle(h storage.Handle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handles = append(f.handles, h)
	return nil
}

func (f *fakeStore) savedHandles() []storage.Handle {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]storage.Handle, len(f.handles))
	copy(out, f.handles)
	return out
}

type pipelineFixture struct {
	pipeline *Pipeline
	caller   *fakeCaller
	auth     *fakeAuth
	store    *fakeStore
	notifier *notify.Recorder
	clock    *sched.Manual
}

func newFixture(t *testing.T) *pipelineFixture {
	t.Helper()
	f := &pipelineFixture{
		caller:   &fakeCaller{},
		auth:     &fakeAuth{authenticated: true},
		store:    newFakeStore(),
		notifier: &notify.Recorder{},
		clock:    sched.NewManual(time.Unix(0, 0)),
	}
	f.pipeline = New(f.caller, f.auth, f.store, f.notifier, f.clock, logging.Nop(), Options{
		PollInterval: 5 * time.Minute,
		DisplayDelay: 5 * time.Second,
	})
	return f
}

func shownTitles(r *notify.Recorder) []string {
	var out []string
	for _, s := range r.Shown {
		out = append(out, s.Notification.Title)
	}
	return out
}

func TestCycleSkippedWhenUnauthenticated(t *testing.T) {
	f := newFixture(t)
	f.auth.authenticated = false

	result, err := f.pipeline.CheckNow(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result.Reminders)
	assert.Zero(t, result.Count)
	assert.Zero(t, f.caller.callCount())
}

func TestCycleSkippedWhenNotificationsDisabled(t *testing.T) {
	f := newFixture(t)
	f.store.values[storage.KeyNotificationsEnabled] = "false"

	result, err := f.pipeline.CheckNow(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result.Reminders)
	assert.Zero(t, result.Count)
	// Zero calls to the reminder-check endpoint.
	assert.Zero(t, f.caller.callCount())
}

func TestEmptyPollIsNotAnError(t *testing.T) {
	f := newFixture(t)
	f.caller.responses = [][]Reminder{{}}

	result, err := f.pipeline.CheckNow(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, result.Reminders)
	assert.Zero(t, result.Count)
	assert.Empty(t, f.notifier.Shown)
}

func TestReplyAugmentationAndButtonTruncation(t *testing.T) {
	f := newFixture(t)
	f.caller.responses = [][]Reminder{{
		{Key: "PROJ-1", Title: "First", Actions: []string{ActionDone, ActionView}},
	}}

	result, err := f.pipeline.CheckNow(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, result.Count)

	// The displayed notification shows only the first two actions as
	// buttons; Reply is reachable through the reply path.
	require.Len(t, f.notifier.Shown, 1)
	shown := f.notifier.Shown[0]
	assert.Equal(t, []string{ActionDone, ActionView}, shown.Notification.Buttons)

	// The stored handle carries all three actions after augmentation.
	handles := f.store.savedHandles()
	require.Len(t, handles, 1)
	assert.Equal(t, []string{ActionDone, ActionView, ActionReply}, handles[0].Actions)
	assert.Equal(t, shown.ID, handles[0].ID)
	assert.Equal(t, "PROJ-1", handles[0].IssueKey)
}

func TestDisplayLoopSerializesNotifications(t *testing.T) {
	f := newFixture(t)
	f.caller.responses = [][]Reminder{{
		{Key: "PROJ-1", Title: "First", Actions: []string{ActionDone}},
		{Key: "PROJ-2", Title: "Second", Actions: []string{ActionDone}},
	}}

	_, err := f.pipeline.CheckNow(context.Background())
	require.NoError(t, err)

	// Only the first reminder is shown immediately.
	assert.Equal(t, []string{"PROJ-1: First"}, shownTitles(f.notifier))

	// The second appears only after the display delay.
	f.clock.Advance(5 * time.Second)
	assert.Equal(t, []string{"PROJ-1: First", "PROJ-2: Second"}, shownTitles(f.notifier))
}

func TestRemindersShownInFirstSeenOrderAcrossCycles(t *testing.T) {
	f := newFixture(t)
	f.caller.responses = [][]Reminder{
		{{Key: "A", Title: "a"}, {Key: "B", Title: "b"}},
		{{Key: "C", Title: "c"}},
	}

	_, err := f.pipeline.CheckNow(context.Background())
	require.NoError(t, err)
	// Second poll appends to the tail while the display loop is mid-queue.
	_, err = f.pipeline.CheckNow(context.Background())
	require.NoError(t, err)

	f.clock.Advance(5 * time.Second)
	f.clock.Advance(5 * time.Second)
	assert.Equal(t, []string{"A: a", "B: b", "C: c"}, shownTitles(f.notifier))
}

func TestDisplayLoopGoesIdleAndResumes(t *testing.T) {
	f := newFixture(t)
	f.caller.responses = [][]Reminder{
		{{Key: "A", Title: "a"}},
		{{Key: "B", Title: "b"}},
	}

	_, err := f.pipeline.CheckNow(context.Background())
	require.NoError(t, err)
	require.Len(t, f.notifier.Shown, 1)

	// Drain: the delay fires, finds the queue empty, and the loop goes
	// idle.
	f.clock.Advance(5 * time.Second)
	require.Len(t, f.notifier.Shown, 1)

	// A later poll restarts the loop.
	_, err = f.pipeline.CheckNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"A: a", "B: b"}, shownTitles(f.notifier))
}

func TestFailedCycleStillRearmsTimer(t *testing.T) {
	f := newFixture(t)
	f.caller.err = errors.New("backend down")

	_, err := f.pipeline.CheckNow(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, f.caller.callCount())
	require.Equal(t, 1, f.clock.PendingTimers())

	// The next scheduled cycle still fires.
	f.caller.mu.Lock()
	f.caller.err = nil
	f.caller.mu.Unlock()
	f.clock.Advance(5 * time.Minute)
	assert.Equal(t, 2, f.caller.callCount())
}

func TestManualCheckDoesNotStackTimers(t *testing.T) {
	f := newFixture(t)
	f.caller.responses = [][]Reminder{{}, {}, {}}

	_, err := f.pipeline.CheckNow(context.Background())
	require.NoError(t, err)
	_, err = f.pipeline.CheckNow(context.Background())
	require.NoError(t, err)

	// The pending scheduled poll was cancelled and re-armed, not
	// duplicated.
	assert.Equal(t, 1, f.clock.PendingTimers())

	f.clock.Advance(5 * time.Minute)
	assert.Equal(t, 3, f.caller.callCount())
	assert.Equal(t, 1, f.clock.PendingTimers())
}

// gatedCaller parks every reminder check until released and tracks how
// many checks are in flight at once.
type gatedCaller struct {
	mu        sync.Mutex
	inFlight  int
	maxSeen   int
	responses [][]Reminder

	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *gatedCaller) Call(_ context.Context, _, endpoint string, _, result interface{}) error {
	if endpoint != checkEndpoint {
		return errors.New("unexpected endpoint: " + endpoint)
	}
	g.mu.Lock()
	g.inFlight++
	if g.inFlight > g.maxSeen {
		g.maxSeen = g.inFlight
	}
	var resp []Reminder
	if len(g.responses) > 0 {
		resp = g.responses[0]
		g.responses = g.responses[1:]
	}
	g.mu.Unlock()

	g.once.Do(func() { close(g.entered) })
	<-g.release

	g.mu.Lock()
	g.inFlight--
	g.mu.Unlock()

	out := result.(*CheckResult)
	out.Reminders = resp
	out.Count = len(resp)
	return nil
}

func TestConcurrentManualChecksRunOneCycleAtATime(t *testing.T) {
	caller := &gatedCaller{
		responses: [][]Reminder{{{Key: "PROJ-9", Title: "Only once", Actions: []string{ActionDone}}}},
		entered:   make(chan struct{}),
		release:   make(chan struct{}),
	}
	clock := sched.NewManual(time.Unix(0, 0))
	recorder := &notify.Recorder{}
	p := New(caller, &fakeAuth{authenticated: true}, newFakeStore(), recorder, clock, logging.Nop(), Options{
		PollInterval: 5 * time.Minute,
		DisplayDelay: 5 * time.Second,
	})

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := p.CheckNow(context.Background())
			assert.NoError(t, err)
		}()
	}

	// Release the checks only after the first one is parked mid-call,
	// so an unguarded second cycle would have run alongside it.
	<-caller.entered
	close(caller.release)
	wg.Wait()

	caller.mu.Lock()
	maxSeen := caller.maxSeen
	caller.mu.Unlock()
	assert.Equal(t, 1, maxSeen)

	// The reminder was queued by exactly one cycle.
	assert.Equal(t, []string{"PROJ-9: Only once"}, shownTitles(recorder))
}

func TestIdleTransitionPicksUpLateArrivals(t *testing.T) {
	f := newFixture(t)

	// A reminder lands after the display loop found the queue empty but
	// before it went idle. kickDisplayLoop declines while processing is
	// set, so the idle transition itself must pick the reminder up.
	f.pipeline.mu.Lock()
	f.pipeline.processing = true
	f.pipeline.mu.Unlock()
	f.pipeline.queue.Push(Reminder{Key: "PROJ-7", Title: "Late", Actions: []string{ActionDone}})

	f.pipeline.setIdle()
	assert.Equal(t, []string{"PROJ-7: Late"}, shownTitles(f.notifier))

	// With the queue drained the loop goes idle through the delay timer.
	f.clock.Advance(5 * time.Second)
	f.pipeline.mu.Lock()
	processing := f.pipeline.processing
	f.pipeline.mu.Unlock()
	assert.False(t, processing)
}

func TestStopCancelsTimers(t *testing.T) {
	f := newFixture(t)
	f.caller.responses = [][]Reminder{{}}

	_, err := f.pipeline.CheckNow(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, f.clock.PendingTimers())

	f.pipeline.Stop()
	assert.Zero(t, f.clock.PendingTimers())

	f.clock.Advance(time.Hour)
	assert.Equal(t, 1, f.caller.callCount())
}
