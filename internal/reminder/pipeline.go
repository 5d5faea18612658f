package reminder

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cristianoliveira/jira-intray/internal/config"
	"github.com/cristianoliveira/jira-intray/internal/logging"
	"github.com/cristianoliveira/jira-intray/internal/notify"
	"github.com/cristianoliveira/jira-intray/internal/sched"
	"github.com/cristianoliveira/jira-intray/internal/storage"
)

// checkEndpoint is the backend's reminder poll endpoint.
const checkEndpoint = "/api/reminders/check"

// Caller issues backend calls with the session's retry-on-401 rule.
type Caller interface {
	Call(ctx context.Context, method, endpoint string, body, result interface{}) error
}

// Auth reports whether the session is currently authenticated.
type Auth interface {
	Authenticated() bool
}

// HandleStore persists notification handles.
type HandleStore interface {
	SaveHandle(h storage.Handle) error
	GetValue(key string) (string, error)
}

// CheckResult is one poll cycle's outcome, also returned to manual
// check callers.
type CheckResult struct {
	Reminders []Reminder `json:"reminders"`
	Count     int        `json:"count"`
}

// Options tunes the pipeline's timing. Zero values fall back to the
// global configuration.
type Options struct {
	// PollInterval is the gap between scheduled poll cycles.
	PollInterval time.Duration
	// DisplayDelay is the pause between consecutive notifications.
	DisplayDelay time.Duration
}

func (o Options) withDefaults() Options {
	if o.PollInterval <= 0 {
		o.PollInterval = time.Duration(config.GetInt("poll_interval_minutes", 5)) * time.Minute
	}
	if o.DisplayDelay <= 0 {
		o.DisplayDelay = time.Duration(config.GetInt("notification_delay_seconds", 5)) * time.Second
	}
	return o
}

// Pipeline polls for due reminders and serializes their presentation.
//
// Polling is driven by a self-rescheduling timer: after each cycle
// completes, success or failure, a fresh timer is armed. A cycle that
// fails never stops the next one from firing, and a manual check
// cancels the pending timer before running so cycles cannot stack.
type Pipeline struct {
	caller   Caller
	auth     Auth
	store    HandleStore
	notifier notify.Notifier
	clock    sched.Clock
	logger   logging.Logger
	opts     Options

	queue Queue

	// cycleMu serializes poll cycles so a manual check never overlaps
	// a scheduled one, or another manual check.
	cycleMu sync.Mutex

	mu         sync.Mutex
	ctx        context.Context
	processing bool
	pollTimer  sched.Timer
	delayTimer sched.Timer
	stopped    bool
}

// New creates a reminder pipeline. clock may be nil for wall-clock
// time.
func New(caller Caller, auth Auth, store HandleStore, notifier notify.Notifier, clock sched.Clock, logger logging.Logger, opts Options) *Pipeline {
	if clock == nil {
		clock = sched.Real()
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Pipeline{
		caller:   caller,
		auth:     auth,
		store:    store,
		notifier: notifier,
		clock:    clock,
		logger:   logger,
		opts:     opts.withDefaults(),
		ctx:      context.Background(),
	}
}

// Start runs one initial poll cycle in the background and arms the
// polling timer. ctx bounds the pipeline's lifetime.
func (p *Pipeline) Start(ctx context.Context) {
	p.mu.Lock()
	p.ctx = ctx
	p.stopped = false
	p.mu.Unlock()

	go func() {
		if _, err := p.CheckNow(ctx); err != nil {
			p.logger.Warn("initial reminder check failed", "error", err)
		}
	}()
}

// Stop cancels pending timers. In-flight work finishes on its own.
func (p *Pipeline) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopped = true
	if p.pollTimer != nil {
		p.pollTimer.Stop()
		p.pollTimer = nil
	}
	if p.delayTimer != nil {
		p.delayTimer.Stop()
		p.delayTimer = nil
	}
}

// QueueLen reports how many reminders await display.
func (p *Pipeline) QueueLen() int { return p.queue.Len() }

// CheckNow cancels any pending scheduled poll, runs one cycle
// synchronously, and re-arms the timer. The cycle's result is returned
// to the caller.
func (p *Pipeline) CheckNow(ctx context.Context) (CheckResult, error) {
	p.cancelPollTimer()
	result, err := p.runCycle(ctx)
	p.armPollTimer()
	return result, err
}

// runCycle performs one poll: gate on auth and the notifications
// preference, fetch due reminders, queue them, and kick the display
// loop. A gated cycle is an empty result, not an error. Cycles are
// serialized: a cycle started while another is in flight waits its
// turn.
func (p *Pipeline) runCycle(ctx context.Context) (CheckResult, error) {
	p.cycleMu.Lock()
	defer p.cycleMu.Unlock()

	if !p.auth.Authenticated() {
		p.logger.Debug("reminder check skipped", "reason", "unauthenticated")
		return CheckResult{Reminders: []Reminder{}}, nil
	}
	if !p.notificationsEnabled() {
		p.logger.Debug("reminder check skipped", "reason", "notifications disabled")
		return CheckResult{Reminders: []Reminder{}}, nil
	}

	var result CheckResult
	if err := p.caller.Call(ctx, "GET", checkEndpoint, nil, &result); err != nil {
		return CheckResult{Reminders: []Reminder{}}, fmt.Errorf("reminder: check: %w", err)
	}
	if result.Reminders == nil {
		result.Reminders = []Reminder{}
	}
	result.Count = len(result.Reminders)

	if len(result.Reminders) > 0 {
		augmented := make([]Reminder, len(result.Reminders))
		for i, r := range result.Reminders {
			augmented[i] = r.AugmentActions()
		}
		p.queue.Push(augmented...)
		p.logger.Info("reminders queued", "count", len(augmented), "queued_total", p.queue.Len())
		p.kickDisplayLoop()
	}
	return result, nil
}

// notificationsEnabled resolves the preference from the durable store,
// falling back to configuration.
func (p *Pipeline) notificationsEnabled() bool {
	if p.store != nil {
		if v, err := p.store.GetValue(storage.KeyNotificationsEnabled); err == nil && v != "" {
			return strings.EqualFold(v, "true")
		}
	}
	return config.GetBool("notifications_enabled", true)
}

// scheduledPoll is the timer callback: run a cycle and re-arm,
// regardless of the cycle's outcome.
func (p *Pipeline) scheduledPoll() {
	p.mu.Lock()
	ctx := p.ctx
	p.pollTimer = nil
	p.mu.Unlock()

	defer p.armPollTimer()
	if _, err := p.runCycle(ctx); err != nil {
		p.logger.Warn("scheduled reminder check failed", "error", err)
	}
}

// armPollTimer arms the next scheduled poll unless the pipeline is
// stopped or a timer is already pending.
func (p *Pipeline) armPollTimer() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped || p.pollTimer != nil {
		return
	}
	p.pollTimer = p.clock.AfterFunc(p.opts.PollInterval, p.scheduledPoll)
}

// cancelPollTimer stops a pending scheduled poll, if any.
func (p *Pipeline) cancelPollTimer() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pollTimer != nil {
		p.pollTimer.Stop()
		p.pollTimer = nil
	}
}

// kickDisplayLoop starts the display loop when it is idle. The
// processing flag is the loop's sole mutual exclusion: a second loop is
// never started while one is active.
func (p *Pipeline) kickDisplayLoop() {
	p.mu.Lock()
	if p.processing || p.queue.Len() == 0 {
		p.mu.Unlock()
		return
	}
	p.processing = true
	p.mu.Unlock()
	p.displayNext()
}

// displayNext pops and shows one reminder, then arms the inter-display
// delay. The loop goes idle when the queue drains; a later poll
// restarts it.
func (p *Pipeline) displayNext() {
	p.mu.Lock()
	ctx := p.ctx
	stopped := p.stopped
	p.delayTimer = nil
	p.mu.Unlock()

	if stopped || ctx.Err() != nil {
		p.setIdle()
		return
	}

	next, ok := p.queue.Pop()
	if !ok {
		p.setIdle()
		return
	}

	p.display(ctx, next)

	p.mu.Lock()
	p.delayTimer = p.clock.AfterFunc(p.opts.DisplayDelay, p.displayNext)
	p.mu.Unlock()
}

// display shows a single reminder and persists its notification
// handle so a later button click or reply can be resolved back to it.
func (p *Pipeline) display(ctx context.Context, r Reminder) {
	id := uuid.NewString()
	if err := p.notifier.Show(ctx, id, r.Notification()); err != nil {
		p.logger.Warn("showing notification failed", "issue", r.Key, "error", err)
		return
	}
	if err := p.store.SaveHandle(r.Handle(id)); err != nil {
		p.logger.Warn("persisting notification handle failed", "issue", r.Key, "error", err)
	}
	p.logger.Debug("reminder displayed", "issue", r.Key, "notification", id)
}

// setIdle ends the display loop, unless a reminder arrived after the
// queue last looked empty. The queue re-check and the processing flag
// flip happen under the same lock, so a push that lost the race to
// kickDisplayLoop is picked up here instead of stranded.
func (p *Pipeline) setIdle() {
	p.mu.Lock()
	if !p.stopped && p.ctx.Err() == nil && p.queue.Len() > 0 {
		p.mu.Unlock()
		p.displayNext()
		return
	}
	p.processing = false
	p.mu.Unlock()
}
