package clock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/oshokin/zone-alarm/internal/domain/alarm"
	"github.com/oshokin/zone-alarm/internal/logger"
	"github.com/oshokin/zone-alarm/internal/metrics"
)

// EverySecond fires at each wall-clock second boundary.
const EverySecond = "* * * * * *"

// ErrAlreadyStarted is returned by Start on a running clock.
var ErrAlreadyStarted = errors.New("clock already started")

// Source exposes the pending alarm to the clock.
type Source interface {
	Current() *alarm.Pending
	Trigger(id uuid.UUID) bool
}

// Notifier receives the fired signal.
type Notifier interface {
	AlarmFired(p *alarm.Pending)
}

// Clock compares the wall clock against the pending alarm once per second.
//
// It fires only on second zero of the target minute. A tick that is skipped or
// delayed past that second loses the alarm for the day; there is no catch-up.
type Clock struct {
	source   Source
	notifier Notifier
	metrics  *metrics.Metrics
	location *time.Location

	// missed remembers the last alarm reported as missed, to log it once.
	missed uuid.UUID

	scheduler *cron.Cron
	mu        sync.Mutex
}

// Option configures a Clock.
type Option func(*Clock)

// WithMetrics records fired and missed alarms in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Clock) {
		c.metrics = m
	}
}

// WithLocation sets the time zone whose wall clock is compared. Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(c *Clock) {
		if loc != nil {
			c.location = loc
		}
	}
}

// New creates a stopped clock.
func New(source Source, notifier Notifier, opts ...Option) *Clock {
	c := &Clock{
		source:   source,
		notifier: notifier,
		location: time.Local,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Start schedules the recurring check. The ticks run until Stop is called.
func (c *Clock) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.scheduler != nil {
		return ErrAlreadyStarted
	}

	ctx = logger.WithName(ctx, "alarm-clock")

	scheduler := cron.New(cron.WithSeconds(), cron.WithLocation(c.location))

	_, err := scheduler.AddFunc(EverySecond, func() {
		c.Tick(ctx, time.Now().In(c.location))
	})
	if err != nil {
		return fmt.Errorf("schedule clock tick: %w", err)
	}

	scheduler.Start()
	c.scheduler = scheduler

	logger.DebugKV(ctx, "Alarm clock started", "location", c.location.String())

	return nil
}

// Stop cancels the recurring check and waits for a running tick to finish.
// It is safe to call on a stopped clock.
func (c *Clock) Stop() {
	c.mu.Lock()
	scheduler := c.scheduler
	c.scheduler = nil
	c.mu.Unlock()

	if scheduler == nil {
		return
	}

	<-scheduler.Stop().Done()
}

// Tick runs one comparison at now and reports whether the alarm fired.
func (c *Clock) Tick(ctx context.Context, now time.Time) bool {
	pending := c.source.Current()
	if pending == nil {
		return false
	}

	if pending.Missed(now) {
		c.reportMissed(ctx, pending)

		return false
	}

	if !pending.Due(now) {
		return false
	}

	// The alarm may have been replaced or cleared since Current; Trigger
	// only succeeds for the very instance checked above.
	if !c.source.Trigger(pending.ID) {
		return false
	}

	pending.Armed, pending.Triggered = false, true

	c.metrics.IncrementAlarmFired()
	logger.InfoKV(ctx, "Alarm fired", "alarm_id", pending.ID.String(), "alarm", pending.Label())

	if c.notifier != nil {
		c.notifier.AlarmFired(pending)
	}

	return true
}

// reportMissed logs an armed alarm whose firing second has passed, once per alarm.
func (c *Clock) reportMissed(ctx context.Context, pending *alarm.Pending) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.missed == pending.ID {
		return
	}

	c.missed = pending.ID
	c.metrics.IncrementAlarmMissed()
	logger.WarnKV(
		ctx,
		"Alarm minute reached after its firing second, it will not fire today",
		"alarm_id", pending.ID.String(),
		"alarm", pending.Label(),
	)
}
