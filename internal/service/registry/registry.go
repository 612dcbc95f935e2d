package registry

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oshokin/zone-alarm/internal/domain/alarm"
	"github.com/oshokin/zone-alarm/internal/domain/zone"
	"github.com/oshokin/zone-alarm/internal/logger"
	"github.com/oshokin/zone-alarm/internal/metrics"
)

// Registry holds at most one pending alarm.
// Every method is atomic with respect to the others, so the clock never
// observes a half-replaced alarm.
type Registry struct {
	// current is the pending alarm, nil when none is set.
	current *alarm.Pending
	// metrics records commits and clears; may be nil.
	metrics *metrics.Metrics
	// now returns the wall-clock time used for SetAt.
	now func() time.Time
	// mu protects current.
	mu sync.RWMutex
}

// Option configures a Registry.
type Option func(*Registry)

// WithMetrics records commit outcomes in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Registry) {
		r.metrics = m
	}
}

// WithNow overrides the clock used to stamp committed alarms.
func WithNow(now func() time.Time) Option {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

// New returns an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		now: time.Now,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Commit validates t under z and stores it as the pending alarm, replacing any
// alarm already set. overwritten reports whether a previous alarm was replaced.
// A refused commit returns a *alarm.RejectionError and leaves the registry unchanged.
func (r *Registry) Commit(ctx context.Context, z zone.Zone, t alarm.Time) (*alarm.Pending, bool, error) {
	if err := alarm.Validate(z, t); err != nil {
		r.metrics.IncrementCommitRejected(rejectionLabel(err))
		logger.DebugKV(ctx, "Alarm commit rejected", "zone", z.String(), "reason", err.Error())

		return nil, false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	overwritten := r.current != nil
	r.current = alarm.NewPending(z, t, r.now())

	r.metrics.IncrementAlarmSet(z.String(), overwritten)
	logger.InfoKV(
		ctx,
		"Alarm set",
		"alarm_id", r.current.ID.String(),
		"zone", z.String(),
		"at", t.String(),
		"overwritten", overwritten,
	)

	return r.current.Clone(), overwritten, nil
}

// Clear removes the pending alarm. It is a no-op when nothing is set and
// reports whether an alarm was removed, so the caller can silence it.
func (r *Registry) Clear(ctx context.Context) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current == nil {
		return false
	}

	logger.InfoKV(ctx, "Alarm cleared", "alarm_id", r.current.ID.String(), "triggered", r.current.Triggered)

	r.current = nil
	r.metrics.IncrementAlarmCleared()

	return true
}

// Current returns a copy of the pending alarm, or nil.
func (r *Registry) Current() *alarm.Pending {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.current.Clone()
}

// Trigger flips the alarm with the given id from armed to triggered.
// It returns false if that alarm is no longer pending or already fired.
func (r *Registry) Trigger(id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current == nil || r.current.ID != id || !r.current.Armed || r.current.Triggered {
		return false
	}

	r.current.Armed = false
	r.current.Triggered = true

	return true
}

// rejectionLabel maps a rejection to a stable metric label.
func rejectionLabel(err error) string {
	switch {
	case errors.Is(err, alarm.ErrZoneRequired):
		return "zone_required"
	case errors.Is(err, alarm.ErrHourOutOfRange):
		return "hour_out_of_range"
	default:
		return "invalid_time"
	}
}
