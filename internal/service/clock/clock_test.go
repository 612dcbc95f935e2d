package clock

import (
	"context"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/zone-alarm/internal/domain/alarm"
	"github.com/oshokin/zone-alarm/internal/domain/zone"
	"github.com/oshokin/zone-alarm/internal/metrics"
	"github.com/oshokin/zone-alarm/internal/service/registry"
)

// recordingNotifier counts fired alarms.
type recordingNotifier struct {
	mu    sync.Mutex
	fired []*alarm.Pending
}

// AlarmFired records p.
func (n *recordingNotifier) AlarmFired(p *alarm.Pending) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.fired = append(n.fired, p)
}

// count returns how many alarms fired.
func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()

	return len(n.fired)
}

// at returns 2026-10-18 at the given wall-clock time in UTC.
func at(hour, minute, second int) time.Time {
	return time.Date(2026, 10, 18, hour, minute, second, 0, time.UTC)
}

// TestClock_FiresOnce fires at second zero and never again for the same alarm.
func TestClock_FiresOnce(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	reg := registry.New()
	notifier := new(recordingNotifier)
	m := metrics.New(prometheus.NewRegistry())
	c := New(reg, notifier, WithMetrics(m), WithLocation(time.UTC))

	_, _, err := reg.Commit(ctx, zone.Night, alarm.Time{Hour: 21, Minute: 15})
	require.NoError(t, err)

	require.False(t, c.Tick(ctx, at(21, 14, 59)))
	require.True(t, c.Tick(ctx, at(21, 15, 0)))
	require.False(t, c.Tick(ctx, at(21, 15, 0)))
	require.False(t, c.Tick(ctx, at(21, 15, 1)))

	require.Equal(t, 1, notifier.count())
	require.InDelta(t, 1, testutil.ToFloat64(m.AlarmsFired), 0)

	// The fired alarm stays pending until cleared.
	current := reg.Current()
	require.NotNil(t, current)
	require.True(t, current.Triggered)
	require.Equal(t, current.ID, notifier.fired[0].ID)
	require.True(t, notifier.fired[0].Triggered)
}

// TestClock_NoAlarm does nothing without a pending alarm.
func TestClock_NoAlarm(t *testing.T) {
	t.Parallel()

	notifier := new(recordingNotifier)
	c := New(registry.New(), notifier)

	require.False(t, c.Tick(context.Background(), at(0, 0, 0)))
	require.Equal(t, 0, notifier.count())
}

// TestClock_MissedSecond never catches up once second zero has passed.
func TestClock_MissedSecond(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	reg := registry.New()
	notifier := new(recordingNotifier)
	m := metrics.New(prometheus.NewRegistry())
	c := New(reg, notifier, WithMetrics(m))

	_, _, err := reg.Commit(ctx, zone.Morning, alarm.Time{Hour: 6, Minute: 45})
	require.NoError(t, err)

	require.False(t, c.Tick(ctx, at(6, 45, 2)))
	require.False(t, c.Tick(ctx, at(6, 45, 3)))
	require.False(t, c.Tick(ctx, at(6, 46, 0)))

	require.Equal(t, 0, notifier.count())
	require.InDelta(t, 1, testutil.ToFloat64(m.AlarmsMissed), 0)
	require.True(t, reg.Current().Armed)
}

// TestClock_ClearedBeforeTick does not fire a cleared alarm, and a recommit fires again.
func TestClock_ClearedBeforeTick(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	reg := registry.New()
	notifier := new(recordingNotifier)
	c := New(reg, notifier)

	_, _, err := reg.Commit(ctx, zone.Midnight, alarm.Time{Hour: 1, Minute: 0})
	require.NoError(t, err)
	require.True(t, c.Tick(ctx, at(1, 0, 0)))

	require.True(t, reg.Clear(ctx))
	require.False(t, c.Tick(ctx, at(1, 0, 0)))

	_, _, err = reg.Commit(ctx, zone.Midnight, alarm.Time{Hour: 1, Minute: 0})
	require.NoError(t, err)
	require.True(t, c.Tick(ctx, at(1, 0, 0)))
	require.Equal(t, 2, notifier.count())
}

// TestClock_StartStop runs the cron-driven loop in a bubble and checks the alarm
// fires exactly once when its minute comes around.
func TestClock_StartStop(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		ctx := context.Background()
		reg := registry.New()
		notifier := new(recordingNotifier)
		c := New(reg, notifier, WithLocation(time.UTC))

		// The bubble clock starts at midnight UTC.
		_, _, err := reg.Commit(ctx, zone.Midnight, alarm.Time{Hour: 0, Minute: 1})
		require.NoError(t, err)

		require.NoError(t, c.Start(ctx))
		require.ErrorIs(t, c.Start(ctx), ErrAlreadyStarted)

		time.Sleep(2 * time.Minute)
		synctest.Wait()

		c.Stop()
		c.Stop()

		require.Equal(t, 1, notifier.count())
		require.True(t, reg.Current().Triggered)
	})
}
