package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/zone-alarm/internal/domain/alarm"
	"github.com/oshokin/zone-alarm/internal/domain/timeinput"
	"github.com/oshokin/zone-alarm/internal/domain/zone"
	"github.com/oshokin/zone-alarm/internal/service/registry"
)

// alarmSet is one recorded AlarmSet signal.
type alarmSet struct {
	zone      zone.Zone
	at        alarm.Time
	overwrite bool
}

// recordingListener keeps every signal for assertions.
type recordingListener struct {
	displays []string
	errors   []string
	sets     []alarmSet
	cleared  int
}

func (l *recordingListener) DisplayChanged(display string) { l.displays = append(l.displays, display) }
func (l *recordingListener) ValidationError(message string) { l.errors = append(l.errors, message) }
func (l *recordingListener) AlarmCleared() { l.cleared++ }

func (l *recordingListener) AlarmSet(z zone.Zone, t alarm.Time, overwrite bool) {
	l.sets = append(l.sets, alarmSet{zone: z, at: t, overwrite: overwrite})
}

// newSession returns a session over a fresh registry and its listener.
func newSession() (*Session, *recordingListener) {
	listener := new(recordingListener)

	return New(registry.New(), listener), listener
}

// press types every digit of keys and fails on the first rejection.
func press(t *testing.T, s *Session, keys string) {
	t.Helper()

	for i := range len(keys) {
		require.NoError(t, s.PressDigit(context.Background(), keys[i]), "key %q of %q", keys[i], keys)
	}
}

// TestSession_NoZone accepts no digits and commits nothing.
func TestSession_NoZone(t *testing.T) {
	t.Parallel()

	s, listener := newSession()
	ctx := context.Background()

	require.ErrorIs(t, s.PressDigit(ctx, '1'), timeinput.ErrRejectedDigit)
	require.Empty(t, listener.displays)

	_, err := s.PressCommit(ctx)
	require.ErrorIs(t, err, alarm.ErrZoneRequired)
	require.Equal(t, []string{"zone required"}, listener.errors)
	require.Empty(t, s.View().Display)
}

// TestSession_EntryAndCommit walks a Noon entry through display updates and commit.
func TestSession_EntryAndCommit(t *testing.T) {
	t.Parallel()

	s, listener := newSession()
	ctx := context.Background()

	s.SelectZone(ctx, zone.Noon)
	require.Equal(t, "1", s.View().ValidDigits)

	require.ErrorIs(t, s.PressDigit(ctx, '2'), timeinput.ErrRejectedDigit)
	press(t, s, "1530")

	require.Equal(t, []string{"12:00 AM", "12:01 AM", "12:15 AM", "1:53 PM", "3:30 PM"}, listener.displays)

	pending, err := s.PressCommit(ctx)
	require.NoError(t, err)
	require.Equal(t, alarm.Time{Hour: 15, Minute: 30}, pending.At)
	require.Equal(t, []alarmSet{{zone: zone.Noon, at: alarm.Time{Hour: 15, Minute: 30}}}, listener.sets)

	view := s.View()
	require.Equal(t, zone.Noon, view.Zone)
	require.Equal(t, "1530", view.Digits)
	require.Empty(t, view.ValidDigits)
	require.Equal(t, pending, view.Alarm)
	require.False(t, view.Overwrote)
}

// TestSession_Overwrite reports the overwrite and keeps only the second alarm.
func TestSession_Overwrite(t *testing.T) {
	t.Parallel()

	s, listener := newSession()
	ctx := context.Background()

	s.SelectZone(ctx, zone.Morning)
	press(t, s, "0700")

	_, err := s.PressCommit(ctx)
	require.NoError(t, err)

	s.SelectZone(ctx, zone.Night)
	press(t, s, "2230")

	second, err := s.PressCommit(ctx)
	require.NoError(t, err)

	require.Len(t, listener.sets, 2)
	require.False(t, listener.sets[0].overwrite)
	require.True(t, listener.sets[1].overwrite)

	view := s.View()
	require.True(t, view.Overwrote)
	require.Equal(t, second.ID, view.Alarm.ID)
	require.Equal(t, zone.Night, view.Alarm.Zone)
	require.Equal(t, alarm.Time{Hour: 22, Minute: 30}, view.Alarm.At)
}

// TestSession_MinuteBound rejects minute 60 at commit although each key was accepted.
func TestSession_MinuteBound(t *testing.T) {
	t.Parallel()

	s, listener := newSession()
	ctx := context.Background()

	s.SelectZone(ctx, zone.Midnight)
	press(t, s, "0060")

	_, err := s.PressCommit(ctx)
	require.ErrorIs(t, err, alarm.ErrInvalidTime)
	require.Equal(t, []string{"invalid time"}, listener.errors)
	require.Equal(t, "invalid time", s.View().Error)
	require.Nil(t, s.View().Alarm)

	// Clearing input also clears the message.
	s.PressClearInput(ctx)
	require.Empty(t, s.View().Error)
	require.Empty(t, s.View().Digits)
}

// TestSession_OutOfBoundHourAtCommit catches hours the entry table lets through.
func TestSession_OutOfBoundHourAtCommit(t *testing.T) {
	t.Parallel()

	s, listener := newSession()
	ctx := context.Background()

	s.SelectZone(ctx, zone.Midnight)
	press(t, s, "2345")

	_, err := s.PressCommit(ctx)
	require.ErrorIs(t, err, alarm.ErrHourOutOfRange)
	require.Equal(t, []string{"hour out of range: midnight hours are 0-3"}, listener.errors)
}

// TestSession_ZoneChangeResets clears the digits when switching zones.
func TestSession_ZoneChangeResets(t *testing.T) {
	t.Parallel()

	s, _ := newSession()
	ctx := context.Background()

	s.SelectZone(ctx, zone.Night)
	press(t, s, "21")

	s.SelectZone(ctx, zone.Morning)

	view := s.View()
	require.Empty(t, view.Digits)
	require.Equal(t, zone.Morning, view.Zone)
	require.Equal(t, "01", view.ValidDigits)
}

// TestSession_ClearAlarm is idempotent and signals only when an alarm was removed.
func TestSession_ClearAlarm(t *testing.T) {
	t.Parallel()

	s, listener := newSession()
	ctx := context.Background()

	require.False(t, s.PressClearAlarm(ctx))
	require.Equal(t, 0, listener.cleared)

	s.SelectZone(ctx, zone.Night)
	press(t, s, "1900")

	_, err := s.PressCommit(ctx)
	require.NoError(t, err)

	require.True(t, s.PressClearAlarm(ctx))
	require.False(t, s.PressClearAlarm(ctx))
	require.Equal(t, 1, listener.cleared)
	require.Nil(t, s.View().Alarm)
}

// TestSession_NilListener works without an observer.
func TestSession_NilListener(t *testing.T) {
	t.Parallel()

	s := New(registry.New(), nil)
	ctx := context.Background()

	s.SelectZone(ctx, zone.Morning)
	press(t, s, "0530")

	_, err := s.PressCommit(ctx)
	require.NoError(t, err)
	require.True(t, s.PressClearAlarm(ctx))
}
