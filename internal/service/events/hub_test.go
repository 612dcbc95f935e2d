package events

import (
	"context"
	"testing"
	"testing/synctest"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/zone-alarm/internal/domain/alarm"
	"github.com/oshokin/zone-alarm/internal/domain/zone"
)

// TestHub_PublishAndUnsubscribe delivers events in order and closes on cancel.
func TestHub_PublishAndUnsubscribe(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		h := NewHub(4)
		ctx, cancel := context.WithCancel(context.Background())

		ch := h.Subscribe(ctx)
		require.Equal(t, 1, h.Subscribers())

		h.DisplayChanged("3:00 PM")
		h.AlarmSet(zone.Noon, alarm.Time{Hour: 15}, true)

		e := <-ch
		require.Equal(t, KindDisplayChanged, e.Kind)
		require.Equal(t, "3:00 PM", e.Display)
		require.False(t, e.At.IsZero())

		e = <-ch
		require.Equal(t, KindAlarmSet, e.Kind)
		require.True(t, e.Overwrite)
		require.Equal(t, 15, e.Time.Hour)

		cancel()
		synctest.Wait()

		_, ok := <-ch
		require.False(t, ok)
		require.Equal(t, 0, h.Subscribers())
	})
}

// TestHub_DropsSlowSubscriber closes a subscriber whose buffer is full.
func TestHub_DropsSlowSubscriber(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		h := NewHub(1)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		ch := h.Subscribe(ctx)

		h.AlarmCleared()
		h.ValidationError("invalid time")

		require.Equal(t, 0, h.Subscribers())

		e, ok := <-ch
		require.True(t, ok)
		require.Equal(t, KindAlarmCleared, e.Kind)

		_, ok = <-ch
		require.False(t, ok)

		cancel()
		synctest.Wait()
	})
}
