package server

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/zone-alarm/internal/domain/zone"
	"github.com/oshokin/zone-alarm/internal/service/events"
)

// TestService_CommitThenFire commits through the session and fires through the
// clock, expecting both signals on the hub.
func TestService_CommitThenFire(t *testing.T) {
	t.Parallel()

	svc := newService(prometheus.NewRegistry(), time.UTC)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	watch := svc.hub.Subscribe(ctx)

	svc.session.SelectZone(ctx, zone.Night)
	for _, key := range []byte("2230") {
		require.NoError(t, svc.session.PressDigit(ctx, key))
	}

	_, err := svc.session.PressCommit(ctx)
	require.NoError(t, err)

	fired := svc.clock.Tick(ctx, time.Date(2026, 10, 18, 22, 30, 0, 0, time.UTC))
	require.True(t, fired)

	var kinds []events.Kind
	for len(kinds) < 7 {
		kinds = append(kinds, (<-watch).Kind)
	}

	require.Equal(t, events.KindAlarmSet, kinds[5])
	require.Equal(t, events.KindAlarmFired, kinds[6])
	require.InDelta(t, 1, testutil.ToFloat64(svc.metrics.AlarmsFired), 0)

	require.True(t, svc.session.PressClearAlarm(ctx))
	require.Equal(t, events.KindAlarmCleared, (<-watch).Kind)
}
