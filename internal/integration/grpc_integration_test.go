package integration

import (
	"bytes"
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/zone-alarm/internal/config"
	"github.com/oshokin/zone-alarm/internal/service/common"
	"github.com/oshokin/zone-alarm/internal/service/keypad"
	"github.com/oshokin/zone-alarm/internal/service/server"
)

// reservePort returns a loopback address that was free a moment ago.
func reservePort(t *testing.T) string {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	addr := l.Addr().String()
	require.NoError(t, l.Close())

	return addr
}

// startServer runs the alarm server with a temporary config and returns the config path.
func startServer(t *testing.T, addr string) string {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	cfgPath := filepath.Join(t.TempDir(), "settings.yaml")

	require.NoError(
		t,
		config.Save(cfgPath, &config.Config{
			ServerAddress: addr,
			Timeout:       5 * time.Second,
		}),
	)

	done := make(chan error, 1)

	go func() {
		done <- server.Run(ctx, &server.Options{ConfigPath: cfgPath})
	}()

	require.Eventually(t, func() bool {
		conn, err := net.DialTimeout("tcp", addr, 50*time.Millisecond)
		if err != nil {
			return false
		}

		_ = conn.Close()

		return true
	}, 3*time.Second, 20*time.Millisecond)

	t.Cleanup(func() {
		cancel()

		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(3 * time.Second):
			t.Error("server did not stop")
		}
	})

	return cfgPath
}

// TestGRPC_Roundtrip drives the real server through the client stub.
func TestGRPC_Roundtrip(t *testing.T) {
	t.Parallel()

	addr := reservePort(t)
	startServer(t, addr)

	ctx := context.Background()

	c, err := common.Dial(ctx, addr, common.WithCallTimeout(3*time.Second), common.WithActor("tester@localhost"))
	require.NoError(t, err)

	defer func() {
		_ = c.Close()
	}()

	view, err := c.GetView(ctx)
	require.NoError(t, err)
	require.Nil(t, view.Alarm)

	view, err = c.SelectZone(ctx, "noon")
	require.NoError(t, err)
	require.Equal(t, "1", view.ValidDigits)

	for _, key := range []string{"1", "5", "3", "0"} {
		view, err = c.PressDigit(ctx, key)
		require.NoError(t, err)
		require.True(t, view.Accepted)
	}

	require.Equal(t, "3:30 PM", view.Display)

	view, err = c.PressDigit(ctx, "9")
	require.NoError(t, err)
	require.False(t, view.Accepted)

	view, err = c.Commit(ctx)
	require.NoError(t, err)
	require.Empty(t, view.Error)
	require.NotNil(t, view.Alarm)
	require.Equal(t, "noon", view.Alarm.Zone)
	require.Equal(t, 15, view.Alarm.Hour)
	require.Equal(t, 30, view.Alarm.Minute)
	require.True(t, view.Alarm.Armed)

	view, err = c.ClearAlarm(ctx)
	require.NoError(t, err)
	require.Nil(t, view.Alarm)
}

// TestKeypad_SetAndShow runs the keypad commands against the real server.
func TestKeypad_SetAndShow(t *testing.T) {
	t.Parallel()

	addr := reservePort(t)
	cfgPath := startServer(t, addr)

	ctx := context.Background()

	var out bytes.Buffer

	k, err := keypad.Open(ctx, &keypad.Options{ConfigPath: cfgPath, Out: &out})
	require.NoError(t, err)

	defer func() {
		_ = k.Close()
	}()

	require.NoError(t, k.Set(ctx, "night", "2015"))
	require.Contains(t, out.String(), "8:15 PM")

	err = k.Set(ctx, "morning", "11")
	require.ErrorIs(t, err, keypad.ErrKeyIgnored)

	out.Reset()
	require.NoError(t, k.Show(ctx))
	require.Contains(t, out.String(), "night 8:15 PM")
}
