//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/metadata"

	keypad "github.com/oshokin/zone-alarm/internal/api/grpc/keypad"
)

// TestDial_ValidatesAddress verifies that Dial rejects empty addresses.
func TestDial_ValidatesAddress(t *testing.T) {
	t.Parallel()

	c, err := Dial(context.Background(), "")
	require.Error(t, err)
	require.Nil(t, c)
}

// TestDial_AppliesOptions checks that options override defaults.
func TestDial_AppliesOptions(t *testing.T) {
	t.Parallel()

	c, err := Dial(context.Background(), "127.0.0.1:1", WithCallTimeout(time.Second), WithActor("u@h"))
	require.NoError(t, err)

	defer func() {
		_ = c.Close()
	}()

	require.Equal(t, time.Second, c.callTimeout)
	require.Equal(t, "u@h", c.actor)
}

// TestClient_callContext checks timeout vs cancel-only behavior and actor metadata.
func TestClient_callContext(t *testing.T) {
	t.Parallel()

	c := &Client{
		callTimeout: 0,
	}

	ctx, cancel := c.callContext(context.Background())
	cancel()

	require.NotNil(t, ctx)

	_, ok := metadata.FromOutgoingContext(ctx)
	require.False(t, ok)

	c.callTimeout = 10 * time.Millisecond
	c.actor = "user@host"

	ctx, cancel = c.callContext(context.Background())
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	require.WithinDuration(t, time.Now().Add(10*time.Millisecond), deadline, 30*time.Millisecond)

	md, ok := metadata.FromOutgoingContext(ctx)
	require.True(t, ok)
	require.Equal(t, []string{"user@host"}, md.Get(keypad.ActorMetadataKey))
}

// TestClient_CloseNil is safe on a nil client.
func TestClient_CloseNil(t *testing.T) {
	t.Parallel()

	var c *Client
	require.NoError(t, c.Close())
}
