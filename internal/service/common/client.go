//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/structpb"

	keypad "github.com/oshokin/zone-alarm/internal/api/grpc/keypad"
	"github.com/oshokin/zone-alarm/internal/config"
)

// Client wraps the keypad gRPC stub with timeouts and caller identity.
type Client struct {
	// conn is the underlying gRPC connection to the alarm server.
	conn *grpc.ClientConn
	// api is the typed keypad stub.
	api *keypad.Client

	// callTimeout is the default timeout for individual RPC calls.
	callTimeout time.Duration
	// actor is sent as request metadata when set.
	actor string
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for unary calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// WithActor identifies the caller to the server, e.g. "user@host".
func WithActor(actor string) Option {
	return func(c *Client) {
		c.actor = actor
	}
}

// errAddressRequired is returned when a required address value is missing.
var errAddressRequired = errors.New("address must be provided")

// Dial creates a client for the alarm server at address.
// Note: this uses insecure transport credentials; deploy on a trusted network
// or terminate TLS in a proxy.
func Dial(_ context.Context, address string, opts ...Option) (*Client, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial alarm server: %w", err)
	}

	client := &Client{
		conn:        conn,
		api:         keypad.NewClient(conn),
		callTimeout: config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}

	return c.conn.Close()
}

// SelectZone selects the keypad zone by name.
func (c *Client) SelectZone(ctx context.Context, name string) (*keypad.View, error) {
	return c.call(ctx, "select zone", func(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
		return c.api.SelectZone(ctx, name, opts...)
	})
}

// PressDigit presses one key.
func (c *Client) PressDigit(ctx context.Context, key string) (*keypad.View, error) {
	return c.call(ctx, "press digit", func(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
		return c.api.PressDigit(ctx, key, opts...)
	})
}

// ClearInput empties the keypad buffer.
func (c *Client) ClearInput(ctx context.Context) (*keypad.View, error) {
	return c.call(ctx, "clear input", c.api.ClearInput)
}

// Commit stores the entered time as the pending alarm.
func (c *Client) Commit(ctx context.Context) (*keypad.View, error) {
	return c.call(ctx, "commit", c.api.Commit)
}

// ClearAlarm removes the pending alarm.
func (c *Client) ClearAlarm(ctx context.Context) (*keypad.View, error) {
	return c.call(ctx, "clear alarm", c.api.ClearAlarm)
}

// GetView returns the keypad snapshot.
func (c *Client) GetView(ctx context.Context) (*keypad.View, error) {
	return c.call(ctx, "get view", c.api.GetView)
}

// Watch streams output events to fn until ctx is canceled or the stream ends.
// The stream has no deadline.
func (c *Client) Watch(ctx context.Context, fn func(*structpb.Struct) error) error {
	if err := c.api.Watch(c.withActor(ctx), fn); err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	return nil
}

// call runs one unary RPC with the call timeout and decodes the view.
func (c *Client) call(
	ctx context.Context,
	name string,
	fn func(context.Context, ...grpc.CallOption) (*structpb.Struct, error),
) (*keypad.View, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := fn(callCtx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	return keypad.DecodeView(resp), nil
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx = c.withActor(ctx)

	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}

// withActor attaches the caller identity as outgoing metadata.
func (c *Client) withActor(ctx context.Context) context.Context {
	if c.actor == "" {
		return ctx
	}

	return metadata.AppendToOutgoingContext(ctx, keypad.ActorMetadataKey, c.actor)
}
