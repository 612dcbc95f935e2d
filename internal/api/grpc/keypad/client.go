package keypad

import (
	"context"
	"errors"
	"fmt"
	"io"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Client is the typed client stub of the keypad service.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient returns a stub over cc.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// SelectZone calls KeypadService.SelectZone.
func (c *Client) SelectZone(ctx context.Context, name string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodSelectZone, wrapperspb.String(name), opts...)
}

// PressDigit calls KeypadService.PressDigit.
func (c *Client) PressDigit(ctx context.Context, key string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodPressDigit, wrapperspb.String(key), opts...)
}

// ClearInput calls KeypadService.ClearInput.
func (c *Client) ClearInput(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodClearInput, new(emptypb.Empty), opts...)
}

// Commit calls KeypadService.Commit.
func (c *Client) Commit(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodCommit, new(emptypb.Empty), opts...)
}

// ClearAlarm calls KeypadService.ClearAlarm.
func (c *Client) ClearAlarm(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodClearAlarm, new(emptypb.Empty), opts...)
}

// GetView calls KeypadService.GetView.
func (c *Client) GetView(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodGetView, new(emptypb.Empty), opts...)
}

// Watch opens the event stream and calls fn for every event until the stream
// ends or fn returns an error. A server-side end of stream returns nil.
func (c *Client) Watch(ctx context.Context, fn func(*structpb.Struct) error, opts ...grpc.CallOption) error {
	stream, err := c.cc.NewStream(ctx, &serviceDesc.Streams[0], FullMethod(MethodWatch), opts...)
	if err != nil {
		return fmt.Errorf("open watch stream: %w", err)
	}

	if err = stream.SendMsg(new(emptypb.Empty)); err != nil {
		return fmt.Errorf("send watch request: %w", err)
	}

	if err = stream.CloseSend(); err != nil {
		return fmt.Errorf("close watch request: %w", err)
	}

	for {
		msg := new(structpb.Struct)
		if err = stream.RecvMsg(msg); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}

			return err
		}

		if err = fn(msg); err != nil {
			return err
		}
	}
}

// invoke performs one unary call.
func (c *Client) invoke(ctx context.Context, method string, in any, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}
