package keypad

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "zonealarm.v1.KeypadService"

// Method names of the keypad service.
const (
	MethodSelectZone = "SelectZone"
	MethodPressDigit = "PressDigit"
	MethodClearInput = "ClearInput"
	MethodCommit     = "Commit"
	MethodClearAlarm = "ClearAlarm"
	MethodGetView    = "GetView"
	MethodWatch      = "Watch"
)

// ActorMetadataKey carries "user@host" of the calling keypad for audit logs.
const ActorMetadataKey = "x-keypad-actor"

// KeypadServer is the server API of the keypad service.
// Messages are protobuf well-known types; views and events travel as structpb.Struct.
type KeypadServer interface {
	SelectZone(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error)
	PressDigit(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error)
	ClearInput(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
	Commit(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
	ClearAlarm(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
	GetView(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
	Watch(req *emptypb.Empty, stream grpc.ServerStream) error
}

// FullMethod returns the gRPC path of a keypad method, e.g. "/zonealarm.v1.KeypadService/Commit".
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// RegisterKeypadServer registers srv on s.
func RegisterKeypadServer(s grpc.ServiceRegistrar, srv KeypadServer) {
	s.RegisterService(&serviceDesc, srv)
}

//nolint:gochecknoglobals // Service descriptor, as generated code would declare it.
var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*KeypadServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: MethodSelectZone, Handler: unaryHandler(MethodSelectZone, newStringValue, KeypadServer.SelectZone)},
		{MethodName: MethodPressDigit, Handler: unaryHandler(MethodPressDigit, newStringValue, KeypadServer.PressDigit)},
		{MethodName: MethodClearInput, Handler: unaryHandler(MethodClearInput, newEmpty, KeypadServer.ClearInput)},
		{MethodName: MethodCommit, Handler: unaryHandler(MethodCommit, newEmpty, KeypadServer.Commit)},
		{MethodName: MethodClearAlarm, Handler: unaryHandler(MethodClearAlarm, newEmpty, KeypadServer.ClearAlarm)},
		{MethodName: MethodGetView, Handler: unaryHandler(MethodGetView, newEmpty, KeypadServer.GetView)},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    MethodWatch,
			Handler:       watchHandler,
			ServerStreams: true,
		},
	},
	Metadata: "zonealarm/v1/keypad.proto",
}

// unaryHandler adapts a typed server method to grpc.MethodHandler.
func unaryHandler[Req proto.Message](
	method string,
	newRequest func() Req,
	call func(KeypadServer, context.Context, Req) (*structpb.Struct, error),
) grpc.MethodHandler {
	fullMethod := FullMethod(method)

	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := newRequest()
		if err := dec(in); err != nil {
			return nil, err
		}

		server, _ := srv.(KeypadServer)
		if interceptor == nil {
			return call(server, ctx, in)
		}

		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}

		handler := func(ctx context.Context, req any) (any, error) {
			typed, _ := req.(Req)

			return call(server, ctx, typed)
		}

		return interceptor(ctx, in, info, handler)
	}
}

// watchHandler decodes the Watch request and hands the stream to the server.
func watchHandler(srv any, stream grpc.ServerStream) error {
	in := new(emptypb.Empty)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}

	server, _ := srv.(KeypadServer)

	return server.Watch(in, stream)
}

func newStringValue() *wrapperspb.StringValue { return new(wrapperspb.StringValue) }

func newEmpty() *emptypb.Empty { return new(emptypb.Empty) }
