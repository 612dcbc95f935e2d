package keypad

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/oshokin/zone-alarm/internal/domain/alarm"
	"github.com/oshokin/zone-alarm/internal/domain/timeinput"
	"github.com/oshokin/zone-alarm/internal/domain/zone"
	"github.com/oshokin/zone-alarm/internal/logger"
	"github.com/oshokin/zone-alarm/internal/service/events"
	"github.com/oshokin/zone-alarm/internal/service/session"
)

// Session abstracts the keypad operations the transport layer depends on.
type Session interface {
	SelectZone(ctx context.Context, z zone.Zone)
	PressDigit(ctx context.Context, digit byte) error
	PressClearInput(ctx context.Context)
	PressCommit(ctx context.Context) (*alarm.Pending, error)
	PressClearAlarm(ctx context.Context) bool
	View() session.View
}

// Watcher streams output signals.
type Watcher interface {
	Subscribe(ctx context.Context) <-chan events.Event
}

// Server implements the KeypadService gRPC API.
type Server struct {
	// session handles the key presses.
	session Session
	// watcher feeds the Watch stream.
	watcher Watcher
}

var _ KeypadServer = (*Server)(nil)

// NewServer wires the provided session and watcher into a gRPC handler.
func NewServer(s Session, w Watcher) *Server {
	return &Server{
		session: s,
		watcher: w,
	}
}

// SelectZone switches the keypad zone. Unknown names are InvalidArgument.
func (s *Server) SelectZone(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "zone is required")
	}

	z, err := zone.Parse(req.GetValue())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	s.session.SelectZone(withActor(ctx), z)

	return s.view(true)
}

// PressDigit presses one key. A key the zone does not allow is ignored and
// reported with accepted=false; anything that is not a single digit is InvalidArgument.
func (s *Server) PressDigit(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	key := req.GetValue()
	if len(key) != 1 || key[0] < '0' || key[0] > '9' {
		return nil, status.Errorf(codes.InvalidArgument, "key must be a single digit, got %q", key)
	}

	err := s.session.PressDigit(withActor(ctx), key[0])
	if err != nil && !errors.Is(err, timeinput.ErrRejectedDigit) {
		return nil, status.Error(codes.Internal, "unable to press key")
	}

	return s.view(err == nil)
}

// ClearInput empties the keypad buffer.
func (s *Server) ClearInput(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	s.session.PressClearInput(withActor(ctx))

	return s.view(true)
}

// Commit stores the entered time as the pending alarm. A rejection is not an
// RPC failure: the returned view carries the reason in its error field.
func (s *Server) Commit(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	_, err := s.session.PressCommit(withActor(ctx))

	var rejection *alarm.RejectionError
	if err != nil && !errors.As(err, &rejection) {
		return nil, status.Error(codes.Internal, "unable to commit alarm")
	}

	return s.view(err == nil)
}

// ClearAlarm removes and silences the pending alarm; accepted reports whether one existed.
func (s *Server) ClearAlarm(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	cleared := s.session.PressClearAlarm(withActor(ctx))

	return s.view(cleared)
}

// GetView returns the current keypad snapshot.
func (s *Server) GetView(_ context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return s.view(true)
}

// Watch streams output signals until the client goes away.
func (s *Server) Watch(_ *emptypb.Empty, stream grpc.ServerStream) error {
	ctx := withActor(stream.Context())
	logger.Info(ctx, "Watcher connected")

	for e := range s.watcher.Subscribe(ctx) {
		msg, err := eventToProto(e)
		if err != nil {
			return status.Error(codes.Internal, err.Error())
		}

		if err = stream.SendMsg(msg); err != nil {
			return err
		}
	}

	if ctx.Err() != nil {
		logger.Info(ctx, "Watcher disconnected")

		return nil
	}

	return status.Error(codes.ResourceExhausted, "watcher fell behind")
}

// view encodes the current session snapshot.
func (s *Server) view(accepted bool) (*structpb.Struct, error) {
	v, err := viewToProto(s.session.View(), accepted)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	return v, nil
}

// withActor adds the caller identity from request metadata to the context logger.
func withActor(ctx context.Context) context.Context {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ctx
	}

	if actors := md.Get(ActorMetadataKey); len(actors) > 0 {
		return logger.WithKV(ctx, "actor", strings.Join(actors, ","))
	}

	return ctx
}
