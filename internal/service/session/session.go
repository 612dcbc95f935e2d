package session

import (
	"context"
	"errors"
	"sync"

	"github.com/oshokin/zone-alarm/internal/domain/alarm"
	"github.com/oshokin/zone-alarm/internal/domain/timeinput"
	"github.com/oshokin/zone-alarm/internal/domain/zone"
	"github.com/oshokin/zone-alarm/internal/logger"
	"github.com/oshokin/zone-alarm/internal/metrics"
)

// Listener receives the output signals of a session.
type Listener interface {
	DisplayChanged(display string)
	ValidationError(message string)
	AlarmSet(z zone.Zone, t alarm.Time, overwrite bool)
	AlarmCleared()
}

// Registry is the alarm store the session commits into.
type Registry interface {
	Commit(ctx context.Context, z zone.Zone, t alarm.Time) (*alarm.Pending, bool, error)
	Clear(ctx context.Context) bool
	Current() *alarm.Pending
}

// View is a snapshot of what a keypad shows.
type View struct {
	// Zone is the selected zone, zone.Unset if none.
	Zone zone.Zone
	// Digits are the raw keys entered so far.
	Digits string
	// Display is the current buffer rendering.
	Display string
	// ValidDigits are the keys that would be accepted next.
	ValidDigits string
	// Error is the last validation message, cleared by the next input.
	Error string
	// Alarm is the pending alarm, nil if none.
	Alarm *alarm.Pending
	// Overwrote reports whether the last commit replaced an alarm.
	Overwrote bool
}

// Session is one interactive keypad: it owns the selected zone and the input
// buffer and translates key presses into registry calls and output signals.
// Calls are serialized, so concurrent callers see them in some total order.
type Session struct {
	registry Registry
	listener Listener
	metrics  *metrics.Metrics

	buffer    *timeinput.Buffer
	lastError string
	overwrote bool

	mu sync.Mutex
}

// Option configures a Session.
type Option func(*Session)

// WithMetrics records rejected digits in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Session) {
		s.metrics = m
	}
}

// New creates a session with no zone selected.
// listener may be nil when nobody observes the signals.
func New(registry Registry, listener Listener, opts ...Option) *Session {
	s := &Session{
		registry: registry,
		listener: listener,
		buffer:   timeinput.New(zone.Unset),
	}

	if s.listener == nil {
		s.listener = nopListener{}
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// SelectZone switches the zone and resets the input.
func (s *Session) SelectZone(ctx context.Context, z zone.Zone) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.buffer = timeinput.New(z)
	s.lastError = ""

	logger.DebugKV(ctx, "Zone selected", "zone", z.String())
	s.listener.DisplayChanged(s.buffer.Display())
}

// PressDigit appends a key. A key that is not currently legal returns
// timeinput.ErrRejectedDigit and has no other effect.
func (s *Session) PressDigit(ctx context.Context, digit byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.buffer.Append(digit); err != nil {
		s.metrics.IncrementDigitRejected()
		logger.DebugKV(ctx, "Digit ignored", "digit", string(digit), "zone", s.buffer.Zone().String())

		return err
	}

	s.lastError = ""
	s.listener.DisplayChanged(s.buffer.Display())

	return nil
}

// PressClearInput empties the buffer and the last validation message.
func (s *Session) PressClearInput(_ context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.buffer.Reset()
	s.lastError = ""
	s.listener.DisplayChanged(s.buffer.Display())
}

// PressCommit stores the decoded input as the pending alarm.
// A refusal is reported through ValidationError and returned as a *alarm.RejectionError.
func (s *Session) PressCommit(ctx context.Context) (*alarm.Pending, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.buffer.Decode()
	if err != nil {
		logger.WarnKV(ctx, "Keypad buffer failed to decode", "digits", s.buffer.Digits(), "error", err)

		t = alarm.Undecoded
	}

	pending, overwritten, err := s.registry.Commit(ctx, s.buffer.Zone(), t)
	if err != nil {
		var rejection *alarm.RejectionError
		if !errors.As(err, &rejection) {
			return nil, err
		}

		s.lastError = rejection.Reason
		s.listener.ValidationError(rejection.Reason)

		return nil, err
	}

	s.lastError = ""
	s.overwrote = overwritten
	s.listener.AlarmSet(pending.Zone, pending.At, overwritten)

	return pending, nil
}

// PressClearAlarm removes the pending alarm and silences it if it is sounding.
// Without a pending alarm it does nothing and signals nothing.
func (s *Session) PressClearAlarm(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.registry.Clear(ctx) {
		return false
	}

	s.overwrote = false
	s.listener.AlarmCleared()

	return true
}

// View returns a snapshot of the keypad state.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	return View{
		Zone:        s.buffer.Zone(),
		Digits:      s.buffer.Digits(),
		Display:     s.buffer.Display(),
		ValidDigits: string(s.buffer.ValidDigits()),
		Error:       s.lastError,
		Alarm:       s.registry.Current(),
		Overwrote:   s.overwrote,
	}
}

// nopListener discards every signal.
type nopListener struct{}

func (nopListener) DisplayChanged(string) {}
func (nopListener) ValidationError(string) {}
func (nopListener) AlarmSet(zone.Zone, alarm.Time, bool) {}
func (nopListener) AlarmCleared() {}
