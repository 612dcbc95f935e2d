package keypad

import (
	"fmt"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/zone-alarm/internal/domain/alarm"
	"github.com/oshokin/zone-alarm/internal/service/events"
	"github.com/oshokin/zone-alarm/internal/service/session"
)

// AlarmView is the wire form of a pending alarm.
type AlarmView struct {
	ID        string
	Zone      string
	Hour      int
	Minute    int
	Label     string
	Armed     bool
	Triggered bool
	SetAt     time.Time
}

// View is the wire form of a keypad snapshot.
type View struct {
	Zone        string
	Digits      string
	Display     string
	ValidDigits string
	Error       string
	Overwrote   bool
	// Accepted is set by PressDigit: false means the key was ignored.
	Accepted bool
	Alarm    *AlarmView
}

// Event is the wire form of an output signal.
type Event struct {
	Kind      string
	At        time.Time
	Display   string
	Message   string
	Zone      string
	Hour      int
	Minute    int
	Overwrite bool
}

// viewToProto encodes a session snapshot.
func viewToProto(v session.View, accepted bool) (*structpb.Struct, error) {
	fields := map[string]any{
		"zone":         v.Zone.String(),
		"digits":       v.Digits,
		"display":      v.Display,
		"valid_digits": v.ValidDigits,
		"error":        v.Error,
		"overwrote":    v.Overwrote,
		"accepted":     accepted,
		"alarm":        nil,
	}

	if v.Alarm != nil {
		fields["alarm"] = alarmToMap(v.Alarm)
	}

	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("encode view: %w", err)
	}

	return s, nil
}

// alarmToMap encodes a pending alarm as structpb-compatible values.
func alarmToMap(p *alarm.Pending) map[string]any {
	return map[string]any{
		"id":        p.ID.String(),
		"zone":      p.Zone.String(),
		"hour":      p.At.Hour,
		"minute":    p.At.Minute,
		"label":     p.Label(),
		"armed":     p.Armed,
		"triggered": p.Triggered,
		"set_at":    p.SetAt.UTC().Format(time.RFC3339),
	}
}

// eventToProto encodes an output signal.
func eventToProto(e events.Event) (*structpb.Struct, error) {
	fields := map[string]any{
		"kind": string(e.Kind),
		"at":   e.At.UTC().Format(time.RFC3339Nano),
	}

	switch e.Kind {
	case events.KindDisplayChanged:
		fields["display"] = e.Display
	case events.KindValidationError:
		fields["message"] = e.Message
	case events.KindAlarmSet:
		fields["zone"] = e.Zone.String()
		fields["hour"] = e.Time.Hour
		fields["minute"] = e.Time.Minute
		fields["overwrite"] = e.Overwrite
	case events.KindAlarmFired:
		fields["zone"] = e.Zone.String()
		fields["hour"] = e.Time.Hour
		fields["minute"] = e.Time.Minute
	case events.KindAlarmCleared:
	}

	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("encode event: %w", err)
	}

	return s, nil
}

// DecodeView reads a view produced by the server.
func DecodeView(s *structpb.Struct) *View {
	f := s.GetFields()

	v := &View{
		Zone:        f["zone"].GetStringValue(),
		Digits:      f["digits"].GetStringValue(),
		Display:     f["display"].GetStringValue(),
		ValidDigits: f["valid_digits"].GetStringValue(),
		Error:       f["error"].GetStringValue(),
		Overwrote:   f["overwrote"].GetBoolValue(),
		Accepted:    f["accepted"].GetBoolValue(),
	}

	if a := f["alarm"].GetStructValue(); a != nil {
		af := a.GetFields()
		setAt, _ := time.Parse(time.RFC3339, af["set_at"].GetStringValue())

		v.Alarm = &AlarmView{
			ID:        af["id"].GetStringValue(),
			Zone:      af["zone"].GetStringValue(),
			Hour:      int(af["hour"].GetNumberValue()),
			Minute:    int(af["minute"].GetNumberValue()),
			Label:     af["label"].GetStringValue(),
			Armed:     af["armed"].GetBoolValue(),
			Triggered: af["triggered"].GetBoolValue(),
			SetAt:     setAt,
		}
	}

	return v
}

// DecodeEvent reads an event produced by the server.
func DecodeEvent(s *structpb.Struct) *Event {
	f := s.GetFields()
	at, _ := time.Parse(time.RFC3339Nano, f["at"].GetStringValue())

	return &Event{
		Kind:      f["kind"].GetStringValue(),
		At:        at,
		Display:   f["display"].GetStringValue(),
		Message:   f["message"].GetStringValue(),
		Zone:      f["zone"].GetStringValue(),
		Hour:      int(f["hour"].GetNumberValue()),
		Minute:    int(f["minute"].GetNumberValue()),
		Overwrite: f["overwrite"].GetBoolValue(),
	}
}
