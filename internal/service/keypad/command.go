package keypad

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	api "github.com/oshokin/zone-alarm/internal/api/grpc/keypad"
	"github.com/oshokin/zone-alarm/internal/config"
	"github.com/oshokin/zone-alarm/internal/logger"
	"github.com/oshokin/zone-alarm/internal/service/common"
	"github.com/oshokin/zone-alarm/internal/service/events"
)

// Options configures the remote keypad.
type Options struct {
	// ConfigPath to YAML settings file, defaults to standard filename if empty.
	ConfigPath string
	// ServerAddress overrides server address from config when specified.
	ServerAddress string
	// Out receives the rendered keypad; defaults to stdout.
	Out io.Writer
}

var (
	// ErrCommitRejected is returned when the server refused the entered time.
	ErrCommitRejected = errors.New("alarm not set")
	// ErrKeyIgnored is returned when the zone does not allow a pressed key.
	ErrKeyIgnored = errors.New("key ignored")
)

// Keypad is a remote keypad bound to one alarm server.
type Keypad struct {
	client *common.Client
	out    io.Writer
}

// Open loads settings and connects to the alarm server.
func Open(ctx context.Context, opts *Options) (*Keypad, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	serverAddress := cfg.ServerAddress
	if opts.ServerAddress != "" {
		serverAddress = opts.ServerAddress
	}

	clientOptions := []common.Option{common.WithCallTimeout(cfg.Timeout)}

	// The actor only feeds server logs, so a detection failure is not fatal.
	if actor, err := common.DetectActor(); err == nil {
		clientOptions = append(clientOptions, common.WithActor(actor))
	} else {
		logger.DebugKV(ctx, "Unable to detect actor", "error", err)
	}

	client, err := common.Dial(ctx, serverAddress, clientOptions...)
	if err != nil {
		return nil, fmt.Errorf("dial server: %w", err)
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	return &Keypad{client: client, out: out}, nil
}

// Close releases the connection.
func (k *Keypad) Close() error {
	return k.client.Close()
}

// SelectZone selects a zone and resets the input.
func (k *Keypad) SelectZone(ctx context.Context, name string) error {
	view, err := k.client.SelectZone(ctx, name)
	if err != nil {
		return err
	}

	k.render(view)

	return nil
}

// Press presses each key of keys in order. It stops at the first ignored key.
func (k *Keypad) Press(ctx context.Context, keys string) error {
	var view *api.View

	for _, key := range keys {
		var err error

		view, err = k.client.PressDigit(ctx, string(key))
		if err != nil {
			return err
		}

		if !view.Accepted {
			k.render(view)

			return fmt.Errorf("%w: %q (next keys: %s)", ErrKeyIgnored, key, orDash(view.ValidDigits))
		}
	}

	if view != nil {
		k.render(view)
	}

	return nil
}

// ClearInput empties the input.
func (k *Keypad) ClearInput(ctx context.Context) error {
	view, err := k.client.ClearInput(ctx)
	if err != nil {
		return err
	}

	k.render(view)

	return nil
}

// Commit sets the entered time as the pending alarm.
func (k *Keypad) Commit(ctx context.Context) error {
	view, err := k.client.Commit(ctx)
	if err != nil {
		return err
	}

	if view.Error != "" {
		k.render(view)

		return fmt.Errorf("%w: %s", ErrCommitRejected, view.Error)
	}

	if view.Overwrote {
		k.printf("Previous alarm overwritten.\n")
	}

	k.render(view)

	return nil
}

// ClearAlarm stops and removes the pending alarm.
func (k *Keypad) ClearAlarm(ctx context.Context) error {
	view, err := k.client.ClearAlarm(ctx)
	if err != nil {
		return err
	}

	if !view.Accepted {
		k.printf("No alarm to clear.\n")
	}

	k.render(view)

	return nil
}

// Show prints the keypad state.
func (k *Keypad) Show(ctx context.Context) error {
	view, err := k.client.GetView(ctx)
	if err != nil {
		return err
	}

	k.render(view)

	return nil
}

// Set selects zone, types keys and commits in one go.
func (k *Keypad) Set(ctx context.Context, zoneName, keys string) error {
	if _, err := k.client.SelectZone(ctx, zoneName); err != nil {
		return err
	}

	for _, key := range keys {
		view, err := k.client.PressDigit(ctx, string(key))
		if err != nil {
			return err
		}

		if !view.Accepted {
			return fmt.Errorf("%w: %q (next keys: %s)", ErrKeyIgnored, key, orDash(view.ValidDigits))
		}
	}

	return k.Commit(ctx)
}

// Watch prints output signals until ctx is canceled.
func (k *Keypad) Watch(ctx context.Context, asJSON bool) error {
	err := k.client.Watch(ctx, func(msg *structpb.Struct) error {
		if asJSON {
			data, err := protojson.Marshal(msg)
			if err != nil {
				return fmt.Errorf("encode event: %w", err)
			}

			k.printf("%s\n", data)

			return nil
		}

		k.printf("%s\n", formatEvent(api.DecodeEvent(msg)))

		return nil
	})
	if err != nil && ctx.Err() != nil {
		return nil
	}

	return err
}

// render prints a keypad view.
func (k *Keypad) render(v *api.View) {
	k.printf("Zone:  %s\n", v.Zone)
	k.printf("Input: %s [%s] next keys: %s\n", orDash(v.Display), v.Digits, orDash(v.ValidDigits))

	if v.Error != "" {
		k.printf("Error: %s\n", v.Error)
	}

	if v.Alarm == nil {
		k.printf("Alarm: none\n")

		return
	}

	state := "armed"
	if v.Alarm.Triggered {
		state = "ringing"
	}

	k.printf("Alarm: %s (%s)\n", v.Alarm.Label, state)
}

// printf writes to the keypad output, ignoring write errors.
func (k *Keypad) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(k.out, format, args...)
}

// formatEvent renders an event as one line.
func formatEvent(e *api.Event) string {
	var b strings.Builder

	b.WriteString(e.At.Local().Format(time.TimeOnly))
	b.WriteString(" ")

	switch events.Kind(e.Kind) {
	case events.KindDisplayChanged:
		b.WriteString("Display: " + orDash(e.Display))
	case events.KindValidationError:
		b.WriteString("Error: " + e.Message)
	case events.KindAlarmSet:
		fmt.Fprintf(&b, "Alarm set: %s %02d:%02d", e.Zone, e.Hour, e.Minute)

		if e.Overwrite {
			b.WriteString(" (previous alarm overwritten)")
		}
	case events.KindAlarmFired:
		fmt.Fprintf(&b, "Alarm time! %s %02d:%02d", e.Zone, e.Hour, e.Minute)
	case events.KindAlarmCleared:
		b.WriteString("Alarm cleared")
	default:
		b.WriteString(e.Kind)
	}

	return b.String()
}

// orDash returns "-" for empty strings.
func orDash(s string) string {
	if s == "" {
		return "-"
	}

	return s
}
