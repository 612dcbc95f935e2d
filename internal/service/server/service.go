package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/oshokin/zone-alarm/internal/metrics"
	"github.com/oshokin/zone-alarm/internal/service/clock"
	"github.com/oshokin/zone-alarm/internal/service/events"
	"github.com/oshokin/zone-alarm/internal/service/registry"
	"github.com/oshokin/zone-alarm/internal/service/session"
)

// service bundles the alarm components served by one process: a single
// keypad session, the registry it commits into, the clock that fires the
// alarm and the hub that broadcasts their signals.
type service struct {
	metrics  *metrics.Metrics
	registry *registry.Registry
	hub      *events.Hub
	session  *session.Session
	clock    *clock.Clock
}

// newService wires the components. Metrics are registered with reg.
func newService(reg prometheus.Registerer, location *time.Location) *service {
	m := metrics.New(reg)
	hub := events.NewHub(events.DefaultBufferSize)
	alarms := registry.New(registry.WithMetrics(m))

	return &service{
		metrics:  m,
		registry: alarms,
		hub:      hub,
		session:  session.New(alarms, hub, session.WithMetrics(m)),
		clock:    clock.New(alarms, hub, clock.WithMetrics(m), clock.WithLocation(location)),
	}
}
