package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the keypad and alarm lifecycle.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	DigitsRejected prometheus.Counter
	AlarmsSet      *prometheus.CounterVec
	CommitsFailed  *prometheus.CounterVec
	AlarmsFired    prometheus.Counter
	AlarmsMissed   prometheus.Counter
	AlarmsCleared  prometheus.Counter
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		DigitsRejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "zone_alarm_digits_rejected_total",
			Help: "Total number of keypad digits refused by the zone validity table",
		}),
		AlarmsSet: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "zone_alarm_alarms_set_total",
			Help: "Total number of committed alarms by zone and whether they replaced a pending one",
		}, []string{"zone", "overwrite"}),
		CommitsFailed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "zone_alarm_commits_rejected_total",
			Help: "Total number of rejected commits by reason",
		}, []string{"reason"}),
		AlarmsFired: factory.NewCounter(prometheus.CounterOpts{
			Name: "zone_alarm_alarms_fired_total",
			Help: "Total number of alarms that fired",
		}),
		AlarmsMissed: factory.NewCounter(prometheus.CounterOpts{
			Name: "zone_alarm_alarms_missed_total",
			Help: "Total number of alarms whose firing second passed without a tick",
		}),
		AlarmsCleared: factory.NewCounter(prometheus.CounterOpts{
			Name: "zone_alarm_alarms_cleared_total",
			Help: "Total number of pending alarms cleared",
		}),
	}
}

// IncrementDigitRejected records a refused keypad digit.
func (m *Metrics) IncrementDigitRejected() {
	if m == nil {
		return
	}

	m.DigitsRejected.Inc()
}

// IncrementAlarmSet records a successful commit.
func (m *Metrics) IncrementAlarmSet(zone string, overwrite bool) {
	if m == nil {
		return
	}

	label := "false"
	if overwrite {
		label = "true"
	}

	m.AlarmsSet.WithLabelValues(zone, label).Inc()
}

// IncrementCommitRejected records a refused commit.
func (m *Metrics) IncrementCommitRejected(reason string) {
	if m == nil {
		return
	}

	m.CommitsFailed.WithLabelValues(reason).Inc()
}

// IncrementAlarmFired records a fired alarm.
func (m *Metrics) IncrementAlarmFired() {
	if m == nil {
		return
	}

	m.AlarmsFired.Inc()
}

// IncrementAlarmMissed records an alarm that passed its firing second.
func (m *Metrics) IncrementAlarmMissed() {
	if m == nil {
		return
	}

	m.AlarmsMissed.Inc()
}

// IncrementAlarmCleared records a cleared alarm.
func (m *Metrics) IncrementAlarmCleared() {
	if m == nil {
		return
	}

	m.AlarmsCleared.Inc()
}
