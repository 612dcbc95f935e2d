// Package metrics defines the Prometheus counters exported by the alarm server.
package metrics
