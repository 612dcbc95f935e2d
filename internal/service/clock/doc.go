// Package clock runs the once-per-second check that fires the pending alarm.
//
// The check is a cron job on a seconds schedule owned by Clock, started by
// Start and cancelled by Stop.
package clock
