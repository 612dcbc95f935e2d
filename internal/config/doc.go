// Package config defines the settings used by the alarm binaries and provides
// helpers to load, validate and save them in YAML format.
//
// Values from the file can be overridden by ZONE_ALARM_* environment variables,
// optionally read from a .env file.
package config
