// Package version holds the build metadata of the zone-alarm binaries.
//
// Version, Commit and BuildTime are set through -ldflags at release time.
package version
