// Package buildinfo carries version data stamped at link time:
//
//	go build -ldflags "-X 'github.com/m3rciful/journalbot/core/buildinfo.Version=v1.2.3' \
//	  -X 'github.com/m3rciful/journalbot/core/buildinfo.Commit=abcdef0' \
//	  -X 'github.com/m3rciful/journalbot/core/buildinfo.Date=2025-08-30T12:00:00Z'"
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "local"
	// Date is RFC3339; empty for local builds.
	Date = ""
)

// Summary formats the build data on one line.
func Summary() string {
	date := Date
	if date == "" {
		date = "unknown"
	}
	return fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, date)
}
