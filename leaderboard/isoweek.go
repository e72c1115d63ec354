package leaderboard

import (
	"fmt"
	"regexp"
	"time"
)

var weekPattern = regexp.MustCompile(`^\d{4}-W\d{2}$`)

// ISOWeek returns the UTC ISO-8601 week key, e.g. "2026-W09".
func ISOWeek(t time.Time) string {
	year, week := t.UTC().ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// NormalizeWeek returns the requested week if it is well formed, otherwise
// the week containing now.
func NormalizeWeek(requested string, now time.Time) string {
	if weekPattern.MatchString(requested) {
		return requested
	}
	return ISOWeek(now)
}
