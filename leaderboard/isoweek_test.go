package leaderboard

import (
	"testing"
	"time"
)

func TestISOWeek(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"2026-01-01", "2026-W01"},
		{"2026-03-02", "2026-W10"},
		{"2024-12-30", "2025-W01"},
		{"2021-01-03", "2020-W53"},
		{"2027-01-01", "2026-W53"},
	}
	for _, tt := range tests {
		d, err := time.Parse(time.DateOnly, tt.date)
		if err != nil {
			t.Fatal(err)
		}
		if got := ISOWeek(d); got != tt.want {
			t.Errorf("ISOWeek(%s) = %s, want %s", tt.date, got, tt.want)
		}
	}
}

func TestISOWeekUsesUTC(t *testing.T) {
	// Monday 00:30 in UTC+2 is still Sunday in UTC
	loc := time.FixedZone("UTC+2", 2*60*60)
	d := time.Date(2026, 3, 9, 0, 30, 0, 0, loc)
	if got := ISOWeek(d); got != "2026-W10" {
		t.Errorf("ISOWeek = %s, want 2026-W10", got)
	}
}

func TestNormalizeWeek(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	tests := []struct{ in, want string }{
		{"2025-W52", "2025-W52"},
		{"", "2026-W10"},
		{"2025-w52", "2026-W10"},
		{"2025-W5", "2026-W10"},
		{"latest", "2026-W10"},
	}
	for _, tt := range tests {
		if got := NormalizeWeek(tt.in, now); got != tt.want {
			t.Errorf("NormalizeWeek(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
