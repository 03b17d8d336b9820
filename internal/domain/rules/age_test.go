package rules

import (
	"testing"
	"time"
)

func TestAgeAtBirthdayBoundaries(t *testing.T) {
	now := time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)
	cases := []struct {
		name  string
		birth time.Time
		want  int
	}{
		{name: "birthday_today", birth: time.Date(2000, time.March, 15, 0, 0, 0, 0, time.UTC), want: 26},
		{name: "birthday_tomorrow", birth: time.Date(2000, time.March, 16, 0, 0, 0, 0, time.UTC), want: 25},
		{name: "birthday_yesterday", birth: time.Date(2000, time.March, 14, 0, 0, 0, 0, time.UTC), want: 26},
		{name: "later_month", birth: time.Date(2000, time.December, 1, 0, 0, 0, 0, time.UTC), want: 25},
		{name: "future_birth", birth: time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC), want: 0},
		{name: "zero", birth: time.Time{}, want: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := AgeAt(tc.birth, now); got != tc.want {
				t.Fatalf("unexpected age: got %d want %d", got, tc.want)
			}
		})
	}
}

func TestAgeWithinInclusiveBounds(t *testing.T) {
	now := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)

	if !AgeWithin(time.Date(2008, time.June, 1, 0, 0, 0, 0, time.UTC), now, 18, 100) {
		t.Fatalf("exactly 18 must be within 18-100")
	}
	if AgeWithin(time.Date(2008, time.June, 2, 0, 0, 0, 0, time.UTC), now, 18, 100) {
		t.Fatalf("one day short of 18 must be rejected")
	}
	if AgeWithin(time.Date(1925, time.May, 31, 0, 0, 0, 0, time.UTC), now, 18, 100) {
		t.Fatalf("101 must be rejected")
	}
}
