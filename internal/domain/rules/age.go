package rules

import "time"

// AgeAt returns full years elapsed between birth and now, compared as calendar dates in UTC.
func AgeAt(birth, now time.Time) int {
	if birth.IsZero() {
		return 0
	}
	b := birth.UTC()
	n := now.UTC()
	age := n.Year() - b.Year()
	if n.Month() < b.Month() || (n.Month() == b.Month() && n.Day() < b.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}

func AgeWithin(birth, now time.Time, minAge, maxAge int) bool {
	age := AgeAt(birth, now)
	return age >= minAge && age <= maxAge
}
