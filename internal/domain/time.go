package domain

import "time"

// Millis truncates t to the millisecond precision the document store keeps.
func Millis(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC().Truncate(time.Millisecond)
}

// NextUpdatedAt returns a timestamp strictly after prev, preferring now.
func NextUpdatedAt(prev, now time.Time) time.Time {
	now = Millis(now)
	floor := Millis(prev).Add(time.Millisecond)
	if now.Before(floor) {
		return floor
	}
	return now
}
