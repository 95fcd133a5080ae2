package entity

import "time"

// PracticeEntry is one append-only practice log record. A calendar date
// may have any number of entries; streak computation only looks at
// distinct dates.
type PracticeEntry struct {
	ID              int64
	Date            time.Time
	SessionType     string
	DurationMinutes int
	ItemsLearned    int
	ItemsReviewed   int
}

// Normalize ensures defaults before persistence.
func (e *PracticeEntry) Normalize(now time.Time) {
	if e.Date.IsZero() {
		e.Date = now
	}
	e.Date = DateOnly(e.Date)
}

// DateOnly truncates a timestamp to its calendar date in local time.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
