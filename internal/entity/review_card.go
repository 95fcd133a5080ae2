package entity

import "time"

// Scheduling defaults for newly created review cards.
const (
	InitialEaseFactor = 2.5
	MinEaseFactor     = 1.3
)

// Mastery thresholds: a card counts as mastered once it has survived
// this many consecutive successful reviews at a month-scale interval.
const (
	MasteredMinRepetitions = 5
	MasteredMinInterval    = 30
)

// ReviewCard holds the spaced-repetition state for one learned item.
// The item reference is opaque to the scheduler; descriptive attributes
// (domain, category, tier) live with the content collaborator and are
// only joined in when composing sessions.
type ReviewCard struct {
	ID             int64
	ItemID         int64
	EaseFactor     float64
	IntervalDays   int
	Repetitions    int
	NextReviewAt   time.Time
	LastReviewAt   *time.Time
	TotalReviews   int
	CorrectReviews int
	CreatedAt      time.Time
}

// Due reports whether the card is due for review on the given day.
func (c *ReviewCard) Due(asOf time.Time) bool {
	return !c.NextReviewAt.After(asOf)
}

// Accuracy returns the lifetime correct ratio, zero when the card has
// never been reviewed.
func (c *ReviewCard) Accuracy() float64 {
	if c.TotalReviews == 0 {
		return 0
	}
	return float64(c.CorrectReviews) / float64(c.TotalReviews)
}

// Mastered reports whether the card has reached long-term retention.
func (c *ReviewCard) Mastered() bool {
	return c.Repetitions >= MasteredMinRepetitions && c.IntervalDays >= MasteredMinInterval
}

// Normalize ensures defaults before persistence.
func (c *ReviewCard) Normalize(now time.Time) {
	if c.EaseFactor == 0 {
		c.EaseFactor = InitialEaseFactor
	}
	if c.EaseFactor < MinEaseFactor {
		c.EaseFactor = MinEaseFactor
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	if c.NextReviewAt.IsZero() {
		c.NextReviewAt = now
	}
}

// SessionCandidate combines a review card with the denormalized content
// attributes session composition needs. It is never persisted.
type SessionCandidate struct {
	Card     ReviewCard
	Domain   string
	Group    string
	Category string
	Tier     Tier
}

// ReviewStats aggregates lifetime review counters across all cards.
type ReviewStats struct {
	Cards          int64
	AverageEase    float64
	TotalReviews   int64
	CorrectReviews int64
}

// Retention returns the overall correct ratio, zero when nothing has
// been reviewed yet.
func (s *ReviewStats) Retention() float64 {
	if s.TotalReviews == 0 {
		return 0
	}
	return float64(s.CorrectReviews) / float64(s.TotalReviews)
}

// ForecastDay is one day of the upcoming review load.
type ForecastDay struct {
	Date time.Time
	Due  int
}

// RetentionPoint is one day on the retention curve: how many cards were
// reviewed that day and how many of them have been answered correctly.
type RetentionPoint struct {
	Date    time.Time
	Total   int
	Correct int
}

// Rate returns the day's retention percentage in [0, 100].
func (p *RetentionPoint) Rate() int {
	if p.Total == 0 {
		return 0
	}
	return int(float64(p.Correct)/float64(p.Total)*100 + 0.5)
}

// IntervalAccuracy is one bucket of the forgetting curve: average
// lifetime accuracy of all cards currently at the given interval.
type IntervalAccuracy struct {
	IntervalDays int
	Cards        int
	Accuracy     float64
}

// DomainRetention is a per-domain retention aggregate.
type DomainRetention struct {
	Domain         string
	TotalReviews   int64
	CorrectReviews int64
}

// Rate returns the domain's correct ratio, zero when unreviewed.
func (r *DomainRetention) Rate() float64 {
	if r.TotalReviews == 0 {
		return 0
	}
	return float64(r.CorrectReviews) / float64(r.TotalReviews)
}
