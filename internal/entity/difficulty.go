package entity

import "time"

// Difficulty scale bounds for adaptive exercise difficulty.
const (
	MinDifficulty     = 0.5
	MaxDifficulty     = 5.0
	DefaultDifficulty = 1.0
)

// DifficultyProfile tracks adaptive difficulty for one (domain, activity)
// pair. The streak counters are mutually exclusive: recording an attempt
// always zeroes the opposing counter.
type DifficultyProfile struct {
	ID                 int64
	Domain             string
	Activity           string
	Difficulty         float64
	ConsecutiveCorrect int
	ConsecutiveWrong   int
	TotalAttempts      int
	LastUpdated        time.Time
}

// Normalize ensures defaults & bounds before persistence.
func (p *DifficultyProfile) Normalize(now time.Time) {
	if p.Difficulty == 0 {
		p.Difficulty = DefaultDifficulty
	}
	p.Difficulty = ClampDifficulty(p.Difficulty)
	p.LastUpdated = now
}

// ClampDifficulty bounds a difficulty value to the legal scale.
func ClampDifficulty(d float64) float64 {
	if d < MinDifficulty {
		return MinDifficulty
	}
	if d > MaxDifficulty {
		return MaxDifficulty
	}
	return d
}

// AdjustDirection describes which way an attempt moved the difficulty.
type AdjustDirection string

const (
	AdjustNone AdjustDirection = ""
	AdjustUp   AdjustDirection = "up"
	AdjustDown AdjustDirection = "down"
)

// DifficultyAdjustment is the outcome of recording one attempt.
type DifficultyAdjustment struct {
	Difficulty float64
	Changed    bool
	Direction  AdjustDirection
}
