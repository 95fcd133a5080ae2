// Package srs implements the SuperMemo-2 spaced repetition transition.
// It is a pure function of the previous scheduling state; persistence
// and session policy live elsewhere.
package srs

import (
	"math"

	"github.com/lexikon-app/lexikon/internal/entity"
)

// Quality grades for a recall attempt.
const (
	QualityBlackout = 0 // complete blackout, no recall
	QualityWrong    = 1 // wrong, remembered on seeing the answer
	QualityFamiliar = 2 // wrong, but the answer felt familiar
	QualityHard     = 3 // correct with significant effort
	QualityGood     = 4 // correct after some hesitation
	QualityPerfect  = 5 // perfect recall

	// PassThreshold is the lowest quality that counts as a success.
	PassThreshold = 3
)

// State is the scheduling state of one card as seen by the algorithm.
type State struct {
	Repetitions  int
	EaseFactor   float64
	IntervalDays int
}

// ClampQuality bounds a grade to the legal 0..5 range. Out-of-range
// input comes from forgiving UI callers and is never an error.
func ClampQuality(quality int) int {
	if quality < 0 {
		return 0
	}
	if quality > 5 {
		return 5
	}
	return quality
}

// Correct reports whether a grade counts as a successful recall for
// retention counters.
func Correct(quality int) bool {
	return ClampQuality(quality) >= PassThreshold
}

// Transition applies one review outcome to the previous state and
// returns the next state. A success grows the interval on the
// 1, 6, round(interval*ease) ladder; a failure resets repetitions and
// schedules the card for tomorrow. The ease factor is updated on both
// branches and never drops below entity.MinEaseFactor.
func Transition(prev State, quality int) State {
	quality = ClampQuality(quality)

	next := prev
	if quality >= PassThreshold {
		switch prev.Repetitions {
		case 0:
			next.IntervalDays = 1
		case 1:
			next.IntervalDays = 6
		default:
			// math.Round ties away from zero, matching the reference
			// interval growth exactly.
			next.IntervalDays = int(math.Round(float64(prev.IntervalDays) * prev.EaseFactor))
		}
		next.Repetitions = prev.Repetitions + 1
	} else {
		next.Repetitions = 0
		next.IntervalDays = 1
	}

	q := float64(quality)
	ease := prev.EaseFactor + (0.1 - (5-q)*(0.08+(5-q)*0.02))
	next.EaseFactor = math.Max(entity.MinEaseFactor, ease)

	return next
}
