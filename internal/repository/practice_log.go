package repository

import (
	"context"
	"time"

	"github.com/lexikon-app/lexikon/internal/entity"
)

// PracticeLogRepository abstracts the append-only practice log.
type PracticeLogRepository interface {
	Log(ctx context.Context, entry *entity.PracticeEntry) error

	// DistinctDates returns every calendar date with at least one
	// entry, most recent first.
	DistinctDates(ctx context.Context) ([]time.Time, error)

	ListOn(ctx context.Context, day time.Time) ([]entity.PracticeEntry, error)

	// MinutesOn sums the recorded practice minutes for a day.
	MinutesOn(ctx context.Context, day time.Time) (int, error)
}
