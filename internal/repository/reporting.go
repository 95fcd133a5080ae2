package repository

import (
	"context"
	"time"

	"github.com/lexikon-app/lexikon/internal/entity"
)

// ReviewReportingRepository exposes the read-only aggregations stats and
// forecasting are built on. Implementations usually share a store with
// ReviewCardRepository.
type ReviewReportingRepository interface {
	// Stats aggregates lifetime counters across all cards.
	Stats(ctx context.Context) (*entity.ReviewStats, error)

	// CountReviewedOn returns how many cards were last reviewed on the
	// given day and how many of those have any correct answer.
	CountReviewedOn(ctx context.Context, day time.Time) (total, correct int, err error)

	// AccuracyByInterval groups lifetime accuracy by current interval
	// length (the forgetting curve buckets).
	AccuracyByInterval(ctx context.Context) ([]entity.IntervalAccuracy, error)

	// RetentionByDomain sums review counters per domain.
	RetentionByDomain(ctx context.Context) ([]entity.DomainRetention, error)

	// CountByDomain counts learned cards (cards that exist) per domain.
	CountByDomain(ctx context.Context) (map[string]int, error)

	// Count returns the total number of cards.
	Count(ctx context.Context) (int64, error)
}
