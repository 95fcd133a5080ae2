package repository

import (
	"context"
	"time"

	"github.com/lexikon-app/lexikon/internal/entity"
)

// DueQuery selects cards whose next review date has passed.
type DueQuery struct {
	AsOf   time.Time
	Domain string // optional, exact domain match
	Group  string // optional, domain-group match
	Limit  int32  // 0 = no limit

	// HardestFirst orders by ease ascending before due date; the
	// default order is due date ascending, then ease ascending. Both
	// tie-breaks deliberately surface fragile items early.
	HardestFirst bool
}

// PoolQuery selects learned cards regardless of due status, in a
// deterministic order. Random sampling is the caller's concern: a
// Limit here truncates before any shuffle and biases the draw toward
// the oldest cards.
type PoolQuery struct {
	Domains []string // optional, any-of match
	Limit   int32    // 0 = no limit
}

// StrugglingQuery selects cards the learner keeps getting wrong:
// low ease, or a poor lifetime accuracy over enough attempts.
type StrugglingQuery struct {
	EaseBelow   float64
	MinReviews  int
	MaxAccuracy float64
	Domain      string // optional
	Limit       int32  // 0 = no limit
}

// CardUpdate carries one scheduling transition to persistence. Applying
// it bumps total_reviews, conditionally bumps correct_reviews, and
// stamps the review date.
type CardUpdate struct {
	CardID       int64
	EaseFactor   float64
	IntervalDays int
	Repetitions  int
	NextReviewAt time.Time
	WasCorrect   bool
}

// ReviewCardRepository abstracts persistence for review cards so the
// scheduling usecases stay storage agnostic.
type ReviewCardRepository interface {
	// Create registers a card for an item, idempotently: a second call
	// for the same item returns the existing card's id.
	Create(ctx context.Context, itemID int64) (int64, error)

	// CreateBatch registers cards for many items atomically.
	CreateBatch(ctx context.Context, itemIDs []int64) error

	GetByID(ctx context.Context, id int64) (*entity.ReviewCard, error)

	// Update persists one transition. A missing card id is a no-op,
	// never an error: content deletion may race with a session.
	Update(ctx context.Context, update *CardUpdate) error

	// UpdateBatch persists many transitions in a single transaction;
	// any failure rolls the whole batch back.
	UpdateBatch(ctx context.Context, updates []CardUpdate) error

	ListDue(ctx context.Context, query *DueQuery) ([]entity.SessionCandidate, error)
	ListRecent(ctx context.Context, domain string, limit int32) ([]entity.SessionCandidate, error)
	ListPool(ctx context.Context, query *PoolQuery) ([]entity.SessionCandidate, error)
	ListStruggling(ctx context.Context, query *StrugglingQuery) ([]entity.SessionCandidate, error)

	// ListWeakest orders reviewed cards by ease ascending, skipping
	// cards with fewer than minReviews reviews as not yet judged.
	ListWeakest(ctx context.Context, domain string, minReviews int, limit int32) ([]entity.SessionCandidate, error)

	CountDueByDomain(ctx context.Context, asOf time.Time) (map[string]int, error)
	CountDueOn(ctx context.Context, day time.Time) (int, error)
}
