package usecase

import (
	"context"
	"time"

	"github.com/lexikon-app/lexikon/internal/entity"
	"github.com/lexikon-app/lexikon/internal/repository"
	"github.com/lexikon-app/lexikon/internal/srs"
)

// ReviewOutcome reports the state a card was left in after one graded
// attempt.
type ReviewOutcome struct {
	CardID       int64
	Quality      int
	Correct      bool
	EaseFactor   float64
	IntervalDays int
	Repetitions  int
	NextReviewAt time.Time
	Mastered     bool
}

// GradedResult pairs a card with its quality grade for batch recording.
type GradedResult struct {
	CardID  int64
	Quality int
}

// ReviewUsecase encapsulates the review scheduling flow: committing
// items to active learning and feeding graded outcomes through the
// SM-2 transition into the store.
type ReviewUsecase interface {
	// StartLearning creates the review card for an item, idempotently.
	StartLearning(ctx context.Context, itemID int64) (int64, error)

	// StartLearningBatch commits many items at once, atomically.
	StartLearningBatch(ctx context.Context, itemIDs []int64) error

	// RecordReview applies one graded outcome to a card. A card that no
	// longer exists yields a nil outcome and no error: scheduling
	// degrades gracefully when content is deleted mid-session.
	RecordReview(ctx context.Context, cardID int64, quality int) (*ReviewOutcome, error)

	// RecordReviewBatch applies many graded outcomes in one atomic
	// store update. Cards that vanished are skipped.
	RecordReviewBatch(ctx context.Context, results []GradedResult) ([]ReviewOutcome, error)

	// Due lists cards due for review as of today.
	Due(ctx context.Context, domain, group string, limit int32) ([]entity.SessionCandidate, error)
}

// NewReviewUsecase wires the repository with default behaviour.
func NewReviewUsecase(repo repository.ReviewCardRepository) ReviewUsecase {
	return &reviewUsecase{
		repo:  repo,
		clock: time.Now,
	}
}

type reviewUsecase struct {
	repo  repository.ReviewCardRepository
	clock func() time.Time
}

func (u *reviewUsecase) StartLearning(ctx context.Context, itemID int64) (int64, error) {
	if itemID <= 0 {
		return 0, entity.ErrInvalidItemRef
	}
	return u.repo.Create(ctx, itemID)
}

func (u *reviewUsecase) StartLearningBatch(ctx context.Context, itemIDs []int64) error {
	if len(itemIDs) == 0 {
		return entity.ErrEmptyBatch
	}
	for _, id := range itemIDs {
		if id <= 0 {
			return entity.ErrInvalidItemRef
		}
	}
	return u.repo.CreateBatch(ctx, itemIDs)
}

func (u *reviewUsecase) RecordReview(ctx context.Context, cardID int64, quality int) (*ReviewOutcome, error) {
	card, err := u.repo.GetByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, nil
	}

	outcome := u.transition(card, quality)
	update := toCardUpdate(outcome)
	if err := u.repo.Update(ctx, &update); err != nil {
		return nil, err
	}
	return &outcome, nil
}

func (u *reviewUsecase) RecordReviewBatch(ctx context.Context, results []GradedResult) ([]ReviewOutcome, error) {
	if len(results) == 0 {
		return nil, entity.ErrEmptyBatch
	}

	outcomes := make([]ReviewOutcome, 0, len(results))
	updates := make([]repository.CardUpdate, 0, len(results))
	for _, res := range results {
		card, err := u.repo.GetByID(ctx, res.CardID)
		if err != nil {
			return nil, err
		}
		if card == nil {
			continue
		}
		outcome := u.transition(card, res.Quality)
		outcomes = append(outcomes, outcome)
		updates = append(updates, toCardUpdate(outcome))
	}
	if len(updates) == 0 {
		return nil, nil
	}

	if err := u.repo.UpdateBatch(ctx, updates); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func (u *reviewUsecase) Due(ctx context.Context, domain, group string, limit int32) ([]entity.SessionCandidate, error) {
	return u.repo.ListDue(ctx, &repository.DueQuery{
		AsOf:   entity.DateOnly(u.clock()),
		Domain: domain,
		Group:  group,
		Limit:  limit,
	})
}

func (u *reviewUsecase) transition(card *entity.ReviewCard, quality int) ReviewOutcome {
	quality = srs.ClampQuality(quality)
	next := srs.Transition(srs.State{
		Repetitions:  card.Repetitions,
		EaseFactor:   card.EaseFactor,
		IntervalDays: card.IntervalDays,
	}, quality)

	after := *card
	after.EaseFactor = next.EaseFactor
	after.IntervalDays = next.IntervalDays
	after.Repetitions = next.Repetitions

	today := entity.DateOnly(u.clock())
	return ReviewOutcome{
		CardID:       card.ID,
		Quality:      quality,
		Correct:      srs.Correct(quality),
		EaseFactor:   next.EaseFactor,
		IntervalDays: next.IntervalDays,
		Repetitions:  next.Repetitions,
		NextReviewAt: today.AddDate(0, 0, next.IntervalDays),
		Mastered:     after.Mastered(),
	}
}

func toCardUpdate(o ReviewOutcome) repository.CardUpdate {
	return repository.CardUpdate{
		CardID:       o.CardID,
		EaseFactor:   o.EaseFactor,
		IntervalDays: o.IntervalDays,
		Repetitions:  o.Repetitions,
		NextReviewAt: o.NextReviewAt,
		WasCorrect:   o.Correct,
	}
}
