package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/lexikon-app/lexikon/internal/entity"
	"github.com/lexikon-app/lexikon/internal/repository"
)

// StatsUsecase exposes progress reporting: practice streaks, review
// load forecasting, and retention analytics.
type StatsUsecase interface {
	// Streak returns the current run of consecutive practice days. A
	// learner who practiced yesterday but not yet today keeps their
	// streak; a longer gap resets it to zero.
	Streak(ctx context.Context) (int, error)

	// LogPractice appends one practice session to the log.
	LogPractice(ctx context.Context, entry *entity.PracticeEntry) error

	// MinutesToday sums the practice minutes recorded today.
	MinutesToday(ctx context.Context) (int, error)

	// DueForecast projects the review load for the coming days. The
	// first day includes the whole overdue backlog.
	DueForecast(ctx context.Context, days int) ([]entity.ForecastDay, error)

	// DueByDomain counts currently due cards per domain.
	DueByDomain(ctx context.Context) (map[string]int, error)

	// ReviewStats aggregates lifetime counters across all cards.
	ReviewStats(ctx context.Context) (*entity.ReviewStats, error)

	// RetentionCurve reports per-day retention over the last N days.
	RetentionCurve(ctx context.Context, days int) ([]entity.RetentionPoint, error)

	// ForgettingCurve reports lifetime accuracy bucketed by current
	// review interval.
	ForgettingCurve(ctx context.Context) ([]entity.IntervalAccuracy, error)

	// WeakAreas lists domains by retention, weakest first, skipping
	// domains with too few reviews to judge.
	WeakAreas(ctx context.Context, minReviews int) ([]entity.DomainRetention, error)

	// WeakestDomain names the domain with the lowest retention, or an
	// empty string when no domain qualifies.
	WeakestDomain(ctx context.Context, minReviews int) (string, error)

	// WeakCards lists the individual cards the learner finds hardest,
	// lowest ease first. Barely reviewed cards are skipped.
	WeakCards(ctx context.Context, domain string, limit int) ([]entity.SessionCandidate, error)

	// LearnedByDomain counts cards in active learning per domain.
	LearnedByDomain(ctx context.Context) (map[string]int, error)

	// TotalLearned counts all cards in active learning.
	TotalLearned(ctx context.Context) (int64, error)
}

// NewStatsUsecase wires the reporting repositories.
func NewStatsUsecase(cards repository.ReviewCardRepository, reporting repository.ReviewReportingRepository, practice repository.PracticeLogRepository) StatsUsecase {
	return &statsUsecase{
		cards:     cards,
		reporting: reporting,
		practice:  practice,
		clock:     time.Now,
	}
}

type statsUsecase struct {
	cards     repository.ReviewCardRepository
	reporting repository.ReviewReportingRepository
	practice  repository.PracticeLogRepository
	clock     func() time.Time
}

func (u *statsUsecase) Streak(ctx context.Context) (int, error) {
	dates, err := u.practice.DistinctDates(ctx)
	if err != nil {
		return 0, err
	}
	if len(dates) == 0 {
		return 0, nil
	}

	today := entity.DateOnly(u.clock())
	yesterday := today.AddDate(0, 0, -1)
	if dates[0].Before(yesterday) {
		return 0, nil
	}

	streak := 1
	expected := dates[0].AddDate(0, 0, -1)
	for _, d := range dates[1:] {
		if !d.Equal(expected) {
			break
		}
		streak++
		expected = expected.AddDate(0, 0, -1)
	}
	return streak, nil
}

func (u *statsUsecase) LogPractice(ctx context.Context, entry *entity.PracticeEntry) error {
	entry.Normalize(u.clock())
	return u.practice.Log(ctx, entry)
}

func (u *statsUsecase) MinutesToday(ctx context.Context) (int, error) {
	return u.practice.MinutesOn(ctx, entity.DateOnly(u.clock()))
}

func (u *statsUsecase) DueForecast(ctx context.Context, days int) ([]entity.ForecastDay, error) {
	if days <= 0 {
		return nil, nil
	}
	today := entity.DateOnly(u.clock())
	forecast := make([]entity.ForecastDay, 0, days)

	// The backlog collapses into the first day: overdue cards are all
	// due now, not on the date they were missed.
	byDomain, err := u.cards.CountDueByDomain(ctx, today)
	if err != nil {
		return nil, err
	}
	backlog := 0
	for _, n := range byDomain {
		backlog += n
	}
	forecast = append(forecast, entity.ForecastDay{Date: today, Due: backlog})

	for i := 1; i < days; i++ {
		day := today.AddDate(0, 0, i)
		due, err := u.cards.CountDueOn(ctx, day)
		if err != nil {
			return nil, err
		}
		forecast = append(forecast, entity.ForecastDay{Date: day, Due: due})
	}
	return forecast, nil
}

func (u *statsUsecase) DueByDomain(ctx context.Context) (map[string]int, error) {
	return u.cards.CountDueByDomain(ctx, entity.DateOnly(u.clock()))
}

func (u *statsUsecase) ReviewStats(ctx context.Context) (*entity.ReviewStats, error) {
	return u.reporting.Stats(ctx)
}

func (u *statsUsecase) RetentionCurve(ctx context.Context, days int) ([]entity.RetentionPoint, error) {
	if days <= 0 {
		return nil, nil
	}
	today := entity.DateOnly(u.clock())
	curve := make([]entity.RetentionPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		total, correct, err := u.reporting.CountReviewedOn(ctx, day)
		if err != nil {
			return nil, err
		}
		curve = append(curve, entity.RetentionPoint{Date: day, Total: total, Correct: correct})
	}
	return curve, nil
}

func (u *statsUsecase) ForgettingCurve(ctx context.Context) ([]entity.IntervalAccuracy, error) {
	return u.reporting.AccuracyByInterval(ctx)
}

func (u *statsUsecase) WeakAreas(ctx context.Context, minReviews int) ([]entity.DomainRetention, error) {
	domains, err := u.reporting.RetentionByDomain(ctx)
	if err != nil {
		return nil, err
	}
	weak := make([]entity.DomainRetention, 0, len(domains))
	for _, d := range domains {
		if d.TotalReviews >= int64(minReviews) {
			weak = append(weak, d)
		}
	}
	sort.SliceStable(weak, func(i, j int) bool {
		return weak[i].Rate() < weak[j].Rate()
	})
	return weak, nil
}

func (u *statsUsecase) WeakestDomain(ctx context.Context, minReviews int) (string, error) {
	weak, err := u.WeakAreas(ctx, minReviews)
	if err != nil {
		return "", err
	}
	if len(weak) == 0 {
		return "", nil
	}
	return weak[0].Domain, nil
}

// weakCardMinReviews is how many reviews a card needs before its ease
// says anything about the learner.
const weakCardMinReviews = 2

func (u *statsUsecase) WeakCards(ctx context.Context, domain string, limit int) ([]entity.SessionCandidate, error) {
	if limit < 0 {
		limit = 0
	}
	return u.cards.ListWeakest(ctx, domain, weakCardMinReviews, int32(limit))
}

func (u *statsUsecase) LearnedByDomain(ctx context.Context) (map[string]int, error) {
	return u.reporting.CountByDomain(ctx)
}

func (u *statsUsecase) TotalLearned(ctx context.Context) (int64, error) {
	return u.reporting.Count(ctx)
}
