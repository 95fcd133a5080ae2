package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/lexikon-app/lexikon/internal/entity"
	"github.com/lexikon-app/lexikon/internal/infrastructure/config"
	"github.com/lexikon-app/lexikon/internal/repository"
)

// DifficultyUsecase adapts per-exercise difficulty from streaks of
// correct and wrong answers, and derives exercise parameters
// (distractor counts, time pressure) from the current level.
type DifficultyUsecase interface {
	// Difficulty returns the current level for a (domain, activity)
	// pair. An unknown pair reports the default level without creating
	// a profile.
	Difficulty(ctx context.Context, domain, activity string) (float64, error)

	// RecordAttempt feeds one answer into the adaptive loop and returns
	// the resulting level along with whether it moved.
	RecordAttempt(ctx context.Context, domain, activity string, correct bool) (entity.DifficultyAdjustment, error)

	// Profiles lists stored profiles, optionally restricted to a domain.
	Profiles(ctx context.Context, domain string) ([]entity.DifficultyProfile, error)

	// DistractorCount maps a difficulty level to the number of answer
	// choices an exercise should present.
	DistractorCount(difficulty float64) int

	// TimePressure scales a base time budget down as difficulty rises,
	// never below the configured floor.
	TimePressure(baseMS int, difficulty float64) int
}

// NewDifficultyUsecase wires the repository with the configured
// adaptation thresholds.
func NewDifficultyUsecase(repo repository.DifficultyProfileRepository, cfg *config.Config) DifficultyUsecase {
	return &difficultyUsecase{
		repo:  repo,
		cfg:   cfg.Difficulty,
		clock: time.Now,
	}
}

type difficultyUsecase struct {
	repo  repository.DifficultyProfileRepository
	cfg   config.DifficultyConfig
	clock func() time.Time
}

func (u *difficultyUsecase) Difficulty(ctx context.Context, domain, activity string) (float64, error) {
	profile, err := u.repo.Get(ctx, domain, activity)
	if errors.Is(err, entity.ErrProfileNotFound) {
		return entity.DefaultDifficulty, nil
	}
	if err != nil {
		return 0, err
	}
	return profile.Difficulty, nil
}

func (u *difficultyUsecase) RecordAttempt(ctx context.Context, domain, activity string, correct bool) (entity.DifficultyAdjustment, error) {
	profile, err := u.repo.GetOrCreate(ctx, domain, activity)
	if err != nil {
		return entity.DifficultyAdjustment{}, err
	}

	if correct {
		profile.ConsecutiveCorrect++
		profile.ConsecutiveWrong = 0
	} else {
		profile.ConsecutiveWrong++
		profile.ConsecutiveCorrect = 0
	}
	profile.TotalAttempts++

	adj := entity.DifficultyAdjustment{Direction: entity.AdjustNone}
	switch {
	case profile.ConsecutiveCorrect >= u.cfg.CorrectStreak:
		next := entity.ClampDifficulty(profile.Difficulty + u.cfg.IncreaseStep)
		if next != profile.Difficulty {
			adj.Changed = true
			adj.Direction = entity.AdjustUp
		}
		profile.Difficulty = next
		profile.ConsecutiveCorrect = 0
	case profile.ConsecutiveWrong >= u.cfg.WrongStreak:
		next := entity.ClampDifficulty(profile.Difficulty - u.cfg.DecreaseStep)
		if next != profile.Difficulty {
			adj.Changed = true
			adj.Direction = entity.AdjustDown
		}
		profile.Difficulty = next
		profile.ConsecutiveWrong = 0
	}

	profile.Normalize(u.clock())
	if err := u.repo.Update(ctx, profile); err != nil {
		return entity.DifficultyAdjustment{}, err
	}

	adj.Difficulty = profile.Difficulty
	return adj, nil
}

func (u *difficultyUsecase) Profiles(ctx context.Context, domain string) ([]entity.DifficultyProfile, error) {
	return u.repo.List(ctx, domain)
}

func (u *difficultyUsecase) DistractorCount(difficulty float64) int {
	switch {
	case difficulty < 1.5:
		return 3
	case difficulty < 3.0:
		return 4
	default:
		return 5
	}
}

func (u *difficultyUsecase) TimePressure(baseMS int, difficulty float64) int {
	scale := 1.0 - (difficulty-1.0)*0.15
	if scale < 0.4 {
		scale = 0.4
	}
	ms := int(float64(baseMS) * scale)
	if ms < u.cfg.TimePressureFloorMS {
		return u.cfg.TimePressureFloorMS
	}
	return ms
}
