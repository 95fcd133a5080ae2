package repository

import (
	"context"

	"github.com/lexikon-app/lexikon/internal/entity"
)

// DifficultyProfileRepository abstracts persistence for adaptive
// difficulty profiles. Profiles are created lazily and never deleted.
type DifficultyProfileRepository interface {
	// GetOrCreate returns the profile for a (domain, activity) pair,
	// creating it with defaults on first use.
	GetOrCreate(ctx context.Context, domain, activity string) (*entity.DifficultyProfile, error)

	// Get returns the profile or entity.ErrProfileNotFound.
	Get(ctx context.Context, domain, activity string) (*entity.DifficultyProfile, error)

	// Update persists counter and difficulty changes. A missing profile
	// id is a no-op.
	Update(ctx context.Context, profile *entity.DifficultyProfile) error

	// List returns profiles ordered by domain then activity, optionally
	// restricted to one domain.
	List(ctx context.Context, domain string) ([]entity.DifficultyProfile, error)
}
