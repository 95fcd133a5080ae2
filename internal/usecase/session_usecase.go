package usecase

import (
	"context"
	"math/rand"
	"time"

	"github.com/samber/lo"

	"github.com/lexikon-app/lexikon/internal/entity"
	"github.com/lexikon-app/lexikon/internal/infrastructure/config"
	"github.com/lexikon-app/lexikon/internal/repository"
)

// TierMode selects how a tier filter interprets its limit tier.
type TierMode int

const (
	// TierAtOrBelow keeps candidates tagged at the limit tier or any
	// easier one.
	TierAtOrBelow TierMode = iota
	// TierExactly keeps only candidates tagged with the limit tier.
	TierExactly
)

// TierFilter restricts session candidates by proficiency tier. A zero
// value applies no restriction.
type TierFilter struct {
	Tier Tier
	Mode TierMode

	// MinCandidates guards against over-filtering: when the filtered
	// set falls below this size the unfiltered set is used instead, so
	// a session never comes up empty just because few items carry the
	// requested tag.
	MinCandidates int
}

// Tier aliases the entity type so callers composing filters do not need
// a second import.
type Tier = entity.Tier

// PriorityFillRequest describes a standard review session.
type PriorityFillRequest struct {
	Domain string
	Group  string
	Limit  int
	Filter *TierFilter
}

// InterleaveRequest describes a mixed-domain session.
type InterleaveRequest struct {
	Domains []string
	Limit   int
}

// ErrorFocusedRequest describes a remedial drill over struggling items.
type ErrorFocusedRequest struct {
	Domain string
	Limit  int
}

// SessionUsecase composes practice sessions out of the card store:
// priority-filled review queues, diversity-interleaved mixes, and
// error-focused drills.
type SessionUsecase interface {
	// PriorityFill builds a session of up to Limit candidates: due cards
	// hardest first, backfilled with the most recently started items
	// when fewer are due. Candidates never repeat within the session.
	PriorityFill(ctx context.Context, req *PriorityFillRequest) ([]entity.SessionCandidate, error)

	// Interleaved builds a mixed session where no two adjacent
	// candidates share both domain and category, as far as the drawn
	// pool allows.
	Interleaved(ctx context.Context, req *InterleaveRequest) ([]entity.SessionCandidate, error)

	// ErrorFocused builds a drill queue over the learner's weakest
	// cards, easiest-to-forget first.
	ErrorFocused(ctx context.Context, req *ErrorFocusedRequest) (*DrillQueue, error)
}

// NewSessionUsecase wires the card repository with the configured
// composition parameters and a deterministic randomness source.
func NewSessionUsecase(repo repository.ReviewCardRepository, cfg *config.Config, rng *rand.Rand) SessionUsecase {
	return &sessionUsecase{
		repo:  repo,
		cfg:   cfg.Scheduling,
		rng:   rng,
		clock: time.Now,
	}
}

type sessionUsecase struct {
	repo  repository.ReviewCardRepository
	cfg   config.SchedulingConfig
	rng   *rand.Rand
	clock func() time.Time
}

func (u *sessionUsecase) PriorityFill(ctx context.Context, req *PriorityFillRequest) ([]entity.SessionCandidate, error) {
	if req.Limit <= 0 {
		return nil, nil
	}

	due, err := u.repo.ListDue(ctx, &repository.DueQuery{
		AsOf:         entity.DateOnly(u.clock()),
		Domain:       req.Domain,
		Group:        req.Group,
		HardestFirst: true,
	})
	if err != nil {
		return nil, err
	}
	due = FilterByTier(due, req.Filter)

	session := lo.Subset(due, 0, uint(req.Limit))
	if len(session) >= req.Limit {
		return session, nil
	}

	// Backfill with recently started items so short due queues still
	// yield a full session.
	recent, err := u.repo.ListRecent(ctx, req.Domain, int32(req.Limit))
	if err != nil {
		return nil, err
	}
	recent = FilterByTier(recent, req.Filter)

	seen := lo.SliceToMap(session, func(c entity.SessionCandidate) (int64, struct{}) {
		return c.Card.ID, struct{}{}
	})
	for _, c := range recent {
		if len(session) >= req.Limit {
			break
		}
		if _, ok := seen[c.Card.ID]; ok {
			continue
		}
		seen[c.Card.ID] = struct{}{}
		session = append(session, c)
	}
	return session, nil
}

func (u *sessionUsecase) Interleaved(ctx context.Context, req *InterleaveRequest) ([]entity.SessionCandidate, error) {
	if req.Limit <= 0 {
		return nil, nil
	}

	// Fetch the whole population and sample here with the injected
	// randomness source. A store-side LIMIT always returns the same
	// prefix of the table, so cards past it would never be drawn.
	pool, err := u.repo.ListPool(ctx, &repository.PoolQuery{
		Domains: req.Domains,
	})
	if err != nil {
		return nil, err
	}

	u.rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	// Keep a pool a few times larger than the session so the
	// interleaver has room to avoid adjacent repeats.
	if size := req.Limit * u.cfg.InterleavePoolFactor; len(pool) > size {
		pool = pool[:size]
	}
	return interleave(pool, req.Limit), nil
}

// interleave greedily picks from the pool so that no two adjacent
// candidates share both domain and category. When every remaining
// candidate would clash it takes the head anyway; variety is a
// preference, not a guarantee.
func interleave(pool []entity.SessionCandidate, limit int) []entity.SessionCandidate {
	session := make([]entity.SessionCandidate, 0, limit)
	remaining := append([]entity.SessionCandidate(nil), pool...)

	for len(session) < limit && len(remaining) > 0 {
		picked := 0
		if len(session) > 0 {
			prev := session[len(session)-1]
			_, idx, found := lo.FindIndexOf(remaining, func(c entity.SessionCandidate) bool {
				return c.Domain != prev.Domain || c.Category != prev.Category
			})
			if found {
				picked = idx
			}
		}
		session = append(session, remaining[picked])
		remaining = append(remaining[:picked], remaining[picked+1:]...)
	}
	return session
}

func (u *sessionUsecase) ErrorFocused(ctx context.Context, req *ErrorFocusedRequest) (*DrillQueue, error) {
	limit := req.Limit
	if limit < 0 {
		limit = 0
	}
	struggling, err := u.repo.ListStruggling(ctx, &repository.StrugglingQuery{
		EaseBelow:   u.cfg.ErrorEaseCutoff,
		MinReviews:  u.cfg.ErrorMinReviews,
		MaxAccuracy: u.cfg.ErrorMaxAccuracy,
		Domain:      req.Domain,
		Limit:       int32(limit),
	})
	if err != nil {
		return nil, err
	}
	return NewDrillQueue(struggling, u.cfg.DrillReinsertOffset, u.cfg.DrillAttemptCap), nil
}

// FilterByTier applies a tier filter to candidates. A nil filter or an
// empty tier passes everything through; a filter that would starve the
// session below its minimum is dropped entirely.
func FilterByTier(candidates []entity.SessionCandidate, filter *TierFilter) []entity.SessionCandidate {
	if filter == nil || filter.Tier == "" {
		return candidates
	}
	filtered := lo.Filter(candidates, func(c entity.SessionCandidate, _ int) bool {
		if filter.Mode == TierExactly {
			return c.Tier == filter.Tier
		}
		return c.Tier.AtOrBelow(filter.Tier)
	})
	if len(filtered) < filter.MinCandidates {
		return candidates
	}
	return filtered
}
