package usecase

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/lexikon-app/lexikon/internal/entity"
	"github.com/lexikon-app/lexikon/internal/repository"
)

// stubCardRepo serves canned candidate lists so composition logic can
// be tested in isolation from query semantics.
type stubCardRepo struct {
	due        []entity.SessionCandidate
	recent     []entity.SessionCandidate
	pool       []entity.SessionCandidate
	struggling []entity.SessionCandidate

	lastStruggling *repository.StrugglingQuery
	lastPool       *repository.PoolQuery
}

func (r *stubCardRepo) Create(context.Context, int64) (int64, error)        { return 0, nil }
func (r *stubCardRepo) CreateBatch(context.Context, []int64) error         { return nil }
func (r *stubCardRepo) GetByID(context.Context, int64) (*entity.ReviewCard, error) {
	return nil, nil
}
func (r *stubCardRepo) Update(context.Context, *repository.CardUpdate) error      { return nil }
func (r *stubCardRepo) UpdateBatch(context.Context, []repository.CardUpdate) error { return nil }

func (r *stubCardRepo) ListDue(context.Context, *repository.DueQuery) ([]entity.SessionCandidate, error) {
	return r.due, nil
}

func (r *stubCardRepo) ListRecent(context.Context, string, int32) ([]entity.SessionCandidate, error) {
	return r.recent, nil
}

// ListPool mimics the store: a deterministic id-ascending order with
// the limit applied as a prefix.
func (r *stubCardRepo) ListPool(_ context.Context, q *repository.PoolQuery) ([]entity.SessionCandidate, error) {
	r.lastPool = q
	pool := r.pool
	if q.Limit > 0 && int(q.Limit) < len(pool) {
		pool = pool[:q.Limit]
	}
	return append([]entity.SessionCandidate(nil), pool...), nil
}

func (r *stubCardRepo) ListStruggling(_ context.Context, q *repository.StrugglingQuery) ([]entity.SessionCandidate, error) {
	r.lastStruggling = q
	return r.struggling, nil
}

func (r *stubCardRepo) ListWeakest(context.Context, string, int, int32) ([]entity.SessionCandidate, error) {
	return nil, nil
}

func (r *stubCardRepo) CountDueByDomain(context.Context, time.Time) (map[string]int, error) {
	return nil, nil
}
func (r *stubCardRepo) CountDueOn(context.Context, time.Time) (int, error) { return 0, nil }

func candidate(id int64, domain, category string, tier entity.Tier) entity.SessionCandidate {
	return entity.SessionCandidate{
		Card:     entity.ReviewCard{ID: id, ItemID: id},
		Domain:   domain,
		Category: category,
		Tier:     tier,
	}
}

func newSessionUsecase(repo repository.ReviewCardRepository) SessionUsecase {
	return NewSessionUsecase(repo, testConfig(), rand.New(rand.NewSource(1)))
}

func TestPriorityFillUsesDueFirst(t *testing.T) {
	repo := &stubCardRepo{
		due: []entity.SessionCandidate{
			candidate(1, "verbs", "present", "A1"),
			candidate(2, "verbs", "past", "A1"),
		},
		recent: []entity.SessionCandidate{
			candidate(3, "verbs", "future", "A1"),
		},
	}
	uc := newSessionUsecase(repo)

	session, err := uc.PriorityFill(context.Background(), &PriorityFillRequest{Limit: 2})
	if err != nil {
		t.Fatalf("PriorityFill() error = %v", err)
	}
	if len(session) != 2 {
		t.Fatalf("got %d candidates, want 2", len(session))
	}
	if session[0].Card.ID != 1 || session[1].Card.ID != 2 {
		t.Errorf("due cards not first: got ids %d, %d", session[0].Card.ID, session[1].Card.ID)
	}
}

func TestPriorityFillBackfillsWithoutDuplicates(t *testing.T) {
	shared := candidate(1, "verbs", "present", "A1")
	repo := &stubCardRepo{
		due: []entity.SessionCandidate{shared},
		recent: []entity.SessionCandidate{
			shared,
			candidate(2, "verbs", "past", "A1"),
			candidate(3, "verbs", "future", "A1"),
		},
	}
	uc := newSessionUsecase(repo)

	session, err := uc.PriorityFill(context.Background(), &PriorityFillRequest{Limit: 3})
	if err != nil {
		t.Fatalf("PriorityFill() error = %v", err)
	}
	if len(session) != 3 {
		t.Fatalf("got %d candidates, want 3", len(session))
	}
	seen := map[int64]bool{}
	for _, c := range session {
		if seen[c.Card.ID] {
			t.Fatalf("duplicate card %d in session", c.Card.ID)
		}
		seen[c.Card.ID] = true
	}
}

func TestPriorityFillTierFilter(t *testing.T) {
	repo := &stubCardRepo{
		due: []entity.SessionCandidate{
			candidate(1, "verbs", "present", "A1"),
			candidate(2, "verbs", "past", "B1-"),
			candidate(3, "verbs", "future", "A2"),
		},
	}
	uc := newSessionUsecase(repo)

	session, err := uc.PriorityFill(context.Background(), &PriorityFillRequest{
		Limit:  10,
		Filter: &TierFilter{Tier: "A2", Mode: TierAtOrBelow},
	})
	if err != nil {
		t.Fatalf("PriorityFill() error = %v", err)
	}
	if len(session) != 2 {
		t.Fatalf("got %d candidates, want 2", len(session))
	}
	for _, c := range session {
		if !c.Tier.AtOrBelow("A2") {
			t.Errorf("card %d has tier %q beyond the limit", c.Card.ID, c.Tier)
		}
	}
}

func TestFilterByTier(t *testing.T) {
	candidates := []entity.SessionCandidate{
		candidate(1, "verbs", "present", "A1"),
		candidate(2, "verbs", "past", "A2"),
		candidate(3, "verbs", "future", "B1-"),
		candidate(4, "verbs", "future", ""),
	}

	t.Run("nil filter passes everything", func(t *testing.T) {
		if got := FilterByTier(candidates, nil); len(got) != len(candidates) {
			t.Errorf("got %d, want %d", len(got), len(candidates))
		}
	})

	t.Run("exact match", func(t *testing.T) {
		got := FilterByTier(candidates, &TierFilter{Tier: "A2", Mode: TierExactly})
		if len(got) != 1 || got[0].Card.ID != 2 {
			t.Errorf("got %+v, want only card 2", got)
		}
	})

	t.Run("at or below excludes untagged", func(t *testing.T) {
		got := FilterByTier(candidates, &TierFilter{Tier: "A2", Mode: TierAtOrBelow})
		if len(got) != 2 {
			t.Errorf("got %d candidates, want 2", len(got))
		}
	})

	t.Run("starved filter falls back to unfiltered", func(t *testing.T) {
		got := FilterByTier(candidates, &TierFilter{Tier: "A1", Mode: TierExactly, MinCandidates: 3})
		if len(got) != len(candidates) {
			t.Errorf("got %d, want unfiltered %d", len(got), len(candidates))
		}
	})
}

func TestInterleavedAvoidsAdjacentRepeats(t *testing.T) {
	var pool []entity.SessionCandidate
	for i := int64(1); i <= 10; i++ {
		pool = append(pool, candidate(i, "verbs", "present", "A1"))
	}
	for i := int64(11); i <= 20; i++ {
		pool = append(pool, candidate(i, "nouns", "things", "A1"))
	}
	repo := &stubCardRepo{pool: pool}
	uc := newSessionUsecase(repo)

	session, err := uc.Interleaved(context.Background(), &InterleaveRequest{Limit: 10})
	if err != nil {
		t.Fatalf("Interleaved() error = %v", err)
	}
	if len(session) != 10 {
		t.Fatalf("got %d candidates, want 10", len(session))
	}
	for i := 1; i < len(session); i++ {
		prev, cur := session[i-1], session[i]
		if prev.Domain == cur.Domain && prev.Category == cur.Category {
			t.Errorf("positions %d and %d both %s/%s", i-1, i, cur.Domain, cur.Category)
		}
	}
}

func TestInterleavedDeterministicForSeed(t *testing.T) {
	var pool []entity.SessionCandidate
	for i := int64(1); i <= 12; i++ {
		domain := "verbs"
		if i%2 == 0 {
			domain = "nouns"
		}
		pool = append(pool, candidate(i, domain, "mixed", "A1"))
	}

	run := func() []int64 {
		repo := &stubCardRepo{pool: append([]entity.SessionCandidate(nil), pool...)}
		uc := NewSessionUsecase(repo, testConfig(), rand.New(rand.NewSource(42)))
		session, err := uc.Interleaved(context.Background(), &InterleaveRequest{Limit: 6})
		if err != nil {
			t.Fatalf("Interleaved() error = %v", err)
		}
		ids := make([]int64, len(session))
		for i, c := range session {
			ids[i] = c.Card.ID
		}
		return ids
	}

	first, second := run(), run()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("runs diverged at %d: %v vs %v", i, first, second)
		}
	}
}

func TestInterleavedSamplesAcrossWholePool(t *testing.T) {
	var pool []entity.SessionCandidate
	for i := int64(1); i <= 120; i++ {
		domain := "verbs"
		if i%2 == 0 {
			domain = "nouns"
		}
		pool = append(pool, candidate(i, domain, "mixed", "A1"))
	}

	seen := map[int64]bool{}
	var lastPool *repository.PoolQuery
	for seed := int64(0); seed < 20; seed++ {
		repo := &stubCardRepo{pool: pool}
		uc := NewSessionUsecase(repo, testConfig(), rand.New(rand.NewSource(seed)))
		session, err := uc.Interleaved(context.Background(), &InterleaveRequest{Limit: 10})
		if err != nil {
			t.Fatalf("Interleaved() error = %v", err)
		}
		for _, c := range session {
			seen[c.Card.ID] = true
		}
		lastPool = repo.lastPool
	}

	// With a pool factor of 3 a store-side limit of 30 would pin every
	// session to the 30 lowest ids.
	if lastPool.Limit != 0 {
		t.Errorf("pool query limit = %d, want 0 so the draw covers the whole pool", lastPool.Limit)
	}
	high := false
	for id := range seen {
		if id > 30 {
			high = true
			break
		}
	}
	if !high {
		t.Error("no card beyond the 30 lowest ids ever appeared across 20 seeds")
	}
}

func TestInterleavedDegradesWhenOnlyOneKind(t *testing.T) {
	var pool []entity.SessionCandidate
	for i := int64(1); i <= 5; i++ {
		pool = append(pool, candidate(i, "verbs", "present", "A1"))
	}
	repo := &stubCardRepo{pool: pool}
	uc := newSessionUsecase(repo)

	session, err := uc.Interleaved(context.Background(), &InterleaveRequest{Limit: 5})
	if err != nil {
		t.Fatalf("Interleaved() error = %v", err)
	}
	if len(session) != 5 {
		t.Errorf("got %d candidates, want all 5 despite repeats", len(session))
	}
}

func TestErrorFocusedPassesConfiguredThresholds(t *testing.T) {
	repo := &stubCardRepo{
		struggling: []entity.SessionCandidate{
			candidate(1, "verbs", "present", "A1"),
			candidate(2, "verbs", "past", "A1"),
		},
	}
	uc := newSessionUsecase(repo)

	drill, err := uc.ErrorFocused(context.Background(), &ErrorFocusedRequest{Domain: "verbs", Limit: 10})
	if err != nil {
		t.Fatalf("ErrorFocused() error = %v", err)
	}
	if drill.Remaining() != 2 {
		t.Errorf("drill has %d items, want 2", drill.Remaining())
	}
	q := repo.lastStruggling
	if q.EaseBelow != 1.8 || q.MinReviews != 2 || q.MaxAccuracy != 0.5 {
		t.Errorf("struggling query = %+v, want configured thresholds", q)
	}
	if q.Domain != "verbs" {
		t.Errorf("struggling query domain = %q, want %q", q.Domain, "verbs")
	}
}

func TestDrillQueueReinsertsMisses(t *testing.T) {
	items := []entity.SessionCandidate{
		candidate(1, "verbs", "a", "A1"),
		candidate(2, "verbs", "b", "A1"),
		candidate(3, "verbs", "c", "A1"),
	}
	q := NewDrillQueue(items, 4, 30)

	first := q.Next()
	if first == nil || first.Card.ID != 1 {
		t.Fatalf("Next() = %+v, want card 1", first)
	}
	q.Record(false)

	// Queue is shorter than the offset, so the miss lands at the tail.
	var order []int64
	for item := q.Next(); item != nil; item = q.Next() {
		order = append(order, item.Card.ID)
		q.Record(true)
	}
	want := []int64{2, 3, 1}
	if len(order) != len(want) {
		t.Fatalf("drill order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("drill order = %v, want %v", order, want)
		}
	}
	if !q.Exhausted() {
		t.Error("drained queue should be exhausted")
	}
}

func TestDrillQueueReinsertOffset(t *testing.T) {
	var items []entity.SessionCandidate
	for i := int64(1); i <= 6; i++ {
		items = append(items, candidate(i, "verbs", "a", "A1"))
	}
	q := NewDrillQueue(items, 4, 30)

	q.Next()
	q.Record(false) // card 1 goes back 4 positions ahead

	var order []int64
	for item := q.Next(); item != nil; item = q.Next() {
		order = append(order, item.Card.ID)
		q.Record(true)
	}
	want := []int64{2, 3, 4, 5, 1, 6}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("drill order = %v, want %v", order, want)
		}
	}
}

func TestDrillQueueDefaultOffsetResurfacesAfterThree(t *testing.T) {
	var items []entity.SessionCandidate
	for i := int64(1); i <= 6; i++ {
		items = append(items, candidate(i, "verbs", "a", "A1"))
	}
	q := NewDrillQueue(items, 3, 30)

	q.Next()
	q.Record(false)

	var order []int64
	for item := q.Next(); item != nil; item = q.Next() {
		order = append(order, item.Card.ID)
		q.Record(true)
	}
	// Three items intervene before the miss comes back.
	want := []int64{2, 3, 4, 1, 5, 6}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("drill order = %v, want %v", order, want)
		}
	}
}

func TestDrillQueueAttemptCap(t *testing.T) {
	items := []entity.SessionCandidate{candidate(1, "verbs", "a", "A1")}
	q := NewDrillQueue(items, 4, 5)

	attempts := 0
	for item := q.Next(); item != nil; item = q.Next() {
		attempts++
		q.Record(false) // never learns it
	}
	if attempts != 5 {
		t.Errorf("drill allowed %d attempts, want cap of 5", attempts)
	}
	if !q.Exhausted() {
		t.Error("capped queue should report exhausted")
	}
}

func TestDrillQueueRepeatsCurrentUntilRecorded(t *testing.T) {
	items := []entity.SessionCandidate{
		candidate(1, "verbs", "a", "A1"),
		candidate(2, "verbs", "b", "A1"),
	}
	q := NewDrillQueue(items, 4, 30)

	first := q.Next()
	again := q.Next()
	if first.Card.ID != again.Card.ID {
		t.Errorf("Next() before Record() moved on: %d then %d", first.Card.ID, again.Card.ID)
	}
}
