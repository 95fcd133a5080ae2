package usecase

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/lexikon-app/lexikon/internal/entity"
)

type fakePracticeRepo struct {
	mu      sync.Mutex
	nextID  int64
	entries []entity.PracticeEntry
}

func (r *fakePracticeRepo) Log(_ context.Context, entry *entity.PracticeEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	e := *entry
	e.ID = r.nextID
	r.entries = append(r.entries, e)
	return nil
}

func (r *fakePracticeRepo) DistinctDates(_ context.Context) ([]time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := map[time.Time]bool{}
	var dates []time.Time
	for _, e := range r.entries {
		if !seen[e.Date] {
			seen[e.Date] = true
			dates = append(dates, e.Date)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].After(dates[j]) })
	return dates, nil
}

func (r *fakePracticeRepo) ListOn(_ context.Context, day time.Time) ([]entity.PracticeEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.PracticeEntry
	for _, e := range r.entries {
		if e.Date.Equal(day) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakePracticeRepo) MinutesOn(_ context.Context, day time.Time) (int, error) {
	entries, _ := r.ListOn(context.Background(), day)
	total := 0
	for _, e := range entries {
		total += e.DurationMinutes
	}
	return total, nil
}

type fakeReportingRepo struct {
	stats      entity.ReviewStats
	reviewedOn map[time.Time][2]int // day -> total, correct
	intervals  []entity.IntervalAccuracy
	domains    []entity.DomainRetention
	byDomain   map[string]int
	count      int64
}

func (r *fakeReportingRepo) Stats(context.Context) (*entity.ReviewStats, error) {
	s := r.stats
	return &s, nil
}

func (r *fakeReportingRepo) CountReviewedOn(_ context.Context, day time.Time) (int, int, error) {
	c := r.reviewedOn[day]
	return c[0], c[1], nil
}

func (r *fakeReportingRepo) AccuracyByInterval(context.Context) ([]entity.IntervalAccuracy, error) {
	return r.intervals, nil
}

func (r *fakeReportingRepo) RetentionByDomain(context.Context) ([]entity.DomainRetention, error) {
	return r.domains, nil
}

func (r *fakeReportingRepo) CountByDomain(context.Context) (map[string]int, error) {
	return r.byDomain, nil
}

func (r *fakeReportingRepo) Count(context.Context) (int64, error) {
	return r.count, nil
}

func newStatsForTest(t *testing.T, practice *fakePracticeRepo, reporting *fakeReportingRepo, now time.Time) StatsUsecase {
	t.Helper()
	if practice == nil {
		practice = &fakePracticeRepo{}
	}
	if reporting == nil {
		reporting = &fakeReportingRepo{}
	}
	uc := NewStatsUsecase(newFakeCardRepo(), reporting, practice)
	uc.(*statsUsecase).clock = fixedClock(now)
	return uc
}

func day(s string) time.Time {
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return d
}

func logOn(t *testing.T, repo *fakePracticeRepo, dates ...string) {
	t.Helper()
	for _, d := range dates {
		if err := repo.Log(context.Background(), &entity.PracticeEntry{Date: day(d)}); err != nil {
			t.Fatalf("Log() error = %v", err)
		}
	}
}

func TestStreak(t *testing.T) {
	now := day("2025-03-10").Add(14 * time.Hour)
	tests := []struct {
		name  string
		dates []string
		want  int
	}{
		{"no practice", nil, 0},
		{"only today", []string{"2025-03-10"}, 1},
		{"carried by yesterday", []string{"2025-03-09", "2025-03-08", "2025-03-07"}, 3},
		{"broken by a gap", []string{"2025-03-08", "2025-03-07"}, 0},
		{"gap further back stops the count", []string{"2025-03-10", "2025-03-09", "2025-03-07"}, 2},
		{"duplicate days count once", []string{"2025-03-10", "2025-03-10", "2025-03-09"}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			practice := &fakePracticeRepo{}
			logOn(t, practice, tt.dates...)
			uc := newStatsForTest(t, practice, nil, now)

			got, err := uc.Streak(context.Background())
			if err != nil {
				t.Fatalf("Streak() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Streak() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLogPracticeNormalizesDate(t *testing.T) {
	practice := &fakePracticeRepo{}
	now := time.Date(2025, 3, 10, 22, 15, 0, 0, time.UTC)
	uc := newStatsForTest(t, practice, nil, now)

	err := uc.LogPractice(context.Background(), &entity.PracticeEntry{
		SessionType:     "review",
		DurationMinutes: 12,
	})
	if err != nil {
		t.Fatalf("LogPractice() error = %v", err)
	}
	if len(practice.entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(practice.entries))
	}
	want := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	if got := practice.entries[0].Date; !got.Equal(want) {
		t.Errorf("logged date = %v, want date-only %v", got, want)
	}
}

func TestMinutesToday(t *testing.T) {
	practice := &fakePracticeRepo{}
	now := time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)
	uc := newStatsForTest(t, practice, nil, now)

	for _, mins := range []int{10, 5} {
		uc.LogPractice(context.Background(), &entity.PracticeEntry{DurationMinutes: mins})
	}
	practice.Log(context.Background(), &entity.PracticeEntry{
		Date:            time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC),
		DurationMinutes: 30,
	})

	got, err := uc.MinutesToday(context.Background())
	if err != nil {
		t.Fatalf("MinutesToday() error = %v", err)
	}
	if got != 15 {
		t.Errorf("MinutesToday() = %d, want 15", got)
	}
}

func TestDueForecastFrontLoadsBacklog(t *testing.T) {
	cards := newFakeCardRepo()
	reporting := &fakeReportingRepo{}
	uc := NewStatsUsecase(cards, reporting, &fakePracticeRepo{})
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	uc.(*statsUsecase).clock = fixedClock(now)

	forecast, err := uc.DueForecast(context.Background(), 3)
	if err != nil {
		t.Fatalf("DueForecast() error = %v", err)
	}
	if len(forecast) != 3 {
		t.Fatalf("got %d days, want 3", len(forecast))
	}
	for i, f := range forecast {
		want := time.Date(2025, 3, 10+i, 0, 0, 0, 0, time.UTC)
		if !f.Date.Equal(want) {
			t.Errorf("day %d = %v, want %v", i, f.Date, want)
		}
	}

	if got, _ := uc.DueForecast(context.Background(), 0); got != nil {
		t.Errorf("DueForecast(0) = %v, want nil", got)
	}
}

func TestRetentionCurveOrdersOldestFirst(t *testing.T) {
	reporting := &fakeReportingRepo{
		reviewedOn: map[time.Time][2]int{
			day("2025-03-09"): {10, 8},
			day("2025-03-10"): {4, 1},
		},
	}
	uc := newStatsForTest(t, nil, reporting, day("2025-03-10").Add(9*time.Hour))

	curve, err := uc.RetentionCurve(context.Background(), 3)
	if err != nil {
		t.Fatalf("RetentionCurve() error = %v", err)
	}
	if len(curve) != 3 {
		t.Fatalf("got %d points, want 3", len(curve))
	}
	if !curve[0].Date.Equal(day("2025-03-08")) || !curve[2].Date.Equal(day("2025-03-10")) {
		t.Errorf("curve range = %v .. %v, want 03-08 .. 03-10", curve[0].Date, curve[2].Date)
	}
	if curve[1].Rate() != 80 {
		t.Errorf("rate on 03-09 = %d, want 80", curve[1].Rate())
	}
	if curve[0].Rate() != 0 {
		t.Errorf("rate on an idle day = %d, want 0", curve[0].Rate())
	}
}

func TestWeakAreasOrdersByRetention(t *testing.T) {
	reporting := &fakeReportingRepo{
		domains: []entity.DomainRetention{
			{Domain: "verbs", TotalReviews: 20, CorrectReviews: 18},
			{Domain: "nouns", TotalReviews: 20, CorrectReviews: 8},
			{Domain: "idioms", TotalReviews: 2, CorrectReviews: 0},
		},
	}
	uc := newStatsForTest(t, nil, reporting, day("2025-03-10"))

	weak, err := uc.WeakAreas(context.Background(), 5)
	if err != nil {
		t.Fatalf("WeakAreas() error = %v", err)
	}
	if len(weak) != 2 {
		t.Fatalf("got %d domains, want 2 (idioms lacks reviews)", len(weak))
	}
	if weak[0].Domain != "nouns" {
		t.Errorf("weakest = %q, want nouns", weak[0].Domain)
	}

	name, err := uc.WeakestDomain(context.Background(), 5)
	if err != nil {
		t.Fatalf("WeakestDomain() error = %v", err)
	}
	if name != "nouns" {
		t.Errorf("WeakestDomain() = %q, want nouns", name)
	}
}

func TestWeakCardsListsLowestEaseFirst(t *testing.T) {
	cards := newFakeCardRepo()
	seed := func(id int64, domain string, ease float64, reviews int) {
		cards.cards[id] = &entity.ReviewCard{ID: id, ItemID: id, EaseFactor: ease, TotalReviews: reviews}
		cards.meta[id] = entity.SessionCandidate{Domain: domain}
	}
	seed(1, "verbs", 2.5, 6)
	seed(2, "verbs", 1.4, 4)
	seed(3, "verbs", 1.9, 1) // one review says nothing yet
	seed(4, "nouns", 1.1, 3)

	uc := NewStatsUsecase(cards, &fakeReportingRepo{}, &fakePracticeRepo{})
	uc.(*statsUsecase).clock = fixedClock(day("2025-03-10"))

	weak, err := uc.WeakCards(context.Background(), "", 10)
	if err != nil {
		t.Fatalf("WeakCards() error = %v", err)
	}
	want := []int64{4, 2, 1}
	if len(weak) != len(want) {
		t.Fatalf("got %d cards, want %d (the single-review card is skipped)", len(weak), len(want))
	}
	for i := range want {
		if weak[i].Card.ID != want[i] {
			t.Errorf("position %d = card %d, want %d", i, weak[i].Card.ID, want[i])
		}
	}

	verbs, err := uc.WeakCards(context.Background(), "verbs", 1)
	if err != nil {
		t.Fatalf("WeakCards() error = %v", err)
	}
	if len(verbs) != 1 || verbs[0].Card.ID != 2 {
		t.Errorf("domain-limited list = %+v, want only card 2", verbs)
	}
}

func TestWeakestDomainEmptyWhenUnjudgeable(t *testing.T) {
	uc := newStatsForTest(t, nil, &fakeReportingRepo{}, day("2025-03-10"))
	name, err := uc.WeakestDomain(context.Background(), 5)
	if err != nil {
		t.Fatalf("WeakestDomain() error = %v", err)
	}
	if name != "" {
		t.Errorf("WeakestDomain() = %q, want empty", name)
	}
}

func TestReviewStatsRetention(t *testing.T) {
	reporting := &fakeReportingRepo{
		stats: entity.ReviewStats{Cards: 10, TotalReviews: 50, CorrectReviews: 40},
	}
	uc := newStatsForTest(t, nil, reporting, day("2025-03-10"))

	stats, err := uc.ReviewStats(context.Background())
	if err != nil {
		t.Fatalf("ReviewStats() error = %v", err)
	}
	if got := stats.Retention(); got != 0.8 {
		t.Errorf("Retention() = %v, want 0.8", got)
	}
}
