package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lexikon-app/lexikon/internal/entity"
	"github.com/lexikon-app/lexikon/internal/repository"
)

// ReviewCardRepository is the SQL-backed card store. The same struct
// also serves the reporting aggregations since they read the same
// tables.
type ReviewCardRepository struct {
	db    *sql.DB
	clock func() time.Time
}

// NewReviewCardRepository constructs a SQL-backed repository.
func NewReviewCardRepository(db *sql.DB) *ReviewCardRepository {
	return &ReviewCardRepository{db: db, clock: time.Now}
}

var (
	_ repository.ReviewCardRepository      = (*ReviewCardRepository)(nil)
	_ repository.ReviewReportingRepository = (*ReviewCardRepository)(nil)
)

func (r *ReviewCardRepository) Create(ctx context.Context, itemID int64) (int64, error) {
	return r.create(ctx, r.db, itemID)
}

// execer covers both *sql.DB and *sql.Tx so batch creation can reuse
// the single-card path inside a transaction.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *ReviewCardRepository) create(ctx context.Context, db execer, itemID int64) (int64, error) {
	var exists bool
	err := db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM items WHERE id = $1)`, itemID).Scan(&exists)
	if err != nil {
		return 0, storageErr("check item", err)
	}
	if !exists {
		return 0, fmt.Errorf("item %d: %w", itemID, entity.ErrInvalidItemRef)
	}

	today := formatDate(entity.DateOnly(r.clock()))
	_, err = db.ExecContext(ctx, `
		INSERT INTO review_cards (item_id, ease_factor, interval_days, repetitions, next_review_date, created_at)
		VALUES ($1, $2, 0, 0, $3, $3)
		ON CONFLICT (item_id) DO NOTHING`,
		itemID, entity.InitialEaseFactor, today)
	if err != nil {
		return 0, storageErr("create review card", err)
	}

	var id int64
	err = db.QueryRowContext(ctx,
		`SELECT id FROM review_cards WHERE item_id = $1`, itemID).Scan(&id)
	if err != nil {
		return 0, storageErr("load review card", err)
	}
	return id, nil
}

func (r *ReviewCardRepository) CreateBatch(ctx context.Context, itemIDs []int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("begin batch create", err)
	}
	defer tx.Rollback()

	for _, itemID := range itemIDs {
		if _, err := r.create(ctx, tx, itemID); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return storageErr("commit batch create", err)
	}
	return nil
}

func (r *ReviewCardRepository) GetByID(ctx context.Context, id int64) (*entity.ReviewCard, error) {
	var (
		card    entity.ReviewCard
		next    string
		last    sql.NullString
		created string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, item_id, ease_factor, interval_days, repetitions,
			next_review_date, last_review_date, total_reviews, correct_reviews, created_at
		FROM review_cards WHERE id = $1`, id).Scan(
		&card.ID, &card.ItemID, &card.EaseFactor, &card.IntervalDays, &card.Repetitions,
		&next, &last, &card.TotalReviews, &card.CorrectReviews, &created,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("get review card", err)
	}
	if card.NextReviewAt, err = parseDate(next); err != nil {
		return nil, storageErr("get review card", err)
	}
	if card.LastReviewAt, err = parseNullDate(last); err != nil {
		return nil, storageErr("get review card", err)
	}
	if card.CreatedAt, err = parseDate(created); err != nil {
		return nil, storageErr("get review card", err)
	}
	return &card, nil
}

const updateCardQuery = `
	UPDATE review_cards SET
		ease_factor = $1,
		interval_days = $2,
		repetitions = $3,
		next_review_date = $4,
		last_review_date = $5,
		total_reviews = total_reviews + 1,
		correct_reviews = correct_reviews + $6
	WHERE id = $7`

func (r *ReviewCardRepository) updateArgs(u *repository.CardUpdate) []any {
	correct := 0
	if u.WasCorrect {
		correct = 1
	}
	return []any{
		u.EaseFactor, u.IntervalDays, u.Repetitions,
		formatDate(u.NextReviewAt), formatDate(entity.DateOnly(r.clock())),
		correct, u.CardID,
	}
}

func (r *ReviewCardRepository) Update(ctx context.Context, update *repository.CardUpdate) error {
	// Zero rows affected means the card vanished; that is not an error.
	if _, err := r.db.ExecContext(ctx, updateCardQuery, r.updateArgs(update)...); err != nil {
		return storageErr("update review card", err)
	}
	return nil
}

func (r *ReviewCardRepository) UpdateBatch(ctx context.Context, updates []repository.CardUpdate) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("begin batch update", err)
	}
	defer tx.Rollback()

	for i := range updates {
		if _, err := tx.ExecContext(ctx, updateCardQuery, r.updateArgs(&updates[i])...); err != nil {
			return storageErr("update review card", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return storageErr("commit batch update", err)
	}
	return nil
}

func (r *ReviewCardRepository) ListDue(ctx context.Context, query *repository.DueQuery) ([]entity.SessionCandidate, error) {
	var sb strings.Builder
	args := []any{formatDate(query.AsOf)}
	sb.WriteString(`SELECT ` + candidateColumns + `
		FROM review_cards c JOIN items i ON i.id = c.item_id
		WHERE c.next_review_date <= $1`)
	if query.Domain != "" {
		args = append(args, query.Domain)
		fmt.Fprintf(&sb, " AND i.domain = $%d", len(args))
	}
	if query.Group != "" {
		args = append(args, query.Group)
		fmt.Fprintf(&sb, " AND i.domain_group = $%d", len(args))
	}
	if query.HardestFirst {
		sb.WriteString(" ORDER BY c.ease_factor ASC, c.next_review_date ASC, c.id ASC")
	} else {
		sb.WriteString(" ORDER BY c.next_review_date ASC, c.ease_factor ASC, c.id ASC")
	}
	if query.Limit > 0 {
		args = append(args, query.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, storageErr("list due cards", err)
	}
	candidates, err := collectCandidates(rows)
	if err != nil {
		return nil, storageErr("list due cards", err)
	}
	return candidates, nil
}

func (r *ReviewCardRepository) ListRecent(ctx context.Context, domain string, limit int32) ([]entity.SessionCandidate, error) {
	var sb strings.Builder
	var args []any
	sb.WriteString(`SELECT ` + candidateColumns + `
		FROM review_cards c JOIN items i ON i.id = c.item_id`)
	if domain != "" {
		args = append(args, domain)
		fmt.Fprintf(&sb, " WHERE i.domain = $%d", len(args))
	}
	sb.WriteString(" ORDER BY c.created_at DESC, c.id DESC")
	if limit > 0 {
		args = append(args, limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, storageErr("list recent cards", err)
	}
	candidates, err := collectCandidates(rows)
	if err != nil {
		return nil, storageErr("list recent cards", err)
	}
	return candidates, nil
}

func (r *ReviewCardRepository) ListPool(ctx context.Context, query *repository.PoolQuery) ([]entity.SessionCandidate, error) {
	var sb strings.Builder
	var args []any
	sb.WriteString(`SELECT ` + candidateColumns + `
		FROM review_cards c JOIN items i ON i.id = c.item_id`)
	if len(query.Domains) > 0 {
		placeholders := make([]string, len(query.Domains))
		for i, d := range query.Domains {
			args = append(args, d)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		sb.WriteString(" WHERE i.domain IN (" + strings.Join(placeholders, ", ") + ")")
	}
	sb.WriteString(" ORDER BY c.id ASC")
	if query.Limit > 0 {
		args = append(args, query.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, storageErr("list card pool", err)
	}
	candidates, err := collectCandidates(rows)
	if err != nil {
		return nil, storageErr("list card pool", err)
	}
	return candidates, nil
}

func (r *ReviewCardRepository) ListStruggling(ctx context.Context, query *repository.StrugglingQuery) ([]entity.SessionCandidate, error) {
	var sb strings.Builder
	args := []any{query.EaseBelow, query.MinReviews, query.MaxAccuracy}
	// NULLIF keeps the accuracy branch from dividing by zero on
	// never-reviewed cards; the NULL comparison excludes them.
	sb.WriteString(`SELECT ` + candidateColumns + `
		FROM review_cards c JOIN items i ON i.id = c.item_id
		WHERE (c.ease_factor < $1
			OR (c.total_reviews > $2
				AND CAST(c.correct_reviews AS REAL) / NULLIF(c.total_reviews, 0) < $3))`)
	if query.Domain != "" {
		args = append(args, query.Domain)
		fmt.Fprintf(&sb, " AND i.domain = $%d", len(args))
	}
	sb.WriteString(" ORDER BY c.ease_factor ASC, c.id ASC")
	if query.Limit > 0 {
		args = append(args, query.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, storageErr("list struggling cards", err)
	}
	candidates, err := collectCandidates(rows)
	if err != nil {
		return nil, storageErr("list struggling cards", err)
	}
	return candidates, nil
}

func (r *ReviewCardRepository) ListWeakest(ctx context.Context, domain string, minReviews int, limit int32) ([]entity.SessionCandidate, error) {
	var sb strings.Builder
	args := []any{minReviews}
	sb.WriteString(`SELECT ` + candidateColumns + `
		FROM review_cards c JOIN items i ON i.id = c.item_id
		WHERE c.total_reviews >= $1`)
	if domain != "" {
		args = append(args, domain)
		fmt.Fprintf(&sb, " AND i.domain = $%d", len(args))
	}
	sb.WriteString(" ORDER BY c.ease_factor ASC, c.id ASC")
	if limit > 0 {
		args = append(args, limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, storageErr("list weakest cards", err)
	}
	candidates, err := collectCandidates(rows)
	if err != nil {
		return nil, storageErr("list weakest cards", err)
	}
	return candidates, nil
}

func (r *ReviewCardRepository) CountDueByDomain(ctx context.Context, asOf time.Time) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT i.domain, COUNT(*)
		FROM review_cards c JOIN items i ON i.id = c.item_id
		WHERE c.next_review_date <= $1
		GROUP BY i.domain`, formatDate(asOf))
	if err != nil {
		return nil, storageErr("count due by domain", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var domain string
		var n int
		if err := rows.Scan(&domain, &n); err != nil {
			return nil, storageErr("count due by domain", err)
		}
		counts[domain] = n
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("count due by domain", err)
	}
	return counts, nil
}

func (r *ReviewCardRepository) CountDueOn(ctx context.Context, day time.Time) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM review_cards WHERE next_review_date = $1`,
		formatDate(day)).Scan(&n)
	if err != nil {
		return 0, storageErr("count due on day", err)
	}
	return n, nil
}
