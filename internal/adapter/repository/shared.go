package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lexikon-app/lexikon/internal/entity"
)

// Dates are stored as ISO calendar dates in TEXT columns so the same
// queries run unchanged on sqlite and postgres, and lexicographic
// comparison matches chronological order.
func formatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(time.DateOnly, s)
}

func parseNullDate(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := parseDate(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, entity.ErrStorage, err)
}

// candidateColumns is the shared select list for queries that join a
// card with its item's content attributes.
const candidateColumns = `c.id, c.item_id, c.ease_factor, c.interval_days, c.repetitions,
	c.next_review_date, c.last_review_date, c.total_reviews, c.correct_reviews, c.created_at,
	i.domain, i.domain_group, i.category, i.tier`

func scanCandidate(rows *sql.Rows) (entity.SessionCandidate, error) {
	var (
		c       entity.SessionCandidate
		next    string
		last    sql.NullString
		created string
		tier    string
	)
	err := rows.Scan(
		&c.Card.ID, &c.Card.ItemID, &c.Card.EaseFactor, &c.Card.IntervalDays, &c.Card.Repetitions,
		&next, &last, &c.Card.TotalReviews, &c.Card.CorrectReviews, &created,
		&c.Domain, &c.Group, &c.Category, &tier,
	)
	if err != nil {
		return entity.SessionCandidate{}, err
	}
	if c.Card.NextReviewAt, err = parseDate(next); err != nil {
		return entity.SessionCandidate{}, err
	}
	if c.Card.LastReviewAt, err = parseNullDate(last); err != nil {
		return entity.SessionCandidate{}, err
	}
	if c.Card.CreatedAt, err = parseDate(created); err != nil {
		return entity.SessionCandidate{}, err
	}
	c.Tier = entity.Tier(tier)
	return c, nil
}

func collectCandidates(rows *sql.Rows) ([]entity.SessionCandidate, error) {
	defer rows.Close()
	var out []entity.SessionCandidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
