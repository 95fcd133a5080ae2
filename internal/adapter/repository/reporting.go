package repository

import (
	"context"
	"time"

	"github.com/lexikon-app/lexikon/internal/entity"
)

func (r *ReviewCardRepository) Stats(ctx context.Context) (*entity.ReviewStats, error) {
	var stats entity.ReviewStats
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COALESCE(AVG(ease_factor), 0),
			COALESCE(SUM(total_reviews), 0),
			COALESCE(SUM(correct_reviews), 0)
		FROM review_cards`).Scan(
		&stats.Cards, &stats.AverageEase, &stats.TotalReviews, &stats.CorrectReviews,
	)
	if err != nil {
		return nil, storageErr("review stats", err)
	}
	return &stats, nil
}

func (r *ReviewCardRepository) CountReviewedOn(ctx context.Context, day time.Time) (int, int, error) {
	var total, correct int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN correct_reviews > 0 THEN 1 ELSE 0 END), 0)
		FROM review_cards
		WHERE last_review_date = $1`, formatDate(day)).Scan(&total, &correct)
	if err != nil {
		return 0, 0, storageErr("count reviewed on day", err)
	}
	return total, correct, nil
}

func (r *ReviewCardRepository) AccuracyByInterval(ctx context.Context) ([]entity.IntervalAccuracy, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT interval_days, COUNT(*),
			COALESCE(AVG(CAST(correct_reviews AS REAL) / NULLIF(total_reviews, 0)), 0)
		FROM review_cards
		WHERE total_reviews > 0
		GROUP BY interval_days
		ORDER BY interval_days`)
	if err != nil {
		return nil, storageErr("accuracy by interval", err)
	}
	defer rows.Close()

	var out []entity.IntervalAccuracy
	for rows.Next() {
		var bucket entity.IntervalAccuracy
		if err := rows.Scan(&bucket.IntervalDays, &bucket.Cards, &bucket.Accuracy); err != nil {
			return nil, storageErr("accuracy by interval", err)
		}
		out = append(out, bucket)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("accuracy by interval", err)
	}
	return out, nil
}

func (r *ReviewCardRepository) RetentionByDomain(ctx context.Context) ([]entity.DomainRetention, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT i.domain,
			COALESCE(SUM(c.total_reviews), 0),
			COALESCE(SUM(c.correct_reviews), 0)
		FROM review_cards c JOIN items i ON i.id = c.item_id
		GROUP BY i.domain
		ORDER BY i.domain`)
	if err != nil {
		return nil, storageErr("retention by domain", err)
	}
	defer rows.Close()

	var out []entity.DomainRetention
	for rows.Next() {
		var d entity.DomainRetention
		if err := rows.Scan(&d.Domain, &d.TotalReviews, &d.CorrectReviews); err != nil {
			return nil, storageErr("retention by domain", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("retention by domain", err)
	}
	return out, nil
}

func (r *ReviewCardRepository) CountByDomain(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT i.domain, COUNT(*)
		FROM review_cards c JOIN items i ON i.id = c.item_id
		GROUP BY i.domain`)
	if err != nil {
		return nil, storageErr("count by domain", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var domain string
		var n int
		if err := rows.Scan(&domain, &n); err != nil {
			return nil, storageErr("count by domain", err)
		}
		counts[domain] = n
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("count by domain", err)
	}
	return counts, nil
}

func (r *ReviewCardRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM review_cards`).Scan(&n); err != nil {
		return 0, storageErr("count cards", err)
	}
	return n, nil
}
