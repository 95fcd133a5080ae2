package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/lexikon-app/lexikon/internal/entity"
	"github.com/lexikon-app/lexikon/internal/repository"
)

// PracticeLogRepository is the SQL-backed append-only practice log.
type PracticeLogRepository struct {
	db *sql.DB
}

// NewPracticeLogRepository constructs a SQL-backed repository.
func NewPracticeLogRepository(db *sql.DB) *PracticeLogRepository {
	return &PracticeLogRepository{db: db}
}

var _ repository.PracticeLogRepository = (*PracticeLogRepository)(nil)

func (r *PracticeLogRepository) Log(ctx context.Context, entry *entity.PracticeEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO practice_log (date, session_type, duration_minutes, items_learned, items_reviewed)
		VALUES ($1, $2, $3, $4, $5)`,
		formatDate(entry.Date), entry.SessionType, entry.DurationMinutes,
		entry.ItemsLearned, entry.ItemsReviewed)
	if err != nil {
		return storageErr("log practice", err)
	}
	return nil
}

func (r *PracticeLogRepository) DistinctDates(ctx context.Context) ([]time.Time, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT date FROM practice_log ORDER BY date DESC`)
	if err != nil {
		return nil, storageErr("list practice dates", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, storageErr("list practice dates", err)
		}
		d, err := parseDate(s)
		if err != nil {
			return nil, storageErr("list practice dates", err)
		}
		dates = append(dates, d)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list practice dates", err)
	}
	return dates, nil
}

func (r *PracticeLogRepository) ListOn(ctx context.Context, day time.Time) ([]entity.PracticeEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, date, session_type, duration_minutes, items_learned, items_reviewed
		FROM practice_log
		WHERE date = $1
		ORDER BY id`, formatDate(day))
	if err != nil {
		return nil, storageErr("list practice entries", err)
	}
	defer rows.Close()

	var out []entity.PracticeEntry
	for rows.Next() {
		var e entity.PracticeEntry
		var date string
		err := rows.Scan(&e.ID, &date, &e.SessionType, &e.DurationMinutes,
			&e.ItemsLearned, &e.ItemsReviewed)
		if err != nil {
			return nil, storageErr("list practice entries", err)
		}
		if e.Date, err = parseDate(date); err != nil {
			return nil, storageErr("list practice entries", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list practice entries", err)
	}
	return out, nil
}

func (r *PracticeLogRepository) MinutesOn(ctx context.Context, day time.Time) (int, error) {
	var minutes int
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(duration_minutes), 0)
		FROM practice_log
		WHERE date = $1`, formatDate(day)).Scan(&minutes)
	if err != nil {
		return 0, storageErr("sum practice minutes", err)
	}
	return minutes, nil
}
