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

// DifficultyProfileRepository is the SQL-backed adaptive difficulty
// store.
type DifficultyProfileRepository struct {
	db    *sql.DB
	clock func() time.Time
}

// NewDifficultyProfileRepository constructs a SQL-backed repository.
func NewDifficultyProfileRepository(db *sql.DB) *DifficultyProfileRepository {
	return &DifficultyProfileRepository{db: db, clock: time.Now}
}

var _ repository.DifficultyProfileRepository = (*DifficultyProfileRepository)(nil)

const profileColumns = `id, domain, activity, difficulty,
	consecutive_correct, consecutive_wrong, total_attempts, last_updated`

func scanProfile(row interface{ Scan(...any) error }) (*entity.DifficultyProfile, error) {
	var p entity.DifficultyProfile
	var updated string
	err := row.Scan(
		&p.ID, &p.Domain, &p.Activity, &p.Difficulty,
		&p.ConsecutiveCorrect, &p.ConsecutiveWrong, &p.TotalAttempts, &updated,
	)
	if err != nil {
		return nil, err
	}
	if p.LastUpdated, err = time.Parse(time.RFC3339, updated); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *DifficultyProfileRepository) GetOrCreate(ctx context.Context, domain, activity string) (*entity.DifficultyProfile, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO difficulty_profiles (domain, activity, difficulty, last_updated)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (domain, activity) DO NOTHING`,
		domain, activity, entity.DefaultDifficulty, r.clock().UTC().Format(time.RFC3339))
	if err != nil {
		return nil, storageErr("create difficulty profile", err)
	}
	profile, err := r.Get(ctx, domain, activity)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func (r *DifficultyProfileRepository) Get(ctx context.Context, domain, activity string) (*entity.DifficultyProfile, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+profileColumns+`
		FROM difficulty_profiles
		WHERE domain = $1 AND activity = $2`, domain, activity)
	profile, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("profile %s/%s: %w", domain, activity, entity.ErrProfileNotFound)
	}
	if err != nil {
		return nil, storageErr("get difficulty profile", err)
	}
	return profile, nil
}

func (r *DifficultyProfileRepository) Update(ctx context.Context, profile *entity.DifficultyProfile) error {
	// Zero rows affected means the profile vanished; that is not an
	// error.
	_, err := r.db.ExecContext(ctx, `
		UPDATE difficulty_profiles SET
			difficulty = $1,
			consecutive_correct = $2,
			consecutive_wrong = $3,
			total_attempts = $4,
			last_updated = $5
		WHERE id = $6`,
		profile.Difficulty, profile.ConsecutiveCorrect, profile.ConsecutiveWrong,
		profile.TotalAttempts, profile.LastUpdated.UTC().Format(time.RFC3339), profile.ID)
	if err != nil {
		return storageErr("update difficulty profile", err)
	}
	return nil
}

func (r *DifficultyProfileRepository) List(ctx context.Context, domain string) ([]entity.DifficultyProfile, error) {
	var sb strings.Builder
	var args []any
	sb.WriteString(`SELECT ` + profileColumns + ` FROM difficulty_profiles`)
	if domain != "" {
		args = append(args, domain)
		fmt.Fprintf(&sb, " WHERE domain = $%d", len(args))
	}
	sb.WriteString(" ORDER BY domain, activity")

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, storageErr("list difficulty profiles", err)
	}
	defer rows.Close()

	var out []entity.DifficultyProfile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, storageErr("list difficulty profiles", err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list difficulty profiles", err)
	}
	return out, nil
}
