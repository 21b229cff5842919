package holi

import (
	"context"
	"database/sql"
	"time"
)

// Repository persists computed Holi dates.
type Repository interface {
	Get(context.Context, int) (Result, error)
	Save(context.Context, Result) error
}

type holiRepository struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *holiRepository {
	return &holiRepository{db}
}

func (r *holiRepository) Get(ctx context.Context, year int) (Result, error) {
	var (
		res  Result
		moon time.Time
		rule string
	)
	err := r.db.QueryRowContext(ctx, `
	SELECT year, moon, rule FROM holi WHERE year = ?`, year).Scan(&res.Year, &moon, &rule)
	if err != nil {
		return Result{}, err
	}
	res.Moon = moon.UTC()
	res.Rule = Rule(rule)
	return res, nil
}

func (r *holiRepository) Save(ctx context.Context, res Result) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO holi (year, moon, rule) VALUES (?, ?, ?)
	ON CONFLICT(year) DO UPDATE SET
		moon = excluded.moon,
		rule = excluded.rule,
		computed_at = CURRENT_TIMESTAMP`, res.Year, res.Moon.UTC(), string(res.Rule))
	if err != nil {
		return err
	}
	return nil
}
