package holi

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/robfig/cron/v3"
)

const (
	LabelFuture = "Holi Falls on:"
	LabelPast   = "Holi Fell on:"
)

type holiService struct {
	calc   *Calculator
	repo   Repository
	cache  *cache.Cache
	logger *slog.Logger
	now    func() time.Time
}

// NewService memoises calculator results in memory for ttl. repo may be
// nil, in which case nothing is persisted.
func NewService(calc *Calculator, repo Repository, ttl time.Duration, logger *slog.Logger) *holiService {
	if logger == nil {
		logger = slog.Default()
	}
	return &holiService{
		calc:   calc,
		repo:   repo,
		cache:  cache.New(ttl, 2*ttl),
		logger: logger,
		now:    time.Now,
	}
}

func (s *holiService) Lookup(ctx context.Context, year int) (Result, error) {
	key := strconv.Itoa(year)
	if v, ok := s.cache.Get(key); ok {
		return v.(Result), nil
	}

	if s.repo != nil {
		res, err := s.repo.Get(ctx, year)
		if err == nil {
			s.cache.SetDefault(key, res)
			return res, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.WarnContext(ctx, "failed to read stored holi date", "year", year, "error", err)
		}
	}

	res, err := s.calc.Date(year)
	if err != nil {
		return Result{}, fmt.Errorf("calculate holi date: %w", err)
	}
	s.cache.SetDefault(key, res)

	if s.repo != nil {
		if err := s.repo.Save(ctx, res); err != nil {
			s.logger.WarnContext(ctx, "failed to store holi date", "year", year, "error", err)
		}
	}
	return res, nil
}

// Label phrases the result in the past tense for years before the current one.
func (s *holiService) Label(year int) string {
	if year < s.now().Year() {
		return LabelPast
	}
	return LabelFuture
}

// Warm precomputes the current and next year.
func (s *holiService) Warm(ctx context.Context) {
	current := s.now().Year()
	for _, year := range []int{current, current + 1} {
		res, err := s.Lookup(ctx, year)
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to warm holi date", "year", year, "error", err)
			continue
		}
		s.logger.DebugContext(ctx, "warmed holi date", "year", year, "date", res.String())
	}
}

// ScheduleWarm runs Warm on the given cron spec. The caller starts and
// stops the returned scheduler.
func (s *holiService) ScheduleWarm(spec string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		s.Warm(context.Background())
	})
	if err != nil {
		return nil, fmt.Errorf("schedule warm-up %q: %w", spec, err)
	}
	return c, nil
}
