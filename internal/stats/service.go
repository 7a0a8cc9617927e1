package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/catcoin/pos-backend/pkg/db/models"
	pkgerrors "github.com/catcoin/pos-backend/pkg/errors"
)

// Service serves the dashboard read side of the daily aggregate.
type Service interface {
	Today(ctx context.Context) (*models.DailyStat, error)
	ForDate(ctx context.Context, date string) (*models.DailyStat, error)
	Range(ctx context.Context, start, end string) ([]models.DailyStat, error)
}

type service struct {
	repo Repository
	loc  *time.Location
	now  func() time.Time
}

// NewService builds the aggregate read service. Dates are calendar days in loc.
func NewService(repo Repository, loc *time.Location) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("stats repository required")
	}
	if loc == nil {
		loc = time.UTC
	}
	return &service{repo: repo, loc: loc, now: time.Now}, nil
}

func (s *service) Today(ctx context.Context) (*models.DailyStat, error) {
	return s.ForDate(ctx, DateKey(s.now(), s.loc))
}

func (s *service) ForDate(ctx context.Context, date string) (*models.DailyStat, error) {
	if _, err := ParseDate(date); err != nil {
		return nil, err
	}
	row, err := s.repo.GetByDate(ctx, date)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load daily stats")
	}
	return row, nil
}

func (s *service) Range(ctx context.Context, start, end string) ([]models.DailyStat, error) {
	from, err := ParseDate(start)
	if err != nil {
		return nil, err
	}
	to, err := ParseDate(end)
	if err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "end date must not be before start date")
	}
	rows, err := s.repo.GetRange(ctx, start, end)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load daily stats range")
	}
	return rows, nil
}

// DateKey returns the aggregate key for t as a calendar day in loc.
func DateKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DateLayout)
}

// ParseDate validates a YYYY-MM-DD key.
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "date must be formatted as YYYY-MM-DD").
			WithDetails(map[string]any{"date": date})
	}
	return t, nil
}

// DayBounds returns the [start, end) instants of the calendar day date in loc.
func DayBounds(date string, loc *time.Location) (time.Time, time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "date must be formatted as YYYY-MM-DD").
			WithDetails(map[string]any{"date": date})
	}
	return t, t.AddDate(0, 0, 1), nil
}
