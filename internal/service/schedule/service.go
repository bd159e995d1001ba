package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/agendafacil/booking-api/internal/model"
	"github.com/agendafacil/booking-api/internal/repository"
	"github.com/agendafacil/booking-api/internal/scheduling"
	"github.com/agendafacil/booking-api/internal/service/availability"
)

// Service manages the weekly working hours and day-off exceptions. Writes
// invalidate the availability service's calendar cache.
type Service struct {
	repo   repository.ScheduleRepository
	cache  *cache.Cache
	logger zerolog.Logger
}

func NewService(repo repository.ScheduleRepository, c *cache.Cache, logger zerolog.Logger) *Service {
	return &Service{repo: repo, cache: c, logger: logger}
}

func (s *Service) ListWorkingHours(ctx context.Context) ([]model.WorkingHours, error) {
	return s.repo.ListWorkingHours(ctx)
}

// UpsertWorkingHours stores the window for a weekday. Times must parse and
// start must precede end; rejecting here keeps the fail-closed calendar
// path a defense, not the normal case.
func (s *Service) UpsertWorkingHours(ctx context.Context, in *model.UpsertWorkingHoursRequest) (*model.WorkingHours, error) {
	start, err := scheduling.ParseTimeOfDay(in.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidSchedule, err)
	}
	end, err := scheduling.ParseTimeOfDay(in.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidSchedule, err)
	}
	if start >= end {
		return nil, fmt.Errorf("%w: start %s is not before end %s", model.ErrInvalidSchedule, in.StartTime, in.EndTime)
	}

	wh := &model.WorkingHours{
		Weekday:   in.Weekday,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
		Active:    true,
	}
	if in.Active != nil {
		wh.Active = *in.Active
	}
	if err := s.repo.UpsertWorkingHours(ctx, wh); err != nil {
		return nil, err
	}
	s.cache.Delete(availability.CacheKeyWorkingHours)

	s.logger.Info().Int("weekday", wh.Weekday).
		Str("start", wh.StartTime).Str("end", wh.EndTime).Bool("active", wh.Active).
		Msg("working hours updated")
	return wh, nil
}

func (s *Service) ListDayOffs(ctx context.Context) ([]model.DayOff, error) {
	return s.repo.ListDayOffs(ctx)
}

// ListDayOffsInRange returns day offs with from <= date < to.
func (s *Service) ListDayOffsInRange(ctx context.Context, fromStr, toStr string) ([]model.DayOff, error) {
	from, err := time.Parse(time.DateOnly, fromStr)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", model.ErrInvalidSchedule, fromStr)
	}
	to, err := time.Parse(time.DateOnly, toStr)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", model.ErrInvalidSchedule, toStr)
	}
	if !to.After(from) {
		return nil, fmt.Errorf("%w: %s is not before %s", model.ErrInvalidSchedule, fromStr, toStr)
	}
	return s.repo.ListDayOffsInRange(ctx, from, to)
}

func (s *Service) CreateDayOff(ctx context.Context, in *model.CreateDayOffRequest) (*model.DayOff, error) {
	date, err := time.Parse(time.DateOnly, in.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", model.ErrInvalidSchedule, in.Date)
	}

	d := &model.DayOff{Date: date, Reason: in.Reason}
	if err := s.repo.CreateDayOff(ctx, d); err != nil {
		return nil, err
	}
	s.cache.Delete(availability.CacheKeyDayOffs)

	s.logger.Info().Str("date", in.Date).Msg("day off registered")
	return d, nil
}

func (s *Service) DeleteDayOff(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteDayOff(ctx, id); err != nil {
		return err
	}
	s.cache.Delete(availability.CacheKeyDayOffs)
	return nil
}
