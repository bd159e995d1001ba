package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/agendafacil/booking-api/internal/metrics"
	"github.com/agendafacil/booking-api/internal/model"
	"github.com/agendafacil/booking-api/internal/repository"
	"github.com/agendafacil/booking-api/internal/scheduling"
)

// Cache keys shared with the admin services that invalidate them on write.
const (
	CacheKeyWorkingHours = "schedule:working_hours"
	CacheKeyDayOffs      = "schedule:day_offs"
)

func CacheKeyService(id uuid.UUID) string {
	return "catalog:service:" + id.String()
}

// Service answers "what slots are free for service S on date D?". It is the
// single source of truth for slot validity: every booking-creating path
// calls CheckSlot before (and the repository re-checks conflicts under
// lock). Reads are side-effect free and idempotent.
type Service struct {
	services repository.ServiceRepository
	schedule repository.ScheduleRepository
	bookings repository.BookingRepository
	cache    *cache.Cache
	logger   zerolog.Logger
	metrics  *metrics.Metrics
}

func NewService(
	services repository.ServiceRepository,
	schedule repository.ScheduleRepository,
	bookings repository.BookingRepository,
	c *cache.Cache,
	logger zerolog.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		services: services,
		schedule: schedule,
		bookings: bookings,
		cache:    c,
		logger:   logger,
		metrics:  m,
	}
}

// GetAvailability computes the free slots for a service on a date.
func (s *Service) GetAvailability(ctx context.Context, serviceID uuid.UUID, date time.Time) (*model.Availability, error) {
	s.metrics.AvailabilityQueries.Inc()

	svc, err := s.resolveService(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	day, free, _, err := s.compute(ctx, svc, date)
	if err != nil {
		return nil, err
	}
	if !day.Open {
		return &model.Availability{Open: false, Reason: day.Reason, TimeSlots: []string{}}, nil
	}
	return &model.Availability{Open: true, TimeSlots: scheduling.Strings(free)}, nil
}

// CheckSlot validates that startTime is a bookable slot for the service on
// the date. It returns the resolved service so callers reuse its duration
// and does not reserve anything; the repository repeats the conflict check
// under the per-date lock when the booking is written.
func (s *Service) CheckSlot(ctx context.Context, serviceID uuid.UUID, date time.Time, startTime string) (*model.Service, error) {
	svc, err := s.resolveService(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	t, err := scheduling.ParseTimeOfDay(startTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidSchedule, err)
	}

	day, free, all, err := s.compute(ctx, svc, date)
	if err != nil {
		return nil, err
	}
	if !day.Open {
		return nil, model.ErrDayClosed
	}
	if !contains(all, t) {
		return nil, model.ErrOutOfHours
	}
	if !contains(free, t) {
		return nil, model.ErrSlotTaken
	}
	return svc, nil
}

func (s *Service) resolveService(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	key := CacheKeyService(id)
	if v, ok := s.cache.Get(key); ok {
		svc := v.(*model.Service)
		if !svc.Active {
			return nil, model.ErrServiceNotFound
		}
		return svc, nil
	}

	svc, err := s.services.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault(key, svc)
	if !svc.Active {
		return nil, model.ErrServiceNotFound
	}
	return svc, nil
}

// compute resolves the calendar for the date and, when open, the candidate
// and free slot sequences. Bookings are always read fresh; only the weekly
// schedule and day-off table are cached.
func (s *Service) compute(ctx context.Context, svc *model.Service, date time.Time) (scheduling.DayStatus, []scheduling.TimeOfDay, []scheduling.TimeOfDay, error) {
	cal, err := s.calendar(ctx)
	if err != nil {
		return scheduling.DayStatus{}, nil, nil, err
	}

	day := cal.Resolve(date)
	if !day.Open {
		return day, nil, nil, nil
	}

	all := scheduling.Slots(day.Window, svc.Duration)

	occupying, err := s.bookings.ListOccupying(ctx, date)
	if err != nil {
		return scheduling.DayStatus{}, nil, nil, err
	}
	intervals := make([]scheduling.Interval, 0, len(occupying))
	for _, b := range occupying {
		start, err := scheduling.ParseTimeOfDay(b.Time)
		if err != nil {
			s.logger.Warn().Str("booking_id", b.ID.String()).Str("time", b.Time).
				Msg("booking with unparseable time ignored by availability")
			continue
		}
		intervals = append(intervals, scheduling.Interval{Start: start, End: start.Add(b.ServiceDuration)})
	}

	free := scheduling.NewConflictIndex(intervals).Free(all, svc.Duration)
	return day, free, all, nil
}

func (s *Service) calendar(ctx context.Context) (*scheduling.Calendar, error) {
	hours, err := s.workingHours(ctx)
	if err != nil {
		return nil, err
	}
	dayOffs, err := s.dayOffs(ctx)
	if err != nil {
		return nil, err
	}
	return scheduling.NewCalendar(hours, dayOffs), nil
}

func (s *Service) workingHours(ctx context.Context) ([]model.WorkingHours, error) {
	if v, ok := s.cache.Get(CacheKeyWorkingHours); ok {
		return v.([]model.WorkingHours), nil
	}
	hours, err := s.schedule.ListWorkingHours(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load working hours: %w", err)
	}
	s.cache.SetDefault(CacheKeyWorkingHours, hours)
	return hours, nil
}

func (s *Service) dayOffs(ctx context.Context) ([]model.DayOff, error) {
	if v, ok := s.cache.Get(CacheKeyDayOffs); ok {
		return v.([]model.DayOff), nil
	}
	dayOffs, err := s.schedule.ListDayOffs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load day offs: %w", err)
	}
	s.cache.SetDefault(CacheKeyDayOffs, dayOffs)
	return dayOffs, nil
}

func contains(slots []scheduling.TimeOfDay, t scheduling.TimeOfDay) bool {
	for _, s := range slots {
		if s == t {
			return true
		}
	}
	return false
}
