package availability

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendafacil/booking-api/internal/metrics"
	"github.com/agendafacil/booking-api/internal/model"
	"github.com/agendafacil/booking-api/internal/repository/repositorytest"
)

// 2024-06-04 is a Tuesday.
var tuesday = time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, duration int) (*Service, *model.Service, *repositorytest.BookingRepo, *repositorytest.ScheduleRepo) {
	t.Helper()

	svc := &model.Service{ID: uuid.New(), Name: "Cleaning", Duration: duration, Active: true}
	serviceRepo := repositorytest.NewServiceRepo(svc)
	scheduleRepo := &repositorytest.ScheduleRepo{
		Hours: []model.WorkingHours{
			{Weekday: 2, StartTime: "08:00", EndTime: "12:00", Active: true},
		},
	}
	bookingRepo := repositorytest.NewBookingRepo(svc)

	s := NewService(
		serviceRepo, scheduleRepo, bookingRepo,
		cache.New(time.Minute, time.Minute),
		zerolog.Nop(),
		metrics.New(prometheus.NewRegistry()),
	)
	return s, svc, bookingRepo, scheduleRepo
}

func TestGetAvailabilityOpenDay(t *testing.T) {
	s, svc, _, _ := newTestService(t, 60)

	avail, err := s.GetAvailability(context.Background(), svc.ID, tuesday)
	require.NoError(t, err)

	assert.True(t, avail.Open)
	assert.Equal(t, []string{"08:00", "09:00", "10:00", "11:00"}, avail.TimeSlots)
}

func TestGetAvailabilityExcludesBookedSlots(t *testing.T) {
	s, svc, bookings, _ := newTestService(t, 60)

	err := bookings.CreateConflictFree(context.Background(), &model.Booking{
		ServiceID: svc.ID,
		Date:      tuesday,
		Time:      "09:00",
		Status:    model.BookingStatusPending,
	}, svc.Duration)
	require.NoError(t, err)

	avail, err := s.GetAvailability(context.Background(), svc.ID, tuesday)
	require.NoError(t, err)
	assert.Equal(t, []string{"08:00", "10:00", "11:00"}, avail.TimeSlots)
}

func TestGetAvailabilityCancelledBookingFreesSlot(t *testing.T) {
	s, svc, bookings, _ := newTestService(t, 60)

	b := &model.Booking{ServiceID: svc.ID, Date: tuesday, Time: "09:00", Status: model.BookingStatusPending}
	require.NoError(t, bookings.CreateConflictFree(context.Background(), b, svc.Duration))

	_, err := bookings.SetStatus(context.Background(), b.ID, model.BookingStatusCancelled, nil)
	require.NoError(t, err)

	avail, err := s.GetAvailability(context.Background(), svc.ID, tuesday)
	require.NoError(t, err)
	assert.Contains(t, avail.TimeSlots, "09:00")
}

func TestGetAvailabilityClosedWeekday(t *testing.T) {
	s, svc, _, _ := newTestService(t, 60)

	wednesday := tuesday.AddDate(0, 0, 1)
	avail, err := s.GetAvailability(context.Background(), svc.ID, wednesday)
	require.NoError(t, err)

	assert.False(t, avail.Open)
	assert.Equal(t, model.ClosedReasonNoHours, avail.Reason)
	assert.Empty(t, avail.TimeSlots)
}

func TestGetAvailabilityDayOff(t *testing.T) {
	s, svc, _, schedule := newTestService(t, 60)

	reason := "holiday"
	schedule.DayOffs = []model.DayOff{{ID: uuid.New(), Date: tuesday, Reason: &reason}}

	avail, err := s.GetAvailability(context.Background(), svc.ID, tuesday)
	require.NoError(t, err)

	assert.False(t, avail.Open)
	assert.Equal(t, model.ClosedReasonDayOff, avail.Reason)
}

func TestGetAvailabilityInactiveService(t *testing.T) {
	s, svc, _, _ := newTestService(t, 60)
	svc.Active = false

	_, err := s.GetAvailability(context.Background(), svc.ID, tuesday)
	assert.ErrorIs(t, err, model.ErrServiceNotFound)
}

func TestGetAvailabilityIdempotent(t *testing.T) {
	s, svc, _, _ := newTestService(t, 90)

	first, err := s.GetAvailability(context.Background(), svc.ID, tuesday)
	require.NoError(t, err)
	second, err := s.GetAvailability(context.Background(), svc.ID, tuesday)
	require.NoError(t, err)

	assert.Equal(t, first.TimeSlots, second.TimeSlots)
}

func TestCheckSlot(t *testing.T) {
	s, svc, bookings, _ := newTestService(t, 60)

	require.NoError(t, bookings.CreateConflictFree(context.Background(), &model.Booking{
		ServiceID: svc.ID,
		Date:      tuesday,
		Time:      "10:00",
		Status:    model.BookingStatusConfirmed,
	}, svc.Duration))

	tests := []struct {
		name    string
		date    time.Time
		time    string
		wantErr error
	}{
		{"free slot", tuesday, "08:00", nil},
		{"booked slot", tuesday, "10:00", model.ErrSlotTaken},
		{"not a generated slot", tuesday, "08:30", model.ErrOutOfHours},
		{"after closing", tuesday, "13:00", model.ErrOutOfHours},
		{"closed weekday", tuesday.AddDate(0, 0, 1), "08:00", model.ErrDayClosed},
		{"malformed time", tuesday, "8am", model.ErrInvalidSchedule},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolved, err := s.CheckSlot(context.Background(), svc.ID, tt.date, tt.time)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, svc.Duration, resolved.Duration)
		})
	}
}

// A schedule row that fails to parse closes its weekday instead of
// producing garbage slots.
func TestAvailabilityMalformedHoursFailClosed(t *testing.T) {
	s, svc, _, schedule := newTestService(t, 60)
	schedule.Hours = []model.WorkingHours{
		{Weekday: 2, StartTime: "junk", EndTime: "12:00", Active: true},
	}

	avail, err := s.GetAvailability(context.Background(), svc.ID, tuesday)
	require.NoError(t, err)
	assert.False(t, avail.Open)
	assert.Equal(t, model.ClosedReasonNoHours, avail.Reason)
}

func TestScheduleCacheServedUntilInvalidated(t *testing.T) {
	s, svc, _, schedule := newTestService(t, 60)

	// Prime the cache.
	_, err := s.GetAvailability(context.Background(), svc.ID, tuesday)
	require.NoError(t, err)

	// A repo change alone is invisible until the cache entry is dropped,
	// which is what the admin schedule service does on write.
	schedule.Hours = nil
	avail, err := s.GetAvailability(context.Background(), svc.ID, tuesday)
	require.NoError(t, err)
	assert.True(t, avail.Open)

	s.cache.Delete(CacheKeyWorkingHours)
	avail, err = s.GetAvailability(context.Background(), svc.ID, tuesday)
	require.NoError(t, err)
	assert.False(t, avail.Open)
}

func TestUnknownServiceID(t *testing.T) {
	s, _, _, _ := newTestService(t, 60)

	_, err := s.GetAvailability(context.Background(), uuid.New(), tuesday)
	assert.ErrorIs(t, err, model.ErrServiceNotFound)
}
