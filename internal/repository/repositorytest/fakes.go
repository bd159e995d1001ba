// Package repositorytest provides in-memory repository implementations for
// service-layer tests. The booking fake reproduces the production conflict
// guard, including its serialization of writers, so concurrency tests are
// meaningful.
package repositorytest

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/agendafacil/booking-api/internal/model"
	"github.com/agendafacil/booking-api/internal/scheduling"
)

type ServiceRepo struct {
	mu       sync.Mutex
	Services map[uuid.UUID]*model.Service
}

func NewServiceRepo(services ...*model.Service) *ServiceRepo {
	r := &ServiceRepo{Services: make(map[uuid.UUID]*model.Service)}
	for _, s := range services {
		r.Services[s.ID] = s
	}
	return r
}

func (r *ServiceRepo) Create(ctx context.Context, svc *model.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if svc.ID == uuid.Nil {
		svc.ID = uuid.New()
	}
	r.Services[svc.ID] = svc
	return nil
}

func (r *ServiceRepo) Get(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	svc, ok := r.Services[id]
	if !ok {
		return nil, model.ErrServiceNotFound
	}
	copied := *svc
	return &copied, nil
}

func (r *ServiceRepo) Update(ctx context.Context, svc *model.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Services[svc.ID]; !ok {
		return model.ErrServiceNotFound
	}
	r.Services[svc.ID] = svc
	return nil
}

func (r *ServiceRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	svc, ok := r.Services[id]
	if !ok {
		return model.ErrServiceNotFound
	}
	svc.Active = false
	return nil
}

func (r *ServiceRepo) List(ctx context.Context, activeOnly bool) ([]*model.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Service
	for _, svc := range r.Services {
		if activeOnly && !svc.Active {
			continue
		}
		copied := *svc
		out = append(out, &copied)
	}
	return out, nil
}

type ScheduleRepo struct {
	mu      sync.Mutex
	Hours   []model.WorkingHours
	DayOffs []model.DayOff
}

func (r *ScheduleRepo) ListWorkingHours(ctx context.Context) ([]model.WorkingHours, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.WorkingHours(nil), r.Hours...), nil
}

func (r *ScheduleRepo) UpsertWorkingHours(ctx context.Context, wh *model.WorkingHours) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.Hours {
		if r.Hours[i].Weekday == wh.Weekday {
			wh.ID = r.Hours[i].ID
			r.Hours[i] = *wh
			return nil
		}
	}
	if wh.ID == uuid.Nil {
		wh.ID = uuid.New()
	}
	r.Hours = append(r.Hours, *wh)
	return nil
}

func (r *ScheduleRepo) ListDayOffs(ctx context.Context) ([]model.DayOff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.DayOff(nil), r.DayOffs...), nil
}

func (r *ScheduleRepo) ListDayOffsInRange(ctx context.Context, from, to time.Time) ([]model.DayOff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.DayOff
	for _, d := range r.DayOffs {
		if !d.Date.Before(from) && d.Date.Before(to) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *ScheduleRepo) CreateDayOff(ctx context.Context, d *model.DayOff) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	for i := range r.DayOffs {
		if r.DayOffs[i].Date.Equal(d.Date) {
			r.DayOffs[i] = *d
			return nil
		}
	}
	r.DayOffs = append(r.DayOffs, *d)
	return nil
}

func (r *ScheduleRepo) DeleteDayOff(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.DayOffs {
		if r.DayOffs[i].ID == id {
			r.DayOffs = append(r.DayOffs[:i], r.DayOffs[i+1:]...)
			return nil
		}
	}
	return model.ErrDayOffNotFound
}

// BookingRepo guards slot-occupying writes with one mutex, mirroring the
// per-date advisory lock of the SQL implementation.
type BookingRepo struct {
	mu       sync.Mutex
	Bookings map[uuid.UUID]*model.Booking
	// durations by service, so ListOccupying can fill ServiceDuration the
	// way the SQL join does.
	Durations map[uuid.UUID]int
}

func NewBookingRepo(services ...*model.Service) *BookingRepo {
	r := &BookingRepo{
		Bookings:  make(map[uuid.UUID]*model.Booking),
		Durations: make(map[uuid.UUID]int),
	}
	for _, s := range services {
		r.Durations[s.ID] = s.Duration
	}
	return r
}

func (r *BookingRepo) Get(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.Bookings[id]
	if !ok {
		return nil, model.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *BookingRepo) List(ctx context.Context, filters *model.BookingFilters) ([]*model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Booking
	for _, b := range r.Bookings {
		if filters != nil && filters.Date != nil && !sameDate(b.Date, *filters.Date) {
			continue
		}
		if filters != nil && filters.Status != nil && b.Status != *filters.Status {
			continue
		}
		copied := *b
		out = append(out, &copied)
	}
	return out, nil
}

func (r *BookingRepo) ListOccupying(ctx context.Context, date time.Time) ([]*model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.occupyingLocked(date, uuid.Nil), nil
}

func (r *BookingRepo) occupyingLocked(date time.Time, exclude uuid.UUID) []*model.Booking {
	var out []*model.Booking
	for _, b := range r.Bookings {
		if b.ID == exclude || !b.Status.Occupying() || !sameDate(b.Date, date) {
			continue
		}
		copied := *b
		copied.ServiceDuration = r.Durations[b.ServiceID]
		out = append(out, &copied)
	}
	return out
}

func (r *BookingRepo) CreateConflictFree(ctx context.Context, b *model.Booking, durationMinutes int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkConflictLocked(b.Date, b.Time, durationMinutes, uuid.Nil); err != nil {
		return err
	}
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	copied := *b
	r.Bookings[b.ID] = &copied
	return nil
}

func (r *BookingRepo) SetStatus(ctx context.Context, id uuid.UUID, status model.BookingStatus, notes *string) (*model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.Bookings[id]
	if !ok {
		return nil, model.ErrBookingNotFound
	}
	if b.Status != status {
		if !b.Status.CanTransitionTo(status) {
			return nil, model.ErrInvalidStateTransition
		}
		if !b.Status.Occupying() && status.Occupying() {
			duration := r.Durations[b.ServiceID]
			if err := r.checkConflictLocked(b.Date, b.Time, duration, id); err != nil {
				return nil, err
			}
		}
		b.Status = status
	}
	if notes != nil {
		b.Notes = notes
	}
	copied := *b
	return &copied, nil
}

func (r *BookingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Bookings[id]; !ok {
		return model.ErrBookingNotFound
	}
	delete(r.Bookings, id)
	return nil
}

func (r *BookingRepo) ListConfirmedByDate(ctx context.Context, date time.Time) ([]*model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Booking
	for _, b := range r.Bookings {
		if b.Status == model.BookingStatusConfirmed && sameDate(b.Date, date) {
			copied := *b
			copied.ServiceDuration = r.Durations[b.ServiceID]
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *BookingRepo) checkConflictLocked(date time.Time, startTime string, duration int, exclude uuid.UUID) error {
	start, err := scheduling.ParseTimeOfDay(startTime)
	if err != nil {
		return model.ErrInvalidSchedule
	}
	candidate := scheduling.Interval{Start: start, End: start.Add(duration)}
	for _, b := range r.occupyingLocked(date, exclude) {
		existing, err := scheduling.ParseTimeOfDay(b.Time)
		if err != nil {
			continue
		}
		iv := scheduling.Interval{Start: existing, End: existing.Add(b.ServiceDuration)}
		if candidate.Overlaps(iv) {
			return model.ErrSlotTaken
		}
	}
	return nil
}

type RequestRepo struct {
	mu       sync.Mutex
	Requests map[uuid.UUID]*model.ServiceRequest
	Bookings *BookingRepo
}

func NewRequestRepo(bookings *BookingRepo) *RequestRepo {
	return &RequestRepo{
		Requests: make(map[uuid.UUID]*model.ServiceRequest),
		Bookings: bookings,
	}
}

func (r *RequestRepo) Create(ctx context.Context, req *model.ServiceRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	req.Status = model.RequestStatusPending
	copied := *req
	r.Requests[req.ID] = &copied
	return nil
}

func (r *RequestRepo) Get(ctx context.Context, id uuid.UUID) (*model.ServiceRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.Requests[id]
	if !ok {
		return nil, model.ErrRequestNotFound
	}
	copied := *req
	return &copied, nil
}

func (r *RequestRepo) List(ctx context.Context, status *model.RequestStatus) ([]*model.ServiceRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.ServiceRequest
	for _, req := range r.Requests {
		if status != nil && req.Status != *status {
			continue
		}
		copied := *req
		out = append(out, &copied)
	}
	return out, nil
}

// ApproveAndBook is atomic under the fake's mutex: either the request flips
// to approved and the booking lands, or neither happens.
func (r *RequestRepo) ApproveAndBook(ctx context.Context, requestID uuid.UUID, adminNotes *string, b *model.Booking, durationMinutes int) (*model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.Requests[requestID]
	if !ok {
		return nil, model.ErrRequestNotFound
	}
	if req.Status != model.RequestStatusPending {
		return nil, model.ErrInvalidStateTransition
	}

	if err := r.Bookings.CreateConflictFree(ctx, b, durationMinutes); err != nil {
		return nil, err
	}

	req.Status = model.RequestStatusApproved
	req.AdminNotes = adminNotes
	copied := *b
	return &copied, nil
}

func (r *RequestRepo) Reject(ctx context.Context, requestID uuid.UUID, adminNotes *string) (*model.ServiceRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.Requests[requestID]
	if !ok {
		return nil, model.ErrRequestNotFound
	}
	if req.Status != model.RequestStatusPending {
		return nil, model.ErrInvalidStateTransition
	}
	req.Status = model.RequestStatusRejected
	req.AdminNotes = adminNotes
	copied := *req
	return &copied, nil
}

func (r *RequestRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.Requests, id)
	return nil
}

type UserRepo struct {
	Users map[string]*model.User
}

func NewUserRepo(users ...*model.User) *UserRepo {
	r := &UserRepo{Users: make(map[string]*model.User)}
	for _, u := range users {
		r.Users[u.Email] = u
	}
	return r
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	u, ok := r.Users[email]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return u, nil
}

func (r *UserRepo) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	for _, u := range r.Users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, model.ErrUserNotFound
}

func sameDate(a, b time.Time) bool {
	return a.Format(time.DateOnly) == b.Format(time.DateOnly)
}
