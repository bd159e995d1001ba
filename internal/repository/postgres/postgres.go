package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/agendafacil/booking-api/internal/repository"
)

type serviceRepository struct {
	db *sqlx.DB
}

type scheduleRepository struct {
	db *sqlx.DB
}

type bookingRepository struct {
	BaseRepository
}

type serviceRequestRepository struct {
	BaseRepository
}

type userRepository struct {
	db *sqlx.DB
}

func NewServiceRepository(db *sqlx.DB) repository.ServiceRepository {
	return &serviceRepository{db: db}
}

func NewScheduleRepository(db *sqlx.DB) repository.ScheduleRepository {
	return &scheduleRepository{db: db}
}

func NewBookingRepository(db *sqlx.DB) repository.BookingRepository {
	return &bookingRepository{BaseRepository: NewBaseRepository(db)}
}

func NewServiceRequestRepository(db *sqlx.DB) repository.ServiceRequestRepository {
	return &serviceRequestRepository{BaseRepository: NewBaseRepository(db)}
}

func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{db: db}
}
