package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/agendafacil/booking-api/internal/model"
	"github.com/agendafacil/booking-api/internal/repository"
	"github.com/agendafacil/booking-api/internal/service/availability"
)

// Service manages the service catalog. Writes invalidate the availability
// cache entry for the touched service.
type Service struct {
	repo   repository.ServiceRepository
	cache  *cache.Cache
	logger zerolog.Logger
}

func NewService(repo repository.ServiceRepository, c *cache.Cache, logger zerolog.Logger) *Service {
	return &Service{repo: repo, cache: c, logger: logger}
}

func (s *Service) Create(ctx context.Context, in *model.CreateServiceRequest) (*model.Service, error) {
	svc := &model.Service{
		Name:        in.Name,
		Description: in.Description,
		Duration:    in.Duration,
		Price:       in.Price,
		Active:      true,
	}
	if in.Active != nil {
		svc.Active = *in.Active
	}
	if err := s.repo.Create(ctx, svc); err != nil {
		return nil, err
	}
	s.logger.Info().Str("service_id", svc.ID.String()).Str("name", svc.Name).Msg("service created")
	return svc, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, activeOnly bool) ([]*model.Service, error) {
	return s.repo.List(ctx, activeOnly)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in *model.UpdateServiceRequest) (*model.Service, error) {
	svc, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		svc.Name = *in.Name
	}
	if in.Description != nil {
		svc.Description = *in.Description
	}
	if in.Duration != nil {
		if *in.Duration <= 0 {
			return nil, fmt.Errorf("%w: got %d", model.ErrInvalidDuration, *in.Duration)
		}
		svc.Duration = *in.Duration
	}
	if in.Price != nil {
		svc.Price = in.Price
	}
	if in.Active != nil {
		svc.Active = *in.Active
	}

	if err := s.repo.Update(ctx, svc); err != nil {
		return nil, err
	}
	s.cache.Delete(availability.CacheKeyService(id))
	return svc, nil
}

// Deactivate soft-deletes a service: existing bookings keep their
// reference, new availability queries stop offering it.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return err
	}
	s.cache.Delete(availability.CacheKeyService(id))
	s.logger.Info().Str("service_id", id.String()).Msg("service deactivated")
	return nil
}
