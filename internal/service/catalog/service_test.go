package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendafacil/booking-api/internal/model"
	"github.com/agendafacil/booking-api/internal/repository/repositorytest"
	"github.com/agendafacil/booking-api/internal/service/availability"
)

func newTestService(t *testing.T) (*Service, *cache.Cache) {
	t.Helper()
	c := cache.New(time.Minute, time.Minute)
	return NewService(repositorytest.NewServiceRepo(), c, zerolog.Nop()), c
}

func TestCreateAndListServices(t *testing.T) {
	s, _ := newTestService(t)

	svc, err := s.Create(context.Background(), &model.CreateServiceRequest{
		Name:     "Cleaning",
		Duration: 60,
	})
	require.NoError(t, err)
	assert.True(t, svc.Active)

	inactive := false
	_, err = s.Create(context.Background(), &model.CreateServiceRequest{
		Name:     "Old offer",
		Duration: 30,
		Active:   &inactive,
	})
	require.NoError(t, err)

	active, err := s.List(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	all, err := s.List(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestUpdateServiceInvalidatesCache(t *testing.T) {
	s, c := newTestService(t)

	svc, err := s.Create(context.Background(), &model.CreateServiceRequest{Name: "Cleaning", Duration: 60})
	require.NoError(t, err)

	c.SetDefault(availability.CacheKeyService(svc.ID), svc)

	name := "Deep cleaning"
	updated, err := s.Update(context.Background(), svc.ID, &model.UpdateServiceRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)

	_, found := c.Get(availability.CacheKeyService(svc.ID))
	assert.False(t, found)
}

func TestUpdateServiceRejectsBadDuration(t *testing.T) {
	s, _ := newTestService(t)

	svc, err := s.Create(context.Background(), &model.CreateServiceRequest{Name: "Cleaning", Duration: 60})
	require.NoError(t, err)

	for _, d := range []int{0, -30} {
		_, err = s.Update(context.Background(), svc.ID, &model.UpdateServiceRequest{Duration: &d})
		assert.ErrorIs(t, err, model.ErrInvalidDuration)
	}

	got, err := s.Get(context.Background(), svc.ID)
	require.NoError(t, err)
	assert.Equal(t, 60, got.Duration)
}

func TestDeactivateService(t *testing.T) {
	s, _ := newTestService(t)

	svc, err := s.Create(context.Background(), &model.CreateServiceRequest{Name: "Cleaning", Duration: 60})
	require.NoError(t, err)

	require.NoError(t, s.Deactivate(context.Background(), svc.ID))

	// Still readable by ID for history, gone from the active list.
	got, err := s.Get(context.Background(), svc.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)

	active, err := s.List(context.Background(), true)
	require.NoError(t, err)
	assert.Empty(t, active)
}
