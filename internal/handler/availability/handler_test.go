package availability

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendafacil/booking-api/internal/metrics"
	"github.com/agendafacil/booking-api/internal/model"
	"github.com/agendafacil/booking-api/internal/repository/repositorytest"
	availabilityService "github.com/agendafacil/booking-api/internal/service/availability"
)

func setupRouter(t *testing.T) (*gin.Engine, *model.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := &model.Service{ID: uuid.New(), Name: "Cleaning", Duration: 60, Active: true}
	s := availabilityService.NewService(
		repositorytest.NewServiceRepo(svc),
		&repositorytest.ScheduleRepo{
			Hours: []model.WorkingHours{
				{Weekday: 2, StartTime: "08:00", EndTime: "10:00", Active: true},
			},
		},
		repositorytest.NewBookingRepo(svc),
		cache.New(time.Minute, time.Minute),
		zerolog.Nop(),
		metrics.New(prometheus.NewRegistry()),
	)

	r := gin.New()
	NewHandler(s).RegisterRoutes(r.Group("/api/v1"))
	return r, svc
}

func doGet(t *testing.T, r *gin.Engine, url string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	r.ServeHTTP(w, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestGetAvailability(t *testing.T) {
	r, svc := setupRouter(t)

	w, body := doGet(t, r, "/api/v1/availability?service_id="+svc.ID.String()+"&date=2024-06-04")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", body["status"])

	data := body["data"].(map[string]interface{})
	assert.Equal(t, true, data["open"])
	assert.Equal(t, []interface{}{"08:00", "09:00"}, data["time_slots"])
}

func TestGetAvailabilityClosedDay(t *testing.T) {
	r, svc := setupRouter(t)

	w, body := doGet(t, r, "/api/v1/availability?service_id="+svc.ID.String()+"&date=2024-06-05")
	assert.Equal(t, http.StatusOK, w.Code)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, false, data["open"])
	assert.Equal(t, "no_working_hours", data["reason"])
	assert.Equal(t, []interface{}{}, data["time_slots"])
}

func TestGetAvailabilityBadInput(t *testing.T) {
	r, svc := setupRouter(t)

	tests := []struct {
		name string
		url  string
		code int
	}{
		{"missing service_id", "/api/v1/availability?date=2024-06-04", http.StatusBadRequest},
		{"bad service_id", "/api/v1/availability?service_id=nope&date=2024-06-04", http.StatusBadRequest},
		{"bad date", "/api/v1/availability?service_id=" + svc.ID.String() + "&date=04/06/2024", http.StatusBadRequest},
		{"unknown service", "/api/v1/availability?service_id=" + uuid.NewString() + "&date=2024-06-04", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := doGet(t, r, tt.url)
			assert.Equal(t, tt.code, w.Code)
			assert.Equal(t, "error", body["status"])
		})
	}
}
