package router

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/agendafacil/booking-api/internal/handler"
	"github.com/agendafacil/booking-api/internal/middleware"
)

// Handler registers public routes; AdminHandler registers routes that sit
// behind admin authentication. A handler may be both.
type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type AdminHandler interface {
	RegisterAdminRoutes(*gin.RouterGroup)
}

type PublicAdminHandler interface {
	Handler
	AdminHandler
}

type Config struct {
	RPS           float64
	Burst         int
	Timeout       time.Duration
	CORS          middleware.CORSConfig
	MetricsPrefix string
	Logger        zerolog.Logger
}

type Router struct {
	engine        *gin.Engine
	auth          *middleware.AuthMiddleware
	writeLimiter  *middleware.RedisRateLimiter
	h             *handler.Handler
	authH         Handler
	availabilityH Handler
	catalogH      PublicAdminHandler
	bookingH      PublicAdminHandler
	requestH      PublicAdminHandler
	scheduleH     AdminHandler
	registry      *prometheus.Registry
	metrics       *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	writeLimiter *middleware.RedisRateLimiter,
	h *handler.Handler,
	authH Handler,
	availabilityH Handler,
	catalogH PublicAdminHandler,
	bookingH PublicAdminHandler,
	requestH PublicAdminHandler,
	scheduleH AdminHandler,
	registry *prometheus.Registry,
	config Config,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	r := &Router{
		engine:        engine,
		auth:          auth,
		writeLimiter:  writeLimiter,
		h:             h,
		authH:         authH,
		availabilityH: availabilityH,
		catalogH:      catalogH,
		bookingH:      bookingH,
		requestH:      requestH,
		scheduleH:     scheduleH,
		registry:      registry,
		metrics:       newRouterMetrics(config.MetricsPrefix, registry),
	}

	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(config.Logger),
		r.metricsMiddleware(),
		middleware.Timeout(config.Timeout),
	)
	engine.Use(middleware.CORS(config.CORS))

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RPS:   config.RPS,
		Burst: config.Burst,
	})
	engine.Use(rateLimiter.RateLimit())

	return r
}

func (r *Router) Setup() {
	r.engine.GET("/health/live", r.h.LivenessCheck)
	r.engine.GET("/health/ready", r.h.ReadinessCheck)
	r.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})))

	api := r.engine.Group("/api/v1")

	r.setupPublicRoutes(api)

	protected := api.Group("/admin")
	protected.Use(r.auth.Authenticate())
	r.setupAdminRoutes(protected)
}

func (r *Router) setupPublicRoutes(rg *gin.RouterGroup) {
	r.authH.RegisterRoutes(rg)
	r.availabilityH.RegisterRoutes(rg)
	r.catalogH.RegisterRoutes(rg)

	// Public writes additionally pass the per-client Redis limiter.
	writes := rg.Group("")
	if r.writeLimiter != nil {
		writes.Use(r.writeLimiter.Limit())
	}
	r.bookingH.RegisterRoutes(writes)
	r.requestH.RegisterRoutes(writes)
}

func (r *Router) setupAdminRoutes(rg *gin.RouterGroup) {
	r.catalogH.RegisterAdminRoutes(rg)
	r.bookingH.RegisterAdminRoutes(rg)
	r.requestH.RegisterAdminRoutes(rg)
	r.scheduleH.RegisterAdminRoutes(rg)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func newRouterMetrics(prefix string, reg prometheus.Registerer) *routerMetrics {
	m := &routerMetrics{
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: prefix + "_request_duration_seconds",
				Help: "Duration of HTTP requests in seconds",
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
	}
	reg.MustRegister(m.requestDuration, m.requestTotal)
	return m
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		duration := time.Since(start).Seconds()

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}
