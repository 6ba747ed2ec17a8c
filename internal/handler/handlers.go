package handlers

import (
	"time"

	"github.com/Sharruk/TravelGuard/pkg/metrics"
	"github.com/Sharruk/TravelGuard/pkg/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handlers struct {
	db          *gorm.DB
	apiPrefix   string
	metrics     *metrics.Metrics
	limiter     *middleware.RateLimiter
	idempotency middleware.IdempotencyConfig
}

type Option func(*Handlers)

// WithAPIPrefix 默认 /api
func WithAPIPrefix(prefix string) Option {
	return func(h *Handlers) { h.apiPrefix = prefix }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handlers) { h.metrics = m }
}

// WithRateLimiter 对登录、注册、一键求助限流
func WithRateLimiter(rl *middleware.RateLimiter) Option {
	return func(h *Handlers) { h.limiter = rl }
}

func WithIdempotencyTTL(ttl time.Duration) Option {
	return func(h *Handlers) { h.idempotency.TTL = ttl }
}

func NewHandlers(db *gorm.DB, opts ...Option) *Handlers {
	h := &Handlers{
		db:        db,
		apiPrefix: "/api",
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handlers) Register(engine *gin.Engine) {
	// Register System Routes
	h.registerSystemRoutes(engine)

	r := engine.Group(h.apiPrefix)

	// Register Business Module Routes
	h.registerAuthRoutes(r)
	h.registerTouristRoutes(r)
	h.registerPoliceRoutes(r)
	h.registerZoneRoutes(r)
}

func (h *Handlers) registerSystemRoutes(engine *gin.Engine) {
	engine.GET("/health", h.HealthCheck)
	if h.metrics != nil {
		engine.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	}
}

// Auth Module
func (h *Handlers) registerAuthRoutes(r *gin.RouterGroup) {
	auth := r.Group("/auth", h.rateLimited()...)
	{
		auth.POST("/login", h.handleLogin)

		auth.POST("/register", h.handleRegister)
	}
}

// Tourist Module
func (h *Handlers) registerTouristRoutes(r *gin.RouterGroup) {
	tourist := r.Group("/tourist")
	{
		tourist.GET("/profile/:userId", h.handleGetProfile)

		tourist.PUT("/location/:touristId", h.handleUpdateLocation)

		panicChain := append(h.rateLimited(), middleware.IdempotencyMiddleware(h.idempotency), h.handlePanic)
		tourist.POST("/panic/:touristId", panicChain...)

		tourist.GET("/alerts/:touristId", h.handleTouristAlerts)

		tourist.POST("/itinerary/:touristId", h.handleAddItinerary)

		tourist.PUT("/contacts/:touristId", h.handleUpdateContacts)
	}
}

// Police Module
func (h *Handlers) registerPoliceRoutes(r *gin.RouterGroup) {
	police := r.Group("/police")
	{
		police.GET("/tourists", h.handleListTourists)

		police.GET("/alerts", h.handleListActiveAlerts)

		police.POST("/alerts", middleware.IdempotencyMiddleware(h.idempotency), h.handleCreateAlert)

		police.PUT("/alert/:alertId", h.handleUpdateAlert)

		police.GET("/stats", h.handleStats)

		police.GET("/reports/download", h.handleDownloadReport)
	}
}

// GeoZone Module
func (h *Handlers) registerZoneRoutes(r *gin.RouterGroup) {
	zones := r.Group("/geo-zones")
	{
		zones.GET("", h.handleListZones)

		zones.POST("", h.handleCreateZone)
	}
}

func (h *Handlers) rateLimited() []gin.HandlerFunc {
	if h.limiter == nil {
		return nil
	}
	return []gin.HandlerFunc{h.limiter.Middleware()}
}

func (h *Handlers) recordBusiness(operation string, err error) {
	if h.metrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	h.metrics.RecordBusiness(operation, status)
}
