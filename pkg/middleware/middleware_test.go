package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiterDeniesOverLimit(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs := NewPrometheusObserver(reg)
	rl := NewRateLimiter(RateLimiterConfig{
		Rate:          "100-M",
		PerRouteRates: map[string]string{"/api/auth/login": "2-M"},
		AddHeaders:    true,
	}, nil).WithObserver(obs)

	r := gin.New()
	r.Use(rl.Middleware())
	r.POST("/api/auth/login", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/police/stats", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/api/auth/login", "", nil).Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/api/auth/login", "", nil).Code)
	w := serve(r, http.MethodPost, "/api/auth/login", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"Too Many Requests"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, 2.0, testutil.ToFloat64(obs.allow.WithLabelValues("/api/auth/login")))
	assert.Equal(t, 1.0, testutil.ToFloat64(obs.deny.WithLabelValues("/api/auth/login")))
}

func TestRateLimiterRouteOverrideHasOwnBucket(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{
		Rate:          "1-M",
		PerRouteRates: map[string]string{"/api/auth/login": "2-M"},
	}, nil)

	r := gin.New()
	r.Use(rl.Middleware())
	r.POST("/api/auth/login", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/police/stats", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/geo-zones", func(c *gin.Context) { c.Status(http.StatusOK) })

	// 默认额度用完不影响登录的单独额度
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/api/police/stats", "", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(r, http.MethodGet, "/api/geo-zones", "", nil).Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/api/auth/login", "", nil).Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/api/auth/login", "", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(r, http.MethodPost, "/api/auth/login", "", nil).Code)
}

func TestRateLimiterIPAndRouteIdentifier(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: "1-M", Identifier: "ip+route"}, nil)

	r := gin.New()
	r.Use(rl.Middleware())
	r.GET("/api/police/stats", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/geo-zones", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/api/police/stats", "", nil).Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/api/geo-zones", "", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(r, http.MethodGet, "/api/geo-zones", "", nil).Code)
}

func TestRateLimiterSkipPaths(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: "1-M", SkipPaths: []string{"/health"}}, nil)
	r := gin.New()
	r.Use(rl.Middleware())
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/health", "", nil).Code)
	}
}

func TestNewLimiterStoreDefaultsToMemory(t *testing.T) {
	store, err := NewLimiterStore("", "")
	require.NoError(t, err)
	assert.NotNil(t, store)
}

func TestIdempotencyWithoutKeyPassesThrough(t *testing.T) {
	r := gin.New()
	r.POST("/api/tourist/panic/:id", IdempotencyMiddleware(IdempotencyConfig{TTL: time.Minute}), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	// 没有 key 时连续求助都应放行
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/api/tourist/panic/TID-1", "", nil).Code)
	}
}

func TestIdempotencyHeaderKey(t *testing.T) {
	r := gin.New()
	r.POST("/api/police/alerts", IdempotencyMiddleware(IdempotencyConfig{TTL: time.Minute}), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	h1 := map[string]string{"Idempotency-Key": "k-1"}
	h2 := map[string]string{"Idempotency-Key": "k-2"}
	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/api/police/alerts", `{"a":1}`, h1).Code)
	w := serve(r, http.MethodPost, "/api/police/alerts", `{"a":2}`, h1)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"error":"duplicate request"}`, w.Body.String())
	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/api/police/alerts", `{"a":1}`, h2).Code)
}

func TestIdempotencyReleasesKeyOnFailure(t *testing.T) {
	fail := true
	r := gin.New()
	r.Use(Recovery())
	r.POST("/api/tourist/panic/:id", IdempotencyMiddleware(IdempotencyConfig{TTL: time.Minute}), func(c *gin.Context) {
		if fail {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		c.Status(http.StatusOK)
	})
	h := map[string]string{"Idempotency-Key": "press-1"}

	assert.Equal(t, http.StatusInternalServerError, serve(r, http.MethodPost, "/api/tourist/panic/TID-1", "", h).Code)
	fail = false
	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/api/tourist/panic/TID-1", "", h).Code)
	assert.Equal(t, http.StatusConflict, serve(r, http.MethodPost, "/api/tourist/panic/TID-1", "", h).Code)
}

func TestIdempotencyReleasesKeyOnPanic(t *testing.T) {
	boom := true
	r := gin.New()
	r.Use(Recovery())
	r.POST("/x", IdempotencyMiddleware(IdempotencyConfig{}), func(c *gin.Context) {
		if boom {
			panic("store down")
		}
		c.Status(http.StatusOK)
	})
	h := map[string]string{"Idempotency-Key": "k"}

	assert.Equal(t, http.StatusInternalServerError, serve(r, http.MethodPost, "/x", "", h).Code)
	boom = false
	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/x", "", h).Code)
}

func TestRecoveryReturnsEnvelope(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger("/api"), Recovery())
	r.GET("/api/boom", func(c *gin.Context) { panic("boom") })

	w := serve(r, http.MethodGet, "/api/boom", "", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String())
}
