package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
)

type IdemStore interface {
	Set(key string, ttl time.Duration) bool // return true if set, false if exists
	Release(key string)
}

// goCacheIdemStore 基于 go-cache 的进程内实现，过期键由 go-cache 定期清理
type goCacheIdemStore struct {
	c *gocache.Cache
}

func NewGoCacheIdemStore(cleanup time.Duration) IdemStore {
	return &goCacheIdemStore{c: gocache.New(gocache.NoExpiration, cleanup)}
}

func (s *goCacheIdemStore) Set(key string, ttl time.Duration) bool {
	return s.c.Add(key, struct{}{}, ttl) == nil
}

func (s *goCacheIdemStore) Release(key string) {
	s.c.Delete(key)
}

type IdempotencyConfig struct {
	HeaderName string        // Idempotency-Key 的请求头名
	TTL        time.Duration // 同一个 key 的去重窗口
	Store      IdemStore     // 可选外部存储
}

// IdempotencyMiddleware 只对携带 Idempotency-Key 的请求去重。
// 处理失败（非 2xx）时释放 key，客户端可以用同一个 key 重试
func IdempotencyMiddleware(cfg IdempotencyConfig) gin.HandlerFunc {
	if cfg.HeaderName == "" {
		cfg.HeaderName = "Idempotency-Key"
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 10 * time.Second
	}
	store := cfg.Store
	if store == nil {
		store = NewGoCacheIdemStore(time.Minute)
	}
	return func(c *gin.Context) {
		key := strings.TrimSpace(c.GetHeader(cfg.HeaderName))
		if key == "" {
			c.Next()
			return
		}
		key = c.Request.URL.Path + ":" + key
		if !store.Set(key, cfg.TTL) {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "duplicate request"})
			return
		}
		committed := false
		defer func() {
			// 包括 handler panic 的情况
			if !committed {
				store.Release(key)
			}
		}()
		c.Next()
		status := c.Writer.Status()
		committed = status >= http.StatusOK && status < http.StatusMultipleChoices
	}
}
