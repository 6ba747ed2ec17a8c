package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/Sharruk/TravelGuard/pkg/logger"
	"github.com/Sharruk/TravelGuard/pkg/util"
)

type Config struct {
	DBDriver        string `env:"DB_DRIVER"`
	DSN             string `env:"DATABASE_URL"`
	Port            string `env:"PORT"`
	Mode            string `env:"MODE"`
	APIPrefix       string `env:"API_PREFIX"`
	Log             logger.LogConfig
	SeedDemo        bool              `env:"SEED_DEMO"`
	RateLimit       string            `env:"RATE_LIMIT"`
	RateLimitRoutes map[string]string `env:"RATE_LIMIT_ROUTES"` // "/api/auth/login=5-M,..."
	RateLimitKey    string            `env:"RATE_LIMIT_IDENTIFIER"`
	RedisAddr       string            `env:"REDIS_ADDR"`
	RedisPassword   string            `env:"REDIS_PASSWORD"`
	IdempotencyTTL  time.Duration     `env:"IDEMPOTENCY_TTL"`
	CORSOrigins     []string          `env:"CORS_ORIGINS"`
	BackupEnabled   bool              `env:"BACKUP_ENABLED"`
	BackupPath      string            `env:"BACKUP_PATH"`
	BackupSchedule  string            `env:"BACKUP_SCHEDULE"`
}

var GlobalConfig *Config

// Addr 监听地址
func (c *Config) Addr() string {
	return ":" + c.Port
}

func Load() error {
	// 1. 根据环境加载 .env 文件
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}
	if err := util.LoadEnv(env); err != nil {
		log.Printf("Failed to load .env file: %v", err)
	}

	// 2. 加载全局配置
	GlobalConfig = &Config{
		DBDriver:  util.GetEnv("DB_DRIVER"),
		DSN:       util.GetEnv("DATABASE_URL"),
		Port:      util.GetEnvDefault("PORT", "5000"),
		Mode:      util.GetEnvDefault("MODE", "debug"),
		APIPrefix: util.GetEnvDefault("API_PREFIX", "/api"),
		Log: logger.LogConfig{
			Level:      util.GetEnvDefault("LOG_LEVEL", "info"),
			Filename:   util.GetEnv("LOG_FILENAME"),
			MaxSize:    int(util.GetIntEnvDefault("LOG_MAX_SIZE", 100)),
			MaxAge:     int(util.GetIntEnvDefault("LOG_MAX_AGE", 30)),
			MaxBackups: int(util.GetIntEnvDefault("LOG_MAX_BACKUPS", 5)),
		},
		SeedDemo:        util.GetBoolEnvDefault("SEED_DEMO", true),
		RateLimit:       util.GetEnvDefault("RATE_LIMIT", "20-S"),
		RateLimitRoutes: parseRouteRates(util.GetEnv("RATE_LIMIT_ROUTES")),
		RateLimitKey:    util.GetEnvDefault("RATE_LIMIT_IDENTIFIER", "ip"),
		RedisAddr:       util.GetEnv("REDIS_ADDR"),
		RedisPassword:   util.GetEnv("REDIS_PASSWORD"),
		IdempotencyTTL:  util.GetDurationEnvDefault("IDEMPOTENCY_TTL", 10*time.Second),
		CORSOrigins:     splitList(util.GetEnvDefault("CORS_ORIGINS", "*")),
		BackupEnabled:   util.GetBoolEnv("BACKUP_ENABLED"),
		BackupPath:      util.GetEnvDefault("BACKUP_PATH", "backups"),
		BackupSchedule:  util.GetEnvDefault("BACKUP_SCHEDULE", "@daily"),
	}
	return nil
}

// parseRouteRates 解析 "route=rate" 逗号列表，格式不对的项忽略
func parseRouteRates(s string) map[string]string {
	out := map[string]string{}
	for _, item := range splitList(s) {
		route, rate, ok := strings.Cut(item, "=")
		route, rate = strings.TrimSpace(route), strings.TrimSpace(rate)
		if !ok || route == "" || rate == "" {
			continue
		}
		out[route] = rate
	}
	return out
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
