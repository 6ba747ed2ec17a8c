package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectDriver(t *testing.T) {
	assert.Equal(t, "mysql", DetectDriver("mysql", "postgres://x"))
	assert.Equal(t, "pg", DetectDriver("", "postgres://u:p@localhost/db"))
	assert.Equal(t, "pg", DetectDriver("", "postgresql://localhost/db"))
	assert.Equal(t, "mysql", DetectDriver("", "user:pass@tcp(127.0.0.1:3306)/db"))
	assert.Equal(t, "sqlite", DetectDriver("", "sqlite:///tourist_safety.db"))
	assert.Equal(t, "sqlite", DetectDriver("", ""))
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("TG_INT", "42")
	t.Setenv("TG_BAD_INT", "forty")
	t.Setenv("TG_BOOL", "true")
	t.Setenv("TG_DUR", "3s")
	t.Setenv("TG_BAD_DUR", "-1s")

	assert.Equal(t, int64(42), GetIntEnvDefault("TG_INT", 7))
	assert.Equal(t, int64(7), GetIntEnvDefault("TG_BAD_INT", 7))
	assert.Equal(t, int64(7), GetIntEnvDefault("TG_MISSING", 7))
	assert.True(t, GetBoolEnv("TG_BOOL"))
	assert.True(t, GetBoolEnvDefault("TG_MISSING", true))
	assert.Equal(t, 3*time.Second, GetDurationEnvDefault("TG_DUR", time.Second))
	assert.Equal(t, time.Second, GetDurationEnvDefault("TG_BAD_DUR", time.Second))
	assert.Equal(t, "fallback", GetEnvDefault("TG_MISSING", "fallback"))
}

func TestInitDatabaseSQLite(t *testing.T) {
	db, err := InitDatabase("", "file:util_test?mode=memory&cache=shared")
	require.NoError(t, err)
	defer CloseDatabase(db)

	var one int
	require.NoError(t, db.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
}
