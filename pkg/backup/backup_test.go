package backup

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Sharruk/TravelGuard/pkg/scheduler"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type sample struct {
	ID   uint
	Name string
}

func TestExecuteSQLiteSnapshot(t *testing.T) {
	dir := t.TempDir()
	db, err := gorm.Open(sqlite.Open(filepath.Join(dir, "live.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&sample{}))
	require.NoError(t, db.Create(&sample{Name: "zone-1"}).Error)

	b := New(db, Config{Driver: "sqlite", Dir: filepath.Join(dir, "out")})
	b.now = func() time.Time { return time.Date(2024, 12, 26, 9, 30, 0, 0, time.UTC) }

	dst, err := b.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "out", "tourist_safety_20241226_093000.db"), dst)

	_, err = os.Stat(dst)
	require.NoError(t, err)

	snap, err := gorm.Open(sqlite.Open(dst), &gorm.Config{})
	require.NoError(t, err)
	var n int64
	require.NoError(t, snap.Model(&sample{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestExecuteUnsupportedDriver(t *testing.T) {
	b := New(nil, Config{Driver: "oracle", Dir: t.TempDir()})
	_, err := b.Execute(context.Background())
	assert.Error(t, err)
}

func TestStartRegistersEntry(t *testing.T) {
	cr := scheduler.NewCron(time.UTC)
	b := New(nil, Config{Driver: "sqlite", Dir: t.TempDir(), Schedule: "@every 1h"})
	require.NoError(t, b.Start(cr))
	assert.Len(t, cr.Entries(), 1)

	assert.Error(t, New(nil, Config{Schedule: "not a cron"}).Start(cr))
}
