package util

import (
	"strings"
	"time"

	"github.com/Sharruk/TravelGuard/pkg/logger"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"moul.io/zapgorm2"
)

const DefaultSQLiteDSN = "tourist_safety.db"

// DetectDriver 未显式指定驱动时根据连接串推断
func DetectDriver(driver, dsn string) string {
	if driver != "" {
		return driver
	}
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return "pg"
	case strings.HasPrefix(dsn, "mysql://"), strings.Contains(dsn, "@tcp("):
		return "mysql"
	}
	return "sqlite"
}

func createDatabaseInstance(cfg *gorm.Config, driver, dsn string) (*gorm.DB, error) {
	switch driver {
	case "mysql":
		return gorm.Open(mysql.Open(strings.TrimPrefix(dsn, "mysql://")), cfg)
	case "pg":
		return gorm.Open(postgres.Open(dsn), cfg)
	}
	if dsn == "" {
		dsn = DefaultSQLiteDSN
	}
	dsn = strings.TrimPrefix(dsn, "sqlite:///")
	return gorm.Open(sqlite.Open(dsn), cfg)
}

// InitDatabase 打开数据库连接；返回的句柄由调用方负责关闭
func InitDatabase(driver, dsn string) (*gorm.DB, error) {
	driver = DetectDriver(driver, dsn)

	gl := zapgorm2.New(logger.Lg)
	gl.LogLevel = gormlogger.Warn
	gl.SlowThreshold = 200 * time.Millisecond
	gl.IgnoreRecordNotFoundError = true
	gl.SetAsDefault()

	db, err := createDatabaseInstance(&gorm.Config{
		Logger:         gl,
		TranslateError: true,
	}, driver, dsn)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if driver == "sqlite" {
		// sqlite 单写者
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	logger.Info("database connected", zap.String("driver", driver))
	return db, nil
}

// CloseDatabase 关闭底层连接池
func CloseDatabase(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
