package models

import (
	"gorm.io/gorm"
)

// Migrate 建表；外键依赖顺序 users -> tourists -> alerts
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Tourist{},
		&GeoZone{},
		&Alert{},
	)
}
