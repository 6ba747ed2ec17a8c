package models

import (
	"strconv"

	"gorm.io/gorm"
)

type PoliceStats struct {
	ActiveTourists     int64  `json:"activeTourists"`
	ActiveAlerts       int64  `json:"activeAlerts"`
	HighRiskZones      int64  `json:"highRiskZones"`
	AverageSafetyScore string `json:"averageSafetyScore"` // 一位小数
}

// GetPoliceStats 每次实时计算；没有游客时平均分为 0.0
func GetPoliceStats(db *gorm.DB) (*PoliceStats, error) {
	var stats PoliceStats
	if err := db.Model(&Tourist{}).Count(&stats.ActiveTourists).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&Alert{}).Where("status = ?", AlertActive).Count(&stats.ActiveAlerts).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&GeoZone{}).Where("type = ?", ZoneRestricted).Count(&stats.HighRiskZones).Error; err != nil {
		return nil, err
	}

	var avg float64
	if stats.ActiveTourists > 0 {
		var total float64
		if err := db.Model(&Tourist{}).
			Select("COALESCE(SUM(COALESCE(safety_score, 0)), 0)").
			Scan(&total).Error; err != nil {
			return nil, err
		}
		avg = total / float64(stats.ActiveTourists)
	}
	stats.AverageSafetyScore = strconv.FormatFloat(avg, 'f', 1, 64)
	return &stats, nil
}
