package models

import (
	"time"

	"github.com/Sharruk/TravelGuard/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const demoPassword = "password123"

func strPtr(s string) *string   { return &s }
func degPtr(d Degrees) *Degrees { return &d }

// SeedDemoData 首次启动且 users 表为空时写入演示数据；已有数据则跳过
func SeedDemoData(db *gorm.DB) (bool, error) {
	var count int64
	if err := db.Model(&User{}).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	hash, err := HashPassword(demoPassword)
	if err != nil {
		return false, err
	}
	validUntil := time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC)
	now := time.Now()

	users := []User{
		{
			ID:          "user-1",
			Username:    "priya.sharma",
			Password:    hash,
			Role:        RoleTourist,
			Name:        "Priya Sharma",
			Nationality: strPtr("Indian"),
		},
		{
			ID:          "user-2",
			Username:    "raj.desai",
			Password:    hash,
			Role:        RolePolice,
			Name:        "Officer Raj Desai",
			Nationality: strPtr("Indian"),
			Badge:       strPtr("GP-1234"),
		},
	}

	// 三条档案都挂在 user-1 上
	tourists := []Tourist{
		{
			ID:              "tourist-1",
			UserID:          "user-1",
			TouristID:       "TID-2024-001523",
			SafetyScore:     87.00,
			CurrentLocation: strPtr("Calangute Beach, Goa"),
			LastKnownLat:    degPtr(15.5527),
			LastKnownLng:    degPtr(73.7547),
			LocationSharing: true,
			Status:          TouristSafe,
			ValidUntil:      &validUntil,
			EmergencyContacts: []EmergencyContact{
				{Name: "Rahul Sharma", Phone: "+91 98765-43210", Relation: "Brother"},
				{Name: "Maya Sharma", Phone: "+91 98765-43211", Relation: "Mother"},
			},
			Itinerary: []ItineraryItem{
				{Place: "Calangute Beach", Date: "2024-12-26", Time: "9:00 AM - 2:00 PM"},
				{Place: "Old Goa Churches", Date: "2024-12-27", Time: "10:00 AM - 4:00 PM"},
				{Place: "Spice Plantation Tour", Date: "2024-12-28", Time: "8:00 AM - 6:00 PM"},
			},
			LastUpdate: now,
			CreatedAt:  now,
		},
		{
			ID:              "tourist-2",
			UserID:          "user-1",
			TouristID:       "TID-2024-001524",
			SafetyScore:     73.00,
			CurrentLocation: strPtr("Anjuna Beach"),
			LastKnownLat:    degPtr(15.5937),
			LastKnownLng:    degPtr(73.7370),
			LocationSharing: true,
			Status:          TouristCaution,
			ValidUntil:      &validUntil,
			LastUpdate:      now,
			CreatedAt:       now,
		},
		{
			ID:              "tourist-3",
			UserID:          "user-1",
			TouristID:       "TID-2024-001525",
			SafetyScore:     91.00,
			CurrentLocation: strPtr("Old Goa"),
			LastKnownLat:    degPtr(15.5007),
			LastKnownLng:    degPtr(73.9119),
			LocationSharing: true,
			Status:          TouristSafe,
			ValidUntil:      &validUntil,
			LastUpdate:      now,
			CreatedAt:       now,
		},
	}

	zones := []GeoZone{
		{
			ID:   "zone-1",
			Name: "Restricted Military Area",
			Type: ZoneRestricted,
			Coordinates: []Coordinate{
				{Lat: 15.4800, Lng: 73.8200},
				{Lat: 15.4850, Lng: 73.8200},
				{Lat: 15.4850, Lng: 73.8300},
				{Lat: 15.4800, Lng: 73.8300},
			},
			Description: strPtr("Military restricted area - entry prohibited"),
		},
		{
			ID:   "zone-2",
			Name: "Unsafe Beach Area",
			Type: ZoneCaution,
			Coordinates: []Coordinate{
				{Lat: 15.5600, Lng: 73.7400},
				{Lat: 15.5650, Lng: 73.7400},
				{Lat: 15.5650, Lng: 73.7500},
				{Lat: 15.5600, Lng: 73.7500},
			},
			Description: strPtr("High tide and strong currents - exercise caution"),
		},
	}

	alert := Alert{
		ID:          "alert-1",
		TouristID:   "tourist-1",
		Type:        AlertPanic,
		Severity:    SeverityCritical,
		Status:      AlertActive,
		Location:    strPtr("Baga Beach, Near Tito's Club"),
		Lat:         degPtr(15.5527),
		Lng:         degPtr(73.7547),
		Description: strPtr("Panic button triggered"),
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&users).Error; err != nil {
			return err
		}
		if err := tx.Create(&tourists).Error; err != nil {
			return err
		}
		if err := tx.Create(&zones).Error; err != nil {
			return err
		}
		return tx.Create(&alert).Error
	})
	if err != nil {
		logger.Error("seed demo data failed", zap.Error(err))
		return false, err
	}
	logger.Info("demo data initialized",
		zap.Int("users", len(users)),
		zap.Int("tourists", len(tourists)),
		zap.Int("zones", len(zones)),
	)
	return true, nil
}
