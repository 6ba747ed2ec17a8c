package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ZoneSafe       = "safe"
	ZoneCaution    = "caution"
	ZoneRestricted = "restricted"
)

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// GeoZone 命名多边形区域。顶点按提交顺序保存，不做几何校验
type GeoZone struct {
	ID          string       `json:"id" gorm:"primaryKey;size:36"`
	Name        string       `json:"name" gorm:"type:text;not null"`
	Type        string       `json:"type" gorm:"size:50;not null;index"`
	Coordinates []Coordinate `json:"coordinates" gorm:"type:text;serializer:json;not null"`
	Description *string      `json:"description" gorm:"type:text"`
	CreatedAt   time.Time    `json:"createdAt" gorm:"autoCreateTime"`
}

func (z *GeoZone) BeforeCreate(tx *gorm.DB) error {
	if z.ID == "" {
		z.ID = uuid.NewString()
	}
	if z.Coordinates == nil {
		z.Coordinates = []Coordinate{}
	}
	return nil
}

type CoordinateForm struct {
	Lat *float64 `json:"lat" binding:"required"`
	Lng *float64 `json:"lng" binding:"required"`
}

type GeoZoneForm struct {
	Name        string           `json:"name" binding:"required"`
	Type        string           `json:"type" binding:"required,oneof=safe caution restricted"`
	Coordinates []CoordinateForm `json:"coordinates" binding:"required,dive"`
	Description *string          `json:"description"`
}

// CreateGeoZone 新建区域，创建后不可修改
func CreateGeoZone(db *gorm.DB, form GeoZoneForm) (*GeoZone, error) {
	zone := &GeoZone{
		Name:        form.Name,
		Type:        form.Type,
		Coordinates: make([]Coordinate, 0, len(form.Coordinates)),
		Description: form.Description,
	}
	for _, c := range form.Coordinates {
		zone.Coordinates = append(zone.Coordinates, Coordinate{Lat: *c.Lat, Lng: *c.Lng})
	}
	if err := db.Create(zone).Error; err != nil {
		return nil, err
	}
	return zone, nil
}

// ListGeoZones 全部区域
func ListGeoZones(db *gorm.DB) ([]GeoZone, error) {
	zones := []GeoZone{}
	if err := db.Order("created_at ASC").Order("id ASC").Find(&zones).Error; err != nil {
		return nil, err
	}
	return zones, nil
}
