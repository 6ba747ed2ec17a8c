package models

import (
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AlertPanic    = "panic"
	AlertGeofence = "geofence"
	AlertMedical  = "medical"
	AlertMissing  = "missing"

	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"

	AlertActive        = "active"
	AlertInvestigating = "investigating"
	AlertResolved      = "resolved"
)

// Alert 针对游客触发的告警（一键求助或警方登记）
type Alert struct {
	ID          string     `json:"id" gorm:"primaryKey;size:36"`
	TouristID   string     `json:"touristId" gorm:"size:36;index;not null"` // tourists.id
	Tourist     *Tourist   `json:"-" gorm:"foreignKey:TouristID"`
	Type        string     `json:"type" gorm:"size:50;not null"`
	Severity    string     `json:"severity" gorm:"size:50;not null"`
	Status      string     `json:"status" gorm:"size:50;default:active;index"`
	Location    *string    `json:"location" gorm:"type:text"`
	Lat         *Degrees   `json:"lat" gorm:"type:decimal(10,8)"`
	Lng         *Degrees   `json:"lng" gorm:"type:decimal(11,8)"`
	Description *string    `json:"description" gorm:"type:text"`
	RespondedBy *string    `json:"respondedBy" gorm:"size:36"` // users.id
	Responder   *User      `json:"-" gorm:"foreignKey:RespondedBy"`
	CreatedAt   time.Time  `json:"createdAt" gorm:"autoCreateTime"`
	ResolvedAt  *time.Time `json:"resolvedAt"`
}

func (a *Alert) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// TouristStatusForSeverity 告警等级对游客状态的影响；low 不改变状态
func TouristStatusForSeverity(severity string) (string, bool) {
	switch severity {
	case SeverityHigh, SeverityCritical:
		return TouristAlert, true
	case SeverityMedium:
		return TouristCaution, true
	}
	return "", false
}

// TriggerPanic 一键求助：同一事务内写入 critical 告警并把游客置为 alert
func TriggerPanic(db *gorm.DB, ident string) (*Alert, error) {
	var alert *Alert
	err := db.Transaction(func(tx *gorm.DB) error {
		t, err := ResolveTourist(tx, ident)
		if err != nil {
			return err
		}
		location := "Unknown"
		if t.CurrentLocation != nil && *t.CurrentLocation != "" {
			location = *t.CurrentLocation
		}
		description := "Panic button activated"
		a := &Alert{
			TouristID:   t.ID,
			Type:        AlertPanic,
			Severity:    SeverityCritical,
			Status:      AlertActive,
			Location:    &location,
			Lat:         t.LastKnownLat,
			Lng:         t.LastKnownLng,
			Description: &description,
		}
		if err := tx.Create(a).Error; err != nil {
			return err
		}

		t.Status = TouristAlert
		t.LastUpdate = time.Now()
		if err := tx.Model(t).Select("status", "last_update").Updates(t).Error; err != nil {
			return err
		}
		alert = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return alert, nil
}

type CreateAlertForm struct {
	TouristID   string   `json:"touristId" binding:"required"`
	Type        string   `json:"type" binding:"required,oneof=panic geofence medical missing"`
	Severity    string   `json:"severity" binding:"required,oneof=low medium high critical"`
	Location    *string  `json:"location"`
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
	Description *string  `json:"description"`
}

// CreateAlert 警方为游客登记告警，缺省的位置/坐标取游客当前快照
func CreateAlert(db *gorm.DB, form CreateAlertForm) (*Alert, error) {
	var alert *Alert
	err := db.Transaction(func(tx *gorm.DB) error {
		t, err := ResolveTourist(tx, form.TouristID)
		if err != nil {
			return err
		}
		a := &Alert{
			TouristID:   t.ID,
			Type:        form.Type,
			Severity:    form.Severity,
			Status:      AlertActive,
			Location:    t.CurrentLocation,
			Lat:         t.LastKnownLat,
			Lng:         t.LastKnownLng,
			Description: form.Description,
		}
		if form.Location != nil && *form.Location != "" {
			a.Location = form.Location
		}
		if form.Lat != nil {
			a.Lat = degreesPtr(form.Lat)
		}
		if form.Lng != nil {
			a.Lng = degreesPtr(form.Lng)
		}
		if err := tx.Create(a).Error; err != nil {
			return err
		}

		columns := []string{"last_update"}
		if status, ok := TouristStatusForSeverity(form.Severity); ok {
			t.Status = status
			columns = append(columns, "status")
		}
		t.LastUpdate = time.Now()
		if err := tx.Model(t).Select(columns).Updates(t).Error; err != nil {
			return err
		}
		alert = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return alert, nil
}

type UpdateAlertForm struct {
	Status      string  `json:"status" binding:"required,oneof=active investigating resolved"`
	RespondedBy *string `json:"respondedBy"`
}

// UpdateAlertStatus 任意状态可覆盖任意状态；resolvedAt 只在置为 resolved 时写入，之后不清空。
// respondedBy 必须是已存在的用户
func UpdateAlertStatus(db *gorm.DB, id string, form UpdateAlertForm) (*Alert, error) {
	var alert Alert
	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id = ?", id).First(&alert).Error
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAlertNotFound
		}
		if err != nil {
			return err
		}

		columns := []string{"status"}
		alert.Status = form.Status
		if form.RespondedBy != nil && *form.RespondedBy != "" {
			responder, err := GetUserByID(tx, *form.RespondedBy)
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return ErrResponderNotFound
			}
			if err != nil {
				return err
			}
			alert.RespondedBy = &responder.ID
			columns = append(columns, "responded_by")
		}
		if form.Status == AlertResolved {
			now := time.Now()
			alert.ResolvedAt = &now
			columns = append(columns, "resolved_at")
		}
		return tx.Model(&alert).Select(columns).Updates(&alert).Error
	})
	if err != nil {
		return nil, err
	}
	return &alert, nil
}

// ListActiveAlerts 所有 active 告警，新的在前
func ListActiveAlerts(db *gorm.DB) ([]Alert, error) {
	alerts := []Alert{}
	if err := db.Where("status = ?", AlertActive).Order("created_at DESC").Find(&alerts).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}

// ListAlertsForTourist 某游客的全部告警，新的在前
func ListAlertsForTourist(db *gorm.DB, ident string) ([]Alert, error) {
	t, err := ResolveTourist(db, ident)
	if err != nil {
		return nil, err
	}
	alerts := []Alert{}
	if err := db.Where("tourist_id = ?", t.ID).Order("created_at DESC").Find(&alerts).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}
