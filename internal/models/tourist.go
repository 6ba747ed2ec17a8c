package models

import (
	"database/sql/driver"
	stderrors "errors"
	"fmt"
	"strconv"
	"time"

	apperrors "github.com/Sharruk/TravelGuard/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TouristSafe    = "safe"
	TouristCaution = "caution"
	TouristAlert   = "alert"

	DefaultSafetyScore Score = 85.00
)

// 新注册游客的默认位置
const (
	defaultLocation string  = "Goa, India"
	defaultLat      Degrees = 15.2993
	defaultLng      Degrees = 74.1240
)

// Score 安全分，两位小数，JSON 中以字符串输出（"87.00"）
type Score float64

func (s Score) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(strconv.FormatFloat(float64(s), 'f', 2, 64))), nil
}

func (s Score) String() string {
	return strconv.FormatFloat(float64(s), 'f', 2, 64)
}

// Degrees 经纬度，库中为定点小数，JSON 中以八位小数字符串输出（"15.55270000"）
type Degrees float64

func (d Degrees) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(strconv.FormatFloat(float64(d), 'f', 8, 64))), nil
}

// UnmarshalJSON 数字与字符串两种写法都接受
func (d *Degrees) UnmarshalJSON(b []byte) error {
	raw := string(b)
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = unquoted
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("invalid coordinate %s", b)
	}
	*d = Degrees(f)
	return nil
}

func (d Degrees) Value() (driver.Value, error) {
	return float64(d), nil
}

// Scan postgres/mysql 的 numeric 以文本返回
func (d *Degrees) Scan(src any) error {
	switch v := src.(type) {
	case float64:
		*d = Degrees(v)
	case int64:
		*d = Degrees(v)
	case []byte:
		return d.parse(string(v))
	case string:
		return d.parse(v)
	default:
		return fmt.Errorf("cannot scan %T into Degrees", src)
	}
	return nil
}

func (d *Degrees) parse(s string) error {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*d = Degrees(f)
	return nil
}

func degreesPtr(f *float64) *Degrees {
	if f == nil {
		return nil
	}
	d := Degrees(*f)
	return &d
}

type EmergencyContact struct {
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Relation string `json:"relation" binding:"required"`
}

type ItineraryItem struct {
	Place string  `json:"place" binding:"required"`
	Date  string  `json:"date" binding:"required"`
	Time  string  `json:"time" binding:"required"`
	Notes *string `json:"notes,omitempty"`
}

// Tourist 游客安全档案。与 User 是软关联，同一用户可能挂多条档案
type Tourist struct {
	ID                string             `json:"id" gorm:"primaryKey;size:36"`
	UserID            string             `json:"userId" gorm:"size:36;index;not null"`
	User              *User              `json:"-" gorm:"foreignKey:UserID"`
	TouristID         string             `json:"touristId" gorm:"size:255;uniqueIndex;not null"` // TID-2024-001523
	SafetyScore       Score              `json:"safetyScore" gorm:"type:decimal(5,2);default:85.00"`
	CurrentLocation   *string            `json:"currentLocation" gorm:"type:text"`
	LastKnownLat      *Degrees           `json:"lastKnownLat" gorm:"type:decimal(10,8)"`
	LastKnownLng      *Degrees           `json:"lastKnownLng" gorm:"type:decimal(11,8)"`
	LocationSharing   bool               `json:"locationSharing" gorm:"default:true"`
	Status            string             `json:"status" gorm:"size:50;default:safe"`
	ValidUntil        *time.Time         `json:"validUntil"`
	EmergencyContacts []EmergencyContact `json:"emergencyContacts" gorm:"type:text;serializer:json"`
	Itinerary         []ItineraryItem    `json:"itinerary" gorm:"type:text;serializer:json"`
	LastUpdate        time.Time          `json:"lastUpdate" gorm:"autoCreateTime"`
	CreatedAt         time.Time          `json:"-" gorm:"autoCreateTime;index"`
}

func (t *Tourist) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

func (t *Tourist) BeforeSave(tx *gorm.DB) error {
	if t.EmergencyContacts == nil {
		t.EmergencyContacts = []EmergencyContact{}
	}
	if t.Itinerary == nil {
		t.Itinerary = []ItineraryItem{}
	}
	return nil
}

// NewTouristID 生成对外游客编号：TID-<年份>-<毫秒时间戳后六位>
func NewTouristID(now time.Time) string {
	ms := strconv.FormatInt(now.UnixMilli(), 10)
	if len(ms) > 6 {
		ms = ms[len(ms)-6:]
	}
	return fmt.Sprintf("TID-%d-%s", now.Year(), ms)
}

// ResolveTourist 先按内部 id 查，再按对外 TID 查
func ResolveTourist(db *gorm.DB, ident string) (*Tourist, error) {
	var tourist Tourist
	err := db.Where("id = ?", ident).First(&tourist).Error
	if err == nil {
		return &tourist, nil
	}
	if !stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	err = db.Where("tourist_id = ?", ident).First(&tourist).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTouristNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tourist, nil
}

// GetTouristByUserID 返回该用户最近关联的一条档案
func GetTouristByUserID(db *gorm.DB, userID string) (*Tourist, error) {
	var tourist Tourist
	err := db.Where("user_id = ?", userID).Order("created_at DESC").Order("id ASC").First(&tourist).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTouristNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tourist, nil
}

// ListTourists 全部游客档案
func ListTourists(db *gorm.DB) ([]Tourist, error) {
	tourists := []Tourist{}
	if err := db.Order("created_at ASC").Order("id ASC").Find(&tourists).Error; err != nil {
		return nil, err
	}
	return tourists, nil
}

type UpdateLocationForm struct {
	Lat      *float64 `json:"lat" binding:"required"`
	Lng      *float64 `json:"lng" binding:"required"`
	Location *string  `json:"location"`
}

// UpdateTouristLocation 覆盖最后已知坐标，位置名仅在提供时更新
func UpdateTouristLocation(db *gorm.DB, ident string, form UpdateLocationForm) (*Tourist, error) {
	var tourist *Tourist
	err := db.Transaction(func(tx *gorm.DB) error {
		t, err := ResolveTourist(tx, ident)
		if err != nil {
			return err
		}
		columns := []string{"last_known_lat", "last_known_lng", "last_update"}
		t.LastKnownLat = degreesPtr(form.Lat)
		t.LastKnownLng = degreesPtr(form.Lng)
		if form.Location != nil && *form.Location != "" {
			loc := *form.Location
			t.CurrentLocation = &loc
			columns = append(columns, "current_location")
		}
		t.LastUpdate = time.Now()
		if err := tx.Model(t).Select(columns).Updates(t).Error; err != nil {
			return err
		}
		tourist = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tourist, nil
}

// AppendItineraryItem 追加一条行程，不去重、不排序
func AppendItineraryItem(db *gorm.DB, ident string, item ItineraryItem) (*Tourist, error) {
	var tourist *Tourist
	err := db.Transaction(func(tx *gorm.DB) error {
		t, err := ResolveTourist(tx, ident)
		if err != nil {
			return err
		}
		t.Itinerary = append(t.Itinerary, item)
		t.LastUpdate = time.Now()
		if err := tx.Model(t).Select("itinerary", "last_update").Updates(t).Error; err != nil {
			return apperrors.Wrapf(err, "append itinerary item for %s", t.ID)
		}
		tourist = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tourist, nil
}

type UpdateContactsForm struct {
	EmergencyContacts []EmergencyContact `json:"emergencyContacts" binding:"required,dive"`
}

// ReplaceEmergencyContacts 整体替换紧急联系人列表
func ReplaceEmergencyContacts(db *gorm.DB, ident string, contacts []EmergencyContact) (*Tourist, error) {
	var tourist *Tourist
	err := db.Transaction(func(tx *gorm.DB) error {
		t, err := ResolveTourist(tx, ident)
		if err != nil {
			return err
		}
		t.EmergencyContacts = append([]EmergencyContact{}, contacts...)
		t.LastUpdate = time.Now()
		if err := tx.Model(t).Select("emergency_contacts", "last_update").Updates(t).Error; err != nil {
			return apperrors.Wrapf(err, "replace emergency contacts for %s", t.ID)
		}
		tourist = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tourist, nil
}
