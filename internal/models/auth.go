package models

import (
	stderrors "errors"
	"fmt"
	"math/rand"
	"time"

	apperrors "github.com/Sharruk/TravelGuard/pkg/errors"
	"github.com/Sharruk/TravelGuard/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type LoginForm struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterUserForm struct {
	Username    string  `json:"username" binding:"required"`
	Password    string  `json:"password" binding:"required"`
	Role        string  `json:"role" binding:"required,oneof=tourist police"`
	Name        string  `json:"name" binding:"required"`
	Nationality *string `json:"nationality"`
	Badge       *string `json:"badge"`
}

// HashPassword bcrypt 加盐哈希
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if stderrors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", ErrPasswordTooLong
	}
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Authenticate 校验用户名密码。用户不存在与密码错误返回同一个错误
// 游客角色额外返回其最近关联的档案（可能为 nil）
func Authenticate(db *gorm.DB, username, password string) (*User, *Tourist, error) {
	user, err := GetUserByUsername(db, username)
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, nil, ErrInvalidCredentials
	}

	if user.Role != RoleTourist {
		return user, nil, nil
	}
	tourist, err := GetTouristByUserID(db, user.ID)
	if stderrors.Is(err, ErrTouristNotFound) {
		return user, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return user, tourist, nil
}

// RegisterUser 创建用户；游客角色在同一事务内创建配套档案
func RegisterUser(db *gorm.DB, form RegisterUserForm) (*User, *Tourist, error) {
	if _, err := GetUserByUsername(db, form.Username); err == nil {
		return nil, nil, ErrUsernameExists
	} else if !stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}

	hash, err := HashPassword(form.Password)
	if err != nil {
		return nil, nil, err
	}

	user := &User{
		Username:    form.Username,
		Password:    hash,
		Role:        form.Role,
		Name:        form.Name,
		Nationality: form.Nationality,
		Badge:       form.Badge,
	}
	var tourist *Tourist

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			if stderrors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrUsernameExists
			}
			return err
		}
		if user.Role != RoleTourist {
			return nil
		}

		now := time.Now()
		validUntil := now.AddDate(1, 0, 0)
		location := defaultLocation
		lat, lng := defaultLat, defaultLng
		tourist = &Tourist{
			UserID:            user.ID,
			TouristID:         touristIDGen(now),
			SafetyScore:       DefaultSafetyScore,
			CurrentLocation:   &location,
			LastKnownLat:      &lat,
			LastKnownLng:      &lng,
			LocationSharing:   true,
			Status:            TouristSafe,
			ValidUntil:        &validUntil,
			EmergencyContacts: []EmergencyContact{},
			Itinerary:         []ItineraryItem{},
			LastUpdate:        now,
		}
		return createTouristProfile(tx, tourist, now)
	})
	if err != nil {
		return nil, nil, err
	}
	return user, tourist, nil
}

const touristIDAttempts = 5

// touristIDGen 可在测试中替换
var touristIDGen = NewTouristID

// createTouristProfile 在保存点内插入档案；TID 撞车时换一个随机后缀重试
func createTouristProfile(tx *gorm.DB, tourist *Tourist, now time.Time) error {
	var err error
	for attempt := 0; attempt < touristIDAttempts; attempt++ {
		if attempt > 0 {
			tourist.TouristID = randomTouristID(now)
		}
		err = tx.Transaction(func(sp *gorm.DB) error {
			return sp.Create(tourist).Error
		})
		if !stderrors.Is(err, gorm.ErrDuplicatedKey) {
			break
		}
		logger.Warn("tourist id collision, retrying",
			zap.String("touristId", tourist.TouristID), zap.Int("attempt", attempt+1))
	}
	if err != nil {
		return apperrors.Wrap(err, "create tourist profile")
	}
	return nil
}

// randomTouristID 与 NewTouristID 同格式，后缀取随机六位
func randomTouristID(now time.Time) string {
	return fmt.Sprintf("TID-%d-%06d", now.Year(), rand.Intn(1_000_000))
}
