package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleTourist = "tourist"
	RolePolice  = "police"
)

// User 账号；Password 保存 bcrypt 哈希，永不输出
type User struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	Username    string    `json:"username" gorm:"size:255;uniqueIndex;not null"`
	Password    string    `json:"-" gorm:"type:text;not null"`
	Role        string    `json:"role" gorm:"size:50;not null"`
	Name        string    `json:"name" gorm:"type:text;not null"`
	Nationality *string   `json:"nationality" gorm:"type:text"`
	Badge       *string   `json:"badge" gorm:"type:text"` // 仅警员
	CreatedAt   time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// GetUserByUsername 按用户名查找
func GetUserByUsername(db *gorm.DB, username string) (*User, error) {
	var user User
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByID 按主键查找
func GetUserByID(db *gorm.DB, id string) (*User, error) {
	var user User
	if err := db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
