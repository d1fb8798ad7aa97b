package models

import (
	"time"
)

// Profile 用户档案
type Profile struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	FullName        string    `json:"full_name" gorm:"size:100;not null"`
	Email           string    `json:"email" gorm:"uniqueIndex;size:100;not null"`
	Password        string    `json:"-" gorm:"size:255;not null"`
	ProfileImageURL string    `json:"profile_image_url" gorm:"size:255"`
	ActivationToken *string   `json:"-" gorm:"uniqueIndex;size:64"` // 单次有效，激活后置空
	IsActive        bool      `json:"is_active" gorm:"default:false;index"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName 设置表名
func (Profile) TableName() string {
	return "profiles"
}
