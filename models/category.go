package models

import (
	"time"
)

// Category 用户自定义收支类别，同一用户下名称唯一
type Category struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ProfileID uint      `json:"profile_id" gorm:"not null;uniqueIndex:idx_category_profile_name,priority:1"`
	Name      string    `json:"name" gorm:"size:50;not null;uniqueIndex:idx_category_profile_name,priority:2"`
	Kind      Kind      `json:"type" gorm:"size:10;not null;index"`
	Icon      string    `json:"icon" gorm:"size:255"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Profile   Profile   `json:"-" gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE"`
}

// TableName 设置表名
func (Category) TableName() string {
	return "categories"
}
