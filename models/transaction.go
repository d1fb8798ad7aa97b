package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction 收入或支出记录，由 Kind 区分
type Transaction struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	ProfileID  uint            `json:"profile_id" gorm:"not null;index:idx_tx_profile_kind_date,priority:1"`
	Kind       Kind            `json:"type" gorm:"size:10;not null;index:idx_tx_profile_kind_date,priority:2"`
	Date       string          `json:"date" gorm:"size:10;not null;index:idx_tx_profile_kind_date,priority:3"` // YYYY-MM-DD
	CategoryID uint            `json:"category_id" gorm:"not null;index"`
	Name       string          `json:"name" gorm:"size:100;not null"`
	NameFolded string          `json:"-" gorm:"size:100;not null;default:''"` // 小写名称，关键字筛选使用
	Amount     decimal.Decimal `json:"amount" gorm:"type:decimal(12,2);not null"`
	Icon       string          `json:"icon" gorm:"size:255"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	Profile    Profile         `json:"-" gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE"`
	Category   Category        `json:"-" gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
}

// TableName 设置表名
func (Transaction) TableName() string {
	return "transactions"
}

// FoldName 名称关键字匹配使用的小写形式，SQLite 的 LOWER 只处理 ASCII
func FoldName(name string) string {
	return strings.ToLower(name)
}

// BeforeSave 保存前同步小写名称
func (t *Transaction) BeforeSave(tx *gorm.DB) error {
	t.NameFolded = FoldName(t.Name)
	return nil
}

// RecentTransaction 仪表盘最近交易条目，Type 为 INCOME 或 EXPENSE
type RecentTransaction struct {
	ID        uint            `json:"id"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	Type      string          `json:"type"`
	Icon      string          `json:"icon"`
	Date      string          `json:"date"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ToRecent 转换为带收支标签的最近交易条目
func (t Transaction) ToRecent() RecentTransaction {
	return RecentTransaction{
		ID:        t.ID,
		Name:      t.Name,
		Amount:    t.Amount,
		Type:      t.Kind.Label(),
		Icon:      t.Icon,
		Date:      t.Date,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}
