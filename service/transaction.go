package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"moneymanager/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultLatestLimit 仪表盘默认展示的最近记录条数
const DefaultLatestLimit = 5

// sortColumns 筛选允许的排序字段
var sortColumns = map[string]string{
	"date":       "date",
	"amount":     "amount",
	"name":       "name",
	"created_at": "created_at",
	"createdat":  "created_at",
	"id":         "id",
}

// TransactionInput 新增收入/支出的输入
type TransactionInput struct {
	Name       string
	Icon       string
	Amount     decimal.Decimal
	Date       string // YYYY-MM-DD
	CategoryID uint
}

// FilterQuery 收支筛选条件，零值字段使用默认值
type FilterQuery struct {
	Kind      models.Kind
	StartDate string // 默认 0001-01-01
	EndDate   string // 默认今天
	Keyword   string // 名称模糊匹配，大小写不敏感
	SortField string // 默认 date
	SortOrder string // asc / desc，默认 desc
}

// TransactionService 收入与支出记录
type TransactionService struct {
	db    *gorm.DB
	clock func() time.Time
	loc   *time.Location
}

// NewTransactionService 创建收支服务
func NewTransactionService(db *gorm.DB) *TransactionService {
	return &TransactionService{db: db, clock: time.Now, loc: time.Local}
}

// WithClock 替换时钟，用于测试“本月”“今天”等依赖当前时间的查询
func (s *TransactionService) WithClock(now func() time.Time) *TransactionService {
	s.clock = now
	return s
}

// WithLocation “本月”“今天”按该时区计算，与定时提醒任务保持一致
func (s *TransactionService) WithLocation(loc *time.Location) *TransactionService {
	if loc != nil {
		s.loc = loc
	}
	return s
}

func (s *TransactionService) now() time.Time {
	return s.clock().In(s.loc)
}

func (s *TransactionService) scope(ctx context.Context, profileID uint, kind models.Kind) *gorm.DB {
	return s.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("profile_id = ? AND kind = ?", profileID, kind)
}

// Add 新增一条记录，类别必须属于当前用户且类型一致
func (s *TransactionService) Add(ctx context.Context, profileID uint, kind models.Kind, in TransactionInput) (*models.Transaction, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: 名称不能为空", ErrValidation)
	}
	if in.Amount.IsNegative() {
		return nil, fmt.Errorf("%w: 金额不能为负数", ErrValidation)
	}
	date, err := models.ParseDate(in.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: 日期格式错误，应为 %s", ErrValidation, models.DateLayout)
	}

	var record models.Transaction
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.Where("id = ? AND profile_id = ? AND kind = ?", in.CategoryID, profileID, kind).
			First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: 类别不存在", ErrNotFound)
			}
			return err
		}

		record = models.Transaction{
			ProfileID:  profileID,
			Kind:       kind,
			CategoryID: category.ID,
			Name:       name,
			Amount:     in.Amount.Round(2),
			Date:       date,
			Icon:       in.Icon,
		}
		return tx.Omit(clause.Associations).Create(&record).Error
	})
	if err != nil {
		// 类别在读取与写入之间被删除
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, fmt.Errorf("%w: 类别不存在", ErrNotFound)
		}
		return nil, err
	}
	return &record, nil
}

// CurrentMonth 当前自然月内（含首尾两天）的记录
func (s *TransactionService) CurrentMonth(ctx context.Context, profileID uint, kind models.Kind) ([]models.Transaction, error) {
	start, end := models.MonthRange(s.now())
	return s.ListBetween(ctx, profileID, kind, start, end)
}

// ListBetween 指定日期区间（闭区间）内的记录
func (s *TransactionService) ListBetween(ctx context.Context, profileID uint, kind models.Kind, start, end string) ([]models.Transaction, error) {
	var list []models.Transaction
	err := s.scope(ctx, profileID, kind).
		Where("date BETWEEN ? AND ?", start, end).
		Order("date ASC").Order("id ASC").
		Find(&list).Error
	return list, err
}

// LatestN 按日期倒序的最近 n 条记录，n<=0 时取 5 条
func (s *TransactionService) LatestN(ctx context.Context, profileID uint, kind models.Kind, n int) ([]models.Transaction, error) {
	if n <= 0 {
		n = DefaultLatestLimit
	}
	var list []models.Transaction
	err := s.scope(ctx, profileID, kind).
		Order("date DESC").Order("id ASC").
		Limit(n).
		Find(&list).Error
	return list, err
}

// Total 金额合计，没有记录时为 0
func (s *TransactionService) Total(ctx context.Context, profileID uint, kind models.Kind) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := s.scope(ctx, profileID, kind).
		Select("COALESCE(SUM(amount), 0) AS total").
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total.Round(2), nil
}

// Delete 删除当前用户的一条记录，返回删除前的数据
func (s *TransactionService) Delete(ctx context.Context, profileID uint, kind models.Kind, id uint) (*models.Transaction, error) {
	var record models.Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND profile_id = ? AND kind = ?", id, profileID, kind).
			First(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s id=%d", ErrNotFound, kind.DisplayName(), id)
			}
			return err
		}
		return tx.Delete(&models.Transaction{}, record.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Filter 按日期区间、名称关键字筛选并排序，不分页
func (s *TransactionService) Filter(ctx context.Context, profileID uint, q FilterQuery) ([]models.Transaction, error) {
	q, err := s.normalize(q)
	if err != nil {
		return nil, err
	}

	query := s.scope(ctx, profileID, q.Kind).
		Where("date BETWEEN ? AND ?", q.StartDate, q.EndDate)
	if q.Keyword != "" {
		query = query.Where("name_folded LIKE ? ESCAPE '!'", "%"+escapeLike(models.FoldName(q.Keyword))+"%")
	}

	var list []models.Transaction
	err = query.
		Order(clause.OrderByColumn{Column: clause.Column{Name: sortColumns[q.SortField]}, Desc: q.SortOrder == "desc"}).
		Order("id ASC").
		Find(&list).Error
	return list, err
}

// normalize 补齐默认值并校验筛选条件
func (s *TransactionService) normalize(q FilterQuery) (FilterQuery, error) {
	if q.Kind != models.KindIncome && q.Kind != models.KindExpense {
		return q, fmt.Errorf("%w: 无效的类型 %q", ErrValidation, q.Kind)
	}

	if q.StartDate == "" {
		q.StartDate = models.MinDate
	} else {
		d, err := models.ParseDate(q.StartDate)
		if err != nil {
			return q, fmt.Errorf("%w: 开始日期格式错误", ErrValidation)
		}
		q.StartDate = d
	}
	if q.EndDate == "" {
		q.EndDate = models.FormatDate(s.now())
	} else {
		d, err := models.ParseDate(q.EndDate)
		if err != nil {
			return q, fmt.Errorf("%w: 结束日期格式错误", ErrValidation)
		}
		q.EndDate = d
	}

	q.SortField = strings.ToLower(strings.TrimSpace(q.SortField))
	if q.SortField == "" {
		q.SortField = "date"
	}
	if _, ok := sortColumns[q.SortField]; !ok {
		return q, fmt.Errorf("%w: 不支持的排序字段 %q", ErrValidation, q.SortField)
	}

	if strings.EqualFold(q.SortOrder, "asc") {
		q.SortOrder = "asc"
	} else {
		q.SortOrder = "desc"
	}
	return q, nil
}

// ByDateForProfile 指定用户某一天的记录，供定时提醒任务遍历所有用户使用
func (s *TransactionService) ByDateForProfile(ctx context.Context, kind models.Kind, profileID uint, date string) ([]models.Transaction, error) {
	var list []models.Transaction
	err := s.scope(ctx, profileID, kind).
		Where("date = ?", date).
		Order("id ASC").
		Find(&list).Error
	return list, err
}

// escapeLike 转义 LIKE 通配符，转义字符为 '!'
func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}
