package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"moneymanager/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CategoryInput 创建/更新类别的输入
type CategoryInput struct {
	Name string
	Kind string
	Icon string
}

// CategoryService 用户自定义收支类别
type CategoryService struct {
	db *gorm.DB
}

// NewCategoryService 创建类别服务
func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

func (in CategoryInput) validate() (string, models.Kind, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return "", "", fmt.Errorf("%w: 名称不能为空", ErrValidation)
	}
	kind, ok := models.ParseKind(in.Kind)
	if !ok {
		return "", "", fmt.Errorf("%w: 类型必须为 income 或 expense", ErrValidation)
	}
	return name, kind, nil
}

// Create 创建类别，同一用户下名称重复返回 ErrConflict
func (s *CategoryService) Create(ctx context.Context, profileID uint, in CategoryInput) (*models.Category, error) {
	name, kind, err := in.validate()
	if err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Category{}).
		Where("profile_id = ? AND name = ?", profileID, name).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: 类别 %s 已存在", ErrConflict, name)
	}

	category := models.Category{ProfileID: profileID, Name: name, Kind: kind, Icon: in.Icon}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: 类别 %s 已存在", ErrConflict, name)
		}
		return nil, err
	}
	return &category, nil
}

// Update 覆盖名称、类型与图标
// 与创建不同，这里不预先检查名称是否与其他类别重复
func (s *CategoryService) Update(ctx context.Context, profileID, id uint, in CategoryInput) (*models.Category, error) {
	name, kind, err := in.validate()
	if err != nil {
		return nil, err
	}

	var category models.Category
	if err := s.db.WithContext(ctx).Where("id = ? AND profile_id = ?", id, profileID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: 类别不存在", ErrNotFound)
		}
		return nil, err
	}

	category.Name = name
	category.Kind = kind
	category.Icon = in.Icon
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: 类别 %s 已存在", ErrConflict, name)
		}
		return nil, err
	}
	return &category, nil
}

// List 当前用户的全部类别
func (s *CategoryService) List(ctx context.Context, profileID uint) ([]models.Category, error) {
	var list []models.Category
	err := s.db.WithContext(ctx).Where("profile_id = ?", profileID).Order("id ASC").Find(&list).Error
	return list, err
}

// ListByKind 当前用户某一类型的类别
func (s *CategoryService) ListByKind(ctx context.Context, profileID uint, kind models.Kind) ([]models.Category, error) {
	var list []models.Category
	err := s.db.WithContext(ctx).
		Where("profile_id = ? AND kind = ?", profileID, kind).
		Order("id ASC").
		Find(&list).Error
	return list, err
}

// NameMap 类别 ID 到名称的映射，用于导出与邮件展示
func (s *CategoryService) NameMap(ctx context.Context, profileID uint) (map[uint]string, error) {
	list, err := s.List(ctx, profileID)
	if err != nil {
		return nil, err
	}
	names := make(map[uint]string, len(list))
	for _, c := range list {
		names[c.ID] = c.Name
	}
	return names, nil
}
