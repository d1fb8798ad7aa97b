package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"moneymanager/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RegisterInput 注册输入
type RegisterInput struct {
	FullName        string
	Email           string
	Password        string
	ProfileImageURL string
}

// ProfileService 用户注册、激活与认证
type ProfileService struct {
	db      *gorm.DB
	mailer  Mailer
	baseURL string
}

// NewProfileService 创建用户服务，baseURL 用于拼接激活链接
func NewProfileService(db *gorm.DB, mailer Mailer, baseURL string) *ProfileService {
	return &ProfileService{db: db, mailer: mailer, baseURL: strings.TrimRight(baseURL, "/")}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register 创建未激活用户并发送激活邮件
// 邮件发送失败只记录日志，不回滚注册
func (s *ProfileService) Register(ctx context.Context, in RegisterInput) (*models.Profile, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: 邮箱和密码不能为空", ErrValidation)
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Profile{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: 邮箱 %s 已注册", ErrConflict, email)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("密码加密失败: %w", err)
	}

	token := uuid.NewString()
	profile := models.Profile{
		FullName:        strings.TrimSpace(in.FullName),
		Email:           email,
		Password:        string(hashedPassword),
		ProfileImageURL: in.ProfileImageURL,
		ActivationToken: &token,
		IsActive:        false,
	}
	if err := s.db.WithContext(ctx).Create(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: 邮箱 %s 已注册", ErrConflict, email)
		}
		return nil, err
	}

	if s.mailer != nil {
		if err := s.mailer.SendActivationEmail(profile.Email, profile.FullName, s.ActivationLink(token)); err != nil {
			slog.Warn("activation email not sent", "profile_id", profile.ID, "email", profile.Email, "error", err)
		}
	}
	return &profile, nil
}

// ActivationLink 激活链接
func (s *ProfileService) ActivationLink(token string) string {
	return s.baseURL + "/profile/activate?token=" + url.QueryEscape(token)
}

// Activate 兑换激活令牌，令牌不存在或已使用时返回 false
func (s *ProfileService) Activate(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	result := s.db.WithContext(ctx).Model(&models.Profile{}).
		Where("activation_token = ?", token).
		Updates(map[string]interface{}{"is_active": true, "activation_token": nil})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// IsActive 邮箱对应的账号是否已激活，账号不存在时为 false
func (s *ProfileService) IsActive(ctx context.Context, email string) bool {
	var profile models.Profile
	if err := s.db.WithContext(ctx).Select("is_active").Where("email = ?", normalizeEmail(email)).First(&profile).Error; err != nil {
		return false
	}
	return profile.IsActive
}

// Authenticate 校验邮箱密码，未激活账号返回 ErrForbidden
func (s *ProfileService) Authenticate(ctx context.Context, email, password string) (*models.Profile, error) {
	var profile models.Profile
	if err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}

	if !profile.IsActive {
		return nil, fmt.Errorf("%w: 请先通过邮件激活账号", ErrForbidden)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.Password), []byte(password)); err != nil {
		return nil, ErrUnauthenticated
	}
	return &profile, nil
}

// Get 按 ID 获取用户
func (s *ProfileService) Get(ctx context.Context, profileID uint) (*models.Profile, error) {
	var profile models.Profile
	if err := s.db.WithContext(ctx).First(&profile, profileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: 用户不存在", ErrNotFound)
		}
		return nil, err
	}
	return &profile, nil
}

// ListAll 全部用户，定时任务使用
func (s *ProfileService) ListAll(ctx context.Context) ([]models.Profile, error) {
	var list []models.Profile
	err := s.db.WithContext(ctx).Order("id ASC").Find(&list).Error
	return list, err
}
