package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"moneymanager/config"
	"moneymanager/models"

	"github.com/robfig/cron/v3"
)

// NotificationService 每日提醒与支出汇总邮件
type NotificationService struct {
	cfg          *config.NotificationConfig
	profiles     *ProfileService
	transactions *TransactionService
	categories   *CategoryService
	mailer       Mailer
	now          func() time.Time
	cron         *cron.Cron
}

// NewNotificationService 创建通知服务
func NewNotificationService(cfg *config.NotificationConfig, profiles *ProfileService, transactions *TransactionService, categories *CategoryService, mailer Mailer) *NotificationService {
	return &NotificationService{
		cfg:          cfg,
		profiles:     profiles,
		transactions: transactions,
		categories:   categories,
		mailer:       mailer,
		now:          time.Now,
	}
}

// WithClock 替换时钟，测试用
func (s *NotificationService) WithClock(now func() time.Time) *NotificationService {
	s.now = now
	return s
}

// SendDailyReminders 给所有用户发送记账提醒，单个用户失败不影响其他用户
func (s *NotificationService) SendDailyReminders(ctx context.Context) (sent, failed int, err error) {
	profiles, err := s.profiles.ListAll(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("查询用户失败: %w", err)
	}

	link := s.cfg.FrontendURL
	for _, p := range profiles {
		if ctx.Err() != nil {
			return sent, failed, ctx.Err()
		}
		if err := s.mailer.SendReminderEmail(p.Email, p.FullName, link); err != nil {
			failed++
			slog.Error("daily reminder failed", "profile_id", p.ID, "email", p.Email, "error", err)
			continue
		}
		sent++
	}
	slog.Info("daily reminders done", "sent", sent, "failed", failed)
	return sent, failed, nil
}

// SendDailyExpenseSummaries 给当天有支出的用户发送支出汇总
func (s *NotificationService) SendDailyExpenseSummaries(ctx context.Context) (sent, failed int, err error) {
	profiles, err := s.profiles.ListAll(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("查询用户失败: %w", err)
	}

	today := models.FormatDate(s.now().In(s.cfg.Location()))
	for _, p := range profiles {
		if ctx.Err() != nil {
			return sent, failed, ctx.Err()
		}
		ok, err := s.sendSummary(ctx, p, today)
		if err != nil {
			failed++
			slog.Error("expense summary failed", "profile_id", p.ID, "email", p.Email, "error", err)
			continue
		}
		if ok {
			sent++
		}
	}
	slog.Info("expense summaries done", "date", today, "sent", sent, "failed", failed)
	return sent, failed, nil
}

// sendSummary 当天没有支出时不发送，返回 false
func (s *NotificationService) sendSummary(ctx context.Context, p models.Profile, date string) (bool, error) {
	expenses, err := s.transactions.ByDateForProfile(ctx, models.KindExpense, p.ID, date)
	if err != nil {
		return false, err
	}
	if len(expenses) == 0 {
		return false, nil
	}
	names, err := s.categories.NameMap(ctx, p.ID)
	if err != nil {
		return false, err
	}
	if err := s.mailer.SendExpenseSummaryEmail(p.Email, p.FullName, date, expenses, names); err != nil {
		return false, err
	}
	return true, nil
}

// Start 按配置的 cron 表达式（含秒）注册定时任务，未启用时直接返回
func (s *NotificationService) Start() error {
	if !s.cfg.Enabled {
		slog.Info("notification scheduler disabled")
		return nil
	}

	c := cron.New(cron.WithSeconds(), cron.WithLocation(s.cfg.Location()))
	if _, err := c.AddFunc(s.cfg.ReminderCron, func() {
		if _, _, err := s.SendDailyReminders(context.Background()); err != nil {
			slog.Error("daily reminder job failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("无效的提醒 cron 表达式 %q: %w", s.cfg.ReminderCron, err)
	}
	if _, err := c.AddFunc(s.cfg.SummaryCron, func() {
		if _, _, err := s.SendDailyExpenseSummaries(context.Background()); err != nil {
			slog.Error("expense summary job failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("无效的汇总 cron 表达式 %q: %w", s.cfg.SummaryCron, err)
	}

	c.Start()
	s.cron = c
	slog.Info("notification scheduler started", "reminder", s.cfg.ReminderCron, "summary", s.cfg.SummaryCron)
	return nil
}

// Stop 停止调度并等待正在执行的任务结束
func (s *NotificationService) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	s.cron = nil
}
