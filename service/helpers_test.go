package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"moneymanager/database"
	"moneymanager/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB 每个测试一个独立的内存数据库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := database.SQLiteDSN(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func fixedClock(year int, month time.Month, day int) func() time.Time {
	return func() time.Time {
		return time.Date(year, month, day, 12, 0, 0, 0, time.Local)
	}
}

func createProfile(t *testing.T, db *gorm.DB, email string) *models.Profile {
	t.Helper()
	p := models.Profile{FullName: strings.Split(email, "@")[0], Email: email, Password: "x", IsActive: true}
	require.NoError(t, db.Create(&p).Error)
	return &p
}

func createCategory(t *testing.T, db *gorm.DB, profileID uint, name string, kind models.Kind) *models.Category {
	t.Helper()
	c := models.Category{ProfileID: profileID, Name: name, Kind: kind}
	require.NoError(t, db.Omit("Profile").Create(&c).Error)
	return &c
}

func addTx(t *testing.T, s *TransactionService, profileID uint, kind models.Kind, categoryID uint, name, amount, date string) *models.Transaction {
	t.Helper()
	tx, err := s.Add(context.Background(), profileID, kind, TransactionInput{
		Name:       name,
		Amount:     decimal.RequireFromString(amount),
		Date:       date,
		CategoryID: categoryID,
	})
	require.NoError(t, err)
	return tx
}

type sentMail struct {
	kind string
	to   string
	link string
	date string
	rows int
}

// fakeMailer 记录发送内容，failFor 中的邮箱返回错误
type fakeMailer struct {
	mu      sync.Mutex
	sent    []sentMail
	failFor map[string]bool
}

func (m *fakeMailer) record(mail sentMail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failFor[mail.to] {
		return errors.New("smtp: connection refused")
	}
	m.sent = append(m.sent, mail)
	return nil
}

func (m *fakeMailer) SendActivationEmail(toEmail, fullName, activationLink string) error {
	return m.record(sentMail{kind: "activation", to: toEmail, link: activationLink})
}

func (m *fakeMailer) SendReminderEmail(toEmail, fullName, link string) error {
	return m.record(sentMail{kind: "reminder", to: toEmail, link: link})
}

func (m *fakeMailer) SendExpenseSummaryEmail(toEmail, fullName, date string, expenses []models.Transaction, categoryNames map[uint]string) error {
	return m.record(sentMail{kind: "summary", to: toEmail, date: date, rows: len(expenses)})
}

func (m *fakeMailer) SendWithAttachment(toEmail, subject, body, filename string, data []byte) error {
	return m.record(sentMail{kind: "attachment", to: toEmail})
}
