package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"moneymanager/config"
	"moneymanager/database"
	"moneymanager/middleware"
	"moneymanager/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "debug", BaseURL: "http://localhost:8080"},
		JWT:    config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour},
	}
	middleware.InitJWT(cfg)
	return cfg
}

// setupMockDB sqlmock + GORM(MySQL 方言)
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	t.Cleanup(func() { sqlDB.Close() })
	return gormDB, mock
}

// setupSQLiteDB 内存 SQLite，已完成迁移
func setupSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(database.SQLiteDSN(fmt.Sprintf("file:api_%s?mode=memory&cache=shared", name))), &gorm.Config{
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

func setUserIDMiddleware(userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextKeyProfileID, userID)
		c.Next()
	}
}

func seedProfile(t *testing.T, db *gorm.DB, email string) *models.Profile {
	t.Helper()
	p := models.Profile{FullName: "Tester", Email: email, Password: "x", IsActive: true}
	require.NoError(t, db.Create(&p).Error)
	return &p
}

func seedCategory(t *testing.T, db *gorm.DB, profileID uint, name string, kind models.Kind) *models.Category {
	t.Helper()
	c := models.Category{ProfileID: profileID, Name: name, Kind: kind}
	require.NoError(t, db.Omit("Profile").Create(&c).Error)
	return &c
}

// doRequest 发送请求并返回记录器，body 为空时不设置 Content-Type
func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req = httptest.NewRequest(method, path, nil)
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

type attachment struct {
	to       string
	body     string
	filename string
	size     int
}

// stubMailer 记录发送的附件，err 非空时所有发送都失败
type stubMailer struct {
	mu          sync.Mutex
	activations []string
	attachments []attachment
	err         error
}

func (m *stubMailer) SendActivationEmail(toEmail, fullName, activationLink string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.activations = append(m.activations, activationLink)
	return nil
}

func (m *stubMailer) SendReminderEmail(toEmail, fullName, link string) error {
	return errors.New("not used")
}

func (m *stubMailer) SendExpenseSummaryEmail(toEmail, fullName, date string, expenses []models.Transaction, categoryNames map[uint]string) error {
	return errors.New("not used")
}

func (m *stubMailer) SendWithAttachment(toEmail, subject, body, filename string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.attachments = append(m.attachments, attachment{to: toEmail, body: body, filename: filename, size: len(data)})
	return nil
}
