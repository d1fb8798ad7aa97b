package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"moneymanager/config"
	"moneymanager/database"
	"moneymanager/middleware"
	"moneymanager/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type recordingMailer struct {
	links []string
}

func (m *recordingMailer) SendActivationEmail(toEmail, fullName, activationLink string) error {
	m.links = append(m.links, activationLink)
	return nil
}

func (m *recordingMailer) SendReminderEmail(string, string, string) error { return nil }

func (m *recordingMailer) SendExpenseSummaryEmail(string, string, string, []models.Transaction, map[uint]string) error {
	return nil
}

func (m *recordingMailer) SendWithAttachment(string, string, string, string, []byte) error {
	return nil
}

func setupTestRouter(t *testing.T) (http.Handler, *gorm.DB, *recordingMailer) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(database.SQLiteDSN(fmt.Sprintf("file:router_%s?mode=memory&cache=shared", t.Name()))), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "test", BaseURL: "http://localhost:8080"},
		JWT:    config.JWTConfig{Secret: "router-test-secret", ExpireTime: time.Hour},
	}
	middleware.InitJWT(cfg)

	mailer := &recordingMailer{}
	return SetupRouter(cfg, db, mailer), db, mailer
}

func call(h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func dataOf(t *testing.T, w *httptest.ResponseRecorder) interface{} {
	t.Helper()
	var resp struct {
		Data interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data
}

func TestRouter_Probes(t *testing.T) {
	h, _, _ := setupTestRouter(t)

	for path, body := range map[string]string{
		"/":       "Application is running",
		"/status": "Application is running",
		"/health": "Application is running",
		"/check":  "Service is up and running!",
	} {
		w := call(h, "GET", path, "", "")
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Equal(t, body, w.Body.String(), path)
	}

	w := call(h, "OPTIONS", "/dashboard", "", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	h, _, _ := setupTestRouter(t)

	for _, route := range [][2]string{
		{"GET", "/profile/getProfile"},
		{"GET", "/categories"},
		{"GET", "/incomes"},
		{"DELETE", "/expenses"},
		{"POST", "/filters/filter"},
		{"GET", "/dashboard"},
		{"GET", "/excel/download/income"},
		{"GET", "/email/expense-excel"},
	} {
		w := call(h, route[0], route[1], "", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, route[1])
	}

	w := call(h, "GET", "/dashboard", "not-a-token", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_EndToEnd(t *testing.T) {
	h, db, mailer := setupTestRouter(t)

	w := call(h, "POST", "/profile/register", "", `{"fullName":"Alice","email":"alice@example.com","password":"secret123"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, mailer.links, 1)

	login := `{"email":"alice@example.com","password":"secret123"}`
	w = call(h, "POST", "/profile/login", "", login)
	require.Equal(t, http.StatusForbidden, w.Code)

	var p models.Profile
	require.NoError(t, db.Where("email = ?", "alice@example.com").First(&p).Error)
	w = call(h, "GET", "/profile/activate?token="+*p.ActivationToken, "", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = call(h, "POST", "/profile/login", "", login)
	require.Equal(t, http.StatusOK, w.Code)
	token := dataOf(t, w).(map[string]interface{})["token"].(string)

	w = call(h, "GET", "/profile/getProfile", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice@example.com", dataOf(t, w).(map[string]interface{})["email"])

	w = call(h, "POST", "/categories", token, `{"name":"Salary","type":"income"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	salaryID := uint(dataOf(t, w).(map[string]interface{})["id"].(float64))

	w = call(h, "POST", "/categories", token, `{"name":"Food","type":"expense"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	foodID := uint(dataOf(t, w).(map[string]interface{})["id"].(float64))

	w = call(h, "POST", "/categories", token, `{"name":"Food","type":"expense"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = call(h, "GET", "/categories/income", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, dataOf(t, w), 1)

	w = call(h, "PUT", fmt.Sprintf("/categories/%d", foodID), token, `{"name":"Groceries","type":"expense"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	today := models.FormatDate(time.Now())
	w = call(h, "POST", "/incomes", token, fmt.Sprintf(`{"name":"Salary","amount":"1000","date":"%s","categoryId":%d}`, today, salaryID))
	require.Equal(t, http.StatusOK, w.Code)
	w = call(h, "POST", "/expenses", token, fmt.Sprintf(`{"name":"Market","amount":"250.75","date":"%s","categoryId":%d}`, today, foodID))
	require.Equal(t, http.StatusOK, w.Code)
	expenseID := uint(dataOf(t, w).(map[string]interface{})["id"].(float64))

	w = call(h, "GET", "/dashboard", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "749.25", dataOf(t, w).(map[string]interface{})["balance"])

	w = call(h, "POST", "/filters/filter", token, `{"type":"expense","keyword":"mark"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, dataOf(t, w), 1)

	w = call(h, "GET", "/excel/download/expense", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotZero(t, w.Body.Len())

	w = call(h, "DELETE", fmt.Sprintf("/expenses?expenseId=%d", expenseID), token, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = call(h, "GET", "/expenses", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, dataOf(t, w))
}
