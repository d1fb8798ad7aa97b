package service

import (
	"context"
	"testing"
	"time"

	"moneymanager/config"
	"moneymanager/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNotificationService(t *testing.T, mailer *fakeMailer) (*NotificationService, *TransactionService, *CategoryService) {
	t.Helper()
	db := newTestDB(t)
	transactions := NewTransactionService(db)
	categories := NewCategoryService(db)
	cfg := &config.NotificationConfig{FrontendURL: "http://localhost:5173", Timezone: "UTC"}
	s := NewNotificationService(cfg, NewProfileService(db, mailer, ""), transactions, categories, mailer).
		WithClock(func() time.Time { return time.Date(2024, time.January, 2, 23, 0, 0, 0, time.UTC) })
	return s, transactions, categories
}

func TestNotificationService_RemindersContinueAfterFailure(t *testing.T) {
	mailer := &fakeMailer{failFor: map[string]bool{"bob@example.com": true}}
	s, transactions, _ := newTestNotificationService(t, mailer)
	db := transactions.db
	createProfile(t, db, "alice@example.com")
	createProfile(t, db, "bob@example.com")
	createProfile(t, db, "carol@example.com")

	sent, failed, err := s.SendDailyReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	assert.Equal(t, 1, failed)

	require.Len(t, mailer.sent, 2)
	assert.Equal(t, "alice@example.com", mailer.sent[0].to)
	assert.Equal(t, "carol@example.com", mailer.sent[1].to)
	assert.Equal(t, "http://localhost:5173", mailer.sent[1].link)
}

func TestNotificationService_ExpenseSummaries(t *testing.T) {
	mailer := &fakeMailer{failFor: map[string]bool{"bob@example.com": true}}
	s, transactions, _ := newTestNotificationService(t, mailer)
	db := transactions.db

	alice := createProfile(t, db, "alice@example.com")
	bob := createProfile(t, db, "bob@example.com")
	carol := createProfile(t, db, "carol@example.com")
	createProfile(t, db, "dave@example.com")

	food := map[uint]uint{}
	for _, p := range []*models.Profile{alice, bob, carol} {
		food[p.ID] = createCategory(t, db, p.ID, "Food", models.KindExpense).ID
		addTx(t, transactions, p.ID, models.KindExpense, food[p.ID], "Lunch", "8", "2024-01-02")
		addTx(t, transactions, p.ID, models.KindExpense, food[p.ID], "Yesterday", "3", "2024-01-01")
	}
	addTx(t, transactions, carol.ID, models.KindExpense, food[carol.ID], "Dinner", "20", "2024-01-02")

	sent, failed, err := s.SendDailyExpenseSummaries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	assert.Equal(t, 1, failed)

	require.Len(t, mailer.sent, 2)
	assert.Equal(t, "alice@example.com", mailer.sent[0].to)
	assert.Equal(t, 1, mailer.sent[0].rows)
	assert.Equal(t, "carol@example.com", mailer.sent[1].to)
	assert.Equal(t, 2, mailer.sent[1].rows)
	assert.Equal(t, "2024-01-02", mailer.sent[1].date)
}

func TestNotificationService_StartDisabled(t *testing.T) {
	s, _, _ := newTestNotificationService(t, &fakeMailer{})
	require.NoError(t, s.Start())
	assert.Nil(t, s.cron)
	s.Stop()
}

func TestNotificationService_StartInvalidCron(t *testing.T) {
	s, _, _ := newTestNotificationService(t, &fakeMailer{})
	s.cfg.Enabled = true
	s.cfg.ReminderCron = "not a cron"
	s.cfg.SummaryCron = "0 0 23 * * *"
	assert.Error(t, s.Start())
}

func TestNotificationService_StartStop(t *testing.T) {
	s, _, _ := newTestNotificationService(t, &fakeMailer{})
	s.cfg.Enabled = true
	s.cfg.ReminderCron = "0 0 22 * * *"
	s.cfg.SummaryCron = "0 0 23 * * *"
	require.NoError(t, s.Start())
	require.NotNil(t, s.cron)
	assert.Len(t, s.cron.Entries(), 2)
	s.Stop()
	assert.Nil(t, s.cron)
}
