package service

import (
	"context"
	"strings"
	"testing"

	"moneymanager/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileService_RegisterActivateLogin(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	mailer := &fakeMailer{}
	s := NewProfileService(db, mailer, "http://localhost:8080/")

	p, err := s.Register(ctx, RegisterInput{FullName: "Alice", Email: " Alice@Example.com ", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", p.Email)
	assert.False(t, p.IsActive)
	require.NotNil(t, p.ActivationToken)
	assert.NotEqual(t, "secret123", p.Password)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "activation", mailer.sent[0].kind)
	assert.Equal(t, "http://localhost:8080/profile/activate?token="+*p.ActivationToken, mailer.sent[0].link)

	// 未激活时禁止登录
	_, err = s.Authenticate(ctx, "alice@example.com", "secret123")
	assert.ErrorIs(t, err, ErrForbidden)
	assert.False(t, s.IsActive(ctx, "alice@example.com"))

	ok, err := s.Activate(ctx, *p.ActivationToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, s.IsActive(ctx, "ALICE@example.com"))

	// 令牌只能使用一次
	ok, err = s.Activate(ctx, *p.ActivationToken)
	require.NoError(t, err)
	assert.False(t, ok)

	var stored models.Profile
	require.NoError(t, db.First(&stored, p.ID).Error)
	assert.Nil(t, stored.ActivationToken)

	logged, err := s.Authenticate(ctx, "alice@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, p.ID, logged.ID)

	_, err = s.Authenticate(ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = s.Authenticate(ctx, "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestProfileService_RegisterDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	s := NewProfileService(db, &fakeMailer{}, "http://localhost:8080")

	_, err := s.Register(ctx, RegisterInput{FullName: "Alice", Email: "alice@example.com", Password: "pw"})
	require.NoError(t, err)

	_, err = s.Register(ctx, RegisterInput{FullName: "Alice 2", Email: "ALICE@example.com", Password: "pw"})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = s.Register(ctx, RegisterInput{FullName: "Nobody", Email: "", Password: "pw"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestProfileService_RegisterSurvivesMailFailure(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	mailer := &fakeMailer{failFor: map[string]bool{"alice@example.com": true}}
	s := NewProfileService(db, mailer, "http://localhost:8080")

	p, err := s.Register(ctx, RegisterInput{FullName: "Alice", Email: "alice@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.NotZero(t, p.ID)
	assert.Empty(t, mailer.sent)
}

func TestProfileService_ActivateUnknownToken(t *testing.T) {
	s := NewProfileService(newTestDB(t), nil, "http://localhost:8080")

	ok, err := s.Activate(context.Background(), "does-not-exist")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.Activate(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProfileService_GetAndListAll(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	createProfile(t, db, "alice@example.com")
	bob := createProfile(t, db, "bob@example.com")
	s := NewProfileService(db, nil, "")

	got, err := s.Get(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", got.Email)
	assert.NotEmpty(t, got.Password)

	_, err = s.Get(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	all, err := s.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestProfileService_ActivationLinkEscapesToken(t *testing.T) {
	s := NewProfileService(nil, nil, "https://mm.example.com/")
	link := s.ActivationLink("a b&c")
	assert.True(t, strings.HasPrefix(link, "https://mm.example.com/profile/activate?token="))
	assert.Contains(t, link, "a+b%26c")
}
