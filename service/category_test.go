package service

import (
	"context"
	"testing"

	"moneymanager/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryService_Create(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	alice := createProfile(t, db, "alice@example.com")
	bob := createProfile(t, db, "bob@example.com")
	s := NewCategoryService(db)

	food, err := s.Create(ctx, alice.ID, CategoryInput{Name: "Food", Kind: "EXPENSE", Icon: "🍔"})
	require.NoError(t, err)
	assert.Equal(t, models.KindExpense, food.Kind)
	assert.Equal(t, alice.ID, food.ProfileID)

	_, err = s.Create(ctx, alice.ID, CategoryInput{Name: "Food", Kind: "income"})
	assert.ErrorIs(t, err, ErrConflict)

	// 名称唯一性只在同一用户内
	_, err = s.Create(ctx, bob.ID, CategoryInput{Name: "Food", Kind: "expense"})
	assert.NoError(t, err)

	_, err = s.Create(ctx, alice.ID, CategoryInput{Name: "Gift", Kind: "transfer"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = s.Create(ctx, alice.ID, CategoryInput{Name: "  ", Kind: "income"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCategoryService_Update(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	alice := createProfile(t, db, "alice@example.com")
	bob := createProfile(t, db, "bob@example.com")
	s := NewCategoryService(db)

	c, err := s.Create(ctx, alice.ID, CategoryInput{Name: "Food", Kind: "expense"})
	require.NoError(t, err)

	_, err = s.Update(ctx, bob.ID, c.ID, CategoryInput{Name: "Stolen", Kind: "expense"})
	assert.ErrorIs(t, err, ErrNotFound)

	updated, err := s.Update(ctx, alice.ID, c.ID, CategoryInput{Name: "Freelance", Kind: "income", Icon: "💼"})
	require.NoError(t, err)
	assert.Equal(t, "Freelance", updated.Name)
	assert.Equal(t, models.KindIncome, updated.Kind)
	assert.Equal(t, "💼", updated.Icon)

	var stored models.Category
	require.NoError(t, db.First(&stored, c.ID).Error)
	assert.Equal(t, "Freelance", stored.Name)
}

func TestCategoryService_ListByKind(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	alice := createProfile(t, db, "alice@example.com")
	bob := createProfile(t, db, "bob@example.com")
	createCategory(t, db, alice.ID, "Salary", models.KindIncome)
	createCategory(t, db, alice.ID, "Food", models.KindExpense)
	createCategory(t, db, alice.ID, "Rent", models.KindExpense)
	createCategory(t, db, bob.ID, "Fuel", models.KindExpense)
	s := NewCategoryService(db)

	all, err := s.List(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	expenses, err := s.ListByKind(ctx, alice.ID, models.KindExpense)
	require.NoError(t, err)
	require.Len(t, expenses, 2)
	assert.Equal(t, "Food", expenses[0].Name)
	assert.Equal(t, "Rent", expenses[1].Name)

	names, err := s.NameMap(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Salary", names[all[0].ID])
	assert.Len(t, names, 3)
}
