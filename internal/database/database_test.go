package database

import (
	"context"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shareit/internal/models"
)

func setupTestDB(t *testing.T) *DB {
	logger := zerolog.New(os.Stdout)
	db, err := NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *DB, name, email string) *models.User {
	t.Helper()
	user := &models.User{Name: name, Email: email}
	require.NoError(t, db.CreateUser(context.Background(), user))
	return user
}

func createTestItem(t *testing.T, db *DB, ownerID int64, name string, available bool) *models.Item {
	t.Helper()
	item := &models.Item{
		Name:        name,
		Description: name + " description",
		Available:   available,
		OwnerID:     ownerID,
	}
	require.NoError(t, db.CreateItem(context.Background(), item))
	return item
}

func TestUserCRUD(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "Alice", "alice@example.com")
	assert.NotZero(t, user.ID)

	got, err := db.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, "alice@example.com", got.Email)

	got.Name = "Alice Updated"
	require.NoError(t, db.UpdateUser(ctx, got))

	updated, err := db.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice Updated", updated.Name)

	all, err := db.GetAllUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, db.DeleteUser(ctx, user.ID))

	_, err = db.GetUser(ctx, user.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserNotFound(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	_, err := db.GetUser(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	err = db.UpdateUser(ctx, &models.User{ID: 999, Name: "x", Email: "x@y.z"})
	assert.ErrorIs(t, err, ErrNotFound)

	err = db.DeleteUser(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserExists(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "Bob", "bob@example.com")

	exists, err := db.UserExists(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = db.UserExists(ctx, 999)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestDuplicateEmailRejected(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	createTestUser(t, db, "Alice", "same@example.com")

	err := db.CreateUser(ctx, &models.User{Name: "Other", Email: "same@example.com"})
	assert.Error(t, err)
}
