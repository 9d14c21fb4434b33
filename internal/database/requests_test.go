package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shareit/internal/models"
)

func createTestRequest(t *testing.T, db *DB, requesterID int64, description string, created time.Time) *models.ItemRequest {
	t.Helper()
	request := &models.ItemRequest{
		Description: description,
		RequesterID: requesterID,
		Created:     created,
	}
	require.NoError(t, db.CreateRequest(context.Background(), request))
	return request
}

func TestRequestCreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	requester := createTestUser(t, db, "Requester", "req@example.com")
	request := createTestRequest(t, db, requester.ID, "need a drill", time.Now())

	got, err := db.GetRequest(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, "need a drill", got.Description)
	assert.Equal(t, requester.ID, got.RequesterID)

	_, err = db.GetRequest(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetRequestsByRequesterOrdering(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	requester := createTestUser(t, db, "Requester", "req@example.com")
	now := time.Now()
	older := createTestRequest(t, db, requester.ID, "older", now.Add(-time.Hour))
	newer := createTestRequest(t, db, requester.ID, "newer", now)

	own, err := db.GetRequestsByRequester(ctx, requester.ID)
	require.NoError(t, err)
	require.Len(t, own, 2)
	assert.Equal(t, newer.ID, own[0].ID)
	assert.Equal(t, older.ID, own[1].ID)
}

func TestGetRequestsByOthers(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	requester := createTestUser(t, db, "Requester", "req@example.com")
	other := createTestUser(t, db, "Other", "other@example.com")

	now := time.Now()
	createTestRequest(t, db, requester.ID, "mine", now)
	first := createTestRequest(t, db, other.ID, "theirs one", now.Add(-time.Minute))
	second := createTestRequest(t, db, other.ID, "theirs two", now)

	others, err := db.GetRequestsByOthers(ctx, requester.ID, 0, 20)
	require.NoError(t, err)
	require.Len(t, others, 2)
	assert.Equal(t, second.ID, others[0].ID)
	assert.Equal(t, first.ID, others[1].ID)

	paged, err := db.GetRequestsByOthers(ctx, requester.ID, 0, 1)
	require.NoError(t, err)
	require.Len(t, paged, 1)
	assert.Equal(t, second.ID, paged[0].ID)
}
