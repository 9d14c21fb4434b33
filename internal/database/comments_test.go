package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shareit/internal/models"
)

func TestCommentCreateAndList(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	author := createTestUser(t, db, "Author", "author@example.com")
	item := createTestItem(t, db, owner.ID, "Drill", true)

	comment := &models.Comment{
		Text:     "Works great",
		ItemID:   item.ID,
		AuthorID: author.ID,
		Created:  time.Now(),
	}
	require.NoError(t, db.CreateComment(ctx, comment))
	assert.NotZero(t, comment.ID)

	comments, err := db.GetCommentsByItem(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "Works great", comments[0].Text)
	assert.Equal(t, "Author", comments[0].AuthorName)
	assert.Equal(t, author.ID, comments[0].AuthorID)
}

func TestGetCommentsForOwnerItems(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	stranger := createTestUser(t, db, "Stranger", "stranger@example.com")
	author := createTestUser(t, db, "Author", "author@example.com")

	drill := createTestItem(t, db, owner.ID, "Drill", true)
	saw := createTestItem(t, db, owner.ID, "Saw", true)
	foreign := createTestItem(t, db, stranger.ID, "Hammer", true)

	for _, itemID := range []int64{drill.ID, saw.ID, foreign.ID} {
		comment := &models.Comment{Text: "ok", ItemID: itemID, AuthorID: author.ID, Created: time.Now()}
		require.NoError(t, db.CreateComment(ctx, comment))
	}

	comments, err := db.GetCommentsForOwnerItems(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, comments, 2)
}
