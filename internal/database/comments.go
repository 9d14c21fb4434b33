package database

import (
	"context"
	"fmt"
	"time"

	"shareit/internal/models"
)

const commentColumns = `c.id, c.text, c.item_id, c.author_id, u.name, c.created_at`

func (db *DB) CreateComment(ctx context.Context, comment *models.Comment) error {
	query := `INSERT INTO comments (text, item_id, author_id, created_at)
	          VALUES (?, ?, ?, ?)`
	result, err := db.ExecContext(ctx, query,
		comment.Text, comment.ItemID, comment.AuthorID, comment.Created.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	comment.ID = id
	return nil
}

func (db *DB) GetCommentsByItem(ctx context.Context, itemID int64) ([]models.Comment, error) {
	query := `SELECT ` + commentColumns + `
	          FROM comments c JOIN users u ON u.id = c.author_id
	          WHERE c.item_id = ? ORDER BY c.created_at`
	return db.queryComments(ctx, query, itemID)
}

// GetCommentsForOwnerItems loads the comments of every item the owner lists,
// in one query, for grouping into item views.
func (db *DB) GetCommentsForOwnerItems(ctx context.Context, ownerID int64) ([]models.Comment, error) {
	query := `SELECT ` + commentColumns + `
	          FROM comments c
	          JOIN users u ON u.id = c.author_id
	          JOIN items i ON i.id = c.item_id
	          WHERE i.owner_id = ? ORDER BY c.created_at`
	return db.queryComments(ctx, query, ownerID)
}

func (db *DB) queryComments(ctx context.Context, query string, args ...any) ([]models.Comment, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		var c models.Comment
		var created int64
		if err := rows.Scan(&c.ID, &c.Text, &c.ItemID, &c.AuthorID, &c.AuthorName, &created); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		c.Created = time.Unix(0, created)
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
