package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shareit/internal/models"
)

func (db *DB) CreateRequest(ctx context.Context, request *models.ItemRequest) error {
	query := `INSERT INTO requests (description, requester_id, created_at)
	          VALUES (?, ?, ?)`
	result, err := db.ExecContext(ctx, query,
		request.Description, request.RequesterID, request.Created.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	request.ID = id
	return nil
}

func (db *DB) GetRequest(ctx context.Context, id int64) (*models.ItemRequest, error) {
	var r models.ItemRequest
	var created int64
	query := `SELECT id, description, requester_id, created_at FROM requests WHERE id = ?`
	err := db.QueryRowContext(ctx, query, id).Scan(&r.ID, &r.Description, &r.RequesterID, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	r.Created = time.Unix(0, created)
	return &r, nil
}

// GetRequestsByRequester returns the caller's own requests, newest first.
func (db *DB) GetRequestsByRequester(ctx context.Context, requesterID int64) ([]models.ItemRequest, error) {
	query := `SELECT id, description, requester_id, created_at
	          FROM requests WHERE requester_id = ? ORDER BY created_at DESC`
	return db.queryRequests(ctx, query, requesterID)
}

// GetRequestsByOthers returns other users' requests, newest first, paginated.
func (db *DB) GetRequestsByOthers(ctx context.Context, userID int64, page, size int) ([]models.ItemRequest, error) {
	query := `SELECT id, description, requester_id, created_at
	          FROM requests WHERE requester_id != ?
	          ORDER BY created_at DESC LIMIT ? OFFSET ?`
	return db.queryRequests(ctx, query, userID, size, page*size)
}

func (db *DB) queryRequests(ctx context.Context, query string, args ...any) ([]models.ItemRequest, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query requests: %w", err)
	}
	defer rows.Close()

	requests := []models.ItemRequest{}
	for rows.Next() {
		var r models.ItemRequest
		var created int64
		if err := rows.Scan(&r.ID, &r.Description, &r.RequesterID, &created); err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		r.Created = time.Unix(0, created)
		requests = append(requests, r)
	}
	return requests, rows.Err()
}
