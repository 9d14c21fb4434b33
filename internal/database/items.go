package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shareit/internal/models"
)

func (db *DB) CreateItem(ctx context.Context, item *models.Item) error {
	query := `INSERT INTO items (name, description, available, owner_id, request_id)
	          VALUES (?, ?, ?, ?, ?)`
	result, err := db.ExecContext(ctx, query,
		item.Name, item.Description, item.Available, item.OwnerID, nullableID(item.RequestID))
	if err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	item.ID = id
	return nil
}

func (db *DB) GetItem(ctx context.Context, id int64) (*models.Item, error) {
	query := `SELECT id, name, description, available, owner_id, request_id
	          FROM items WHERE id = ?`
	item, err := scanItem(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return item, nil
}

func (db *DB) UpdateItem(ctx context.Context, item *models.Item) error {
	query := `UPDATE items SET name = ?, description = ?, available = ? WHERE id = ?`
	result, err := db.ExecContext(ctx, query, item.Name, item.Description, item.Available, item.ID)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// GetItemsByOwner returns the owner's items ordered by id, one page at a time.
func (db *DB) GetItemsByOwner(ctx context.Context, ownerID int64, page, size int) ([]models.Item, error) {
	query := `SELECT id, name, description, available, owner_id, request_id
	          FROM items WHERE owner_id = ? ORDER BY id LIMIT ? OFFSET ?`
	return db.queryItems(ctx, query, ownerID, size, page*size)
}

// SearchAvailableItems matches text against name and description of available
// items, case-insensitively.
func (db *DB) SearchAvailableItems(ctx context.Context, text string, page, size int) ([]models.Item, error) {
	pattern := "%" + text + "%"
	query := `SELECT id, name, description, available, owner_id, request_id
	          FROM items
	          WHERE available = 1
	            AND (name LIKE ? COLLATE NOCASE OR description LIKE ? COLLATE NOCASE)
	          ORDER BY id LIMIT ? OFFSET ?`
	return db.queryItems(ctx, query, pattern, pattern, size, page*size)
}

// GetItemsByRequest returns the items created against one request.
func (db *DB) GetItemsByRequest(ctx context.Context, requestID int64) ([]models.Item, error) {
	query := `SELECT id, name, description, available, owner_id, request_id
	          FROM items WHERE request_id = ? ORDER BY id`
	return db.queryItems(ctx, query, requestID)
}

// GetItemsWithRequest returns every item that answers some request, for
// grouping into request views.
func (db *DB) GetItemsWithRequest(ctx context.Context) ([]models.Item, error) {
	query := `SELECT id, name, description, available, owner_id, request_id
	          FROM items WHERE request_id IS NOT NULL ORDER BY id`
	return db.queryItems(ctx, query)
}

func (db *DB) queryItems(ctx context.Context, query string, args ...any) ([]models.Item, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	items := []models.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*models.Item, error) {
	var item models.Item
	var requestID sql.NullInt64
	err := row.Scan(&item.ID, &item.Name, &item.Description, &item.Available,
		&item.OwnerID, &requestID)
	if err != nil {
		return nil, err
	}
	if requestID.Valid {
		item.RequestID = requestID.Int64
	}
	return &item, nil
}

func nullableID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}
