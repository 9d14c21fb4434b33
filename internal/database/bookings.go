package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shareit/internal/models"
)

const bookingColumns = `b.id, b.item_id, b.booker_id, b.start_at, b.end_at,
                        b.status, b.version, b.created_at, b.updated_at`

func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	query := `INSERT INTO bookings (item_id, booker_id, start_at, end_at, status,
	                                version, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		booking.ItemID,
		booking.BookerID,
		booking.Start.UnixNano(),
		booking.End.UnixNano(),
		booking.Status,
		1,
		now.UnixNano(),
		now.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	booking.ID = id
	booking.Version = 1
	booking.CreatedAt = now
	booking.UpdatedAt = now
	return nil
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings b WHERE b.id = ?`
	booking, err := scanBooking(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

// UpdateBookingStatusWithVersion transitions the booking status only when the
// row still carries the expected version. A zero row count means another
// writer got there first.
func (db *DB) UpdateBookingStatusWithVersion(ctx context.Context, id, fromVersion int64, status string) error {
	query := `UPDATE bookings SET status = ?, version = version + 1, updated_at = ?
	          WHERE id = ? AND version = ?`
	result, err := db.ExecContext(ctx, query, status, time.Now().UnixNano(), id, fromVersion)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrConcurrentModification
	}
	return nil
}

// GetBookingsByState answers the six-way state filter from either perspective.
// One dispatch covers both the booker and the owner views: the perspective
// picks the subject column, the state picks the temporal or status condition.
func (db *DB) GetBookingsByState(ctx context.Context, p models.Perspective, subjectID int64,
	state models.State, page, size int) ([]models.Booking, error) {

	subject := "b.booker_id"
	if p == models.AsOwner {
		subject = "i.owner_id"
	}

	now := time.Now().UnixNano()
	cond := ""
	args := []any{subjectID}
	switch state {
	case models.StateAll:
	case models.StatePast:
		cond = " AND b.end_at < ?"
		args = append(args, now)
	case models.StateFuture:
		cond = " AND b.start_at > ?"
		args = append(args, now)
	case models.StateCurrent:
		cond = " AND b.start_at < ? AND b.end_at > ?"
		args = append(args, now, now)
	case models.StateWaiting, models.StateRejected:
		cond = " AND b.status = ?"
		args = append(args, string(state))
	default:
		return nil, fmt.Errorf("unsupported booking state: %s", state)
	}

	query := `SELECT ` + bookingColumns + `
	          FROM bookings b JOIN items i ON i.id = b.item_id
	          WHERE ` + subject + ` = ?` + cond + `
	          ORDER BY b.start_at DESC LIMIT ? OFFSET ?`
	args = append(args, size, page*size)

	return db.queryBookings(ctx, query, args...)
}

// GetNearestBookings returns the latest booking started before now and the
// earliest one starting after now for an item, restricted to one status.
// Either result may be nil.
func (db *DB) GetNearestBookings(ctx context.Context, itemID int64, status string, now time.Time) (last, next *models.Booking, err error) {
	lastQuery := `SELECT ` + bookingColumns + ` FROM bookings b
	              WHERE b.item_id = ? AND b.status = ? AND b.start_at < ?
	              ORDER BY b.start_at DESC LIMIT 1`
	nextQuery := `SELECT ` + bookingColumns + ` FROM bookings b
	              WHERE b.item_id = ? AND b.status = ? AND b.start_at > ?
	              ORDER BY b.start_at ASC LIMIT 1`

	last, err = scanOptionalBooking(db.QueryRowContext(ctx, lastQuery, itemID, status, now.UnixNano()))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get last booking: %w", err)
	}
	next, err = scanOptionalBooking(db.QueryRowContext(ctx, nextQuery, itemID, status, now.UnixNano()))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get next booking: %w", err)
	}
	return last, next, nil
}

// GetApprovedBookingsForOwner loads every approved booking of the owner's
// items in one query, for grouping into item views.
func (db *DB) GetApprovedBookingsForOwner(ctx context.Context, ownerID int64) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + `
	          FROM bookings b JOIN items i ON i.id = b.item_id
	          WHERE i.owner_id = ? AND b.status = ?
	          ORDER BY b.start_at`
	return db.queryBookings(ctx, query, ownerID, models.StatusApproved)
}

// GetAllBookings returns every booking, newest created first. Feeds the
// admin export.
func (db *DB) GetAllBookings(ctx context.Context) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings b ORDER BY b.created_at DESC`
	return db.queryBookings(ctx, query)
}

// HasCompletedBooking reports whether the user has an approved booking of the
// item that already ended. Gates comment creation.
func (db *DB) HasCompletedBooking(ctx context.Context, itemID, bookerID int64, now time.Time) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(
	              SELECT 1 FROM bookings
	              WHERE item_id = ? AND booker_id = ? AND status = ? AND end_at < ?)`
	err := db.QueryRowContext(ctx, query, itemID, bookerID, models.StatusApproved, now.UnixNano()).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check completed booking: %w", err)
	}
	return exists, nil
}

func (db *DB) queryBookings(ctx context.Context, query string, args ...any) ([]models.Booking, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	bookings := []models.Booking{}
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, *booking)
	}
	return bookings, rows.Err()
}

func scanBooking(row rowScanner) (*models.Booking, error) {
	var b models.Booking
	var start, end, created, updated int64
	err := row.Scan(&b.ID, &b.ItemID, &b.BookerID, &start, &end,
		&b.Status, &b.Version, &created, &updated)
	if err != nil {
		return nil, err
	}
	b.Start = time.Unix(0, start)
	b.End = time.Unix(0, end)
	b.CreatedAt = time.Unix(0, created)
	b.UpdatedAt = time.Unix(0, updated)
	return &b, nil
}

func scanOptionalBooking(row *sql.Row) (*models.Booking, error) {
	booking, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return booking, err
}
