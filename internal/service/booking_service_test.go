package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"shareit/internal/apperrors"
	"shareit/internal/database"
	"shareit/internal/models"
)

func TestCreateBooking(t *testing.T) {
	store := new(mockStorage)
	svc := NewBookingService(store, nil, testLogger(t))

	item := &models.Item{ID: 1, Name: "Drill", Available: true, OwnerID: 10}
	booker := &models.User{ID: 20, Name: "Booker", Email: "b@example.com"}

	store.On("GetItem", mock.Anything, int64(1)).Return(item, nil)
	store.On("GetUser", mock.Anything, int64(20)).Return(booker, nil)
	store.On("CreateBooking", mock.Anything, mock.AnythingOfType("*models.Booking")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.Booking).ID = 100
		}).
		Return(nil)

	start := time.Now().Add(time.Hour)
	booking, err := svc.Create(context.Background(), 1, start, start.Add(time.Hour), 20)
	require.NoError(t, err)
	assert.Equal(t, int64(100), booking.ID)
	assert.Equal(t, models.StatusWaiting, booking.Status)
	store.AssertExpectations(t)
}

func TestCreateBookingItemNotFound(t *testing.T) {
	store := new(mockStorage)
	svc := NewBookingService(store, nil, testLogger(t))

	store.On("GetItem", mock.Anything, int64(5)).Return(nil, database.ErrNotFound)

	start := time.Now().Add(time.Hour)
	_, err := svc.Create(context.Background(), 5, start, start.Add(time.Hour), 20)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	assert.EqualError(t, err, "Item ID = 5 not found!")
}

func TestCreateBookingUnavailableItem(t *testing.T) {
	store := new(mockStorage)
	svc := NewBookingService(store, nil, testLogger(t))

	item := &models.Item{ID: 1, Available: false, OwnerID: 10}
	store.On("GetItem", mock.Anything, int64(1)).Return(item, nil)

	start := time.Now().Add(time.Hour)
	_, err := svc.Create(context.Background(), 1, start, start.Add(time.Hour), 20)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.EqualError(t, err, "Item ID = 1 is not available for booking!")
}

func TestCreateBookingInvalidDatetime(t *testing.T) {
	store := new(mockStorage)
	svc := NewBookingService(store, nil, testLogger(t))

	item := &models.Item{ID: 1, Available: true, OwnerID: 10}
	store.On("GetItem", mock.Anything, int64(1)).Return(item, nil)

	cases := []struct {
		name       string
		start, end time.Time
	}{
		{"end before start", time.Now().Add(2 * time.Hour), time.Now().Add(time.Hour)},
		{"start equals end", time.Now().Add(time.Hour).Truncate(time.Second), time.Now().Add(time.Hour).Truncate(time.Second)},
		{"start in the past", time.Now().Add(-time.Hour), time.Now().Add(time.Hour)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), 1, tc.start, tc.end, 20)
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
			assert.EqualError(t, err, "Invalid booking datetime!")
		})
	}
}

func TestCreateBookingOwnItem(t *testing.T) {
	store := new(mockStorage)
	svc := NewBookingService(store, nil, testLogger(t))

	item := &models.Item{ID: 1, Available: true, OwnerID: 10}
	store.On("GetItem", mock.Anything, int64(1)).Return(item, nil)

	start := time.Now().Add(time.Hour)
	_, err := svc.Create(context.Background(), 1, start, start.Add(time.Hour), 10)
	require.Error(t, err)
	// Masked as absence, not reported as forbidden.
	assert.True(t, apperrors.IsNotFound(err))
	assert.EqualError(t, err, "Cant book own item!")
}

func TestCreateBookingUnknownBooker(t *testing.T) {
	store := new(mockStorage)
	svc := NewBookingService(store, nil, testLogger(t))

	item := &models.Item{ID: 1, Available: true, OwnerID: 10}
	store.On("GetItem", mock.Anything, int64(1)).Return(item, nil)
	store.On("GetUser", mock.Anything, int64(99)).Return(nil, database.ErrNotFound)

	start := time.Now().Add(time.Hour)
	_, err := svc.Create(context.Background(), 1, start, start.Add(time.Hour), 99)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	assert.EqualError(t, err, "User ID = 99 not found!")
}

func TestConfirmBookingApprove(t *testing.T) {
	store := new(mockStorage)
	svc := NewBookingService(store, nil, testLogger(t))

	waiting := &models.Booking{ID: 100, ItemID: 1, BookerID: 20, Status: models.StatusWaiting, Version: 1}
	approved := &models.Booking{ID: 100, ItemID: 1, BookerID: 20, Status: models.StatusApproved, Version: 2}
	item := &models.Item{ID: 1, OwnerID: 10}

	store.On("GetBooking", mock.Anything, int64(100)).Return(waiting, nil).Once()
	store.On("GetItem", mock.Anything, int64(1)).Return(item, nil)
	store.On("UpdateBookingStatusWithVersion", mock.Anything, int64(100), int64(1), models.StatusApproved).Return(nil)
	store.On("GetBooking", mock.Anything, int64(100)).Return(approved, nil).Once()

	booking, err := svc.Confirm(context.Background(), 100, true, 10)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, booking.Status)
	store.AssertExpectations(t)
}

func TestConfirmBookingReject(t *testing.T) {
	store := new(mockStorage)
	svc := NewBookingService(store, nil, testLogger(t))

	waiting := &models.Booking{ID: 100, ItemID: 1, BookerID: 20, Status: models.StatusWaiting, Version: 1}
	rejected := &models.Booking{ID: 100, ItemID: 1, BookerID: 20, Status: models.StatusRejected, Version: 2}
	item := &models.Item{ID: 1, OwnerID: 10}

	store.On("GetBooking", mock.Anything, int64(100)).Return(waiting, nil).Once()
	store.On("GetItem", mock.Anything, int64(1)).Return(item, nil)
	store.On("UpdateBookingStatusWithVersion", mock.Anything, int64(100), int64(1), models.StatusRejected).Return(nil)
	store.On("GetBooking", mock.Anything, int64(100)).Return(rejected, nil).Once()

	booking, err := svc.Confirm(context.Background(), 100, false, 10)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, booking.Status)
}

func TestConfirmBookingNotOwner(t *testing.T) {
	store := new(mockStorage)
	svc := NewBookingService(store, nil, testLogger(t))

	waiting := &models.Booking{ID: 100, ItemID: 1, BookerID: 20, Status: models.StatusWaiting, Version: 1}
	item := &models.Item{ID: 1, OwnerID: 10}

	store.On("GetBooking", mock.Anything, int64(100)).Return(waiting, nil)
	store.On("GetItem", mock.Anything, int64(1)).Return(item, nil)

	_, err := svc.Confirm(context.Background(), 100, true, 20)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	assert.EqualError(t, err, "Owner ID and confirmer ID mismatch!")
}

func TestConfirmBookingAlreadyDecided(t *testing.T) {
	store := new(mockStorage)
	svc := NewBookingService(store, nil, testLogger(t))

	decided := &models.Booking{ID: 100, ItemID: 1, BookerID: 20, Status: models.StatusApproved, Version: 2}
	item := &models.Item{ID: 1, OwnerID: 10}

	store.On("GetBooking", mock.Anything, int64(100)).Return(decided, nil)
	store.On("GetItem", mock.Anything, int64(1)).Return(item, nil)

	_, err := svc.Confirm(context.Background(), 100, false, 10)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.EqualError(t, err, "Booking state is already confirmed")
}

func TestConfirmBookingVersionConflict(t *testing.T) {
	store := new(mockStorage)
	svc := NewBookingService(store, nil, testLogger(t))

	waiting := &models.Booking{ID: 100, ItemID: 1, BookerID: 20, Status: models.StatusWaiting, Version: 1}
	item := &models.Item{ID: 1, OwnerID: 10}

	store.On("GetBooking", mock.Anything, int64(100)).Return(waiting, nil)
	store.On("GetItem", mock.Anything, int64(1)).Return(item, nil)
	store.On("UpdateBookingStatusWithVersion", mock.Anything, int64(100), int64(1), models.StatusApproved).
		Return(database.ErrConcurrentModification)

	_, err := svc.Confirm(context.Background(), 100, true, 10)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.EqualError(t, err, "Booking state is already confirmed")
}

func TestGetBookingVisibility(t *testing.T) {
	store := new(mockStorage)
	svc := NewBookingService(store, nil, testLogger(t))

	booking := &models.Booking{ID: 100, ItemID: 1, BookerID: 20, Status: models.StatusWaiting}
	item := &models.Item{ID: 1, OwnerID: 10}

	store.On("GetBooking", mock.Anything, int64(100)).Return(booking, nil)
	store.On("GetItem", mock.Anything, int64(1)).Return(item, nil)

	// The booker and the owner both see it.
	got, err := svc.Get(context.Background(), 100, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(100), got.ID)

	_, err = svc.Get(context.Background(), 100, 10)
	require.NoError(t, err)

	// Anyone else gets absence.
	_, err = svc.Get(context.Background(), 100, 30)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	assert.EqualError(t, err, "Requester ID and creator(item owner) ID mismatch!")
}

func TestListBookingsUnknownState(t *testing.T) {
	store := new(mockStorage)
	svc := NewBookingService(store, nil, testLogger(t))

	_, err := svc.ListByBooker(context.Background(), 20, "ally", 0, 20)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.EqualError(t, err, "Unknown state: ALLY")
}

func TestListBookingsUnknownUser(t *testing.T) {
	store := new(mockStorage)
	svc := NewBookingService(store, nil, testLogger(t))

	store.On("UserExists", mock.Anything, int64(99)).Return(false, nil)

	_, err := svc.ListByOwner(context.Background(), 99, "ALL", 0, 20)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	assert.EqualError(t, err, "User ID = 99 not found!")
}

func TestListBookingsPageAlignment(t *testing.T) {
	store := new(mockStorage)
	svc := NewBookingService(store, nil, testLogger(t))

	store.On("UserExists", mock.Anything, int64(20)).Return(true, nil)

	_, err := svc.ListByBooker(context.Background(), 20, "ALL", 10, 20)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.EqualError(t, err, "Element index and page size mismatch!")
}

func TestListBookingsByState(t *testing.T) {
	store := new(mockStorage)
	svc := NewBookingService(store, nil, testLogger(t))

	bookings := []models.Booking{{ID: 1}, {ID: 2}}
	store.On("UserExists", mock.Anything, int64(20)).Return(true, nil)
	store.On("GetBookingsByState", mock.Anything, models.AsBooker, int64(20), models.StateWaiting, 2, 10).
		Return(bookings, nil)

	got, err := svc.ListByBooker(context.Background(), 20, "waiting", 20, 10)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	store.AssertExpectations(t)
}
