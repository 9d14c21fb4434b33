package domain

import (
	"context"
	"time"

	"shareit/internal/models"
)

// Storage is the persistence contract the services depend on. *database.DB
// implements it; tests substitute mocks.
type Storage interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id int64) (*models.User, error)
	UserExists(ctx context.Context, id int64) (bool, error)
	GetAllUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id int64) error

	CreateItem(ctx context.Context, item *models.Item) error
	GetItem(ctx context.Context, id int64) (*models.Item, error)
	UpdateItem(ctx context.Context, item *models.Item) error
	GetItemsByOwner(ctx context.Context, ownerID int64, page, size int) ([]models.Item, error)
	SearchAvailableItems(ctx context.Context, text string, page, size int) ([]models.Item, error)
	GetItemsByRequest(ctx context.Context, requestID int64) ([]models.Item, error)
	GetItemsWithRequest(ctx context.Context) ([]models.Item, error)

	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	UpdateBookingStatusWithVersion(ctx context.Context, id, fromVersion int64, status string) error
	GetBookingsByState(ctx context.Context, p models.Perspective, subjectID int64,
		state models.State, page, size int) ([]models.Booking, error)
	GetNearestBookings(ctx context.Context, itemID int64, status string, now time.Time) (last, next *models.Booking, err error)
	GetApprovedBookingsForOwner(ctx context.Context, ownerID int64) ([]models.Booking, error)
	HasCompletedBooking(ctx context.Context, itemID, bookerID int64, now time.Time) (bool, error)

	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentsByItem(ctx context.Context, itemID int64) ([]models.Comment, error)
	GetCommentsForOwnerItems(ctx context.Context, ownerID int64) ([]models.Comment, error)

	CreateRequest(ctx context.Context, request *models.ItemRequest) error
	GetRequest(ctx context.Context, id int64) (*models.ItemRequest, error)
	GetRequestsByRequester(ctx context.Context, requesterID int64) ([]models.ItemRequest, error)
	GetRequestsByOthers(ctx context.Context, userID int64, page, size int) ([]models.ItemRequest, error)
}

// EventPublisher fans domain events out to in-process subscribers.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// BookingService owns the booking lifecycle and the state-filtered views.
type BookingService interface {
	Create(ctx context.Context, itemID int64, start, end time.Time, bookerID int64) (*models.Booking, error)
	Confirm(ctx context.Context, bookingID int64, approved bool, userID int64) (*models.Booking, error)
	Get(ctx context.Context, bookingID, userID int64) (*models.Booking, error)
	ListByBooker(ctx context.Context, bookerID int64, state string, from, size int) ([]models.Booking, error)
	ListByOwner(ctx context.Context, ownerID int64, state string, from, size int) ([]models.Booking, error)
}

type ItemService interface {
	Create(ctx context.Context, item *models.Item, ownerID int64) (*models.Item, error)
	Patch(ctx context.Context, itemID, userID int64, patch models.ItemPatch) (*models.Item, error)
	Get(ctx context.Context, itemID, userID int64) (*models.ItemDetails, error)
	ListByOwner(ctx context.Context, ownerID int64, from, size int) ([]models.ItemDetails, error)
	Search(ctx context.Context, text string, from, size int) ([]models.Item, error)
	AddComment(ctx context.Context, itemID, userID int64, text string) (*models.Comment, error)
}

type RequestService interface {
	Create(ctx context.Context, description string, userID int64) (*models.ItemRequest, error)
	ListOwn(ctx context.Context, userID int64) ([]models.ItemRequestDetails, error)
	ListOthers(ctx context.Context, userID int64, from, size int) ([]models.ItemRequestDetails, error)
	Get(ctx context.Context, requestID, userID int64) (*models.ItemRequestDetails, error)
}

type UserService interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	GetAll(ctx context.Context) ([]models.User, error)
	Patch(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error)
	Delete(ctx context.Context, id int64) error
}
