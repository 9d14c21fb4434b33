package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"shareit/internal/apperrors"
	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/models"
)

// BookingService enforces the booking lifecycle: temporal validity at
// creation, single WAITING -> APPROVED/REJECTED transition, and the
// state-filtered views from the booker's and the owner's perspective.
type BookingService struct {
	store    domain.Storage
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewBookingService(store domain.Storage, eventBus domain.EventPublisher, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		store:    store,
		eventBus: eventBus,
		logger:   logger,
	}
}

func (s *BookingService) Create(ctx context.Context, itemID int64, start, end time.Time, bookerID int64) (*models.Booking, error) {
	item, err := s.store.GetItem(ctx, itemID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, apperrors.NotFound("Item ID = %d not found!", itemID)
	}
	if err != nil {
		return nil, err
	}
	if !item.Available {
		return nil, apperrors.Validation("Item ID = %d is not available for booking!", item.ID)
	}
	if !start.Before(end) || start.Before(time.Now()) {
		return nil, apperrors.Validation("Invalid booking datetime!")
	}
	// Booking one's own item is masked as absence rather than reported as
	// a permission problem.
	if item.OwnerID == bookerID {
		return nil, apperrors.NotFound("Cant book own item!")
	}
	if _, err := s.getUser(ctx, bookerID); err != nil {
		return nil, err
	}

	booking := &models.Booking{
		ItemID:   itemID,
		BookerID: bookerID,
		Start:    start,
		End:      end,
		Status:   models.StatusWaiting,
	}
	if err := s.store.CreateBooking(ctx, booking); err != nil {
		return nil, err
	}

	s.publishEvent(events.EventBookingCreated, booking)
	s.logger.Info().
		Int64("booking_id", booking.ID).
		Int64("item_id", itemID).
		Int64("booker_id", bookerID).
		Msg("booking created")
	return booking, nil
}

func (s *BookingService) Confirm(ctx context.Context, bookingID int64, approved bool, userID int64) (*models.Booking, error) {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	item, err := s.store.GetItem(ctx, booking.ItemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != userID {
		return nil, apperrors.NotFound("Owner ID and confirmer ID mismatch!")
	}
	if booking.Status != models.StatusWaiting {
		return nil, apperrors.Validation("Booking state is already confirmed")
	}

	status := models.StatusRejected
	eventType := events.EventBookingRejected
	if approved {
		status = models.StatusApproved
		eventType = events.EventBookingApproved
	}

	err = s.store.UpdateBookingStatusWithVersion(ctx, booking.ID, booking.Version, status)
	if errors.Is(err, database.ErrConcurrentModification) {
		// A concurrent confirm won the version race; for the caller the
		// booking is simply no longer WAITING.
		return nil, apperrors.Validation("Booking state is already confirmed")
	}
	if err != nil {
		return nil, err
	}

	booking, err = s.store.GetBooking(ctx, booking.ID)
	if err != nil {
		return nil, err
	}

	s.publishEvent(eventType, booking)
	s.logger.Info().
		Int64("booking_id", booking.ID).
		Str("status", booking.Status).
		Int64("owner_id", userID).
		Msg("booking confirmed")
	return booking, nil
}

func (s *BookingService) Get(ctx context.Context, bookingID, userID int64) (*models.Booking, error) {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	item, err := s.store.GetItem(ctx, booking.ItemID)
	if err != nil {
		return nil, err
	}
	if booking.BookerID != userID && item.OwnerID != userID {
		return nil, apperrors.NotFound("Requester ID and creator(item owner) ID mismatch!")
	}
	return booking, nil
}

func (s *BookingService) ListByBooker(ctx context.Context, bookerID int64, state string, from, size int) ([]models.Booking, error) {
	return s.list(ctx, models.AsBooker, bookerID, state, from, size)
}

func (s *BookingService) ListByOwner(ctx context.Context, ownerID int64, state string, from, size int) ([]models.Booking, error) {
	return s.list(ctx, models.AsOwner, ownerID, state, from, size)
}

// list is the single dispatch behind both perspectives.
func (s *BookingService) list(ctx context.Context, p models.Perspective, subjectID int64, state string, from, size int) ([]models.Booking, error) {
	parsed, err := models.ParseState(state)
	if err != nil {
		return nil, apperrors.Validation("%s", err.Error())
	}
	exists, err := s.store.UserExists(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.NotFound("User ID = %d not found!", subjectID)
	}
	page, err := pageOf(from, size)
	if err != nil {
		return nil, err
	}
	return s.store.GetBookingsByState(ctx, p, subjectID, parsed, page, size)
}

func (s *BookingService) getBooking(ctx context.Context, id int64) (*models.Booking, error) {
	booking, err := s.store.GetBooking(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, apperrors.NotFound("Booking ID = %d not found!", id)
	}
	if err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *BookingService) getUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, apperrors.NotFound("User ID = %d not found!", id)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *BookingService) publishEvent(eventType string, booking *models.Booking) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID: booking.ID,
		ItemID:    booking.ItemID,
		BookerID:  booking.BookerID,
		Status:    booking.Status,
		Start:     booking.Start,
		End:       booking.End,
	}
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("booking_id", booking.ID).Msg("publish event error")
	}
}

// pageOf converts an element offset into a page index. Only page-aligned
// offsets are accepted.
func pageOf(from, size int) (int, error) {
	if size < 1 || from < 0 || from%size != 0 {
		return 0, apperrors.Validation("Element index and page size mismatch!")
	}
	return from / size, nil
}
