package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"shareit/internal/apperrors"
	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/models"
)

// ItemService owns the listing catalog: creation against an optional request,
// owner-only partial updates, keyword search and the comment gate.
type ItemService struct {
	store    domain.Storage
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewItemService(store domain.Storage, eventBus domain.EventPublisher, logger *zerolog.Logger) *ItemService {
	return &ItemService{
		store:    store,
		eventBus: eventBus,
		logger:   logger,
	}
}

func (s *ItemService) Create(ctx context.Context, item *models.Item, ownerID int64) (*models.Item, error) {
	exists, err := s.store.UserExists(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.NotFound("User ID = %d not found!", ownerID)
	}
	if item.RequestID != 0 {
		if _, err := s.store.GetRequest(ctx, item.RequestID); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return nil, apperrors.NotFound("ItemRequest ID = %d not found!", item.RequestID)
			}
			return nil, err
		}
	}

	item.OwnerID = ownerID
	if err := s.store.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("item_id", item.ID).Int64("owner_id", ownerID).Msg("item created")
	return item, nil
}

func (s *ItemService) Patch(ctx context.Context, itemID, userID int64, patch models.ItemPatch) (*models.Item, error) {
	item, err := s.getItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	// Unlike booking confirmation, a non-owner update is reported as
	// forbidden, not masked as absence.
	if item.OwnerID != userID {
		return nil, apperrors.Forbidden("User ID and owner ID mismatch")
	}

	patch.ApplyTo(item)
	if err := s.store.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *ItemService) Get(ctx context.Context, itemID, userID int64) (*models.ItemDetails, error) {
	item, err := s.getItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	details := &models.ItemDetails{Item: *item}
	// Booking neighbours are owner-only knowledge.
	if item.OwnerID == userID {
		last, next, err := s.store.GetNearestBookings(ctx, itemID, models.StatusApproved, time.Now())
		if err != nil {
			return nil, err
		}
		details.LastBooking = toNearest(last)
		details.NextBooking = toNearest(next)
	}

	comments, err := s.store.GetCommentsByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	details.Comments = comments
	return details, nil
}

func (s *ItemService) ListByOwner(ctx context.Context, ownerID int64, from, size int) ([]models.ItemDetails, error) {
	page, err := pageOf(from, size)
	if err != nil {
		return nil, err
	}
	items, err := s.store.GetItemsByOwner(ctx, ownerID, page, size)
	if err != nil {
		return nil, err
	}
	// One batch per concern instead of per-item queries; grouping happens
	// in memory.
	bookings, err := s.store.GetApprovedBookingsForOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	comments, err := s.store.GetCommentsForOwnerItems(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	commentsByItem := make(map[int64][]models.Comment)
	for _, c := range comments {
		commentsByItem[c.ItemID] = append(commentsByItem[c.ItemID], c)
	}

	details := make([]models.ItemDetails, 0, len(items))
	for _, item := range items {
		d := models.ItemDetails{Item: item, Comments: commentsByItem[item.ID]}
		if d.Comments == nil {
			d.Comments = []models.Comment{}
		}
		var last, next *models.Booking
		for i := range bookings {
			b := bookings[i]
			if b.ItemID != item.ID {
				continue
			}
			switch {
			case b.Start.Before(now):
				if last == nil || b.Start.After(last.Start) {
					last = &bookings[i]
				}
			case b.Start.After(now):
				if next == nil || b.Start.Before(next.Start) {
					next = &bookings[i]
				}
			}
		}
		d.LastBooking = toNearest(last)
		d.NextBooking = toNearest(next)
		details = append(details, d)
	}
	return details, nil
}

// Search matches available items by keyword. A blank query returns an empty
// list rather than the whole catalog.
func (s *ItemService) Search(ctx context.Context, text string, from, size int) ([]models.Item, error) {
	if strings.TrimSpace(text) == "" {
		return []models.Item{}, nil
	}
	page, err := pageOf(from, size)
	if err != nil {
		return nil, err
	}
	return s.store.SearchAvailableItems(ctx, text, page, size)
}

func (s *ItemService) AddComment(ctx context.Context, itemID, userID int64, text string) (*models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.Validation("Comment text must not be blank!")
	}
	if len(text) > models.MaxTextLen {
		return nil, apperrors.Validation("Comment text is too long!")
	}

	completed, err := s.store.HasCompletedBooking(ctx, itemID, userID, time.Now())
	if err != nil {
		return nil, err
	}
	if !completed {
		return nil, apperrors.Validation("User ID = %d has no completed booking of item ID = %d!", userID, itemID)
	}

	if _, err := s.getItem(ctx, itemID); err != nil {
		return nil, err
	}
	author, err := s.store.GetUser(ctx, userID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, apperrors.NotFound("User ID = %d not found!", userID)
	}
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Text:       text,
		ItemID:     itemID,
		AuthorID:   userID,
		AuthorName: author.Name,
		Created:    time.Now(),
	}
	if err := s.store.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	if s.eventBus != nil {
		payload := events.CommentEventPayload{CommentID: comment.ID, ItemID: itemID, AuthorID: userID}
		if err := s.eventBus.PublishJSON(events.EventCommentAdded, payload); err != nil {
			s.logger.Error().Err(err).Int64("comment_id", comment.ID).Msg("publish event error")
		}
	}
	return comment, nil
}

func (s *ItemService) getItem(ctx context.Context, id int64) (*models.Item, error) {
	item, err := s.store.GetItem(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, apperrors.NotFound("Item ID = %d not found!", id)
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

func toNearest(b *models.Booking) *models.BookingNearest {
	if b == nil {
		return nil
	}
	return &models.BookingNearest{
		ID:       b.ID,
		BookerID: b.BookerID,
		Start:    b.Start,
		End:      b.End,
	}
}
