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
	"shareit/internal/models"
)

// RequestService owns the request board: open asks for items not yet listed,
// and their aggregation with the items created in response.
type RequestService struct {
	store  domain.Storage
	logger *zerolog.Logger
}

func NewRequestService(store domain.Storage, logger *zerolog.Logger) *RequestService {
	return &RequestService{store: store, logger: logger}
}

func (s *RequestService) Create(ctx context.Context, description string, userID int64) (*models.ItemRequest, error) {
	if strings.TrimSpace(description) == "" {
		return nil, apperrors.Validation("Request description must not be blank!")
	}
	if len(description) > models.MaxTextLen {
		return nil, apperrors.Validation("Request description is too long!")
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	request := &models.ItemRequest{
		Description: description,
		RequesterID: userID,
		Created:     time.Now(),
	}
	if err := s.store.CreateRequest(ctx, request); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("request_id", request.ID).Int64("requester_id", userID).Msg("item request created")
	return request, nil
}

func (s *RequestService) ListOwn(ctx context.Context, userID int64) ([]models.ItemRequestDetails, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	requests, err := s.store.GetRequestsByRequester(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.withItems(ctx, requests)
}

func (s *RequestService) ListOthers(ctx context.Context, userID int64, from, size int) ([]models.ItemRequestDetails, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	page, err := pageOf(from, size)
	if err != nil {
		return nil, err
	}
	requests, err := s.store.GetRequestsByOthers(ctx, userID, page, size)
	if err != nil {
		return nil, err
	}
	return s.withItems(ctx, requests)
}

func (s *RequestService) Get(ctx context.Context, requestID, userID int64) (*models.ItemRequestDetails, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	request, err := s.store.GetRequest(ctx, requestID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, apperrors.NotFound("Request ID = %d not found!", requestID)
	}
	if err != nil {
		return nil, err
	}

	items, err := s.store.GetItemsByRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	return &models.ItemRequestDetails{ItemRequest: *request, Items: items}, nil
}

// withItems attaches, to each request, the items created against it. One
// batch load; grouping happens in memory.
func (s *RequestService) withItems(ctx context.Context, requests []models.ItemRequest) ([]models.ItemRequestDetails, error) {
	linked, err := s.store.GetItemsWithRequest(ctx)
	if err != nil {
		return nil, err
	}
	byRequest := make(map[int64][]models.Item)
	for _, item := range linked {
		byRequest[item.RequestID] = append(byRequest[item.RequestID], item)
	}

	details := make([]models.ItemRequestDetails, 0, len(requests))
	for _, r := range requests {
		items := byRequest[r.ID]
		if items == nil {
			items = []models.Item{}
		}
		details = append(details, models.ItemRequestDetails{ItemRequest: r, Items: items})
	}
	return details, nil
}

func (s *RequestService) requireUser(ctx context.Context, id int64) error {
	exists, err := s.store.UserExists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.NotFound("User ID = %d not found!", id)
	}
	return nil
}
