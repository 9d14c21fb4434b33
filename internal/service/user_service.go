package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"shareit/internal/apperrors"
	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/models"
)

type UserService struct {
	store  domain.Storage
	logger *zerolog.Logger
}

func NewUserService(store domain.Storage, logger *zerolog.Logger) *UserService {
	return &UserService{store: store, logger: logger}
}

func (s *UserService) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("user_id", user.ID).Msg("user created")
	return user, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	return s.getUser(ctx, id)
}

func (s *UserService) GetAll(ctx context.Context) ([]models.User, error) {
	return s.store.GetAllUsers(ctx)
}

func (s *UserService) Patch(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.ApplyTo(user)
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	err := s.store.DeleteUser(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return apperrors.NotFound("User ID = %d not found!", id)
	}
	return err
}

func (s *UserService) getUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, apperrors.NotFound("User ID = %d not found!", id)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
