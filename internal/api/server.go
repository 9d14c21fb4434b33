package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"shareit/internal/apperrors"
	"shareit/internal/config"
	"shareit/internal/domain"
)

// headerUserID identifies the caller on every endpoint. The gateway is
// trusted to have populated it; no further authentication happens here.
const headerUserID = "X-Sharer-User-Id"

// Server is the core REST surface: controllers delegating to services.
type Server struct {
	users    domain.UserService
	items    domain.ItemService
	bookings domain.BookingService
	requests domain.RequestService
	exporter BookingExporter
	logger   *zerolog.Logger
	server   *http.Server
}

func NewServer(cfg config.ServerConfig,
	users domain.UserService,
	items domain.ItemService,
	bookings domain.BookingService,
	requests domain.RequestService,
	exporter BookingExporter,
	logger *zerolog.Logger,
) *Server {
	s := &Server{
		users:    users,
		items:    items,
		bookings: bookings,
		requests: requests,
		exporter: exporter,
		logger:   logger,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("POST /bookings", s.handleCreateBooking)
	mux.HandleFunc("PATCH /bookings/{id}", s.handleConfirmBooking)
	mux.HandleFunc("GET /bookings/owner", s.handleListBookingsByOwner)
	mux.HandleFunc("GET /bookings/{id}", s.handleGetBooking)
	mux.HandleFunc("GET /bookings", s.handleListBookingsByBooker)

	mux.HandleFunc("POST /items", s.handleCreateItem)
	mux.HandleFunc("PATCH /items/{id}", s.handlePatchItem)
	mux.HandleFunc("GET /items/search", s.handleSearchItems)
	mux.HandleFunc("GET /items/{id}", s.handleGetItem)
	mux.HandleFunc("GET /items", s.handleListOwnerItems)
	mux.HandleFunc("POST /items/{id}/comment", s.handleAddComment)

	mux.HandleFunc("POST /requests", s.handleCreateRequest)
	mux.HandleFunc("GET /requests/all", s.handleListOtherRequests)
	mux.HandleFunc("GET /requests/{id}", s.handleGetRequest)
	mux.HandleFunc("GET /requests", s.handleListOwnRequests)

	mux.HandleFunc("POST /users", s.handleCreateUser)
	mux.HandleFunc("GET /users", s.handleGetAllUsers)
	mux.HandleFunc("GET /users/{id}", s.handleGetUser)
	mux.HandleFunc("PATCH /users/{id}", s.handlePatchUser)
	mux.HandleFunc("DELETE /users/{id}", s.handleDeleteUser)

	mux.HandleFunc("GET /admin/bookings/export", s.handleExportBookings)

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           requestLogger(logger, mux),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return s
}

// Handler exposes the routed handler for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("server listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// callerID extracts the identity header.
func callerID(r *http.Request) (int64, error) {
	raw := r.Header.Get(headerUserID)
	if raw == "" {
		return 0, apperrors.Validation("%s header is required!", headerUserID)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperrors.Validation("%s header must be an integer!", headerUserID)
	}
	return id, nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil {
		return 0, apperrors.Validation("invalid %s in path", name)
	}
	return id, nil
}

// pagination reads the from/size query params with their 0/20 defaults.
// Alignment (from % size == 0) is the services' concern.
func pagination(r *http.Request) (from, size int, err error) {
	from, err = queryInt(r, "from", 0)
	if err != nil {
		return 0, 0, err
	}
	size, err = queryInt(r, "size", 20)
	if err != nil {
		return 0, 0, err
	}
	if from < 0 {
		return 0, 0, apperrors.Validation("from must not be negative!")
	}
	if size < 1 {
		return 0, 0, apperrors.Validation("size must be positive!")
	}
	return from, size, nil
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.Validation("%s must be an integer!", name)
	}
	return v, nil
}
