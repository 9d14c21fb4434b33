// Package gateway implements the validation shim in front of the core
// server. It checks request shapes, rate-limits callers, and forwards
// everything that passes, byte for byte.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"shareit/internal/config"
	"shareit/internal/metrics"
)

const headerUserID = "X-Sharer-User-Id"

type Gateway struct {
	cfg     config.GatewayConfig
	client  *http.Client
	limiter RateLimiter
	logger  *zerolog.Logger
	server  *http.Server
}

type bodyValidator func(raw []byte) error

type queryValidator func(query map[string][]string) error

func New(cfg config.GatewayConfig, limiter RateLimiter, logger *zerolog.Logger) *Gateway {
	g := &Gateway{
		cfg:     cfg,
		client:  &http.Client{Timeout: 30 * time.Second},
		limiter: limiter,
		logger:  logger,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("POST /bookings", g.route(true, nil, validateBookingBody))
	mux.HandleFunc("PATCH /bookings/{id}", g.route(true, nil, nil))
	mux.HandleFunc("GET /bookings/owner", g.route(true, allOf(validateState, validatePagination), nil))
	mux.HandleFunc("GET /bookings/{id}", g.route(true, nil, nil))
	mux.HandleFunc("GET /bookings", g.route(true, allOf(validateState, validatePagination), nil))

	mux.HandleFunc("POST /items", g.route(true, nil, validateItemCreateBody))
	mux.HandleFunc("PATCH /items/{id}", g.route(true, nil, validateItemPatchBody))
	mux.HandleFunc("GET /items/search", g.route(true, validatePagination, nil))
	mux.HandleFunc("GET /items/{id}", g.route(true, nil, nil))
	mux.HandleFunc("GET /items", g.route(true, validatePagination, nil))
	mux.HandleFunc("POST /items/{id}/comment", g.route(true, nil, validateCommentBody))

	mux.HandleFunc("POST /requests", g.route(true, nil, validateRequestBody))
	mux.HandleFunc("GET /requests/all", g.route(true, validatePagination, nil))
	mux.HandleFunc("GET /requests/{id}", g.route(true, nil, nil))
	mux.HandleFunc("GET /requests", g.route(true, nil, nil))

	mux.HandleFunc("POST /users", g.route(false, nil, validateUserCreateBody))
	mux.HandleFunc("GET /users", g.route(false, nil, nil))
	mux.HandleFunc("GET /users/{id}", g.route(false, nil, nil))
	mux.HandleFunc("PATCH /users/{id}", g.route(false, nil, validateUserPatchBody))
	mux.HandleFunc("DELETE /users/{id}", g.route(false, nil, nil))

	g.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	return g
}

// Handler exposes the routed handler for tests.
func (g *Gateway) Handler() http.Handler {
	return g.server.Handler
}

func (g *Gateway) Start() error {
	g.logger.Info().Str("addr", g.server.Addr).Str("server_url", g.cfg.ServerURL).Msg("gateway listening")
	if err := g.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (g *Gateway) Shutdown(ctx context.Context) error {
	return g.server.Shutdown(ctx)
}

// route builds a handler that rate-limits, validates and forwards.
func (g *Gateway) route(requireUser bool, vq queryValidator, vb bodyValidator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		logger := g.logger.With().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Logger()

		caller := r.Header.Get(headerUserID)
		if requireUser {
			if caller == "" {
				g.reject(w, &logger, http.StatusBadRequest, headerUserID+" header is required!")
				return
			}
			if _, err := strconv.ParseInt(caller, 10, 64); err != nil {
				g.reject(w, &logger, http.StatusBadRequest, headerUserID+" header must be an integer!")
				return
			}
		}
		if caller == "" {
			caller = r.RemoteAddr
		}

		allowed, err := g.limiter.Allow(r.Context(), caller)
		if err != nil {
			logger.Error().Err(err).Msg("rate limiter error")
			g.reject(w, &logger, http.StatusInternalServerError, "rate limiter unavailable")
			return
		}
		if !allowed {
			g.reject(w, &logger, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		if vq != nil {
			if err := vq(r.URL.Query()); err != nil {
				g.reject(w, &logger, http.StatusBadRequest, err.Error())
				return
			}
		}

		var body []byte
		if r.Body != nil {
			body, err = io.ReadAll(r.Body)
			if err != nil {
				g.reject(w, &logger, http.StatusBadRequest, "failed to read request body")
				return
			}
		}
		if vb != nil {
			if err := vb(body); err != nil {
				g.reject(w, &logger, http.StatusBadRequest, err.Error())
				return
			}
		}

		g.forward(w, r, body, requestID, &logger)
	}
}

// forward proxies the validated request to the core server and copies the
// response back verbatim.
func (g *Gateway) forward(w http.ResponseWriter, r *http.Request, body []byte, requestID string, logger *zerolog.Logger) {
	target := g.cfg.ServerURL + r.URL.Path
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, target, bytes.NewReader(body))
	if err != nil {
		g.reject(w, logger, http.StatusInternalServerError, "failed to build upstream request")
		return
	}
	if userID := r.Header.Get(headerUserID); userID != "" {
		req.Header.Set(headerUserID, userID)
	}
	if ct := r.Header.Get("Content-Type"); ct != "" {
		req.Header.Set("Content-Type", ct)
	}
	req.Header.Set("X-Request-Id", requestID)

	resp, err := g.client.Do(req)
	if err != nil {
		logger.Error().Err(err).Str("target", target).Msg("upstream request failed")
		g.reject(w, logger, http.StatusBadGateway, "server unavailable")
		return
	}
	defer resp.Body.Close()

	w.Header().Set("Content-Type", resp.Header.Get("Content-Type"))
	w.Header().Set("X-Request-Id", requestID)
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		logger.Error().Err(err).Msg("copy upstream response")
	}

	metrics.IncHTTP(r.URL.Path, strconv.Itoa(resp.StatusCode))
	logger.Info().Int("status", resp.StatusCode).Msg("request forwarded")
}

func (g *Gateway) reject(w http.ResponseWriter, logger *zerolog.Logger, status int, message string) {
	metrics.IncHTTP("gateway_reject", strconv.Itoa(status))
	logger.Info().Int("status", status).Str("reason", message).Msg("request rejected")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func allOf(validators ...queryValidator) queryValidator {
	return func(query map[string][]string) error {
		for _, v := range validators {
			if err := v(query); err != nil {
				return err
			}
		}
		return nil
	}
}
