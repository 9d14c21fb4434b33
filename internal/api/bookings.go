package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"shareit/internal/apperrors"
)

type createBookingRequest struct {
	ItemID int64  `json:"itemId"`
	Start  string `json:"start"`
	End    string `json:"end"`
}

func (s *Server) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var body createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	start, err := parseTimestamp(body.Start, "start")
	if err != nil {
		writeServiceError(w, err)
		return
	}
	end, err := parseTimestamp(body.End, "end")
	if err != nil {
		writeServiceError(w, err)
		return
	}

	booking, err := s.bookings.Create(r.Context(), body.ItemID, start, end, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *Server) handleConfirmBooking(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	bookingID, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, err)
		return
	}
	approved, err := strconv.ParseBool(r.URL.Query().Get("approved"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "approved must be a boolean!")
		return
	}

	booking, err := s.bookings.Confirm(r.Context(), bookingID, approved, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *Server) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	bookingID, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, err)
		return
	}

	booking, err := s.bookings.Get(r.Context(), bookingID, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *Server) handleListBookingsByBooker(w http.ResponseWriter, r *http.Request) {
	s.listBookings(w, r, false)
}

func (s *Server) handleListBookingsByOwner(w http.ResponseWriter, r *http.Request) {
	s.listBookings(w, r, true)
}

func (s *Server) listBookings(w http.ResponseWriter, r *http.Request, ownerView bool) {
	userID, err := callerID(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	from, size, err := pagination(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	state := r.URL.Query().Get("state")
	if state == "" {
		state = "ALL"
	}

	list := s.bookings.ListByBooker
	if ownerView {
		list = s.bookings.ListByOwner
	}
	bookings, err := list(r.Context(), userID, state, from, size)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

// parseTimestamp accepts RFC 3339 as well as a zone-less ISO-8601 form,
// interpreted in server-local time.
func parseTimestamp(raw, field string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, apperrors.Validation("%s is required!", field)
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02T15:04:05", raw, time.Local)
	if err != nil {
		return time.Time{}, apperrors.Validation("%s must be an ISO-8601 timestamp!", field)
	}
	return t, nil
}
