package api

import (
	"encoding/json"
	"net/http"

	"shareit/internal/apperrors"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeServiceError maps the error taxonomy onto stable status codes.
// Unclassified errors surface as 500 with the error message exposed.
func writeServiceError(w http.ResponseWriter, err error) {
	switch apperrors.KindOf(err) {
	case apperrors.KindNotFound:
		writeError(w, http.StatusNotFound, err.Error())
	case apperrors.KindValidation:
		writeError(w, http.StatusBadRequest, err.Error())
	case apperrors.KindForbidden:
		writeError(w, http.StatusForbidden, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
