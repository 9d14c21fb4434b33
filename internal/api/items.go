package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"shareit/internal/apperrors"
	"shareit/internal/models"
)

type createItemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   *bool  `json:"available"`
	RequestID   int64  `json:"requestId"`
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var body createItemRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(body.Name) == "" {
		writeServiceError(w, apperrors.Validation("Item name must not be blank!"))
		return
	}
	if body.Available == nil {
		writeServiceError(w, apperrors.Validation("Item availability is required!"))
		return
	}

	item := &models.Item{
		Name:        body.Name,
		Description: body.Description,
		Available:   *body.Available,
		RequestID:   body.RequestID,
	}
	created, err := s.items.Create(r.Context(), item, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, created)
}

func (s *Server) handlePatchItem(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	itemID, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var patch models.ItemPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		writeServiceError(w, apperrors.Validation("Item name must not be blank!"))
		return
	}

	item, err := s.items.Patch(r.Context(), itemID, userID, patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	itemID, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, err)
		return
	}

	details, err := s.items.Get(r.Context(), itemID, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (s *Server) handleListOwnerItems(w http.ResponseWriter, r *http.Request) {
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

	items, err := s.items.ListByOwner(r.Context(), userID, from, size)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleSearchItems(w http.ResponseWriter, r *http.Request) {
	if _, err := callerID(r); err != nil {
		writeServiceError(w, err)
		return
	}
	from, size, err := pagination(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	items, err := s.items.Search(r.Context(), r.URL.Query().Get("text"), from, size)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

type createCommentRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	itemID, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var body createCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	comment, err := s.items.AddComment(r.Context(), itemID, userID, body.Text)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comment)
}
