package api

import (
	"encoding/json"
	"net/http"
)

type createRequestRequest struct {
	Description string `json:"description"`
}

func (s *Server) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var body createRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	request, err := s.requests.Create(r.Context(), body.Description, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, request)
}

func (s *Server) handleListOwnRequests(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	requests, err := s.requests.ListOwn(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

func (s *Server) handleListOtherRequests(w http.ResponseWriter, r *http.Request) {
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

	requests, err := s.requests.ListOthers(r.Context(), userID, from, size)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

func (s *Server) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	requestID, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, err)
		return
	}

	request, err := s.requests.Get(r.Context(), requestID, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, request)
}
