package gateway

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"shareit/internal/models"
)

// The gateway validates shapes only: pagination arithmetic, enum membership,
// date ordering, required fields. Business rules stay with the core server.

type validationError struct {
	msg string
}

func (e *validationError) Error() string { return e.msg }

func invalid(msg string) error { return &validationError{msg: msg} }

func validatePagination(query map[string][]string) error {
	from, err := paginationParam(query, "from", 0)
	if err != nil {
		return err
	}
	size, err := paginationParam(query, "size", 20)
	if err != nil {
		return err
	}
	if from < 0 {
		return invalid("from must not be negative!")
	}
	if size < 1 {
		return invalid("size must be positive!")
	}
	if from%size != 0 {
		return invalid("Element index and page size mismatch!")
	}
	return nil
}

func paginationParam(query map[string][]string, name string, def int) (int, error) {
	values := query[name]
	if len(values) == 0 || values[0] == "" {
		return def, nil
	}
	v, err := strconv.Atoi(values[0])
	if err != nil {
		return 0, invalid(name + " must be an integer!")
	}
	return v, nil
}

func validateState(query map[string][]string) error {
	values := query["state"]
	if len(values) == 0 || values[0] == "" {
		return nil
	}
	if _, err := models.ParseState(values[0]); err != nil {
		return invalid(err.Error())
	}
	return nil
}

type bookingBody struct {
	ItemID int64  `json:"itemId"`
	Start  string `json:"start"`
	End    string `json:"end"`
}

func validateBookingBody(raw []byte) error {
	var body bookingBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return invalid("invalid JSON body")
	}
	start, err := parseTimestamp(body.Start)
	if err != nil {
		return invalid("start must be an ISO-8601 timestamp!")
	}
	end, err := parseTimestamp(body.End)
	if err != nil {
		return invalid("end must be an ISO-8601 timestamp!")
	}
	if !start.Before(end) || start.Before(time.Now()) {
		return invalid("Invalid booking datetime!")
	}
	return nil
}

type itemBody struct {
	Name      *string `json:"name"`
	Available *bool   `json:"available"`
}

func validateItemCreateBody(raw []byte) error {
	var body itemBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return invalid("invalid JSON body")
	}
	if body.Name == nil || strings.TrimSpace(*body.Name) == "" {
		return invalid("Item name must not be blank!")
	}
	if body.Available == nil {
		return invalid("Item availability is required!")
	}
	return nil
}

func validateItemPatchBody(raw []byte) error {
	var body itemBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return invalid("invalid JSON body")
	}
	if body.Name != nil && strings.TrimSpace(*body.Name) == "" {
		return invalid("Item name must not be blank!")
	}
	return nil
}

func validateCommentBody(raw []byte) error {
	var body struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return invalid("invalid JSON body")
	}
	if strings.TrimSpace(body.Text) == "" {
		return invalid("Comment text must not be blank!")
	}
	if len(body.Text) > models.MaxTextLen {
		return invalid("Comment text is too long!")
	}
	return nil
}

func validateRequestBody(raw []byte) error {
	var body struct {
		Description string `json:"description"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return invalid("invalid JSON body")
	}
	if strings.TrimSpace(body.Description) == "" {
		return invalid("Request description must not be blank!")
	}
	if len(body.Description) > models.MaxTextLen {
		return invalid("Request description is too long!")
	}
	return nil
}

func validateUserCreateBody(raw []byte) error {
	var body struct {
		Name  *string `json:"name"`
		Email *string `json:"email"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return invalid("invalid JSON body")
	}
	if body.Name == nil || strings.TrimSpace(*body.Name) == "" {
		return invalid("User name must not be blank!")
	}
	if body.Email == nil || !validEmail(*body.Email) {
		return invalid("User email is invalid!")
	}
	return nil
}

func validateUserPatchBody(raw []byte) error {
	var body struct {
		Email *string `json:"email"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return invalid("invalid JSON body")
	}
	if body.Email != nil && !validEmail(*body.Email) {
		return invalid("User email is invalid!")
	}
	return nil
}

func parseTimestamp(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02T15:04:05", raw, time.Local)
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 {
		return false
	}
	return !strings.ContainsAny(email, " \t")
}
