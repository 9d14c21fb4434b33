package models

import "time"

// ItemRequest is an open ask for an item not yet listed. Items created in
// response reference it through their RequestID.
type ItemRequest struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	RequesterID int64     `json:"requesterId"`
	Created     time.Time `json:"created"`
}

// ItemRequestDetails aggregates a request with the items created against it.
type ItemRequestDetails struct {
	ItemRequest
	Items []Item `json:"items"`
}
