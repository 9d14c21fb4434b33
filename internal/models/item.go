package models

import "time"

type Item struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	OwnerID     int64  `json:"ownerId"`
	// RequestID links the item to the request it was created for.
	// Zero when the item was listed spontaneously. Set at creation only.
	RequestID int64 `json:"requestId,omitempty"`
}

// ItemPatch carries a partial update. Nil fields are left unchanged.
type ItemPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

func (p ItemPatch) ApplyTo(it *Item) {
	if p.Name != nil {
		it.Name = *p.Name
	}
	if p.Description != nil {
		it.Description = *p.Description
	}
	if p.Available != nil {
		it.Available = *p.Available
	}
}

// BookingNearest is the trimmed booking attached to owner item views.
type BookingNearest struct {
	ID       int64     `json:"id"`
	BookerID int64     `json:"bookerId"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

// ItemDetails is an item with its owner-visible booking neighbours and comments.
// LastBooking and NextBooking are nil for non-owners.
type ItemDetails struct {
	Item
	LastBooking *BookingNearest `json:"lastBooking"`
	NextBooking *BookingNearest `json:"nextBooking"`
	Comments    []Comment       `json:"comments"`
}
