package models

import (
	"fmt"
	"strings"
	"time"
)

// Booking statuses. WAITING is the initial status, the other two are terminal.
const (
	StatusWaiting  = "WAITING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

type Booking struct {
	ID       int64     `json:"id"`
	ItemID   int64     `json:"itemId"`
	BookerID int64     `json:"bookerId"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Status   string    `json:"status"`
	// Version guards concurrent status transitions (optimistic lock).
	Version   int64     `json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// State is a semantic filter over bookings, resolved against the
// wall clock at query time.
type State string

const (
	StateAll      State = "ALL"
	StatePast     State = "PAST"
	StateFuture   State = "FUTURE"
	StateCurrent  State = "CURRENT"
	StateWaiting  State = "WAITING"
	StateRejected State = "REJECTED"
)

// ParseState resolves a state keyword case-insensitively. The error message
// carries the upper-cased input, which callers surface verbatim.
func ParseState(raw string) (State, error) {
	switch s := State(strings.ToUpper(raw)); s {
	case StateAll, StatePast, StateFuture, StateCurrent, StateWaiting, StateRejected:
		return s, nil
	default:
		return "", fmt.Errorf("Unknown state: %s", strings.ToUpper(raw))
	}
}

// Perspective selects whose relationship to a booking is used when listing:
// the booker's or the item owner's.
type Perspective int

const (
	AsBooker Perspective = iota
	AsOwner
)
