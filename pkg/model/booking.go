package model

import (
	"time"

	apperrors "github.com/Alexandrudiun/spaces/pkg/errors"
)

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusAccepted  BookingStatus = "accepted"
	StatusDeclined  BookingStatus = "declined"
	StatusCancelled BookingStatus = "cancelled"
)

// legalTransitions is the lifecycle state machine. Declined and cancelled
// are terminal; accepted may still be cancelled.
var legalTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusAccepted, StatusDeclined, StatusCancelled},
	StatusAccepted:  {StatusCancelled},
	StatusDeclined:  {},
	StatusCancelled: {},
}

func (s BookingStatus) Valid() bool {
	_, ok := legalTransitions[s]
	return ok
}

func (s BookingStatus) canTransitionTo(target BookingStatus) bool {
	for _, t := range legalTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// Booking is one reservation request against a Desk. It has no lifecycle of
// its own: it is owned by its parent Desk and only mutated through it.
type Booking struct {
	ID        string        `json:"id" bson:"_id"`
	Range     TimeRange     `json:"range" bson:"range,inline"`
	Status    BookingStatus `json:"status" bson:"status"`
	Attendees []string      `json:"attendees" bson:"attendees"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" bson:"updated_at"`
}

// transitionTo moves the booking to target, enforcing the state machine.
// Re-applying a terminal status is a no-op rather than an error, so that
// cancelling twice stays idempotent.
func (b *Booking) transitionTo(target BookingStatus, now time.Time) error {
	if !target.Valid() {
		return apperrors.InvalidStatus(string(target))
	}
	if b.Status == target {
		return nil
	}
	if !b.Status.canTransitionTo(target) {
		return apperrors.Conflict(
			"booking cannot move from " + string(b.Status) + " to " + string(target))
	}
	b.Status = target
	b.UpdatedAt = now
	return nil
}
