package events

import (
	"time"

	"github.com/Alexandrudiun/spaces/pkg/model"
)

// Event types emitted on the booking lifecycle stream.
const (
	TypeBookingRequested = "booking.requested"
	TypeBookingAccepted  = "booking.accepted"
	TypeBookingDeclined  = "booking.declined"
	TypeBookingCancelled = "booking.cancelled"
)

// Header keys attached to every message.
const (
	HeaderEventID   = "event-id"
	HeaderEventType = "event-type"
	HeaderSource    = "source"
	HeaderTimestamp = "timestamp"
)

// BookingEvent is the payload published for every lifecycle change.
// Partitioned by desk id so per-desk ordering is preserved.
type BookingEvent struct {
	DeskID     string              `json:"desk_id"`
	LocationID string              `json:"location_id"`
	BookingID  string              `json:"booking_id"`
	Status     model.BookingStatus `json:"status"`
	Start      time.Time           `json:"start"`
	End        time.Time           `json:"end"`
	Attendees  []string            `json:"attendees,omitempty"`
	OccurredAt time.Time           `json:"occurred_at"`
}

// TypeForStatus maps a lifecycle status to its event type.
func TypeForStatus(status model.BookingStatus) string {
	switch status {
	case model.StatusAccepted:
		return TypeBookingAccepted
	case model.StatusDeclined:
		return TypeBookingDeclined
	case model.StatusCancelled:
		return TypeBookingCancelled
	default:
		return TypeBookingRequested
	}
}
