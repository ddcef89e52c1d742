package model

import (
	"time"

	"github.com/google/uuid"

	apperrors "github.com/Alexandrudiun/spaces/pkg/errors"
)

// Desk is a bookable resource and the aggregate root for its bookings.
// The single invariant the aggregate protects: no two accepted bookings may
// have overlapping ranges. Pending, declined and cancelled bookings are
// exempt, so competing requests for the same slot can coexist until one of
// them is approved.
//
// Desk is also the unit of concurrency: Version backs the optimistic save
// in the repository, so every mutation is a full load-mutate-save cycle.
type Desk struct {
	ID         string    `json:"id" bson:"_id,omitempty"`
	LocationID string    `json:"location_id" bson:"location_id"`
	Bookings   []Booking `json:"bookings" bson:"bookings"`
	Version    int64     `json:"-" bson:"version"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" bson:"updated_at"`
}

// RequestBooking admits a new reservation request for the given range. The
// overlap scan runs at request time even though the booking starts out
// pending, so requests that can never be approved are rejected up front.
// The returned booking is a detached copy; later mutations of the desk do
// not flow through it.
func (d *Desk) RequestBooking(r TimeRange, attendees []string) (*Booking, error) {
	if conflict := d.firstAcceptedOverlap(r, ""); conflict != nil {
		return nil, conflictError(conflict)
	}

	now := time.Now().UTC()
	booking := Booking{
		ID:        uuid.New().String(),
		Range:     r,
		Status:    StatusPending,
		Attendees: attendees,
		CreatedAt: now,
		UpdatedAt: now,
	}
	d.Bookings = append(d.Bookings, booking)
	out := booking
	return &out, nil
}

// SetBookingStatus drives the lifecycle of one booking. Approving re-runs
// the overlap scan against all other accepted bookings, so two competing
// pending requests cannot both end up accepted. Nothing is mutated unless
// every check passes. Returns a detached copy of the updated booking.
func (d *Desk) SetBookingStatus(bookingID string, target BookingStatus) (*Booking, error) {
	if !target.Valid() {
		return nil, apperrors.InvalidStatus(string(target))
	}

	booking := d.findBooking(bookingID)
	if booking == nil {
		return nil, apperrors.NotFoundWithID("Booking", bookingID)
	}

	if target == StatusAccepted && booking.Status != StatusAccepted {
		if conflict := d.firstAcceptedOverlap(booking.Range, booking.ID); conflict != nil {
			return nil, conflictError(conflict)
		}
	}

	if err := booking.transitionTo(target, time.Now().UTC()); err != nil {
		return nil, err
	}
	out := *booking
	return &out, nil
}

// CheckAvailability reports whether the range is free of accepted bookings.
// Pure read.
func (d *Desk) CheckAvailability(r TimeRange) bool {
	return d.firstAcceptedOverlap(r, "") == nil
}

// Booking returns a copy of the booking with the given id, or nil.
func (d *Desk) Booking(id string) *Booking {
	b := d.findBooking(id)
	if b == nil {
		return nil
	}
	out := *b
	return &out
}

func (d *Desk) findBooking(id string) *Booking {
	for i := range d.Bookings {
		if d.Bookings[i].ID == id {
			return &d.Bookings[i]
		}
	}
	return nil
}

// firstAcceptedOverlap scans accepted bookings for one overlapping r,
// skipping excludeID (so a booking never conflicts with itself).
func (d *Desk) firstAcceptedOverlap(r TimeRange, excludeID string) *Booking {
	for i := range d.Bookings {
		b := &d.Bookings[i]
		if b.ID == excludeID || b.Status != StatusAccepted {
			continue
		}
		if b.Range.Overlaps(r) {
			return b
		}
	}
	return nil
}

func conflictError(b *Booking) error {
	return apperrors.Conflict(
		"desk is already booked for " +
			b.Range.Start.Format(time.RFC3339) + " - " + b.Range.End.Format(time.RFC3339),
	).WithDetails(map[string]any{"booking_id": b.ID})
}
