package model

import "time"

// DesksForAttendee filters desks down to those where the user appears in
// any booking's attendee list, regardless of status. Backs the
// "my bookings" view.
func DesksForAttendee(desks []*Desk, userID string) []*Desk {
	var out []*Desk
	for _, d := range desks {
		for i := range d.Bookings {
			if hasAttendee(&d.Bookings[i], userID) {
				out = append(out, d)
				break
			}
		}
	}
	return out
}

// LocationsAtInstant answers "where is this person at time T". For each desk
// it keeps only accepted bookings whose closed range contains the instant
// and which list the user as attendee; desks with no such booking are
// dropped. Returned desks are shallow copies carrying only the matching
// bookings, never the full original list.
func LocationsAtInstant(desks []*Desk, userID string, instant time.Time) []*Desk {
	var out []*Desk
	for _, d := range desks {
		var matching []Booking
		for i := range d.Bookings {
			b := &d.Bookings[i]
			if b.Status != StatusAccepted {
				continue
			}
			if !b.Range.Contains(instant) {
				continue
			}
			if hasAttendee(b, userID) {
				matching = append(matching, *b)
			}
		}
		if len(matching) > 0 {
			projected := *d
			projected.Bookings = matching
			out = append(out, &projected)
		}
	}
	return out
}

func hasAttendee(b *Booking, userID string) bool {
	for _, a := range b.Attendees {
		if a == userID {
			return true
		}
	}
	return false
}
