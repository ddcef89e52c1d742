package model

import (
	"testing"
	"time"
)

func projectionFixture(t *testing.T) []*Desk {
	t.Helper()

	d1 := &Desk{ID: "d1", LocationID: "hq-2"}
	b1, err := d1.RequestBooking(mustRange(t, "2025-06-02T09:00:00Z", "2025-06-02T11:00:00Z"), []string{"alice", "bob"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d1.SetBookingStatus(b1.ID, StatusAccepted); err != nil {
		t.Fatal(err)
	}

	d2 := &Desk{ID: "d2", LocationID: "hq-3"}
	if _, err := d2.RequestBooking(mustRange(t, "2025-06-02T09:00:00Z", "2025-06-02T11:00:00Z"), []string{"alice"}); err != nil {
		t.Fatal(err)
	}

	d3 := &Desk{ID: "d3", LocationID: "hq-4"}
	if _, err := d3.RequestBooking(mustRange(t, "2025-06-02T12:00:00Z", "2025-06-02T13:00:00Z"), []string{"carol"}); err != nil {
		t.Fatal(err)
	}

	return []*Desk{d1, d2, d3}
}

func TestDesksForAttendee(t *testing.T) {
	desks := projectionFixture(t)

	tests := []struct {
		name   string
		userID string
		want   []string
	}{
		{name: "attendee across statuses", userID: "alice", want: []string{"d1", "d2"}},
		{name: "single desk", userID: "carol", want: []string{"d3"}},
		{name: "unknown user", userID: "mallory", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DesksForAttendee(desks, tt.userID)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d desks, want %d", len(got), len(tt.want))
			}
			for i, d := range got {
				if d.ID != tt.want[i] {
					t.Errorf("desk[%d] = %s, want %s", i, d.ID, tt.want[i])
				}
			}
		})
	}
}

func TestLocationsAtInstant(t *testing.T) {
	desks := projectionFixture(t)

	tests := []struct {
		name    string
		userID  string
		instant string
		want    int
	}{
		{name: "inside accepted booking", userID: "alice", instant: "2025-06-02T10:00:00Z", want: 1},
		{name: "start boundary counts", userID: "alice", instant: "2025-06-02T09:00:00Z", want: 1},
		{name: "end boundary counts", userID: "alice", instant: "2025-06-02T11:00:00Z", want: 1},
		{name: "outside the range", userID: "alice", instant: "2025-06-02T12:00:00Z", want: 0},
		{name: "pending does not count", userID: "carol", instant: "2025-06-02T12:30:00Z", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			instant, err := time.Parse(time.RFC3339, tt.instant)
			if err != nil {
				t.Fatal(err)
			}
			got := LocationsAtInstant(desks, tt.userID, instant)
			if len(got) != tt.want {
				t.Fatalf("got %d desks, want %d", len(got), tt.want)
			}
			for _, d := range got {
				for i := range d.Bookings {
					b := &d.Bookings[i]
					if b.Status != StatusAccepted {
						t.Errorf("projection leaked %s booking %s", b.Status, b.ID)
					}
					if !hasAttendee(b, tt.userID) {
						t.Errorf("projection leaked booking %s without attendee %s", b.ID, tt.userID)
					}
				}
			}
		})
	}
}

func TestLocationsAtInstantCopiesDesk(t *testing.T) {
	desks := projectionFixture(t)
	instant, _ := time.Parse(time.RFC3339, "2025-06-02T10:00:00Z")

	before := len(desks[0].Bookings)
	got := LocationsAtInstant(desks, "alice", instant)
	if len(got) != 1 {
		t.Fatalf("got %d desks, want 1", len(got))
	}
	if len(desks[0].Bookings) != before {
		t.Error("projection mutated the source desk's booking list")
	}
}
