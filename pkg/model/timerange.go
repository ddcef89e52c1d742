package model

import (
	"time"

	apperrors "github.com/Alexandrudiun/spaces/pkg/errors"
)

// TimeRange is a half-open interval [Start, End). Start must be strictly
// before End; construction rejects anything else.
type TimeRange struct {
	Start time.Time `json:"start" bson:"start"`
	End   time.Time `json:"end" bson:"end"`
}

func NewTimeRange(start, end time.Time) (TimeRange, error) {
	if start.IsZero() || end.IsZero() {
		return TimeRange{}, apperrors.InvalidRange("start and end are required")
	}
	if !start.Before(end) {
		return TimeRange{}, apperrors.InvalidRange("start must be before end")
	}
	return TimeRange{Start: start, End: end}, nil
}

// ParseTimeRange builds a TimeRange from two RFC3339 instants.
func ParseTimeRange(start, end string) (TimeRange, error) {
	s, err := time.Parse(time.RFC3339, start)
	if err != nil {
		return TimeRange{}, apperrors.InvalidRange("start is not a valid RFC3339 instant: " + start)
	}
	e, err := time.Parse(time.RFC3339, end)
	if err != nil {
		return TimeRange{}, apperrors.InvalidRange("end is not a valid RFC3339 instant: " + end)
	}
	return NewTimeRange(s, e)
}

// Overlaps reports whether the two half-open intervals share any instant.
// Touching endpoints ([10:00,11:00) and [11:00,12:00)) do not overlap.
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

// Contains reports whether the instant falls inside the range, inclusive of
// both bounds. Point-in-time occupancy intentionally uses the closed
// interval, unlike the overlap test.
func (r TimeRange) Contains(instant time.Time) bool {
	return !instant.Before(r.Start) && !instant.After(r.End)
}
