package model

import (
	"testing"
	"time"

	apperrors "github.com/Alexandrudiun/spaces/pkg/errors"
)

func mustRange(t *testing.T, start, end string) TimeRange {
	t.Helper()
	r, err := ParseTimeRange(start, end)
	if err != nil {
		t.Fatalf("ParseTimeRange(%s, %s): %v", start, end, err)
	}
	return r
}

func TestParseTimeRange(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		end      string
		wantCode string
	}{
		{
			name:  "valid range",
			start: "2025-06-02T10:00:00Z",
			end:   "2025-06-02T11:00:00Z",
		},
		{
			name:     "inverted range",
			start:    "2025-06-02T11:00:00Z",
			end:      "2025-06-02T10:00:00Z",
			wantCode: apperrors.CodeInvalidRange,
		},
		{
			name:     "equal bounds",
			start:    "2025-06-02T10:00:00Z",
			end:      "2025-06-02T10:00:00Z",
			wantCode: apperrors.CodeInvalidRange,
		},
		{
			name:     "unparsable start",
			start:    "not-a-date",
			end:      "2025-06-02T11:00:00Z",
			wantCode: apperrors.CodeInvalidRange,
		},
		{
			name:     "unparsable end",
			start:    "2025-06-02T10:00:00Z",
			end:      "june 2nd",
			wantCode: apperrors.CodeInvalidRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTimeRange(tt.start, tt.end)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !apperrors.HasCode(err, tt.wantCode) {
				t.Fatalf("expected %s, got %v", tt.wantCode, err)
			}
		})
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a    TimeRange
		b    TimeRange
		want bool
	}{
		{
			name: "partial overlap",
			a:    mustRange(t, "2025-06-02T10:00:00Z", "2025-06-02T11:00:00Z"),
			b:    mustRange(t, "2025-06-02T10:30:00Z", "2025-06-02T11:30:00Z"),
			want: true,
		},
		{
			name: "contained",
			a:    mustRange(t, "2025-06-02T09:00:00Z", "2025-06-02T12:00:00Z"),
			b:    mustRange(t, "2025-06-02T10:00:00Z", "2025-06-02T11:00:00Z"),
			want: true,
		},
		{
			name: "touching endpoints do not overlap",
			a:    mustRange(t, "2025-06-02T10:00:00Z", "2025-06-02T11:00:00Z"),
			b:    mustRange(t, "2025-06-02T11:00:00Z", "2025-06-02T12:00:00Z"),
			want: false,
		},
		{
			name: "disjoint",
			a:    mustRange(t, "2025-06-02T08:00:00Z", "2025-06-02T09:00:00Z"),
			b:    mustRange(t, "2025-06-02T10:00:00Z", "2025-06-02T11:00:00Z"),
			want: false,
		},
		{
			name: "identical",
			a:    mustRange(t, "2025-06-02T10:00:00Z", "2025-06-02T11:00:00Z"),
			b:    mustRange(t, "2025-06-02T10:00:00Z", "2025-06-02T11:00:00Z"),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("Overlaps(a, b) = %v, want %v", got, tt.want)
			}
			// symmetry must hold for every pair
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("Overlaps(b, a) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestContainsIsClosed(t *testing.T) {
	r := mustRange(t, "2025-06-02T10:00:00Z", "2025-06-02T11:00:00Z")

	tests := []struct {
		name    string
		instant time.Time
		want    bool
	}{
		{"start boundary", r.Start, true},
		{"end boundary", r.End, true},
		{"interior", r.Start.Add(30 * time.Minute), true},
		{"before", r.Start.Add(-time.Second), false},
		{"after", r.End.Add(time.Second), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.instant); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.instant, got, tt.want)
			}
		})
	}
}
