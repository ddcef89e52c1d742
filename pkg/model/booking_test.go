package model

import (
	"testing"
	"time"

	apperrors "github.com/Alexandrudiun/spaces/pkg/errors"
)

func TestTransitionMatrix(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name     string
		from     BookingStatus
		to       BookingStatus
		wantCode string
	}{
		{name: "pending to accepted", from: StatusPending, to: StatusAccepted},
		{name: "pending to declined", from: StatusPending, to: StatusDeclined},
		{name: "pending to cancelled", from: StatusPending, to: StatusCancelled},
		{name: "accepted to cancelled", from: StatusAccepted, to: StatusCancelled},
		{name: "accepted to declined", from: StatusAccepted, to: StatusDeclined, wantCode: apperrors.CodeConflict},
		{name: "accepted to pending", from: StatusAccepted, to: StatusPending, wantCode: apperrors.CodeConflict},
		{name: "declined is terminal", from: StatusDeclined, to: StatusAccepted, wantCode: apperrors.CodeConflict},
		{name: "cancelled is terminal", from: StatusCancelled, to: StatusAccepted, wantCode: apperrors.CodeConflict},
		{name: "unknown target", from: StatusPending, to: BookingStatus("approved"), wantCode: apperrors.CodeInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Booking{ID: "b1", Status: tt.from, UpdatedAt: now.Add(-time.Hour)}

			err := b.transitionTo(tt.to, now)
			if tt.wantCode != "" {
				if !apperrors.HasCode(err, tt.wantCode) {
					t.Fatalf("expected %s, got %v", tt.wantCode, err)
				}
				if b.Status != tt.from {
					t.Errorf("failed transition mutated status to %s", b.Status)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if b.Status != tt.to {
				t.Errorf("status = %s, want %s", b.Status, tt.to)
			}
			if !b.UpdatedAt.Equal(now) {
				t.Errorf("UpdatedAt not refreshed on transition")
			}
		})
	}
}

func TestTransitionToSameStatusIsIdempotent(t *testing.T) {
	before := time.Now().UTC().Add(-time.Hour)
	b := Booking{ID: "b1", Status: StatusCancelled, UpdatedAt: before}

	if err := b.transitionTo(StatusCancelled, time.Now().UTC()); err != nil {
		t.Fatalf("re-applying terminal status should not error, got %v", err)
	}
	if b.Status != StatusCancelled {
		t.Errorf("status = %s, want cancelled", b.Status)
	}
	if !b.UpdatedAt.Equal(before) {
		t.Errorf("no-op transition should not touch UpdatedAt")
	}
}
