package service

import (
	"context"
	"io"
	"testing"
	"time"

	deskserrors "github.com/Alexandrudiun/spaces/internal/desks/errors"
	"github.com/Alexandrudiun/spaces/internal/desks/validator"
	"github.com/Alexandrudiun/spaces/pkg/config"
	apperrors "github.com/Alexandrudiun/spaces/pkg/errors"
	"github.com/Alexandrudiun/spaces/pkg/events"
	"github.com/Alexandrudiun/spaces/pkg/logger"
	"github.com/Alexandrudiun/spaces/pkg/model"
)

type mockDeskRepository struct {
	createFunc         func(ctx context.Context, desk *model.Desk) error
	findByIDFunc       func(ctx context.Context, id string) (*model.Desk, error)
	findAllFunc        func(ctx context.Context, limit int, offset int64) ([]*model.Desk, error)
	countFunc          func(ctx context.Context) (int64, error)
	updateLocationFunc func(ctx context.Context, id, locationID string) (*model.Desk, error)
	deleteFunc         func(ctx context.Context, id string) error
	saveFunc           func(ctx context.Context, desk *model.Desk) error

	savedDesks []*model.Desk
}

func (m *mockDeskRepository) Create(ctx context.Context, desk *model.Desk) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, desk)
	}
	desk.ID = "desk-1"
	return nil
}

func (m *mockDeskRepository) FindByID(ctx context.Context, id string) (*model.Desk, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, deskserrors.ErrNotFound
}

func (m *mockDeskRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Desk, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, limit, offset)
	}
	return nil, nil
}

func (m *mockDeskRepository) Count(ctx context.Context) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, nil
}

func (m *mockDeskRepository) UpdateLocation(ctx context.Context, id, locationID string) (*model.Desk, error) {
	if m.updateLocationFunc != nil {
		return m.updateLocationFunc(ctx, id, locationID)
	}
	return nil, deskserrors.ErrNotFound
}

func (m *mockDeskRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockDeskRepository) Save(ctx context.Context, desk *model.Desk) error {
	m.savedDesks = append(m.savedDesks, desk)
	if m.saveFunc != nil {
		return m.saveFunc(ctx, desk)
	}
	return nil
}

func (m *mockDeskRepository) FindByAttendee(ctx context.Context, userID string) ([]*model.Desk, error) {
	return nil, nil
}

func (m *mockDeskRepository) FindAcceptedByAttendee(ctx context.Context, userID string) ([]*model.Desk, error) {
	return nil, nil
}

type mockUserRepository struct {
	findByIDsFunc func(ctx context.Context, ids []string) ([]*model.User, error)
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error { return nil }
func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return nil, nil
}
func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, nil
}
func (m *mockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return nil, nil
}

func (m *mockUserRepository) FindByIDs(ctx context.Context, ids []string) ([]*model.User, error) {
	if m.findByIDsFunc != nil {
		return m.findByIDsFunc(ctx, ids)
	}
	users := make([]*model.User, 0, len(ids))
	for _, id := range ids {
		users = append(users, &model.User{ID: id})
	}
	return users, nil
}

func (m *mockUserRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.User, error) {
	return nil, nil
}
func (m *mockUserRepository) Count(ctx context.Context) (int64, error) { return 0, nil }
func (m *mockUserRepository) Update(ctx context.Context, id string, user *model.User) error {
	return nil
}
func (m *mockUserRepository) UpdateRole(ctx context.Context, id string, role model.Role) (*model.User, error) {
	return nil, nil
}
func (m *mockUserRepository) UpdateImage(ctx context.Context, id string, image string) (*model.User, error) {
	return nil, nil
}
func (m *mockUserRepository) Delete(ctx context.Context, id string) error { return nil }

type mockProducer struct {
	published []string
}

func (m *mockProducer) PublishBookingEvent(_ context.Context, eventType string, _ events.BookingEvent) error {
	m.published = append(m.published, eventType)
	return nil
}

func (m *mockProducer) Close() error { return nil }

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:  logger.ERROR,
			Format: logger.TEXT,
			Output: io.Discard,
		}),
	}
}

func newTestService(desks *mockDeskRepository, users *mockUserRepository, producer *mockProducer) DeskService {
	cfg := testConfig()
	return NewDeskService(desks, users, validator.NewDeskValidator(cfg.Log), producer, cfg)
}

func freshDesk() *model.Desk {
	return &model.Desk{ID: "desk-1", LocationID: "loc-1", Version: 1}
}

func TestRequestBooking(t *testing.T) {
	producer := &mockProducer{}
	repo := &mockDeskRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Desk, error) {
			return freshDesk(), nil
		},
	}
	svc := newTestService(repo, &mockUserRepository{}, producer)

	booking, err := svc.RequestBooking(context.Background(), "desk-1", &model.BookingRequest{
		Start:     "2026-09-01T10:00:00Z",
		End:       "2026-09-01T11:00:00Z",
		Attendees: []string{"u1", "u2"},
	})
	if err != nil {
		t.Fatalf("RequestBooking: %v", err)
	}
	if booking.Status != model.StatusPending {
		t.Errorf("status = %s, want %s", booking.Status, model.StatusPending)
	}
	if booking.ID == "" {
		t.Error("booking id not assigned")
	}
	if len(repo.savedDesks) != 1 {
		t.Fatalf("saved %d desks, want 1", len(repo.savedDesks))
	}
	if len(producer.published) != 1 || producer.published[0] != events.TypeBookingRequested {
		t.Errorf("published = %v, want [%s]", producer.published, events.TypeBookingRequested)
	}
}

func TestRequestBookingUnknownAttendee(t *testing.T) {
	repo := &mockDeskRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Desk, error) {
			return freshDesk(), nil
		},
	}
	users := &mockUserRepository{
		findByIDsFunc: func(ctx context.Context, ids []string) ([]*model.User, error) {
			return []*model.User{{ID: "u1"}}, nil
		},
	}
	svc := newTestService(repo, users, &mockProducer{})

	_, err := svc.RequestBooking(context.Background(), "desk-1", &model.BookingRequest{
		Start:     "2026-09-01T10:00:00Z",
		End:       "2026-09-01T11:00:00Z",
		Attendees: []string{"u1", "ghost"},
	})
	if !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
		t.Fatalf("err = %v, want %s", err, apperrors.CodeInvalidInput)
	}
	if len(repo.savedDesks) != 0 {
		t.Error("desk saved despite unresolved attendee")
	}
}

func TestRequestBookingBadRange(t *testing.T) {
	svc := newTestService(&mockDeskRepository{}, &mockUserRepository{}, &mockProducer{})

	_, err := svc.RequestBooking(context.Background(), "desk-1", &model.BookingRequest{
		Start: "2026-09-01T11:00:00Z",
		End:   "2026-09-01T10:00:00Z",
	})
	if !apperrors.HasCode(err, apperrors.CodeInvalidRange) {
		t.Fatalf("err = %v, want %s", err, apperrors.CodeInvalidRange)
	}
}

func TestSetBookingStatusApprove(t *testing.T) {
	desk := freshDesk()
	r, _ := model.NewTimeRange(
		time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 1, 11, 0, 0, 0, time.UTC),
	)
	pending, err := desk.RequestBooking(r, nil)
	if err != nil {
		t.Fatalf("seed booking: %v", err)
	}

	producer := &mockProducer{}
	repo := &mockDeskRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Desk, error) {
			return desk, nil
		},
	}
	svc := newTestService(repo, &mockUserRepository{}, producer)

	updated, err := svc.SetBookingStatus(context.Background(), "desk-1", pending.ID, "accepted")
	if err != nil {
		t.Fatalf("SetBookingStatus: %v", err)
	}
	if updated.Status != model.StatusAccepted {
		t.Errorf("status = %s, want %s", updated.Status, model.StatusAccepted)
	}
	if len(producer.published) != 1 || producer.published[0] != events.TypeBookingAccepted {
		t.Errorf("published = %v, want [%s]", producer.published, events.TypeBookingAccepted)
	}
}

func TestSetBookingStatusUnknownStatus(t *testing.T) {
	svc := newTestService(&mockDeskRepository{}, &mockUserRepository{}, &mockProducer{})

	_, err := svc.SetBookingStatus(context.Background(), "desk-1", "b1", "approved")
	if !apperrors.HasCode(err, apperrors.CodeInvalidStatus) {
		t.Fatalf("err = %v, want %s", err, apperrors.CodeInvalidStatus)
	}
}

// A save losing the version race must re-load the desk and re-apply the
// mutation against fresh state.
func TestRequestBookingRetriesOnVersionConflict(t *testing.T) {
	var loads int
	repo := &mockDeskRepository{}
	repo.findByIDFunc = func(ctx context.Context, id string) (*model.Desk, error) {
		loads++
		return freshDesk(), nil
	}
	repo.saveFunc = func(ctx context.Context, desk *model.Desk) error {
		if len(repo.savedDesks) == 1 {
			return deskserrors.ErrVersionConflict
		}
		return nil
	}
	svc := newTestService(repo, &mockUserRepository{}, &mockProducer{})

	_, err := svc.RequestBooking(context.Background(), "desk-1", &model.BookingRequest{
		Start: "2026-09-01T10:00:00Z",
		End:   "2026-09-01T11:00:00Z",
	})
	if err != nil {
		t.Fatalf("RequestBooking: %v", err)
	}
	if loads != 2 {
		t.Errorf("desk loaded %d times, want 2", loads)
	}
}

func TestRequestBookingVersionConflictExhausted(t *testing.T) {
	var loads int
	repo := &mockDeskRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Desk, error) {
			loads++
			return freshDesk(), nil
		},
		saveFunc: func(ctx context.Context, desk *model.Desk) error {
			return deskserrors.ErrVersionConflict
		},
	}
	producer := &mockProducer{}
	svc := newTestService(repo, &mockUserRepository{}, producer)

	_, err := svc.RequestBooking(context.Background(), "desk-1", &model.BookingRequest{
		Start: "2026-09-01T10:00:00Z",
		End:   "2026-09-01T11:00:00Z",
	})
	if !apperrors.HasCode(err, apperrors.CodeVersionConflict) {
		t.Fatalf("err = %v, want %s", err, apperrors.CodeVersionConflict)
	}
	if loads != config.DefaultSaveAttempts {
		t.Errorf("desk loaded %d times, want %d", loads, config.DefaultSaveAttempts)
	}
	if len(producer.published) != 0 {
		t.Error("event published for a failed request")
	}
}

// Two pending requests may coexist; approving the second must fail once the
// first holds the slot.
func TestApprovalConflictAfterCompetingApproval(t *testing.T) {
	desk := freshDesk()
	r1, _ := model.NewTimeRange(
		time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 1, 11, 0, 0, 0, time.UTC),
	)
	r2, _ := model.NewTimeRange(
		time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC),
		time.Date(2026, 9, 1, 11, 30, 0, 0, time.UTC),
	)
	first, _ := desk.RequestBooking(r1, nil)
	second, _ := desk.RequestBooking(r2, nil)

	repo := &mockDeskRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Desk, error) {
			return desk, nil
		},
	}
	svc := newTestService(repo, &mockUserRepository{}, &mockProducer{})

	if _, err := svc.SetBookingStatus(context.Background(), "desk-1", first.ID, "accepted"); err != nil {
		t.Fatalf("first approval: %v", err)
	}
	_, err := svc.SetBookingStatus(context.Background(), "desk-1", second.ID, "accepted")
	if !apperrors.HasCode(err, apperrors.CodeConflict) {
		t.Fatalf("second approval err = %v, want %s", err, apperrors.CodeConflict)
	}
}

func TestGetBooking(t *testing.T) {
	desk := freshDesk()
	r, _ := model.NewTimeRange(
		time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 1, 11, 0, 0, 0, time.UTC),
	)
	b, err := desk.RequestBooking(r, []string{"u1", "u2"})
	if err != nil {
		t.Fatalf("seed booking: %v", err)
	}

	repo := &mockDeskRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Desk, error) {
			return desk, nil
		},
	}
	users := &mockUserRepository{
		findByIDsFunc: func(ctx context.Context, ids []string) ([]*model.User, error) {
			out := make([]*model.User, 0, len(ids))
			for _, id := range ids {
				out = append(out, &model.User{ID: id, Name: "Name " + id, Email: id + "@example.com"})
			}
			return out, nil
		},
	}
	svc := newTestService(repo, users, &mockProducer{})

	details, err := svc.GetBooking(context.Background(), "desk-1", b.ID)
	if err != nil {
		t.Fatalf("GetBooking: %v", err)
	}
	if details.Booking.ID != b.ID {
		t.Errorf("booking id = %s, want %s", details.Booking.ID, b.ID)
	}
	if len(details.Attendees) != 2 {
		t.Fatalf("got %d attendee refs, want 2", len(details.Attendees))
	}
	if details.Attendees[0].Email != "u1@example.com" {
		t.Errorf("attendee ref email = %s, want u1@example.com", details.Attendees[0].Email)
	}

	if _, err := svc.GetBooking(context.Background(), "desk-1", "missing"); !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Errorf("unknown booking err = %v, want %s", err, apperrors.CodeNotFound)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	repo := &mockDeskRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Desk, error) {
			return nil, deskserrors.ErrNotFound
		},
	}
	svc := newTestService(repo, &mockUserRepository{}, &mockProducer{})

	_, err := svc.GetByID(context.Background(), "missing")
	if !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Fatalf("err = %v, want %s", err, apperrors.CodeNotFound)
	}
}

func TestCheckAvailability(t *testing.T) {
	desk := freshDesk()
	r, _ := model.NewTimeRange(
		time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 1, 11, 0, 0, 0, time.UTC),
	)
	b, _ := desk.RequestBooking(r, nil)
	if _, err := desk.SetBookingStatus(b.ID, model.StatusAccepted); err != nil {
		t.Fatalf("seed accept: %v", err)
	}

	repo := &mockDeskRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Desk, error) {
			return desk, nil
		},
	}
	svc := newTestService(repo, &mockUserRepository{}, &mockProducer{})

	free, err := svc.CheckAvailability(context.Background(), "desk-1", "2026-09-01T10:30:00Z", "2026-09-01T11:30:00Z")
	if err != nil {
		t.Fatalf("CheckAvailability: %v", err)
	}
	if free {
		t.Error("overlapping slot reported available")
	}

	free, err = svc.CheckAvailability(context.Background(), "desk-1", "2026-09-01T11:00:00Z", "2026-09-01T12:00:00Z")
	if err != nil {
		t.Fatalf("CheckAvailability: %v", err)
	}
	if !free {
		t.Error("adjacent slot reported unavailable")
	}
}
