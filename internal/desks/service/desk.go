package service

import (
	"context"
	"errors"
	"sync"
	"time"

	deskserrors "github.com/Alexandrudiun/spaces/internal/desks/errors"
	"github.com/Alexandrudiun/spaces/internal/desks/repository"
	"github.com/Alexandrudiun/spaces/internal/desks/validator"
	userrepo "github.com/Alexandrudiun/spaces/internal/users/repository"
	"github.com/Alexandrudiun/spaces/pkg/config"
	apperrors "github.com/Alexandrudiun/spaces/pkg/errors"
	"github.com/Alexandrudiun/spaces/pkg/events"
	"github.com/Alexandrudiun/spaces/pkg/model"
)

type DeskService interface {
	Create(ctx context.Context, req *model.DeskCreate) (*model.Desk, error)
	GetByID(ctx context.Context, id string) (*model.Desk, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Desk, int64, error)
	Update(ctx context.Context, id string, req *model.DeskUpdate) (*model.Desk, error)
	Delete(ctx context.Context, id string) error

	RequestBooking(ctx context.Context, deskID string, req *model.BookingRequest) (*model.Booking, error)
	SetBookingStatus(ctx context.Context, deskID, bookingID, target string) (*model.Booking, error)
	GetBooking(ctx context.Context, deskID, bookingID string) (*model.BookingDetails, error)
	CheckAvailability(ctx context.Context, deskID, start, end string) (bool, error)
}

type deskService struct {
	repo      repository.DeskRepository
	users     userrepo.UserRepository
	validator *validator.DeskValidator
	producer  events.Producer
	cfg       *config.Config
}

func NewDeskService(
	repo repository.DeskRepository,
	users userrepo.UserRepository,
	deskValidator *validator.DeskValidator,
	producer events.Producer,
	cfg *config.Config,
) DeskService {
	return &deskService{
		repo:      repo,
		users:     users,
		validator: deskValidator,
		producer:  producer,
		cfg:       cfg,
	}
}

func (s *deskService) Create(ctx context.Context, req *model.DeskCreate) (*model.Desk, error) {
	if err := s.validator.ValidateCreate(req); err != nil {
		return nil, apperrors.Validation("Invalid desk payload", map[string]any{"error": err.Error()})
	}

	desk := &model.Desk{LocationID: req.LocationID}
	if err := s.repo.Create(ctx, desk); err != nil {
		s.cfg.Log.Error("Failed to create desk", "error", err)
		return nil, apperrors.Internal("Failed to create desk", err)
	}

	s.cfg.Log.Info("Desk created successfully", "id", desk.ID, "location_id", desk.LocationID)
	return desk, nil
}

func (s *deskService) GetByID(ctx context.Context, id string) (*model.Desk, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Desk ID cannot be empty")
	}

	desk, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, id, "retrieve desk")
	}
	return desk, nil
}

func (s *deskService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Desk, int64, error) {
	var count int64
	var desks []*model.Desk
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count desks", "error", errCount)
			errCount = apperrors.Internal("Failed to count desks", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		desks, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list desks", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve desks", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	return desks, count, nil
}

func (s *deskService) Update(ctx context.Context, id string, req *model.DeskUpdate) (*model.Desk, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Desk ID cannot be empty")
	}
	if err := s.validator.ValidateUpdate(req); err != nil {
		return nil, apperrors.Validation("Invalid desk payload", map[string]any{"error": err.Error()})
	}

	desk, err := s.repo.UpdateLocation(ctx, id, req.LocationID)
	if err != nil {
		return nil, s.mapRepoError(err, id, "update desk")
	}

	s.cfg.Log.Info("Desk updated successfully", "id", id, "location_id", req.LocationID)
	return desk, nil
}

func (s *deskService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Desk ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapRepoError(err, id, "delete desk")
	}

	s.cfg.Log.Info("Desk deleted successfully", "id", id)
	return nil
}

// RequestBooking admits a new reservation request. The aggregate decides
// admission; this layer parses input, resolves attendees with one batched
// lookup and re-drives the load-mutate-save cycle when an optimistic save
// loses its race.
func (s *deskService) RequestBooking(ctx context.Context, deskID string, req *model.BookingRequest) (*model.Booking, error) {
	if deskID == "" {
		return nil, apperrors.InvalidInput("Desk ID cannot be empty")
	}
	if err := s.validator.ValidateBookingRequest(req); err != nil {
		return nil, apperrors.Validation("Invalid booking payload", map[string]any{"error": err.Error()})
	}

	timeRange, err := model.ParseTimeRange(req.Start, req.End)
	if err != nil {
		return nil, err
	}

	attendees, err := s.resolveAttendees(ctx, req.Attendees)
	if err != nil {
		return nil, err
	}

	var booking *model.Booking
	var mutated *model.Desk
	err = s.withSaveRetry(ctx, deskID, "request booking", func(desk *model.Desk) error {
		b, err := desk.RequestBooking(timeRange, attendees)
		if err != nil {
			return err
		}
		booking, mutated = b, desk
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cfg.Log.Info("Booking requested",
		"desk_id", deskID,
		"booking_id", booking.ID,
		"start", booking.Range.Start,
		"end", booking.Range.End,
	)
	s.publishEvent(ctx, mutated, booking, events.TypeBookingRequested)
	return booking, nil
}

// SetBookingStatus drives approve/decline/cancel. Approval re-checks the
// overlap invariant inside the aggregate before anything is persisted.
func (s *deskService) SetBookingStatus(ctx context.Context, deskID, bookingID, target string) (*model.Booking, error) {
	if deskID == "" || bookingID == "" {
		return nil, apperrors.InvalidInput("Desk ID and booking ID are required")
	}

	status := model.BookingStatus(target)
	if !status.Valid() {
		return nil, apperrors.InvalidStatus(target)
	}

	var booking *model.Booking
	var mutated *model.Desk
	err := s.withSaveRetry(ctx, deskID, "set booking status", func(desk *model.Desk) error {
		b, err := desk.SetBookingStatus(bookingID, status)
		if err != nil {
			return err
		}
		booking, mutated = b, desk
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cfg.Log.Info("Booking status updated",
		"desk_id", deskID,
		"booking_id", bookingID,
		"status", status,
	)
	s.publishEvent(ctx, mutated, booking, events.TypeForStatus(status))
	return booking, nil
}

// GetBooking returns one booking with its attendee ids resolved to user
// refs. Attendees deleted since the booking was made are simply absent.
func (s *deskService) GetBooking(ctx context.Context, deskID, bookingID string) (*model.BookingDetails, error) {
	if deskID == "" || bookingID == "" {
		return nil, apperrors.InvalidInput("Desk ID and booking ID are required")
	}

	desk, err := s.repo.FindByID(ctx, deskID)
	if err != nil {
		return nil, s.mapRepoError(err, deskID, "retrieve booking")
	}
	booking := desk.Booking(bookingID)
	if booking == nil {
		return nil, apperrors.NotFoundWithID("Booking", bookingID)
	}

	details := &model.BookingDetails{Booking: *booking}
	if len(booking.Attendees) > 0 {
		found, err := s.users.FindByIDs(ctx, booking.Attendees)
		if err != nil {
			s.cfg.Log.Error("Failed to resolve booking attendees", "booking_id", bookingID, "error", err)
			return nil, apperrors.Internal("Failed to resolve attendees", err)
		}
		details.Attendees = make([]model.UserRef, 0, len(found))
		for _, u := range found {
			details.Attendees = append(details.Attendees, u.Ref())
		}
	}
	return details, nil
}

func (s *deskService) CheckAvailability(ctx context.Context, deskID, start, end string) (bool, error) {
	if deskID == "" {
		return false, apperrors.InvalidInput("Desk ID cannot be empty")
	}

	timeRange, err := model.ParseTimeRange(start, end)
	if err != nil {
		return false, err
	}

	desk, err := s.repo.FindByID(ctx, deskID)
	if err != nil {
		return false, s.mapRepoError(err, deskID, "check availability")
	}
	return desk.CheckAvailability(timeRange), nil
}

// withSaveRetry runs one load-mutate-save cycle, re-driving it from scratch
// when the save loses a version race. The aggregate mutation itself never
// retries; each attempt sees a freshly loaded desk.
func (s *deskService) withSaveRetry(ctx context.Context, deskID, op string, mutate func(*model.Desk) error) error {
	var lastErr error
	for attempt := 1; attempt <= config.DefaultSaveAttempts; attempt++ {
		desk, err := s.repo.FindByID(ctx, deskID)
		if err != nil {
			return s.mapRepoError(err, deskID, op)
		}

		if err := mutate(desk); err != nil {
			return err
		}

		err = s.repo.Save(ctx, desk)
		if err == nil {
			return nil
		}
		if !errors.Is(err, deskserrors.ErrVersionConflict) {
			return s.mapRepoError(err, deskID, op)
		}

		lastErr = err
		s.cfg.Log.Warn("Desk save lost version race, retrying",
			"desk_id", deskID,
			"operation", op,
			"attempt", attempt,
		)
	}

	s.cfg.Log.Error("Desk save attempts exhausted", "desk_id", deskID, "operation", op, "error", lastErr)
	return apperrors.VersionConflict("Desk")
}

// resolveAttendees verifies every attendee id against the user store with a
// single batched lookup.
func (s *deskService) resolveAttendees(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	unique := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	found, err := s.users.FindByIDs(ctx, unique)
	if err != nil {
		s.cfg.Log.Error("Failed to resolve attendees", "error", err)
		return nil, apperrors.InvalidInput("attendees could not be resolved: " + err.Error())
	}

	known := make(map[string]bool, len(found))
	for _, u := range found {
		known[u.ID] = true
	}
	var missing []string
	for _, id := range unique {
		if !known[id] {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.InvalidInput("unknown attendees").
			WithDetails(map[string]any{"attendees": missing})
	}
	return unique, nil
}

func (s *deskService) publishEvent(ctx context.Context, desk *model.Desk, booking *model.Booking, eventType string) {
	event := events.BookingEvent{
		DeskID:     desk.ID,
		LocationID: desk.LocationID,
		BookingID:  booking.ID,
		Status:     booking.Status,
		Start:      booking.Range.Start,
		End:        booking.Range.End,
		Attendees:  booking.Attendees,
		OccurredAt: time.Now().UTC(),
	}
	// event publication is best effort, a broker outage must not fail the booking
	if err := s.producer.PublishBookingEvent(ctx, eventType, event); err != nil {
		s.cfg.Log.Warn("Booking event not published",
			"event_type", eventType,
			"desk_id", desk.ID,
			"booking_id", booking.ID,
			"error", err,
		)
	}
}

func (s *deskService) mapRepoError(err error, id, op string) error {
	switch {
	case errors.Is(err, deskserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Desk", id)
	case errors.Is(err, deskserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid desk ID format")
	case errors.Is(err, deskserrors.ErrVersionConflict):
		return apperrors.VersionConflict("Desk")
	default:
		s.cfg.Log.Error("Desk repository operation failed", "operation", op, "desk_id", id, "error", err)
		return apperrors.Internal("Failed to "+op, err)
	}
}
