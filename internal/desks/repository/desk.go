package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	deskserrors "github.com/Alexandrudiun/spaces/internal/desks/errors"
	"github.com/Alexandrudiun/spaces/pkg/config"
	"github.com/Alexandrudiun/spaces/pkg/model"
)

const CollectionName = "Desks"

// DeskRepository persists the Desk aggregate as a whole. Save is the only
// way booking mutations reach storage: it replaces the full booking list
// guarded by a version check, so concurrent mutations of one desk cannot
// both commit.
type DeskRepository interface {
	Create(ctx context.Context, desk *model.Desk) error
	FindByID(ctx context.Context, id string) (*model.Desk, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Desk, error)
	Count(ctx context.Context) (int64, error)
	UpdateLocation(ctx context.Context, id string, locationID string) (*model.Desk, error)
	Delete(ctx context.Context, id string) error
	Save(ctx context.Context, desk *model.Desk) error
	FindByAttendee(ctx context.Context, userID string) ([]*model.Desk, error)
	FindAcceptedByAttendee(ctx context.Context, userID string) ([]*model.Desk, error)
}

type mongoDeskRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoDeskRepository(cfg *config.Config) DeskRepository {
	db := cfg.Client.DesksMongo.Database(cfg.DesksDatabase)
	return &mongoDeskRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoDeskRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < timeout {
		return context.WithTimeout(ctx, time.Until(deadline))
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoDeskRepository) Create(ctx context.Context, desk *model.Desk) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	desk.CreatedAt = now
	desk.UpdatedAt = now
	desk.Version = 0
	if desk.Bookings == nil {
		desk.Bookings = []model.Booking{}
	}

	result, err := r.collection.InsertOne(ctx, desk)
	if err != nil {
		return fmt.Errorf("failed to create desk: %w", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		desk.ID = oid.Hex()
	}
	return nil
}

func (r *mongoDeskRepository) FindByID(ctx context.Context, id string) (*model.Desk, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", deskserrors.ErrInvalidID, id)
	}

	var desk model.Desk
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&desk)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, deskserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find desk: %w", err)
	}
	return &desk, nil
}

func (r *mongoDeskRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Desk, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "location_id", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find desks: %w", err)
	}
	defer cursor.Close(ctx)

	var desks []*model.Desk
	if err = cursor.All(ctx, &desks); err != nil {
		return nil, fmt.Errorf("failed to decode desks: %w", err)
	}
	return desks, nil
}

func (r *mongoDeskRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count desks: %w", err)
	}
	return count, nil
}

func (r *mongoDeskRepository) UpdateLocation(ctx context.Context, id string, locationID string) (*model.Desk, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", deskserrors.ErrInvalidID, id)
	}

	update := bson.M{"$set": bson.M{
		"location_id": locationID,
		"updated_at":  time.Now().UTC().Truncate(time.Millisecond),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var desk model.Desk
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, update, opts).Decode(&desk)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, deskserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update desk: %w", err)
	}
	return &desk, nil
}

func (r *mongoDeskRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", deskserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete desk: %w", err)
	}
	if result.DeletedCount == 0 {
		return deskserrors.ErrNotFound
	}
	return nil
}

// Save writes the mutated aggregate back, guarded by the version loaded
// with it. A matched-nothing update on an existing desk means another
// writer won the race; the caller re-drives load-mutate-save.
func (r *mongoDeskRepository) Save(ctx context.Context, desk *model.Desk) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(desk.ID)
	if err != nil {
		return fmt.Errorf("%w: %s", deskserrors.ErrInvalidID, desk.ID)
	}

	filter := bson.M{"_id": objectID, "version": desk.Version}
	update := bson.M{
		"$set": bson.M{
			"location_id": desk.LocationID,
			"bookings":    desk.Bookings,
			"updated_at":  time.Now().UTC().Truncate(time.Millisecond),
		},
		"$inc": bson.M{"version": 1},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to save desk: %w", err)
	}
	if result.MatchedCount == 0 {
		exists, err := r.collection.CountDocuments(ctx, bson.M{"_id": objectID})
		if err != nil {
			return fmt.Errorf("failed to check desk existence: %w", err)
		}
		if exists == 0 {
			return deskserrors.ErrNotFound
		}
		return deskserrors.ErrVersionConflict
	}

	desk.Version++
	return nil
}

func (r *mongoDeskRepository) FindByAttendee(ctx context.Context, userID string) ([]*model.Desk, error) {
	return r.findByFilter(ctx, bson.M{"bookings.attendees": userID})
}

func (r *mongoDeskRepository) FindAcceptedByAttendee(ctx context.Context, userID string) ([]*model.Desk, error) {
	filter := bson.M{
		"bookings": bson.M{"$elemMatch": bson.M{
			"status":    model.StatusAccepted,
			"attendees": userID,
		}},
	}
	return r.findByFilter(ctx, filter)
}

func (r *mongoDeskRepository) findByFilter(ctx context.Context, filter bson.M) ([]*model.Desk, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find desks: %w", err)
	}
	defer cursor.Close(ctx)

	var desks []*model.Desk
	if err = cursor.All(ctx, &desks); err != nil {
		return nil, fmt.Errorf("failed to decode desks: %w", err)
	}
	return desks, nil
}
