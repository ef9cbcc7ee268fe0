// File: database/repository/schedule/mongo.go
package scheduleRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"timeline/database"
	"timeline/models"
)

type mongoScheduleRepo struct {
	coll *mongo.Collection
}

// NewMongoScheduleRepo constructs a ScheduleRepository backed by MongoDB,
// one document per user keyed by _id.
func NewMongoScheduleRepo() ScheduleRepository {
	db := database.MongoClient.Database("timeline")
	return &mongoScheduleRepo{
		coll: db.Collection(schedulesCollection),
	}
}

// scheduleDoc mirrors the per-user document shape in MongoDB.
type scheduleDoc struct {
	ID    string        `bson:"_id"`
	Slots []models.Slot `bson:"slots"`
}

func (r *mongoScheduleRepo) Get(ctx context.Context, userID string) ([]models.Slot, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var doc scheduleDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to fetch schedule: %w", err)
	}
	return doc.Slots, true, nil
}

func (r *mongoScheduleRepo) SaveAll(ctx context.Context, userID string, slots []models.Slot) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if slots == nil {
		slots = []models.Slot{}
	}
	filter := bson.M{"_id": userID}
	update := bson.M{"$set": bson.M{"slots": slots}}
	_, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save schedule: %w", err)
	}
	return nil
}

func (r *mongoScheduleRepo) Subscribe(ctx context.Context, userID string, onSnapshot SnapshotHandler, onError ErrorHandler) (func(), error) {
	ctx, cancel := context.WithCancel(ctx)

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{{Key: "documentKey._id", Value: userID}}}},
	}
	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)
	stream, err := r.coll.Watch(ctx, pipeline, opts)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to open change stream: %w", err)
	}

	go func() {
		defer stream.Close(context.Background())
		for stream.Next(ctx) {
			var event struct {
				OperationType string       `bson:"operationType"`
				FullDocument  *scheduleDoc `bson:"fullDocument"`
			}
			if err := stream.Decode(&event); err != nil {
				onError(fmt.Errorf("failed to decode schedule change: %w", err))
				continue
			}
			if event.OperationType == "delete" || event.FullDocument == nil {
				onSnapshot(nil, false)
				continue
			}
			onSnapshot(event.FullDocument.Slots, true)
		}
		if err := stream.Err(); err != nil && ctx.Err() == nil {
			onError(fmt.Errorf("schedule subscription failed: %w", err))
		}
	}()

	return cancel, nil
}
