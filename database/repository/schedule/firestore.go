// File: database/repository/schedule/firestore.go
package scheduleRepo

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"

	"timeline/models"
	"timeline/utils"
)

const schedulesCollection = "schedules"

type firestoreScheduleRepo struct {
	client *firestore.Client
}

// NewFirestoreScheduleRepo constructs a ScheduleRepository backed by the
// Firestore schedules collection, one document per user.
func NewFirestoreScheduleRepo() ScheduleRepository {
	return &firestoreScheduleRepo{
		client: utils.FirestoreClient,
	}
}

func (r *firestoreScheduleRepo) doc(userID string) *firestore.DocumentRef {
	return r.client.Collection(schedulesCollection).Doc(userID)
}

func (r *firestoreScheduleRepo) Get(ctx context.Context, userID string) ([]models.Slot, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	snap, err := r.doc(userID).Get(ctx)
	if err != nil {
		if snap != nil && !snap.Exists() {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to fetch schedule: %w", err)
	}

	var doc models.ScheduleDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, false, fmt.Errorf("failed to decode schedule: %w", err)
	}
	return doc.Slots, true, nil
}

func (r *firestoreScheduleRepo) SaveAll(ctx context.Context, userID string, slots []models.Slot) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if slots == nil {
		slots = []models.Slot{}
	}
	// Merge-style upsert of the single slots field.
	_, err := r.doc(userID).Set(ctx, map[string]interface{}{
		"slots": slots,
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to save schedule: %w", err)
	}
	return nil
}

func (r *firestoreScheduleRepo) Subscribe(ctx context.Context, userID string, onSnapshot SnapshotHandler, onError ErrorHandler) (func(), error) {
	ctx, cancel := context.WithCancel(ctx)
	iter := r.doc(userID).Snapshots(ctx)

	go func() {
		defer iter.Stop()
		for {
			snap, err := iter.Next()
			if err != nil {
				if ctx.Err() == nil {
					onError(fmt.Errorf("schedule subscription failed: %w", err))
				}
				return
			}
			if !snap.Exists() {
				onSnapshot(nil, false)
				continue
			}
			var doc models.ScheduleDocument
			if err := snap.DataTo(&doc); err != nil {
				onError(fmt.Errorf("failed to decode schedule snapshot: %w", err))
				continue
			}
			onSnapshot(doc.Slots, true)
		}
	}()

	return cancel, nil
}
