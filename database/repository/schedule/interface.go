// File: database/repository/schedule/interface.go
package scheduleRepo

import (
	"context"

	"timeline/models"
)

// SnapshotHandler receives the full slot collection every time the user's
// document changes. exists is false when the document has never been written.
type SnapshotHandler func(slots []models.Slot, exists bool)

// ErrorHandler receives subscription failures.
type ErrorHandler func(err error)

// ScheduleRepository is the document store holding one schedule document per
// user. There are no partial writes; every mutation round-trips the whole
// collection.
type ScheduleRepository interface {
	// Get fetches the user's slot collection. exists is false when the
	// user has no document yet.
	Get(ctx context.Context, userID string) (slots []models.Slot, exists bool, err error)

	// SaveAll persists the full collection as a merge-style upsert of the
	// document's single slots field.
	SaveAll(ctx context.Context, userID string, slots []models.Slot) error

	// Subscribe streams document changes to onSnapshot until the returned
	// cancel func is called. Failures go to onError; the stream then ends.
	Subscribe(ctx context.Context, userID string, onSnapshot SnapshotHandler, onError ErrorHandler) (cancel func(), err error)
}
