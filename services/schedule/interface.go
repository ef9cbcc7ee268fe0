package schedule

import (
	"context"
	"sync"

	"github.com/go-redis/redis/v8"

	scheduleRepo "timeline/database/repository/schedule"
	"timeline/models"
)

// ScheduleService owns each user's in-memory slot collection and keeps it
// synchronized with the document store. Mutations are optimistic: the local
// collection is updated first, and a failed store write is reported as a
// PersistenceError without rolling the local update back.
type ScheduleService interface {
	// LoadSlots returns the user's normalized collection, seeding a welcome
	// slot for users with no stored document and opening the live
	// subscription on first access.
	LoadSlots(ctx context.Context, userID string) ([]models.Slot, error)

	// AddSlot creates one slot, or one per repeat day when the draft carries
	// a non-empty repeatDays set.
	AddSlot(ctx context.Context, userID string, draft models.SlotDraft) ([]models.Slot, error)

	// EditSlot shallow-merges a partial record onto the stored slot by id.
	EditSlot(ctx context.Context, userID, slotID string, patch models.SlotPatch) ([]models.Slot, error)

	// DeleteSlot removes a slot by id.
	DeleteSlot(ctx context.Context, userID, slotID string) ([]models.Slot, error)

	// MoveSlot repositions a slot after a drag.
	MoveSlot(ctx context.Context, userID, slotID string, req models.MoveRequest) ([]models.Slot, error)

	// Summary returns the per-color duration breakdown.
	Summary(ctx context.Context, userID string) (models.ScheduleSummary, error)

	// Export serializes the collection to pretty-printed JSON and returns
	// the dated backup filename.
	Export(ctx context.Context, userID string) ([]byte, string, error)

	// Import replaces the whole collection with a user-supplied JSON array.
	Import(ctx context.Context, userID string, payload []byte) ([]models.Slot, error)

	// Close cancels every live subscription.
	Close()
}

// DefaultScheduleService is the production implementation.
type DefaultScheduleService struct {
	Repo  scheduleRepo.ScheduleRepository
	Cache *redis.Client

	mu       sync.Mutex
	sessions map[string]*session
}

// session is one user's live in-memory collection plus its store
// subscription.
type session struct {
	slots  []models.Slot
	cancel func()
}

// NewDefaultScheduleService constructs the service. cache may be nil; the
// summary cache is then skipped.
func NewDefaultScheduleService(repo scheduleRepo.ScheduleRepository, cache *redis.Client) *DefaultScheduleService {
	return &DefaultScheduleService{
		Repo:     repo,
		Cache:    cache,
		sessions: make(map[string]*session),
	}
}
