package schedule

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"timeline/models"
	"timeline/utils"
)

// welcomeSlot is seeded locally for a user whose document does not exist.
// It is not written to the store until the user's first save.
func welcomeSlot() models.Slot {
	return models.Slot{
		ID:          uuid.New().String(),
		Title:       "Welcome!",
		Day:         time.Now().Weekday().String(),
		StartTime:   "09:00",
		Duration:    models.DefaultDuration,
		Color:       models.DefaultColor,
		Description: "Welcome! This schedule is synced to the cloud.",
	}
}

// ensureSession returns the user's session, loading the document and opening
// the live subscription on first access. Callers must hold s.mu.
func (s *DefaultScheduleService) ensureSession(ctx context.Context, userID string) (*session, error) {
	if sess, ok := s.sessions[userID]; ok {
		return sess, nil
	}

	slots, exists, err := s.Repo.Get(ctx, userID)
	if err != nil {
		return nil, &PersistenceError{Op: "load", Err: err}
	}
	if !exists {
		slots = []models.Slot{welcomeSlot()}
	}
	sess := &session{slots: NormalizeCollection(slots)}

	cancel, err := s.Repo.Subscribe(context.Background(), userID,
		func(slots []models.Slot, exists bool) {
			s.applySnapshot(userID, slots, exists)
		},
		func(err error) {
			utils.GetLogger().Warn("schedule subscription error",
				zap.String("userID", userID), zap.Error(err))
		},
	)
	if err != nil {
		utils.GetLogger().Warn("live sync unavailable, continuing with local state",
			zap.String("userID", userID), zap.Error(err))
	} else {
		sess.cancel = cancel
	}

	s.sessions[userID] = sess
	return sess, nil
}

// applySnapshot replaces a session's collection with an inbound store
// snapshot. The snapshot wins wholesale; a local optimistic edit racing it
// is lost (last write wins at the store).
func (s *DefaultScheduleService) applySnapshot(userID string, slots []models.Slot, exists bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok {
		return
	}
	if !exists {
		sess.slots = []models.Slot{welcomeSlot()}
	} else {
		sess.slots = NormalizeCollection(slots)
	}
	s.invalidateSummary(userID)
}

// persist writes the collection optimistically: the session already holds the
// new slots, and a store failure comes back as a PersistenceError alongside
// them.
func (s *DefaultScheduleService) persist(ctx context.Context, userID string, slots []models.Slot) error {
	s.invalidateSummary(userID)
	if err := s.Repo.SaveAll(ctx, userID, slots); err != nil {
		return &PersistenceError{Op: "save", Err: err}
	}
	return nil
}

func (s *DefaultScheduleService) LoadSlots(ctx context.Context, userID string) ([]models.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.ensureSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	return copySlots(sess.slots), nil
}

func (s *DefaultScheduleService) AddSlot(ctx context.Context, userID string, draft models.SlotDraft) ([]models.Slot, error) {
	start, err := NormalizeStartTime(draft.StartTime)
	if err != nil {
		return nil, fmt.Errorf("startTime: %w", err)
	}
	draft.StartTime = start

	if draft.EndTime != "" {
		dur, err := DurationBetween(draft.StartTime, draft.EndTime)
		if err != nil {
			return nil, fmt.Errorf("endTime: %w", err)
		}
		draft.Duration = dur
	}
	if draft.Duration == 0 {
		draft.Duration = models.DefaultDuration
	}
	if draft.Color == "" {
		draft.Color = models.DefaultColor
	}

	created, err := ExpandRecurring(draft, draft.RepeatDays)
	if errors.Is(err, ErrEmptySelection) {
		// No repeat days: fall back to single-slot creation.
		created = []models.Slot{{
			ID:          uuid.New().String(),
			Title:       draft.Title,
			Day:         draft.Day,
			StartTime:   draft.StartTime,
			Duration:    draft.Duration,
			Color:       draft.Color,
			Description: draft.Description,
		}}
	} else if err != nil {
		return nil, err
	}

	for _, slot := range created {
		if _, err := Validate(slot); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.ensureSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	sess.slots = append(sess.slots, created...)
	return copySlots(sess.slots), s.persist(ctx, userID, sess.slots)
}

func (s *DefaultScheduleService) EditSlot(ctx context.Context, userID, slotID string, patch models.SlotPatch) ([]models.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.ensureSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	idx := findSlot(sess.slots, slotID)
	if idx < 0 {
		return nil, ErrSlotNotFound
	}

	merged, err := Merge(sess.slots[idx], patch)
	if err != nil {
		return nil, err
	}
	if _, err := Validate(merged); err != nil {
		return nil, err
	}

	sess.slots[idx] = merged
	return copySlots(sess.slots), s.persist(ctx, userID, sess.slots)
}

func (s *DefaultScheduleService) DeleteSlot(ctx context.Context, userID, slotID string) ([]models.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.ensureSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	idx := findSlot(sess.slots, slotID)
	if idx < 0 {
		return nil, ErrSlotNotFound
	}

	sess.slots = append(sess.slots[:idx], sess.slots[idx+1:]...)
	return copySlots(sess.slots), s.persist(ctx, userID, sess.slots)
}

func (s *DefaultScheduleService) MoveSlot(ctx context.Context, userID, slotID string, req models.MoveRequest) ([]models.Slot, error) {
	// Reposition absorbs any delta, but the target day comes straight from
	// the client and must be a canonical weekday before anything mutates.
	if !models.IsWeekday(req.TargetDay) {
		return nil, &ValidationError{Field: "targetDay", Reason: fmt.Sprintf("%q is not a weekday name", req.TargetDay)}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.ensureSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	idx := findSlot(sess.slots, slotID)
	if idx < 0 {
		return nil, ErrSlotNotFound
	}

	sess.slots[idx] = Reposition(sess.slots[idx], req.DeltaMinutes, req.TargetDay)
	return copySlots(sess.slots), s.persist(ctx, userID, sess.slots)
}

func (s *DefaultScheduleService) Summary(ctx context.Context, userID string) (models.ScheduleSummary, error) {
	if s.Cache != nil {
		key := utils.SummaryCachePrefix + userID
		if cached, err := s.Cache.Get(ctx, key).Result(); err == nil {
			var summary models.ScheduleSummary
			if err := json.Unmarshal([]byte(cached), &summary); err == nil {
				return summary, nil
			}
		}
	}

	s.mu.Lock()
	sess, err := s.ensureSession(ctx, userID)
	if err != nil {
		s.mu.Unlock()
		return models.ScheduleSummary{}, err
	}
	summary := Summarize(sess.slots)
	s.mu.Unlock()

	if s.Cache != nil {
		if data, err := json.Marshal(summary); err == nil {
			key := utils.SummaryCachePrefix + userID
			_ = s.Cache.Set(ctx, key, data, utils.SummaryCacheTTL).Err()
		}
	}
	return summary, nil
}

func (s *DefaultScheduleService) Export(ctx context.Context, userID string) ([]byte, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.ensureSession(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	data, err := json.MarshalIndent(sess.slots, "", "  ")
	if err != nil {
		return nil, "", fmt.Errorf("failed to serialize schedule: %w", err)
	}
	filename := fmt.Sprintf("timeline_backup_%s.json", time.Now().Format("2006-01-02"))
	return data, filename, nil
}

func (s *DefaultScheduleService) Import(ctx context.Context, userID string, payload []byte) ([]models.Slot, error) {
	var imported []models.Slot
	if err := json.Unmarshal(payload, &imported); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImport, err)
	}
	// "null" unmarshals cleanly into a nil slice; only a real array may
	// replace the collection.
	if imported == nil {
		return nil, fmt.Errorf("%w: top-level value is not an array", ErrImport)
	}

	imported = NormalizeCollection(imported)
	for i, slot := range imported {
		if slot.ID == "" {
			imported[i].ID = uuid.New().String()
		}
		if _, err := Validate(imported[i]); err != nil {
			return nil, fmt.Errorf("%w: slot %d: %v", ErrImport, i, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.ensureSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	sess.slots = imported
	return copySlots(sess.slots), s.persist(ctx, userID, sess.slots)
}

func (s *DefaultScheduleService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.sessions {
		if sess.cancel != nil {
			sess.cancel()
		}
	}
	s.sessions = make(map[string]*session)
}

// invalidateSummary drops the cached summary after any change to the
// collection. Callers hold s.mu.
func (s *DefaultScheduleService) invalidateSummary(userID string) {
	if s.Cache == nil {
		return
	}
	key := utils.SummaryCachePrefix + userID
	_ = s.Cache.Del(context.Background(), key).Err()
}

func findSlot(slots []models.Slot, slotID string) int {
	for i, s := range slots {
		if s.ID == slotID {
			return i
		}
	}
	return -1
}

func copySlots(slots []models.Slot) []models.Slot {
	out := make([]models.Slot, len(slots))
	copy(out, slots)
	return out
}
