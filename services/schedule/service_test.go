package schedule

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	scheduleRepo "timeline/database/repository/schedule"
	"timeline/models"
)

// fakeRepo is an in-memory ScheduleRepository. It records every SaveAll and
// hands back the snapshot handler so tests can push inbound changes.
type fakeRepo struct {
	stored  map[string][]models.Slot
	saved   [][]models.Slot
	saveErr error
	getErr  error

	onSnapshot scheduleRepo.SnapshotHandler
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{stored: make(map[string][]models.Slot)}
}

func (r *fakeRepo) Get(ctx context.Context, userID string) ([]models.Slot, bool, error) {
	if r.getErr != nil {
		return nil, false, r.getErr
	}
	slots, ok := r.stored[userID]
	return slots, ok, nil
}

func (r *fakeRepo) SaveAll(ctx context.Context, userID string, slots []models.Slot) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.stored[userID] = slots
	r.saved = append(r.saved, slots)
	return nil
}

func (r *fakeRepo) Subscribe(ctx context.Context, userID string, onSnapshot scheduleRepo.SnapshotHandler, onError scheduleRepo.ErrorHandler) (func(), error) {
	r.onSnapshot = onSnapshot
	return func() {}, nil
}

func newTestService(repo *fakeRepo) *DefaultScheduleService {
	return NewDefaultScheduleService(repo, nil)
}

func TestLoadSlotsSeedsWelcome(t *testing.T) {
	svc := newTestService(newFakeRepo())
	defer svc.Close()

	slots, err := svc.LoadSlots(context.Background(), "new-user")
	if err != nil {
		t.Fatalf("LoadSlots() unexpected error: %v", err)
	}
	if len(slots) != 1 {
		t.Fatalf("LoadSlots() for new user = %d slots, want 1", len(slots))
	}
	if slots[0].Title != "Welcome!" || slots[0].Color != models.DefaultColor {
		t.Errorf("welcome slot = %+v", slots[0])
	}
}

func TestLoadSlotsNormalizesLegacyRecords(t *testing.T) {
	repo := newFakeRepo()
	repo.stored["u1"] = []models.Slot{
		{ID: "1", Title: "Old", Day: "2024-02-02", StartTime: "9:00", Duration: 1, Color: "#000"},
	}
	svc := newTestService(repo)
	defer svc.Close()

	slots, err := svc.LoadSlots(context.Background(), "u1")
	if err != nil {
		t.Fatalf("LoadSlots() unexpected error: %v", err)
	}
	if slots[0].Day != "Friday" || slots[0].StartTime != "09:00" {
		t.Errorf("legacy record not migrated on load: %+v", slots[0])
	}
	// Migration is lazy: nothing written back until the next mutation.
	if len(repo.saved) != 0 {
		t.Errorf("load triggered %d writes, want 0", len(repo.saved))
	}
}

func TestAddSlotSingle(t *testing.T) {
	repo := newFakeRepo()
	repo.stored["u1"] = []models.Slot{}
	svc := newTestService(repo)
	defer svc.Close()

	draft := models.SlotDraft{Title: "Gym", Day: "Monday", StartTime: "7:00"}
	slots, err := svc.AddSlot(context.Background(), "u1", draft)
	if err != nil {
		t.Fatalf("AddSlot() unexpected error: %v", err)
	}
	if len(slots) != 1 {
		t.Fatalf("AddSlot() = %d slots, want 1", len(slots))
	}
	got := slots[0]
	if got.ID == "" {
		t.Error("created slot has empty id")
	}
	if got.StartTime != "07:00" {
		t.Errorf("StartTime = %q, want 07:00", got.StartTime)
	}
	if got.Duration != models.DefaultDuration || got.Color != models.DefaultColor {
		t.Errorf("defaults not applied: %+v", got)
	}
	if len(repo.saved) != 1 {
		t.Fatalf("AddSlot() wrote %d times, want 1", len(repo.saved))
	}
}

func TestAddSlotEndTimeDerivesDuration(t *testing.T) {
	repo := newFakeRepo()
	repo.stored["u1"] = []models.Slot{}
	svc := newTestService(repo)
	defer svc.Close()

	draft := models.SlotDraft{Title: "Shift", Day: "Tuesday", StartTime: "09:00", EndTime: "10:30"}
	slots, err := svc.AddSlot(context.Background(), "u1", draft)
	if err != nil {
		t.Fatalf("AddSlot() unexpected error: %v", err)
	}
	if slots[0].Duration != 1.5 {
		t.Errorf("Duration = %v, want 1.5", slots[0].Duration)
	}
}

func TestAddSlotRecurring(t *testing.T) {
	repo := newFakeRepo()
	repo.stored["u1"] = []models.Slot{}
	svc := newTestService(repo)
	defer svc.Close()

	draft := models.SlotDraft{
		Title: "Gym", StartTime: "07:00", Duration: 1, Color: "#000",
		RepeatDays: []string{"Friday", "Monday"},
	}
	slots, err := svc.AddSlot(context.Background(), "u1", draft)
	if err != nil {
		t.Fatalf("AddSlot() unexpected error: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("AddSlot() = %d slots, want 2", len(slots))
	}
	if slots[0].Day != "Monday" || slots[1].Day != "Friday" {
		t.Errorf("days = [%s, %s], want [Monday, Friday]", slots[0].Day, slots[1].Day)
	}
	if slots[0].ID == slots[1].ID {
		t.Error("recurring slots share an id")
	}
}

func TestAddSlotRejectsInvalid(t *testing.T) {
	repo := newFakeRepo()
	repo.stored["u1"] = []models.Slot{}
	svc := newTestService(repo)
	defer svc.Close()

	draft := models.SlotDraft{Title: "Late", Day: "Monday", StartTime: "23:00", Duration: 2}
	if _, err := svc.AddSlot(context.Background(), "u1", draft); err == nil {
		t.Fatal("AddSlot() accepted a slot extending past midnight")
	}
	if len(repo.saved) != 0 {
		t.Errorf("rejected slot still wrote %d times", len(repo.saved))
	}
}

func TestEditSlotPartialMerge(t *testing.T) {
	repo := newFakeRepo()
	repo.stored["u1"] = []models.Slot{
		{ID: "s1", Title: "Old", Day: "Tuesday", StartTime: "10:00", Duration: 2, Color: "#db2777", Description: "keep"},
	}
	svc := newTestService(repo)
	defer svc.Close()

	slots, err := svc.EditSlot(context.Background(), "u1", "s1", models.SlotPatch{Title: strPtr("New")})
	if err != nil {
		t.Fatalf("EditSlot() unexpected error: %v", err)
	}
	got := slots[0]
	if got.Title != "New" {
		t.Errorf("Title = %q, want New", got.Title)
	}
	if got.Day != "Tuesday" || got.StartTime != "10:00" || got.Duration != 2 ||
		got.Color != "#db2777" || got.Description != "keep" {
		t.Errorf("absent patch fields not preserved: %+v", got)
	}
}

func TestEditSlotNotFound(t *testing.T) {
	repo := newFakeRepo()
	repo.stored["u1"] = []models.Slot{}
	svc := newTestService(repo)
	defer svc.Close()

	_, err := svc.EditSlot(context.Background(), "u1", "ghost", models.SlotPatch{Title: strPtr("x")})
	if !errors.Is(err, ErrSlotNotFound) {
		t.Fatalf("EditSlot() error = %v, want ErrSlotNotFound", err)
	}
}

func TestDeleteSlot(t *testing.T) {
	repo := newFakeRepo()
	repo.stored["u1"] = []models.Slot{
		{ID: "s1", Title: "A", Day: "Monday", StartTime: "09:00", Duration: 1},
		{ID: "s2", Title: "B", Day: "Tuesday", StartTime: "10:00", Duration: 1},
	}
	svc := newTestService(repo)
	defer svc.Close()

	slots, err := svc.DeleteSlot(context.Background(), "u1", "s1")
	if err != nil {
		t.Fatalf("DeleteSlot() unexpected error: %v", err)
	}
	if len(slots) != 1 || slots[0].ID != "s2" {
		t.Errorf("DeleteSlot() remaining = %+v", slots)
	}

	if _, err := svc.DeleteSlot(context.Background(), "u1", "s1"); !errors.Is(err, ErrSlotNotFound) {
		t.Errorf("second delete error = %v, want ErrSlotNotFound", err)
	}
}

func TestMoveSlot(t *testing.T) {
	repo := newFakeRepo()
	repo.stored["u1"] = []models.Slot{
		{ID: "s1", Title: "A", Day: "Monday", StartTime: "09:07", Duration: 1, Color: "#000"},
	}
	svc := newTestService(repo)
	defer svc.Close()

	slots, err := svc.MoveSlot(context.Background(), "u1", "s1",
		models.MoveRequest{DeltaMinutes: 10, TargetDay: "Thursday"})
	if err != nil {
		t.Fatalf("MoveSlot() unexpected error: %v", err)
	}
	if slots[0].StartTime != "09:15" || slots[0].Day != "Thursday" {
		t.Errorf("MoveSlot() = %+v, want 09:15 on Thursday", slots[0])
	}
}

func TestMoveSlotRejectsUnknownDay(t *testing.T) {
	repo := newFakeRepo()
	repo.stored["u1"] = []models.Slot{
		{ID: "s1", Title: "A", Day: "Monday", StartTime: "09:00", Duration: 1, Color: "#000"},
	}
	svc := newTestService(repo)
	defer svc.Close()

	_, err := svc.MoveSlot(context.Background(), "u1", "s1",
		models.MoveRequest{DeltaMinutes: 15, TargetDay: "Funday"})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("MoveSlot() error = %v, want ValidationError", err)
	}
	if verr.Field != "targetDay" {
		t.Errorf("failed field = %q, want targetDay", verr.Field)
	}

	// Nothing moved and nothing was written.
	slots, err := svc.LoadSlots(context.Background(), "u1")
	if err != nil {
		t.Fatalf("LoadSlots() unexpected error: %v", err)
	}
	if slots[0].Day != "Monday" || slots[0].StartTime != "09:00" {
		t.Errorf("rejected move changed the slot: %+v", slots[0])
	}
	if len(repo.saved) != 0 {
		t.Errorf("rejected move wrote %d times", len(repo.saved))
	}
}

func TestPersistFailureKeepsLocalState(t *testing.T) {
	repo := newFakeRepo()
	repo.stored["u1"] = []models.Slot{}
	svc := newTestService(repo)
	defer svc.Close()

	repo.saveErr = fmt.Errorf("store unavailable")
	draft := models.SlotDraft{Title: "Gym", Day: "Monday", StartTime: "07:00"}
	slots, err := svc.AddSlot(context.Background(), "u1", draft)

	var perr *PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("AddSlot() error = %v, want PersistenceError", err)
	}
	if len(slots) != 1 {
		t.Fatalf("AddSlot() returned %d slots alongside the error, want 1", len(slots))
	}

	// The optimistic update survives: the next read still shows the slot.
	repo.saveErr = nil
	loaded, err := svc.LoadSlots(context.Background(), "u1")
	if err != nil {
		t.Fatalf("LoadSlots() unexpected error: %v", err)
	}
	if len(loaded) != 1 || loaded[0].Title != "Gym" {
		t.Errorf("local state lost after failed save: %+v", loaded)
	}
}

func TestImportReplacesCollection(t *testing.T) {
	repo := newFakeRepo()
	repo.stored["u1"] = []models.Slot{
		{ID: "s1", Title: "Old", Day: "Monday", StartTime: "09:00", Duration: 1},
	}
	svc := newTestService(repo)
	defer svc.Close()

	payload := []byte(`[
		{"title": "Imported", "day": "2024-02-02", "startTime": "9:00", "duration": 1, "color": "#000"}
	]`)
	slots, err := svc.Import(context.Background(), "u1", payload)
	if err != nil {
		t.Fatalf("Import() unexpected error: %v", err)
	}
	if len(slots) != 1 {
		t.Fatalf("Import() = %d slots, want 1", len(slots))
	}
	got := slots[0]
	if got.Title != "Imported" || got.Day != "Friday" || got.StartTime != "09:00" {
		t.Errorf("imported slot not normalized: %+v", got)
	}
	if got.ID == "" || got.ID == "s1" {
		t.Errorf("missing id not regenerated: %q", got.ID)
	}
}

func TestImportRejectsMalformedPayload(t *testing.T) {
	repo := newFakeRepo()
	repo.stored["u1"] = []models.Slot{
		{ID: "s1", Title: "Old", Day: "Monday", StartTime: "09:00", Duration: 1},
	}
	svc := newTestService(repo)
	defer svc.Close()

	// null decodes cleanly into a nil slice; accepting it would wipe the
	// schedule without a single valid record in the payload.
	for _, payload := range []string{`not json`, `null`, `{"slots": []}`, `[{"day": "Funday"}]`} {
		_, err := svc.Import(context.Background(), "u1", []byte(payload))
		if !errors.Is(err, ErrImport) {
			t.Errorf("Import(%q) error = %v, want ErrImport", payload, err)
		}
	}

	// A rejected import leaves the collection untouched.
	slots, err := svc.LoadSlots(context.Background(), "u1")
	if err != nil {
		t.Fatalf("LoadSlots() unexpected error: %v", err)
	}
	if len(slots) != 1 || slots[0].ID != "s1" {
		t.Errorf("collection changed after rejected import: %+v", slots)
	}
	if len(repo.saved) != 0 {
		t.Errorf("rejected import wrote %d times", len(repo.saved))
	}
}

func TestExportFilenameIsDated(t *testing.T) {
	repo := newFakeRepo()
	repo.stored["u1"] = []models.Slot{
		{ID: "s1", Title: "A", Day: "Monday", StartTime: "09:00", Duration: 1},
	}
	svc := newTestService(repo)
	defer svc.Close()

	data, filename, err := svc.Export(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Export() unexpected error: %v", err)
	}
	want := fmt.Sprintf("timeline_backup_%s.json", time.Now().Format("2006-01-02"))
	if filename != want {
		t.Errorf("filename = %q, want %q", filename, want)
	}
	if len(data) == 0 || data[0] != '[' {
		t.Errorf("export payload is not a JSON array: %q", data)
	}
}

func TestSummaryFromSession(t *testing.T) {
	repo := newFakeRepo()
	repo.stored["u1"] = []models.Slot{
		{ID: "1", Day: "Monday", StartTime: "09:00", Color: "#a", Duration: 1},
		{ID: "2", Day: "Tuesday", StartTime: "09:00", Color: "#a", Duration: 2},
		{ID: "3", Day: "Wednesday", StartTime: "09:00", Color: "#b", Duration: 1},
	}
	svc := newTestService(repo)
	defer svc.Close()

	summary, err := svc.Summary(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Summary() unexpected error: %v", err)
	}
	if summary.Total != 4 {
		t.Errorf("Total = %v, want 4", summary.Total)
	}
	if len(summary.ByColor) != 2 || summary.ByColor[0].Color != "#a" {
		t.Errorf("ByColor = %+v", summary.ByColor)
	}
}

func TestInboundSnapshotReplacesSession(t *testing.T) {
	repo := newFakeRepo()
	repo.stored["u1"] = []models.Slot{
		{ID: "s1", Title: "Local", Day: "Monday", StartTime: "09:00", Duration: 1},
	}
	svc := newTestService(repo)
	defer svc.Close()

	if _, err := svc.LoadSlots(context.Background(), "u1"); err != nil {
		t.Fatalf("LoadSlots() unexpected error: %v", err)
	}
	if repo.onSnapshot == nil {
		t.Fatal("LoadSlots() did not open a subscription")
	}

	// Another device writes a different collection; the snapshot wins
	// wholesale and legacy records in it are normalized.
	repo.onSnapshot([]models.Slot{
		{ID: "r1", Title: "Remote", Day: "2024-02-02", StartTime: "9:00", Duration: 1},
	}, true)

	slots, err := svc.LoadSlots(context.Background(), "u1")
	if err != nil {
		t.Fatalf("LoadSlots() unexpected error: %v", err)
	}
	if len(slots) != 1 || slots[0].ID != "r1" {
		t.Fatalf("snapshot did not replace the collection: %+v", slots)
	}
	if slots[0].Day != "Friday" || slots[0].StartTime != "09:00" {
		t.Errorf("snapshot records not normalized: %+v", slots[0])
	}
}
