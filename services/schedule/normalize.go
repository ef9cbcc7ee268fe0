package schedule

import (
	"time"

	"timeline/models"
)

// isoDateLayout is the deprecated slot-day encoding: an absolute calendar
// date instead of a generic weekday name.
const isoDateLayout = "2006-01-02"

// NormalizeSlot migrates one slot from any historical encoding to the
// canonical form. The variant is recognized by shape: a day that is already
// a weekday name passes through, a day matching yyyy-MM-dd is replaced by
// that date's English weekday name, and anything else is left for Validate
// to flag on the next write. A 4-character start time gets its leading zero
// back. Applying NormalizeSlot twice yields the same result.
func NormalizeSlot(s models.Slot) models.Slot {
	switch {
	case models.IsWeekday(s.Day):
		// canonical form
	default:
		if d, err := time.Parse(isoDateLayout, s.Day); err == nil {
			s.Day = d.Weekday().String()
		}
	}
	if len(s.StartTime) == 4 {
		s.StartTime = "0" + s.StartTime
	}
	return s
}

// NormalizeCollection runs NormalizeSlot over a freshly loaded collection.
// It runs on every load and every inbound snapshot; the store keeps legacy
// records until each slot is next saved (lazy migration), so readers can
// never assume the stored form is canonical.
func NormalizeCollection(slots []models.Slot) []models.Slot {
	out := make([]models.Slot, len(slots))
	for i, s := range slots {
		out[i] = NormalizeSlot(s)
	}
	return out
}
