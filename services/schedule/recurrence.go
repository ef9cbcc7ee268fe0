package schedule

import (
	"github.com/google/uuid"

	"timeline/models"
)

// ExpandRecurring turns a slot draft plus a set of target weekdays into one
// concrete slot per weekday, each with a fresh id. Output order follows the
// canonical Monday..Sunday order regardless of selection order, so identical
// input sets always produce the same sequence. Unknown day names are
// rejected; duplicates collapse.
func ExpandRecurring(draft models.SlotDraft, days []string) ([]models.Slot, error) {
	if len(days) == 0 {
		return nil, ErrEmptySelection
	}

	selected := make(map[int]bool, len(days))
	for _, d := range days {
		idx := models.WeekdayIndex(d)
		if idx < 0 {
			return nil, &ValidationError{Field: "repeatDays", Reason: "unknown day " + d}
		}
		selected[idx] = true
	}

	var slots []models.Slot
	for idx, day := range models.Weekdays {
		if !selected[idx] {
			continue
		}
		slots = append(slots, models.Slot{
			ID:          uuid.New().String(),
			Title:       draft.Title,
			Day:         day,
			StartTime:   draft.StartTime,
			Duration:    draft.Duration,
			Color:       draft.Color,
			Description: draft.Description,
		})
	}
	return slots, nil
}
