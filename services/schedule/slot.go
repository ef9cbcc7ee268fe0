package schedule

import (
	"fmt"

	"timeline/models"
)

// NormalizeStartTime accepts "H:mm" or "HH:mm" and returns the
// zero-padded canonical form.
func NormalizeStartTime(raw string) (string, error) {
	if len(raw) == 4 {
		raw = "0" + raw
	}
	if _, err := TimeToMinutes(raw); err != nil {
		return "", err
	}
	return raw, nil
}

// Validate checks every model invariant and returns the slot unchanged,
// or a ValidationError naming the offending field. Overlap with other
// slots is deliberately not checked; overlapping slots are permitted.
func Validate(s models.Slot) (models.Slot, error) {
	if s.ID == "" {
		return s, &ValidationError{Field: "id", Reason: "must not be empty"}
	}
	if !models.IsWeekday(s.Day) {
		return s, &ValidationError{Field: "day", Reason: fmt.Sprintf("%q is not a weekday name", s.Day)}
	}
	start, err := TimeToMinutes(s.StartTime)
	if err != nil {
		return s, &ValidationError{Field: "startTime", Reason: err.Error()}
	}
	if s.Duration <= 0 {
		return s, &ValidationError{Field: "duration", Reason: "must be positive"}
	}
	if float64(start)+s.Duration*60 > minutesPerDay {
		return s, &ValidationError{Field: "duration", Reason: "slot extends past end of day"}
	}
	return s, nil
}

// Merge applies a partial record onto an existing slot, field by field.
// Nil patch fields leave the stored value untouched; the id never changes.
// A patched end time recomputes the duration against the merged start.
func Merge(existing models.Slot, patch models.SlotPatch) (models.Slot, error) {
	merged := existing
	if patch.Title != nil {
		merged.Title = *patch.Title
	}
	if patch.Day != nil {
		merged.Day = *patch.Day
	}
	if patch.StartTime != nil {
		start, err := NormalizeStartTime(*patch.StartTime)
		if err != nil {
			return existing, fmt.Errorf("startTime: %w", err)
		}
		merged.StartTime = start
	}
	if patch.Duration != nil {
		merged.Duration = *patch.Duration
	}
	if patch.EndTime != nil {
		dur, err := DurationBetween(merged.StartTime, *patch.EndTime)
		if err != nil {
			return existing, fmt.Errorf("endTime: %w", err)
		}
		merged.Duration = dur
	}
	if patch.Color != nil {
		merged.Color = *patch.Color
	}
	if patch.Description != nil {
		merged.Description = *patch.Description
	}
	return merged, nil
}
