package schedule

import (
	"math"

	"timeline/models"
)

// snapMinutes is the drag quantization step of the grid.
const snapMinutes = 15

// Reposition computes a slot's new day and start time after a drag. The
// vertical delta maps 1:1 from pixels to minutes, the result snaps to the
// nearest 15-minute boundary and is clamped so the slot stays inside its
// day. The target day is taken as-is: whatever region the pointer was
// released over wins, even if it equals the source day. Reposition never
// fails; out-of-range deltas are absorbed by the clamp.
func Reposition(slot models.Slot, deltaMinutes int, targetDay string) models.Slot {
	start, err := TimeToMinutes(slot.StartTime)
	if err != nil {
		start = 0
	}

	moved := start + deltaMinutes
	snapped := int(math.Round(float64(moved)/snapMinutes)) * snapMinutes

	hi := minutesPerDay - int(math.Round(slot.Duration*60))
	if hi > minutesPerDay-1 {
		hi = minutesPerDay - 1
	}
	if hi < 0 {
		hi = 0
	}
	if snapped < 0 {
		snapped = 0
	}
	if snapped > hi {
		snapped = hi
	}

	// Clamped into range, so re-encoding cannot fail.
	newStart, _ := MinutesToTime(snapped)

	slot.Day = targetDay
	slot.StartTime = newStart
	return slot
}
