package models

// Weekdays is the canonical day vocabulary, in display order. Every slot's
// Day field holds one of these values after normalization.
var Weekdays = []string{
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
	"Sunday",
}

// DefaultColor is the fallback color token for slots without one.
const DefaultColor = "#7c3aed"

// DefaultDuration is the fallback slot length in hours.
const DefaultDuration = 1.0

// IsWeekday reports whether day is one of the seven canonical names.
func IsWeekday(day string) bool {
	return WeekdayIndex(day) >= 0
}

// WeekdayIndex returns the canonical position of day (Monday = 0), or -1.
func WeekdayIndex(day string) int {
	for i, d := range Weekdays {
		if d == day {
			return i
		}
	}
	return -1
}

// Slot is the sole persisted entity: one block on the weekly grid.
type Slot struct {
	ID          string  `bson:"id" firestore:"id" json:"id"`
	Title       string  `bson:"title" firestore:"title" json:"title"`
	Day         string  `bson:"day" firestore:"day" json:"day"`
	StartTime   string  `bson:"startTime" firestore:"startTime" json:"startTime"`
	Duration    float64 `bson:"duration" firestore:"duration" json:"duration"` // hours, may be fractional
	Color       string  `bson:"color" firestore:"color" json:"color"`
	Description string  `bson:"description,omitempty" firestore:"description" json:"description,omitempty"`
}

// ScheduleDocument is the per-user store document: a single ordered slot list.
type ScheduleDocument struct {
	Slots []Slot `bson:"slots" firestore:"slots" json:"slots"`
}

// SlotDraft is the payload for creating slots. Duration may be given
// directly or derived from EndTime; RepeatDays triggers recurrence expansion.
type SlotDraft struct {
	Title       string   `json:"title"`
	Day         string   `json:"day"`
	StartTime   string   `json:"startTime" binding:"required"`
	EndTime     string   `json:"endTime,omitempty"`
	Duration    float64  `json:"duration,omitempty"`
	Color       string   `json:"color"`
	Description string   `json:"description,omitempty"`
	RepeatDays  []string `json:"repeatDays,omitempty"`
}

// SlotPatch is a partial slot record for edits. Nil fields are preserved
// unchanged on the stored record.
type SlotPatch struct {
	Title       *string  `json:"title,omitempty"`
	Day         *string  `json:"day,omitempty"`
	StartTime   *string  `json:"startTime,omitempty"`
	EndTime     *string  `json:"endTime,omitempty"`
	Duration    *float64 `json:"duration,omitempty"`
	Color       *string  `json:"color,omitempty"`
	Description *string  `json:"description,omitempty"`
}

// MoveRequest is the payload for a drag reposition.
type MoveRequest struct {
	DeltaMinutes int    `json:"deltaMinutes"`
	TargetDay    string `json:"targetDay" binding:"required"`
}

// ColorHours is one summary bucket: total scheduled hours for a color.
type ColorHours struct {
	Color string  `json:"color"`
	Hours float64 `json:"hours"`
}

// ScheduleSummary is the derived per-color duration breakdown. ByColor is
// ordered by descending hours (ties keep discovery order); never persisted.
type ScheduleSummary struct {
	ByColor []ColorHours `json:"byColor"`
	Total   float64      `json:"total"`
}
