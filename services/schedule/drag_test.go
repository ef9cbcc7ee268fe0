package schedule

import (
	"testing"

	"timeline/models"
)

func TestReposition(t *testing.T) {
	tests := []struct {
		name      string
		start     string
		duration  float64
		delta     int
		targetDay string
		wantStart string
		wantDay   string
	}{
		{
			name:  "snaps to nearest quarter hour",
			start: "09:07", duration: 1, delta: 10, targetDay: "Monday",
			wantStart: "09:15", wantDay: "Monday",
		},
		{
			name:  "snaps down",
			start: "09:00", duration: 1, delta: 7, targetDay: "Monday",
			wantStart: "09:00", wantDay: "Monday",
		},
		{
			name:  "half rounds up",
			start: "09:00", duration: 1, delta: 8, targetDay: "Monday",
			wantStart: "09:15", wantDay: "Monday",
		},
		{
			name:  "clamps below midnight",
			start: "00:30", duration: 1, delta: -120, targetDay: "Tuesday",
			wantStart: "00:00", wantDay: "Tuesday",
		},
		{
			name:  "clamps at end of day",
			start: "21:00", duration: 2, delta: 600, targetDay: "Wednesday",
			wantStart: "22:00", wantDay: "Wednesday",
		},
		{
			name:  "fractional duration clamp",
			start: "23:00", duration: 0.5, delta: 90, targetDay: "Thursday",
			wantStart: "23:30", wantDay: "Thursday",
		},
		{
			name:  "day change with zero delta",
			start: "14:00", duration: 1, delta: 0, targetDay: "Sunday",
			wantStart: "14:00", wantDay: "Sunday",
		},
		{
			name:  "no-op move is valid",
			start: "14:00", duration: 1, delta: 0, targetDay: "Friday",
			wantStart: "14:00", wantDay: "Friday",
		},
		{
			name:  "negative snap then clamp",
			start: "00:07", duration: 1, delta: -30, targetDay: "Monday",
			wantStart: "00:00", wantDay: "Monday",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slot := models.Slot{
				ID: "1", Title: "Work", Day: "Friday",
				StartTime: tt.start, Duration: tt.duration, Color: "#000",
			}
			got := Reposition(slot, tt.delta, tt.targetDay)

			if got.StartTime != tt.wantStart {
				t.Errorf("StartTime = %q, want %q", got.StartTime, tt.wantStart)
			}
			if got.Day != tt.wantDay {
				t.Errorf("Day = %q, want %q", got.Day, tt.wantDay)
			}
			if got.ID != slot.ID || got.Duration != slot.Duration || got.Title != slot.Title {
				t.Errorf("Reposition() must only change day and start time: %+v", got)
			}
		})
	}
}

func TestRepositionAlwaysValid(t *testing.T) {
	// Extreme deltas are absorbed by the clamp, never rejected.
	slot := models.Slot{ID: "1", Day: "Monday", StartTime: "12:00", Duration: 1, Color: "#000"}

	for _, delta := range []int{-100000, -1440, 1440, 100000} {
		got := Reposition(slot, delta, "Tuesday")
		if _, err := Validate(got); err != nil {
			t.Errorf("Reposition(delta=%d) produced invalid slot %+v: %v", delta, got, err)
		}
	}
}
