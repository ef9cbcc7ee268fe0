package schedule

import (
	"sort"

	"timeline/models"
)

// Summarize derives the per-color duration breakdown for a slot collection.
// Slots without a color count under the default color token; a missing
// duration counts as zero. Buckets are keyed by color string equality and
// ordered by descending total hours, ties keeping discovery order.
func Summarize(slots []models.Slot) models.ScheduleSummary {
	totals := make(map[string]float64)
	var order []string
	var grand float64

	for _, s := range slots {
		color := s.Color
		if color == "" {
			color = models.DefaultColor
		}
		if _, seen := totals[color]; !seen {
			order = append(order, color)
		}
		totals[color] += s.Duration
		grand += s.Duration
	}

	byColor := make([]models.ColorHours, 0, len(order))
	for _, color := range order {
		byColor = append(byColor, models.ColorHours{Color: color, Hours: totals[color]})
	}
	sort.SliceStable(byColor, func(i, j int) bool {
		return byColor[i].Hours > byColor[j].Hours
	})

	return models.ScheduleSummary{ByColor: byColor, Total: grand}
}
