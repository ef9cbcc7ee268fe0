package schedule

import (
	"testing"

	"timeline/models"
)

func TestSummarize(t *testing.T) {
	slots := []models.Slot{
		{ID: "1", Color: "#a", Duration: 1},
		{ID: "2", Color: "#a", Duration: 2},
		{ID: "3", Color: "#b", Duration: 1},
	}

	got := Summarize(slots)

	if got.Total != 4 {
		t.Errorf("Total = %v, want 4", got.Total)
	}
	want := []models.ColorHours{
		{Color: "#a", Hours: 3},
		{Color: "#b", Hours: 1},
	}
	if len(got.ByColor) != len(want) {
		t.Fatalf("ByColor has %d buckets, want %d", len(got.ByColor), len(want))
	}
	for i := range want {
		if got.ByColor[i] != want[i] {
			t.Errorf("ByColor[%d] = %+v, want %+v", i, got.ByColor[i], want[i])
		}
	}
}

func TestSummarizeDefaults(t *testing.T) {
	slots := []models.Slot{
		{ID: "1", Duration: 2},      // no color
		{ID: "2", Color: "#16a34a"}, // no duration
		{ID: "3", Color: "", Duration: 1},
	}

	got := Summarize(slots)

	if got.Total != 3 {
		t.Errorf("Total = %v, want 3", got.Total)
	}
	if len(got.ByColor) != 2 {
		t.Fatalf("ByColor has %d buckets, want 2", len(got.ByColor))
	}
	if got.ByColor[0].Color != models.DefaultColor || got.ByColor[0].Hours != 3 {
		t.Errorf("default color bucket = %+v, want {%s 3}", got.ByColor[0], models.DefaultColor)
	}
	if got.ByColor[1].Color != "#16a34a" || got.ByColor[1].Hours != 0 {
		t.Errorf("zero-duration bucket = %+v", got.ByColor[1])
	}
}

func TestSummarizeTiesKeepDiscoveryOrder(t *testing.T) {
	slots := []models.Slot{
		{ID: "1", Color: "#x", Duration: 1},
		{ID: "2", Color: "#y", Duration: 1},
		{ID: "3", Color: "#z", Duration: 1},
	}

	got := Summarize(slots)

	want := []string{"#x", "#y", "#z"}
	for i, w := range want {
		if got.ByColor[i].Color != w {
			t.Errorf("ByColor[%d].Color = %s, want %s", i, got.ByColor[i].Color, w)
		}
	}
}

func TestSummarizeEmpty(t *testing.T) {
	got := Summarize(nil)
	if got.Total != 0 || len(got.ByColor) != 0 {
		t.Errorf("Summarize(nil) = %+v, want empty summary", got)
	}
}
