package analytics

import (
	"testing"
	"time"

	"github.com/olegiv/olp-go/internal/model"
)

func TestAccumulateUniqueVisit(t *testing.T) {
	doc := model.Default()
	doc.Analytics.TotalVisits = 10
	doc.Analytics.UniqueVisits = 4
	doc.Analytics.DailyStats["2024-01-01"] = 2

	next := Accumulate(doc, "2024-01-02", true)

	if next.Analytics.TotalVisits != 11 {
		t.Errorf("TotalVisits = %d, want 11", next.Analytics.TotalVisits)
	}
	if next.Analytics.UniqueVisits != 5 {
		t.Errorf("UniqueVisits = %d, want 5", next.Analytics.UniqueVisits)
	}
	if next.Analytics.DailyStats["2024-01-02"] != 1 {
		t.Errorf("DailyStats[2024-01-02] = %d, want 1", next.Analytics.DailyStats["2024-01-02"])
	}
	if next.Analytics.DailyStats["2024-01-01"] != 2 {
		t.Error("existing daily buckets must be preserved")
	}

	// The input document must be untouched.
	if doc.Analytics.TotalVisits != 10 || doc.Analytics.UniqueVisits != 4 {
		t.Error("Accumulate must not mutate its input")
	}
	if _, ok := doc.Analytics.DailyStats["2024-01-02"]; ok {
		t.Error("Accumulate must not mutate the input's daily stats")
	}
}

func TestAccumulateRepeatVisit(t *testing.T) {
	doc := model.Default()
	doc.Analytics.UniqueVisits = 4

	next := Accumulate(doc, "2024-01-02", false)

	if next.Analytics.UniqueVisits != 4 {
		t.Errorf("UniqueVisits = %d, want unchanged 4", next.Analytics.UniqueVisits)
	}
	if next.Analytics.TotalVisits != 1 {
		t.Errorf("TotalVisits = %d, want 1", next.Analytics.TotalVisits)
	}
}

func TestAccumulateSameDayTwice(t *testing.T) {
	doc := model.Default()
	next := Accumulate(doc, "2024-06-15", true)
	next = Accumulate(next, "2024-06-15", false)

	if next.Analytics.DailyStats["2024-06-15"] != 2 {
		t.Errorf("DailyStats = %d, want 2", next.Analytics.DailyStats["2024-06-15"])
	}
}

func TestPruneDailyStats(t *testing.T) {
	doc := model.Default()
	doc.Analytics.TotalVisits = 100
	doc.Analytics.DailyStats["2023-01-01"] = 3
	doc.Analytics.DailyStats["2024-05-01"] = 7

	cutoff := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	pruned, dropped := PruneDailyStats(doc, cutoff)

	if dropped != 1 {
		t.Fatalf("dropped = %d, want 1", dropped)
	}
	if _, ok := pruned.Analytics.DailyStats["2023-01-01"]; ok {
		t.Error("stale bucket should be removed")
	}
	if pruned.Analytics.DailyStats["2024-05-01"] != 7 {
		t.Error("recent bucket should survive pruning")
	}
	if pruned.Analytics.TotalVisits != 100 {
		t.Error("totals must never be pruned")
	}

	// Original is untouched.
	if _, ok := doc.Analytics.DailyStats["2023-01-01"]; !ok {
		t.Error("PruneDailyStats must not mutate its input")
	}
}

func TestPruneDailyStatsNoop(t *testing.T) {
	doc := model.Default()
	doc.Analytics.DailyStats["2024-05-01"] = 7

	cutoff := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	pruned, dropped := PruneDailyStats(doc, cutoff)

	if dropped != 0 {
		t.Errorf("dropped = %d, want 0", dropped)
	}
	if pruned != doc {
		t.Error("a no-op prune should return the original document")
	}
}

func TestDailySeries(t *testing.T) {
	doc := model.Default()
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	doc.Analytics.DailyStats["2024-06-15"] = 4
	doc.Analytics.DailyStats["2024-06-13"] = 2

	series := DailySeries(doc, 3, now)

	if len(series) != 3 {
		t.Fatalf("len(series) = %d, want 3", len(series))
	}
	want := []DayCount{
		{Date: "2024-06-13", Count: 2},
		{Date: "2024-06-14", Count: 0},
		{Date: "2024-06-15", Count: 4},
	}
	for i, w := range want {
		if series[i] != w {
			t.Errorf("series[%d] = %+v, want %+v", i, series[i], w)
		}
	}
}

func TestIsBot(t *testing.T) {
	tests := []struct {
		name string
		ua   string
		want bool
	}{
		{"empty", "", true},
		{"googlebot", "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)", true},
		{"chrome", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36", false},
		{"iphone safari", "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsBot(tt.ua); got != tt.want {
				t.Errorf("IsBot(%q) = %v, want %v", tt.ua, got, tt.want)
			}
		})
	}
}
