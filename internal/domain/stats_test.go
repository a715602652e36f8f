package domain

import (
	"testing"
	"time"
)

func TestComputeReviewStats(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	cards := []Card{
		// new and overdue: counted in both due and new
		{ID: "new", NextReview: now.Add(-time.Hour)},
		// learning, not due
		{ID: "learning", ReviewCount: 2, Interval: 6, NextReview: now.Add(48 * time.Hour)},
		// mature, due exactly now
		{ID: "mature", ReviewCount: 7, Interval: 30, NextReview: now},
	}

	got := ComputeReviewStats(cards, now)
	want := ReviewStats{TotalCards: 3, CardsDue: 2, CardsNew: 1, CardsLearning: 1, CardsMature: 1}
	if got != want {
		t.Errorf("Expected %+v, got %+v", want, got)
	}
}

func TestComputeTagStats(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	math := "Math"
	science := "Science"

	cards := []Card{
		{ID: "1", Tag: &math, NextReview: now},
		{ID: "2", Tag: &math, ReviewCount: 5, Interval: 3, NextReview: now.Add(24 * time.Hour)},
		{ID: "3", Tag: &science, NextReview: now},
		{ID: "4", NextReview: now.Add(time.Hour)},
	}

	stats := ComputeTagStats(cards, now)
	if len(stats) != 3 {
		t.Fatalf("Expected 3 groups, got %d", len(stats))
	}

	names := []string{stats[0].Name, stats[1].Name, stats[2].Name}
	if names[0] != "Math" || names[1] != "Science" || names[2] != UncategorizedTag {
		t.Errorf("Expected sorted group names, got %v", names)
	}

	if stats[0] != (TagStats{Name: "Math", TotalCards: 2, CardsDue: 1, CardsNew: 1, CardsMature: 1}) {
		t.Errorf("Unexpected Math stats %+v", stats[0])
	}

	total := 0
	for _, s := range stats {
		total += s.TotalCards
	}
	if total != len(cards) {
		t.Errorf("Expected every card in exactly one group, got %d of %d", total, len(cards))
	}

	if stats[2].TotalCards != 1 || stats[2].CardsDue != 0 {
		t.Errorf("Unexpected Uncategorized stats %+v", stats[2])
	}
}
