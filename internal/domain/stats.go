package domain

import (
	"sort"
	"time"
)

const (
	// MatureIntervalDays is the interval at which a card counts as mature in ReviewStats.
	MatureIntervalDays = 21

	// TagMatureReviewCount is the review count at which a card counts as mature in TagStats.
	// It is intentionally a different measure from MatureIntervalDays.
	TagMatureReviewCount = 5

	// UncategorizedTag labels the group of cards that carry no tag.
	UncategorizedTag = "Uncategorized"
)

// ReviewStats aggregates the review state of the whole collection.
// A new card that is due counts in both CardsDue and CardsNew.
type ReviewStats struct {
	TotalCards    int `json:"total_cards"`
	CardsDue      int `json:"cards_due"`
	CardsNew      int `json:"cards_new"`
	CardsLearning int `json:"cards_learning"`
	CardsMature   int `json:"cards_mature"`
}

// TagStats aggregates the review state of all cards sharing a tag.
type TagStats struct {
	Name        string `json:"name"`
	TotalCards  int    `json:"total_cards"`
	CardsDue    int    `json:"cards_due"`
	CardsNew    int    `json:"cards_new"`
	CardsMature int    `json:"cards_mature"`
}

// ComputeReviewStats counts total, due, new, learning and mature cards as of now.
func ComputeReviewStats(cards []Card, now time.Time) ReviewStats {
	stats := ReviewStats{TotalCards: len(cards)}
	for i := range cards {
		c := &cards[i]
		if c.IsDue(now) {
			stats.CardsDue++
		}
		if c.ReviewCount == 0 {
			stats.CardsNew++
		}
		if c.ReviewCount > 0 && c.Interval < MatureIntervalDays {
			stats.CardsLearning++
		}
		if c.Interval >= MatureIntervalDays {
			stats.CardsMature++
		}
	}
	return stats
}

// ComputeTagStats groups cards by tag, untagged cards under UncategorizedTag,
// and returns one entry per group sorted by name.
func ComputeTagStats(cards []Card, now time.Time) []TagStats {
	groups := make(map[string]*TagStats)
	for i := range cards {
		c := &cards[i]
		name := UncategorizedTag
		if c.Tag != nil {
			name = *c.Tag
		}

		g, ok := groups[name]
		if !ok {
			g = &TagStats{Name: name}
			groups[name] = g
		}

		g.TotalCards++
		if c.IsDue(now) {
			g.CardsDue++
		}
		if c.ReviewCount == 0 {
			g.CardsNew++
		}
		if c.ReviewCount >= TagMatureReviewCount {
			g.CardsMature++
		}
	}

	result := make([]TagStats, 0, len(groups))
	for _, g := range groups {
		result = append(result, *g)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}
