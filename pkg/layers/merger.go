package layers

import "sort"

// MergeConfig encapsulates the ranking policy constants. The defaults
// are load-bearing for behavioral compatibility: secondary results are
// discounted by 0.7 and only consulted when the primary layer yields
// fewer than 3 records.
type MergeConfig struct {
	SecondaryDiscount float64
	FallbackThreshold int
}

// DefaultMergeConfig returns the standard policy.
func DefaultMergeConfig() MergeConfig {
	return MergeConfig{
		SecondaryDiscount: 0.7,
		FallbackThreshold: 3,
	}
}

// Merge combines primary and secondary layer results into one list
// ordered by combined score, descending. Primary records carry
// layer_priority 1 and keep their raw confidence as the combined
// score; secondary records carry layer_priority 2 and a discounted
// score, and are dropped entirely when the primary layer already met
// the fallback threshold. The sort is stable, so equally scored
// records keep primary-before-secondary order.
func Merge(primary Result, secondary *Result, cfg MergeConfig) []Record {
	merged := make([]Record, 0, len(primary.Records))

	for _, rec := range primary.Records {
		rec.LayerPriority = 1
		rec.CombinedScore = rec.Confidence
		merged = append(merged, rec)
	}

	if secondary != nil && len(primary.Records) < cfg.FallbackThreshold {
		for _, rec := range secondary.Records {
			rec.LayerPriority = 2
			rec.CombinedScore = rec.Confidence * cfg.SecondaryDiscount
			merged = append(merged, rec)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CombinedScore > merged[j].CombinedScore
	})

	return merged
}
