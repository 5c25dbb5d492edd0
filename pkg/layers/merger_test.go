package layers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func rec(id string, confidence float64) Record {
	return Record{ID: id, Title: id, Confidence: confidence}
}

func TestMergeSortedDescendingByCombinedScore(t *testing.T) {
	primary := Result{LayerID: LayerFounderIntel, Records: []Record{
		rec("p1", 0.4),
		rec("p2", 0.9),
	}}
	secondary := Result{LayerID: LayerFundOps, Records: []Record{
		rec("s1", 0.8),
	}}

	merged := Merge(primary, &secondary, DefaultMergeConfig())

	assert.Len(t, merged, 3)
	for i := 1; i < len(merged); i++ {
		assert.GreaterOrEqual(t, merged[i-1].CombinedScore, merged[i].CombinedScore)
	}
}

func TestMergeScores(t *testing.T) {
	primary := Result{Records: []Record{rec("p1", 0.5)}}
	secondary := Result{Records: []Record{rec("s1", 0.5)}}

	merged := Merge(primary, &secondary, DefaultMergeConfig())

	byID := map[string]Record{}
	for _, m := range merged {
		byID[m.ID] = m
	}

	assert.Equal(t, 1, byID["p1"].LayerPriority)
	assert.InDelta(t, 0.5, byID["p1"].CombinedScore, 1e-9)
	assert.Equal(t, 2, byID["s1"].LayerPriority)
	assert.InDelta(t, 0.35, byID["s1"].CombinedScore, 1e-9)
}

func TestMergeSkipsSecondaryWhenPrimaryMeetsThreshold(t *testing.T) {
	primary := Result{Records: []Record{
		rec("p1", 0.9), rec("p2", 0.8), rec("p3", 0.7),
	}}
	secondary := Result{Records: []Record{rec("s1", 0.99)}}

	merged := Merge(primary, &secondary, DefaultMergeConfig())

	assert.Len(t, merged, 3)
	for _, m := range merged {
		assert.Equal(t, 1, m.LayerPriority)
	}
}

func TestMergeIncludesSecondaryBelowThreshold(t *testing.T) {
	primary := Result{Records: []Record{rec("p1", 0.9), rec("p2", 0.8)}}
	secondary := Result{Records: []Record{rec("s1", 0.6)}}

	merged := Merge(primary, &secondary, DefaultMergeConfig())

	assert.Len(t, merged, 3)
	assert.Equal(t, 2, merged[2].LayerPriority)
}

func TestMergeNilSecondary(t *testing.T) {
	primary := Result{Records: []Record{rec("p1", 0.9)}}

	merged := Merge(primary, nil, DefaultMergeConfig())

	assert.Len(t, merged, 1)
	assert.Equal(t, "p1", merged[0].ID)
}

func TestMergeStableOrderOnEqualScores(t *testing.T) {
	// 0.35 primary and 0.5 secondary both land on a combined score of
	// 0.35 after the discount; primary must come first.
	primary := Result{Records: []Record{rec("p1", 0.35)}}
	secondary := Result{Records: []Record{rec("s1", 0.5)}}

	merged := Merge(primary, &secondary, DefaultMergeConfig())

	assert.Equal(t, "p1", merged[0].ID)
	assert.Equal(t, "s1", merged[1].ID)
}

func TestMergeEmptyInputs(t *testing.T) {
	merged := Merge(Result{}, &Result{}, DefaultMergeConfig())
	assert.Empty(t, merged)
}

func TestMergeCustomConfig(t *testing.T) {
	primary := Result{Records: []Record{rec("p1", 0.9)}}
	secondary := Result{Records: []Record{rec("s1", 1.0)}}

	cfg := MergeConfig{SecondaryDiscount: 0.5, FallbackThreshold: 2}
	merged := Merge(primary, &secondary, cfg)

	assert.Len(t, merged, 2)
	assert.InDelta(t, 0.5, merged[1].CombinedScore, 1e-9)
}
