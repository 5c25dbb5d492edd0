package layers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyFounderQuery(t *testing.T) {
	c := NewDefaultClassifier()

	res := c.Classify("founder background of a candidate")

	assert.Equal(t, LayerFounderIntel, res.PrimaryLayer)
	assert.Equal(t, LayerFundOps, res.SecondaryLayer)
	assert.Equal(t, "founder", res.Category)
	assert.False(t, res.Fallback)
	assert.Greater(t, res.Confidence, 0.0)
	assert.LessOrEqual(t, res.Confidence, 1.0)
}

func TestClassifyFundQuery(t *testing.T) {
	c := NewDefaultClassifier()

	res := c.Classify("portfolio valuation for the fund")

	assert.Equal(t, LayerFundOps, res.PrimaryLayer)
	assert.Equal(t, LayerFounderIntel, res.SecondaryLayer)
	assert.Equal(t, "fund", res.Category)
}

func TestClassifyResearchQuery(t *testing.T) {
	c := NewDefaultClassifier()

	res := c.Classify("academic paper on benchmark methodology")

	assert.Equal(t, LayerResearchLibrary, res.PrimaryLayer)
	assert.Equal(t, "research", res.Category)
}

func TestClassifyNoKeywordsUsesDefaultPair(t *testing.T) {
	c := NewDefaultClassifier()

	res := c.Classify("what is the weather like today")

	assert.True(t, res.Fallback)
	assert.Equal(t, LayerFounderIntel, res.PrimaryLayer)
	assert.Equal(t, LayerResearchLibrary, res.SecondaryLayer)
	assert.Equal(t, 0.0, res.Confidence)
	assert.Empty(t, res.Category)
}

func TestClassifyIsCaseInsensitive(t *testing.T) {
	c := NewDefaultClassifier()

	lower := c.Classify("founder startup ceo")
	upper := c.Classify("FOUNDER Startup CEO")

	assert.Equal(t, lower.PrimaryLayer, upper.PrimaryLayer)
	assert.Equal(t, lower.CategoryScores, upper.CategoryScores)
}

func TestClassifyTieFirstDeclaredCategoryWins(t *testing.T) {
	rules := []CategoryRule{
		{Name: "alpha", Keywords: []string{"shared"}, PrimaryLayer: "layer_a", SecondaryLayer: "layer_b"},
		{Name: "beta", Keywords: []string{"shared"}, PrimaryLayer: "layer_b", SecondaryLayer: "layer_a"},
	}
	c := NewClassifier(rules, "layer_a", "layer_b")

	res := c.Classify("shared term")

	assert.Equal(t, "alpha", res.Category)
	assert.Equal(t, "layer_a", res.PrimaryLayer)
}

func TestClassifyDeterministic(t *testing.T) {
	c := NewDefaultClassifier()
	query := "founder of a startup with fund backing and research output"

	first := c.Classify(query)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, c.Classify(query))
	}
}

func TestScoreCategoriesCountsOccurrences(t *testing.T) {
	c := NewDefaultClassifier()

	scores := c.ScoreCategories("founder founder startup")

	assert.Equal(t, 3, scores["founder"])
	assert.Equal(t, 0, scores["fund"])
}

func TestConfidenceShortDenseQueryHitsCeiling(t *testing.T) {
	c := NewDefaultClassifier()

	res := c.Classify("founder startup ceo")

	assert.Equal(t, 1.0, res.Confidence)
}
