package layers

import "strings"

// CategoryRule maps one query category to its keyword list and the
// layer pair consulted when that category wins. Rules are evaluated in
// declaration order, and on a tied score the first-declared category
// wins, so classification is deterministic for a fixed rule set.
type CategoryRule struct {
	Name           string
	Keywords       []string
	PrimaryLayer   string
	SecondaryLayer string
}

// Classification is the outcome of routing one query.
type Classification struct {
	PrimaryLayer   string         `json:"primary_layer"`
	SecondaryLayer string         `json:"secondary_layer"`
	Confidence     float64        `json:"confidence"`
	Category       string         `json:"category"`
	CategoryScores map[string]int `json:"category_scores"`
	// Fallback is true when no keyword matched and the default layer
	// pair was used. This is informational, not an error.
	Fallback bool `json:"fallback"`
}

// Classifier scores queries against keyword categories and picks the
// layer pair to consult. It is a deterministic heuristic: same query +
// same rules = same result.
type Classifier struct {
	rules            []CategoryRule
	defaultPrimary   string
	defaultSecondary string
}

// NewClassifier builds a classifier. The default pair is used whenever
// no category keyword occurs in the query.
func NewClassifier(rules []CategoryRule, defaultPrimary, defaultSecondary string) *Classifier {
	return &Classifier{
		rules:            rules,
		defaultPrimary:   defaultPrimary,
		defaultSecondary: defaultSecondary,
	}
}

// DefaultRules returns the standard category table for the three-layer
// setup.
func DefaultRules() []CategoryRule {
	return []CategoryRule{
		{
			Name:           "founder",
			Keywords:       []string{"founder", "startup", "entrepreneur", "founding", "ceo", "background", "track record"},
			PrimaryLayer:   LayerFounderIntel,
			SecondaryLayer: LayerFundOps,
		},
		{
			Name:           "fund",
			Keywords:       []string{"fund", "portfolio", "investment", "investor", "deal", "valuation", "lp", "term sheet"},
			PrimaryLayer:   LayerFundOps,
			SecondaryLayer: LayerFounderIntel,
		},
		{
			Name:           "research",
			Keywords:       []string{"research", "paper", "academic", "study", "publication", "methodology", "benchmark"},
			PrimaryLayer:   LayerResearchLibrary,
			SecondaryLayer: LayerFounderIntel,
		},
	}
}

// NewDefaultClassifier wires DefaultRules with the founder layer as the
// baseline pair.
func NewDefaultClassifier() *Classifier {
	return NewClassifier(DefaultRules(), LayerFounderIntel, LayerResearchLibrary)
}

// ScoreCategories counts case-insensitive keyword occurrences per
// category. Pure function: no selection logic here.
func (c *Classifier) ScoreCategories(query string) map[string]int {
	lowered := strings.ToLower(query)
	scores := make(map[string]int, len(c.rules))
	for _, rule := range c.rules {
		count := 0
		for _, kw := range rule.Keywords {
			count += strings.Count(lowered, kw)
		}
		scores[rule.Name] = count
	}
	return scores
}

// SelectLayers maps scores onto a layer pair. Pure function: rules are
// walked in declaration order and the highest count wins, so the first
// declared rule takes a tie.
func (c *Classifier) SelectLayers(scores map[string]int) (rule *CategoryRule, best int) {
	for i := range c.rules {
		if scores[c.rules[i].Name] > best {
			best = scores[c.rules[i].Name]
			rule = &c.rules[i]
		}
	}
	return rule, best
}

// Classify never fails: when no keyword matches it falls back to the
// configured default pair with zero confidence.
func (c *Classifier) Classify(query string) Classification {
	scores := c.ScoreCategories(query)
	rule, best := c.SelectLayers(scores)

	if rule == nil || best == 0 {
		return Classification{
			PrimaryLayer:   c.defaultPrimary,
			SecondaryLayer: c.defaultSecondary,
			Confidence:     0,
			Category:       "",
			CategoryScores: scores,
			Fallback:       true,
		}
	}

	return Classification{
		PrimaryLayer:   rule.PrimaryLayer,
		SecondaryLayer: rule.SecondaryLayer,
		Confidence:     confidence(best, query),
		Category:       rule.Name,
		CategoryScores: scores,
	}
}

// confidence normalizes the winning keyword count by a length-derived
// denominator so short, keyword-dense queries score higher than long
// rambling ones. Clamped to [0, 1].
func confidence(count int, query string) float64 {
	words := len(strings.Fields(query))
	denom := float64(words) / 4.0
	if denom < 1 {
		denom = 1
	}
	conf := float64(count) / denom
	if conf > 1 {
		conf = 1
	}
	return conf
}
