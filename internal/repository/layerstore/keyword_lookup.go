package layerstore

import (
	"context"
	"strings"

	"vc-intel-be/internal/model"
	"vc-intel-be/pkg/layers"

	"gorm.io/gorm"
)

// KeywordLookup serves layers whose documents are matched by plain
// term occurrence rather than embeddings (fund operations data is
// short, structured text where ILIKE beats vectors).
type KeywordLookup struct {
	db      *gorm.DB
	layerID string
	limit   int
}

func NewKeywordLookup(db *gorm.DB, layerID string) *KeywordLookup {
	return &KeywordLookup{
		db:      db,
		layerID: layerID,
		limit:   defaultTopK,
	}
}

// Lookup matches documents containing any query term in title or
// content. Confidence is the fraction of query terms present in the
// document text.
func (l *KeywordLookup) Lookup(ctx context.Context, query string) ([]layers.Record, error) {
	terms := significantTerms(query)
	if len(terms) == 0 {
		return nil, nil
	}

	db := l.db.WithContext(ctx).
		Where("layer_id = ?", l.layerID)

	clause := db
	for i, term := range terms {
		pattern := "%" + term + "%"
		if i == 0 {
			clause = clause.Where("title ILIKE ? OR content ILIKE ?", pattern, pattern)
		} else {
			clause = clause.Or("title ILIKE ? OR content ILIKE ?", pattern, pattern)
		}
	}

	var docs []model.LayerDocument
	if err := clause.Limit(l.limit).Find(&docs).Error; err != nil {
		return nil, err
	}

	records := make([]layers.Record, 0, len(docs))
	for _, doc := range docs {
		records = append(records, toRecord(doc, termCoverage(doc, terms)))
	}
	return records, nil
}

// significantTerms drops words too short to be meaningful match
// targets.
func significantTerms(query string) []string {
	var terms []string
	for _, w := range strings.Fields(strings.ToLower(query)) {
		if len(w) >= 3 {
			terms = append(terms, w)
		}
	}
	return terms
}

func termCoverage(doc model.LayerDocument, terms []string) float64 {
	text := strings.ToLower(doc.Title + " " + doc.Content)
	hit := 0
	for _, term := range terms {
		if strings.Contains(text, term) {
			hit++
		}
	}
	return float64(hit) / float64(len(terms))
}
