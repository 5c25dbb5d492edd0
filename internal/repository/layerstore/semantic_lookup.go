package layerstore

import (
	"context"
	"encoding/json"
	"fmt"

	"vc-intel-be/internal/model"
	"vc-intel-be/pkg/embedding"
	"vc-intel-be/pkg/layers"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

const (
	defaultTopK      = 10
	defaultThreshold = 0.35
)

// SemanticLookup serves a layer's queries by pgvector cosine
// similarity over layer_documents. One instance is bound per
// vector-backed layer and registered as that layer's lookup
// collaborator.
type SemanticLookup struct {
	db        *gorm.DB
	provider  embedding.Provider
	layerID   string
	topK      int
	threshold float64
}

func NewSemanticLookup(db *gorm.DB, provider embedding.Provider, layerID string) *SemanticLookup {
	return &SemanticLookup{
		db:        db,
		provider:  provider,
		layerID:   layerID,
		topK:      defaultTopK,
		threshold: defaultThreshold,
	}
}

// Lookup embeds the query and returns the closest documents of this
// layer, normalized into the common record shape with the cosine
// similarity as confidence.
func (l *SemanticLookup) Lookup(ctx context.Context, query string) ([]layers.Record, error) {
	vector, err := l.provider.Generate(query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}

	// Cosine distance in pgvector is 1 - cosine_similarity, so
	// 1 - (embedding <=> query_vector) gives the similarity.
	type row struct {
		model.LayerDocument
		Similarity float64
	}
	var rows []row

	queryVector := pgvector.NewVector(vector)

	err = l.db.WithContext(ctx).
		Table("layer_documents").
		Select("layer_documents.*, 1 - (embedding <=> ?) as similarity", queryVector).
		Where("layer_id = ?", l.layerID).
		Where("1 - (embedding <=> ?) >= ?", queryVector, l.threshold).
		Order("similarity DESC").
		Limit(l.topK).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	records := make([]layers.Record, 0, len(rows))
	for _, r := range rows {
		records = append(records, toRecord(r.LayerDocument, r.Similarity))
	}
	return records, nil
}

func toRecord(doc model.LayerDocument, confidence float64) layers.Record {
	var metadata map[string]interface{}
	if len(doc.Metadata) > 0 {
		// Metadata is stored as jsonb; a decode failure just means no
		// metadata on the record.
		_ = json.Unmarshal(doc.Metadata, &metadata)
	}
	return layers.Record{
		ID:         doc.Id.String(),
		Title:      doc.Title,
		Content:    doc.Content,
		SourceTag:  doc.SourceTag,
		Confidence: confidence,
		Metadata:   metadata,
	}
}
