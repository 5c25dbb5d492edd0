package layers

import (
	"context"
	"fmt"
)

// Record is the common shape every layer's lookup results are
// normalized into before merging.
type Record struct {
	ID         string                 `json:"id"`
	Title      string                 `json:"title"`
	Content    string                 `json:"content"`
	SourceTag  string                 `json:"source_tag"`
	Confidence float64                `json:"confidence"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	// Annotated by the merger before ranking.
	LayerPriority int     `json:"layer_priority,omitempty"`
	CombinedScore float64 `json:"combined_score,omitempty"`
}

// Result is the outcome of querying one layer. A failed lookup yields
// an empty record list with Error populated, never a Go error to the
// caller.
type Result struct {
	LayerID string   `json:"layer_id"`
	Records []Record `json:"records"`
	Error   string   `json:"error,omitempty"`
}

// Lookup is the collaborator each layer registers. The store behind it
// (vector search, relational query, external API) is not this
// package's concern.
type Lookup interface {
	Lookup(ctx context.Context, query string) ([]Record, error)
}

// LookupFunc adapts a plain function to the Lookup interface.
type LookupFunc func(ctx context.Context, query string) ([]Record, error)

func (f LookupFunc) Lookup(ctx context.Context, query string) ([]Record, error) {
	return f(ctx, query)
}

// Executor dispatches a query to the lookup registered for a layer id.
type Executor struct {
	lookups map[string]Lookup
}

// NewExecutor creates an executor over the given lookup table.
func NewExecutor(lookups map[string]Lookup) *Executor {
	return &Executor{lookups: lookups}
}

// QueryLayer runs one layer's lookup. Collaborator failures (error
// returns and panics alike) are captured in Result.Error so a degraded
// answer can still be assembled upstream.
func (e *Executor) QueryLayer(ctx context.Context, layerID, query string) (result Result) {
	result = Result{LayerID: layerID}

	lookup, ok := e.lookups[layerID]
	if !ok {
		result.Error = fmt.Sprintf("unknown layer: %s", layerID)
		return result
	}

	defer func() {
		if r := recover(); r != nil {
			result.Records = nil
			result.Error = fmt.Sprintf("layer %s lookup panicked: %v", layerID, r)
		}
	}()

	records, err := lookup.Lookup(ctx, query)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.Records = records
	return result
}
