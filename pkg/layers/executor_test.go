package layers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryLayerSuccess(t *testing.T) {
	exec := NewExecutor(map[string]Lookup{
		LayerFounderIntel: LookupFunc(func(ctx context.Context, query string) ([]Record, error) {
			return []Record{{ID: "r1", Title: "Jane Doe", Confidence: 0.8}}, nil
		}),
	})

	res := exec.QueryLayer(context.Background(), LayerFounderIntel, "founder background")

	assert.Empty(t, res.Error)
	assert.Equal(t, LayerFounderIntel, res.LayerID)
	assert.Len(t, res.Records, 1)
}

func TestQueryLayerUnknownLayer(t *testing.T) {
	exec := NewExecutor(map[string]Lookup{})

	res := exec.QueryLayer(context.Background(), "no_such_layer", "anything")

	assert.Empty(t, res.Records)
	assert.Contains(t, res.Error, "unknown layer")
}

func TestQueryLayerCollaboratorErrorIsCaptured(t *testing.T) {
	exec := NewExecutor(map[string]Lookup{
		LayerFundOps: LookupFunc(func(ctx context.Context, query string) ([]Record, error) {
			return nil, errors.New("store unreachable")
		}),
	})

	res := exec.QueryLayer(context.Background(), LayerFundOps, "portfolio")

	assert.Empty(t, res.Records)
	assert.Equal(t, "store unreachable", res.Error)
}

func TestQueryLayerCollaboratorPanicIsCaptured(t *testing.T) {
	exec := NewExecutor(map[string]Lookup{
		LayerResearchLibrary: LookupFunc(func(ctx context.Context, query string) ([]Record, error) {
			panic("index corrupted")
		}),
	})

	assert.NotPanics(t, func() {
		res := exec.QueryLayer(context.Background(), LayerResearchLibrary, "paper")
		assert.Empty(t, res.Records)
		assert.Contains(t, res.Error, "index corrupted")
	})
}
