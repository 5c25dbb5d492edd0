package layers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()

	all := r.All()
	require.Len(t, all, 3)
	assert.Equal(t, LayerFounderIntel, all[0].ID)
	assert.Equal(t, LayerFundOps, all[1].ID)
	assert.Equal(t, LayerResearchLibrary, all[2].ID)

	d, ok := r.Get(LayerFundOps)
	require.True(t, ok)
	assert.Equal(t, "Fund Operations", d.DisplayName)
	assert.Equal(t, 2, d.Priority)

	_, ok = r.Get("deal_flow")
	assert.False(t, ok)
}

func TestRegistryPriority(t *testing.T) {
	r := DefaultRegistry()
	assert.Equal(t, 1, r.Priority(LayerFounderIntel))
	assert.Equal(t, 3, r.Priority(LayerResearchLibrary))
	assert.Equal(t, 0, r.Priority("unknown"))
}
