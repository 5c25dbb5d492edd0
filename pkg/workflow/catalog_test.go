package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	catalog := DefaultCatalog()

	all := catalog.All()
	require.Len(t, all, 4)
	assert.Equal(t, WorkflowFounderSignal, all[0].ID)
	assert.Equal(t, WorkflowDueDiligence, all[1].ID)
	assert.Equal(t, WorkflowMarketMapping, all[2].ID)
	assert.Equal(t, WorkflowCompetitorScan, all[3].ID)

	dd, ok := catalog.Get(WorkflowDueDiligence)
	require.True(t, ok)
	assert.Equal(t, 300, dd.ExpectedDurationSeconds)
	assert.NotEmpty(t, dd.ExternalTriggerRef)

	_, ok = catalog.Get("portfolio_rebalance")
	assert.False(t, ok)
}

func TestCatalogAllReturnsCopy(t *testing.T) {
	catalog := DefaultCatalog()
	all := catalog.All()
	all[0].DisplayName = "mutated"

	fresh := catalog.All()
	assert.NotEqual(t, "mutated", fresh[0].DisplayName)
}
