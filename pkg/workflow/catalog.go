package workflow

// Workflow identifiers known to the catalog.
const (
	WorkflowFounderSignal  = "founder_signal"
	WorkflowDueDiligence   = "due_diligence"
	WorkflowMarketMapping  = "market_mapping"
	WorkflowCompetitorScan = "competitor_scan"
)

// Definition describes one triggerable workflow. Definitions are
// immutable after process start.
type Definition struct {
	ID                      string `json:"id"`
	DisplayName             string `json:"display_name"`
	ExpectedDurationSeconds int    `json:"expected_duration_seconds"`
	// ExternalTriggerRef is the path/identifier the engine client uses
	// to start this workflow on the external engine.
	ExternalTriggerRef string `json:"-"`
}

// Catalog is the static map from workflow id to definition.
type Catalog struct {
	definitions []Definition
	byID        map[string]Definition
}

// NewCatalog builds a catalog preserving declaration order for listing.
func NewCatalog(definitions []Definition) *Catalog {
	byID := make(map[string]Definition, len(definitions))
	for _, d := range definitions {
		byID[d.ID] = d
	}
	return &Catalog{definitions: definitions, byID: byID}
}

// DefaultCatalog returns the standard workflow set.
func DefaultCatalog() *Catalog {
	return NewCatalog([]Definition{
		{
			ID:                      WorkflowFounderSignal,
			DisplayName:             "Founder Signal Research",
			ExpectedDurationSeconds: 180,
			ExternalTriggerRef:      "/workflows/founder-signal/run",
		},
		{
			ID:                      WorkflowDueDiligence,
			DisplayName:             "Due Diligence",
			ExpectedDurationSeconds: 300,
			ExternalTriggerRef:      "/workflows/due-diligence/run",
		},
		{
			ID:                      WorkflowMarketMapping,
			DisplayName:             "Market Mapping",
			ExpectedDurationSeconds: 240,
			ExternalTriggerRef:      "/workflows/market-mapping/run",
		},
		{
			ID:                      WorkflowCompetitorScan,
			DisplayName:             "Competitor Scan",
			ExpectedDurationSeconds: 120,
			ExternalTriggerRef:      "/workflows/competitor-scan/run",
		},
	})
}

// Get returns the definition for a workflow id.
func (c *Catalog) Get(id string) (Definition, bool) {
	d, ok := c.byID[id]
	return d, ok
}

// All returns definitions in declaration order.
func (c *Catalog) All() []Definition {
	out := make([]Definition, len(c.definitions))
	copy(out, c.definitions)
	return out
}
