package layers

// Layer identifiers for the three data partitions.
const (
	LayerFounderIntel    = "founder_intel"
	LayerFundOps         = "fund_ops"
	LayerResearchLibrary = "research_library"
)

// Descriptor describes one data partition. Descriptors are defined at
// process start and never mutated afterwards.
type Descriptor struct {
	ID               string   `json:"id"`
	DisplayName      string   `json:"display_name"`
	ServedCategories []string `json:"served_categories"`
	// Priority is used for tie-breaking when ranking merged results.
	// Lower value = higher priority.
	Priority int `json:"priority"`
}

// Registry holds the static set of layer descriptors.
type Registry struct {
	descriptors []Descriptor
	byID        map[string]Descriptor
}

// NewRegistry builds a registry from the given descriptors.
// Declaration order is preserved for listing.
func NewRegistry(descriptors []Descriptor) *Registry {
	byID := make(map[string]Descriptor, len(descriptors))
	for _, d := range descriptors {
		byID[d.ID] = d
	}
	return &Registry{
		descriptors: descriptors,
		byID:        byID,
	}
}

// DefaultRegistry returns the standard three-partition setup:
// founder/startup intelligence, fund operations, and the academic
// research library.
func DefaultRegistry() *Registry {
	return NewRegistry([]Descriptor{
		{
			ID:               LayerFounderIntel,
			DisplayName:      "Founder & Startup Intelligence",
			ServedCategories: []string{"founder", "startup"},
			Priority:         1,
		},
		{
			ID:               LayerFundOps,
			DisplayName:      "Fund Operations",
			ServedCategories: []string{"fund", "portfolio"},
			Priority:         2,
		},
		{
			ID:               LayerResearchLibrary,
			DisplayName:      "Academic Research Library",
			ServedCategories: []string{"research"},
			Priority:         3,
		},
	})
}

// Get returns the descriptor for a layer id.
func (r *Registry) Get(id string) (Descriptor, bool) {
	d, ok := r.byID[id]
	return d, ok
}

// All returns descriptors in declaration order.
func (r *Registry) All() []Descriptor {
	out := make([]Descriptor, len(r.descriptors))
	copy(out, r.descriptors)
	return out
}

// Priority returns the tie-break priority for a layer id, or 0 when the
// layer is unknown.
func (r *Registry) Priority(id string) int {
	if d, ok := r.byID[id]; ok {
		return d.Priority
	}
	return 0
}
