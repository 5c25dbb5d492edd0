package dto

import "vc-intel-be/pkg/layers"

type MultiLayerQueryRequest struct {
	Query string `json:"query" validate:"required,min=2"`
}

// LayerOutcome reports what happened on one consulted layer; a
// populated error means the layer degraded, not that the query failed.
type LayerOutcome struct {
	LayerID     string `json:"layer_id"`
	DisplayName string `json:"display_name,omitempty"`
	RecordCount int    `json:"record_count"`
	Error       string `json:"error,omitempty"`
}

type MultiLayerQueryResponse struct {
	Results         []layers.Record       `json:"results"`
	Classification  layers.Classification `json:"classification"`
	ConsultedLayers []LayerOutcome        `json:"consulted_layers"`
	Recommendation  string                `json:"recommendation,omitempty"`
}
