package service

import (
	"context"
	"sync"

	"vc-intel-be/internal/dto"
	"vc-intel-be/internal/pkg/logger"
	"vc-intel-be/pkg/layers"
)

type IQueryService interface {
	ListLayers() []layers.Descriptor
	Query(ctx context.Context, req dto.MultiLayerQueryRequest) (*dto.MultiLayerQueryResponse, error)
}

// queryService classifies a question, consults the chosen layers and
// assembles a ranked answer. Layer failures degrade the answer instead
// of failing the request, so Query only errors on infrastructure-level
// problems (currently never).
type queryService struct {
	classifier *layers.Classifier
	executor   *layers.Executor
	registry   *layers.Registry
	mergeCfg   layers.MergeConfig
	logger     logger.ILogger
}

func NewQueryService(classifier *layers.Classifier, executor *layers.Executor, registry *layers.Registry, mergeCfg layers.MergeConfig, log logger.ILogger) IQueryService {
	return &queryService{
		classifier: classifier,
		executor:   executor,
		registry:   registry,
		mergeCfg:   mergeCfg,
		logger:     log,
	}
}

// ListLayers exposes the registry descriptors in declaration order.
func (qs *queryService) ListLayers() []layers.Descriptor {
	return qs.registry.All()
}

func (qs *queryService) Query(ctx context.Context, req dto.MultiLayerQueryRequest) (*dto.MultiLayerQueryResponse, error) {
	classification := qs.classifier.Classify(req.Query)

	// Both layers are queried speculatively in parallel; whether the
	// secondary's records make it into the answer is decided by the
	// merge policy once the primary's record count is known.
	var (
		wg        sync.WaitGroup
		primary   layers.Result
		secondary layers.Result
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		primary = qs.executor.QueryLayer(ctx, classification.PrimaryLayer, req.Query)
	}()
	go func() {
		defer wg.Done()
		secondary = qs.executor.QueryLayer(ctx, classification.SecondaryLayer, req.Query)
	}()
	wg.Wait()

	if primary.Error != "" {
		qs.logger.Warn("QueryService", "Primary layer degraded", map[string]interface{}{
			"layer": classification.PrimaryLayer, "error": primary.Error,
		})
	}
	if secondary.Error != "" {
		qs.logger.Warn("QueryService", "Secondary layer degraded", map[string]interface{}{
			"layer": classification.SecondaryLayer, "error": secondary.Error,
		})
	}

	merged := layers.Merge(primary, &secondary, qs.mergeCfg)

	consulted := []dto.LayerOutcome{qs.outcome(primary)}
	if len(primary.Records) < qs.mergeCfg.FallbackThreshold {
		consulted = append(consulted, qs.outcome(secondary))
	}

	resp := &dto.MultiLayerQueryResponse{
		Results:         merged,
		Classification:  classification,
		ConsultedLayers: consulted,
	}
	if len(merged) == 0 {
		resp.Recommendation = "No matching records were found. Try rephrasing the question or broadening its terms."
	}
	return resp, nil
}

func (qs *queryService) outcome(result layers.Result) dto.LayerOutcome {
	out := dto.LayerOutcome{
		LayerID:     result.LayerID,
		RecordCount: len(result.Records),
		Error:       result.Error,
	}
	if d, ok := qs.registry.Get(result.LayerID); ok {
		out.DisplayName = d.DisplayName
	}
	return out
}
