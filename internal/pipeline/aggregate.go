package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/davidkellner/molscope/internal/chem"
	"github.com/davidkellner/molscope/internal/metrics"
	"github.com/davidkellner/molscope/internal/sources"
)

// Aggregator runs the three secondary lookups concurrently. Each slot fills
// independently: a failed or absent lookup leaves its slot nil and never
// disturbs the others.
type Aggregator struct {
	sources *sources.Set
	metrics *metrics.Collector
	logger  *slog.Logger
}

// NewAggregator creates an aggregator over the given source set.
func NewAggregator(set *sources.Set, collector *metrics.Collector, logger *slog.Logger) *Aggregator {
	return &Aggregator{sources: set, metrics: collector, logger: logger}
}

// Gather fans out to bioactivity, properties, and mechanism and waits for
// all three. It never returns an error: missing data is represented by nil
// slots in the aggregate.
func (a *Aggregator) Gather(ctx context.Context, structure *chem.StructureRecord) chem.Aggregate {
	var agg chem.Aggregate
	var wg sync.WaitGroup

	// Bioactivity databases key on names; fall back to the canonical SMILES
	// for compounds the structure source couldn't name.
	bioKey := structure.Name
	if bioKey == "" {
		bioKey = structure.CanonicalSMILES
	}

	wg.Add(3)

	go func() {
		defer wg.Done()
		start := time.Now()
		record, err := a.sources.Bioactivity.LookupByName(ctx, bioKey)
		if err != nil {
			a.metrics.RecordFailure(metrics.OpBioactivity)
			a.logger.Info("bioactivity unavailable", "key", bioKey, "error", err)
			return
		}
		a.metrics.RecordTiming(metrics.OpBioactivity, time.Since(start))
		agg.Bioactivity = record
	}()

	go func() {
		defer wg.Done()
		start := time.Now()
		prediction, err := a.sources.Properties.Predict(ctx, structure.CanonicalSMILES)
		if err != nil {
			a.metrics.RecordFailure(metrics.OpProperties)
			a.logger.Info("property prediction unavailable", "smiles", structure.CanonicalSMILES, "error", err)
			return
		}
		a.metrics.RecordTiming(metrics.OpProperties, time.Since(start))
		agg.Properties = prediction
	}()

	go func() {
		defer wg.Done()
		start := time.Now()
		prediction, err := a.sources.Mechanism.Predict(ctx, structure.CanonicalSMILES)
		if err != nil {
			a.metrics.RecordFailure(metrics.OpMechanism)
			a.logger.Info("mechanism prediction unavailable", "smiles", structure.CanonicalSMILES, "error", err)
			return
		}
		a.metrics.RecordTiming(metrics.OpMechanism, time.Since(start))
		agg.Mechanism = prediction
	}()

	wg.Wait()

	a.logger.Debug("aggregation complete",
		"cid", structure.CID,
		"bioactivity", agg.Bioactivity != nil,
		"properties", agg.Properties != nil,
		"mechanism", agg.Mechanism != nil)
	return agg
}
