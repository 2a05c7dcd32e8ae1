// Package pipeline orchestrates one molecule analysis run: input validation,
// structure resolution, concurrent secondary lookups, and narrative
// synthesis.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/davidkellner/molscope/internal/chem"
	"github.com/davidkellner/molscope/internal/metrics"
	"github.com/davidkellner/molscope/internal/sources"
)

// Synthesizer produces the final narrative from the query and the collected
// data, reporting the model's token usage alongside. The synthesis agent
// implements this.
type Synthesizer interface {
	Synthesize(ctx context.Context, query chem.AnalysisQuery, structure *chem.StructureRecord, agg chem.Aggregate) (string, metrics.TokenUsage, error)
}

// Pipeline wires the stages of an analysis run together.
type Pipeline struct {
	resolver   *Resolver
	aggregator *Aggregator
	synth      Synthesizer
	tracker    *Tracker
	metrics    *metrics.Collector
	logger     *slog.Logger
}

// New creates a pipeline over the given sources and synthesizer.
func New(set *sources.Set, synth Synthesizer, collector *metrics.Collector, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		resolver:   NewResolver(set.Structure, collector, logger),
		aggregator: NewAggregator(set, collector, logger),
		synth:      synth,
		tracker:    NewTracker(logger),
		metrics:    collector,
		logger:     logger,
	}
}

// Tracker exposes the run state for UIs that want to display progress.
func (p *Pipeline) Tracker() *Tracker {
	return p.tracker
}

// Metrics exposes the collector for stats reporting.
func (p *Pipeline) Metrics() *metrics.Collector {
	return p.metrics
}

// Analyze runs the full pipeline for one query.
//
// Failures before resolution return a nil result. A synthesis failure is
// special: the resolved structure and aggregate survived, so both the
// partial result and the error are returned.
func (p *Pipeline) Analyze(ctx context.Context, query chem.AnalysisQuery) (*chem.AnalysisResult, error) {
	// Reject bad input before touching the tracker or any source.
	if err := query.Validate(); err != nil {
		return nil, stageErr(StageInput, HintNone, err)
	}

	runID, generation, err := p.tracker.Begin()
	if err != nil {
		return nil, stageErr(StageInput, HintNone, err)
	}
	logger := p.logger.With("run_id", runID)

	structure, err := p.resolver.Resolve(ctx, query.SMILES)
	if err != nil {
		p.tracker.Advance(generation, StateFailed, failDetail(err))
		return nil, err
	}
	p.tracker.Advance(generation, StateAnalyzing, structure.Name)

	result, err := chem.NewAnalysisResult(structure)
	if err != nil {
		// Resolve already validated the record; this is a programming error.
		p.tracker.Advance(generation, StateFailed, err.Error())
		return nil, stageErr(StageResolution, HintNone, err)
	}
	result.Aggregate = p.aggregator.Gather(ctx, structure)

	start := time.Now()
	narrative, usage, err := p.synth.Synthesize(ctx, query, structure, result.Aggregate)
	if err != nil {
		p.metrics.RecordFailure(metrics.OpSynthesis)
		p.tracker.Advance(generation, StateFailed, failDetail(err))
		logger.Warn("synthesis failed, returning collected data", "error", err)
		return result, stageErr(StageSynthesis, HintNone, err)
	}
	if strings.TrimSpace(narrative) == "" {
		p.metrics.RecordFailure(metrics.OpSynthesis)
		p.tracker.Advance(generation, StateFailed, ErrNoNarrative.Error())
		return result, stageErr(StageSynthesis, HintNone, ErrNoNarrative)
	}
	p.metrics.RecordLLMUsage(metrics.OpSynthesis, time.Since(start), usage.InputTokens, usage.OutputTokens)

	result.Narrative = narrative
	p.tracker.Advance(generation, StateDone, structure.Name)
	logger.Info("analysis complete",
		"cid", structure.CID,
		"bioactivity", result.Aggregate.Bioactivity != nil,
		"properties", result.Aggregate.Properties != nil,
		"mechanism", result.Aggregate.Mechanism != nil,
		"narrative_len", len(narrative))
	return result, nil
}

// Resolve runs only the structure resolution stage. Used by the standalone
// resolve command and tool.
func (p *Pipeline) Resolve(ctx context.Context, smiles string) (*chem.StructureRecord, error) {
	if strings.TrimSpace(smiles) == "" {
		return nil, stageErr(StageInput, HintNone, ErrInputInvalid)
	}
	return p.resolver.Resolve(ctx, smiles)
}

// Sources exposes the underlying source set for tool handlers that perform
// single lookups outside a full run.
func (p *Pipeline) Sources() *sources.Set {
	return p.aggregator.sources
}

func failDetail(err error) string {
	var se *StageError
	if errors.As(err, &se) {
		return se.UserMessage()
	}
	return err.Error()
}
