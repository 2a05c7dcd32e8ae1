package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/davidkellner/molscope/internal/chem"
	"github.com/davidkellner/molscope/internal/metrics"
	"github.com/davidkellner/molscope/internal/sources"
)

// Resolver turns a raw SMILES string into a validated StructureRecord.
// Resolution is a pure lookup: resolving the same input twice yields the
// same record and leaves no state behind.
type Resolver struct {
	source  sources.StructureSource
	metrics *metrics.Collector
	logger  *slog.Logger
}

// NewResolver creates a resolver over the given structure source.
func NewResolver(source sources.StructureSource, collector *metrics.Collector, logger *slog.Logger) *Resolver {
	return &Resolver{source: source, metrics: collector, logger: logger}
}

// Resolve performs the two-stage lookup: SMILES to identifier, then
// identifier to full record. Both stages must succeed and the record must
// validate; anything else is a resolution failure.
func (r *Resolver) Resolve(ctx context.Context, smiles string) (*chem.StructureRecord, error) {
	smiles = strings.TrimSpace(smiles)
	start := time.Now()

	cid, err := r.source.ResolveIdentifier(ctx, smiles)
	if err != nil {
		r.metrics.RecordFailure(metrics.OpResolve)
		if errors.Is(err, sources.ErrNotFound) {
			hint := HintNotFoundUpstream
			if chem.LooksLikeFormula(smiles) {
				hint = HintLooksLikeFormula
			}
			return nil, stageErr(StageResolution, hint, fmt.Errorf("%w: %q", ErrNotRecognized, smiles))
		}
		return nil, stageErr(StageResolution, HintNone, err)
	}

	record, err := r.source.FetchProperties(ctx, cid)
	if err != nil {
		r.metrics.RecordFailure(metrics.OpResolve)
		if errors.Is(err, sources.ErrNotFound) {
			return nil, stageErr(StageResolution, HintNone, fmt.Errorf("%w: cid %d", ErrIncompleteRecord, cid))
		}
		return nil, stageErr(StageResolution, HintNone, err)
	}

	if err := record.Validate(); err != nil {
		r.metrics.RecordFailure(metrics.OpResolve)
		return nil, stageErr(StageResolution, HintNone, fmt.Errorf("%w: %v", ErrIncompleteRecord, err))
	}

	r.metrics.RecordTiming(metrics.OpResolve, time.Since(start))
	r.logger.Info("structure resolved",
		"smiles", smiles, "cid", record.CID, "name", record.Name, "formula", record.MolecularFormula)
	return record, nil
}
