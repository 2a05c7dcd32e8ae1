// Package sources provides the external source adapters: structure lookup,
// bioactivity lookup, property prediction, and mechanism prediction.
//
// Every adapter normalizes its upstream (or its fixtures) into the chem data
// model or reports ErrNotFound. "Not found", non-2xx responses, malformed
// payloads, and transport failures all fold into ErrNotFound from the
// caller's point of view; diagnostic detail goes to the logger only.
package sources

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/davidkellner/molscope/internal/chem"
	"github.com/davidkellner/molscope/internal/config"
)

// ErrNotFound is the single "did not get valid data" outcome of any adapter.
// Match with errors.Is.
var ErrNotFound = errors.New("not found")

// StructureSource resolves a SMILES string to a canonical structure record
// in two steps: identifier resolution, then property fetch.
type StructureSource interface {
	// ResolveIdentifier maps a SMILES string to the source's compound ID.
	ResolveIdentifier(ctx context.Context, smiles string) (int, error)

	// FetchProperties retrieves the structure record for a compound ID.
	FetchProperties(ctx context.Context, cid int) (*chem.StructureRecord, error)
}

// BioactivitySource looks up clinical/biological activity metadata by name.
type BioactivitySource interface {
	LookupByName(ctx context.Context, name string) (*chem.BioactivityRecord, error)
}

// PropertySource predicts physicochemical properties for a SMILES string.
type PropertySource interface {
	Predict(ctx context.Context, smiles string) (*chem.PropertyPrediction, error)
}

// MechanismSource predicts a molecule's mechanism of action.
type MechanismSource interface {
	Predict(ctx context.Context, smiles string) (*chem.MechanismPrediction, error)
}

// TextGenerator is the slice of the LLM wrapper the mechanism adapter needs.
type TextGenerator interface {
	GenerateWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Set bundles one adapter per external capability.
type Set struct {
	Structure   StructureSource
	Bioactivity BioactivitySource
	Properties  PropertySource
	Mechanism   MechanismSource
}

// New builds the adapter set for the configured mode. Mock and live adapters
// share identical contracts, so callers never branch on the mode again.
// gen may be nil in mock mode; live mode requires it for mechanism prediction.
func New(cfg config.Config, gen TextGenerator, logger *slog.Logger) (*Set, error) {
	switch cfg.SourceMode {
	case config.SourceMock, "":
		fixtures, err := LoadFixtures(cfg.FixturesFile)
		if err != nil {
			return nil, fmt.Errorf("load fixtures: %w", err)
		}
		return &Set{
			Structure:   NewMockStructureSource(fixtures, logger),
			Bioactivity: NewMockBioactivitySource(fixtures, logger),
			Properties:  NewMockPropertySource(fixtures, logger),
			Mechanism:   NewMockMechanismSource(fixtures, logger),
		}, nil

	case config.SourceLive:
		if gen == nil {
			return nil, fmt.Errorf("live mode requires an LLM for mechanism prediction")
		}
		return &Set{
			Structure:   NewPubChemClient(cfg.PubChemBaseURL, cfg.PubChemDelay, logger),
			Bioactivity: NewChEMBLClient(cfg.ChEMBLBaseURL, logger),
			Properties:  NewPredictorClient(cfg.PredictorURL, logger),
			Mechanism:   NewLLMMechanismSource(gen, logger),
		}, nil

	default:
		return nil, fmt.Errorf("unknown source mode: %s", cfg.SourceMode)
	}
}

// notFound logs the diagnostic detail and returns a wrapped ErrNotFound.
// This is the only channel through which upstream failure detail leaves an
// adapter; callers see ErrNotFound and nothing else.
func notFound(logger *slog.Logger, msg string, args ...any) error {
	if logger != nil {
		logger.Debug(msg, args...)
	}
	return fmt.Errorf("%s: %w", msg, ErrNotFound)
}
