package sources

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/davidkellner/molscope/internal/chem"
)

// LLMMechanismSource implements MechanismSource by prompting the configured
// language model. It is still an adapter: the orchestration sees the same
// Record-or-NotFound contract as for every other source.
type LLMMechanismSource struct {
	gen    TextGenerator
	logger *slog.Logger
}

// Compile-time check that LLMMechanismSource implements MechanismSource.
var _ MechanismSource = (*LLMMechanismSource)(nil)

// NewLLMMechanismSource creates an LLM-backed mechanism predictor.
func NewLLMMechanismSource(gen TextGenerator, logger *slog.Logger) *LLMMechanismSource {
	return &LLMMechanismSource{gen: gen, logger: logger}
}

const mechanismSystemPrompt = `You are a pharmacology assistant. Given a molecule's SMILES string,
predict its most likely biological mechanism of action or primary purpose.

Output format (single line, pipe-separated):
<one-sentence mechanism>|<confidence between 0.0 and 1.0>

If you cannot make a meaningful prediction, output exactly: UNKNOWN`

// Predict asks the model for a mechanism-of-action guess.
func (s *LLMMechanismSource) Predict(ctx context.Context, smiles string) (*chem.MechanismPrediction, error) {
	response, err := s.gen.GenerateWithSystem(ctx, mechanismSystemPrompt, "SMILES: "+smiles)
	if err != nil {
		return nil, notFound(s.logger, "mechanism model call failed", "smiles", smiles, "error", err)
	}

	prediction, ok := parseMechanismOutput(response)
	if !ok {
		return nil, notFound(s.logger, "mechanism output unusable", "smiles", smiles, "output", response)
	}

	if err := prediction.Validate(); err != nil {
		return nil, notFound(s.logger, "mechanism prediction invalid", "smiles", smiles, "error", err)
	}
	return prediction, nil
}

// parseMechanismOutput extracts "mechanism|confidence" from model output.
// The confidence segment is optional; out-of-range confidences are dropped
// rather than failing the whole prediction.
func parseMechanismOutput(raw string) (*chem.MechanismPrediction, bool) {
	line := strings.TrimSpace(raw)
	if line == "" || strings.EqualFold(line, "UNKNOWN") {
		return nil, false
	}

	// Models occasionally wrap the answer in extra lines; use the first
	// non-empty one.
	for _, candidate := range strings.Split(line, "\n") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		line = candidate
		break
	}

	mechanism, confPart, found := strings.Cut(line, "|")
	mechanism = strings.TrimSpace(mechanism)
	if mechanism == "" || strings.EqualFold(mechanism, "UNKNOWN") {
		return nil, false
	}

	prediction := &chem.MechanismPrediction{Mechanism: mechanism}
	if found {
		if conf, err := strconv.ParseFloat(strings.TrimSpace(confPart), 64); err == nil && conf >= 0 && conf <= 1 {
			prediction.Confidence = &conf
		}
	}
	return prediction, true
}
