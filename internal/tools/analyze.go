package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/davidkellner/molscope/internal/chem"
	"github.com/davidkellner/molscope/internal/pipeline"
)

// AnalyzeInput defines the input schema for the analyze_molecule tool.
type AnalyzeInput struct {
	SMILES        string `json:"smiles" jsonschema:"required,SMILES structure string of the molecule"`
	TargetProtein string `json:"target_protein,omitempty" jsonschema:"Optional protein target of interest"`
	Question      string `json:"question" jsonschema:"required,Free-text question about the molecule (min 8 characters)"`
}

// NewAnalyzeHandler creates the analyze_molecule tool handler. It runs the
// full pipeline: resolution, concurrent lookups, and narrative synthesis.
func NewAnalyzeHandler(deps *Dependencies) mcp.ToolHandlerFor[AnalyzeInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input AnalyzeInput) (
		*mcp.CallToolResult, any, error,
	) {
		if input.SMILES == "" {
			return ErrorResult("SMILES cannot be empty", "Provide a structure string like CCO"), nil, nil
		}
		if utf8.RuneCountInString(input.Question) < chem.MinQuestionLen {
			return ErrorResult(
				fmt.Sprintf("Question must be at least %d characters", chem.MinQuestionLen),
				"Ask a full question, e.g. 'Is this molecule a viable drug candidate?'"), nil, nil
		}

		query := chem.AnalysisQuery{
			SMILES:        input.SMILES,
			TargetProtein: input.TargetProtein,
			Question:      input.Question,
		}

		result, err := deps.Pipeline.Analyze(ctx, query)
		if err != nil {
			var se *pipeline.StageError
			if errors.As(err, &se) {
				// Synthesis failures still carry collected data worth showing.
				if result != nil {
					jsonBytes, _ := json.MarshalIndent(result, "", "  ")
					return ErrorResult(se.UserMessage(), "Collected data:\n"+string(jsonBytes)), nil, nil
				}
				return ErrorResult(se.UserMessage(), ""), nil, nil
			}
			deps.Logger.Error("analysis failed", "error", err)
			return ErrorResult("Analysis failed", "See the server log for details"), nil, nil
		}

		jsonBytes, _ := json.MarshalIndent(result, "", "  ")
		deps.Logger.Info("analysis complete", "cid", result.Structure.CID, "narrative_len", len(result.Narrative))
		return TextResult(string(jsonBytes)), nil, nil
	}
}
