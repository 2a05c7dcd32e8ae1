package tools

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/davidkellner/molscope/internal/sources"
)

// MechanismInput defines the input schema for the predict_mechanism tool.
type MechanismInput struct {
	SMILES string `json:"smiles" jsonschema:"required,SMILES structure string of the molecule"`
}

// NewMechanismHandler creates the predict_mechanism tool handler.
func NewMechanismHandler(deps *Dependencies) mcp.ToolHandlerFor[MechanismInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input MechanismInput) (
		*mcp.CallToolResult, any, error,
	) {
		smiles := strings.TrimSpace(input.SMILES)
		if smiles == "" {
			return ErrorResult("SMILES cannot be empty", "Provide a structure string like CCO"), nil, nil
		}

		prediction, err := deps.Sources.Mechanism.Predict(ctx, smiles)
		if err != nil {
			if errors.Is(err, sources.ErrNotFound) {
				return TextResult(`{"found":false}`), nil, nil
			}
			deps.Logger.Error("mechanism prediction failed", "smiles", smiles, "error", err)
			return ErrorResult("Mechanism prediction failed", "The prediction model may be unavailable"), nil, nil
		}

		jsonBytes, _ := json.MarshalIndent(prediction, "", "  ")
		return TextResult(string(jsonBytes)), nil, nil
	}
}
