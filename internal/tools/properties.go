package tools

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/davidkellner/molscope/internal/sources"
)

// PropertiesInput defines the input schema for the predict_properties tool.
type PropertiesInput struct {
	SMILES string `json:"smiles" jsonschema:"required,SMILES structure string of the molecule"`
}

// NewPropertiesHandler creates the predict_properties tool handler.
func NewPropertiesHandler(deps *Dependencies) mcp.ToolHandlerFor[PropertiesInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input PropertiesInput) (
		*mcp.CallToolResult, any, error,
	) {
		smiles := strings.TrimSpace(input.SMILES)
		if smiles == "" {
			return ErrorResult("SMILES cannot be empty", "Provide a structure string like CCO"), nil, nil
		}

		prediction, err := deps.Sources.Properties.Predict(ctx, smiles)
		if err != nil {
			if errors.Is(err, sources.ErrNotFound) {
				return TextResult(`{"found":false}`), nil, nil
			}
			deps.Logger.Error("property prediction failed", "smiles", smiles, "error", err)
			return ErrorResult("Property prediction failed", "The predictor service may be unavailable"), nil, nil
		}

		jsonBytes, _ := json.MarshalIndent(prediction, "", "  ")
		return TextResult(string(jsonBytes)), nil, nil
	}
}
