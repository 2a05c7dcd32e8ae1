package tools

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/davidkellner/molscope/internal/sources"
)

// BioactivityInput defines the input schema for the lookup_bioactivity tool.
type BioactivityInput struct {
	Name string `json:"name" jsonschema:"required,Compound name to look up, e.g. aspirin"`
}

// NewBioactivityHandler creates the lookup_bioactivity tool handler.
func NewBioactivityHandler(deps *Dependencies) mcp.ToolHandlerFor[BioactivityInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input BioactivityInput) (
		*mcp.CallToolResult, any, error,
	) {
		name := strings.TrimSpace(input.Name)
		if name == "" {
			return ErrorResult("Name cannot be empty", "Provide a compound name like aspirin"), nil, nil
		}

		record, err := deps.Sources.Bioactivity.LookupByName(ctx, name)
		if err != nil {
			if errors.Is(err, sources.ErrNotFound) {
				return TextResult(`{"found":false}`), nil, nil
			}
			deps.Logger.Error("bioactivity lookup failed", "name", name, "error", err)
			return ErrorResult("Bioactivity lookup failed", "The bioactivity database may be unavailable"), nil, nil
		}

		jsonBytes, _ := json.MarshalIndent(record, "", "  ")
		deps.Logger.Info("bioactivity found", "name", name, "chembl_id", record.ChEMBLID)
		return TextResult(string(jsonBytes)), nil, nil
	}
}
