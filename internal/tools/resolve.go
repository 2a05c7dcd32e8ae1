package tools

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/davidkellner/molscope/internal/chem"
	"github.com/davidkellner/molscope/internal/sources"
)

// ResolveInput defines the input schema for the resolve_structure tool.
type ResolveInput struct {
	SMILES string `json:"smiles" jsonschema:"required,SMILES structure string of the molecule"`
}

// NewResolveHandler creates the resolve_structure tool handler.
func NewResolveHandler(deps *Dependencies) mcp.ToolHandlerFor[ResolveInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ResolveInput) (
		*mcp.CallToolResult, any, error,
	) {
		smiles := strings.TrimSpace(input.SMILES)
		if smiles == "" {
			return ErrorResult("SMILES cannot be empty", "Provide a structure string like CCO"), nil, nil
		}

		cid, err := deps.Sources.Structure.ResolveIdentifier(ctx, smiles)
		if err != nil {
			if errors.Is(err, sources.ErrNotFound) {
				// The formula heuristic only words the miss; ring-numbered
				// SMILES like C1CCCCC1 match it and must still be looked up.
				if chem.LooksLikeFormula(smiles) {
					return ErrorResult("Structure not recognized; the input looks like a molecular formula",
						"Provide the structure notation instead, e.g. C1=CC=CC=C1 for benzene"), nil, nil
				}
				return ErrorResult("Structure not recognized", "Check the SMILES string for typos"), nil, nil
			}
			deps.Logger.Error("resolve failed", "error", err)
			return ErrorResult("Structure lookup failed", "The structure database may be unavailable"), nil, nil
		}

		record, err := deps.Sources.Structure.FetchProperties(ctx, cid)
		if err != nil {
			if errors.Is(err, sources.ErrNotFound) {
				return ErrorResult("Property data incomplete for this compound", ""), nil, nil
			}
			deps.Logger.Error("property fetch failed", "cid", cid, "error", err)
			return ErrorResult("Property lookup failed", "The structure database may be unavailable"), nil, nil
		}

		jsonBytes, _ := json.MarshalIndent(record, "", "  ")
		deps.Logger.Info("structure resolved", "smiles", smiles, "cid", record.CID)
		return TextResult(string(jsonBytes)), nil, nil
	}
}
