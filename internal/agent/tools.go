package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms"

	"github.com/davidkellner/molscope/internal/sources"
)

// lookupTools declares the data-fetching functions exposed to the model in
// tool mode. Parameter schemas are plain JSON schema maps.
func lookupTools() []llms.Tool {
	smilesParams := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"smiles": map[string]any{
				"type":        "string",
				"description": "SMILES structure string of the molecule",
			},
		},
		"required": []string{"smiles"},
	}

	return []llms.Tool{
		{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        "resolve_structure",
				Description: "Resolve a SMILES string to the compound's identity: CID, name, formula, molecular weight.",
				Parameters:  smilesParams,
			},
		},
		{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        "lookup_bioactivity",
				Description: "Look up bioactivity and clinical data for a compound by name.",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"name": map[string]any{
							"type":        "string",
							"description": "Compound name, e.g. aspirin",
						},
					},
					"required": []string{"name"},
				},
			},
		},
		{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        "predict_properties",
				Description: "Predict physicochemical properties (LogP, LogS, toxicity) for a SMILES string.",
				Parameters:  smilesParams,
			},
		},
		{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        "predict_mechanism",
				Description: "Predict the likely biological mechanism of action for a SMILES string.",
				Parameters:  smilesParams,
			},
		},
	}
}

// dispatchTool executes one model-requested lookup. A missing record is a
// normal answer, not an error: the model gets a found=false payload and can
// keep going.
func (a *Agent) dispatchTool(ctx context.Context, call llms.ToolCall) string {
	if call.FunctionCall == nil {
		return toolError("malformed tool call")
	}

	var args struct {
		SMILES string `json:"smiles"`
		Name   string `json:"name"`
	}
	if err := json.Unmarshal([]byte(call.FunctionCall.Arguments), &args); err != nil {
		return toolError(fmt.Sprintf("bad arguments: %v", err))
	}

	var payload any
	var err error

	switch call.FunctionCall.Name {
	case "resolve_structure":
		var cid int
		cid, err = a.sources.Structure.ResolveIdentifier(ctx, args.SMILES)
		if err == nil {
			payload, err = a.sources.Structure.FetchProperties(ctx, cid)
		}
	case "lookup_bioactivity":
		payload, err = a.sources.Bioactivity.LookupByName(ctx, args.Name)
	case "predict_properties":
		payload, err = a.sources.Properties.Predict(ctx, args.SMILES)
	case "predict_mechanism":
		payload, err = a.sources.Mechanism.Predict(ctx, args.SMILES)
	default:
		return toolError(fmt.Sprintf("unknown tool %q", call.FunctionCall.Name))
	}

	if errors.Is(err, sources.ErrNotFound) {
		return `{"found":false}`
	}
	if err != nil {
		return toolError(err.Error())
	}

	data, err := json.Marshal(map[string]any{"found": true, "data": payload})
	if err != nil {
		return toolError(err.Error())
	}
	return string(data)
}

func toolError(msg string) string {
	data, _ := json.Marshal(map[string]string{"error": msg})
	return string(data)
}
