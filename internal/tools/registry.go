package tools

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RegisterAll registers all tools with the MCP server.
// This is called from main after server creation but before Run().
func RegisterAll(server *mcp.Server, deps *Dependencies) {
	// Resolve tool - SMILES to structure record
	mcp.AddTool(server, &mcp.Tool{
		Name:        "resolve_structure",
		Description: "Resolve a SMILES string to compound identity: CID, name, formula, molecular weight",
	}, NewResolveHandler(deps))

	// Bioactivity tool - clinical data by compound name
	mcp.AddTool(server, &mcp.Tool{
		Name:        "lookup_bioactivity",
		Description: "Look up bioactivity and clinical development data for a compound by name",
	}, NewBioactivityHandler(deps))

	// Properties tool - physicochemical predictions
	mcp.AddTool(server, &mcp.Tool{
		Name:        "predict_properties",
		Description: "Predict physicochemical properties (LogP, LogS, toxicity) for a SMILES string",
	}, NewPropertiesHandler(deps))

	// Mechanism tool - mechanism-of-action prediction
	mcp.AddTool(server, &mcp.Tool{
		Name:        "predict_mechanism",
		Description: "Predict the likely biological mechanism of action for a SMILES string",
	}, NewMechanismHandler(deps))

	// Analyze tool - full pipeline run with narrative synthesis
	mcp.AddTool(server, &mcp.Tool{
		Name:        "analyze_molecule",
		Description: "Run the full analysis pipeline for a molecule and synthesize a narrative answer",
	}, NewAnalyzeHandler(deps))
}
