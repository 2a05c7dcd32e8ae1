package tools_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidkellner/molscope/internal/chem"
	"github.com/davidkellner/molscope/internal/metrics"
	"github.com/davidkellner/molscope/internal/pipeline"
	"github.com/davidkellner/molscope/internal/sources"
	"github.com/davidkellner/molscope/internal/tools"
)

type staticSynth struct {
	narrative string
}

func (s staticSynth) Synthesize(context.Context, chem.AnalysisQuery, *chem.StructureRecord, chem.Aggregate) (string, metrics.TokenUsage, error) {
	return s.narrative, metrics.TokenUsage{}, nil
}

// staticStructureSource resolves every input to one fixed record.
type staticStructureSource struct {
	record *chem.StructureRecord
}

func (s staticStructureSource) ResolveIdentifier(context.Context, string) (int, error) {
	return s.record.CID, nil
}

func (s staticStructureSource) FetchProperties(context.Context, int) (*chem.StructureRecord, error) {
	return s.record, nil
}

func testDeps(t *testing.T) *tools.Dependencies {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	fixtures, err := sources.LoadFixtures("")
	require.NoError(t, err)

	set := &sources.Set{
		Structure:   sources.NewMockStructureSource(fixtures, logger),
		Bioactivity: sources.NewMockBioactivitySource(fixtures, logger),
		Properties:  sources.NewMockPropertySource(fixtures, logger),
		Mechanism:   sources.NewMockMechanismSource(fixtures, logger),
	}
	p := pipeline.New(set, staticSynth{narrative: "A concise analysis."}, metrics.NewCollector(), logger)

	return &tools.Dependencies{
		Sources:  set,
		Pipeline: p,
		Logger:   logger,
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	textContent, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	return textContent.Text
}

func TestResolveHandler(t *testing.T) {
	handler := tools.NewResolveHandler(testDeps(t))
	ctx := context.Background()

	t.Run("resolves known SMILES", func(t *testing.T) {
		result, _, err := handler(ctx, nil, tools.ResolveInput{SMILES: "c1ccccc1"})
		require.NoError(t, err)
		assert.False(t, result.IsError)

		text := resultText(t, result)
		assert.Contains(t, text, `"cid": 241`)
		assert.Contains(t, text, "Benzene")
	})

	t.Run("empty SMILES", func(t *testing.T) {
		result, _, err := handler(ctx, nil, tools.ResolveInput{SMILES: "  "})
		require.NoError(t, err)
		assert.True(t, result.IsError)
		assert.Contains(t, resultText(t, result), "SMILES cannot be empty")
	})

	t.Run("formula-shaped miss gets hint", func(t *testing.T) {
		result, _, err := handler(ctx, nil, tools.ResolveInput{SMILES: "C6H12O6"})
		require.NoError(t, err)
		assert.True(t, result.IsError)
		assert.Contains(t, resultText(t, result), "molecular formula")
	})

	t.Run("formula-shaped SMILES still reaches the source", func(t *testing.T) {
		// Cyclohexane's ring-numbered SMILES reads like a formula; the
		// heuristic must not stop the lookup when the source can resolve it.
		deps := testDeps(t)
		deps.Sources.Structure = staticStructureSource{record: &chem.StructureRecord{
			CID:              8078,
			MolecularFormula: "C6H12",
			CanonicalSMILES:  "C1CCCCC1",
			MolecularWeight:  84.16,
			Name:             "Cyclohexane",
		}}
		handler := tools.NewResolveHandler(deps)

		result, _, err := handler(ctx, nil, tools.ResolveInput{SMILES: "C1CCCCC1"})
		require.NoError(t, err)
		assert.False(t, result.IsError)
		assert.Contains(t, resultText(t, result), "Cyclohexane")
	})

	t.Run("unknown SMILES", func(t *testing.T) {
		result, _, err := handler(ctx, nil, tools.ResolveInput{SMILES: "XQZ-nope"})
		require.NoError(t, err)
		assert.True(t, result.IsError)
		assert.Contains(t, resultText(t, result), "not recognized")
	})
}

func TestBioactivityHandler(t *testing.T) {
	handler := tools.NewBioactivityHandler(testDeps(t))
	ctx := context.Background()

	t.Run("known compound", func(t *testing.T) {
		result, _, err := handler(ctx, nil, tools.BioactivityInput{Name: "aspirin"})
		require.NoError(t, err)
		assert.False(t, result.IsError)
		assert.Contains(t, resultText(t, result), "CHEMBL25")
	})

	t.Run("absent compound is a miss, not an error", func(t *testing.T) {
		result, _, err := handler(ctx, nil, tools.BioactivityInput{Name: "benzene"})
		require.NoError(t, err)
		assert.False(t, result.IsError)
		assert.Contains(t, resultText(t, result), `"found":false`)
	})

	t.Run("empty name", func(t *testing.T) {
		result, _, err := handler(ctx, nil, tools.BioactivityInput{Name: ""})
		require.NoError(t, err)
		assert.True(t, result.IsError)
	})
}

func TestPredictionHandlers(t *testing.T) {
	deps := testDeps(t)
	ctx := context.Background()

	t.Run("properties", func(t *testing.T) {
		handler := tools.NewPropertiesHandler(deps)
		result, _, err := handler(ctx, nil, tools.PropertiesInput{SMILES: "CCO"})
		require.NoError(t, err)
		assert.False(t, result.IsError)
		assert.Contains(t, resultText(t, result), "log_p")
	})

	t.Run("mechanism miss", func(t *testing.T) {
		handler := tools.NewMechanismHandler(deps)
		result, _, err := handler(ctx, nil, tools.MechanismInput{SMILES: "C1=CC=CC=C1"})
		require.NoError(t, err)
		assert.False(t, result.IsError)
		assert.Contains(t, resultText(t, result), `"found":false`)
	})
}

func TestAnalyzeHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("full run", func(t *testing.T) {
		handler := tools.NewAnalyzeHandler(testDeps(t))
		result, _, err := handler(ctx, nil, tools.AnalyzeInput{
			SMILES:   "CC(=O)OC1=CC=CC=C1C(=O)O",
			Question: "Is this molecule a viable drug candidate?",
		})
		require.NoError(t, err)
		assert.False(t, result.IsError)

		text := resultText(t, result)
		assert.Contains(t, text, "A concise analysis.")
		assert.Contains(t, text, "CHEMBL25")
	})

	t.Run("short question rejected", func(t *testing.T) {
		handler := tools.NewAnalyzeHandler(testDeps(t))
		result, _, err := handler(ctx, nil, tools.AnalyzeInput{SMILES: "CCO", Question: "why?"})
		require.NoError(t, err)
		assert.True(t, result.IsError)
		assert.Contains(t, resultText(t, result), "at least 8 characters")
	})

	t.Run("unknown structure surfaces user message", func(t *testing.T) {
		handler := tools.NewAnalyzeHandler(testDeps(t))
		result, _, err := handler(ctx, nil, tools.AnalyzeInput{
			SMILES:   "XQZ-nope",
			Question: "What is this compound used for?",
		})
		require.NoError(t, err)
		assert.True(t, result.IsError)
		assert.Contains(t, resultText(t, result), "could not be identified")
	})
}

func TestToolsRegisteredOverSession(t *testing.T) {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "test-molscope",
		Version: "0.0.1-test",
	}, nil)
	tools.RegisterAll(server, testDeps(t))

	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Run(ctx, serverTransport)
	}()
	time.Sleep(50 * time.Millisecond)

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer session.Close()

	t.Run("tools/list returns all tools", func(t *testing.T) {
		result, err := session.ListTools(ctx, nil)
		require.NoError(t, err)
		require.Len(t, result.Tools, 5)

		names := make([]string, len(result.Tools))
		for i, tool := range result.Tools {
			names[i] = tool.Name
		}
		for _, want := range []string{
			"resolve_structure", "lookup_bioactivity", "predict_properties",
			"predict_mechanism", "analyze_molecule",
		} {
			assert.Contains(t, names, want)
		}
	})

	t.Run("resolve_structure over the wire", func(t *testing.T) {
		result, err := session.CallTool(ctx, &mcp.CallToolParams{
			Name:      "resolve_structure",
			Arguments: map[string]any{"smiles": "CCO"},
		})
		require.NoError(t, err)
		assert.False(t, result.IsError)

		textContent, ok := result.Content[0].(*mcp.TextContent)
		require.True(t, ok)
		assert.Contains(t, textContent.Text, "Ethanol")
	})

	cancel()
	select {
	case err := <-serverErr:
		if err != nil && !strings.Contains(err.Error(), "context canceled") {
			t.Logf("server stopped with: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Error("server did not stop within timeout")
	}
}
