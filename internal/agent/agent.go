// Package agent synthesizes the analysis narrative with an LLM, either from
// prefetched context or by letting the model call lookup tools itself.
package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"

	"github.com/davidkellner/molscope/internal/chem"
	"github.com/davidkellner/molscope/internal/config"
	"github.com/davidkellner/molscope/internal/metrics"
	"github.com/davidkellner/molscope/internal/sources"
)

// ChatModel is the slice of the LLM wrapper the agent needs.
type ChatModel interface {
	Chat(ctx context.Context, messages []llms.MessageContent, opts ...llms.CallOption) (*llms.ContentResponse, error)
}

// Agent produces the narrative answer for a completed analysis run.
type Agent struct {
	model        ChatModel
	sources      *sources.Set
	mode         config.AgentMode
	maxToolTurns int
	logger       *slog.Logger
}

// New creates a synthesis agent. In tool mode the agent re-queries the
// sources itself; in prefetched mode it only reads the aggregate it is given.
func New(model ChatModel, set *sources.Set, cfg config.Config, logger *slog.Logger) *Agent {
	maxTurns := cfg.MaxToolTurns
	if maxTurns <= 0 {
		maxTurns = 6
	}
	return &Agent{
		model:        model,
		sources:      set,
		mode:         cfg.AgentMode,
		maxToolTurns: maxTurns,
		logger:       logger,
	}
}

// Synthesize generates the narrative. The returned string is never empty on
// success; the usage count covers every model call the run made.
func (a *Agent) Synthesize(ctx context.Context, query chem.AnalysisQuery, structure *chem.StructureRecord, agg chem.Aggregate) (string, metrics.TokenUsage, error) {
	var narrative string
	var usage metrics.TokenUsage
	var err error

	switch a.mode {
	case config.AgentTools:
		narrative, usage, err = a.synthesizeWithTools(ctx, query)
	default:
		narrative, usage, err = a.synthesizePrefetched(ctx, query, structure, agg)
	}
	if err != nil {
		return "", usage, err
	}

	narrative = strings.TrimSpace(narrative)
	if narrative == "" {
		return "", usage, fmt.Errorf("model returned empty narrative")
	}
	return narrative, usage, nil
}

// synthesizePrefetched renders the aggregate into the prompt and asks once.
func (a *Agent) synthesizePrefetched(ctx context.Context, query chem.AnalysisQuery, structure *chem.StructureRecord, agg chem.Aggregate) (string, metrics.TokenUsage, error) {
	analysisContext := buildAnalysisContext(structure, agg)
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, synthesisSystemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, buildUserPrompt(query, analysisContext)),
	}

	resp, err := a.model.Chat(ctx, messages)
	if err != nil {
		return "", metrics.TokenUsage{}, err
	}
	if len(resp.Choices) == 0 {
		return "", metrics.TokenUsage{}, fmt.Errorf("model returned no choices")
	}

	choice := resp.Choices[0]
	return choice.Content, tokenUsage(choice), nil
}

// synthesizeWithTools runs the tool-calling loop: the model decides which
// lookups to make, we execute them, and the loop ends when the model answers
// in plain text or the turn budget runs out.
func (a *Agent) synthesizeWithTools(ctx context.Context, query chem.AnalysisQuery) (string, metrics.TokenUsage, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, toolSystemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, buildUserPrompt(query, "")),
	}

	var usage metrics.TokenUsage
	for turn := 0; turn < a.maxToolTurns; turn++ {
		resp, err := a.model.Chat(ctx, messages, llms.WithTools(lookupTools()))
		if err != nil {
			return "", usage, err
		}
		if len(resp.Choices) == 0 {
			return "", usage, fmt.Errorf("model returned no choices")
		}

		choice := resp.Choices[0]
		usage.Add(tokenUsage(choice))
		if len(choice.ToolCalls) == 0 {
			return choice.Content, usage, nil
		}

		// Echo the assistant turn with its tool calls, then answer each one.
		assistant := llms.MessageContent{Role: llms.ChatMessageTypeAI}
		for _, call := range choice.ToolCalls {
			assistant.Parts = append(assistant.Parts, call)
		}
		messages = append(messages, assistant)

		for _, call := range choice.ToolCalls {
			name := ""
			if call.FunctionCall != nil {
				name = call.FunctionCall.Name
			}
			a.logger.Debug("tool call", "turn", turn, "tool", name)

			result := a.dispatchTool(ctx, call)
			messages = append(messages, llms.MessageContent{
				Role: llms.ChatMessageTypeTool,
				Parts: []llms.ContentPart{llms.ToolCallResponse{
					ToolCallID: call.ID,
					Name:       name,
					Content:    result,
				}},
			})
		}
	}

	return "", usage, fmt.Errorf("no answer after %d tool turns", a.maxToolTurns)
}

// tokenUsage pulls token counts out of a choice's GenerationInfo. Providers
// disagree on key names; shapes we don't know count as zero.
func tokenUsage(choice *llms.ContentChoice) metrics.TokenUsage {
	return metrics.TokenUsage{
		InputTokens:  genInfoCount(choice.GenerationInfo, "PromptTokens", "InputTokens"),
		OutputTokens: genInfoCount(choice.GenerationInfo, "CompletionTokens", "OutputTokens"),
	}
}

func genInfoCount(info map[string]any, keys ...string) int64 {
	for _, key := range keys {
		switch v := info[key].(type) {
		case int:
			return int64(v)
		case int32:
			return int64(v)
		case int64:
			return v
		case float64:
			return int64(v)
		}
	}
	return 0
}
