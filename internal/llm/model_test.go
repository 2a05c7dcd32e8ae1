package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/tmc/langchaingo/llms"
)

type fakeChatModel struct {
	response *llms.ContentResponse
	err      error

	lastMessages []llms.MessageContent
}

func (m *fakeChatModel) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	m.lastMessages = messages
	return m.response, m.err
}

func (m *fakeChatModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	resp, err := m.GenerateContent(ctx, []llms.MessageContent{llms.TextParts(llms.ChatMessageTypeHuman, prompt)}, options...)
	if err != nil {
		return "", err
	}
	return resp.Choices[0].Content, nil
}

func textResponse(content string) *llms.ContentResponse {
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: content}}}
}

func TestGenerateWithSystem(t *testing.T) {
	fake := &fakeChatModel{response: textResponse("an answer")}
	model := NewModelWith(fake, "test-model")

	got, err := model.GenerateWithSystem(context.Background(), "system prompt", "user prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "an answer" {
		t.Errorf("got %q, want %q", got, "an answer")
	}

	if len(fake.lastMessages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(fake.lastMessages))
	}
	if fake.lastMessages[0].Role != llms.ChatMessageTypeSystem {
		t.Errorf("first message role = %v, want system", fake.lastMessages[0].Role)
	}
	if fake.lastMessages[1].Role != llms.ChatMessageTypeHuman {
		t.Errorf("second message role = %v, want human", fake.lastMessages[1].Role)
	}
}

func TestGenerateWithSystemNoChoices(t *testing.T) {
	fake := &fakeChatModel{response: &llms.ContentResponse{}}
	model := NewModelWith(fake, "test-model")

	_, err := model.GenerateWithSystem(context.Background(), "s", "u")
	if err == nil {
		t.Fatal("expected error for empty choice list")
	}
}

func TestChatPreservesToolCalls(t *testing.T) {
	fake := &fakeChatModel{response: &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{
			ToolCalls: []llms.ToolCall{{ID: "call-1", Type: "function"}},
		}},
	}}
	model := NewModelWith(fake, "test-model")

	resp, err := model.Chat(context.Background(), []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, "hi"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Choices[0].ToolCalls) != 1 {
		t.Errorf("expected tool call to survive, got %d", len(resp.Choices[0].ToolCalls))
	}
}

func TestIsFatalAPIError(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		fatal bool
	}{
		{"nil error", nil, false},
		{"generic error", errors.New("connection reset"), false},
		{"credit balance", errors.New("insufficient credit balance"), true},
		{"rate limit", errors.New("rate limit exceeded"), true},
		{"quota exceeded", errors.New("quota exceeded for model"), true},
		{"billing issue", errors.New("billing account inactive"), true},
		{"invalid api key", errors.New("invalid api key"), true},
		{"authentication failed", errors.New("authentication failed"), true},
		{"unauthorized", errors.New("unauthorized request"), true},
		{"401 status", errors.New("HTTP 401: not allowed"), true},
		{"403 status", errors.New("HTTP 403: forbidden"), true},
		{"wrapped error", fmt.Errorf("chat: %w", errors.New("credit balance too low")), true},
		{"404 not fatal", errors.New("HTTP 404: not found"), false},
		{"timeout not fatal", errors.New("context deadline exceeded"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := isFatalAPIError(tt.err)
			if got != tt.fatal {
				t.Errorf("isFatalAPIError(%v) = %v, want %v", tt.err, got, tt.fatal)
			}
		})
	}
}

func TestWrapFatalError(t *testing.T) {
	t.Run("wraps fatal error", func(t *testing.T) {
		err := errors.New("invalid api key provided")
		wrapped := wrapFatalError(err)
		if !errors.Is(wrapped, ErrFatalAPI) {
			t.Errorf("expected wrapped error to match ErrFatalAPI")
		}
		if !errors.Is(wrapped, err) {
			t.Errorf("expected wrapped error to keep the original")
		}
	})

	t.Run("passes through non-fatal error", func(t *testing.T) {
		err := errors.New("network timeout")
		result := wrapFatalError(err)
		if errors.Is(result, ErrFatalAPI) {
			t.Errorf("non-fatal error should not be wrapped with ErrFatalAPI")
		}
		if result != err {
			t.Errorf("expected original error returned, got %v", result)
		}
	})

	t.Run("nil error", func(t *testing.T) {
		result := wrapFatalError(nil)
		if result != nil {
			t.Errorf("expected nil, got %v", result)
		}
	})
}
