package synthesis

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/tanwee/prospectus/internal/resolver"
)

// DefaultChatModel is the chat model used for answer synthesis.
const DefaultChatModel = "gpt-4o-mini"

// OpenAISynthesizer produces answers with an OpenAI-compatible chat
// completion endpoint.
type OpenAISynthesizer struct {
	client *openai.Client
	model  string
}

// OpenAIOption configures an OpenAISynthesizer.
type OpenAIOption func(*OpenAISynthesizer)

// WithChatModel sets the chat model.
func WithChatModel(model string) OpenAIOption {
	return func(s *OpenAISynthesizer) {
		if model != "" {
			s.model = model
		}
	}
}

// WithClient sets a preconfigured client (for custom base URLs).
func WithClient(client *openai.Client) OpenAIOption {
	return func(s *OpenAISynthesizer) {
		s.client = client
	}
}

// NewOpenAISynthesizer creates a synthesizer backed by the OpenAI API.
func NewOpenAISynthesizer(apiKey string, opts ...OpenAIOption) *OpenAISynthesizer {
	s := &OpenAISynthesizer{
		client: openai.NewClient(apiKey),
		model:  DefaultChatModel,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Synthesize answers the bundle's question with a chat completion. An
// empty bundle short-circuits to the no-match answer without calling
// the model.
func (s *OpenAISynthesizer) Synthesize(ctx context.Context, bundle resolver.Bundle) (string, error) {
	if bundle.Empty() {
		return NoMatchAnswer, nil
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: BuildUserPrompt(bundle)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSynthesis, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: model returned no choices", ErrSynthesis)
	}

	return resp.Choices[0].Message.Content, nil
}
