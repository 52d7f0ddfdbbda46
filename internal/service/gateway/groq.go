package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/cloudwego/eino/schema"
	openai "github.com/sashabaranov/go-openai"
)

// GroqOptions configures the Groq provider.
type GroqOptions struct {
	APIKey     string
	BaseURL    string
	Params     Params
	HTTPClient *http.Client
}

// GroqProvider streams completions from Groq's OpenAI-compatible endpoint.
type GroqProvider struct {
	client *openai.Client
	apiKey string
	params Params
}

// NewGroqProvider builds the provider. A missing key is reported on Stream, not here.
func NewGroqProvider(opts GroqOptions) *GroqProvider {
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	if opts.HTTPClient != nil {
		cfg.HTTPClient = opts.HTTPClient
	}

	return &GroqProvider{
		client: openai.NewClientWithConfig(cfg),
		apiKey: opts.APIKey,
		params: opts.Params,
	}
}

func (p *GroqProvider) Name() string { return "groq" }

// Stream opens the completion and pumps content deltas into an eino stream.
func (p *GroqProvider) Stream(ctx context.Context, messages []*schema.Message) (*schema.StreamReader[*schema.Message], error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("groq: %w", ErrMissingAPIKey)
	}

	req := openai.ChatCompletionRequest{
		Model:       p.params.Model,
		Messages:    toOpenAIMessages(messages),
		Temperature: p.params.Temperature,
		MaxTokens:   p.params.MaxTokens,
		Stream:      true,
	}

	upstream, err := p.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("groq: create stream: %w", err)
	}

	sr, sw := schema.Pipe[*schema.Message](pipeCapacity)
	go func() {
		defer sw.Close()
		defer upstream.Close()

		for {
			resp, recvErr := upstream.Recv()
			if errors.Is(recvErr, io.EOF) {
				return
			}
			if recvErr != nil {
				sw.Send(nil, fmt.Errorf("groq: recv: %w", recvErr))
				return
			}
			if len(resp.Choices) == 0 || resp.Choices[0].Delta.Content == "" {
				continue
			}
			if closed := sw.Send(schema.AssistantMessage(resp.Choices[0].Delta.Content, nil), nil); closed {
				return
			}
		}
	}()

	return sr, nil
}

func toOpenAIMessages(messages []*schema.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		if msg == nil {
			continue
		}
		out = append(out, openai.ChatCompletionMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}
	return out
}
