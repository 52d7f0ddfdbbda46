package gateway

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/cloudwego/eino/schema"
	"github.com/go-resty/resty/v2"
)

const (
	dataPrefix = "data: "
	// maxLineBytes caps a single SSE line from the fallback provider.
	maxLineBytes = 1 << 20
)

// OpenRouterOptions configures the fallback provider.
type OpenRouterOptions struct {
	APIKey  string
	URL     string
	Referer string
	Title   string
	Params  Params
	Client  *resty.Client
}

// OpenRouterProvider streams completions from OpenRouter and decodes its
// `data: {json}` lines itself.
type OpenRouterProvider struct {
	client  *resty.Client
	apiKey  string
	url     string
	referer string
	title   string
	params  Params
}

// NewOpenRouterProvider builds the provider. A missing key is reported on Stream.
func NewOpenRouterProvider(opts OpenRouterOptions) *OpenRouterProvider {
	client := opts.Client
	if client == nil {
		client = resty.New()
	}
	return &OpenRouterProvider{
		client:  client,
		apiKey:  opts.APIKey,
		url:     opts.URL,
		referer: opts.Referer,
		title:   opts.Title,
		params:  opts.Params,
	}
}

func (p *OpenRouterProvider) Name() string { return "openrouter" }

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openRouterRequest struct {
	Model       string        `json:"model"`
	Messages    []wireMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	Stream      bool          `json:"stream"`
}

type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// Stream posts the conversation and returns once the response headers arrive.
func (p *OpenRouterProvider) Stream(ctx context.Context, messages []*schema.Message) (*schema.StreamReader[*schema.Message], error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("openrouter: %w", ErrMissingAPIKey)
	}

	wire := make([]wireMessage, 0, len(messages))
	for _, msg := range messages {
		if msg == nil {
			continue
		}
		wire = append(wire, wireMessage{Role: string(msg.Role), Content: msg.Content})
	}

	resp, err := p.client.R().
		SetContext(ctx).
		SetAuthToken(p.apiKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("HTTP-Referer", p.referer).
		SetHeader("X-Title", p.title).
		SetBody(openRouterRequest{
			Model:       p.params.Model,
			Messages:    wire,
			Temperature: p.params.Temperature,
			MaxTokens:   p.params.MaxTokens,
			Stream:      true,
		}).
		SetDoNotParseResponse(true).
		Post(p.url)
	if err != nil {
		return nil, fmt.Errorf("openrouter: request: %w", err)
	}

	body := resp.RawBody()
	if !resp.IsSuccess() {
		if body != nil {
			_ = body.Close()
		}
		return nil, fmt.Errorf("openrouter api error: status %d", resp.StatusCode())
	}
	if body == nil {
		return nil, fmt.Errorf("openrouter: empty response body")
	}

	sr, sw := schema.Pipe[*schema.Message](pipeCapacity)
	go func() {
		defer sw.Close()
		defer body.Close()

		err := DecodeDataLines(body, func(text string) bool {
			return !sw.Send(schema.AssistantMessage(text, nil), nil)
		})
		if err != nil {
			sw.Send(nil, fmt.Errorf("openrouter: read stream: %w", err))
		}
	}()

	return sr, nil
}

// DecodeDataLines reads `data: {json}` lines from r and calls emit with each
// non-empty choices[0].delta.content, in order. Lines without the prefix and
// payloads that are not JSON (such as `[DONE]`) are skipped. Decoding stops
// when emit returns false or r is exhausted.
func DecodeDataLines(r io.Reader, emit func(text string) bool) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for scanner.Scan() {
		line := bytes.TrimRight(scanner.Bytes(), "\r")
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		payload, ok := bytes.CutPrefix(line, []byte(dataPrefix))
		if !ok {
			continue
		}

		var chunk streamChunk
		if err := json.Unmarshal(payload, &chunk); err != nil {
			continue
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		text := chunk.Choices[0].Delta.Content
		if text == "" {
			continue
		}
		if !emit(text) {
			return nil
		}
	}
	return scanner.Err()
}
