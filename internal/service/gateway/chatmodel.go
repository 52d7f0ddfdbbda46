package gateway

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// ChatModelProvider adapts an eino chat model (e.g. Ark) to Provider.
type ChatModelProvider struct {
	name   string
	model  model.BaseChatModel
	params Params
}

// NewChatModelProvider wraps cm. A nil cm behaves as an unconfigured provider.
func NewChatModelProvider(name string, cm model.BaseChatModel, params Params) *ChatModelProvider {
	return &ChatModelProvider{name: name, model: cm, params: params}
}

func (p *ChatModelProvider) Name() string { return p.name }

// Stream calls the model with the shared sampling options and drops empty deltas.
func (p *ChatModelProvider) Stream(ctx context.Context, messages []*schema.Message) (*schema.StreamReader[*schema.Message], error) {
	if p.model == nil {
		return nil, fmt.Errorf("%s: %w", p.name, ErrMissingAPIKey)
	}

	opts := []model.Option{
		model.WithTemperature(p.params.Temperature),
		model.WithMaxTokens(p.params.MaxTokens),
	}
	if p.params.Model != "" {
		opts = append(opts, model.WithModel(p.params.Model))
	}

	sr, err := p.model.Stream(ctx, messages, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: create stream: %w", p.name, err)
	}

	return schema.StreamReaderWithConvert(sr, func(msg *schema.Message) (*schema.Message, error) {
		if msg == nil || msg.Content == "" {
			return nil, schema.ErrNoValue
		}
		return msg, nil
	}), nil
}
