package gateway

import (
	"context"
	"errors"

	"github.com/cloudwego/eino/schema"
)

var (
	// ErrMissingAPIKey is returned by a provider whose credential is not configured.
	ErrMissingAPIKey = errors.New("api key not configured")
	// ErrProvidersExhausted wraps the fallback failure once both providers were tried.
	ErrProvidersExhausted = errors.New("all providers failed")
)

// Provider opens a streamed chat completion.
//
// An error from Stream means the request was not accepted. Once a reader is
// returned, failures arrive through Recv and the stream is not retried.
type Provider interface {
	Name() string
	Stream(ctx context.Context, messages []*schema.Message) (*schema.StreamReader[*schema.Message], error)
}

// Params are the completion settings sent to every provider.
type Params struct {
	Model       string
	Temperature float32
	MaxTokens   int
}

// DefaultParams returns the fixed sampling settings for the given model.
func DefaultParams(model string) Params {
	return Params{Model: model, Temperature: 0.7, MaxTokens: 1024}
}

const pipeCapacity = 8
