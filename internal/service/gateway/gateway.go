package gateway

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zhouzirui/serenity/backend/internal/metrics"
	"github.com/zhouzirui/serenity/backend/internal/model/chat"
)

const tracerName = "github.com/zhouzirui/serenity/backend/internal/service/gateway"

// Gateway turns a conversation into one text stream, trying the primary
// provider once and the fallback provider once.
type Gateway struct {
	primary  Provider
	fallback Provider
	logger   zerolog.Logger
	tracer   trace.Tracer
}

// New creates a gateway. fallback may be nil, in which case a primary
// failure is terminal.
func New(primary, fallback Provider, logger zerolog.Logger) *Gateway {
	return &Gateway{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
		tracer:   otel.Tracer(tracerName),
	}
}

// Stream validates the conversation, prepends the policy message and returns
// the stream of whichever provider accepted the request.
func (g *Gateway) Stream(ctx context.Context, conversation []chat.Message) (*schema.StreamReader[*schema.Message], error) {
	if err := chat.Validate(conversation); err != nil {
		return nil, err
	}

	ctx, span := g.tracer.Start(ctx, "gateway.open",
		trace.WithAttributes(attribute.Int("conversation.turns", len(conversation))))
	defer span.End()

	messages := WithPolicy(conversation)

	sr, err := g.attempt(ctx, g.primary, messages)
	if err == nil {
		span.SetAttributes(attribute.String("gateway.provider", g.primary.Name()))
		return sr, nil
	}

	if g.fallback == nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("%w: %w", ErrProvidersExhausted, err)
	}

	g.logger.Warn().Err(err).
		Str("provider", g.primary.Name()).
		Str("fallback", g.fallback.Name()).
		Msg("primary provider failed, falling back")
	metrics.Fallbacks.Inc()
	span.AddEvent("fallback", trace.WithAttributes(attribute.String("primary.error", err.Error())))

	sr, err = g.attempt(ctx, g.fallback, messages)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		g.logger.Error().Err(err).Str("provider", g.fallback.Name()).Msg("fallback provider failed")
		return nil, fmt.Errorf("%w: %w", ErrProvidersExhausted, err)
	}

	span.SetAttributes(attribute.String("gateway.provider", g.fallback.Name()))
	return sr, nil
}

func (g *Gateway) attempt(ctx context.Context, p Provider, messages []*schema.Message) (*schema.StreamReader[*schema.Message], error) {
	ctx, span := g.tracer.Start(ctx, "provider."+p.Name())
	defer span.End()

	sr, err := p.Stream(ctx, messages)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		metrics.ProviderAttempts.WithLabelValues(p.Name(), metrics.OutcomeError).Inc()
		return nil, err
	}

	metrics.ProviderAttempts.WithLabelValues(p.Name(), metrics.OutcomeOK).Inc()
	g.logger.Debug().Str("provider", p.Name()).Int("messages", len(messages)).Msg("stream opened")
	return sr, nil
}
