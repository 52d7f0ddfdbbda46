package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/zhouzirui/serenity/backend/internal/config"
	"github.com/zhouzirui/serenity/backend/internal/handler"
	"github.com/zhouzirui/serenity/backend/internal/logger"
	"github.com/zhouzirui/serenity/backend/internal/model/prompt"
	"github.com/zhouzirui/serenity/backend/internal/observability"
	"github.com/zhouzirui/serenity/backend/internal/service/gateway"
	"github.com/zhouzirui/serenity/backend/internal/service/mood"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		zlog.Warn().Err(err).Msg("failed to load .env file, continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to build logger")
	}
	zlog.Logger = log

	shutdownTracing, err := observability.SetupTracing(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPEndpoint, logger.Component(log, "tracing"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up tracing")
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Warn().Err(err).Msg("tracer shutdown failed")
		}
	}()

	primary, err := buildPrimary(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build primary provider")
	}
	fallback := gateway.NewOpenRouterProvider(gateway.OpenRouterOptions{
		APIKey:  cfg.OpenRouter.APIKey,
		URL:     cfg.OpenRouter.URL,
		Referer: cfg.OpenRouter.Referer,
		Title:   cfg.OpenRouter.Title,
		Params:  params(cfg.Gateway, cfg.OpenRouter.Model),
	})
	if cfg.OpenRouter.APIKey == "" {
		log.Warn().Msg("OPENROUTER_API_KEY 未配置，备用模型不可用")
	}
	gw := gateway.New(primary, fallback, logger.Component(log, "gateway"))

	moods, err := mood.Open(cfg.Mood.DBPath, nil, logger.Component(log, "mood"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open mood store")
	}
	defer func() {
		if err := moods.Close(); err != nil {
			log.Warn().Err(err).Msg("mood store close failed")
		}
	}()

	router := handler.NewRouter(handler.Deps{
		Gateway:      gw,
		Moods:        moods,
		Prompts:      prompt.NewMemoryStore(prompt.Seed()),
		AppURL:       cfg.Server.AppURL,
		MaxBodyBytes: cfg.Gateway.MaxBodyBytes,
		Logger:       log,
	})

	if err := startServer(ctx, cfg.Server, router, log); err != nil {
		log.Error().Err(err).Msg("server error")
	}
}

// params starts from the gateway defaults and applies configured overrides.
func params(gw config.GatewayConfig, model string) gateway.Params {
	p := gateway.DefaultParams(model)
	if gw.Temperature > 0 {
		p.Temperature = gw.Temperature
	}
	if gw.MaxTokens > 0 {
		p.MaxTokens = gw.MaxTokens
	}
	return p
}

// buildPrimary picks Groq or Ark. Missing credentials do not stop startup;
// the provider reports them per request and the gateway falls back.
func buildPrimary(ctx context.Context, cfg *config.Config, log zerolog.Logger) (gateway.Provider, error) {
	switch cfg.Gateway.PrimaryProvider {
	case config.ProviderGroq:
		if cfg.Groq.APIKey == "" {
			log.Warn().Msg("GROQ_API_KEY 未配置，请求将直接转到备用模型")
		}
		return gateway.NewGroqProvider(gateway.GroqOptions{
			APIKey:  cfg.Groq.APIKey,
			BaseURL: cfg.Groq.BaseURL,
			Params:  params(cfg.Gateway, cfg.Groq.Model),
		}), nil
	case config.ProviderArk:
		if !cfg.Ark.Enabled() {
			log.Warn().Msg("Ark 凭证未配置，请求将直接转到备用模型")
			return gateway.NewChatModelProvider(config.ProviderArk, nil, params(cfg.Gateway, cfg.Ark.Model)), nil
		}
		cm, err := cfg.Ark.NewChatModel(ctx, cfg.Gateway)
		if err != nil {
			return nil, err
		}
		log.Info().Str("model", cfg.Ark.Model).Msg("Ark chat model initialized")
		return gateway.NewChatModelProvider(config.ProviderArk, cm, params(cfg.Gateway, cfg.Ark.Model)), nil
	default:
		return nil, fmt.Errorf("unknown primary provider %q", cfg.Gateway.PrimaryProvider)
	}
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, log zerolog.Logger) error {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Info().Str("addr", addr).Msg("Serenity backend listening")
	return runServer(ctx, srv)
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
