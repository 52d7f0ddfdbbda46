package main

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/serenity/backend/internal/config"
	"github.com/zhouzirui/serenity/backend/internal/service/gateway"
)

func TestBuildPrimaryGroq(t *testing.T) {
	cfg := &config.Config{Gateway: config.GatewayConfig{PrimaryProvider: config.ProviderGroq, Temperature: 0.7, MaxTokens: 1024}}
	p, err := buildPrimary(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "groq", p.Name())
}

func TestBuildPrimaryArkWithoutCredentials(t *testing.T) {
	cfg := &config.Config{Gateway: config.GatewayConfig{PrimaryProvider: config.ProviderArk}}
	p, err := buildPrimary(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "ark", p.Name())

	_, err = p.Stream(context.Background(), nil)
	require.ErrorIs(t, err, gateway.ErrMissingAPIKey)
}

func TestBuildPrimaryUnknown(t *testing.T) {
	cfg := &config.Config{Gateway: config.GatewayConfig{PrimaryProvider: "bard"}}
	_, err := buildPrimary(context.Background(), cfg, zerolog.Nop())
	require.Error(t, err)
}

func TestParamsFallsBackToDefaults(t *testing.T) {
	got := params(config.GatewayConfig{}, "llama3-70b-8192")
	assert.Equal(t, gateway.DefaultParams("llama3-70b-8192"), got)

	got = params(config.GatewayConfig{Temperature: 1.2, MaxTokens: 256}, "m")
	assert.Equal(t, gateway.Params{Model: "m", Temperature: 1.2, MaxTokens: 256}, got)
}

func TestRunServerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}

	done := make(chan error, 1)
	go func() { done <- runServer(ctx, srv) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
