package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v10"
	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// Provider kinds accepted by PRIMARY_PROVIDER.
const (
	ProviderGroq = "groq"
	ProviderArk  = "ark"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server     ServerConfig
	Log        LogConfig
	Gateway    GatewayConfig
	Groq       GroqConfig
	Ark        ArkConfig
	OpenRouter OpenRouterConfig
	Mood       MoodConfig
	Telemetry  TelemetryConfig
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Port   string `env:"PORT" envDefault:"8080"`
	AppURL string `env:"APP_URL" envDefault:"http://localhost:3000"`

	// Addr is derived from Port.
	Addr string
}

// LogConfig selects zerolog level and writer.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"console"`
}

// GatewayConfig holds the completion parameters shared by both providers.
type GatewayConfig struct {
	PrimaryProvider string  `env:"PRIMARY_PROVIDER" envDefault:"groq"`
	Temperature     float32 `env:"CHAT_TEMPERATURE" envDefault:"0.7"`
	MaxTokens       int     `env:"CHAT_MAX_TOKENS" envDefault:"1024"`
	MaxBodyBytes    int64   `env:"CHAT_MAX_BODY_BYTES" envDefault:"1048576"`
}

// GroqConfig describes the default primary provider.
type GroqConfig struct {
	APIKey  string `env:"GROQ_API_KEY"`
	Model   string `env:"GROQ_MODEL" envDefault:"llama3-70b-8192"`
	BaseURL string `env:"GROQ_BASE_URL" envDefault:"https://api.groq.com/openai/v1"`
}

// ArkConfig describes the Volcengine Ark primary provider.
type ArkConfig struct {
	APIKey  string `env:"ARK_API_KEY"`
	Model   string `env:"ARK_MODEL"`
	BaseURL string `env:"ARK_BASE_URL" envDefault:"https://ark.cn-beijing.volces.com/api/v3"`
	Region  string `env:"ARK_REGION" envDefault:"cn-beijing"`
}

// OpenRouterConfig describes the fallback provider.
type OpenRouterConfig struct {
	APIKey  string `env:"OPENROUTER_API_KEY"`
	Model   string `env:"OPENROUTER_MODEL" envDefault:"mistralai/mixtral-8x7b-instruct"`
	URL     string `env:"OPENROUTER_URL" envDefault:"https://openrouter.ai/api/v1/chat/completions"`
	Referer string `env:"OPENROUTER_REFERER" envDefault:"https://healthai-app.com"`
	Title   string `env:"OPENROUTER_TITLE" envDefault:"HealthAI Mental Health Chatbot"`
}

// MoodConfig locates the mood journal database.
type MoodConfig struct {
	DBPath string `env:"MOOD_DB_PATH" envDefault:"./data/moods"`
}

// TelemetryConfig controls trace export.
type TelemetryConfig struct {
	ServiceName  string `env:"SERVICE_NAME" envDefault:"serenity-backend"`
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	addr, err := normalizeAddr(cfg.Server.Port)
	if err != nil {
		return nil, err
	}
	cfg.Server.Addr = addr

	cfg.Groq.APIKey = strings.TrimSpace(cfg.Groq.APIKey)
	cfg.Ark.APIKey = strings.TrimSpace(cfg.Ark.APIKey)
	cfg.OpenRouter.APIKey = strings.TrimSpace(cfg.OpenRouter.APIKey)
	cfg.Gateway.PrimaryProvider = strings.ToLower(strings.TrimSpace(cfg.Gateway.PrimaryProvider))

	if err := cfg.Gateway.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c GatewayConfig) validate() error {
	switch c.PrimaryProvider {
	case ProviderGroq, ProviderArk:
	default:
		return fmt.Errorf("invalid PRIMARY_PROVIDER value %q: want %s or %s", c.PrimaryProvider, ProviderGroq, ProviderArk)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("invalid CHAT_TEMPERATURE value %v: must be within [0, 2]", c.Temperature)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("invalid CHAT_MAX_TOKENS value %d: must be positive", c.MaxTokens)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("invalid CHAT_MAX_BODY_BYTES value %d: must be positive", c.MaxBodyBytes)
	}
	return nil
}

// normalizeAddr 解析服务器监听地址。
func normalizeAddr(port string) (string, error) {
	port = strings.TrimSpace(port)
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":8080" 或 "127.0.0.1:8080"。
		return port, nil
	}

	if strings.Contains(port, " ") {
		return "", fmt.Errorf("invalid PORT value: %q", port)
	}

	return ":" + port, nil
}

// Enabled 表示是否提供了必需的密钥。
func (c ArkConfig) Enabled() bool {
	return c.Model != "" && c.APIKey != ""
}

// NewChatModel 使用配置创建一个 Ark 模型实例。
func (c ArkConfig) NewChatModel(ctx context.Context, gw GatewayConfig) (model.BaseChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("ark credentials or model missing: set ARK_API_KEY and ARK_MODEL")
	}

	temperature := gw.Temperature
	maxTokens := gw.MaxTokens

	cm, err := ark.NewChatModel(ctx, &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		Model:       c.Model,
		MaxTokens:   &maxTokens,
		Temperature: &temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("create ark chat model: %w", err)
	}
	return cm, nil
}
