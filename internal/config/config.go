package config

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
	"github.com/spf13/viper"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Assistant AssistantConfig
	Sentiment SentimentConfig
	GIF       GIFConfig
	AI        AIConfig
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	return load(newEnvReader())
}

// load builds the configuration from a prepared viper instance.
func load(v *viper.Viper) (*Config, error) {
	server, err := loadServerConfig(v)
	if err != nil {
		return nil, err
	}

	assistant, err := loadAssistantConfig(v)
	if err != nil {
		return nil, err
	}

	sentiment, err := loadSentimentConfig(v)
	if err != nil {
		return nil, err
	}

	gif, err := loadGIFConfig(v)
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig(v)
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:    server,
		Log:       loadLogConfig(v),
		Assistant: assistant,
		Sentiment: sentiment,
		GIF:       gif,
		AI:        ai,
	}, nil
}

func newEnvReader() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "5001")
	v.SetDefault("ALLOWED_ORIGIN", "http://localhost:3000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("RUN_POLL_INTERVAL", "500ms")
	v.SetDefault("RUN_POLL_MAX_ATTEMPTS", "120")
	v.SetDefault("RUN_TIMEOUT", "60s")
	v.SetDefault("SENTIMENT_PROVIDER", SentimentProviderGoogle)
	v.SetDefault("GIPHY_BASE_URL", "https://api.giphy.com/v1")
	v.SetDefault("GIPHY_MAX_OFFSET", "50")
	v.SetDefault("GIPHY_TIMEOUT", "5s")
	v.SetDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3")
	v.SetDefault("ARK_REGION", "cn-beijing")
	return v
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr          string
	AllowedOrigin string
}

// loadServerConfig 解析服务器监听地址。
func loadServerConfig(v *viper.Viper) (ServerConfig, error) {
	port := strings.TrimSpace(v.GetString("PORT"))
	origin := strings.TrimSpace(v.GetString("ALLOWED_ORIGIN"))

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":5001" 或 "127.0.0.1:5001"。
		return ServerConfig{Addr: port, AllowedOrigin: origin}, nil
	}

	if _, err := strconv.Atoi(port); err != nil {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port, AllowedOrigin: origin}, nil
}

// LogConfig controls the zap logger built at startup.
type LogConfig struct {
	Level  string
	Format string
}

func loadLogConfig(v *viper.Viper) LogConfig {
	return LogConfig{
		Level:  strings.ToLower(strings.TrimSpace(v.GetString("LOG_LEVEL"))),
		Format: strings.ToLower(strings.TrimSpace(v.GetString("LOG_FORMAT"))),
	}
}

// AssistantConfig 描述助手服务（threads/runs）的凭证与轮询策略。
type AssistantConfig struct {
	APIKey          string
	AssistantID     string
	BaseURL         string
	PollInterval    time.Duration
	PollMaxAttempts int
	RunTimeout      time.Duration
}

// Validate reports missing credentials.
func (c AssistantConfig) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if c.AssistantID == "" {
		return fmt.Errorf("OPENAI_ASSISTANT_ID is required")
	}
	return nil
}

func loadAssistantConfig(v *viper.Viper) (AssistantConfig, error) {
	interval, err := parseDuration(v, "RUN_POLL_INTERVAL")
	if err != nil {
		return AssistantConfig{}, err
	}

	attempts, err := parseInt(v, "RUN_POLL_MAX_ATTEMPTS")
	if err != nil {
		return AssistantConfig{}, err
	}
	if attempts < 1 {
		attempts = 1
	}

	timeout, err := parseDuration(v, "RUN_TIMEOUT")
	if err != nil {
		return AssistantConfig{}, err
	}

	return AssistantConfig{
		APIKey:          strings.TrimSpace(v.GetString("OPENAI_API_KEY")),
		AssistantID:     strings.TrimSpace(v.GetString("OPENAI_ASSISTANT_ID")),
		BaseURL:         strings.TrimSpace(v.GetString("OPENAI_BASE_URL")),
		PollInterval:    interval,
		PollMaxAttempts: attempts,
		RunTimeout:      timeout,
	}, nil
}

// Sentiment providers.
const (
	SentimentProviderGoogle  = "google"
	SentimentProviderArk     = "ark"
	SentimentProviderLexicon = "lexicon"
)

// SentimentConfig 选择情感分析的实现。
type SentimentConfig struct {
	Provider        string
	CredentialsFile string
}

func loadSentimentConfig(v *viper.Viper) (SentimentConfig, error) {
	provider := strings.ToLower(strings.TrimSpace(v.GetString("SENTIMENT_PROVIDER")))
	switch provider {
	case SentimentProviderGoogle, SentimentProviderArk, SentimentProviderLexicon:
	default:
		return SentimentConfig{}, fmt.Errorf("invalid SENTIMENT_PROVIDER value %q", provider)
	}

	return SentimentConfig{
		Provider:        provider,
		CredentialsFile: strings.TrimSpace(v.GetString("GOOGLE_APPLICATION_CREDENTIALS_PATH")),
	}, nil
}

// GIFConfig 描述 GIF 搜索服务。
type GIFConfig struct {
	APIKey    string
	BaseURL   string
	Rating    string
	MaxOffset int
	Timeout   time.Duration
}

func loadGIFConfig(v *viper.Viper) (GIFConfig, error) {
	maxOffset, err := parseInt(v, "GIPHY_MAX_OFFSET")
	if err != nil {
		return GIFConfig{}, err
	}
	if maxOffset < 1 {
		maxOffset = 1
	}

	timeout, err := parseDuration(v, "GIPHY_TIMEOUT")
	if err != nil {
		return GIFConfig{}, err
	}

	return GIFConfig{
		APIKey:    strings.TrimSpace(v.GetString("GIPHY_API_KEY")),
		BaseURL:   strings.TrimRight(strings.TrimSpace(v.GetString("GIPHY_BASE_URL")), "/"),
		Rating:    strings.TrimSpace(v.GetString("GIPHY_RATING")),
		MaxOffset: maxOffset,
		Timeout:   timeout,
	}, nil
}

// AIConfig 描述大模型相关配置，供 ark 情感分析使用。
type AIConfig struct {
	APIKey      string
	AccessKey   string
	SecretKey   string
	Model       string
	BaseURL     string
	Region      string
	Temperature *float64
}

// Enabled 表示是否提供了必需的密钥。
func (c AIConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel 使用配置创建一个模型实例。
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("ark credentials or model missing: set ARK_MODEL with ARK_API_KEY or ARK_ACCESS_KEY/ARK_SECRET_KEY")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		Temperature: temperature,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadAIConfig(v *viper.Viper) (AIConfig, error) {
	temperature, err := parseOptionalFloat(v, "ARK_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}

	return AIConfig{
		APIKey:      strings.TrimSpace(v.GetString("ARK_API_KEY")),
		AccessKey:   strings.TrimSpace(v.GetString("ARK_ACCESS_KEY")),
		SecretKey:   strings.TrimSpace(v.GetString("ARK_SECRET_KEY")),
		Model:       strings.TrimSpace(v.GetString("ARK_MODEL")),
		BaseURL:     strings.TrimSpace(v.GetString("ARK_BASE_URL")),
		Region:      strings.TrimSpace(v.GetString("ARK_REGION")),
		Temperature: temperature,
	}, nil
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	val, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	if val <= 0 {
		return 0, fmt.Errorf("invalid %s value %q: must be positive", key, raw)
	}
	return val, nil
}

func parseInt(v *viper.Viper, key string) (int, error) {
	raw := strings.TrimSpace(v.GetString(key))
	val, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalFloat(v *viper.Viper, key string) (*float64, error) {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return &val, nil
}
