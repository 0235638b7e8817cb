package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// Config aggregates all service configuration.
type Config struct {
	Server   ServerConfig
	AI       AIConfig
	Auth     AuthConfig
	Listing  ListingConfig
	Research ResearchConfig
	Storage  StorageConfig
	Session  SessionConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	listing, err := loadListingConfig()
	if err != nil {
		return nil, err
	}

	research, err := loadResearchConfig()
	if err != nil {
		return nil, err
	}

	sess, err := loadSessionConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:   server,
		AI:       ai,
		Auth:     loadAuthConfig(),
		Listing:  listing,
		Research: research,
		Storage:  StorageConfig{PropertyDSN: strings.TrimSpace(os.Getenv("PROPERTY_DB_DSN"))},
		Session:  sess,
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Accept ":8080" or "127.0.0.1:8080" as-is.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// AIConfig describes the chat model backing the agents.
type AIConfig struct {
	APIKey      string
	AccessKey   string
	SecretKey   string
	Model       string
	BaseURL     string
	Region      string
	Temperature *float64
	TopP        *float64
	MaxTokens   *int
	Stream      bool
}

// Enabled reports whether the required credentials are present.
func (c AIConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel builds a model instance from this configuration.
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("chat model credentials missing: set ARK_API_KEY + ARK_MODEL or an AK/SK pair")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	var topP *float32
	if c.TopP != nil {
		val := float32(*c.TopP)
		topP = &val
	}

	var maxTokens *int
	if c.MaxTokens != nil {
		val := *c.MaxTokens
		maxTokens = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		TopP:        topP,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadAIConfig() (AIConfig, error) {
	temperature, err := parseOptionalFloatEnv("ARK_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}

	topP, err := parseOptionalFloatEnv("ARK_TOP_P")
	if err != nil {
		return AIConfig{}, err
	}

	maxTokens, err := parseOptionalIntEnv("ARK_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}

	stream, err := parseBoolEnv("ARK_STREAM", true)
	if err != nil {
		return AIConfig{}, err
	}

	return AIConfig{
		APIKey:      strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		AccessKey:   strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		SecretKey:   strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		Model:       strings.TrimSpace(os.Getenv("ARK_MODEL")),
		BaseURL:     getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:      getEnvOrDefault("ARK_REGION", "cn-beijing"),
		Temperature: temperature,
		TopP:        topP,
		MaxTokens:   maxTokens,
		Stream:      stream,
	}, nil
}

// AuthConfig describes the Cognito user pool used for authentication.
type AuthConfig struct {
	Region     string
	UserPoolID string
	ClientID   string
}

// Enabled reports whether token verification can be set up.
func (c AuthConfig) Enabled() bool {
	return c.UserPoolID != ""
}

// IssuerURL returns the token issuer for the configured pool.
func (c AuthConfig) IssuerURL() string {
	return fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s", c.Region, c.UserPoolID)
}

// JWKSURL returns the published key-set endpoint for the configured pool.
func (c AuthConfig) JWKSURL() string {
	return c.IssuerURL() + "/.well-known/jwks.json"
}

func loadAuthConfig() AuthConfig {
	return AuthConfig{
		Region:     getEnvOrDefault("AWS_REGION", "us-east-1"),
		UserPoolID: strings.TrimSpace(os.Getenv("COGNITO_USER_POOL_ID")),
		ClientID:   strings.TrimSpace(os.Getenv("COGNITO_CLIENT_ID")),
	}
}

// ListingConfig describes the property listing data service.
type ListingConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

func loadListingConfig() (ListingConfig, error) {
	timeout, err := parseOptionalIntEnv("HASDATA_TIMEOUT")
	if err != nil {
		return ListingConfig{}, err
	}
	timeoutSeconds := 30
	if timeout != nil && *timeout > 0 {
		timeoutSeconds = *timeout
	}

	return ListingConfig{
		APIKey:  strings.TrimSpace(os.Getenv("HASDATA_API_KEY")),
		BaseURL: getEnvOrDefault("HASDATA_BASE_URL", "https://api.hasdata.com"),
		Timeout: time.Duration(timeoutSeconds) * time.Second,
	}, nil
}

// ResearchConfig tunes the automated web researcher.
type ResearchConfig struct {
	MaxConcurrency int
	PageTimeout    time.Duration
	ChromeBin      string
}

func loadResearchConfig() (ResearchConfig, error) {
	concurrency := 3
	if override, err := parseOptionalIntEnv("RESEARCH_MAX_CONCURRENCY"); err != nil {
		return ResearchConfig{}, err
	} else if override != nil && *override > 0 {
		concurrency = *override
	}

	timeoutSeconds := 60
	if override, err := parseOptionalIntEnv("RESEARCH_PAGE_TIMEOUT"); err != nil {
		return ResearchConfig{}, err
	} else if override != nil && *override > 0 {
		timeoutSeconds = *override
	}

	return ResearchConfig{
		MaxConcurrency: concurrency,
		PageTimeout:    time.Duration(timeoutSeconds) * time.Second,
		ChromeBin:      strings.TrimSpace(os.Getenv("CHROME_BIN")),
	}, nil
}

// StorageConfig describes optional property persistence.
type StorageConfig struct {
	PropertyDSN string
}

// SessionConfig bounds the in-memory session store.
type SessionConfig struct {
	MaxSessions int
}

func loadSessionConfig() (SessionConfig, error) {
	maxSessions := 0
	if override, err := parseOptionalIntEnv("SESSION_MAX_COUNT"); err != nil {
		return SessionConfig{}, err
	} else if override != nil {
		maxSessions = *override
	}
	return SessionConfig{MaxSessions: maxSessions}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
