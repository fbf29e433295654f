package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig
	RateLimit  RateLimitConfig

	// Embeddings
	Encoder EncoderConfig
	Voyage  VoyageConfig
	Ollama  OllamaConfig

	// Vector index
	Index    IndexConfig
	Snapshot SnapshotConfig

	// Routing
	Router RouterConfig
	Routes []RouteConfig
	Chains []ChainConfig
	NATS   NATSConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port       int
	Mode       string
	AdminToken string // Required on /api/v1/admin/* when set
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

type RateLimitConfig struct {
	RequestsPerMin int // Per client IP, 0 disables
}

type EncoderConfig struct {
	Provider      string // hash, voyage or ollama
	Dimension     int
	MaxInputChars int
	Timeout       time.Duration
	RatePerSec    float64 // 0 disables throttling
	Burst         int
	CacheSize     int // 0 disables caching
}

type VoyageConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type OllamaConfig struct {
	URL   string
	Model string
}

type IndexConfig struct {
	Backend string // memory or qdrant
	Qdrant  QdrantConfig
}

type QdrantConfig struct {
	URL              string
	APIKey           string
	CollectionPrefix string
}

type SnapshotConfig struct {
	Enabled bool
	Path    string
}

type RouterConfig struct {
	TopK              int
	DefaultThreshold  float64
	DefaultRoute      string
	SyncMode          string
	UnresolvedMessage string
}

type RouteConfig struct {
	Name       string   `mapstructure:"name"`
	Utterances []string `mapstructure:"utterances"`
	Threshold  *float64 `mapstructure:"threshold"`
}

type ChainConfig struct {
	Route     string        `mapstructure:"route"`
	Transport string        `mapstructure:"transport"`
	URL       string        `mapstructure:"url"`
	Subject   string        `mapstructure:"subject"`
	Response  string        `mapstructure:"response"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type NATSConfig struct {
	URL string
}

// Load reads path, or config.yaml from ./config, . or /etc/intent-router/
// when path is empty. Environment variables override file values, with
// dots replaced by underscores (ENCODER_PROVIDER, VOYAGE_API_KEY, ...).
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/intent-router/")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = v.GetString("environment.name")
	cfg.HTTPServer.Port = v.GetInt("http_server.port")
	cfg.HTTPServer.Mode = v.GetString("http_server.mode")
	cfg.HTTPServer.AdminToken = v.GetString("http_server.admin_token")
	cfg.Logger.Level = v.GetString("logger.level")
	cfg.Logger.Mode = v.GetString("logger.mode")
	cfg.Logger.Encoding = v.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = v.GetBool("logger.color_enabled")
	cfg.RateLimit.RequestsPerMin = v.GetInt("rate_limit.requests_per_min")

	// Embeddings
	cfg.Encoder.Provider = v.GetString("encoder.provider")
	cfg.Encoder.Dimension = v.GetInt("encoder.dimension")
	cfg.Encoder.MaxInputChars = v.GetInt("encoder.max_input_chars")
	cfg.Encoder.Timeout = v.GetDuration("encoder.timeout")
	cfg.Encoder.RatePerSec = v.GetFloat64("encoder.rate_per_sec")
	cfg.Encoder.Burst = v.GetInt("encoder.burst")
	cfg.Encoder.CacheSize = v.GetInt("encoder.cache_size")

	cfg.Voyage.APIKey = v.GetString("voyage.api_key")
	cfg.Voyage.Model = v.GetString("voyage.model")
	cfg.Voyage.BaseURL = v.GetString("voyage.base_url")

	cfg.Ollama.URL = v.GetString("ollama.url")
	cfg.Ollama.Model = v.GetString("ollama.model")

	// Vector index
	cfg.Index.Backend = v.GetString("index.backend")
	cfg.Index.Qdrant.URL = v.GetString("index.qdrant.url")
	cfg.Index.Qdrant.APIKey = v.GetString("index.qdrant.api_key")
	cfg.Index.Qdrant.CollectionPrefix = v.GetString("index.qdrant.collection_prefix")
	if qdrantURL := v.GetString("qdrant_url"); qdrantURL != "" {
		cfg.Index.Qdrant.URL = qdrantURL
	}

	cfg.Snapshot.Enabled = v.GetBool("snapshot.enabled")
	cfg.Snapshot.Path = v.GetString("snapshot.path")

	// Routing
	cfg.Router.TopK = v.GetInt("router.top_k")
	cfg.Router.DefaultThreshold = v.GetFloat64("router.default_threshold")
	cfg.Router.DefaultRoute = v.GetString("router.default_route")
	cfg.Router.SyncMode = v.GetString("router.sync_mode")
	cfg.Router.UnresolvedMessage = v.GetString("router.unresolved_message")

	if err := v.UnmarshalKey("routes", &cfg.Routes); err != nil {
		return nil, fmt.Errorf("invalid routes section: %w", err)
	}
	if err := v.UnmarshalKey("chains", &cfg.Chains); err != nil {
		return nil, fmt.Errorf("invalid chains section: %w", err)
	}
	cfg.NATS.URL = v.GetString("nats.url")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment.name", "development")
	v.SetDefault("http_server.port", 8080)
	v.SetDefault("http_server.mode", "debug")
	v.SetDefault("logger.level", "debug")
	v.SetDefault("logger.mode", "debug")
	v.SetDefault("logger.encoding", "console")
	v.SetDefault("logger.color_enabled", true)
	v.SetDefault("rate_limit.requests_per_min", 60)

	v.SetDefault("encoder.provider", "hash")
	v.SetDefault("encoder.dimension", 384)
	v.SetDefault("encoder.max_input_chars", 2000)
	v.SetDefault("encoder.timeout", "10s")
	v.SetDefault("encoder.burst", 1)
	v.SetDefault("encoder.cache_size", 1024)
	v.SetDefault("ollama.url", "http://localhost:11434")
	v.SetDefault("ollama.model", "nomic-embed-text")

	v.SetDefault("index.backend", "memory")
	v.SetDefault("index.qdrant.collection_prefix", "intent_routes")
	v.SetDefault("snapshot.path", "data/snapshot.db")

	v.SetDefault("router.top_k", 5)
	v.SetDefault("router.default_threshold", 0.5)
	v.SetDefault("router.sync_mode", "incremental")
}

// Validate checks values that would otherwise fail later at startup.
func (c *Config) Validate() error {
	switch c.Encoder.Provider {
	case "hash", "ollama":
	case "voyage":
		if c.Voyage.APIKey == "" {
			return fmt.Errorf("encoder provider voyage requires voyage.api_key")
		}
	default:
		return fmt.Errorf("unknown encoder provider %q", c.Encoder.Provider)
	}
	if c.Encoder.Dimension <= 0 {
		return fmt.Errorf("encoder.dimension must be positive")
	}

	switch c.Index.Backend {
	case "memory":
	case "qdrant":
		if c.Index.Qdrant.URL == "" {
			return fmt.Errorf("index backend qdrant requires index.qdrant.url")
		}
	default:
		return fmt.Errorf("unknown index backend %q", c.Index.Backend)
	}
	if c.Snapshot.Enabled && c.Snapshot.Path == "" {
		return fmt.Errorf("snapshot.path is required when snapshot is enabled")
	}

	if c.Router.TopK < 1 {
		return fmt.Errorf("router.top_k must be at least 1")
	}
	if c.Router.SyncMode != "full" && c.Router.SyncMode != "incremental" {
		return fmt.Errorf("router.sync_mode must be full or incremental, got %q", c.Router.SyncMode)
	}
	if len(c.Routes) == 0 {
		return fmt.Errorf("no routes configured - please add a routes section to config.yaml")
	}
	// Admin routes are never open in production.
	if c.Environment.Name == "production" && c.HTTPServer.AdminToken == "" {
		return fmt.Errorf("http_server.admin_token is required when environment.name is production")
	}
	return nil
}
