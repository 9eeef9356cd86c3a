package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/cosmocloud/stockcopilot/internal/core"
)

// Data sources
const (
	SourceYahoo   = "yahoo"
	SourcePolygon = "polygon"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	DataSource string           `mapstructure:"data_source"`
	Collectors CollectorsConfig `mapstructure:"collectors"`
	Symbols    SymbolsConfig    `mapstructure:"symbols"`
	Rating     RatingConfig     `mapstructure:"rating"`
	Chart      ChartConfig      `mapstructure:"chart"`
	LLM        LLMConfig        `mapstructure:"llm"`
	Archive    ArchiveConfig    `mapstructure:"archive"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

type ServerConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	APIKey         string        `mapstructure:"api_key"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

type CollectorsConfig struct {
	Yahoo   YahooConfig   `mapstructure:"yahoo"`
	Polygon PolygonConfig `mapstructure:"polygon"`
}

type YahooConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	UserAgent string        `mapstructure:"user_agent"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type PolygonConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// SymbolsConfig controls input normalization.
type SymbolsConfig struct {
	Suffix  string            `mapstructure:"suffix"`
	NSE     []string          `mapstructure:"nse"`
	Popular map[string]string `mapstructure:"popular"`
}

type RatingConfig struct {
	TopInvestors []string `mapstructure:"top_investors"`
}

type ChartConfig struct {
	Width        int `mapstructure:"width"`
	Height       int `mapstructure:"height"`
	VolumeHeight int `mapstructure:"volume_height"` // 0 hides the volume panel
}

type LLMConfig struct {
	Provider    string       `mapstructure:"provider"`
	MaxTokens   int          `mapstructure:"max_tokens"`
	Temperature float64      `mapstructure:"temperature"`
	Claude      ClaudeConfig `mapstructure:"claude"`
	OpenAI      OpenAIConfig `mapstructure:"openai"`
	Ollama      OllamaConfig `mapstructure:"ollama"`
	Gemini      GeminiConfig `mapstructure:"gemini"`
}

type ClaudeConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

type OllamaConfig struct {
	Endpoint string        `mapstructure:"endpoint"`
	Model    string        `mapstructure:"model"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// ArchiveConfig controls where rendered charts are kept.
type ArchiveConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Type    string   `mapstructure:"type"` // "localfs" or "s3"
	Path    string   `mapstructure:"path"` // For localfs
	Keep    int      `mapstructure:"keep"` // Charts kept per symbol and period, 0 keeps all
	S3      S3Config `mapstructure:"s3"`   // For S3
}

type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Load reads configuration from file, layered over Defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v, Defaults())

	// Support environment variable overrides
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Expand environment variables in string values
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers d as viper defaults so file values replace,
// rather than merge into, list settings.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.request_timeout", d.Server.RequestTimeout)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("data_source", d.DataSource)
	v.SetDefault("collectors.yahoo.timeout", d.Collectors.Yahoo.Timeout)
	v.SetDefault("collectors.polygon.timeout", d.Collectors.Polygon.Timeout)
	v.SetDefault("symbols.suffix", d.Symbols.Suffix)
	v.SetDefault("symbols.nse", d.Symbols.NSE)
	v.SetDefault("rating.top_investors", d.Rating.TopInvestors)
	v.SetDefault("chart.width", d.Chart.Width)
	v.SetDefault("chart.height", d.Chart.Height)
	v.SetDefault("chart.volume_height", d.Chart.VolumeHeight)
	v.SetDefault("llm.max_tokens", d.LLM.MaxTokens)
	v.SetDefault("llm.temperature", d.LLM.Temperature)
	v.SetDefault("archive.type", d.Archive.Type)
	v.SetDefault("archive.path", d.Archive.Path)
	v.SetDefault("archive.keep", d.Archive.Keep)
	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.path", d.Metrics.Path)
}

// Defaults returns a config with sensible defaults
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           8080,
			RequestTimeout: 30 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
		DataSource: SourceYahoo,
		Collectors: CollectorsConfig{
			Yahoo: YahooConfig{
				Timeout: 10 * time.Second,
			},
			Polygon: PolygonConfig{
				Timeout: 15 * time.Second,
			},
		},
		Symbols: SymbolsConfig{
			Suffix: ".NS",
			NSE:    []string{"RELIANCE", "TCS", "INFY"},
		},
		Rating: RatingConfig{
			TopInvestors: []string{"AAPL", "MSFT", "GOOGL"},
		},
		Chart: ChartConfig{
			Width:        1000,
			Height:       500,
			VolumeHeight: 150,
		},
		LLM: LLMConfig{
			MaxTokens:   1024,
			Temperature: 0.3,
		},
		Archive: ArchiveConfig{
			Type: "localfs",
			Path: "data/charts",
			Keep: 20,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("port must be between 1 and 65535, got %d", c.Server.Port))
	}

	switch c.DataSource {
	case SourceYahoo, "":
	case SourcePolygon:
		if c.Collectors.Polygon.APIKey == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("polygon api_key required when data_source is polygon"))
		}
	default:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("unknown data_source %q", c.DataSource))
	}

	if c.Chart.Width < 0 || c.Chart.Height < 0 || c.Chart.VolumeHeight < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("chart size cannot be negative, got %dx%d", c.Chart.Width, c.Chart.Height))
	}

	// LLM validation - if provider set, check config exists
	if c.LLM.Provider != "" {
		switch c.LLM.Provider {
		case "claude":
			if c.LLM.Claude.APIKey == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("claude api_key required when provider is claude"))
			}
		case "openai":
			if c.LLM.OpenAI.APIKey == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("openai api_key required when provider is openai"))
			}
		case "ollama":
			if c.LLM.Ollama.Endpoint == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("ollama endpoint required when provider is ollama"))
			}
		case "gemini":
			if c.LLM.Gemini.APIKey == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("gemini api_key required when provider is gemini"))
			}
		default:
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("unknown llm provider %q", c.LLM.Provider))
		}
	}

	if c.Archive.Enabled {
		if c.Archive.Keep < 0 {
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("archive keep cannot be negative, got %d", c.Archive.Keep))
		}
		switch c.Archive.Type {
		case "localfs":
			if c.Archive.Path == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("archive path required for localfs"))
			}
		case "s3":
			if c.Archive.S3.Bucket == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("archive s3 bucket required for s3"))
			}
		default:
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("unknown archive type %q", c.Archive.Type))
		}
	}

	return nil
}
