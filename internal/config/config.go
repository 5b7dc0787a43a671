package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Catalog   CatalogConfig   `yaml:"catalog" mapstructure:"catalog"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Frontier  FrontierConfig  `yaml:"frontier" mapstructure:"frontier"`
	Collect   CollectConfig   `yaml:"collect" mapstructure:"collect"`
	Fetch     FetchConfig     `yaml:"fetch" mapstructure:"fetch"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// CatalogConfig locates the sharded JSON dataset.
type CatalogConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// StoreConfig configures the change-set audit database.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// FrontierConfig configures frontier computation.
type FrontierConfig struct {
	Calibration CalibrationConfig `yaml:"calibration" mapstructure:"calibration"`
}

// CalibrationConfig carries the linear cost coefficients, one pair per
// parameter basis.
type CalibrationConfig struct {
	Active CoefficientsConfig `yaml:"active" mapstructure:"active"`
	Total  CoefficientsConfig `yaml:"total" mapstructure:"total"`
}

// CoefficientsConfig holds one pair of USD-per-1M-tokens-per-billion factors.
type CoefficientsConfig struct {
	InputPerBillion  float64 `yaml:"input_per_billion" mapstructure:"input_per_billion"`
	OutputPerBillion float64 `yaml:"output_per_billion" mapstructure:"output_per_billion"`
}

// CollectConfig configures the source collection pipeline.
type CollectConfig struct {
	SourcesFile          string `yaml:"sources_file" mapstructure:"sources_file"`
	MaxConcurrentSources int    `yaml:"max_concurrent_sources" mapstructure:"max_concurrent_sources"`
}

// FetchConfig configures outbound HTTP fetches.
type FetchConfig struct {
	UserAgent    string  `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs  int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	Retries      int     `yaml:"retries" mapstructure:"retries"`
	RatePerHost  float64 `yaml:"rate_per_host" mapstructure:"rate_per_host"`
	BurstPerHost int     `yaml:"burst_per_host" mapstructure:"burst_per_host"`
}

// AnthropicConfig holds Anthropic API settings for extraction.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// ServerConfig configures the read-only HTTP API.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PARETO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("catalog.dir", "data")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "pareto.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("collect.sources_file", "sources.yaml")
	v.SetDefault("collect.max_concurrent_sources", 4)
	v.SetDefault("fetch.user_agent", "llm-pareto-collect/1.0")
	v.SetDefault("fetch.timeout_secs", 30)
	v.SetDefault("fetch.retries", 2)
	v.SetDefault("fetch.rate_per_host", 1.0)
	v.SetDefault("fetch.burst_per_host", 2)
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.max_tokens", 4096)
	// Calibration defaults derive from the DeepSeek-V3 reference model:
	// 671B total, 37B active, $0.27 in / $1.10 out per 1M tokens.
	v.SetDefault("frontier.calibration.active.input_per_billion", 0.27/37.0)
	v.SetDefault("frontier.calibration.active.output_per_billion", 1.10/37.0)
	v.SetDefault("frontier.calibration.total.input_per_billion", 0.27/671.0)
	v.SetDefault("frontier.calibration.total.output_per_billion", 1.10/671.0)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the fields a command mode depends on. Curation modes only
// need the dataset; collect additionally needs extraction credentials, and
// history needs the audit database.
func (c *Config) Validate(mode string) error {
	var problems []string

	add := func(msg string) { problems = append(problems, msg) }

	if c.Catalog.Dir == "" {
		add("catalog.dir is required")
	}

	switch mode {
	case "curate":
		// Dataset checks above are all curation needs.
	case "collect":
		if c.Anthropic.Key == "" {
			add("anthropic.key is required")
		}
		if c.Collect.SourcesFile == "" {
			add("collect.sources_file is required")
		}
		if c.Collect.MaxConcurrentSources < 1 || c.Collect.MaxConcurrentSources > 16 {
			add("collect.max_concurrent_sources must be between 1 and 16")
		}
		if c.Fetch.RatePerHost <= 0 {
			add("fetch.rate_per_host must be > 0")
		}
	case "serve":
		if c.Server.Port <= 0 {
			add("server.port must be > 0")
		}
	case "history":
		if c.Store.Driver != "sqlite" && c.Store.Driver != "postgres" {
			add("store.driver must be sqlite or postgres")
		}
		if c.Store.DatabaseURL == "" {
			add("store.database_url is required")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
