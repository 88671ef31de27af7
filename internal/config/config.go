package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/roadcheck/internal/rules"
)

// Supported oracle providers.
const (
	ProviderAnthropic  = "anthropic"
	ProviderPerplexity = "perplexity"
)

// ErrMissingCredential is returned by Validate when the selected oracle
// provider has no API key.
var ErrMissingCredential = eris.New("config: missing oracle credential")

// Config holds the full application configuration.
type Config struct {
	Oracle     OracleConfig     `yaml:"oracle" mapstructure:"oracle"`
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	Perplexity PerplexityConfig `yaml:"perplexity" mapstructure:"perplexity"`
	Geocode    GeocodeConfig    `yaml:"geocode" mapstructure:"geocode"`
	Rules      RulesConfig      `yaml:"rules" mapstructure:"rules"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// OracleConfig selects the text-completion backend.
type OracleConfig struct {
	Provider string `yaml:"provider" mapstructure:"provider"`
	// Search lets the oracle consult the web for road and weather lookups.
	Search bool `yaml:"search" mapstructure:"search"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key           string `yaml:"key" mapstructure:"key"`
	BaseURL       string `yaml:"base_url" mapstructure:"base_url"`
	Model         string `yaml:"model" mapstructure:"model"`
	MaxTokens     int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
	SearchMaxUses int64  `yaml:"search_max_uses" mapstructure:"search_max_uses"`
}

// PerplexityConfig holds Perplexity API settings.
type PerplexityConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Model   string `yaml:"model" mapstructure:"model"`
}

// GeocodeConfig configures the reverse geocoding service.
type GeocodeConfig struct {
	BaseURL   string  `yaml:"base_url" mapstructure:"base_url"`
	UserAgent string  `yaml:"user_agent" mapstructure:"user_agent"`
	RPS       float64 `yaml:"rps" mapstructure:"rps"`
}

// RulesConfig points at an optional rule table override file.
type RulesConfig struct {
	File string `yaml:"file" mapstructure:"file"`
}

// ServerConfig configures the HTTP API.
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
	// .env is optional; real environment variables win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, eris.Wrap(err, "config: read .env")
	}

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ROADCHECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Provider-native key names are accepted as well.
	_ = v.BindEnv("anthropic.key", "ROADCHECK_ANTHROPIC_KEY", "ANTHROPIC_API_KEY")
	_ = v.BindEnv("perplexity.key", "ROADCHECK_PERPLEXITY_KEY", "PERPLEXITY_API_KEY")

	// Defaults
	v.SetDefault("oracle.provider", ProviderAnthropic)
	v.SetDefault("oracle.search", true)
	v.SetDefault("anthropic.base_url", "")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 256)
	v.SetDefault("anthropic.search_max_uses", 3)
	v.SetDefault("perplexity.base_url", "https://api.perplexity.ai")
	v.SetDefault("perplexity.model", "sonar")
	v.SetDefault("geocode.base_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("geocode.user_agent", "roadcheck/1.0")
	v.SetDefault("geocode.rps", 1.0)
	v.SetDefault("rules.file", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

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

// APIKey returns the credential of the selected oracle provider.
func (c *Config) APIKey() string {
	if c.Oracle.Provider == ProviderPerplexity {
		return c.Perplexity.Key
	}
	return c.Anthropic.Key
}

// SetAPIKey overrides the credential of the selected oracle provider.
func (c *Config) SetAPIKey(key string) {
	if c.Oracle.Provider == ProviderPerplexity {
		c.Perplexity.Key = key
		return
	}
	c.Anthropic.Key = key
}

// Validate checks the settings required by the given command mode
// ("analyze" or "serve"). A missing oracle credential is reported on its own
// and wraps ErrMissingCredential.
func (c *Config) Validate(mode string) error {
	switch c.Oracle.Provider {
	case ProviderAnthropic:
		if c.Anthropic.Key == "" {
			return eris.Wrap(ErrMissingCredential, "anthropic.key is required (set ANTHROPIC_API_KEY or pass --api-key)")
		}
	case ProviderPerplexity:
		if c.Perplexity.Key == "" {
			return eris.Wrap(ErrMissingCredential, "perplexity.key is required (set PERPLEXITY_API_KEY or pass --api-key)")
		}
	}

	var errs []string
	if c.Oracle.Provider != ProviderAnthropic && c.Oracle.Provider != ProviderPerplexity {
		errs = append(errs, "oracle.provider must be anthropic or perplexity")
	}
	if c.Geocode.BaseURL == "" {
		errs = append(errs, "geocode.base_url is required")
	}
	if c.Geocode.UserAgent == "" {
		errs = append(errs, "geocode.user_agent is required")
	}
	if mode == "serve" && (c.Server.Port <= 0 || c.Server.Port > 65535) {
		errs = append(errs, "server.port must be between 1 and 65535")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// RuleTable returns the configured rule table: the override file when set,
// the built-in defaults otherwise.
func (c *Config) RuleTable() (*rules.Table, error) {
	if c.Rules.File == "" {
		return rules.DefaultTable(), nil
	}
	t, err := rules.LoadTable(c.Rules.File)
	if err != nil {
		return nil, eris.Wrap(err, "config: load rule table")
	}
	return t, nil
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
