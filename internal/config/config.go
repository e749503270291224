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
	Pappers    PappersConfig    `yaml:"pappers" mapstructure:"pappers"`
	Salesforce SalesforceConfig `yaml:"salesforce" mapstructure:"salesforce"`
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Finance    FinanceConfig    `yaml:"finance" mapstructure:"finance"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// PappersConfig holds Pappers registry API settings.
type PappersConfig struct {
	APIToken       string  `yaml:"api_token" mapstructure:"api_token"`
	BaseURL        string  `yaml:"base_url" mapstructure:"base_url"`
	SuggestionsURL string  `yaml:"suggestions_url" mapstructure:"suggestions_url"`
	SuggestionLen  int     `yaml:"suggestion_len" mapstructure:"suggestion_len"`
	RateLimit      float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	TimeoutSecs    int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// SalesforceConfig holds Salesforce JWT auth settings.
type SalesforceConfig struct {
	ClientID  string  `yaml:"client_id" mapstructure:"client_id"`
	Username  string  `yaml:"username" mapstructure:"username"`
	KeyPath   string  `yaml:"key_path" mapstructure:"key_path"`
	LoginURL  string  `yaml:"login_url" mapstructure:"login_url"`
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// StoreConfig configures the workflow-run store backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// FinanceConfig configures financial-history extraction.
type FinanceConfig struct {
	// RetentionYears is the number of calendar years kept in addition to the
	// current one (5 keeps the window [Y-5, Y]).
	RetentionYears int `yaml:"retention_years" mapstructure:"retention_years"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	DebounceMillis int      `yaml:"debounce_millis" mapstructure:"debounce_millis"`
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
	v.SetEnvPrefix("PAPPERS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("pappers.base_url", "https://api.pappers.fr/v2")
	v.SetDefault("pappers.suggestions_url", "https://suggestions.pappers.fr/v2")
	v.SetDefault("pappers.suggestion_len", 10)
	v.SetDefault("pappers.rate_limit", 5.0)
	v.SetDefault("pappers.timeout_secs", 30)
	v.SetDefault("salesforce.login_url", "https://login.salesforce.com")
	v.SetDefault("salesforce.rate_limit", 10.0)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("finance.retention_years", 5)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.debounce_millis", 300)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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

// Validate checks that the settings required by the given mode are present.
// Mode "registry" needs only the Pappers token; mode "sync" additionally
// needs Salesforce credentials.
func (c *Config) Validate(mode string) error {
	if c.Pappers.APIToken == "" {
		return eris.New("config: pappers api token is required (PAPPERS_PAPPERS_API_TOKEN)")
	}
	if mode == "sync" {
		if c.Salesforce.ClientID == "" {
			return eris.New("config: salesforce client id is required (PAPPERS_SALESFORCE_CLIENT_ID)")
		}
		if c.Salesforce.Username == "" {
			return eris.New("config: salesforce username is required (PAPPERS_SALESFORCE_USERNAME)")
		}
		if c.Salesforce.KeyPath == "" {
			return eris.New("config: salesforce jwt key path is required (PAPPERS_SALESFORCE_KEY_PATH)")
		}
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
