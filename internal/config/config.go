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
	Data      DataConfig      `yaml:"data" mapstructure:"data"`
	Resources ResourcesConfig `yaml:"resources" mapstructure:"resources"`
	Classify  ClassifyConfig  `yaml:"classify" mapstructure:"classify"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// DataConfig locates input tables and the default parse output.
type DataConfig struct {
	BaseDir    string   `yaml:"base_dir" mapstructure:"base_dir"`
	Dir        string   `yaml:"dir" mapstructure:"dir"`
	Extensions []string `yaml:"extensions" mapstructure:"extensions"`
	Output     string   `yaml:"output" mapstructure:"output"`
	Charset    string   `yaml:"charset" mapstructure:"charset"`
}

// ResourcesConfig holds paths to the country and legal-suffix lists.
type ResourcesConfig struct {
	Countries string `yaml:"countries" mapstructure:"countries"`
	Legal     string `yaml:"legal" mapstructure:"legal"`
}

// ClassifyConfig holds the classification thresholds and parser tables.
type ClassifyConfig struct {
	PhoneOverride   float64           `yaml:"phone_override" mapstructure:"phone_override"`
	DateOverride    float64           `yaml:"date_override" mapstructure:"date_override"`
	CountryOverride float64           `yaml:"country_override" mapstructure:"country_override"`
	MinScore        float64           `yaml:"min_score" mapstructure:"min_score"`
	PhoneMinDigits  int               `yaml:"phone_min_digits" mapstructure:"phone_min_digits"`
	PhoneMaxDigits  int               `yaml:"phone_max_digits" mapstructure:"phone_max_digits"`
	DialCodes       map[string]string `yaml:"dial_codes" mapstructure:"dial_codes"`
	MaxConcurrency  int               `yaml:"max_concurrency" mapstructure:"max_concurrency"`
}

// StoreConfig configures the optional invocation history backend.
type StoreConfig struct {
	Driver         string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL    string `yaml:"database_url" mapstructure:"database_url"`
	RetryAttempts  int    `yaml:"retry_attempts" mapstructure:"retry_attempts"`
	RetryBackoffMs int    `yaml:"retry_backoff_ms" mapstructure:"retry_backoff_ms"`
}

// ServerConfig configures the HTTP tool server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	RateLimit      float64  `yaml:"rate_limit" mapstructure:"rate_limit"`
	Burst          int      `yaml:"burst" mapstructure:"burst"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
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
	v.SetEnvPrefix("COLTYPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

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

// SetDefaults registers every default value on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("data.base_dir", ".")
	v.SetDefault("data.dir", "data")
	v.SetDefault("data.extensions", []string{".csv"})
	v.SetDefault("data.output", "output.csv")
	v.SetDefault("data.charset", "")
	v.SetDefault("resources.countries", "data/countries.txt")
	v.SetDefault("resources.legal", "data/legal.txt")
	v.SetDefault("classify.phone_override", 0.8)
	v.SetDefault("classify.date_override", 0.8)
	v.SetDefault("classify.country_override", 0.8)
	v.SetDefault("classify.min_score", 0.3)
	v.SetDefault("classify.phone_min_digits", 7)
	v.SetDefault("classify.phone_max_digits", 15)
	v.SetDefault("classify.dial_codes", map[string]string{"1": "US", "44": "UK", "91": "India"})
	v.SetDefault("classify.max_concurrency", 4)
	v.SetDefault("store.driver", "none")
	v.SetDefault("store.database_url", "coltype.db")
	v.SetDefault("store.retry_attempts", 3)
	v.SetDefault("store.retry_backoff_ms", 100)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_limit", 20.0)
	v.SetDefault("server.burst", 40)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Default returns a Config populated only from defaults, ignoring files and
// environment. Useful in tests and for library callers.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	var cfg Config
	// Defaults are static; unmarshal cannot fail on them.
	_ = v.Unmarshal(&cfg)
	return &cfg
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

	// stdout carries tool responses; keep every log line on stderr.
	zapCfg.OutputPaths = []string{"stderr"}
	zapCfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
