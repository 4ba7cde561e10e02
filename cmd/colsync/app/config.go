package app

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/colsync/internal/catalogs"
	"github.com/agentstation/colsync/pkg/constants"
	"github.com/agentstation/colsync/pkg/errors"
)

// EnvPrefix prefixes every environment variable read by the CLI.
const EnvPrefix = "COLSYNC"

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Catalog backend
	CatalogDriver string
	CatalogDSN    string

	// Matching and apply tuning
	MaxDistance      int
	MatchConcurrency int
	ApplyConcurrency int
	ReadTimeout      time.Duration

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables (COLSYNC_*)
// 3. .env files
// 4. Config file (./.colsync.yaml or ~/.colsync.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	return loadConfig(viper.New(), "")
}

// LoadConfigFile is LoadConfig with an explicit config file.
func LoadConfigFile(path string) (*Config, error) {
	return loadConfig(viper.New(), path)
}

func loadConfig(v *viper.Viper, configFile string) (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if configFile == "" {
		configFile = v.GetString("config")
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("config", "cannot read "+configFile, err)
		}
	} else {
		v.SetConfigType("yaml")
		v.SetConfigName(".colsync")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		// Read config file (ignore error if not found)
		_ = v.ReadInConfig()
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no-color"),
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		CatalogDriver: v.GetString("catalog.driver"),
		CatalogDSN:    v.GetString("catalog.dsn"),

		MaxDistance:      v.GetInt("match.max_distance"),
		MatchConcurrency: v.GetInt("match.concurrency"),
		ApplyConcurrency: v.GetInt("apply.concurrency"),
		ReadTimeout:      v.GetDuration("catalog.read_timeout"),

		LogLevel:  v.GetString("log.level"),
		LogFormat: v.GetString("log.format"),
		LogOutput: v.GetString("log.output"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("catalog.driver", string(catalogs.Embedded))
	v.SetDefault("catalog.read_timeout", constants.ReadSchemaTimeout)
	v.SetDefault("match.max_distance", constants.DefaultMaxDistance)
	v.SetDefault("match.concurrency", constants.DefaultMatchConcurrency)
	v.SetDefault("apply.concurrency", constants.DefaultApplyConcurrency)
	v.SetDefault("log.format", "auto")
	v.SetDefault("log.output", "stderr")
}

// Validate checks values that cannot be corrected later.
func (c *Config) Validate() error {
	if _, err := catalogs.ParseDriver(c.CatalogDriver); err != nil {
		return err
	}
	if c.MaxDistance < 0 {
		return errors.NewValidationError("match.max_distance", c.MaxDistance, "must not be negative")
	}
	if c.MatchConcurrency < 1 {
		return errors.NewValidationError("match.concurrency", c.MatchConcurrency, "must be at least 1")
	}
	if c.ApplyConcurrency < 1 {
		return errors.NewValidationError("apply.concurrency", c.ApplyConcurrency, "must be at least 1")
	}
	if c.ReadTimeout <= 0 {
		return errors.NewValidationError("catalog.read_timeout", c.ReadTimeout, "must be positive")
	}
	return nil
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel, driver, dsn string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
	if driver != "" {
		c.CatalogDriver = driver
	}
	if dsn != "" {
		c.CatalogDSN = dsn
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env; neither overrides the real environment.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		if _, err := os.Stat(filepath.Clean(envFile)); err == nil {
			_ = godotenv.Load(envFile)
		}
	}
}
