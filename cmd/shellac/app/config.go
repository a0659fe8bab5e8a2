package app

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Configuration defaults.
const (
	defaultRegistryPath = "registry.yaml"
	defaultDefsPath     = "field_defs.py"
	defaultDocsPath     = "docs/fields.md"
	defaultBaselinePath = ".shellac/baselines.db"
	defaultStrategy     = "merge"
	defaultDebounce     = 250 * time.Millisecond
)

// Config holds the application configuration loaded from config files,
// environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Registry and artifact paths
	RegistryPath string
	DefsPath     string
	DocsPath     string
	BaselinePath string

	// Sync configuration
	Strategy      string
	WatchDebounce time.Duration

	// Music library database
	LibraryDSN string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Config file (~/.shellac.yaml or ./.shellac.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	// Load .env files before Viper env binding
	loadEnvFiles()

	viper.AutomaticEnv()
	viper.SetEnvPrefix("shellac")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	configFile := viper.GetString("config")
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".shellac")
	}

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()

	config := &Config{
		// Global flags (may be overridden by cobra flags later)
		Verbose: viper.GetBool("verbose"),
		Quiet:   viper.GetBool("quiet"),
		NoColor: viper.GetBool("no-color"),
		Format:  viper.GetString("format"),

		ConfigFile: viper.ConfigFileUsed(),

		RegistryPath: viper.GetString("registry_path"),
		DefsPath:     viper.GetString("defs_path"),
		DocsPath:     viper.GetString("docs_path"),
		BaselinePath: viper.GetString("baseline_path"),

		Strategy:      viper.GetString("strategy"),
		WatchDebounce: viper.GetDuration("watch_debounce"),

		LibraryDSN: viper.GetString("library_dsn"),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", ""),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	config.applyDefaults()

	return config, nil
}

// applyDefaults fills unset values.
func (c *Config) applyDefaults() {
	if c.RegistryPath == "" {
		c.RegistryPath = defaultRegistryPath
	}
	if c.DefsPath == "" {
		c.DefsPath = defaultDefsPath
	}
	if c.DocsPath == "" {
		c.DocsPath = defaultDocsPath
	}
	if c.BaselinePath == "" {
		c.BaselinePath = defaultBaselinePath
	}
	if c.Strategy == "" {
		c.Strategy = defaultStrategy
	}
	if c.WatchDebounce == 0 {
		c.WatchDebounce = defaultDebounce
	}
}

// UpdateFromFlags updates config values from parsed command flags. Called
// after cobra parses flags so flag values take precedence over config
// file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env.
func loadEnvFiles() {
	envFiles := []string{
		".env",
		".env.local",
	}

	for _, envFile := range envFiles {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
