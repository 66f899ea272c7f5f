package app

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/campainly/campaigner/pkg/constants"
	"github.com/campainly/campaigner/pkg/errors"
)

// Config holds the application configuration loaded from config files,
// environment variables and .env files.
type Config struct {
	// Global flags
	Verbose   bool
	Quiet     bool
	NoColor   bool
	NoPersist bool
	Format    string

	// Config file
	ConfigFile string

	// Backend and login
	APIURL         string
	AllowedOrigins []string
	CallbackAddr   string

	// StateFile is where credentials and the conversation are kept
	StateFile string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables (CAMPAIGNER_*)
// 3. .env files
// 4. Config file (~/.campaigner.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(os.Getenv("CAMPAIGNER_CONFIG"))
}

// LoadConfigFrom is LoadConfig with an explicit config file. An empty path
// searches the home and working directories for .campaigner.yaml; a given
// path must exist.
func LoadConfigFrom(configFile string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix("campaigner")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("api_url", constants.DefaultAPIURL)
	v.SetDefault("callback_addr", "127.0.0.1:0")
	v.SetDefault("state_file", defaultStateFile())

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, &errors.ConfigError{Component: "config", Message: "read " + configFile, Err: err}
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".campaigner")
		// A missing config file is fine.
		_ = v.ReadInConfig()
	}

	config := &Config{
		Verbose:   v.GetBool("verbose"),
		Quiet:     v.GetBool("quiet"),
		NoColor:   v.GetBool("no_color"),
		NoPersist: v.GetBool("no_persist"),
		Format:    v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		APIURL:         strings.TrimRight(v.GetString("api_url"), "/"),
		AllowedOrigins: splitList(v.GetString("allowed_origins")),
		CallbackAddr:   v.GetString("callback_addr"),
		StateFile:      v.GetString("state_file"),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", ""),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	// A YAML list in the config file arrives as a slice, not a string.
	if len(config.AllowedOrigins) == 0 {
		config.AllowedOrigins = v.GetStringSlice("allowed_origins")
	}

	return config, nil
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags so that flag values take
// precedence over config file and env vars. Boolean flags can only switch
// a setting on.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor, noPersist bool, format, logLevel, apiURL string) {
	c.Verbose = c.Verbose || verbose
	c.Quiet = c.Quiet || quiet
	c.NoColor = c.NoColor || noColor
	c.NoPersist = c.NoPersist || noPersist
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
	if apiURL != "" {
		c.APIURL = strings.TrimRight(apiURL, "/")
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local is loaded first because godotenv never overrides a variable
// that is already set.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

// defaultStateFile places the session file in the user config directory.
func defaultStateFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "campaigner", "state.yaml")
}

// splitList splits a comma separated value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
