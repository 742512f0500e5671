package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from config files,
// environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool

	// Config file
	ConfigFile string

	// Identity: the user whose collection the CLI operates on. Stands in
	// for the managed identity provider.
	UserID string

	// Storage. An empty DSN selects the in-memory stores (useful for
	// browsing the catalog without a database).
	DatabaseDSN string
	BlobDir     string
	BlobBaseURL string
	BlobSecret  string

	// Providers
	PTCGAPIKey    string
	PTCGBaseURL   string
	TCGdexBaseURL string

	// Logging configuration
	LogLevel  string
	LogFormat string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Config file (~/.cardbinder.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	viper.SetEnvPrefix("cardbinder")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	bindUpstreamKeys()

	configFile := viper.GetString("config")
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.AddConfigPath(".")
			viper.SetConfigType("yaml")
			viper.SetConfigName(".cardbinder")
		}
	}

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()

	config := &Config{
		Verbose: viper.GetBool("verbose"),
		Quiet:   viper.GetBool("quiet"),

		ConfigFile: viper.ConfigFileUsed(),

		UserID: viper.GetString("user"),

		DatabaseDSN: viper.GetString("database_dsn"),
		BlobDir:     viper.GetString("blob_dir"),
		BlobBaseURL: viper.GetString("blob_base_url"),
		BlobSecret:  viper.GetString("blob_secret"),

		PTCGAPIKey:    os.Getenv("PTCG_API_KEY"),
		PTCGBaseURL:   viper.GetString("ptcg_base_url"),
		TCGdexBaseURL: viper.GetString("tcgdex_base_url"),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
	}

	if config.BlobDir == "" {
		config.BlobDir = defaultBlobDir()
	}
	if config.BlobBaseURL == "" {
		config.BlobBaseURL = "https://localhost/exports"
	}
	if config.BlobSecret == "" {
		config.BlobSecret = "cardbinder-dev-secret"
	}

	return config, nil
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

// bindUpstreamKeys explicitly binds upstream credential variables so .env
// values are visible through viper.
func bindUpstreamKeys() {
	for _, key := range []string{"PTCG_API_KEY", "CARDBINDER_DATABASE_DSN"} {
		_ = viper.BindEnv(key)
	}
}

// defaultBlobDir places export artifacts under the user cache directory.
func defaultBlobDir() string {
	if cache, err := os.UserCacheDir(); err == nil {
		return cache + "/cardbinder/exports"
	}
	return ".cardbinder-exports"
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
