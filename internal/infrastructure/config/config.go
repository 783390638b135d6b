package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultCORSOrigins are the local frontend dev servers allowed by default.
const DefaultCORSOrigins = "http://localhost:5173,http://localhost:5174,http://localhost:3000"

// Config holds all configuration for the application
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Movies   MoviesConfig   `mapstructure:"movies"`
	Logger   LoggerConfig   `mapstructure:"logger"`
	Security SecurityConfig `mapstructure:"security"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// MoviesConfig holds data file configuration
type MoviesConfig struct {
	DataFile string `mapstructure:"data_file"`
	// StrictNotFound makes an unknown id on PATCH a 404 instead of a silent success.
	StrictNotFound bool `mapstructure:"strict_not_found"`
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	Filename string `mapstructure:"filename"`
}

// SecurityConfig holds security-related configuration
type SecurityConfig struct {
	CORSAllowedOrigins string        `mapstructure:"cors_allowed_origins"`
	RateLimitRequests  int           `mapstructure:"rate_limit_requests"`
	RateLimitWindow    time.Duration `mapstructure:"rate_limit_window"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Load loads configuration from various sources
func Load() (*Config, error) {
	// Load .env file if it exists (ignore errors)
	_ = godotenv.Load()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()
	bindEnvVars()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	// App defaults
	viper.SetDefault("app.name", "Marvel Movie Guide API")
	viper.SetDefault("app.version", "1.0.0")
	viper.SetDefault("app.environment", "development")
	viper.SetDefault("app.debug", false)

	// Server defaults
	viper.SetDefault("server.port", 8000)
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "120s")
	viper.SetDefault("server.request_timeout", "30s")
	viper.SetDefault("server.shutdown_timeout", "10s")

	// Movies defaults
	viper.SetDefault("movies.data_file", "data/marvel_movies.json")
	viper.SetDefault("movies.strict_not_found", false)

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "json")
	viper.SetDefault("logger.output", "stdout")
	viper.SetDefault("logger.filename", "")

	// Security defaults
	viper.SetDefault("security.cors_allowed_origins", DefaultCORSOrigins)
	viper.SetDefault("security.rate_limit_requests", 100)
	viper.SetDefault("security.rate_limit_window", "1m")

	// Metrics defaults
	viper.SetDefault("metrics.enabled", true)
}

func bindEnvVars() {
	// App
	viper.BindEnv("app.name", "APP_NAME")
	viper.BindEnv("app.version", "APP_VERSION")
	viper.BindEnv("app.environment", "APP_ENVIRONMENT")
	viper.BindEnv("app.debug", "APP_DEBUG")

	// Server
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("server.host", "SERVER_HOST")
	viper.BindEnv("server.read_timeout", "SERVER_READ_TIMEOUT")
	viper.BindEnv("server.write_timeout", "SERVER_WRITE_TIMEOUT")
	viper.BindEnv("server.idle_timeout", "SERVER_IDLE_TIMEOUT")
	viper.BindEnv("server.request_timeout", "SERVER_REQUEST_TIMEOUT")
	viper.BindEnv("server.shutdown_timeout", "SERVER_SHUTDOWN_TIMEOUT")

	// Movies
	viper.BindEnv("movies.data_file", "DATA_FILE")
	viper.BindEnv("movies.strict_not_found", "STRICT_NOT_FOUND")

	// Logger
	viper.BindEnv("logger.level", "LOG_LEVEL")
	viper.BindEnv("logger.format", "LOG_FORMAT")
	viper.BindEnv("logger.output", "LOG_OUTPUT")
	viper.BindEnv("logger.filename", "LOG_FILENAME")

	// Security
	viper.BindEnv("security.cors_allowed_origins", "CORS_ALLOWED_ORIGINS")
	viper.BindEnv("security.rate_limit_requests", "RATE_LIMIT_REQUESTS")
	viper.BindEnv("security.rate_limit_window", "RATE_LIMIT_WINDOW")

	// Metrics
	viper.BindEnv("metrics.enabled", "ENABLE_METRICS")
}

func validateConfig(cfg *Config) error {
	if strings.TrimSpace(cfg.Movies.DataFile) == "" {
		return fmt.Errorf("movies data file path is required")
	}

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535")
	}

	if cfg.Security.RateLimitRequests <= 0 {
		return fmt.Errorf("rate limit requests must be positive")
	}

	if cfg.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("rate limit window must be positive")
	}

	switch cfg.Logger.Format {
	case "json", "console":
	default:
		return fmt.Errorf("unknown log format %q (want json or console)", cfg.Logger.Format)
	}

	if cfg.Logger.Output == "file" && cfg.Logger.Filename == "" {
		return fmt.Errorf("log filename is required when output is file")
	}

	return nil
}

// Address returns the host:port the server listens on
func (cfg *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
}

// AllowedOrigins splits the comma-separated CORS allow-list
func (cfg *SecurityConfig) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(cfg.CORSAllowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
