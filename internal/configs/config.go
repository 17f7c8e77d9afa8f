package configs

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type RESTconfig struct {
	PORT           string
	AllowedOrigins []string
}

type PostgresConfig struct {
	// DatabaseURL is optional: without it the service runs scrape-only, the
	// similarity endpoint is disabled and batches are not persisted.
	DatabaseURL string
}

type RabbitMQConfig struct {
	// URL is optional: without it no search-completed events are published.
	URL      string
	Exchange string
}

type StdoutLogConfig struct {
	Level string
}

type FluentBitConfig struct {
	Host    string
	Port    int
	Enabled bool
	Level   string
}

type ScraperConfig struct {
	MaxPages        int
	SourceTimeoutMs int
	// SourcesFile overrides the embedded source profile table.
	SourcesFile string
	// LocationsFile overrides the embedded city catalog.
	LocationsFile string
}

type BrowserConfig struct {
	Enabled         bool
	RenderTimeoutMs int
	MaxConcurrent   int
}

type ExportConfig struct {
	// Dir is optional: empty disables the file exporter.
	Dir string
}

// AppConfig holds the whole application configuration.
type AppConfig struct {
	AppName      string
	Rest         RESTconfig
	Postgres     PostgresConfig
	RabbitMQ     RabbitMQConfig
	FluentBit    FluentBitConfig
	StdoutLogger StdoutLogConfig
	Scraper      ScraperConfig
	Browser      BrowserConfig
	Export       ExportConfig
}

// LoadConfig loads configuration from environment variables. A missing .env
// file is not an error, the environment may be set by the orchestrator.
func LoadConfig(envPath ...string) (*AppConfig, error) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath[0])
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		log.Printf("Info: Could not load .env file (path: %v): %v.\n", envPath, err)
	}

	cfg := &AppConfig{}

	cfg.AppName = getEnvAsString("APP_NAME", "arriendo-search-service")

	cfg.Rest.PORT = getEnvAsString("PORT", "8080")
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		cfg.Rest.AllowedOrigins = splitAndTrim(origins)
	}

	cfg.Postgres.DatabaseURL = os.Getenv("DATABASE_URL")

	cfg.RabbitMQ.URL = os.Getenv("RABBITMQ_URL")
	cfg.RabbitMQ.Exchange = getEnvAsString("RABBITMQ_EXCHANGE", "search.events")

	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = os.Getenv("FLUENTBIT_HOST")
		if cfg.FluentBit.Host == "" {
			log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}
		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
		cfg.FluentBit.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", "info")
	}

	cfg.StdoutLogger.Level = getEnvAsString("STDOUT_LOG_LEVEL", "debug")

	cfg.Scraper.MaxPages = getEnvAsInt("SCRAPER_MAX_PAGES", 3)
	cfg.Scraper.SourceTimeoutMs = getEnvAsInt("SCRAPER_SOURCE_TIMEOUT_MS", 45000)
	cfg.Scraper.SourcesFile = os.Getenv("SCRAPER_SOURCES_FILE")
	cfg.Scraper.LocationsFile = os.Getenv("SCRAPER_LOCATIONS_FILE")

	cfg.Browser.Enabled = getEnvAsBool("BROWSER_ENABLED", true)
	cfg.Browser.RenderTimeoutMs = getEnvAsInt("BROWSER_RENDER_TIMEOUT_MS", 30000)
	cfg.Browser.MaxConcurrent = getEnvAsInt("BROWSER_MAX_CONCURRENT", 2)

	cfg.Export.Dir = os.Getenv("EXPORT_DIR")

	return cfg, nil
}

func splitAndTrim(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt reads an env var as int, logging and defaulting on parse
// failure.
func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as int: %v. Using default value: %d\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as bool: %v. Using default value: %t\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valBool
}
