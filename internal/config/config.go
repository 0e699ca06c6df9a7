package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	Telemetry TelemetryConfig

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int

	Redis    RedisConfig
	AI       AIConfig
	Calendar CalendarConfig

	AlertingConfigPath string

	SnowflakeNode int64
	DefaultOrgID  int64
	SeedDemoData  bool
}

// TelemetryConfig feeds the logger and the OTLP exporters. Standard OTEL_*
// variables take precedence over the app-specific ones.
type TelemetryConfig struct {
	LogLevel      string
	LogFormat     string
	OtelEnabled   bool
	OTLPEndpoint  string
	OTLPProtocol  string
	SamplingRatio float64
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func (c RedisConfig) Enabled() bool {
	return strings.TrimSpace(c.Addr) != ""
}

type AIConfig struct {
	Enabled bool
	BaseURL string
	APIKey  string
	Model   string

	// Per-organization token bucket for suggestion calls.
	RatePerMinute float64
	Burst         int
}

type CalendarConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	GoogleAPIBaseURL   string
}

func (c CalendarConfig) Configured() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	apiKey := strings.TrimSpace(getenv("AI_API_KEY", ""))

	return Config{
		AppName:      getenv("APP_SERVICE", "mentorhub"),
		AppVersion:   getenv("APP_VERSION", "0.1.0"),
		Environment:  getenv("ENVIRONMENT", "development"),
		HTTPAddr:     getenv("HTTP_ADDR", ":8080"),

		Telemetry: TelemetryConfig{
			LogLevel:      strings.ToLower(strings.TrimSpace(getenv("LOG_LEVEL", "info"))),
			LogFormat:     strings.ToLower(strings.TrimSpace(getenv("LOG_FORMAT", "json"))),
			OtelEnabled:   getenvBool("OTEL_ENABLED", true),
			OTLPEndpoint:  strings.TrimSpace(getenv("OTEL_EXPORTER_OTLP_ENDPOINT", getenv("OTLP_ENDPOINT", "localhost:4317"))),
			OTLPProtocol:  strings.ToLower(strings.TrimSpace(getenv("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc"))),
			SamplingRatio: getenvFloat("OTEL_SAMPLING_RATIO", 0.1),
		},

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "mentorhub"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 20),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 300),
		DBConnMaxIdleTime: getenvInt("DATABASE_CONN_MAX_IDLE_TIME", 60),

		Redis: RedisConfig{
			Addr:     strings.TrimSpace(getenv("REDIS_ADDR", "")),
			Password: strings.TrimSpace(getenv("REDIS_PASSWORD", "")),
			DB:       getenvInt("REDIS_DB", 0),
		},
		AI: AIConfig{
			Enabled:       getenvBool("AI_ENABLED", apiKey != ""),
			BaseURL:       strings.TrimRight(getenv("AI_BASE_URL", "https://api.openai.com/v1"), "/"),
			APIKey:        apiKey,
			Model:         getenv("AI_MODEL", "gpt-4o-mini"),
			RatePerMinute: getenvFloat("AI_RATE_PER_MINUTE", 20),
			Burst:         getenvInt("AI_BURST", 5),
		},
		Calendar: CalendarConfig{
			GoogleClientID:     strings.TrimSpace(getenv("GOOGLE_CLIENT_ID", "")),
			GoogleClientSecret: strings.TrimSpace(getenv("GOOGLE_CLIENT_SECRET", "")),
			GoogleRedirectURL:  strings.TrimSpace(getenv("GOOGLE_REDIRECT_URL", "")),
			GoogleAPIBaseURL:   strings.TrimRight(getenv("GOOGLE_CALENDAR_API_URL", "https://www.googleapis.com/calendar/v3"), "/"),
		},

		AlertingConfigPath: getenv("ALERTING_CONFIG_PATH", ""),

		SnowflakeNode: int64(getenvInt("SNOWFLAKE_NODE", 1)),
		DefaultOrgID:  int64(getenvInt("DEFAULT_ORG_ID", 1)),
		SeedDemoData:  getenvBool("SEED_DEMO_DATA", false),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}
