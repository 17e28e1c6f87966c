package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Issuer         string        // Optional: issuer claim for session tokens (default: helpdesk)
	BootstrapToken string        // Optional: token required to create the first coordinator
	SessionTTL     time.Duration // Optional: session token lifetime (default: 12h)
	SigningKeyFile string        // Optional: Ed25519 PEM key file, generated when missing. Empty means ephemeral keys.
	PepperFile     string        // Optional: path to file containing pepper for password hashing (default: ./pepper)

	StoreDriver  string // Optional: sqlite or postgres (default: sqlite)
	DatabaseFile string // Optional: SQLite database file (default: ./helpdesk.db)
	DatabaseURL  string // Required for postgres: connection string

	NotifySink      string        // Optional: log, expo or amqp (default: log)
	ExpoHost        string        // Optional: Expo push host (default: https://exp.host)
	ExpoAccessToken string        // Optional: Expo access token
	AMQPURL         string        // Required for amqp: broker URL
	AMQPExchange    string        // Optional: topic exchange (default: helpdesk.events)
	PollInterval    time.Duration // Optional: new request poll interval (default: 10s)

	CORSOrigins         []string      // Optional: allowed origins, comma separated (default: *)
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

// LoadConfig reads the environment, after loading a .env file when one is
// present in the working directory.
func LoadConfig() Config {
	_ = godotenv.Load()

	return Config{
		Issuer:         getEnvOrDefault("HELPDESK_ISSUER", "helpdesk"),
		BootstrapToken: os.Getenv("HELPDESK_BOOTSTRAP_TOKEN"),
		SessionTTL:     getEnvDurationOrDefault("HELPDESK_SESSION_TTL", 12*time.Hour),
		SigningKeyFile: os.Getenv("HELPDESK_SIGNING_KEY_FILE"),
		PepperFile:     getEnvOrDefault("HELPDESK_PEPPER_FILE", "pepper"),

		StoreDriver:  getEnvOrDefault("HELPDESK_STORE", "sqlite"),
		DatabaseFile: getEnvOrDefault("HELPDESK_DATABASE_FILE", "helpdesk.db"),
		DatabaseURL:  os.Getenv("HELPDESK_DATABASE_URL"),

		NotifySink:      getEnvOrDefault("HELPDESK_NOTIFY_SINK", "log"),
		ExpoHost:        os.Getenv("HELPDESK_EXPO_HOST"),
		ExpoAccessToken: os.Getenv("HELPDESK_EXPO_ACCESS_TOKEN"),
		AMQPURL:         os.Getenv("HELPDESK_AMQP_URL"),
		AMQPExchange:    os.Getenv("HELPDESK_AMQP_EXCHANGE"),
		PollInterval:    getEnvDurationOrDefault("HELPDESK_POLL_INTERVAL", 10*time.Second),

		CORSOrigins:         getEnvListOrDefault("HELPDESK_CORS_ORIGINS", nil),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are seconds.
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}

func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
