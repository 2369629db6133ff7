// config.go - Handles configuration for the project

package config // Declares the package name

import ( // Import required packages
	"fmt"
	"log"
	"os"      // For reading environment variables
	"strconv" // For bool/int parsing
	"strings"
	"time" // For durations (token TTL, purge retention)

	"github.com/joho/godotenv" // Optional .env file
	"gopkg.in/yaml.v3"         // Optional YAML config file
)

type Config struct { // Config struct holds all configuration values
	Port    string // HTTP listen port
	GinMode string // gin mode (debug, release, test)

	DBDriver    string // "sqlite" or "postgres"
	DBPath      string // Path to the SQLite database file
	DatabaseURL string // Postgres DSN when DBDriver is postgres

	JWTSecret string        // Secret key for JWT signing
	JWTTTL    time.Duration // Lifetime of issued access tokens
	JWTIssuer string        // iss claim

	LogLevel  string // logrus level name
	LogFormat string // "text" or "json"

	ResetEnabled bool // Exposes the /reset side-channel; only e2e harnesses turn it on

	MQTTBroker      string // Address of the MQTT broker; empty disables the MQTT sink
	MQTTClientID    string
	MQTTTopicPrefix string

	PurgeSchedule  string        // cron spec; empty disables scheduled purge
	PurgeRetention time.Duration // How long soft-deleted rows are kept

	CreateAdmin   bool // Seed an admin user at startup
	AdminName     string
	AdminEmail    string
	AdminPassword string
}

// fileValues holds keys read from CONFIG_FILE. Environment variables always win.
var fileValues map[string]string

func Load() *Config { // Load reads config from environment variables or uses defaults
	_ = godotenv.Load() // .env is optional

	fileValues = nil
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		values, err := readFile(path)
		if err != nil {
			log.Printf("config: ignoring %s: %v", path, err)
		}
		fileValues = values
	}

	return &Config{
		Port:    getEnv("PORT", "8080"),
		GinMode: getEnv("GIN_MODE", "release"),

		DBDriver:    strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DBPath:      getEnv("DB_PATH", "data.db"), // Get DB path or use default
		DatabaseURL: getEnv("DATABASE_URL", ""),

		JWTSecret: getEnv("JWT_SECRET", "supersecret"), // Get JWT secret or use default
		JWTTTL:    getDuration("JWT_TTL", 24*time.Hour),
		JWTIssuer: getEnv("JWT_ISSUER", "go-blog-backend"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		ResetEnabled: getBool("RESET_ENABLED", false),

		MQTTBroker:      getEnv("MQTT_BROKER", ""),
		MQTTClientID:    getEnv("MQTT_CLIENT_ID", "go-blog-backend"),
		MQTTTopicPrefix: getEnv("MQTT_TOPIC_PREFIX", "blog"),

		PurgeSchedule:  getEnv("PURGE_SCHEDULE", ""),
		PurgeRetention: getDuration("PURGE_RETENTION", 7*24*time.Hour),

		CreateAdmin:   getBool("CREATE_ADMIN", false),
		AdminName:     getEnv("ADMIN_NAME", "Administrator"),
		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@example.com"),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
	}
}

// readFile parses a flat YAML mapping of KEY: value pairs.
func readFile(path string) (map[string]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	values := make(map[string]string, len(doc))
	for k, v := range doc {
		values[strings.ToUpper(k)] = fmt.Sprint(v)
	}
	return values, nil
}

func getEnv(key, fallback string) string { // Helper to get env var or fallback
	if value := strings.TrimSpace(os.Getenv(key)); value != "" { // If env var is set, use it
		return value
	}
	if value, ok := fileValues[key]; ok && value != "" {
		return value
	}
	return fallback // Otherwise, use fallback value
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(fallback)))
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, fallback.String()))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
