package api

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"

	userstoken "github.com/crafty-aquatics/storefront/internal/domains/users/adapters/token"
	platformkafka "github.com/crafty-aquatics/storefront/internal/platform/kafka"
	platformmongo "github.com/crafty-aquatics/storefront/internal/platform/mongo"
)

// Backend names accepted by PERSISTENCE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendMongo    = "mongo"
)

// DevJWTSecret signs tokens when JWT_SECRET is unset. Run logs a warning when it is used.
const DevJWTSecret = "crafty-aquatics-dev-secret"

// Config carries environment-driven settings for the storefront processes.
type Config struct {
	Port string

	Backend        string
	PostgresDSN    string
	SQLitePath     string
	MongoURI       string
	MongoDatabase  string
	ConnectTimeout time.Duration

	KafkaBrokers     []string
	KafkaTopicPrefix string

	JWTSecret  string
	JWTTTL     time.Duration
	SessionTTL time.Duration

	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool

	ReserveStock bool
	SeedDemoData bool
}

// UsingDevSecret reports whether tokens are signed with the built-in development secret.
func (c Config) UsingDevSecret() bool { return c.JWTSecret == DevJWTSecret }

// LoadConfig loads .env when present, reads environment variables, applies defaults and
// validates numeric and boolean values.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	cfg := Config{
		Port:              envDefault("PORT", "8080"),
		Backend:           strings.ToLower(envDefault("PERSISTENCE_BACKEND", BackendMemory)),
		PostgresDSN:       strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		SQLitePath:        envDefault("SQLITE_PATH", "storefront.db"),
		MongoURI:          strings.TrimSpace(os.Getenv("MONGO_URI")),
		MongoDatabase:     envDefault("MONGO_DATABASE", platformmongo.DefaultDatabase),
		KafkaBrokers:      splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopicPrefix:  envDefault("KAFKA_TOPIC_PREFIX", platformkafka.DefaultTopicPrefix),
		JWTSecret:         envDefault("JWT_SECRET", DevJWTSecret),
		TemporalAddress:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
	}
	switch cfg.Backend {
	case BackendMemory, BackendPostgres, BackendSQLite, BackendMongo:
	default:
		return Config{}, fmt.Errorf("PERSISTENCE_BACKEND must be one of memory, postgres, sqlite, mongo (got %q)", cfg.Backend)
	}

	var err error
	if cfg.ConnectTimeout, err = envDuration("PERSISTENCE_CONNECT_TIMEOUT", 5*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.JWTTTL, err = envDuration("JWT_TTL", userstoken.DefaultTTL); err != nil {
		return Config{}, err
	}
	hours, err := envPositiveInt("SESSION_TTL_HOURS", 24)
	if err != nil {
		return Config{}, err
	}
	cfg.SessionTTL = time.Duration(hours) * time.Hour
	if cfg.TemporalDisabled, err = envBool("TEMPORAL_DISABLED", false); err != nil {
		return Config{}, err
	}
	if cfg.ReserveStock, err = envBool("CHECKOUT_RESERVE_STOCK", true); err != nil {
		return Config{}, err
	}
	if cfg.SeedDemoData, err = envBool("SEED_DEMO_DATA", true); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration such as 5s or 24h", key)
	}
	return d, nil
}

func envPositiveInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}
	return n, nil
}

func envBool(key string, fallback bool) (bool, error) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	switch raw {
	case "":
		return fallback, nil
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%s must be a boolean", key)
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
