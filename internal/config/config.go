package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"

	RateLimitBackendMemory = "memory"
	RateLimitBackendRedis  = "redis"
)

type Config struct {
	Port string `yaml:"port"`

	PostgresAddress  string `yaml:"postgres_address"`
	PostgresPort     string `yaml:"postgres_port"`
	PostgresDB       string `yaml:"postgres_db"`
	PostgresUsername string `yaml:"postgres_username"`
	PostgresPassword string `yaml:"postgres_password"`
	DBConnectRetries int    `yaml:"db_connect_retries"`
	MigrateOnStart   bool   `yaml:"migrate_on_start"`

	// LedgerBackend selects the ledger store: postgres or memory.
	LedgerBackend  string `yaml:"ledger_backend"`
	LedgerTimezone string `yaml:"ledger_timezone"`
	LedgerCurrency string `yaml:"ledger_currency"`

	JWTSecret string        `yaml:"jwt_secret"`
	JWTTTL    time.Duration `yaml:"jwt_ttl"`

	RedisAddress  string `yaml:"redis_address"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`

	RateLimitBackend  string        `yaml:"rate_limit_backend"`
	RateLimitRequests int           `yaml:"rate_limit_requests"`
	RateLimitWindow   time.Duration `yaml:"rate_limit_window"`

	// SummaryCacheTTL enables the redis summary cache when positive.
	SummaryCacheTTL time.Duration `yaml:"summary_cache_ttl"`

	ClassifierModelPath string `yaml:"classifier_model_path"`
	ClassifierMetaPath  string `yaml:"classifier_meta_path"`

	OperatorWorkers int      `yaml:"operator_workers"`
	CORSOrigins     []string `yaml:"cors_origins"`
	LogLevel        string   `yaml:"log_level"`
}

// ProcessEnvironmentVariables builds the configuration from defaults, an
// optional YAML file named by CONFIG_FILE and the environment, in that order.
// A .env file in the working directory is loaded first when present.
func ProcessEnvironmentVariables() (*Config, error) {
	_ = godotenv.Load()

	// In all cases the default behavior should be for the docker compose setup
	env := Config{
		Port:                "9446",
		PostgresAddress:     "localhost",
		PostgresPort:        "5433",
		PostgresDB:          "postgres",
		PostgresUsername:    "postgres",
		PostgresPassword:    "testpassword",
		DBConnectRetries:    5,
		LedgerBackend:       BackendPostgres,
		LedgerTimezone:      "Asia/Jakarta",
		LedgerCurrency:      "IDR",
		JWTSecret:           "change-me",
		JWTTTL:              24 * time.Hour,
		RateLimitBackend:    RateLimitBackendMemory,
		RateLimitRequests:   60,
		RateLimitWindow:     60 * time.Second,
		SummaryCacheTTL:     30 * time.Second,
		ClassifierModelPath: "models/classifier.gob",
		ClassifierMetaPath:  "models/classifier_meta.yaml",
		OperatorWorkers:     1,
		CORSOrigins:         []string{"*"},
		LogLevel:            "info",
	}

	if path := os.Getenv("CONFIG_FILE"); len(path) != 0 {
		if err := env.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := env.applyEnvironment(); err != nil {
		return nil, err
	}

	return &env, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnvironment() error {
	setString(&c.Port, "HTTP_PORT")
	setString(&c.PostgresAddress, "POSTGRES_ADDRESS")
	setString(&c.PostgresPort, "POSTGRES_PORT")
	setString(&c.PostgresDB, "POSTGRES_DB")
	setString(&c.PostgresUsername, "POSTGRES_USERNAME")
	setString(&c.PostgresPassword, "POSTGRES_PASSWORD")
	setString(&c.LedgerBackend, "LEDGER_BACKEND")
	setString(&c.LedgerTimezone, "LEDGER_TIMEZONE")
	setString(&c.LedgerCurrency, "LEDGER_CURRENCY")
	setString(&c.JWTSecret, "JWT_SECRET")
	setString(&c.RedisAddress, "REDIS_ADDRESS")
	setString(&c.RedisPassword, "REDIS_PASSWORD")
	setString(&c.RateLimitBackend, "RATE_LIMIT_BACKEND")
	setString(&c.ClassifierModelPath, "CLASSIFIER_MODEL_PATH")
	setString(&c.ClassifierMetaPath, "CLASSIFIER_META_PATH")
	setString(&c.LogLevel, "LOG_LEVEL")

	if origins := os.Getenv("CORS_ORIGINS"); len(origins) != 0 {
		c.CORSOrigins = splitList(origins)
	}

	var errs []error
	errs = append(errs,
		setInt(&c.DBConnectRetries, "DB_CONNECT_RETRIES"),
		setInt(&c.RedisDB, "REDIS_DB"),
		setInt(&c.RateLimitRequests, "RATE_LIMIT_REQUESTS"),
		setInt(&c.OperatorWorkers, "OPERATOR_WORKERS"),
		setBool(&c.MigrateOnStart, "MIGRATE_ON_START"),
		setDuration(&c.JWTTTL, "JWT_TTL"),
		setDuration(&c.RateLimitWindow, "RATE_LIMIT_WINDOW"),
		setDuration(&c.SummaryCacheTTL, "SUMMARY_CACHE_TTL"),
	)
	return errors.Join(errs...)
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if c.LedgerBackend != BackendPostgres && c.LedgerBackend != BackendMemory {
		errs = append(errs, fmt.Errorf("LEDGER_BACKEND must be %q or %q, got %q", BackendPostgres, BackendMemory, c.LedgerBackend))
	}
	if _, err := time.LoadLocation(c.LedgerTimezone); err != nil {
		errs = append(errs, fmt.Errorf("LEDGER_TIMEZONE %q: %w", c.LedgerTimezone, err))
	}
	if len(c.LedgerCurrency) == 0 {
		errs = append(errs, errors.New("LEDGER_CURRENCY is required"))
	}
	if len(c.JWTSecret) == 0 {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.JWTTTL <= 0 {
		errs = append(errs, errors.New("JWT_TTL must be positive"))
	}
	if c.RateLimitRequests < 1 {
		errs = append(errs, errors.New("RATE_LIMIT_REQUESTS must be at least 1"))
	}
	if c.RateLimitWindow <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_WINDOW must be positive"))
	}
	switch c.RateLimitBackend {
	case RateLimitBackendMemory:
	case RateLimitBackendRedis:
		if len(c.RedisAddress) == 0 {
			errs = append(errs, errors.New("RATE_LIMIT_BACKEND=redis requires REDIS_ADDRESS"))
		}
	default:
		errs = append(errs, fmt.Errorf("RATE_LIMIT_BACKEND must be %q or %q, got %q", RateLimitBackendMemory, RateLimitBackendRedis, c.RateLimitBackend))
	}
	if c.OperatorWorkers < 1 {
		errs = append(errs, errors.New("OPERATOR_WORKERS must be at least 1"))
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Errorf("HTTP_PORT %q is not a number", c.Port))
	}

	return errors.Join(errs...)
}

// PostgresURL is the connection string for the configured database.
func (c *Config) PostgresURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.PostgresUsername, c.PostgresPassword),
		Host:     c.PostgresAddress + ":" + c.PostgresPort,
		Path:     "/" + c.PostgresDB,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// Redacted returns a copy safe to log.
func (c *Config) Redacted() Config {
	out := *c
	if len(out.PostgresPassword) != 0 {
		out.PostgresPassword = "***"
	}
	if len(out.RedisPassword) != 0 {
		out.RedisPassword = "***"
	}
	if len(out.JWTSecret) != 0 {
		out.JWTSecret = "***"
	}
	return out
}

func setString(target *string, key string) {
	if value := os.Getenv(key); len(value) != 0 {
		*target = value
	}
}

func setInt(target *int, key string) error {
	value := os.Getenv(key)
	if len(value) == 0 {
		return nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*target = parsed
	return nil
}

func setBool(target *bool, key string) error {
	value := os.Getenv(key)
	if len(value) == 0 {
		return nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*target = parsed
	return nil
}

func setDuration(target *time.Duration, key string) error {
	value := os.Getenv(key)
	if len(value) == 0 {
		return nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*target = parsed
	return nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); len(trimmed) != 0 {
			out = append(out, trimmed)
		}
	}
	return out
}
