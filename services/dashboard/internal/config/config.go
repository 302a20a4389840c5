package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	SourceCSV        = "csv"
	SourceClickHouse = "clickhouse"
)

type Config struct {
	DatasetSource        string
	DatasetDir           string
	DatasetManifest      string
	TechnologyDelimiters string

	SampleSeed       uint64
	SampleSeeded     bool
	SampleSize       int
	BothSalaryPolicy string

	HTTPAddr         string
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration

	NATSURL         string
	NATSConnTimeout time.Duration
	EventsEnabled   bool

	ClickHouseAddr         string
	ClickHouseMaxOpenConns int
	ClickHouseMaxIdleConns int
	ClickHouseConnMaxLife  time.Duration
	ClickHouseUsername     string
	ClickHousePassword     string
	ClickHouseDatabase     string

	RedisEnabled    bool
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	CacheTTL        time.Duration
	CacheMaxEntries int

	OTELCollectorURL string
}

// LoadConfig reads the environment, after merging any .env file found in the
// working directory. Variables already set win over the file.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	config := &Config{
		DatasetSource:        getEnvString("DATASET_SOURCE", SourceCSV),
		DatasetDir:           getEnvString("DATASET_DIR", "./dataset"),
		DatasetManifest:      getEnvString("DATASET_MANIFEST", ""),
		TechnologyDelimiters: getEnvString("TECHNOLOGY_DELIMITERS", ",|"),

		SampleSize:       getEnvInt("SAMPLE_SIZE", 1000),
		BothSalaryPolicy: getEnvString("BOTH_SALARY_POLICY", "zero-fill"),

		HTTPAddr:         getEnvString("HTTP_ADDR", ":8080"),
		HTTPReadTimeout:  getEnvDuration("HTTP_READ_TIMEOUT", 10*time.Second),
		HTTPWriteTimeout: getEnvDuration("HTTP_WRITE_TIMEOUT", 30*time.Second),

		NATSURL:         getEnvString("NATS_URL", "nats://localhost:4222"),
		NATSConnTimeout: getEnvDuration("NATS_CONN_TIMEOUT", 10*time.Second),
		EventsEnabled:   getEnvBool("EVENTS_ENABLED", false),

		ClickHouseAddr:         getEnvString("CLICKHOUSE_ADDR", "localhost:9000"),
		ClickHouseMaxOpenConns: getEnvInt("CLICKHOUSE_MAX_OPEN_CONNS", 10),
		ClickHouseMaxIdleConns: getEnvInt("CLICKHOUSE_MAX_IDLE_CONNS", 5),
		ClickHouseConnMaxLife:  getEnvDuration("CLICKHOUSE_CONN_MAX_LIFE", time.Hour),
		ClickHouseUsername:     getEnvString("CLICKHOUSE_USERNAME", "default"),
		ClickHousePassword:     getEnvString("CLICKHOUSE_PASSWORD", ""),
		ClickHouseDatabase:     getEnvString("CLICKHOUSE_DATABASE", "itoffers"),

		RedisEnabled:    getEnvBool("REDIS_ENABLED", false),
		RedisAddr:       getEnvString("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnvString("REDIS_PASSWORD", ""),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		CacheTTL:        getEnvDuration("CACHE_TTL", 24*time.Hour),
		CacheMaxEntries: getEnvInt("CACHE_MAX_ENTRIES", 512),

		OTELCollectorURL: getEnvString("OTEL_COLLECTOR_URL", ""),
	}

	if value, exists := os.LookupEnv("SAMPLE_SEED"); exists && value != "" {
		seed, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("SAMPLE_SEED: %w", err)
		}
		config.SampleSeed, config.SampleSeeded = seed, true
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) Validate() error {
	switch c.DatasetSource {
	case SourceCSV, SourceClickHouse:
	default:
		return fmt.Errorf("DATASET_SOURCE must be %q or %q, got %q", SourceCSV, SourceClickHouse, c.DatasetSource)
	}
	if c.TechnologyDelimiters == "" {
		return errors.New("TECHNOLOGY_DELIMITERS must not be empty")
	}
	if c.SampleSize <= 0 {
		return fmt.Errorf("SAMPLE_SIZE must be positive, got %d", c.SampleSize)
	}
	return nil
}

func getEnvString(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
