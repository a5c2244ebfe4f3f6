package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App      App
	HTTP     HTTP
	Probe    Probe
	Metrics  Metrics
	Log      Log
	Model    Model
	Postgres Postgres
	Redis    Redis
	Journal  Journal
}

type App struct {
	Name    string `env:"APP_NAME" envDefault:"iris-api"`
	Version string `env:"APP_VERSION" envDefault:"1.0.0"`
}

type HTTP struct {
	ListenAddress   string        `env:"HTTP_LISTEN_ADDRESS" envDefault:":8000"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	CORSOrigins     []string      `env:"HTTP_CORS_ORIGINS" envDefault:"*" envSeparator:","`
	LogFieldMaxLen  int           `env:"HTTP_LOG_FIELD_MAX_LEN" envDefault:"2048"`
	MaxBatchSize    int           `env:"HTTP_MAX_BATCH_SIZE" envDefault:"1000"`
	MaxBodyBytes    int64         `env:"HTTP_MAX_BODY_BYTES" envDefault:"262144"`
}

type Probe struct {
	ListenAddress string `env:"PROBE_LISTEN_ADDRESS" envDefault:":8081"`
}

type Metrics struct {
	// An empty address disables the metrics server.
	ListenAddress string `env:"METRICS_LISTEN_ADDRESS" envDefault:":9090"`
}

type Log struct {
	Level      string `env:"LOG_LEVEL" envDefault:"info"`
	Format     string `env:"LOG_FORMAT" envDefault:"text"`
	File       string `env:"LOG_FILE"`
	MaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" envDefault:"100"`
	MaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"3"`
	MaxAgeDays int    `env:"LOG_MAX_AGE_DAYS" envDefault:"28"`
}

type Model struct {
	Path     string        `env:"MODEL_PATH" envDefault:"model.json"`
	CacheTTL time.Duration `env:"MODEL_CACHE_TTL" envDefault:"10m"`
}

type Journal struct {
	Queue       string        `env:"JOURNAL_QUEUE" envDefault:"journal"`
	Concurrency int           `env:"JOURNAL_CONCURRENCY" envDefault:"4"`
	MaxRetry    int           `env:"JOURNAL_MAX_RETRY" envDefault:"5"`
	Buffer      int           `env:"JOURNAL_BUFFER" envDefault:"1024"`
	Timeout     time.Duration `env:"JOURNAL_TIMEOUT" envDefault:"2s"`
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	config.HTTP.CORSOrigins = trimAll(config.HTTP.CORSOrigins)

	return config, nil
}

// JournalEnabled reports whether both stores the journal needs are set.
func (c Config) JournalEnabled() bool {
	return c.Postgres.DSN != "" && c.Redis.Address != ""
}

func trimAll(values []string) []string {
	result := make([]string, 0, len(values))

	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}

	return result
}
