// Package config provides centralized configuration management for the importer
// and its status server. Settings are read from environment variables with
// defaults and validated on startup so misconfiguration fails fast.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Import   ImportConfig
	Format   FormatConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 30s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"30s"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string (required)
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL" required:"true"`

	// MaxConns is the maximum number of connections in the pool (default: 10)
	MaxConns int `env:"DB_MAX_CONNS" default:"10"`

	// MinConns is the minimum number of connections to keep open (default: 2)
	MinConns int `env:"DB_MIN_CONNS" default:"2"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// ImportConfig holds address registry import settings.
type ImportConfig struct {
	// Month is the registry month as YYYYMM. Anything else means the current month.
	Month string `env:"ADDRESS_DATA_MONTH"`

	// Mode is the write mode for the shadow table: upsert or replace (default: upsert)
	Mode string `env:"ADDRESS_IMPORT_MODE" default:"upsert"`

	// ChunkSize is the number of documents per bulk insert (default: 5000)
	ChunkSize int `env:"ADDRESS_CHUNK_SIZE" default:"5000"`

	// CommitEveryBatches is how many flushed batches share one transaction (default: 40)
	CommitEveryBatches int `env:"ADDRESS_COMMIT_EVERY_BATCHES" default:"40"`

	// DropIndexes drops the shadow table search indexes while loading (default: true)
	DropIndexes bool `env:"ADDRESS_DROP_INDEXES" default:"true"`

	// CountLines runs a line-count pass so progress can report a percentage (default: false)
	CountLines bool `env:"ADDRESS_COUNT_LINES_FOR_PERCENT" default:"false"`

	// DownloadTimeout bounds the archive download (default: 30m)
	DownloadTimeout time.Duration `env:"ADDRESS_DOWNLOAD_TIMEOUT" default:"30m"`

	// DownloadLogEvery is the download progress log interval (default: 1.5s)
	DownloadLogEvery time.Duration `env:"ADDRESS_DOWNLOAD_LOG_EVERY" default:"1500ms"`

	// InsertLogEvery is the load progress log interval (default: 1.5s)
	InsertLogEvery time.Duration `env:"ADDRESS_INSERT_LOG_EVERY" default:"1500ms"`

	// BaseURL is the registry download endpoint
	BaseURL string `env:"ADDRESS_DOWNLOAD_BASE_URL" default:"https://business.juso.go.kr/api/jst/download"`

	// Encodings are the candidate text encodings, tried in order
	Encodings []string `env:"ADDRESS_ENCODINGS" default:"windows-949,cp949,euc-kr,utf-8"`

	// TempDir is where the archive is downloaded (default: OS temp dir)
	TempDir string `env:"ADDRESS_TEMP_DIR"`

	// CheckInterval is how often the server re-checks for a new month (default: 24h)
	CheckInterval time.Duration `env:"ADDRESS_CHECK_INTERVAL" default:"24h"`

	// RunOnStart runs the scheduler from the server process (default: false)
	RunOnStart bool `env:"ADDRESS_IMPORT_ON_START" default:"false"`
}

// FormatConfig holds the localized number prefix toggles.
type FormatConfig struct {
	MountainPrefixKo    bool `env:"ADDRESS_FORMAT_MOUNTAIN_PREFIX_KO" default:"true"`
	UndergroundPrefixKo bool `env:"ADDRESS_FORMAT_UNDERGROUND_PREFIX_KO" default:"true"`
	MountainWordEn      bool `env:"ADDRESS_FORMAT_MOUNTAIN_WORD_EN" default:"true"`
	UndergroundWordEn   bool `env:"ADDRESS_FORMAT_UNDERGROUND_WORD_EN" default:"false"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
