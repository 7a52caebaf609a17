// Package config provides centralized configuration management for the explorer.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import "time"

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Data     DataConfig
	Database DatabaseConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
	Metrics  MetricsConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading a request (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing a response (default: 60s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 30s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"30s"`
}

// DataConfig locates the three input tables. Each table is read from its
// local path first and from its URL if the file is unavailable.
type DataConfig struct {
	InstitutionsPath string `env:"DATA_INSTITUTIONS_PATH" default:"reportcard.csv"`
	InstitutionsURL  string `env:"DATA_INSTITUTIONS_URL" default:"https://raw.githubusercontent.com/LastMileNow/opendata/main/reportcard.csv"`

	// The program (major) table is published as dict.csv.
	ProgramsPath string `env:"DATA_PROGRAMS_PATH" default:"dict.csv"`
	ProgramsURL  string `env:"DATA_PROGRAMS_URL" default:"https://raw.githubusercontent.com/LastMileNow/opendata/main/dict.csv"`

	DictionaryPath string `env:"DATA_DICTIONARY_PATH" default:"CollegeScorecardDataDictionary.csv"`
	DictionaryURL  string `env:"DATA_DICTIONARY_URL" default:"https://raw.githubusercontent.com/LastMileNow/opendata/main/CollegeScorecardDataDictionary.csv"`

	// FetchTimeout bounds each remote download (default: 60s)
	FetchTimeout time.Duration `env:"DATA_FETCH_TIMEOUT" default:"60s"`

	// MaxDownloadBytes caps the size of any single source (default: 512MB)
	MaxDownloadBytes int64 `env:"DATA_MAX_DOWNLOAD_BYTES" default:"536870912"`
}

// DatabaseConfig holds the optional read-only Postgres source.
// When URL is empty the database is not used.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// InstitutionsTable is the table read for institutions (default: institutions)
	InstitutionsTable string `env:"DB_INSTITUTIONS_TABLE" default:"institutions"`

	// ProgramsTable is the table read for programs (default: programs)
	ProgramsTable string `env:"DB_PROGRAMS_TABLE" default:"programs"`

	// MaxConns is the maximum number of connections in the pool (default: 4)
	MaxConns int `env:"DB_MAX_CONNS" default:"4"`

	// MinConns is the minimum number of connections to keep open (default: 0)
	MinConns int `env:"DB_MIN_CONNS" default:"0"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`
}

// Enabled reports whether a database source is configured.
func (c *DatabaseConfig) Enabled() bool {
	return c.URL != ""
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 120)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"120"`

	// PlotLimit is requests per minute for SVG rendering endpoints (default: 30)
	PlotLimit int `env:"RATE_LIMIT_PLOT" default:"30"`

	// PlotConcurrency bounds plots rendered at once, whether or not rate
	// limiting is enabled (default: 4)
	PlotConcurrency int `env:"PLOT_CONCURRENCY" default:"4"`

	// PlotWait is how long a plot waits for a render slot (default: 10s)
	PlotWait time.Duration `env:"PLOT_WAIT" default:"10s"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs or addresses
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// MetricsConfig holds Prometheus exposition settings.
type MetricsConfig struct {
	// Enabled mounts the metrics handler (default: true)
	Enabled bool `env:"METRICS_ENABLED" default:"true"`

	// Path is where metrics are served (default: /metrics)
	Path string `env:"METRICS_PATH" default:"/metrics"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	if c.Host == "" {
		return ":" + itoa(c.Port)
	}
	return c.Host + ":" + itoa(c.Port)
}

// itoa converts an int to string without importing strconv in this file.
func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var b [20]byte
	n := len(b)
	neg := i < 0
	if neg {
		i = -i
	}
	for i > 0 {
		n--
		b[n] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		n--
		b[n] = '-'
	}
	return string(b[n:])
}
