// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all service configuration. Every value comes from an EVLOG_*
// environment variable; either a full database URL or the discrete DB_*
// parameters must be provided.
type Config struct {
	// Database. DatabaseURL wins when set; otherwise the DSN is assembled
	// from the discrete parameters.
	DatabaseURL string `env:"EVLOG_DATABASE_URL"`
	DBHost      string `env:"EVLOG_DB_HOST" envDefault:"localhost"`
	DBPort      int    `env:"EVLOG_DB_PORT" envDefault:"5432"`
	DBUser      string `env:"EVLOG_DB_USER" envDefault:"evlog"`
	DBPassword  string `env:"EVLOG_DB_PASSWORD"`
	DBName      string `env:"EVLOG_DB_NAME" envDefault:"evlog"`

	// Connection pool bounds: PoolSize idle-capable connections plus up to
	// PoolOverflow extra under load.
	PoolSize     int `env:"EVLOG_DB_POOL_SIZE" envDefault:"5"`
	PoolOverflow int `env:"EVLOG_DB_POOL_OVERFLOW" envDefault:"10"`

	HTTPAddr string `env:"EVLOG_HTTP_ADDR" envDefault:":8080"`

	// Instance is the logical name of this process behind the load
	// balancer, attributed on every response and stored with every event.
	Instance string `env:"EVLOG_INSTANCE" envDefault:"unknown"`

	// Search mirror. An empty URL disables the mirror entirely.
	ElasticURL   string `env:"EVLOG_ELASTIC_URL"`
	ElasticIndex string `env:"EVLOG_ELASTIC_INDEX" envDefault:"events"`

	// Optional NATS fan-out. Empty = no events published.
	NATSURL string `env:"EVLOG_NATS_URL"`

	// Optional S3 archive. Enabled when both interval and bucket are set.
	ArchiveInterval   time.Duration `env:"EVLOG_ARCHIVE_INTERVAL" envDefault:"0"`
	ArchiveS3Bucket   string        `env:"EVLOG_ARCHIVE_S3_BUCKET"`
	ArchiveS3Key      string        `env:"EVLOG_ARCHIVE_S3_KEY" envDefault:"evlog/events.jsonl"`
	ArchiveS3Region   string        `env:"EVLOG_ARCHIVE_S3_REGION" envDefault:"us-east-1"`
	ArchiveS3Endpoint string        `env:"EVLOG_ARCHIVE_S3_ENDPOINT"`
}

// Load parses the environment into a Config. When EVLOG_DATABASE_URL is set,
// the discrete DB fields are backfilled from it so connection hints stay
// accurate.
func Load() (*Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if c.DatabaseURL != "" {
		if err := c.fillFromURL(); err != nil {
			return nil, err
		}
	}

	return &c, nil
}

// DSN returns the lib/pq connection string.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.DBUser, c.DBPassword),
		Host:   fmt.Sprintf("%s:%d", c.DBHost, c.DBPort),
		Path:   "/" + c.DBName,
	}
	q := u.Query()
	q.Set("sslmode", "disable")
	u.RawQuery = q.Encode()
	return u.String()
}

// RedactedDSN returns the DSN with any password replaced, safe for logs and
// debug output.
func (c *Config) RedactedDSN() string {
	u, err := url.Parse(c.DSN())
	if err != nil {
		return "(unparseable dsn)"
	}
	if u.User != nil {
		if _, has := u.User.Password(); has {
			u.User = url.UserPassword(u.User.Username(), "xxxxx")
		}
	}
	return u.String()
}

// ConnHint holds non-sensitive connection parameters surfaced on readiness
// failures so a load balancer operator can locate the database. Never
// includes credentials.
type ConnHint struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Database string `json:"database"`
}

// Hint returns the sanitized connection hint for this configuration.
func (c *Config) Hint() ConnHint {
	return ConnHint{Host: c.DBHost, Port: c.DBPort, Database: c.DBName}
}

func (c *Config) fillFromURL() error {
	u, err := url.Parse(c.DatabaseURL)
	if err != nil {
		return fmt.Errorf("parse EVLOG_DATABASE_URL: %w", err)
	}
	if h := u.Hostname(); h != "" {
		c.DBHost = h
	}
	if p := u.Port(); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return fmt.Errorf("parse EVLOG_DATABASE_URL port: %w", err)
		}
		c.DBPort = port
	}
	if u.User != nil && u.User.Username() != "" {
		c.DBUser = u.User.Username()
	}
	if len(u.Path) > 1 {
		c.DBName = u.Path[1:]
	}
	return nil
}
