package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultFeedURL is the CNB daily exchange rate text endpoint used when FEED_URL is unset.
const DefaultFeedURL = "https://www.cnb.cz/cs/financni-trhy/devizovy-trh/kurzy-devizoveho-trhu/kurzy-devizoveho-trhu/denni_kurz.txt"

// Config holds the full application configuration loaded from environment variables or .env file.
//
// It is composed of smaller structs that represent different concerns of the system.
//
// Example ENV:
//
//	SERVER_PORT=8080
//	POSTGRES_HOST=localhost
//	POSTGRES_PORT=5432
//	POSTGRES_USER=admin
//	POSTGRES_PASSWORD=secret
//	POSTGRES_DB=cnb_rates
//	POSTGRES_SSLMODE=disable
//	FEED_TIMEOUT=10s
//	LOG_LEVEL=debug
//	RATE_LIMIT=60-M
//	CORS_ALLOWED_ORIGINS=https://a.example,https://b.example
type Config struct {
	Server    ServerConfig    // HTTP server configuration
	Postgres  PostgresConfig  // PostgreSQL connection settings
	Feed      FeedConfig      // CNB feed client settings
	Log       LogConfig       // logger settings
	RateLimit RateLimitConfig // per-IP API rate limit
	CORS      CORSConfig      // allowed browser origins
}

// ServerConfig holds HTTP server settings such as the port to listen on.
type ServerConfig struct {
	Port string // The TCP port the HTTP server will listen on (e.g., "8080")
}

// PostgresConfig defines connection details for PostgreSQL.
//
// Fields:
//   - Host: hostname of the database server.
//   - Port: port number of the database server (default 5432).
//   - User: username for authentication.
//   - Password: password for authentication.
//   - DBName: target database name.
//   - SSLMode: SSL mode (e.g., "disable", "require").
//   - URL: computed DSN used by database/sql to connect.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	URL      string
}

// FeedConfig configures the daily-rate feed client.
type FeedConfig struct {
	URL       string
	DateParam string // query parameter carrying DD.MM.YYYY
	Timeout   time.Duration
	UserAgent string
}

// LogConfig configures the global logger.
type LogConfig struct {
	Level  string
	Pretty bool
}

// RateLimitConfig holds a ulule/limiter formatted rate, e.g. "60-M".
type RateLimitConfig struct {
	Rate string
}

// CORSConfig lists the origins allowed to call the API; "*" allows any.
type CORSConfig struct {
	AllowedOrigins []string
}

// envFile is the dotenv file read by LoadConfig; tests point it elsewhere.
var envFile = ".env"

// LoadConfig builds the configuration from the .env file (if present) and
// environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Returns an error naming every missing required variable.
func LoadConfig() (*Config, error) {
	// .env never overrides variables already set in the environment
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Port: v.GetString("SERVER_PORT"),
		},
		Postgres: PostgresConfig{
			Host:     v.GetString("POSTGRES_HOST"),
			Port:     v.GetInt("POSTGRES_PORT"),
			User:     v.GetString("POSTGRES_USER"),
			Password: v.GetString("POSTGRES_PASSWORD"),
			DBName:   v.GetString("POSTGRES_DB"),
			SSLMode:  v.GetString("POSTGRES_SSLMODE"),
		},
		Feed: FeedConfig{
			URL:       v.GetString("FEED_URL"),
			DateParam: v.GetString("FEED_DATE_PARAM"),
			Timeout:   v.GetDuration("FEED_TIMEOUT"),
			UserAgent: v.GetString("FEED_USER_AGENT"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Pretty: v.GetBool("LOG_PRETTY"),
		},
		RateLimit: RateLimitConfig{
			Rate: v.GetString("RATE_LIMIT"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
	}
	cfg.Postgres.URL = cfg.Postgres.DSN()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")

	v.SetDefault("POSTGRES_HOST", "localhost")
	v.SetDefault("POSTGRES_PORT", 5432)
	v.SetDefault("POSTGRES_USER", "postgres")
	v.SetDefault("POSTGRES_PASSWORD", "postgres")
	v.SetDefault("POSTGRES_DB", "cnb_rates")
	v.SetDefault("POSTGRES_SSLMODE", "disable")

	v.SetDefault("FEED_URL", DefaultFeedURL)
	v.SetDefault("FEED_DATE_PARAM", "date")
	v.SetDefault("FEED_TIMEOUT", "10s")
	v.SetDefault("FEED_USER_AGENT", "cnbpulse/1.0")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", false)

	v.SetDefault("RATE_LIMIT", "60-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
}

// DSN builds the PostgreSQL connection URL, escaping credentials.
func (p PostgresConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.User, p.Password),
		Host:     p.Host + ":" + strconv.Itoa(p.Port),
		Path:     "/" + p.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(p.SSLMode),
	}
	return u.String()
}

// Validate ensures required variables are present.
func (c *Config) Validate() error {
	var missing []string

	if c.Server.Port == "" {
		missing = append(missing, "SERVER_PORT")
	}
	if c.Postgres.Host == "" {
		missing = append(missing, "POSTGRES_HOST")
	}
	if c.Postgres.Port == 0 {
		missing = append(missing, "POSTGRES_PORT")
	}
	if c.Postgres.User == "" {
		missing = append(missing, "POSTGRES_USER")
	}
	if c.Postgres.Password == "" {
		missing = append(missing, "POSTGRES_PASSWORD")
	}
	if c.Postgres.DBName == "" {
		missing = append(missing, "POSTGRES_DB")
	}
	if c.Feed.URL == "" {
		missing = append(missing, "FEED_URL")
	}
	if c.Feed.Timeout <= 0 {
		missing = append(missing, "FEED_TIMEOUT")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
