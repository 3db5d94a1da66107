package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// Config holds the application's configuration.
type Config struct {
	Port string

	// Backend REST API the dashboard reads from.
	APIURL         string
	BackendTimeout time.Duration
	BackendRetries int

	AllowedOrigins []string

	// JWTSecret enables signature validation of backend tokens when set.
	JWTSecret   string
	JWTIssuer   string
	JWTAudience string
	SessionTTL  time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	InfluxDBURL    string
	InfluxDBToken  string
	InfluxDBOrg    string
	InfluxDBBucket string

	CacheTTL time.Duration
	TimeZone string
}

// InfluxEnabled reports whether the reading archive is configured.
func (c Config) InfluxEnabled() bool {
	return c.InfluxDBURL != ""
}

// Location is the zone dashboard dates are bucketed in. FromEnv has
// already checked TimeZone, UTC is only a fallback for hand-built configs.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LoadConfig loads the configuration from environment variables.
func LoadConfig() (Config, error) {
	//load env variables
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, relying on system environment variables")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function, applying defaults.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		Port:           withDefault(getenv("PORT"), "8000"),
		APIURL:         strings.TrimRight(getenv("API_URL"), "/"),
		AllowedOrigins: splitList(withDefault(getenv("CORS_ALLOWED_ORIGINS"), "http://localhost:5173")),
		JWTSecret:      getenv("JWT_SECRET"),
		JWTIssuer:      withDefault(getenv("JWT_ISSUER"), "eurbana-api"),
		JWTAudience:    withDefault(getenv("JWT_AUDIENCE"), "eurbana-dashboard"),
		RedisAddr:      getenv("REDIS_ADDR"),
		RedisPassword:  getenv("REDIS_PASSWORD"),
		InfluxDBURL:    getenv("INFLUXDB_URL"),
		InfluxDBToken:  getenv("INFLUXDB_TOKEN"),
		InfluxDBOrg:    getenv("INFLUXDB_ORG"),
		InfluxDBBucket: withDefault(getenv("INFLUXDB_BUCKET"), "consumo"),
		TimeZone:       withDefault(getenv("DASHBOARD_TIMEZONE"), "America/Mexico_City"),
	}
	if cfg.APIURL == "" {
		return Config{}, fmt.Errorf("backend configuration is incomplete. Please set the API_URL environment variable")
	}

	var err error

	if cfg.BackendTimeout, err = parseDuration(getenv, "BACKEND_TIMEOUT", 10*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.SessionTTL, err = parseDuration(getenv, "SESSION_TTL", 8*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.CacheTTL, err = parseDuration(getenv, "DASHBOARD_CACHE_TTL", 30*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.BackendRetries, err = parseInt(getenv, "BACKEND_RETRIES", 2); err != nil {
		return Config{}, err
	}
	if cfg.RedisDB, err = parseInt(getenv, "REDIS_DB", 0); err != nil {
		return Config{}, err
	}

	influxSet := 0
	for _, v := range []string{cfg.InfluxDBURL, cfg.InfluxDBToken, cfg.InfluxDBOrg} {
		if v != "" {
			influxSet++
		}
	}
	if influxSet != 0 && influxSet != 3 {
		return Config{}, fmt.Errorf("InfluxDB configuration is incomplete. Please set INFLUXDB_URL, INFLUXDB_TOKEN, and INFLUXDB_ORG environment variables")
	}
	if _, err := time.LoadLocation(cfg.TimeZone); err != nil {
		return Config{}, fmt.Errorf("invalid DASHBOARD_TIMEZONE %q: %w", cfg.TimeZone, err)
	}
	return cfg, nil
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseDuration(getenv func(string) string, key string, def time.Duration) (time.Duration, error) {
	raw := getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return d, nil
}

func parseInt(getenv func(string) string, key string, def int) (int, error) {
	raw := getenv(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return n, nil
}
