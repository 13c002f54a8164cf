package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App     AppConfig
	API     APIConfig
	Console ConsoleConfig
	Session SessionConfig
	Redis   RedisConfig
	Cache   CacheConfig
	UI      UIConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

// APIConfig locates the two REST backends.
type APIConfig struct {
	BaseURL           string
	AttendanceBaseURL string
	Timeout           time.Duration
	PhotoOrigins      []string
}

// ConsoleConfig secures the console's own cookie and persisted state.
type ConsoleConfig struct {
	Secret         string
	TokenTTL       string
	AllowedOrigins []string
}

type SessionConfig struct {
	Store     string
	Dir       string
	Namespace string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// CacheConfig sets request cache lifetimes.
type CacheConfig struct {
	ListStaleTime   time.Duration
	DetailStaleTime time.Duration
	PhotoStaleTime  time.Duration
	GCTime          time.Duration
	GCInterval      time.Duration
}

type UIConfig struct {
	SearchDebounce time.Duration
	RenderWait     time.Duration
}

const (
	SessionStoreFile  = "file"
	SessionStoreRedis = "redis"

	minSecretLength = 16
)

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file loaded, using process environment", "error", err)
	}

	config := &Config{}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// Backend configuration
	apiTimeout, err := getDuration("API_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	config.API = APIConfig{
		BaseURL:           getEnv("API_BASE_URL", "http://localhost:3000"),
		AttendanceBaseURL: getEnv("ATTENDANCE_API_BASE_URL", "http://localhost:3001"),
		Timeout:           apiTimeout,
		PhotoOrigins:      getEnvSlice("PHOTO_ALLOWED_ORIGINS"),
	}

	config.Console = ConsoleConfig{
		Secret:         getEnv("CONSOLE_SECRET", ""),
		TokenTTL:       getEnv("CONSOLE_TOKEN_TTL", "12h"),
		AllowedOrigins: getEnvSlice("CONSOLE_ALLOWED_ORIGINS"),
	}

	// Session persistence
	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	config.Session = SessionConfig{
		Store:     strings.ToLower(getEnv("SESSION_STORE", SessionStoreFile)),
		Dir:       getEnv("SESSION_DIR", "./data"),
		Namespace: getEnv("SESSION_NAMESPACE", "auth-storage"),
	}
	config.Redis = RedisConfig{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       redisDB,
	}

	// Cache and UI timings
	durations := []struct {
		key      string
		fallback string
		dst      *time.Duration
	}{
		{"CACHE_LIST_STALE_TIME", "30s", &config.Cache.ListStaleTime},
		{"CACHE_DETAIL_STALE_TIME", "60s", &config.Cache.DetailStaleTime},
		{"CACHE_PHOTO_STALE_TIME", "5m", &config.Cache.PhotoStaleTime},
		{"CACHE_GC_TIME", "10m", &config.Cache.GCTime},
		{"CACHE_GC_INTERVAL", "1m", &config.Cache.GCInterval},
		{"SEARCH_DEBOUNCE", "300ms", &config.UI.SearchDebounce},
		{"RENDER_WAIT", "250ms", &config.UI.RenderWait},
	}
	for _, d := range durations {
		if *d.dst, err = getDuration(d.key, d.fallback); err != nil {
			return nil, err
		}
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	var errs []error

	if len(c.Console.Secret) < minSecretLength {
		errs = append(errs, fmt.Errorf("CONSOLE_SECRET must be at least %d characters", minSecretLength))
	}
	if _, err := time.ParseDuration(c.Console.TokenTTL); err != nil {
		errs = append(errs, fmt.Errorf("invalid CONSOLE_TOKEN_TTL: %w", err))
	}
	for key, raw := range map[string]string{"API_BASE_URL": c.API.BaseURL, "ATTENDANCE_API_BASE_URL": c.API.AttendanceBaseURL} {
		if u, err := url.Parse(raw); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("%s must be an absolute URL", key))
		}
	}
	switch c.Session.Store {
	case SessionStoreFile:
		if c.Session.Dir == "" {
			errs = append(errs, errors.New("SESSION_DIR is required for the file session store"))
		}
	case SessionStoreRedis:
		if c.Redis.Addr == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required for the redis session store"))
		}
	default:
		errs = append(errs, fmt.Errorf("SESSION_STORE must be %q or %q", SessionStoreFile, SessionStoreRedis))
	}
	if c.Cache.GCInterval <= 0 {
		errs = append(errs, errors.New("CACHE_GC_INTERVAL must be positive"))
	}

	return errors.Join(errs...)
}

// IsProduction reports whether the console runs behind TLS in production.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

func getDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
