package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Gallery upstream
	GalleryBaseURL     string        // ex: https://gallery.example.com/api
	GalleryToken       string        // optional bearer token
	GalleryTimeout     time.Duration // per-request timeout (default: 15s)
	GalleryPageSize    int           // records requested per upstream page (default: 50)
	RevalidateInterval time.Duration // interval between background listing syncs (default: 10m)
	JanitorInterval    time.Duration // interval between durable-tier sweeps (default: 10m)
	DetailTTL          time.Duration // freshness window for cached details (default: 5m)
	PageSize           int           // default API page size when per_page is absent (default: 24)

	// Redis (optional: empty addr disables the durable tier)
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	// Access restrictions
	AllowedCIDRS   []string // optional, restrict admin endpoints to specific IPs/CIDRs
	AllowedOrigins []string // CORS origins for the browser front end
	TrustProxy     bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)

	// Rate limiting
	RateBurst        int // bucket capacity per client IP
	RateRefillPerMin int // tokens refilled per minute
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("VITRINE_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("VITRINE_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("VITRINE_LOG_LEVEL", "info"),
		PrettyLog: mustBool("VITRINE_PRETTY_LOG", true),

		// Gallery upstream
		GalleryBaseURL:     requireEnv("VITRINE_GALLERY_URL"),
		GalleryToken:       getenv("VITRINE_GALLERY_TOKEN", ""),
		GalleryTimeout:     mustDuration("VITRINE_GALLERY_TIMEOUT", 15*time.Second),
		GalleryPageSize:    getenvInt("VITRINE_GALLERY_PAGE_SIZE", 50),
		RevalidateInterval: mustDuration("VITRINE_REVALIDATE_INTERVAL", 10*time.Minute),
		JanitorInterval:    mustDuration("VITRINE_JANITOR_INTERVAL", 10*time.Minute),
		DetailTTL:          mustDuration("VITRINE_DETAIL_TTL", 5*time.Minute),
		PageSize:           getenvInt("VITRINE_PAGE_SIZE", 24),

		// Redis settings
		RedisAddr:             getenv("VITRINE_REDIS_ADDR", ""),
		RedisUser:             getenv("VITRINE_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("VITRINE_REDIS_PASSWORD_REQUIRED", false),
		RedisPassword:         getenv("VITRINE_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("VITRINE_REDIS_DB", 0),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedCIDRS:   splitAndTrim(getenv("VITRINE_ALLOWED_CIDRS", "")),
		AllowedOrigins: splitAndTrim(getenv("VITRINE_ALLOWED_ORIGINS", "")),
		TrustProxy:     mustBool("VITRINE_TRUST_PROXY", true),

		// Rate limiting
		RateBurst:        getenvInt("VITRINE_RATE_BURST", 60),
		RateRefillPerMin: getenvInt("VITRINE_RATE_REFILL_PER_MIN", 120),
	}

	// Optional YAML overlay for non-secret tuning knobs.
	if path := os.Getenv("VITRINE_CONFIG_FILE"); path != "" {
		if err := applyFileOverlay(cfg, path); err != nil {
			panic(fmt.Sprintf("❌ FATAL: Could not apply config file %s: %v", path, err))
		}
	}

	// Validate Redis password configuration
	if cfg.RedisAddr != "" && cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: VITRINE_REDIS_PASSWORD is required when VITRINE_REDIS_PASSWORD_REQUIRED=true")
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		cfgCopy.GalleryToken = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// fileOverlay holds the tuning knobs that may also come from a YAML file.
// Secrets (tokens, passwords) stay env-only.
type fileOverlay struct {
	ListenPort         string   `yaml:"listen_port"`
	LogLevel           string   `yaml:"log_level"`
	GalleryPageSize    int      `yaml:"gallery_page_size"`
	RevalidateInterval string   `yaml:"revalidate_interval"`
	JanitorInterval    string   `yaml:"janitor_interval"`
	DetailTTL          string   `yaml:"detail_ttl"`
	PageSize           int      `yaml:"page_size"`
	AllowedCIDRS       []string `yaml:"allowed_cidrs"`
	AllowedOrigins     []string `yaml:"allowed_origins"`
	RateBurst          int      `yaml:"rate_burst"`
	RateRefillPerMin   int      `yaml:"rate_refill_per_min"`
}

// applyFileOverlay overrides cfg with any value set in the YAML file.
// Unset (zero) overlay values leave the env-derived value in place.
func applyFileOverlay(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}

	var ov fileOverlay
	if err := yaml.Unmarshal(raw, &ov); err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	if ov.ListenPort != "" {
		cfg.ListenPort = ov.ListenPort
	}
	if ov.LogLevel != "" {
		cfg.LogLevel = ov.LogLevel
	}
	if ov.GalleryPageSize > 0 {
		cfg.GalleryPageSize = ov.GalleryPageSize
	}
	if ov.PageSize > 0 {
		cfg.PageSize = ov.PageSize
	}
	if ov.RateBurst > 0 {
		cfg.RateBurst = ov.RateBurst
	}
	if ov.RateRefillPerMin > 0 {
		cfg.RateRefillPerMin = ov.RateRefillPerMin
	}
	if len(ov.AllowedCIDRS) > 0 {
		cfg.AllowedCIDRS = ov.AllowedCIDRS
	}
	if len(ov.AllowedOrigins) > 0 {
		cfg.AllowedOrigins = ov.AllowedOrigins
	}
	for _, d := range []struct {
		raw string
		dst *time.Duration
	}{
		{ov.RevalidateInterval, &cfg.RevalidateInterval},
		{ov.JanitorInterval, &cfg.JanitorInterval},
		{ov.DetailTTL, &cfg.DetailTTL},
	} {
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", d.raw, err)
		}
		*d.dst = parsed
	}

	return nil
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
