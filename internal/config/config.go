package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenPort      string        // ex: ":3000"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request timeout applied by the router
	MaxBodyBytes    int64         // max size of a POST /api/data body

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	DataFile  string // path to the persisted document (ex: data.json)
	StaticDir string // optional, built front end served with index.html fallback

	// Backups (empty BackupDir disables the scheduler)
	BackupDir      string
	BackupInterval time.Duration
	BackupKeep     int

	// Widgets
	UpstreamTimeout time.Duration // timeout for each third-party call
	WidgetCacheTTL  time.Duration // how long widget payloads stay in redis
	GeoURL          string        // ip-api.com compatible endpoint
	ForecastURL     string        // open-meteo forecast endpoint
	AirQualityURL   string        // open-meteo air quality endpoint

	// Redis (optional, empty RedisAddr disables the cache)
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password when RedisAddr is set
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

	AllowedHosts []string // optional, restrict /api to specific Host headers
	AllowedCIDRS []string // optional, restrict infra endpoints to specific IPs/CIDRs
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
}

func Load() *Config {
	_ = godotenv.Load() // a missing .env is fine

	cfg := &Config{
		// Server settings
		ListenPort:      getenv("STARTPAGE_LISTEN_PORT", ":3000"),
		ShutdownTimeout: mustDuration("STARTPAGE_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("STARTPAGE_REQUEST_TIMEOUT", 10*time.Second),
		MaxBodyBytes:    int64(getenvInt("STARTPAGE_MAX_BODY_BYTES", 5<<20)),

		// Logging
		LogLevel:  getenv("STARTPAGE_LOG_LEVEL", "info"),
		PrettyLog: mustBool("STARTPAGE_PRETTY_LOG", true),

		// Document
		DataFile:  getenv("STARTPAGE_DATA_FILE", "data.json"),
		StaticDir: getenv("STARTPAGE_STATIC_DIR", ""),

		// Backups
		BackupDir:      getenv("STARTPAGE_BACKUP_DIR", ""),
		BackupInterval: mustDuration("STARTPAGE_BACKUP_INTERVAL", 24*time.Hour),
		BackupKeep:     getenvInt("STARTPAGE_BACKUP_KEEP", 7),

		// Widgets
		UpstreamTimeout: mustDuration("STARTPAGE_UPSTREAM_TIMEOUT", 5*time.Second),
		WidgetCacheTTL:  mustDuration("STARTPAGE_WIDGET_CACHE_TTL", 15*time.Minute),
		GeoURL:          getenv("STARTPAGE_GEO_URL", "http://ip-api.com/json/"),
		ForecastURL:     getenv("STARTPAGE_FORECAST_URL", "https://api.open-meteo.com/v1/forecast"),
		AirQualityURL:   getenv("STARTPAGE_AIR_QUALITY_URL", "https://air-quality-api.open-meteo.com/v1/air-quality"),

		// Redis settings
		RedisAddr:             getenv("STARTPAGE_REDIS_ADDR", ""),
		RedisUser:             getenv("STARTPAGE_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("STARTPAGE_REDIS_PASSWORD_REQUIRED", false),
		RedisPassword:         getenv("STARTPAGE_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("STARTPAGE_REDIS_DB", 0),
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
		AllowedHosts: splitAndTrim(getenv("STARTPAGE_ALLOWED_HOSTS", "")),
		AllowedCIDRS: parseAllowedIPs(getenv("STARTPAGE_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("STARTPAGE_TRUST_PROXY", false),
	}

	if cfg.RedisAddr != "" && cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: STARTPAGE_REDIS_PASSWORD is required when STARTPAGE_REDIS_PASSWORD_REQUIRED=true")
	}
	if cfg.DataFile == "" {
		panic("❌ FATAL: STARTPAGE_DATA_FILE must not be empty")
	}
	if cfg.BackupDir != "" && cfg.BackupInterval <= 0 {
		panic("❌ FATAL: STARTPAGE_BACKUP_INTERVAL must be positive")
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// CacheEnabled reports whether a redis address was configured.
func (c *Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}

// BackupsEnabled reports whether periodic document snapshots are configured.
func (c *Config) BackupsEnabled() bool {
	return c.BackupDir != ""
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
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

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
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
