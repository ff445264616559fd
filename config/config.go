package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

// AppConfig holds environment driven configuration values.
// Sensitive data never has defaults inside code and must be provided via the environment.
type AppConfig struct {
	AppPort     string
	JWTSecret   string
	DatabaseURI string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	// Uploaded files live under this directory and are served from /uploads/.
	UploadsDir string
	// CookieSecure sets the Secure flag on the admin session cookie.
	CookieSecure bool
	// Gin framework configuration
	GinMode string
	// CORS
	AllowedOrigins []string
	// Redis backs the public feed response cache; cache is disabled when RedisHost is empty.
	RedisHost     string
	RedisPort     int
	RedisDB       int
	RedisPassword string
	// Logging configuration
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
}

var cfg AppConfig
var loaded bool

// Load reads the application configuration from environment variables. It should be called once during boot.
func Load() AppConfig {
	if loaded {
		return cfg
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)

	// Missing secrets are startup warnings, not fatals: signing and persistence
	// fail at first use instead, which keeps tooling like the seed command usable.
	if cfg.JWTSecret == "" {
		log.Println("[config] JWT_SECRET is not set; session signing will fail")
	}
	if cfg.DatabaseURI == "" && cfg.DBPassword == "" {
		log.Println("[config] neither DATABASE_URI nor DB_PASSWORD set; falling back to local defaults")
	}

	loaded = true
	return cfg
}

// Get returns the cached configuration, loading it if necessary.
func Get() AppConfig {
	if !loaded {
		return Load()
	}
	return cfg
}

func applyEnv(c *AppConfig) {
	c.AppPort = getEnv("APP_PORT", "")
	c.JWTSecret = getEnv("JWT_SECRET", "")
	c.DatabaseURI = getEnv("DATABASE_URI", "")
	c.DBHost = getEnv("DB_HOST", "")
	c.DBPort = getEnv("DB_PORT", "")
	c.DBUser = getEnv("DB_USER", "")
	c.DBPassword = getEnv("DB_PASSWORD", "")
	c.DBName = getEnv("DB_NAME", "")
	c.UploadsDir = getEnv("UPLOADS_DIR", "")
	c.CookieSecure = getEnv("COOKIE_SECURE", "") == "true"
	c.GinMode = getEnv("GIN_MODE", "")
	if v := getEnv("CORS_ALLOWED_ORIGINS", ""); v != "" {
		c.AllowedOrigins = splitAndTrim(v)
	}
	c.RedisHost = getEnv("REDIS_HOST", "")
	c.RedisPort = intEnv("REDIS_PORT", 0)
	c.RedisDB = intEnv("REDIS_DB", 0)
	c.RedisPassword = getEnv("REDIS_PASSWORD", "")
	c.LogLevel = getEnv("LOG_LEVEL", "")
	c.LogPath = getEnv("LOG_PATH", "")
	c.LogMaxSizeMB = intEnv("LOG_MAX_SIZE_MB", 0)
	c.LogMaxBackups = intEnv("LOG_MAX_BACKUPS", 0)
	c.LogMaxAgeDays = intEnv("LOG_MAX_AGE_DAYS", 0)
	c.LogCompress = getEnv("LOG_COMPRESS", "") == "true"
}

// applyDefaults sets sane defaults for zero-value fields.
func applyDefaults(c *AppConfig) {
	if c.AppPort == "" {
		c.AppPort = "8080"
	}
	if c.GinMode == "" {
		c.GinMode = "release"
	}
	if c.UploadsDir == "" {
		c.UploadsDir = "uploads"
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.DBHost == "" {
		c.DBHost = "127.0.0.1"
	}
	if c.DBPort == "" {
		c.DBPort = "3306"
	}
	if c.DBUser == "" {
		c.DBUser = "root"
	}
	if c.DBName == "" {
		c.DBName = "tutorsite"
	}
	if c.RedisPort == 0 {
		c.RedisPort = 6379
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogMaxSizeMB == 0 {
		c.LogMaxSizeMB = 100
	}
	if c.LogMaxBackups == 0 {
		c.LogMaxBackups = 3
	}
	if c.LogMaxAgeDays == 0 {
		c.LogMaxAgeDays = 7
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func intEnv(key string, defaultVal int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(raw)
	if err != nil {
		log.Fatalf("invalid integer value for %s: %v", key, err)
	}
	return i
}

func splitAndTrim(raw string) []string {
	items := []string{}
	for _, item := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
