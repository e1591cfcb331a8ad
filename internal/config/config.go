package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Host            string
	Port            int
	UploadDirectory string
	StaticDirectory string
	LogDirectory    string
	IndexPath       string   // "-" lub pusty = indeks SQLite wyłączony
	AllowedOrigins  []string // "*" dopuszcza wszystkie źródła
	MaxPayloadBytes int64    // 0 = bez limitu
	TLSCertFile     string
	TLSKeyFile      string
}

// Load reads an optional .env file and then the process environment.
func Load(envFiles ...string) *Config {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		// Brak pliku .env nie jest błędem
		_ = godotenv.Load(f)
	}

	return &Config{
		Host:            getEnv("HOST", "0.0.0.0"),
		Port:            getEnvAsInt("PORT", 5000),
		UploadDirectory: getEnv("UPLOAD_DIR", "uploads"),
		StaticDirectory: getEnv("STATIC_DIR", "static"),
		LogDirectory:    getEnv("LOG_DIR", filepath.Join(".", "logs")),
		IndexPath:       getEnv("INDEX_PATH", filepath.Join(".", "data", "images.db")),
		AllowedOrigins:  getEnvAsList("ALLOWED_ORIGINS", []string{"*"}),
		MaxPayloadBytes: getEnvAsInt64("MAX_PAYLOAD_BYTES", 0),
		TLSCertFile:     os.Getenv("TLS_CERT_FILE"),
		TLSKeyFile:      os.Getenv("TLS_KEY_FILE"),
	}
}

// Addr returns the host:port the server binds to.
func (c *Config) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// IndexEnabled reports whether the SQLite image index should be opened.
func (c *Config) IndexEnabled() bool {
	return c.IndexPath != "" && c.IndexPath != "-"
}

// TLSEnabled reports whether both certificate and key are configured.
func (c *Config) TLSEnabled() bool {
	return c.TLSCertFile != "" && c.TLSKeyFile != ""
}

// OriginAllowed applies the cross-origin policy of the realtime channel.
func (c *Config) OriginAllowed(origin string) bool {
	if origin == "" || len(c.AllowedOrigins) == 0 {
		return true
	}
	for _, o := range c.AllowedOrigins {
		if o == "*" || strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
