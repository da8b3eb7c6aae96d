// Package config provides application configuration management
// with validation and environment parsing.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents the application configuration
type Config struct {
	Environment string
	Port        string
	Host        string
	DatabaseURL string
	Gallery     GalleryConfig
	Storage     StorageConfig
	Cache       CacheConfig
	Logging     *LoggingConfig
	Server      *ServerConfig
}

// GalleryConfig holds the metadata-acquisition settings. The URL-based
// sources are optional; an empty value disables that strategy.
type GalleryConfig struct {
	// ManifestURL points at a JSON document listing every image with
	// explicit metadata. When present and parseable it wins outright.
	ManifestURL string
	// ListingURL is a repository-contents endpoint returning file entries
	// with a "name" field.
	ListingURL string
	// BaseURL is where the image files themselves live. Probing and image
	// fetching resolve filenames against it.
	BaseURL string
	// ProbeNames is the candidate filename list tried when every other
	// strategy has failed.
	ProbeNames []string
	// Workers bounds concurrent per-image metadata extraction.
	Workers int
	// MaxImageSize caps how many bytes are read per image.
	MaxImageSize int64
	// HTTPTimeout applies to all outbound gallery requests. Zero means no
	// timeout; a hung request then stalls that image but no others.
	HTTPTimeout time.Duration
}

// StorageConfig holds object storage configuration
type StorageConfig struct {
	Enabled         bool
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Prefix          string
	UseSSL          bool
	Region          string
}

// CacheConfig holds Redis/Valkey cache configuration
type CacheConfig struct {
	Enabled      bool
	Address      string
	Password     string
	Database     int
	DefaultTTL   time.Duration
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
	Output string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultProbeNames is the fallback candidate list used when no explicit
// probe names are configured.
var DefaultProbeNames = []string{
	"character1.jpg", "character2.jpg", "character3.jpg", "character4.jpg", "character5.jpg",
	"drawing1.jpg", "drawing2.jpg", "drawing3.jpg", "drawing4.jpg", "drawing5.jpg",
}

// Load creates a new configuration from environment variables with validation
func Load() (*Config, error) {
	useSSL, _ := strconv.ParseBool(getEnv("STORAGE_USE_SSL", "false"))
	storageEnabled, _ := strconv.ParseBool(getEnv("STORAGE_ENABLED", "false"))
	cacheEnabled, _ := strconv.ParseBool(getEnv("CACHE_ENABLED", "false"))

	cacheDB, _ := strconv.Atoi(getEnv("CACHE_DATABASE", "0"))
	poolSize, _ := strconv.Atoi(getEnv("CACHE_POOL_SIZE", "10"))
	workers, _ := strconv.Atoi(getEnv("GALLERY_WORKERS", "4"))

	maxImageSize := parseSize(getEnv("GALLERY_MAX_IMAGE_SIZE", "20MB"))
	probeNames := parseList(getEnv("GALLERY_PROBE_NAMES", ""))
	if len(probeNames) == 0 {
		probeNames = DefaultProbeNames
	}

	httpTimeout, _ := time.ParseDuration(getEnv("GALLERY_HTTP_TIMEOUT", "0s"))
	cacheTTL, _ := time.ParseDuration(getEnv("CACHE_DEFAULT_TTL", "5m"))
	dialTimeout, _ := time.ParseDuration(getEnv("CACHE_DIAL_TIMEOUT", "5s"))
	cacheReadTimeout, _ := time.ParseDuration(getEnv("CACHE_READ_TIMEOUT", "3s"))
	cacheWriteTimeout, _ := time.ParseDuration(getEnv("CACHE_WRITE_TIMEOUT", "3s"))

	readTimeout, _ := time.ParseDuration(getEnv("READ_TIMEOUT", "15s"))
	writeTimeout, _ := time.ParseDuration(getEnv("WRITE_TIMEOUT", "15s"))
	idleTimeout, _ := time.ParseDuration(getEnv("SERVER_TIMEOUT", "60s"))

	config := &Config{
		Environment: getEnv("GO_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		Host:        getEnv("HOST", "localhost"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		Gallery: GalleryConfig{
			ManifestURL:  getEnv("GALLERY_MANIFEST_URL", ""),
			ListingURL:   getEnv("GALLERY_LISTING_URL", ""),
			BaseURL:      getEnv("GALLERY_BASE_URL", ""),
			ProbeNames:   probeNames,
			Workers:      workers,
			MaxImageSize: maxImageSize,
			HTTPTimeout:  httpTimeout,
		},
		Storage: StorageConfig{
			Enabled:         storageEnabled,
			Endpoint:        getEnv("STORAGE_ENDPOINT", "localhost:9000"),
			AccessKeyID:     getEnv("STORAGE_ACCESS_KEY", "minioadmin"),
			SecretAccessKey: getEnv("STORAGE_SECRET_KEY", "minioadmin"),
			BucketName:      getEnv("STORAGE_BUCKET", "artworks"),
			Prefix:          getEnv("STORAGE_PREFIX", ""),
			UseSSL:          useSSL,
			Region:          getEnv("STORAGE_REGION", "us-east-1"),
		},
		Cache: CacheConfig{
			Enabled:      cacheEnabled,
			Address:      getEnv("CACHE_ADDRESS", "localhost:6379"),
			Password:     getEnv("CACHE_PASSWORD", ""),
			Database:     cacheDB,
			DefaultTTL:   cacheTTL,
			DialTimeout:  dialTimeout,
			ReadTimeout:  cacheReadTimeout,
			WriteTimeout: cacheWriteTimeout,
			PoolSize:     poolSize,
		},
		Logging: &LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
			Output: getEnv("LOG_OUTPUT", "stdout"),
		},
		Server: &ServerConfig{
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			IdleTimeout:  idleTimeout,
		},
	}

	// Validate configuration before returning
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseSize parses size strings like "10MB", "512KB" into bytes
func parseSize(sizeStr string) int64 {
	sizeStr = strings.ToUpper(strings.TrimSpace(sizeStr))

	if strings.HasSuffix(sizeStr, "MB") {
		numStr := strings.TrimSuffix(sizeStr, "MB")
		if num, err := strconv.ParseInt(numStr, 10, 64); err == nil {
			return num * 1024 * 1024
		}
	}

	if strings.HasSuffix(sizeStr, "KB") {
		numStr := strings.TrimSuffix(sizeStr, "KB")
		if num, err := strconv.ParseInt(numStr, 10, 64); err == nil {
			return num * 1024
		}
	}

	// Default to 20MB if parsing fails
	return 20 * 1024 * 1024
}

// parseList parses comma-separated strings into slices
func parseList(listStr string) []string {
	if listStr == "" {
		return []string{}
	}

	items := strings.Split(listStr, ",")
	result := make([]string, 0, len(items))

	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// MustLoad loads configuration and panics on error
// Useful for startup scenarios where invalid config should crash the application
func MustLoad() *Config {
	config, err := Load()
	if err != nil {
		panic(err)
	}
	return config
}
