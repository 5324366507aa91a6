package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string
	LogLevel    string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int

	Catalog CatalogConfig
	Storage StorageConfig
	Redis   RedisConfig
	Drafts  DraftConfig

	CategoriesConfigPath string
}

// CatalogConfig points the admin and storefront at the catalog API.
// An empty BaseURL means the API is served in-process.
type CatalogConfig struct {
	BaseURL      string
	Timeout      time.Duration
	UploadURL    string
	ReadCacheTTL time.Duration
}

type StorageConfig struct {
	Driver         string
	LocalDir       string
	LocalURLPrefix string
	S3Region       string
	S3Bucket       string
	S3Prefix       string
	S3PublicURL    string
	S3Endpoint     string
	S3AccessKeyID  string
	S3SecretKey    string
}

// DraftConfig bounds how long an untouched authoring session is kept.
// A zero IdleTTL keeps sessions until they are closed.
type DraftConfig struct {
	IdleTTL time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		AppName:     getenv("APP_SERVICE", "mystore"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),
		LogLevel:    strings.ToLower(getenv("LOG_LEVEL", "info")),

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "mystore"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 20),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 300),
		DBConnMaxIdleTime: getenvInt("DATABASE_CONN_MAX_IDLE_TIME", 60),

		Catalog: CatalogConfig{
			BaseURL:      strings.TrimRight(strings.TrimSpace(getenv("CATALOG_API_URL", "")), "/"),
			Timeout:      getenvDuration("CATALOG_API_TIMEOUT", 0),
			UploadURL:    strings.TrimSpace(getenv("UPLOAD_API_URL", "")),
			ReadCacheTTL: getenvDuration("READ_CACHE_TTL", time.Minute),
		},
		Storage: StorageConfig{
			Driver:         strings.ToLower(getenv("STORAGE_DRIVER", "local")),
			LocalDir:       getenv("LOCAL_UPLOAD_DIR", "./uploads"),
			LocalURLPrefix: getenv("LOCAL_UPLOAD_URL_PREFIX", "http://localhost:8080/uploads"),
			S3Region:       getenv("S3_REGION", "eu-central-1"),
			S3Bucket:       getenv("S3_BUCKET", ""),
			S3Prefix:       getenv("S3_PREFIX", "products"),
			S3PublicURL:    getenv("S3_PUBLIC_BASE_URL", ""),
			S3Endpoint:     getenv("S3_ENDPOINT", ""),
			S3AccessKeyID:  getenv("S3_ACCESS_KEY_ID", ""),
			S3SecretKey:    getenv("S3_SECRET_ACCESS_KEY", ""),
		},
		Redis: RedisConfig{
			Addr:     strings.TrimSpace(getenv("REDIS_ADDR", "")),
			Password: getenv("REDIS_PASSWORD", ""),
			DB:       getenvInt("REDIS_DB", 0),
		},
		Drafts: DraftConfig{
			IdleTTL: getenvDuration("DRAFT_IDLE_TTL", 30*time.Minute),
		},
		CategoriesConfigPath: strings.TrimSpace(getenv("CATEGORIES_CONFIG", "")),
	}

	return cfg
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

// RemoteCatalog reports whether create/list/get go over HTTP.
func (c Config) RemoteCatalog() bool {
	return c.Catalog.BaseURL != ""
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("[config] invalid %s=%q, using %d", key, value, def)
		return def
	}
	return parsed
}

func getenvDuration(key string, def time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("[config] invalid %s=%q, using %s", key, value, def)
		return def
	}
	return parsed
}

var Module = fx.Module("config",
	fx.Provide(Load),
	fx.Provide(NewCategoryHolderFromConfig),
)
