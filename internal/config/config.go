package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	StoreFirestore = "firestore"
	StoreGraphQL   = "graphql"
	StorePostgres  = "postgres"
)

type Config struct {
	ListenAddr string
	StaticDir  string
	OutDir     string

	RootURL   string
	SiteTitle string
	Locale    string

	CacheHTML string

	Store string

	FirestoreProjectID       string
	FirestoreCollection      string
	FirestoreCredentialsFile string

	GraphQLEndpoint  string
	GraphQLAuthToken string

	Database DatabaseConfig
	Publish  PublishConfig

	BuildConcurrency int
	StoreRateLimit   int
}

// DatabaseConfig holds PostgreSQL connection settings for the postgres store.
type DatabaseConfig struct {
	DSN                string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
	Migrate            bool
}

// PublishConfig points at the S3-compatible bucket the generated site is uploaded to.
type PublishConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	UseSSL    bool
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first; variables already set in the environment win.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		ListenAddr: getEnv("BLOG_LISTEN_ADDR", ":8080"),
		StaticDir:  getEnv("BLOG_STATIC_DIR", "internal/web/static"),
		OutDir:     getEnv("BLOG_OUT_DIR", "out"),
		RootURL:    getEnv("BLOG_ROOT_URL", ""),
		SiteTitle:  getEnv("BLOG_SITE_TITLE", "Helen the British Blue"),
		Locale:     getEnv("BLOG_LOCALE", "en"),
		CacheHTML: strings.TrimSpace(
			os.Getenv("BLOG_CACHE_HTML"),
		),
		Store:                    strings.ToLower(getEnv("BLOG_STORE", StoreFirestore)),
		FirestoreProjectID:       getEnv("BLOG_FIRESTORE_PROJECT", os.Getenv("GOOGLE_CLOUD_PROJECT")),
		FirestoreCollection:      getEnv("BLOG_FIRESTORE_COLLECTION", "posts"),
		FirestoreCredentialsFile: os.Getenv("BLOG_FIRESTORE_CREDENTIALS"),
		GraphQLEndpoint:          getEnv("BLOG_GRAPHQL_ENDPOINT", "http://localhost:3000/api/graphql"),
		GraphQLAuthToken:         os.Getenv("BLOG_GRAPHQL_AUTH_TOKEN"),
		Database: DatabaseConfig{
			DSN:                os.Getenv("BLOG_DATABASE_URL"),
			MaxOpenConns:       getEnvInt("BLOG_DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("BLOG_DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("BLOG_DB_CONN_MAX_LIFETIME_SEC", 300),
			Migrate:            getEnvBool("BLOG_DB_MIGRATE", true),
		},
		Publish: PublishConfig{
			Endpoint:  os.Getenv("BLOG_PUBLISH_ENDPOINT"),
			AccessKey: os.Getenv("BLOG_PUBLISH_ACCESS_KEY"),
			SecretKey: os.Getenv("BLOG_PUBLISH_SECRET_KEY"),
			Bucket:    os.Getenv("BLOG_PUBLISH_BUCKET"),
			Prefix:    strings.Trim(os.Getenv("BLOG_PUBLISH_PREFIX"), "/"),
			UseSSL:    getEnvBool("BLOG_PUBLISH_USE_SSL", true),
		},
		BuildConcurrency: getEnvInt("BLOG_BUILD_CONCURRENCY", 4),
		StoreRateLimit:   getEnvInt("BLOG_STORE_RATE_LIMIT", 20),
	}
}

func getEnv(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	return value
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 1 {
		return fallback
	}

	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}

	return parsed
}
