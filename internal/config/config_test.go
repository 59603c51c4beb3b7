package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"BLOG_LISTEN_ADDR",
		"BLOG_STORE",
		"BLOG_FIRESTORE_COLLECTION",
		"BLOG_LOCALE",
		"BLOG_BUILD_CONCURRENCY",
		"BLOG_DB_MIGRATE",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, StoreFirestore, cfg.Store)
	assert.Equal(t, "posts", cfg.FirestoreCollection)
	assert.Equal(t, "en", cfg.Locale)
	assert.Equal(t, 4, cfg.BuildConcurrency)
	assert.True(t, cfg.Database.Migrate)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BLOG_STORE", "Postgres")
	t.Setenv("BLOG_BUILD_CONCURRENCY", "9")
	t.Setenv("BLOG_PUBLISH_PREFIX", "/site/")
	t.Setenv("BLOG_PUBLISH_USE_SSL", "false")

	cfg := Load()

	assert.Equal(t, StorePostgres, cfg.Store)
	assert.Equal(t, 9, cfg.BuildConcurrency)
	assert.Equal(t, "site", cfg.Publish.Prefix)
	assert.False(t, cfg.Publish.UseSSL)
}

func TestGetEnvIntRejectsInvalidValues(t *testing.T) {
	t.Setenv("BLOG_TEST_INT", "zero")
	assert.Equal(t, 3, getEnvInt("BLOG_TEST_INT", 3))

	t.Setenv("BLOG_TEST_INT", "0")
	assert.Equal(t, 3, getEnvInt("BLOG_TEST_INT", 3))

	t.Setenv("BLOG_TEST_INT", "7")
	assert.Equal(t, 7, getEnvInt("BLOG_TEST_INT", 3))
}

func TestGetEnvBoolFallsBackOnGarbage(t *testing.T) {
	t.Setenv("BLOG_TEST_BOOL", "maybe")
	assert.True(t, getEnvBool("BLOG_TEST_BOOL", true))
}
