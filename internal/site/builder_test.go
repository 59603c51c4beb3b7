package site

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"blueblog/internal/posts"
	"blueblog/internal/web/appcore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type listedStore struct {
	records []posts.Post
	ids     []string
}

func (s listedStore) ListPosts(context.Context) ([]posts.Post, error) { return s.records, nil }

func (s listedStore) ListPostIDs(context.Context) ([]string, error) { return s.ids, nil }

func (s listedStore) GetPost(_ context.Context, id string) (posts.Post, error) {
	for _, record := range s.records {
		if record.ID == id {
			return record, nil
		}
	}
	return posts.Post{}, posts.ErrNotFound
}

func readFile(t *testing.T, name string) string {
	t.Helper()
	content, err := os.ReadFile(name)
	require.NoError(t, err)
	return string(content)
}

func TestBuildWritesPagesAssetsAndNotFound(t *testing.T) {
	store := listedStore{
		records: []posts.Post{
			{ID: "nap", Title: "Nap time", Date: "2020-05-01", ContentHTML: "<p>zzz</p>"},
			{ID: "zoomies", Title: "Zoomies", Date: "2021-01-01", Content: "Run **fast**."},
		},
		ids: []string{"nap", "zoomies", "deleted"},
	}
	appCtx := appcore.NewContext(posts.NewService(store, "en", ""), appcore.Site{Title: "Helen"})

	staticDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(staticDir, "images"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "site.css"), []byte("body{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "images", "profile.jpg"), []byte("jpg"), 0o644))

	outDir := t.TempDir()
	result, err := Build(context.Background(), appCtx, Options{
		OutDir:         outDir,
		StaticDir:      staticDir,
		Concurrency:    2,
		StoreRateLimit: 100,
		Logger:         zap.NewNop(),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"/", "/posts/nap", "/posts/zoomies"}, result.Pages)
	assert.Equal(t, []string{"/posts/deleted"}, result.Skipped)
	assert.Equal(t, 3, result.Assets)

	home := readFile(t, filepath.Join(outDir, "index.html"))
	assert.Contains(t, home, `<a href="/posts/nap">Nap time</a>`)
	assert.Contains(t, home, "May 1, 2020")

	assert.Contains(t, readFile(t, filepath.Join(outDir, "posts", "nap", "index.html")), "<p>zzz</p>")
	assert.Contains(t, readFile(t, filepath.Join(outDir, "posts", "zoomies", "index.html")), "<strong>fast</strong>")
	assert.Contains(t, readFile(t, filepath.Join(outDir, "404.html")), "Not found")
	assert.Equal(t, "body{}", readFile(t, filepath.Join(outDir, "static", "site.css")))
	assert.Equal(t, "jpg", readFile(t, filepath.Join(outDir, "static", "images", "profile.jpg")))
	assert.Contains(t, readFile(t, filepath.Join(outDir, "static", "chroma.css")), "prefers-color-scheme")

	_, err = os.Stat(filepath.Join(outDir, "posts", "deleted"))
	assert.True(t, os.IsNotExist(err))
}

func TestBuildWithoutStaticDir(t *testing.T) {
	appCtx := appcore.NewContext(posts.NewService(listedStore{}, "en", ""), appcore.Site{Title: "Helen"})

	outDir := t.TempDir()
	result, err := Build(context.Background(), appCtx, Options{
		OutDir:    outDir,
		StaticDir: filepath.Join(outDir, "does-not-exist"),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"/"}, result.Pages)
	assert.Equal(t, 1, result.Assets)
	assert.FileExists(t, filepath.Join(outDir, "static", "chroma.css"))
}

func TestBuildRejectsUnsafeIDs(t *testing.T) {
	store := listedStore{ids: []string{".."}}
	appCtx := appcore.NewContext(posts.NewService(store, "en", ""), appcore.Site{})

	_, err := Build(context.Background(), appCtx, Options{OutDir: t.TempDir()})
	require.Error(t, err)
}
