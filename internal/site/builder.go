package site

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"blueblog/framework/static"
	"blueblog/internal/markdown"
	"blueblog/internal/web"
	"blueblog/internal/web/appcore"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const staticSubdir = "static"

type Options struct {
	OutDir    string
	StaticDir string
	// Concurrency bounds parallel page renders.
	Concurrency int
	// StoreRateLimit caps page builds per second; zero disables pacing.
	StoreRateLimit int
	Logger         *zap.Logger
}

type Result struct {
	static.Result
	Assets int
}

// Build pre-renders every page into opts.OutDir and copies the static
// assets next to them. Existing files in OutDir are overwritten, never removed.
func Build(ctx context.Context, appCtx *appcore.Context, opts Options) (Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var limiter *rate.Limiter
	if opts.StoreRateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.StoreRateLimit), opts.StoreRateLimit)
	}

	exported, err := static.Export(ctx, static.Config[*appcore.Context]{
		AppContext:      appCtx,
		Handlers:        web.Routes(),
		OutDir:          opts.OutDir,
		Concurrency:     opts.Concurrency,
		Limiter:         limiter,
		IsNotFoundError: appcore.IsNotFoundError,
		NotFoundPage:    web.NotFoundPage(appCtx.Site()),
		Logger:          logger,
	})
	if err != nil {
		return Result{}, fmt.Errorf("export pages: %w", err)
	}

	assetsDir := filepath.Join(opts.OutDir, staticSubdir)
	copied, err := copyTree(opts.StaticDir, assetsDir)
	if err != nil {
		return Result{}, fmt.Errorf("copy static assets: %w", err)
	}

	if err := os.MkdirAll(assetsDir, 0o755); err != nil {
		return Result{}, err
	}
	stylesheet := filepath.Join(assetsDir, markdown.ChromaStylesheetName)
	if err := os.WriteFile(stylesheet, markdown.ChromaStylesheet(), 0o644); err != nil {
		return Result{}, fmt.Errorf("write %s: %w", markdown.ChromaStylesheetName, err)
	}

	result := Result{Result: exported, Assets: copied + 1}
	logger.Info("site built",
		zap.String("out_dir", opts.OutDir),
		zap.Int("pages", len(result.Pages)),
		zap.Int("skipped", len(result.Skipped)),
		zap.Int("assets", result.Assets),
	)
	return result, nil
}

// copyTree copies regular files from src into dst. A missing src copies nothing.
func copyTree(src string, dst string) (int, error) {
	if src == "" {
		return 0, nil
	}
	if _, err := os.Stat(src); errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}

	copied := 0
	err := filepath.WalkDir(src, func(filePath string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, filePath)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if entry.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		if !entry.Type().IsRegular() {
			return nil
		}
		if err := copyFile(filePath, target); err != nil {
			return err
		}
		copied++
		return nil
	})
	return copied, err
}

func copyFile(src string, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
