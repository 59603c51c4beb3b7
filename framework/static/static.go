package static

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"blueblog/framework"
	"github.com/a-h/templ"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	indexFile    = "index.html"
	notFoundFile = "404.html"
	filePerm     = 0o644
	dirPerm      = 0o755
)

var ErrUnsafePath = errors.New("unsafe export path")

type Config[C interface{}] struct {
	AppContext C
	Handlers   []framework.RouteHandler[C]

	OutDir      string
	Concurrency int
	// Limiter paces page builds, each of which hits the backing store.
	Limiter *rate.Limiter

	IsNotFoundError func(err error) bool
	NotFoundPage    func(notFoundContext framework.NotFoundContext) templ.Component

	Logger *zap.Logger
}

type Result struct {
	Pages   []string
	Skipped []string
}

// Export renders every statically exportable route into cfg.OutDir.
func Export[C interface{}](ctx context.Context, cfg Config[C]) (Result, error) {
	outDir := strings.TrimSpace(cfg.OutDir)
	if outDir == "" {
		return Result{}, errors.New("output directory is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	isNotFound := cfg.IsNotFoundError
	if isNotFound == nil {
		isNotFound = func(error) bool { return false }
	}
	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	if err := os.MkdirAll(outDir, dirPerm); err != nil {
		return Result{}, fmt.Errorf("create output directory: %w", err)
	}

	pages, err := collectPages(ctx, cfg.AppContext, cfg.Handlers)
	if err != nil {
		return Result{}, err
	}

	var (
		mu     sync.Mutex
		result Result
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(concurrency)
	for _, page := range pages {
		page := page
		group.Go(func() error {
			if cfg.Limiter != nil {
				if err := cfg.Limiter.Wait(groupCtx); err != nil {
					return err
				}
			}

			target, err := FilePath(outDir, page.Path)
			if err != nil {
				return err
			}

			component, err := page.Build(groupCtx)
			if err != nil {
				if isNotFound(err) {
					logger.Warn("skipping page with missing data",
						zap.String("path", page.Path),
						zap.String("route", page.Pattern),
						zap.Error(err),
					)
					mu.Lock()
					result.Skipped = append(result.Skipped, page.Path)
					mu.Unlock()
					return nil
				}
				return fmt.Errorf("build %s: %w", page.Path, err)
			}

			if err := writeComponent(groupCtx, target, component); err != nil {
				return fmt.Errorf("write %s: %w", page.Path, err)
			}
			logger.Debug("page exported", zap.String("path", page.Path), zap.String("file", target))

			mu.Lock()
			result.Pages = append(result.Pages, page.Path)
			mu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return Result{}, err
	}

	if cfg.NotFoundPage != nil {
		component := cfg.NotFoundPage(framework.NotFoundContext{
			RequestPath: "/" + notFoundFile,
			Source:      framework.NotFoundSourceStaticExport,
		})
		if component != nil {
			if err := writeComponent(ctx, filepath.Join(outDir, notFoundFile), component); err != nil {
				return Result{}, fmt.Errorf("write %s: %w", notFoundFile, err)
			}
		}
	}

	sort.Strings(result.Pages)
	sort.Strings(result.Skipped)
	return result, nil
}

func collectPages[C interface{}](
	ctx context.Context,
	appCtx C,
	handlers []framework.RouteHandler[C],
) ([]framework.StaticPage, error) {
	seen := make(map[string]string)
	var pages []framework.StaticPage

	for _, handler := range handlers {
		route, ok := handler.(framework.StaticRoute[C])
		if !ok {
			continue
		}

		routePages, err := route.StaticPages(ctx, appCtx)
		if err != nil {
			return nil, err
		}
		for _, page := range routePages {
			if previous, dup := seen[page.Path]; dup {
				return nil, fmt.Errorf("path %q produced by both %q and %q", page.Path, previous, page.Pattern)
			}
			seen[page.Path] = page.Pattern
			pages = append(pages, page)
		}
	}

	return pages, nil
}

// FilePath maps a site path such as "/posts/a%20b" to
// <outDir>/posts/a b/index.html. Segments that would leave outDir, or that
// decode to a slash, are rejected.
func FilePath(outDir string, sitePath string) (string, error) {
	trimmed := strings.Trim(sitePath, "/")
	if trimmed == "" {
		return filepath.Join(outDir, indexFile), nil
	}

	parts := strings.Split(trimmed, "/")
	segments := make([]string, 0, len(parts)+2)
	segments = append(segments, outDir)
	for _, part := range parts {
		segment, err := url.PathUnescape(part)
		if err != nil {
			return "", fmt.Errorf("%w: %q: %v", ErrUnsafePath, sitePath, err)
		}
		if segment == "" || segment == "." || segment == ".." ||
			strings.ContainsAny(segment, `/\`) || strings.ContainsRune(segment, 0) {
			return "", fmt.Errorf("%w: %q", ErrUnsafePath, sitePath)
		}
		segments = append(segments, segment)
	}

	if strings.HasSuffix(segments[len(segments)-1], ".html") {
		return filepath.Join(segments...), nil
	}
	return filepath.Join(append(segments, indexFile)...), nil
}

func writeComponent(ctx context.Context, target string, component templ.Component) error {
	var buf bytes.Buffer
	if err := component.Render(ctx, &buf); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), dirPerm); err != nil {
		return err
	}

	return os.WriteFile(target, buf.Bytes(), filePerm)
}
