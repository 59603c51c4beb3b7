package web

import (
	"net/http"
	"strings"

	"blueblog/framework/httpserver"
	"blueblog/internal/markdown"
	"blueblog/internal/web/appcore"
	"go.uber.org/zap"
)

type HandlerConfig struct {
	AppContext *appcore.Context
	StaticDir  string
	// CacheHTML overrides the Cache-Control policy of rendered pages.
	CacheHTML  string
	Mounts     []httpserver.Mount
	Middleware []httpserver.Middleware
	Logger     *zap.Logger
}

// NewHandler assembles the live site: page routes, static assets, the
// highlight stylesheet and any extra mounts.
func NewHandler(cfg HandlerConfig) (http.Handler, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	policies := httpserver.DefaultCachePolicies()
	if policy := strings.TrimSpace(cfg.CacheHTML); policy != "" {
		policies.HTML = policy
		policies.Partial = policy
	}

	mounts := append([]httpserver.Mount{{
		Pattern:     "/static/" + markdown.ChromaStylesheetName,
		Handler:     http.HandlerFunc(serveChromaStylesheet),
		CachePolicy: policies.Static,
	}}, cfg.Mounts...)

	return httpserver.New(httpserver.Config[*appcore.Context]{
		AppContext:      cfg.AppContext,
		Handlers:        Routes(),
		Static:          httpserver.StaticMount{Dir: cfg.StaticDir},
		Mounts:          mounts,
		Middleware:      cfg.Middleware,
		CachePolicies:   policies,
		IsNotFoundError: appcore.IsNotFoundError,
		NotFoundPage:    NotFoundPage(cfg.AppContext.Site()),
		LogServerError: func(err error) {
			logger.Error("blog server error", zap.Error(err))
		},
	})
}

func serveChromaStylesheet(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	_, _ = w.Write(markdown.ChromaStylesheet())
}
