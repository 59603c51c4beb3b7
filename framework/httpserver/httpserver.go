package httpserver

import (
	"fmt"
	"net/http"
	"strings"

	"blueblog/framework"
	"blueblog/framework/engine"
	"github.com/a-h/templ"
)

const defaultCacheControlPolicy = "public, max-age=3600, s-maxage=3600"
const defaultHealthPath = "/healthz"
const defaultHealthBody = "ok"
const defaultStaticPrefix = "/static/"

// PartialRequestHeader marks a request for the page body without layouts.
const PartialRequestHeader = "HX-Request"

type StaticMount struct {
	URLPrefix string
	Dir       string
}

// Mount attaches an extra handler, such as a metrics endpoint, ahead of routing.
type Mount struct {
	Pattern string
	Handler http.Handler
	// CachePolicy overrides the Cache-Control header; empty leaves it unset.
	CachePolicy string
}

type Middleware func(http.Handler) http.Handler

type CachePolicies struct {
	HTML    string
	Partial string
	Static  string
	Health  string
	Error   string
}

func DefaultCachePolicies() CachePolicies {
	return CachePolicies{
		HTML:    defaultCacheControlPolicy,
		Partial: defaultCacheControlPolicy,
		Static:  defaultCacheControlPolicy,
		Health:  "no-store",
		Error:   "no-store",
	}
}

type Config[C interface{}] struct {
	AppContext C
	Handlers   []framework.RouteHandler[C]

	Static StaticMount
	Mounts []Mount

	// Middleware wraps the whole handler; the first entry is outermost.
	Middleware []Middleware

	CachePolicies CachePolicies

	IsNotFoundError func(err error) bool
	NotFoundPage    func(notFoundContext framework.NotFoundContext) templ.Component
	LogServerError  func(err error)

	HealthPath string
	HealthBody string
}

type server[C interface{}] struct {
	cachePolicies CachePolicies
	notFoundPage  func(notFoundContext framework.NotFoundContext) templ.Component
	logServerErr  func(err error)
	healthPath    string
	healthBody    string

	routeEngine *engine.Engine[C]
}

func New[C interface{}](cfg Config[C]) (http.Handler, error) {
	cachePolicies := withDefaultPolicies(cfg.CachePolicies)
	healthBody := strings.TrimSpace(cfg.HealthBody)
	if healthBody == "" {
		healthBody = defaultHealthBody
	}

	srv := &server[C]{
		cachePolicies: cachePolicies,
		notFoundPage:  cfg.NotFoundPage,
		logServerErr:  cfg.LogServerError,
		healthPath:    normalizeHealthPath(cfg.HealthPath),
		healthBody:    healthBody,
	}

	routeEngine, err := engine.New(engine.Config[C]{
		AppContext:        cfg.AppContext,
		Handlers:          cfg.Handlers,
		RenderPage:        srv.renderPage,
		IsPartialRequest:  IsPartialRequest,
		IsNotFoundError:   cfg.IsNotFoundError,
		HandleNotFound:    srv.handleNotFound,
		HandleServerError: srv.handleServerError,
	})
	if err != nil {
		return nil, fmt.Errorf("create route engine: %w", err)
	}
	srv.routeEngine = routeEngine

	mux := http.NewServeMux()
	if strings.TrimSpace(cfg.Static.Dir) != "" {
		prefix := normalizeStaticPrefix(cfg.Static.URLPrefix)
		fs := http.FileServer(http.Dir(cfg.Static.Dir))
		mux.Handle(prefix, withCachePolicy(cachePolicies.Static, http.StripPrefix(prefix, fs)))
	}
	for _, mount := range cfg.Mounts {
		if strings.TrimSpace(mount.Pattern) == "" || mount.Handler == nil {
			return nil, fmt.Errorf("invalid mount %q", mount.Pattern)
		}
		mux.Handle(mount.Pattern, withCachePolicy(mount.CachePolicy, mount.Handler))
	}

	mux.HandleFunc("/", srv.handleRoute)

	var handler http.Handler = mux
	for idx := len(cfg.Middleware) - 1; idx >= 0; idx-- {
		handler = cfg.Middleware[idx](handler)
	}
	return handler, nil
}

func IsPartialRequest(r *http.Request) bool {
	return r != nil && strings.EqualFold(strings.TrimSpace(r.Header.Get(PartialRequestHeader)), "true")
}

func (s *server[C]) handleRoute(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == s.healthPath {
		s.handleHealth(w)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		setCachePolicy(w, s.cachePolicies.Error)
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	if s.routeEngine.ServeRoute(w, r) {
		return
	}

	s.handleNotFound(w, r, framework.NotFoundContext{
		RequestPath: r.URL.Path,
		Source:      framework.NotFoundSourceUnmatchedRoute,
	})
}

func (s *server[C]) renderPage(r *http.Request, w http.ResponseWriter, component templ.Component) error {
	policy := s.cachePolicies.HTML
	if IsPartialRequest(r) {
		policy = s.cachePolicies.Partial
	}
	return s.renderPageWithStatus(r, w, component, 0, policy)
}

func (s *server[C]) renderPageWithStatus(
	r *http.Request,
	w http.ResponseWriter,
	component templ.Component,
	statusCode int,
	cachePolicy string,
) error {
	setCachePolicy(w, cachePolicy)
	w.Header().Add("Vary", PartialRequestHeader)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if statusCode > 0 {
		w.WriteHeader(statusCode)
	}
	return component.Render(r.Context(), w)
}

func (s *server[C]) handleNotFound(
	w http.ResponseWriter,
	r *http.Request,
	notFoundContext framework.NotFoundContext,
) {
	var component templ.Component
	if s.notFoundPage != nil {
		component = s.notFoundPage(notFoundContext)
	}
	if component == nil {
		setCachePolicy(w, s.cachePolicies.Error)
		http.NotFound(w, r)
		return
	}

	if err := s.renderPageWithStatus(r, w, component, http.StatusNotFound, s.cachePolicies.Error); err != nil {
		s.logError(fmt.Errorf("render not found page: %w", err))
	}
}

func (s *server[C]) handleServerError(w http.ResponseWriter, err error) {
	setCachePolicy(w, s.cachePolicies.Error)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	s.logError(err)
}

func (s *server[C]) logError(err error) {
	if s.logServerErr != nil {
		s.logServerErr(err)
	}
}

func (s *server[C]) handleHealth(w http.ResponseWriter) {
	setCachePolicy(w, s.cachePolicies.Health)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(s.healthBody))
}

func normalizeStaticPrefix(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return defaultStaticPrefix
	}
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix
}

func normalizeHealthPath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return defaultHealthPath
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

func withDefaultPolicies(policies CachePolicies) CachePolicies {
	defaults := DefaultCachePolicies()
	fill := func(value *string, fallback string) {
		if strings.TrimSpace(*value) == "" {
			*value = fallback
		}
	}
	fill(&policies.HTML, defaults.HTML)
	fill(&policies.Partial, defaults.Partial)
	fill(&policies.Static, defaults.Static)
	fill(&policies.Health, defaults.Health)
	fill(&policies.Error, defaults.Error)
	return policies
}

func setCachePolicy(w http.ResponseWriter, policy string) {
	policy = strings.TrimSpace(policy)
	if policy == "" {
		return
	}
	w.Header().Set("Cache-Control", policy)
}

func withCachePolicy(policy string, next http.Handler) http.Handler {
	if strings.TrimSpace(policy) == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setCachePolicy(w, policy)
		next.ServeHTTP(w, r)
	})
}
