package framework

import (
	"context"
	"fmt"
	"net/http"

	"github.com/a-h/templ"
)

type EmptyParams struct{}

type IDParams struct {
	ID string
}

type ParamsParser[P interface{}] func(path string) (P, bool)

type PageLoader[C interface{}, P interface{}, VM interface{}] func(
	ctx context.Context,
	appCtx C,
	r *http.Request,
	params P,
) (VM, error)

type PageRenderer[VM interface{}] func(view VM) templ.Component

type LayoutRenderer[VM interface{}] func(view VM, child templ.Component) templ.Component

// StaticParamsLister enumerates the params a route is pre-rendered with.
type StaticParamsLister[C interface{}, P interface{}] func(ctx context.Context, appCtx C) ([]P, error)

type PathBuilder[P interface{}] func(params P) string

type PageModule[C interface{}, P interface{}, VM interface{}] struct {
	Pattern     string
	ParseParams ParamsParser[P]
	Load        PageLoader[C, P, VM]
	Render      PageRenderer[VM]
	Layouts     []LayoutRenderer[VM]

	// StaticParams and BuildPath opt the route into static export. Routes
	// without them are served live only.
	StaticParams StaticParamsLister[C, P]
	BuildPath    PathBuilder[P]
}

type RuntimeContext[C interface{}] interface {
	AppContext() C
	IsPartialRequest(r *http.Request) bool
	RenderPage(r *http.Request, w http.ResponseWriter, component templ.Component) error
	IsNotFound(err error) bool
	RespondNotFound(w http.ResponseWriter, r *http.Request, notFoundContext NotFoundContext)
	RespondServerError(w http.ResponseWriter, err error)
}

type NotFoundSource string

const (
	NotFoundSourcePageLoad       NotFoundSource = "page_load"
	NotFoundSourceUnmatchedRoute NotFoundSource = "unmatched_route"
	NotFoundSourceStaticExport   NotFoundSource = "static_export"
)

type NotFoundContext struct {
	RequestPath         string
	MatchedRoutePattern string
	Source              NotFoundSource
}

type RouteHandler[C interface{}] interface {
	TryServe(runtime RuntimeContext[C], w http.ResponseWriter, r *http.Request) bool
}

// StaticPage is one file of a static export, rendered on demand.
type StaticPage struct {
	Path    string
	Pattern string
	Build   func(ctx context.Context) (templ.Component, error)
}

type StaticRoute[C interface{}] interface {
	StaticPages(ctx context.Context, appCtx C) ([]StaticPage, error)
}

type PageOnlyRouteHandler[C interface{}, P interface{}, VM interface{}] struct {
	Page PageModule[C, P, VM]
}

func (h PageOnlyRouteHandler[C, P, VM]) TryServe(
	runtime RuntimeContext[C],
	w http.ResponseWriter,
	r *http.Request,
) bool {
	return servePageModule(runtime, w, r, h.Page)
}

func (h PageOnlyRouteHandler[C, P, VM]) StaticPages(ctx context.Context, appCtx C) ([]StaticPage, error) {
	module := h.Page
	if module.StaticParams == nil || module.BuildPath == nil {
		return nil, nil
	}

	paramsList, err := module.StaticParams(ctx, appCtx)
	if err != nil {
		return nil, fmt.Errorf("list static params for %q: %w", module.Pattern, err)
	}

	pages := make([]StaticPage, 0, len(paramsList))
	for _, params := range paramsList {
		params := params
		pagePath := module.BuildPath(params)
		pages = append(pages, StaticPage{
			Path:    pagePath,
			Pattern: module.Pattern,
			Build: func(ctx context.Context) (templ.Component, error) {
				return buildStaticPage(ctx, appCtx, module, pagePath, params)
			},
		})
	}

	return pages, nil
}

func applyLayouts[VM interface{}](
	layouts []LayoutRenderer[VM],
	view VM,
	child templ.Component,
) templ.Component {
	wrapped := child
	for idx := len(layouts) - 1; idx >= 0; idx-- {
		wrapped = layouts[idx](view, wrapped)
	}
	return wrapped
}

func servePageModule[C interface{}, P interface{}, VM interface{}](
	runtime RuntimeContext[C],
	w http.ResponseWriter,
	r *http.Request,
	module PageModule[C, P, VM],
) bool {
	params, ok := module.ParseParams(r.URL.Path)
	if !ok {
		return false
	}

	view, err := module.Load(r.Context(), runtime.AppContext(), r, params)
	if err != nil {
		handleLoadError(runtime, w, r, err, module.Pattern)
		return true
	}

	component := module.Render(view)
	if !runtime.IsPartialRequest(r) {
		component = applyLayouts(module.Layouts, view, component)
	}
	if err := runtime.RenderPage(r, w, component); err != nil {
		runtime.RespondServerError(w, fmt.Errorf("render route %q: %w", module.Pattern, err))
	}
	return true
}

func buildStaticPage[C interface{}, P interface{}, VM interface{}](
	ctx context.Context,
	appCtx C,
	module PageModule[C, P, VM],
	pagePath string,
	params P,
) (templ.Component, error) {
	r, err := http.NewRequestWithContext(ctx, http.MethodGet, pagePath, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %q: %w", pagePath, err)
	}

	view, err := module.Load(ctx, appCtx, r, params)
	if err != nil {
		return nil, fmt.Errorf("load route %q: %w", module.Pattern, err)
	}

	return applyLayouts(module.Layouts, view, module.Render(view)), nil
}

func handleLoadError[C interface{}](
	runtime RuntimeContext[C],
	w http.ResponseWriter,
	r *http.Request,
	err error,
	routePattern string,
) {
	if runtime.IsNotFound(err) {
		runtime.RespondNotFound(w, r, NotFoundContext{
			RequestPath:         r.URL.Path,
			MatchedRoutePattern: routePattern,
			Source:              NotFoundSourcePageLoad,
		})
		return
	}

	runtime.RespondServerError(w, fmt.Errorf("load route %q: %w", routePattern, err))
}
