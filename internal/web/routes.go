package web

import (
	"blueblog/framework"
	"blueblog/internal/web/appcore"
	"blueblog/internal/web/components"
	"github.com/a-h/templ"
)

const (
	HomeRoutePattern = "/"
	PostRoutePattern = "/posts/{id}"
)

// Routes lists the page modules of the blog, served live and pre-rendered.
func Routes() []framework.RouteHandler[*appcore.Context] {
	return []framework.RouteHandler[*appcore.Context]{
		framework.PageOnlyRouteHandler[*appcore.Context, framework.EmptyParams, appcore.HomePageView]{
			Page: framework.PageModule[*appcore.Context, framework.EmptyParams, appcore.HomePageView]{
				Pattern:      HomeRoutePattern,
				ParseParams:  appcore.ParseHomeParams,
				Load:         appcore.LoadHomePage,
				Render:       components.HomePage,
				Layouts:      []framework.LayoutRenderer[appcore.HomePageView]{rootLayout[appcore.HomePageView]},
				StaticParams: appcore.HomeStaticParams,
				BuildPath:    appcore.HomePath,
			},
		},
		framework.PageOnlyRouteHandler[*appcore.Context, framework.IDParams, appcore.PostPageView]{
			Page: framework.PageModule[*appcore.Context, framework.IDParams, appcore.PostPageView]{
				Pattern:      PostRoutePattern,
				ParseParams:  appcore.ParsePostParams,
				Load:         appcore.LoadPostPage,
				Render:       components.PostPage,
				Layouts:      []framework.LayoutRenderer[appcore.PostPageView]{rootLayout[appcore.PostPageView]},
				StaticParams: appcore.PostStaticParams,
				BuildPath:    appcore.PostPath,
			},
		},
	}
}

// NotFoundPage renders the placeholder record inside the root layout.
func NotFoundPage(site appcore.Site) func(framework.NotFoundContext) templ.Component {
	return func(notFoundContext framework.NotFoundContext) templ.Component {
		view := appcore.NewNotFoundPageView(site, notFoundContext.RequestPath)
		return components.Layout(view, components.NotFoundPage(view))
	}
}

func rootLayout[VM appcore.PageView](view VM, child templ.Component) templ.Component {
	return components.Layout(view, child)
}
