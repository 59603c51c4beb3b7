package engine

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"blueblog/framework"
	"github.com/a-h/templ"
)

type testAppContext struct{}

func textComponent(value string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, value)
		return err
	})
}

func wrapComponent(tag string, child templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "["+tag+"]"); err != nil {
			return err
		}
		if err := child.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "[/"+tag+"]")
		return err
	})
}

func postRoute(
	load framework.PageLoader[*testAppContext, framework.IDParams, string],
	layouts ...framework.LayoutRenderer[string],
) framework.RouteHandler[*testAppContext] {
	return framework.PageOnlyRouteHandler[*testAppContext, framework.IDParams, string]{
		Page: framework.PageModule[*testAppContext, framework.IDParams, string]{
			Pattern: "/posts/{id}",
			ParseParams: func(path string) (framework.IDParams, bool) {
				const prefix = "/posts/"
				if len(path) <= len(prefix) || path[:len(prefix)] != prefix {
					return framework.IDParams{}, false
				}
				return framework.IDParams{ID: path[len(prefix):]}, true
			},
			Load:    load,
			Render:  func(view string) templ.Component { return textComponent(view) },
			Layouts: layouts,
		},
	}
}

func echoID(_ context.Context, _ *testAppContext, _ *http.Request, params framework.IDParams) (string, error) {
	return "post:" + params.ID, nil
}

func captureRender(target *string) func(*http.Request, http.ResponseWriter, templ.Component) error {
	return func(_ *http.Request, _ http.ResponseWriter, component templ.Component) error {
		var b bytes.Buffer
		if err := component.Render(context.Background(), &b); err != nil {
			return err
		}
		*target = b.String()
		return nil
	}
}

func TestNewRequiresRenderPage(t *testing.T) {
	if _, err := New(Config[*testAppContext]{}); err == nil {
		t.Fatal("expected error without render callback")
	}
}

func TestServeRouteMatchesParams(t *testing.T) {
	var rendered string

	routeEngine, err := New(Config[*testAppContext]{
		AppContext: &testAppContext{},
		Handlers:   []framework.RouteHandler[*testAppContext]{postRoute(echoID)},
		RenderPage: captureRender(&rendered),
	})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	if !routeEngine.ServeRoute(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/posts/abc", nil)) {
		t.Fatal("expected route to match")
	}
	if rendered != "post:abc" {
		t.Fatalf("expected page content, got %q", rendered)
	}

	if routeEngine.ServeRoute(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil)) {
		t.Fatal("did not expect missing route to match")
	}
}

func TestServeRouteLayoutOrderAndPartials(t *testing.T) {
	layouts := []framework.LayoutRenderer[string]{
		func(_ string, child templ.Component) templ.Component { return wrapComponent("outer", child) },
		func(_ string, child templ.Component) templ.Component { return wrapComponent("inner", child) },
	}

	cases := []struct {
		name    string
		partial bool
		want    string
	}{
		{name: "full page", partial: false, want: "[outer][inner]post:1[/inner][/outer]"},
		{name: "partial", partial: true, want: "post:1"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var rendered string
			routeEngine, err := New(Config[*testAppContext]{
				AppContext:       &testAppContext{},
				Handlers:         []framework.RouteHandler[*testAppContext]{postRoute(echoID, layouts...)},
				IsPartialRequest: func(*http.Request) bool { return tc.partial },
				RenderPage:       captureRender(&rendered),
			})
			if err != nil {
				t.Fatalf("new engine: %v", err)
			}

			routeEngine.ServeRoute(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/posts/1", nil))
			if rendered != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, rendered)
			}
		})
	}
}

func TestNotFoundAndServerErrorClassification(t *testing.T) {
	errNotFound := errors.New("not found")
	errBoom := errors.New("boom")

	cases := []struct {
		name            string
		loadErr         error
		wantNotFound    bool
		wantServerError bool
	}{
		{name: "not found", loadErr: errNotFound, wantNotFound: true},
		{name: "server error", loadErr: errBoom, wantServerError: true},
		{name: "wrapped not found", loadErr: errors.Join(errors.New("lookup"), errNotFound), wantNotFound: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var gotNotFound framework.NotFoundContext
			notFoundCalled := false
			serverErrorCalled := false

			routeEngine, err := New(Config[*testAppContext]{
				AppContext: &testAppContext{},
				Handlers: []framework.RouteHandler[*testAppContext]{
					postRoute(func(context.Context, *testAppContext, *http.Request, framework.IDParams) (string, error) {
						return "", tc.loadErr
					}),
				},
				RenderPage:      func(*http.Request, http.ResponseWriter, templ.Component) error { return nil },
				IsNotFoundError: func(err error) bool { return errors.Is(err, errNotFound) },
				HandleNotFound: func(_ http.ResponseWriter, _ *http.Request, ctx framework.NotFoundContext) {
					notFoundCalled = true
					gotNotFound = ctx
				},
				HandleServerError: func(http.ResponseWriter, error) {
					serverErrorCalled = true
				},
			})
			if err != nil {
				t.Fatalf("new engine: %v", err)
			}

			if !routeEngine.ServeRoute(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/posts/x", nil)) {
				t.Fatal("expected route to match")
			}
			if notFoundCalled != tc.wantNotFound {
				t.Fatalf("not found callback: expected %v, got %v", tc.wantNotFound, notFoundCalled)
			}
			if serverErrorCalled != tc.wantServerError {
				t.Fatalf("server error callback: expected %v, got %v", tc.wantServerError, serverErrorCalled)
			}
			if tc.wantNotFound {
				if gotNotFound.Source != framework.NotFoundSourcePageLoad {
					t.Fatalf("expected source %q, got %q", framework.NotFoundSourcePageLoad, gotNotFound.Source)
				}
				if gotNotFound.MatchedRoutePattern != "/posts/{id}" {
					t.Fatalf("expected matched pattern /posts/{id}, got %q", gotNotFound.MatchedRoutePattern)
				}
				if gotNotFound.RequestPath != "/posts/x" {
					t.Fatalf("expected request path /posts/x, got %q", gotNotFound.RequestPath)
				}
			}
		})
	}
}

func TestRenderFailureBecomesServerError(t *testing.T) {
	var serverErr error

	routeEngine, err := New(Config[*testAppContext]{
		AppContext: &testAppContext{},
		Handlers:   []framework.RouteHandler[*testAppContext]{postRoute(echoID)},
		RenderPage: func(*http.Request, http.ResponseWriter, templ.Component) error {
			return errors.New("client went away")
		},
		HandleServerError: func(_ http.ResponseWriter, err error) { serverErr = err },
	})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	routeEngine.ServeRoute(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/posts/1", nil))
	if serverErr == nil || serverErr.Error() != `render route "/posts/{id}": client went away` {
		t.Fatalf("unexpected server error: %v", serverErr)
	}
}
