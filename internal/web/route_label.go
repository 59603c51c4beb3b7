package web

import "strings"

// RouteLabel maps a request path to its route pattern so metric labels stay bounded.
func RouteLabel(path string) string {
	switch {
	case path == "/" || path == "/index.html":
		return HomeRoutePattern
	case strings.HasPrefix(path, "/posts/"):
		return PostRoutePattern
	case strings.HasPrefix(path, "/static/"):
		return "/static/"
	case path == "/healthz" || path == "/metrics":
		return path
	default:
		return "unmatched"
	}
}
