package appcore

import (
	"errors"

	"blueblog/internal/posts"
)

var errPostsServiceUnavailable = errors.New("posts service unavailable")

// Site holds the settings shared by every page.
type Site struct {
	Title   string
	RootURL string
}

type Context struct {
	service *posts.Service
	site    Site
}

func NewContext(service *posts.Service, site Site) *Context {
	return &Context{service: service, site: site}
}

func (c *Context) Site() Site {
	if c == nil {
		return Site{}
	}
	return c.site
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, posts.ErrNotFound)
}

func postsService(appCtx *Context) (*posts.Service, error) {
	if appCtx == nil || appCtx.service == nil {
		return nil, errPostsServiceUnavailable
	}
	return appCtx.service, nil
}
