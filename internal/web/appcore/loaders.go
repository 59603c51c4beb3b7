package appcore

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"blueblog/framework"
	"blueblog/internal/posts"
)

func LoadHomePage(
	ctx context.Context,
	appCtx *Context,
	_ *http.Request,
	_ framework.EmptyParams,
) (HomePageView, error) {
	service, err := postsService(appCtx)
	if err != nil {
		return HomePageView{}, err
	}

	sorted, err := service.GetSortedPostsData(ctx)
	if err != nil {
		return HomePageView{}, err
	}

	items := make([]PostListItem, 0, len(sorted))
	for _, post := range sorted {
		items = append(items, newPostListItem(post))
	}

	return HomePageView{Site: appCtx.Site(), Posts: items}, nil
}

// LoadPostPage answers with posts.ErrNotFound for the placeholder record so
// unknown ids get the 404 page.
func LoadPostPage(
	ctx context.Context,
	appCtx *Context,
	_ *http.Request,
	params framework.IDParams,
) (PostPageView, error) {
	service, err := postsService(appCtx)
	if err != nil {
		return PostPageView{}, err
	}

	post, err := service.GetPostData(ctx, params.ID)
	if err != nil {
		return PostPageView{}, err
	}
	if post.IsPlaceholder() {
		return PostPageView{}, fmt.Errorf("post %q: %w", params.ID, posts.ErrNotFound)
	}

	return PostPageView{
		Site:        appCtx.Site(),
		Post:        post,
		Date:        posts.FormatDate(post.Date),
		DateTime:    posts.MachineDate(post.Date),
		Description: service.Excerpt(post, descriptionLength),
	}, nil
}

func HomeStaticParams(context.Context, *Context) ([]framework.EmptyParams, error) {
	return []framework.EmptyParams{{}}, nil
}

func HomePath(framework.EmptyParams) string {
	return "/"
}

// PostStaticParams lists every stored post id for pre-rendering.
func PostStaticParams(ctx context.Context, appCtx *Context) ([]framework.IDParams, error) {
	service, err := postsService(appCtx)
	if err != nil {
		return nil, err
	}

	ids, err := service.GetAllPostIDs(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]framework.IDParams, 0, len(ids))
	for _, id := range ids {
		out = append(out, framework.IDParams{ID: id.ID})
	}
	return out, nil
}

func PostPath(params framework.IDParams) string {
	return PostURL(params.ID)
}

func ParseHomeParams(path string) (framework.EmptyParams, bool) {
	return framework.EmptyParams{}, path == "/" || path == "/index.html"
}

// ParsePostParams matches /posts/{id} with an optional trailing slash.
func ParsePostParams(path string) (framework.IDParams, bool) {
	const prefix = "/posts/"
	if !strings.HasPrefix(path, prefix) {
		return framework.IDParams{}, false
	}

	id := strings.TrimSuffix(strings.TrimPrefix(path, prefix), "/")
	if id == "" || strings.Contains(id, "/") {
		return framework.IDParams{}, false
	}
	return framework.IDParams{ID: id}, true
}
