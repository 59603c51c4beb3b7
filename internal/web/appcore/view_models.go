package appcore

import (
	"net/url"

	"blueblog/internal/posts"
)

const descriptionLength = 160

// PageView is implemented by every view model the root layout wraps.
type PageView interface {
	LayoutSite() Site
	LayoutPageTitle() string
	LayoutDescription() string
	LayoutIsHome() bool
}

type PostListItem struct {
	ID       string
	Title    string
	URL      string
	Date     string
	DateTime string
}

type HomePageView struct {
	Site  Site
	Posts []PostListItem
}

func (v HomePageView) LayoutSite() Site          { return v.Site }
func (v HomePageView) LayoutPageTitle() string   { return v.Site.Title }
func (v HomePageView) LayoutDescription() string { return "A British Blue cat's blog." }
func (v HomePageView) LayoutIsHome() bool        { return true }

type PostPageView struct {
	Site        Site
	Post        posts.Post
	Date        string
	DateTime    string
	Description string
}

func (v PostPageView) LayoutSite() Site          { return v.Site }
func (v PostPageView) LayoutPageTitle() string   { return v.Post.Title }
func (v PostPageView) LayoutDescription() string { return v.Description }
func (v PostPageView) LayoutIsHome() bool        { return false }

type NotFoundPageView struct {
	Site        Site
	Post        posts.Post
	RequestPath string
}

func NewNotFoundPageView(site Site, requestPath string) NotFoundPageView {
	return NotFoundPageView{
		Site:        site,
		Post:        posts.NotFoundPost(""),
		RequestPath: requestPath,
	}
}

func (v NotFoundPageView) LayoutSite() Site          { return v.Site }
func (v NotFoundPageView) LayoutPageTitle() string   { return v.Post.Title }
func (v NotFoundPageView) LayoutDescription() string { return "" }
func (v NotFoundPageView) LayoutIsHome() bool        { return false }

// PostURL is the site path of a post page.
func PostURL(id string) string {
	return "/posts/" + url.PathEscape(id)
}

func newPostListItem(post posts.Post) PostListItem {
	return PostListItem{
		ID:       post.ID,
		Title:    post.Title,
		URL:      PostURL(post.ID),
		Date:     posts.FormatDate(post.Date),
		DateTime: posts.MachineDate(post.Date),
	}
}
