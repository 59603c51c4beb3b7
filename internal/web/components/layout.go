package components

import (
	"context"
	"io"

	"blueblog/internal/markdown"
	"blueblog/internal/web/appcore"
	"github.com/a-h/templ"
)

const (
	profileImagePath = "/static/profile.svg"
	siteStylesheet   = "/static/site.css"
)

// Layout is the root document. The homepage gets the large profile header;
// every other page links back home.
func Layout(view appcore.PageView, child templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		site := view.LayoutSite()
		title := view.LayoutPageTitle()
		if title == "" || title == site.Title {
			title = site.Title
		} else if site.Title != "" {
			title = title + " | " + site.Title
		}

		hw := &htmlWriter{w: w}
		hw.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		hw.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		hw.raw(`<title>`)
		hw.text(title)
		hw.raw(`</title>`)
		if description := view.LayoutDescription(); description != "" {
			hw.raw(`<meta name="description"`)
			hw.attr("content", description)
			hw.raw(`>`)
		}
		hw.raw(`<meta property="og:title"`)
		hw.attr("content", title)
		hw.raw(`>`)
		hw.raw(`<link rel="icon" href="/static/profile.svg" type="image/svg+xml">`)
		hw.raw(`<link rel="stylesheet"`)
		hw.attr("href", siteStylesheet)
		hw.raw(`>`)
		if !view.LayoutIsHome() {
			hw.raw(`<link rel="stylesheet"`)
			hw.attr("href", "/static/"+markdown.ChromaStylesheetName)
			hw.raw(`>`)
		}
		hw.raw(`</head><body><div class="container"><header class="header">`)
		writeHeader(hw, site, view.LayoutIsHome())
		hw.raw(`</header><main>`)
		if hw.err != nil {
			return hw.err
		}

		if err := child.Render(ctx, w); err != nil {
			return err
		}

		hw.raw(`</main>`)
		if !view.LayoutIsHome() {
			hw.raw(`<div class="back-to-home"><a href="/">← Back to home</a></div>`)
		}
		hw.raw(`</div></body></html>`)
		return hw.err
	})
}

func writeHeader(hw *htmlWriter, site appcore.Site, home bool) {
	if home {
		hw.raw(`<img class="border-circle" width="144" height="144"`)
		hw.attr("src", profileImagePath)
		hw.attr("alt", site.Title)
		hw.raw(`><h1 class="heading-2xl">`)
		hw.text(site.Title)
		hw.raw(`</h1>`)
		return
	}

	hw.raw(`<a href="/"><img class="border-circle" width="108" height="108"`)
	hw.attr("src", profileImagePath)
	hw.attr("alt", site.Title)
	hw.raw(`></a><h2 class="heading-lg"><a class="color-inherit" href="/">`)
	hw.text(site.Title)
	hw.raw(`</a></h2>`)
}
