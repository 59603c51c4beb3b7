package components

import (
	"context"
	"io"

	"blueblog/internal/web/appcore"
	"github.com/a-h/templ"
)

func HomePage(view appcore.HomePageView) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw(`<section class="heading-md">`)
		hw.raw(`<p>Hello, I'm `)
		hw.text(view.Site.Title)
		hw.raw(` the British Blue cat. I'm just starting to learn the uses of Go.</p>`)
		hw.raw(`<p>Pretty good for a cat's first effort at a blog, huh?!!</p>`)
		hw.raw(`</section>`)

		hw.raw(`<section class="heading-md padding-1px blog-section">`)
		hw.raw(`<h2 class="heading-lg">A British Blue Cat's Blog</h2><ul class="list">`)
		for _, item := range view.Posts {
			hw.raw(`<li class="list-item"><a`)
			hw.attr("href", item.URL)
			hw.raw(`>`)
			hw.text(item.Title)
			hw.raw(`</a><br><small class="light-text">`)
			writeDate(hw, item.Date, item.DateTime)
			hw.raw(`</small></li>`)
		}
		hw.raw(`</ul></section>`)
		return hw.err
	})
}

func PostPage(view appcore.PostPageView) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw(`<article><h1 class="heading-xl">`)
		hw.text(view.Post.Title)
		hw.raw(`</h1><div class="light-text">`)
		writeDate(hw, view.Date, view.DateTime)
		hw.raw(`</div>`)
		if view.Post.ImagePath != "" {
			hw.raw(`<img class="post-image"`)
			hw.attr("src", view.Post.ImagePath)
			hw.attr("alt", view.Post.AltText)
			hw.raw(`>`)
		}
		hw.raw(`<div class="post-content">`)
		hw.raw(view.Post.ContentHTML)
		hw.raw(`</div></article>`)
		return hw.err
	})
}

func NotFoundPage(view appcore.NotFoundPageView) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw(`<article><h1 class="heading-xl">`)
		hw.text(view.Post.Title)
		hw.raw(`</h1><p>`)
		hw.text(view.Post.ContentHTML)
		hw.raw(`</p></article>`)
		return hw.err
	})
}

// writeDate renders nothing for an empty date.
func writeDate(hw *htmlWriter, label string, machine string) {
	if label == "" {
		return
	}
	hw.raw(`<time`)
	if machine != "" {
		hw.attr("datetime", machine)
	}
	hw.raw(`>`)
	hw.text(label)
	hw.raw(`</time>`)
}
