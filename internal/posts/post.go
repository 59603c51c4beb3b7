package posts

import (
	"context"
	"errors"
	"strings"
	"time"
)

var ErrNotFound = errors.New("not found")

const notFoundText = "Not found"

// Post is a single record of the posts collection.
type Post struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	ImagePath   string `json:"imagePath,omitempty"`
	AltText     string `json:"altText,omitempty"`
	ContentHTML string `json:"contentHtml"`
	Content     string `json:"content,omitempty"`
}

// PostID is one entry of the identifier listing used to enumerate post routes.
type PostID struct {
	ID string `json:"id"`
}

// Store is the document store holding the posts collection.
type Store interface {
	ListPosts(ctx context.Context) ([]Post, error)
	ListPostIDs(ctx context.Context) ([]string, error)
	// GetPost returns ErrNotFound when no record has the identifier.
	GetPost(ctx context.Context, id string) (Post, error)
}

// NotFoundPost is the record served in place of a missing post.
func NotFoundPost(id string) Post {
	return Post{
		ID:          id,
		Title:       notFoundText,
		Date:        "",
		ContentHTML: notFoundText,
	}
}

func (p Post) IsPlaceholder() bool {
	return p.Title == notFoundText &&
		p.ContentHTML == notFoundText &&
		p.Date == "" &&
		p.ImagePath == "" &&
		p.Content == ""
}

// FormatDate renders a stored date as "January 2, 2006". Values that are not
// ISO dates are returned unchanged.
func FormatDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	for _, layout := range []string{time.DateOnly, time.RFC3339, time.RFC3339Nano} {
		parsed, err := time.Parse(layout, raw)
		if err == nil {
			return parsed.Format("January 2, 2006")
		}
	}

	return raw
}

// MachineDate renders a stored date for a <time datetime> attribute.
func MachineDate(raw string) string {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{time.DateOnly, time.RFC3339, time.RFC3339Nano} {
		parsed, err := time.Parse(layout, raw)
		if err == nil {
			return parsed.Format(time.DateOnly)
		}
	}

	return ""
}
