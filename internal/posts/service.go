package posts

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	md "blueblog/internal/markdown"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const defaultLocale = "en"

type Service struct {
	store   Store
	locale  language.Tag
	rootURL string
}

func NewService(store Store, locale string, rootURL string) *Service {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		tag = language.MustParse(defaultLocale)
	}

	return &Service{
		store:   store,
		locale:  tag,
		rootURL: strings.TrimSpace(rootURL),
	}
}

// GetSortedPostsData returns every post ordered by title under the service locale.
func (s *Service) GetSortedPostsData(ctx context.Context) ([]Post, error) {
	records, err := s.store.ListPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	out := make([]Post, 0, len(records))
	for _, record := range records {
		out = append(out, s.normalize(record))
	}

	// Collators are not safe for concurrent use.
	collator := collate.New(s.locale)
	sort.SliceStable(out, func(i, j int) bool {
		return collator.CompareString(out[i].Title, out[j].Title) < 0
	})

	return out, nil
}

func (s *Service) GetAllPostIDs(ctx context.Context) ([]PostID, error) {
	ids, err := s.store.ListPostIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list post ids: %w", err)
	}

	out := make([]PostID, 0, len(ids))
	for _, id := range ids {
		out = append(out, PostID{ID: id})
	}

	return out, nil
}

// GetPostData looks a post up by identifier. A missing post yields the
// NotFoundPost placeholder and a nil error.
func (s *Service) GetPostData(ctx context.Context, id string) (Post, error) {
	record, err := s.store.GetPost(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return NotFoundPost(id), nil
	}
	if err != nil {
		return Post{}, fmt.Errorf("get post %q: %w", id, err)
	}
	if record.ID == "" {
		record.ID = id
	}

	return s.normalize(record), nil
}

// Excerpt is a plain-text summary of the post body.
func (s *Service) Excerpt(post Post, maxChars int) string {
	if strings.TrimSpace(post.Content) != "" {
		return md.Excerpt(post.Content, maxChars)
	}

	return md.Excerpt(post.ContentHTML, maxChars)
}

func (s *Service) normalize(record Post) Post {
	if strings.TrimSpace(record.ContentHTML) == "" && strings.TrimSpace(record.Content) != "" {
		record.ContentHTML = string(md.ToHTML(record.Content, md.Options{RootURL: s.rootURL}))
	}

	return record
}
