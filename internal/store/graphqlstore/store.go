package graphqlstore

import (
	"context"
	"strings"

	"blueblog/internal/gql"
	"blueblog/internal/posts"
	genqlientgraphql "github.com/Khan/genqlient/graphql"
)

// Store reads posts from a headless CMS over GraphQL.
type Store struct {
	client genqlientgraphql.Client
}

var _ posts.Store = (*Store)(nil)

func New(client genqlientgraphql.Client) *Store {
	return &Store{client: client}
}

func (s *Store) ListPosts(ctx context.Context) ([]posts.Post, error) {
	response, err := gql.ListPosts(ctx, s.client)
	if err != nil {
		return nil, err
	}
	if response == nil || response.Posts == nil {
		return []posts.Post{}, nil
	}

	out := make([]posts.Post, 0, len(response.Posts.Docs))
	for _, doc := range response.Posts.Docs {
		out = append(out, mapPost(doc))
	}

	return out, nil
}

func (s *Store) ListPostIDs(ctx context.Context) ([]string, error) {
	response, err := gql.ListPostIDs(ctx, s.client)
	if err != nil {
		return nil, err
	}
	if response == nil || response.Posts == nil {
		return []string{}, nil
	}

	out := make([]string, 0, len(response.Posts.Docs))
	for _, doc := range response.Posts.Docs {
		out = append(out, doc.Id)
	}

	return out, nil
}

func (s *Store) GetPost(ctx context.Context, id string) (posts.Post, error) {
	response, err := gql.PostByID(ctx, s.client, id)
	if err != nil {
		return posts.Post{}, err
	}
	if response == nil || response.Posts == nil || len(response.Posts.Docs) == 0 {
		return posts.Post{}, posts.ErrNotFound
	}

	return mapPost(response.Posts.Docs[0]), nil
}

func mapPost(doc gql.PostDoc) posts.Post {
	return posts.Post{
		ID:          doc.Id,
		Title:       strOr(doc.Title, ""),
		Date:        strOr(doc.Date, ""),
		ImagePath:   strOr(doc.ImagePath, ""),
		AltText:     strOr(doc.AltText, ""),
		ContentHTML: rawOr(doc.ContentHtml),
		Content:     rawOr(doc.Content),
	}
}

func strOr(value *string, fallback string) string {
	if value == nil {
		return fallback
	}

	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return fallback
	}

	return trimmed
}

// rawOr keeps body whitespace intact; markdown is indentation sensitive.
func rawOr(value *string) string {
	if value == nil {
		return ""
	}

	return *value
}
