package firestoredb

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"blueblog/internal/posts"
	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
)

const (
	fieldTitle       = "title"
	fieldDate        = "date"
	fieldImagePath   = "imagePath"
	fieldAltText     = "altText"
	fieldContentHTML = "contentHtml"
	fieldContent     = "content"
)

type Config struct {
	ProjectID       string
	Collection      string
	CredentialsFile string
}

// Store reads posts from a Firestore collection. FIRESTORE_EMULATOR_HOST is
// honoured by the client.
type Store struct {
	client     *firestore.Client
	collection string
}

var _ posts.Store = (*Store)(nil)

func Open(ctx context.Context, cfg Config) (*Store, error) {
	projectID := strings.TrimSpace(cfg.ProjectID)
	if projectID == "" {
		projectID = firestore.DetectProjectID
	}

	var opts []option.ClientOption
	if file := strings.TrimSpace(cfg.CredentialsFile); file != "" {
		opts = append(opts, option.WithCredentialsFile(file))
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}

	return New(client, cfg.Collection), nil
}

func New(client *firestore.Client, collection string) *Store {
	collection = strings.TrimSpace(collection)
	if collection == "" {
		collection = "posts"
	}

	return &Store{client: client, collection: collection}
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) ListPosts(ctx context.Context) ([]posts.Post, error) {
	snapshots, err := s.client.Collection(s.collection).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("read collection %q: %w", s.collection, err)
	}

	out := make([]posts.Post, 0, len(snapshots))
	for _, snapshot := range snapshots {
		out = append(out, decodePost(snapshot.Ref.ID, snapshot.Data()))
	}

	return out, nil
}

func (s *Store) ListPostIDs(ctx context.Context) ([]string, error) {
	// An empty projection returns document references without field data.
	snapshots, err := s.client.Collection(s.collection).Select().Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("read collection %q: %w", s.collection, err)
	}

	out := make([]string, 0, len(snapshots))
	for _, snapshot := range snapshots {
		out = append(out, snapshot.Ref.ID)
	}

	return out, nil
}

func (s *Store) GetPost(ctx context.Context, id string) (posts.Post, error) {
	if err := validateID(id); err != nil {
		return posts.Post{}, err
	}

	collection := s.client.Collection(s.collection)
	snapshots, err := collection.
		Where(firestore.DocumentID, "==", collection.Doc(id)).
		Limit(1).
		Documents(ctx).
		GetAll()
	if err != nil {
		return posts.Post{}, fmt.Errorf("query %q by id: %w", s.collection, err)
	}
	if len(snapshots) == 0 {
		return posts.Post{}, posts.ErrNotFound
	}

	return decodePost(snapshots[0].Ref.ID, snapshots[0].Data()), nil
}

// Document ids cannot contain slashes and "." / ".." are reserved; such
// identifiers can never match a document.
func validateID(id string) error {
	if id == "" || id == "." || id == ".." || strings.Contains(id, "/") {
		return fmt.Errorf("%w: invalid document id %q", posts.ErrNotFound, id)
	}

	return nil
}

func decodePost(id string, data map[string]interface{}) posts.Post {
	return posts.Post{
		ID:          id,
		Title:       strings.TrimSpace(stringField(data, fieldTitle)),
		Date:        strings.TrimSpace(stringField(data, fieldDate)),
		ImagePath:   strings.TrimSpace(stringField(data, fieldImagePath)),
		AltText:     strings.TrimSpace(stringField(data, fieldAltText)),
		ContentHTML: stringField(data, fieldContentHTML),
		Content:     stringField(data, fieldContent),
	}
}

func stringField(data map[string]interface{}, key string) string {
	switch value := data[key].(type) {
	case nil:
		return ""
	case string:
		return value
	case time.Time:
		return value.UTC().Format(time.RFC3339)
	case int64:
		return strconv.FormatInt(value, 10)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	default:
		return fmt.Sprint(value)
	}
}
