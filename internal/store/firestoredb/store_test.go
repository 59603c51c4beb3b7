package firestoredb

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"blueblog/internal/posts"
	"cloud.google.com/go/firestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePost(t *testing.T) {
	published := time.Date(2023, 6, 1, 8, 30, 0, 0, time.FixedZone("BST", 3600))

	got := decodePost("doc-1", map[string]interface{}{
		"title":       "  The red dot ",
		"date":        published,
		"imagePath":   "/images/dot.png",
		"altText":     "a laser dot",
		"contentHtml": "<p>chase</p>\n",
		"extra":       "ignored",
	})

	assert.Equal(t, posts.Post{
		ID:          "doc-1",
		Title:       "The red dot",
		Date:        "2023-06-01T07:30:00Z",
		ImagePath:   "/images/dot.png",
		AltText:     "a laser dot",
		ContentHTML: "<p>chase</p>\n",
	}, got)
}

func TestStringFieldScalars(t *testing.T) {
	data := map[string]interface{}{
		"int":   int64(42),
		"float": 1.5,
		"bool":  true,
	}

	assert.Equal(t, "42", stringField(data, "int"))
	assert.Equal(t, "1.5", stringField(data, "float"))
	assert.Equal(t, "true", stringField(data, "bool"))
	assert.Equal(t, "", stringField(data, "absent"))
}

func TestValidateID(t *testing.T) {
	for _, id := range []string{"", ".", "..", "a/b"} {
		assert.ErrorIs(t, validateID(id), posts.ErrNotFound, id)
	}
	assert.NoError(t, validateID("abc123"))
}

func TestStoreAgainstEmulator(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := firestore.NewClient(ctx, "blueblog-test")
	require.NoError(t, err)
	defer client.Close()

	collection := fmt.Sprintf("posts_%d", time.Now().UnixNano())
	for id, title := range map[string]string{"b": "Bravo", "a": "Alpha"} {
		_, err := client.Collection(collection).Doc(id).Set(ctx, map[string]interface{}{
			"title":       title,
			"date":        "2024-01-01",
			"contentHtml": "<p>" + title + "</p>",
		})
		require.NoError(t, err)
	}

	store := New(client, collection)

	all, err := store.ListPosts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	ids, err := store.ListPostIDs(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, ids)

	post, err := store.GetPost(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "Bravo", post.Title)

	_, err = store.GetPost(ctx, "zzz")
	assert.ErrorIs(t, err, posts.ErrNotFound)
}
