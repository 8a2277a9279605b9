package data

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMergeReplacesArraysAndMergesObjects(t *testing.T) {
	t.Parallel()

	existing := map[string]any{
		"property": map[string]any{"name": "old", "phone": "010"},
		"rooms":    []any{map[string]any{"id": "r1"}, map[string]any{"id": "r2"}},
		"keep":     "yes",
	}
	updates := map[string]any{
		"property": map[string]any{"name": "new"},
		"rooms":    []any{map[string]any{"id": "r3"}},
		"keep":     nil,
	}

	got := Merge(existing, updates)

	require.Equal(t, "new", Get(got, "property.name", nil))
	require.Equal(t, "010", Get(got, "property.phone", nil))
	require.Len(t, Slice(got["rooms"]), 1)
	require.Equal(t, "r3", Get(got, "rooms.0.id", nil))
	require.Contains(t, got, "keep")
	require.Nil(t, got["keep"])

	// inputs untouched
	require.Equal(t, "old", Get(existing, "property.name", nil))
	require.Len(t, Slice(existing["rooms"]), 2)
}

func TestMergeDoesNotAliasUpdates(t *testing.T) {
	t.Parallel()

	images := []any{map[string]any{"url": "a.jpg"}}
	got := Merge(nil, map[string]any{"images": images})
	Map(Slice(got["images"])[0])["url"] = "b.jpg"

	require.Equal(t, "a.jpg", Get(images, "0.url", nil))
}
