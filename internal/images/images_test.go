package images

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sinbibook/yeoyoochae/internal/data"
)

func records() []any {
	return []any{
		map[string]any{"url": "c.jpg", "isSelected": true, "sortOrder": float64(3), "category": "interior"},
		map[string]any{"url": "a.jpg", "isSelected": true, "sortOrder": float64(1), "category": "exterior"},
		map[string]any{"url": "skip.jpg", "isSelected": false, "sortOrder": float64(0)},
		map[string]any{"url": "   ", "isSelected": true},
		map[string]any{"url": "truthy.jpg", "isSelected": "true"},
		map[string]any{"url": "zero.jpg", "isSelected": true, "category": "exterior"},
		map[string]any{"url": "b.jpg", "isSelected": true, "sortOrder": float64(1), "category": "exterior"},
		"not-an-object",
	}
}

func urls(imgs []Image) []string {
	out := make([]string, 0, len(imgs))
	for _, img := range imgs {
		out = append(out, img.URL)
	}
	return out
}

func TestSelectedFiltersAndOrders(t *testing.T) {
	t.Parallel()

	got := Selected(FromRecords(records()), "")
	require.Equal(t, []string{"zero.jpg", "a.jpg", "b.jpg", "c.jpg"}, urls(got))
	for i := 1; i < len(got); i++ {
		require.LessOrEqual(t, got[i-1].SortOrder, got[i].SortOrder)
	}
}

func TestSelectedByCategory(t *testing.T) {
	t.Parallel()

	got := Selected(FromRecords(records()), "exterior")
	require.Equal(t, []string{"zero.jpg", "a.jpg", "b.jpg"}, urls(got))
}

func TestFirstNthLast(t *testing.T) {
	t.Parallel()

	recs := FromRecords(records())

	first, ok := First(recs, "interior")
	require.True(t, ok)
	require.Equal(t, "c.jpg", first.URL)

	second, ok := Nth(recs, 1, 0)
	require.True(t, ok)
	require.Equal(t, "a.jpg", second.URL)

	fb, ok := Nth(recs, 10, 0)
	require.True(t, ok)
	require.Equal(t, "zero.jpg", fb.URL)

	last, ok := Last(recs, "")
	require.True(t, ok)
	require.Equal(t, "c.jpg", last.URL)
}

func TestEmptyInputIsSafe(t *testing.T) {
	t.Parallel()

	require.Empty(t, Selected(nil, ""))
	_, ok := First(FromRecords(nil), "")
	require.False(t, ok)
	_, ok = Nth(nil, 0, 0)
	require.False(t, ok)
}

func TestSelectedIsIdempotent(t *testing.T) {
	t.Parallel()

	once := Selected(FromRecords(records()), "")
	twice := Selected(once, "")
	require.Equal(t, once, twice)
}

func TestLogoURL(t *testing.T) {
	t.Parallel()

	doc := data.Document{"homepage": map[string]any{"images": []any{map[string]any{"logo": []any{
		map[string]any{"url": "off.png", "isSelected": false},
		map[string]any{"url": "logo.png", "isSelected": true},
	}}}}}
	require.Equal(t, "logo.png", LogoURL(doc))
	require.Empty(t, LogoURL(data.Document{}))
}
