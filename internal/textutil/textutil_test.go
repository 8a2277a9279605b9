package textutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveText(t *testing.T) {
	t.Parallel()

	t.Run("custom value wins and is trimmed", func(t *testing.T) {
		require.Equal(t, "커스텀", ResolveText("  커스텀 ", "canonical", "placeholder"))
	})
	t.Run("whitespace-only custom falls through to canonical untrimmed", func(t *testing.T) {
		require.Equal(t, "  canonical ", ResolveText("   ", "  canonical ", "placeholder"))
	})
	t.Run("missing custom uses canonical", func(t *testing.T) {
		require.Equal(t, "canonical", ResolveText(nil, "canonical", "placeholder"))
	})
	t.Run("blank canonical yields placeholder", func(t *testing.T) {
		require.Equal(t, "placeholder", ResolveText("", "  ", "placeholder"))
		require.Equal(t, "placeholder", ResolveText(nil, nil, "placeholder"))
	})
	t.Run("non-string custom values are coerced", func(t *testing.T) {
		require.Equal(t, "4", ResolveText(float64(4), "x", "p"))
	})
}

func TestEscapeHTML(t *testing.T) {
	t.Parallel()

	require.Equal(t, "&lt;a href=&quot;x&quot;&gt;&#39;&amp;&#39;&lt;&#x2F;a&gt;", EscapeHTML(`<a href="x">'&'</a>`))
}

func TestWithLineBreaksEscapesBeforeBreaking(t *testing.T) {
	t.Parallel()

	got := WithLineBreaks("<b>a\nb</b>")
	require.Equal(t, "&lt;b&gt;a<br>b&lt;&#x2F;b&gt;", got)
	require.Equal(t, 1, strings.Count(got, "<br>"))
	require.NotContains(t, got, "<b>")
	require.Empty(t, WithLineBreaks("   "))
}

func TestRenderMixedScript(t *testing.T) {
	t.Parallel()

	got := RenderMixedScript("여유채 Stay\n숲속")
	require.Equal(t,
		`<span class="ko-title">여유채</span><span class="en-title"> Stay</span><br><span class="ko-title">숲속</span>`,
		got)
}

func TestRenderMixedScriptKeepsEntitiesIntact(t *testing.T) {
	t.Parallel()

	got := RenderMixedScript("방<1>")
	require.Equal(t, `<span class="ko-title">방</span><span class="en-title">&lt;1&gt;</span>`, got)
	require.Empty(t, RenderMixedScript(""))
}

func TestParagraphsSkipBlankLines(t *testing.T) {
	t.Parallel()

	got := Paragraphs("첫째 줄\n\n  \n<둘째>", "ko-body")
	require.Equal(t, `<p class="ko-body">첫째 줄</p><p class="ko-body">&lt;둘째&gt;</p>`, got)
	require.Empty(t, Paragraphs("", ""))
}
