// Package textutil resolves display text and turns builder-supplied text into
// safe markup.
package textutil

import (
	"strings"

	"github.com/sinbibook/yeoyoochae/internal/data"
)

// LineBreak is the markup inserted for a newline.
const LineBreak = "<br>"

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
	"/", "&#x2F;",
)

// ResolveText picks the display value for a field with a builder override.
// A custom value wins when it is non-blank after trimming and is returned
// trimmed. Otherwise a non-blank canonical value is returned as-is, untrimmed.
// Otherwise placeholder.
func ResolveText(custom, canonical any, placeholder string) string {
	if c := data.String(custom); strings.TrimSpace(c) != "" {
		return strings.TrimSpace(c)
	}
	if v := data.String(canonical); strings.TrimSpace(v) != "" {
		return v
	}
	return placeholder
}

// FirstNonEmpty returns the first value that is not blank.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// EscapeHTML escapes & < > " ' and /.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// WithLineBreaks trims and escapes s, then turns newlines into line breaks.
func WithLineBreaks(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return breaks(EscapeHTML(s))
}

// RenderMixedScript escapes s, converts newlines to breaks and wraps maximal
// Hangul runs in ko-title spans and every other run in en-title spans. Runs
// never cross a line break.
func RenderMixedScript(s string) string {
	if s == "" {
		return ""
	}
	lines := strings.Split(breaks(EscapeHTML(s)), LineBreak)
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteString(LineBreak)
		}
		writeScriptRuns(&b, line)
	}
	return b.String()
}

func writeScriptRuns(b *strings.Builder, line string) {
	runes := []rune(line)
	start := 0
	for start < len(runes) {
		ko := IsHangul(runes[start])
		end := start + 1
		for end < len(runes) && IsHangul(runes[end]) == ko {
			end++
		}
		class := "en-title"
		if ko {
			class = "ko-title"
		}
		b.WriteString(`<span class="` + class + `">`)
		b.WriteString(string(runes[start:end]))
		b.WriteString(`</span>`)
		start = end
	}
}

// IsHangul reports whether r is a Hangul compatibility jamo or a precomposed syllable.
func IsHangul(r rune) bool {
	switch {
	case r >= 'ㄱ' && r <= 'ㅎ':
		return true
	case r >= 'ㅏ' && r <= 'ㅣ':
		return true
	case r >= '가' && r <= '힣':
		return true
	}
	return false
}

// Lines splits s on newlines, trims each line and drops blank ones.
func Lines(s string) []string {
	raw := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(raw))
	for _, l := range raw {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// Paragraphs renders one escaped paragraph per non-blank line.
func Paragraphs(s, class string) string {
	var b strings.Builder
	for _, l := range Lines(s) {
		if class != "" {
			b.WriteString(`<p class="` + EscapeHTML(class) + `">`)
		} else {
			b.WriteString("<p>")
		}
		b.WriteString(EscapeHTML(l))
		b.WriteString("</p>")
	}
	return b.String()
}

func breaks(escaped string) string {
	escaped = strings.ReplaceAll(escaped, "\r\n", "\n")
	return strings.ReplaceAll(escaped, "\n", LineBreak)
}
