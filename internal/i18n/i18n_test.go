package i18n

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func loadBundle(t *testing.T) *Bundle {
	t.Helper()
	b, err := Load("../../locales", "ko", []string{"ko", "en"})
	require.NoError(t, err)
	return b
}

func TestResolveHonorsQValues(t *testing.T) {
	t.Parallel()

	b := loadBundle(t)
	require.Equal(t, "en", b.Resolve("ko;q=0.8, en;q=0.9"))
	require.Equal(t, "ko", b.Resolve("ko-KR,ko;q=0.9"))
	require.Equal(t, "en", b.Resolve("en-US"))
}

func TestResolveFallsBackForUnknownLanguages(t *testing.T) {
	t.Parallel()

	b := loadBundle(t)
	require.Equal(t, "ko", b.Resolve("fr-FR"))
	require.Equal(t, "ko", b.Resolve(""))
}

func TestLocalizerFallsBackToDefaultThenKey(t *testing.T) {
	t.Parallel()

	b := loadBundle(t)
	ko := b.For("ko")
	en := b.For("en")

	require.Equal(t, "정보 없음", ko.T("placeholder.no_info"))
	require.Equal(t, "No information", en.T("placeholder.no_info"))
	require.Equal(t, "missing.key", en.T("missing.key"))
	require.Equal(t, "ko", b.For("de").Lang())
	require.Equal(t, "missing.key", Localizer{}.T("missing.key"))
}

func TestLocalizerFormats(t *testing.T) {
	t.Parallel()

	b := loadBundle(t)
	require.Equal(t, "시설3", b.For("ko").Tf("menu.facility_n", 3))
}
