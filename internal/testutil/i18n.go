package testutil

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/sinbibook/yeoyoochae/internal/i18n"
)

// RepoPath resolves a path relative to the repository root.
func RepoPath(parts ...string) string {
	_, file, _, _ := runtime.Caller(0)
	root := filepath.Join(filepath.Dir(file), "..", "..")
	return filepath.Join(append([]string{root}, parts...)...)
}

// Messages loads the repository locale bundle bound to lang.
func Messages(t testing.TB, lang string) i18n.Localizer {
	t.Helper()

	b, err := i18n.Load(RepoPath("locales"), "ko", []string{"ko", "en"})
	if err != nil {
		t.Fatalf("load locales: %v", err)
	}
	return b.For(lang)
}
