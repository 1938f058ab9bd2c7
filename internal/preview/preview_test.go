package preview

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/bookbuilder/internal/build"
	"git.home.luguber.info/inful/bookbuilder/internal/codeblock"
	"git.home.luguber.info/inful/bookbuilder/internal/config"
)

// exampleBook scaffolds the example book in a temp dir with every input
// aged by an hour.
func exampleBook(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "book.yaml")
	require.NoError(t, config.Init(path, false))
	cfg, err := config.Load(path)
	require.NoError(t, err)
	_, err = config.Scaffold(cfg)
	require.NoError(t, err)

	past := time.Now().Add(-time.Hour)
	require.NoError(t, filepath.WalkDir(dir, func(p string, _ os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		return os.Chtimes(p, past, past)
	}))
	return cfg
}

func newBuilder(t *testing.T, cfg *config.Config, opts ...build.Option) *build.Builder {
	t.Helper()
	opts = append([]build.Option{build.WithHighlighter(codeblock.PlainHighlighter{})}, opts...)
	b, err := build.New(cfg, opts...)
	require.NoError(t, err)
	return b
}

// writeChapter replaces a chapter source and dates it in the future.
func writeChapter(t *testing.T, cfg *config.Config, file, source string) {
	t.Helper()
	path := cfg.ChapterPath(file)
	require.NoError(t, os.WriteFile(path, []byte(source), 0o600))
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, future, future))
}
