package docs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specdock/specdock/internal/logging"
)

func newTestStore(t *testing.T, formats []string) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	return NewStore(dir, formats, logging.NewSilentLogger()), dir
}

func writeDoc(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestList_SortedWithMetadata(t *testing.T) {
	t.Parallel()
	store, dir := newTestStore(t, nil)
	writeDoc(t, dir, "zeta.txt", "plain text")
	writeDoc(t, dir, "alpha.md", "# Alpha Requirements\n\nBody.")
	writeDoc(t, dir, "ignored.docx", "binary-ish")

	metas, err := store.List()
	require.NoError(t, err)
	require.Len(t, metas, 2)

	assert.Equal(t, "alpha", metas[0].ID)
	assert.Equal(t, "alpha.md", metas[0].Filename)
	assert.Equal(t, ".md", metas[0].Format)
	assert.Equal(t, "Alpha Requirements", metas[0].Title)
	assert.Greater(t, metas[0].Size, int64(0))

	assert.Equal(t, "zeta", metas[1].ID)
	assert.Empty(t, metas[1].Title, "plain text files carry no title")
}

func TestList_MissingDirIsEmpty(t *testing.T) {
	t.Parallel()
	store := NewStore(filepath.Join(t.TempDir(), "absent"), nil, logging.NewSilentLogger())
	metas, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, metas)
}

func TestRead_ContentAndMetadata(t *testing.T) {
	t.Parallel()
	store, dir := newTestStore(t, nil)
	writeDoc(t, dir, "auth.md", "# Auth Spec\n\nUse OAuth2.")

	content, meta, err := store.Read("auth")
	require.NoError(t, err)
	assert.Contains(t, content, "Use OAuth2.")
	assert.Equal(t, "auth", meta.ID)
	assert.Equal(t, ".md", meta.Format)
	assert.Equal(t, "Auth Spec", meta.Title)
}

func TestRead_NotFound(t *testing.T) {
	t.Parallel()
	store, _ := newTestStore(t, nil)
	_, _, err := store.Read("ghost")
	require.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestRead_FormatPreferenceOrder(t *testing.T) {
	t.Parallel()
	store, dir := newTestStore(t, []string{".md", ".txt"})
	writeDoc(t, dir, "dup.md", "# From Markdown")
	writeDoc(t, dir, "dup.txt", "from text")

	content, meta, err := store.Read("dup")
	require.NoError(t, err)
	assert.Equal(t, "dup.md", meta.Filename, "formats are tried in configured order")
	assert.Contains(t, content, "From Markdown")
}

func TestRead_CacheUntilCleared(t *testing.T) {
	t.Parallel()
	store, dir := newTestStore(t, nil)
	writeDoc(t, dir, "notes.txt", "v1")

	content, _, err := store.Read("notes")
	require.NoError(t, err)
	assert.Equal(t, "v1", content)

	writeDoc(t, dir, "notes.txt", "v2")
	content, _, err = store.Read("notes")
	require.NoError(t, err)
	assert.Equal(t, "v1", content, "cached content served until refresh")

	store.ClearCache()
	content, _, err = store.Read("notes")
	require.NoError(t, err)
	assert.Equal(t, "v2", content)
}

func TestNewStore_NormalizesFormats(t *testing.T) {
	t.Parallel()
	store, dir := newTestStore(t, []string{"MD", " txt "})
	writeDoc(t, dir, "a.md", "# A")
	writeDoc(t, dir, "b.txt", "b")

	metas, err := store.List()
	require.NoError(t, err)
	assert.Len(t, metas, 2)
}

func TestMarkdownTitle(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Deep Title", markdownTitle([]byte("Intro text.\n\n## Deep Title\n")))
	assert.Empty(t, markdownTitle([]byte("no headings here")))
}
