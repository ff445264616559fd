package utils

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeOriginalName(t *testing.T) {
	cases := map[string]string{
		"report.pdf":       "report.pdf",
		"my file (1).png":  "my-file-1.png",
		"отчёт.pdf":        "pdf",
		"..hidden":         "hidden",
		"a   b.txt":        "a-b.txt",
		"weird*&^name.doc": "weirdname.doc",
		"":                 "file",
		"???":              "file",
	}
	for input, want := range cases {
		assert.Equal(t, want, sanitizeOriginalName(input), "input %q", input)
	}
}

func TestSanitizeOriginalNameCapsLength(t *testing.T) {
	got := sanitizeOriginalName(strings.Repeat("a", 200) + ".pdf")
	assert.Len(t, got, 120)
}

func TestBuildStoredNameShape(t *testing.T) {
	got := BuildStoredName("report.pdf")
	assert.Regexp(t, regexp.MustCompile(`^\d+-[0-9a-f]{8}-report\.pdf$`), got)
}

func TestSaveAndResolveRoundtrip(t *testing.T) {
	store := NewFileStore(t.TempDir())

	stored, err := store.Save("notes.pdf", []byte("hello"))
	require.NoError(t, err)
	assert.NotEmpty(t, stored.Path)
	assert.Contains(t, stored.URL, "/uploads/")

	path := store.ResolvePathFromURL(stored.URL)
	require.NotEmpty(t, path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)
}

func TestResolvePathFromURLRejectsUnsafeURLs(t *testing.T) {
	store := NewFileStore("uploads")

	for _, url := range []string{
		"/uploads/../../etc/passwd",
		"/uploads/a/b",
		"/uploads/a\\b",
		"/uploads/",
		"/elsewhere/file.png",
		"file.png",
	} {
		assert.Empty(t, store.ResolvePathFromURL(url), "url %q", url)
	}

	assert.Equal(t, filepath.Join("uploads", "abc.png"), store.ResolvePathFromURL("/uploads/abc.png"))
}

func TestDeleteByURL(t *testing.T) {
	store := NewFileStore(t.TempDir())

	stored, err := store.Save("a.txt", []byte("x"))
	require.NoError(t, err)

	require.NoError(t, store.DeleteByURL(stored.URL))
	_, statErr := os.Stat(stored.Path)
	assert.True(t, os.IsNotExist(statErr))

	// Deleting again must be a silent no-op.
	assert.NoError(t, store.DeleteByURL(stored.URL))
	// So must an URL that never resolves.
	assert.NoError(t, store.DeleteByURL("/other/thing"))
}

func TestResolveWithin(t *testing.T) {
	store := NewFileStore(t.TempDir())

	abs, ok := store.ResolveWithin("abc.png")
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(store.Dir, "abc.png"), abs)

	_, ok = store.ResolveWithin("../outside.txt")
	assert.False(t, ok)
	_, ok = store.ResolveWithin("a/../../outside.txt")
	assert.False(t, ok)
}

func TestContentTypeByExt(t *testing.T) {
	assert.Equal(t, "application/pdf", ContentTypeByExt(".pdf"))
	assert.Equal(t, "application/pdf", ContentTypeByExt(".PDF"))
	assert.Equal(t, "image/jpeg", ContentTypeByExt(".jpeg"))
	assert.Equal(t, "image/jpeg", ContentTypeByExt(".jpg"))
	assert.Equal(t, "application/zip", ContentTypeByExt(".zip"))
	assert.Equal(t, "application/octet-stream", ContentTypeByExt(".exe"))
	assert.Equal(t, "application/octet-stream", ContentTypeByExt(""))
}
