package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// FileStore persists uploaded files on local disk under a single flat
// directory and maps them to /uploads/{storedName} URLs.
type FileStore struct {
	Dir string
}

// NewFileStore returns a store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

// StoredFile describes a file written by Save.
type StoredFile struct {
	StoredName string
	Path       string
	URL        string
}

// uploadsPrefix is the public URL prefix for stored files.
const uploadsPrefix = "/uploads/"

// sanitizeOriginalName reduces an arbitrary client filename to a safe ASCII
// token: NFKD normalize, drop everything outside word chars, dot, hyphen and
// space, collapse whitespace to hyphens, strip leading dots, cap at 120 chars.
func sanitizeOriginalName(filename string) string {
	normalized := norm.NFKD.String(filename)

	var b strings.Builder
	for _, r := range normalized {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '_' || r == '.' || r == '-' || r == ' ':
			b.WriteRune(r)
		}
	}

	name := strings.TrimSpace(b.String())
	name = strings.Join(strings.Fields(name), "-")
	for strings.Contains(name, "--") {
		name = strings.ReplaceAll(name, "--", "-")
	}
	name = strings.TrimLeft(name, ".")
	if len(name) > 120 {
		name = name[:120]
	}
	if name == "" {
		return "file"
	}
	return name
}

// BuildStoredName produces a collision-resistant on-disk name:
// {epochMillis}-{8 random hex chars}-{sanitized original}.
func BuildStoredName(originalName string) string {
	buf := make([]byte, 4)
	_, _ = rand.Read(buf)
	return fmt.Sprintf("%d-%s-%s", time.Now().UnixMilli(), hex.EncodeToString(buf), sanitizeOriginalName(originalName))
}

// Save writes data under a freshly built stored name and returns its location.
func (s *FileStore) Save(originalName string, data []byte) (StoredFile, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return StoredFile{}, fmt.Errorf("create uploads dir: %w", err)
	}
	storedName := BuildStoredName(originalName)
	fullPath := filepath.Join(s.Dir, storedName)
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return StoredFile{}, fmt.Errorf("write upload: %w", err)
	}
	return StoredFile{
		StoredName: storedName,
		Path:       fullPath,
		URL:        uploadsPrefix + storedName,
	}, nil
}

// ResolvePathFromURL maps a public /uploads/ URL back to its on-disk path.
// Stored names never contain path separators, so any URL whose remainder is
// empty or carries "..", "/" or "\" is rejected with an empty result.
func (s *FileStore) ResolvePathFromURL(url string) string {
	if !strings.HasPrefix(url, uploadsPrefix) {
		return ""
	}
	stored := url[len(uploadsPrefix):]
	if stored == "" || strings.Contains(stored, "..") ||
		strings.Contains(stored, "/") || strings.Contains(stored, "\\") {
		return ""
	}
	return filepath.Join(s.Dir, stored)
}

// DeleteByURL removes the file behind a public URL. An unresolvable URL is a
// no-op; a missing file is logged and swallowed since deletion is best-effort
// cleanup. Any other I/O error propagates.
func (s *FileStore) DeleteByURL(url string) error {
	path := s.ResolvePathFromURL(url)
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			if Sugar != nil {
				Sugar.Warnf("file already missing while deleting: %s", path)
			}
			return nil
		}
		return err
	}
	return nil
}

// ResolveWithin joins an already slash-cleaned relative name under the store
// root and confirms the absolute result stays inside it.
func (s *FileStore) ResolveWithin(rel string) (string, bool) {
	root, err := filepath.Abs(s.Dir)
	if err != nil {
		return "", false
	}
	abs, err := filepath.Abs(filepath.Join(root, rel))
	if err != nil {
		return "", false
	}
	if abs != root && !strings.HasPrefix(abs, root+string(filepath.Separator)) {
		return "", false
	}
	return abs, true
}

// ContentTypeByExt maps a file extension to the fixed content-type table used
// when serving uploads; the client-supplied mime type is never trusted here.
func ContentTypeByExt(ext string) string {
	switch strings.ToLower(ext) {
	case ".pdf":
		return "application/pdf"
	case ".doc":
		return "application/msword"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".ppt":
		return "application/vnd.ms-powerpoint"
	case ".pptx":
		return "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	case ".xls":
		return "application/vnd.ms-excel"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".zip":
		return "application/zip"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
