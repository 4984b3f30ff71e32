// Package docs loads requirement documents (markdown, plain text, PDF)
// from a directory and serves their content and metadata to the MCP layer.
package docs

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ledongthuc/pdf"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/specdock/specdock/internal/logging"
)

// ErrDocumentNotFound is returned when no document matches an id.
var ErrDocumentNotFound = errors.New("document not found")

// DefaultFormats are the extensions scanned when the config does not
// override them.
var DefaultFormats = []string{".md", ".txt", ".pdf"}

// Metadata describes one requirement document.
type Metadata struct {
	ID       string    `json:"id"`
	Filename string    `json:"filename"`
	Format   string    `json:"format"`
	Title    string    `json:"title,omitempty"`
	Size     int64     `json:"size_bytes"`
	Modified time.Time `json:"modified"`
}

// Store reads documents from a base directory. Content and metadata are
// cached per instance; ClearCache drops both.
type Store struct {
	basePath string
	formats  []string
	logger   *logging.AppLogger

	mu      sync.RWMutex
	content map[string]string
	meta    map[string]Metadata
}

// NewStore creates a document store over basePath. The formats slice
// controls which extensions are recognized; nil means DefaultFormats.
func NewStore(basePath string, formats []string, logger *logging.AppLogger) *Store {
	if len(formats) == 0 {
		formats = DefaultFormats
	}
	normalized := make([]string, 0, len(formats))
	for _, f := range formats {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" {
			continue
		}
		if !strings.HasPrefix(f, ".") {
			f = "." + f
		}
		normalized = append(normalized, f)
	}
	return &Store{
		basePath: basePath,
		formats:  normalized,
		logger:   logger,
		content:  make(map[string]string),
		meta:     make(map[string]Metadata),
	}
}

// List returns metadata for every recognized document, sorted by id.
func (s *Store) List() ([]Metadata, error) {
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Warn("document base path does not exist", "path", s.basePath)
			return nil, nil
		}
		return nil, fmt.Errorf("scan documents %s: %w", s.basePath, err)
	}

	var out []Metadata
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if !s.supported(ext) {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		md, err := s.metadata(id, entry.Name())
		if err != nil {
			s.logger.Warn("skipping unreadable document", "file", entry.Name(), "error", err)
			continue
		}
		out = append(out, md)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Read returns the full text content and metadata of a document by id.
// PDF documents are text-extracted; everything else is read as UTF-8.
func (s *Store) Read(id string) (string, Metadata, error) {
	path, err := s.find(id)
	if err != nil {
		return "", Metadata{}, err
	}
	md, err := s.metadata(id, filepath.Base(path))
	if err != nil {
		return "", Metadata{}, fmt.Errorf("read document %q: %w", id, err)
	}

	s.mu.RLock()
	content, cached := s.content[id]
	s.mu.RUnlock()
	if cached {
		return content, md, nil
	}

	content, err = s.parse(path)
	if err != nil {
		return "", Metadata{}, fmt.Errorf("read document %q: %w", id, err)
	}

	s.mu.Lock()
	s.content[id] = content
	s.mu.Unlock()
	return content, md, nil
}

// ClearCache drops cached content and metadata.
func (s *Store) ClearCache() {
	s.mu.Lock()
	s.content = make(map[string]string)
	s.meta = make(map[string]Metadata)
	s.mu.Unlock()
}

func (s *Store) supported(ext string) bool {
	for _, f := range s.formats {
		if f == ext {
			return true
		}
	}
	return false
}

// find locates the document file for an id, trying extensions in the
// configured format order.
func (s *Store) find(id string) (string, error) {
	for _, ext := range s.formats {
		path := filepath.Join(s.basePath, id+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrDocumentNotFound, id)
}

func (s *Store) metadata(id, filename string) (Metadata, error) {
	s.mu.RLock()
	if md, ok := s.meta[id]; ok && md.Filename == filename {
		s.mu.RUnlock()
		return md, nil
	}
	s.mu.RUnlock()

	path := filepath.Join(s.basePath, filename)
	st, err := os.Stat(path)
	if err != nil {
		return Metadata{}, err
	}
	ext := strings.ToLower(filepath.Ext(filename))
	md := Metadata{
		ID:       id,
		Filename: filename,
		Format:   ext,
		Size:     st.Size(),
		Modified: st.ModTime().UTC(),
	}
	if ext == ".md" {
		if raw, err := os.ReadFile(path); err == nil {
			md.Title = markdownTitle(raw)
		}
	}

	s.mu.Lock()
	s.meta[id] = md
	s.mu.Unlock()
	return md, nil
}

func (s *Store) parse(path string) (string, error) {
	if strings.ToLower(filepath.Ext(path)) == ".pdf" {
		return pdfText(path)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func pdfText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	reader, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// markdownTitle extracts the first heading of a markdown document, if any.
func markdownTitle(source []byte) string {
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(source))

	var title string
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok {
			var sb strings.Builder
			for c := h.FirstChild(); c != nil; c = c.NextSibling() {
				if t, ok := c.(*ast.Text); ok {
					sb.Write(t.Segment.Value(source))
				}
			}
			title = strings.TrimSpace(sb.String())
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return title
}
