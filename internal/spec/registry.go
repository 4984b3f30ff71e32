package spec

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/specdock/specdock/internal/logging"
)

// ErrSpecNotFound is returned when no loaded document matches an id.
var ErrSpecNotFound = errors.New("spec not found")

// ErrEndpointNotFound is returned when no operation matches a (path, method)
// pair within a document.
var ErrEndpointNotFound = errors.New("endpoint not found")

// Registry holds the loaded spec catalog. The catalog is an immutable value
// published behind an atomic pointer: a rescan builds a complete
// replacement and swaps it in, so readers never observe a half-loaded
// state and no read locking is needed.
type Registry struct {
	dir     string
	logger  *logging.AppLogger
	catalog atomic.Pointer[catalog]
}

type catalog struct {
	docs  map[string]*SpecDocument
	order []string
}

func emptyCatalog() *catalog {
	return &catalog{docs: make(map[string]*SpecDocument)}
}

// NewRegistry creates a registry over a directory of OpenAPI documents.
// Call Load before serving queries.
func NewRegistry(dir string, logger *logging.AppLogger) *Registry {
	r := &Registry{dir: dir, logger: logger}
	r.catalog.Store(emptyCatalog())
	return r
}

// Load scans the spec directory and atomically replaces the published
// catalog. Files that fail to parse are skipped with a warning; they never
// abort the load of sibling documents. A duplicate identifier (same base
// name, different extension) is last-wins with a warning.
func (r *Registry) Load(ctx context.Context) error {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return fmt.Errorf("scan spec directory %s: %w", r.dir, err)
	}

	next := emptyCatalog()
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".json" && ext != ".yaml" && ext != ".yml" {
			continue
		}
		id := strings.TrimSuffix(name, filepath.Ext(name))
		path := filepath.Join(r.dir, name)

		doc, err := LoadFile(ctx, path)
		if err != nil {
			r.logger.Warn("skipping malformed spec", "file", name, "error", err)
			continue
		}

		sd, warnings := BuildDocument(id, name, doc)
		for _, w := range warnings {
			r.logger.Warn("spec extraction", "spec", id, "detail", w)
		}

		if prev, dup := next.docs[id]; dup {
			r.logger.Warn("duplicate spec identifier, later file wins", "id", id, "kept", name, "replaced", prev.Filename)
		} else {
			next.order = append(next.order, id)
		}
		next.docs[id] = sd
	}

	r.catalog.Store(next)
	r.logger.Info("spec registry loaded", "dir", r.dir, "specs", len(next.order))
	return nil
}

// Get returns the document for id, or ErrSpecNotFound.
func (r *Registry) Get(id string) (*SpecDocument, error) {
	c := r.catalog.Load()
	doc, ok := c.docs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSpecNotFound, id)
	}
	return doc, nil
}

// List returns a summary per loaded document, in discovery order. The order
// follows the directory listing; callers needing determinism beyond that
// should sort by id.
func (r *Registry) List() []Summary {
	c := r.catalog.Load()
	out := make([]Summary, 0, len(c.order))
	for _, id := range c.order {
		doc := c.docs[id]
		out = append(out, Summary{
			ID:            doc.ID,
			Title:         doc.Title,
			Version:       doc.Version,
			EndpointCount: len(doc.Endpoints),
		})
	}
	return out
}

// Docs returns every loaded document in discovery order.
func (r *Registry) Docs() []*SpecDocument {
	c := r.catalog.Load()
	out := make([]*SpecDocument, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.docs[id])
	}
	return out
}

// Endpoint returns the descriptor for (path, method) within a document, or
// a typed not-found error.
func (r *Registry) Endpoint(id, path string, method HTTPMethod) (*EndpointDescriptor, error) {
	doc, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	return doc.Endpoint(path, method)
}

// Endpoint looks up an operation on the document itself.
func (d *SpecDocument) Endpoint(path string, method HTTPMethod) (*EndpointDescriptor, error) {
	for i := range d.Endpoints {
		ep := &d.Endpoints[i]
		if ep.Path == path && ep.Method == method {
			return ep, nil
		}
	}
	return nil, fmt.Errorf("%w: %s %s in %q", ErrEndpointNotFound, method, path, d.ID)
}

// Integration returns the integration info for a document id.
func (r *Registry) Integration(id string) (*IntegrationInfo, error) {
	doc, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	info := doc.Integration()
	return &info, nil
}

// Integration extracts the base URL, security schemes, and default content
// type a client needs to call this API. When no servers are declared, the
// base URL is inferred from the shared prefix of the first path.
func (d *SpecDocument) Integration() IntegrationInfo {
	info := IntegrationInfo{
		SpecID:          d.ID,
		Title:           d.Title,
		Version:         d.Version,
		Servers:         d.Servers,
		SecuritySchemes: d.SecuritySchemes,
		ContentType:     "application/json",
	}
	switch {
	case len(d.Servers) > 0 && d.Servers[0].URL != "":
		info.BaseURL = d.Servers[0].URL
	case len(d.Endpoints) > 0:
		parts := strings.Split(d.Endpoints[0].Path, "/")
		if len(parts) >= 4 {
			info.BaseURL = strings.Join(parts[:4], "/")
		}
	}
	if info.BaseURL == "" {
		info.BaseURL = "https://api.example.com"
	}
	return info
}
