package parser

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Registry maps file extensions to include extractors
type Registry struct {
	extractors map[string]IncludeExtractor // extension -> extractor
}

// NewRegistry creates a new extractor registry
func NewRegistry() *Registry {
	return &Registry{
		extractors: make(map[string]IncludeExtractor),
	}
}

// Register adds an extractor for all of its extensions. Later registrations
// win for shared extensions.
func (r *Registry) Register(e IncludeExtractor) {
	for _, ext := range e.Extensions() {
		r.extractors[strings.ToLower(ext)] = e
	}
}

// ExtractorForFile returns the extractor for a file, matching the extension
// case-insensitively.
func (r *Registry) ExtractorForFile(filename string) (IncludeExtractor, bool) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return nil, false
	}
	e, ok := r.extractors[ext]
	return e, ok
}

// Supports reports whether filename passes the extension allow-list.
func (r *Registry) Supports(filename string) bool {
	_, ok := r.ExtractorForFile(filename)
	return ok
}

// SupportedExtensions returns all registered extensions, sorted
func (r *Registry) SupportedExtensions() []string {
	exts := make([]string, 0, len(r.extractors))
	for ext := range r.extractors {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// ExtractFile reads path and returns its includes. Unsupported files yield
// no includes and no error.
func (r *Registry) ExtractFile(path string) ([]Include, error) {
	e, ok := r.ExtractorForFile(path)
	if !ok {
		return nil, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return e.Extract(path, content)
}
