// Package scanner builds a layout graph from C/C++ source roots.
package scanner

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/morozRed/codegraph/internal/config"
	"github.com/morozRed/codegraph/internal/graph"
	"github.com/morozRed/codegraph/internal/ignore"
	"github.com/morozRed/codegraph/internal/languages"
	"github.com/morozRed/codegraph/internal/metrics"
	"github.com/morozRed/codegraph/internal/parser"
)

const defaultResolveCacheSize = 4096

// Result summarizes one Run. Missing roots, unreadable files and unresolved
// includes are only counted here; they never fail the scan.
type Result struct {
	Roots        int           `json:"roots"`
	SkippedRoots int           `json:"skipped_roots"`
	Files        int           `json:"files"`
	Unreadable   int           `json:"unreadable"`
	Includes     int           `json:"includes"`
	Unresolved   int           `json:"unresolved"`
	Duration     time.Duration `json:"duration_ns"`
}

type tally struct {
	skippedRoots atomic.Int64
	files        atomic.Int64
	unreadable   atomic.Int64
	includes     atomic.Int64
	unresolved   atomic.Int64
}

// Scanner walks every configured source root on its own goroutine. All graph
// mutations go through one mutex shared by the workers.
type Scanner struct {
	cfg      config.Config
	registry *parser.Registry
	ignore   *ignore.Matcher
	logger   *zap.Logger
	resolved *lru.Cache[string, string] // include name -> resolved path ("" = not found)

	mu sync.Mutex
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithLogger sets the logger used for skipped roots, files and includes.
func WithLogger(l *zap.Logger) Option {
	return func(s *Scanner) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRegistry overrides the extractor registry (and with it the extension allow-list).
func WithRegistry(r *parser.Registry) Option {
	return func(s *Scanner) {
		if r != nil {
			s.registry = r
		}
	}
}

// WithIgnoreRules adds gitignore-like rules on top of cfg.Scan.Ignore.
func WithIgnoreRules(rules []string) Option {
	return func(s *Scanner) {
		all := append(append([]string{}, s.cfg.Scan.Ignore...), rules...)
		s.ignore = ignore.NewMatcher(all)
	}
}

// New creates a scanner for cfg.SourceRoots.
func New(cfg config.Config, opts ...Option) *Scanner {
	size := cfg.Scan.ResolveCacheSize
	if size <= 0 {
		size = defaultResolveCacheSize
	}
	// lru.New only fails for non-positive sizes.
	cache, _ := lru.New[string, string](size)

	s := &Scanner{
		cfg:      cfg,
		registry: languages.NewDefaultRegistry(cfg.Scan.IncludeDetector),
		ignore:   ignore.NewMatcher(cfg.Scan.Ignore),
		logger:   zap.NewNop(),
		resolved: cache,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run scans every root concurrently into g and returns once all workers have
// finished. Running again on the same graph adds no nodes for unchanged
// trees; links are appended again.
func (s *Scanner) Run(g *graph.Graph) Result {
	start := time.Now()
	s.resolved.Purge()

	var (
		t       tally
		workers errgroup.Group
	)
	for _, root := range s.cfg.SourceRoots {
		root := root
		workers.Go(func() error {
			s.scanRoot(g, root, &t)
			return nil
		})
	}
	_ = workers.Wait()

	result := Result{
		Roots:        len(s.cfg.SourceRoots),
		SkippedRoots: int(t.skippedRoots.Load()),
		Files:        int(t.files.Load()),
		Unreadable:   int(t.unreadable.Load()),
		Includes:     int(t.includes.Load()),
		Unresolved:   int(t.unresolved.Load()),
		Duration:     time.Since(start),
	}
	metrics.RecordScan(result.Duration, g.Stats())
	return result
}

func (s *Scanner) scanRoot(g *graph.Graph, root string, t *tally) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		t.skippedRoots.Add(1)
		metrics.RecordSkippedRoot()
		s.logger.Debug("skipping source root", zap.String("root", root), zap.Error(err))
		return
	}

	files := 0
	_ = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			s.logger.Debug("walk error", zap.String("path", p), zap.Error(err))
			if d != nil && d.IsDir() && p != root {
				return filepath.SkipDir
			}
			return nil
		}

		relPath, relErr := filepath.Rel(root, p)
		if relErr == nil && s.ignore.ShouldIgnore(relPath, d.IsDir()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() || !s.registry.Supports(p) {
			return nil
		}

		nodePath := NormalizePath(p)
		if relErr == nil {
			nodePath = joinRoot(root, relPath)
		}
		files++
		s.scanFile(g, p, nodePath, t)
		return nil
	})

	s.logger.Info("scanned source root", zap.String("root", root), zap.Int("files", files))
}

// scanFile reads filePath from disk and registers it under nodePath.
func (s *Scanner) scanFile(g *graph.Graph, filePath, nodePath string, t *tally) {
	t.files.Add(1)

	s.mu.Lock()
	fileID := s.addFile(g, nodePath)
	s.mu.Unlock()

	includes, err := s.registry.ExtractFile(filePath)
	if err != nil {
		t.unreadable.Add(1)
		metrics.RecordFile("unreadable")
		s.logger.Debug("skipping unreadable file", zap.String("file", filePath), zap.Error(err))
	} else {
		metrics.RecordFile("scanned")
	}

	for _, inc := range includes {
		t.includes.Add(1)
		found, ok := s.resolve(inc.Name)
		if !ok {
			t.unresolved.Add(1)
			metrics.RecordInclude("unresolved")
			s.logger.Debug("unresolved include",
				zap.String("file", filePath),
				zap.String("include", inc.Name),
				zap.Bool("system", inc.System),
				zap.Int("line", inc.Line))
			continue
		}
		metrics.RecordInclude("resolved")

		s.mu.Lock()
		includedID := s.addFile(g, found)
		if s.cfg.Graph.EnableIncludeLinks {
			g.AddLink(fileID, includedID, s.cfg.Physics.LinkRestLength, s.cfg.Physics.LinkStiffness)
		}
		s.mu.Unlock()
	}
}

// addFile registers a normalized file path and its directory chain plus
// their directory links. The caller must hold s.mu.
func (s *Scanner) addFile(g *graph.Graph, filePath string) int {
	dirID := ensureDirectory(g, parentDir(filePath))

	links := s.cfg.Graph.EnableDirectoryLinks && dirID >= 0
	if links {
		s.linkAncestors(g, dirID)
	}

	fileID := g.FindOrAddFile(filePath, dirID)
	if links {
		g.AddLink(dirID, fileID, graph.DirFileRestLength(g.Node(dirID), s.cfg.Graph.DirFileLengthCoef), graph.DirFileStiffness)
	}
	return fileID
}

// linkAncestors links every parent/child pair from dirID up to its root.
// The chain is re-linked for every file, so the same pairs accumulate
// duplicate links across a scan.
func (s *Scanner) linkAncestors(g *graph.Graph, dirID int) {
	coef := s.cfg.Graph.DirDirLengthCoef
	for cur := dirID; ; {
		parent := g.Nodes[cur].Parent
		if parent < 0 {
			return
		}
		g.AddLink(parent, cur, graph.DirDirRestLength(&g.Nodes[parent], &g.Nodes[cur], coef), graph.DirDirStiffness)
		cur = parent
	}
}

// resolve finds name under the source roots and returns its normalized node
// path; the first root holding a regular file at root/name wins.
func (s *Scanner) resolve(name string) (string, bool) {
	if found, ok := s.resolved.Get(name); ok {
		return found, found != ""
	}

	found := ""
	for _, root := range s.cfg.SourceRoots {
		candidate := filepath.Join(root, filepath.FromSlash(name))
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			found = joinRoot(root, name)
			break
		}
	}
	s.resolved.Add(name, found)
	return found, found != ""
}

// ensureDirectory creates the directory chain for dirPath top-down and
// returns the ID of its last segment, or graph.NoParent for an empty path.
// A leading "." is a directory of its own, so files scanned from the working
// directory share one root.
func ensureDirectory(g *graph.Graph, dirPath string) int {
	parent := graph.NoParent
	prefix := ""
	if strings.HasPrefix(dirPath, "/") {
		prefix = "/"
	}

	accumulated := ""
	for _, segment := range strings.Split(strings.TrimPrefix(dirPath, "/"), "/") {
		if segment == "" || (segment == "." && accumulated != "") {
			continue
		}
		if accumulated == "" {
			accumulated = prefix + segment
		} else {
			accumulated += "/" + segment
		}
		parent = g.AddDirectory(accumulated, segment, parent)
	}
	return parent
}

// NormalizePath converts backslashes to forward slashes and cleans the
// result. A leading "./" survives cleaning unless the path climbs out of ".".
func NormalizePath(p string) string {
	if p == "" {
		return ""
	}
	p = strings.ReplaceAll(p, `\`, "/")
	cleaned := path.Clean(p)
	dotted := p == "." || strings.HasPrefix(p, "./")
	if !dotted || cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return cleaned
	}
	return "./" + cleaned
}

// joinRoot joins a path relative to root into a node path.
func joinRoot(root, rel string) string {
	return NormalizePath(strings.ReplaceAll(root, `\`, "/") + "/" + filepath.ToSlash(rel))
}

// parentDir returns the directory part of a normalized path, keeping a
// leading "./".
func parentDir(p string) string {
	i := strings.LastIndex(p, "/")
	switch {
	case i < 0:
		return ""
	case i == 0:
		return "/"
	}
	return p[:i]
}
