package ignore

import (
	"bufio"
	"fmt"
	"os"
	"path"
	"regexp"
	"strings"
)

// FileName is the per-project ignore file read from the working directory.
const FileName = ".codegraphignore"

type rule struct {
	pattern  string
	re       *regexp.Regexp
	negated  bool
	dirOnly  bool
	anchored bool
}

// Matcher applies gitignore-like rules with "last rule wins" behavior.
// Paths are matched relative to the source root being walked.
type Matcher struct {
	rules []rule
}

// DefaultRules skips version-control metadata only; everything else under a
// source root is scanned unless the user says otherwise.
var DefaultRules = []string{
	".git/",
	".hg/",
	".svn/",
}

// NewMatcher builds a matcher from user-provided rules.
// Default excludes are prepended and can be overridden by user negation rules.
func NewMatcher(userRules []string) *Matcher {
	all := make([]string, 0, len(DefaultRules)+len(userRules))
	all = append(all, DefaultRules...)
	all = append(all, userRules...)

	rules := make([]rule, 0, len(all))
	for _, line := range all {
		if parsed, ok := parseRule(line); ok {
			rules = append(rules, parsed)
		}
	}

	return &Matcher{rules: rules}
}

// LoadFile reads rules from path, one per line. A missing file yields no rules.
func LoadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	defer f.Close()

	rules := make([]string, 0)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rules = append(rules, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return rules, nil
}

// ShouldIgnore returns true when relPath should be excluded.
func (m *Matcher) ShouldIgnore(relPath string, isDir bool) bool {
	if m == nil {
		return false
	}
	relPath = normalizePath(relPath)
	if relPath == "" || relPath == "." {
		return false
	}

	ignored := false
	for _, r := range m.rules {
		if r.matches(relPath, isDir) {
			ignored = !r.negated
		}
	}
	return ignored
}

func parseRule(line string) (rule, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return rule{}, false
	}

	parsed := rule{}
	if strings.HasPrefix(line, "!") {
		parsed.negated = true
		line = strings.TrimPrefix(line, "!")
	}
	if strings.HasPrefix(line, "/") {
		parsed.anchored = true
		line = strings.TrimPrefix(line, "/")
	}
	if strings.HasSuffix(line, "/") {
		parsed.dirOnly = true
		line = strings.TrimSuffix(line, "/")
	}

	line = normalizePath(line)
	if line == "" {
		return rule{}, false
	}
	re, err := regexp.Compile("^" + globToRegex(line) + "$")
	if err != nil {
		return rule{}, false
	}
	parsed.pattern = line
	parsed.re = re
	return parsed, true
}

func (r rule) matches(relPath string, isDir bool) bool {
	if r.dirOnly {
		if r.matchesDirectoryPrefix(relPath) {
			return true
		}
		return isDir && r.re.MatchString(path.Base(relPath))
	}

	if r.anchored {
		return r.re.MatchString(relPath)
	}

	parts := strings.Split(relPath, "/")
	if strings.Contains(r.pattern, "/") {
		for i := range parts {
			if r.re.MatchString(strings.Join(parts[i:], "/")) {
				return true
			}
		}
		return false
	}

	for _, segment := range parts {
		if r.re.MatchString(segment) {
			return true
		}
	}
	return false
}

// matchesDirectoryPrefix reports whether some leading directory of relPath
// matches the rule (anchored rules only test from the root).
func (r rule) matchesDirectoryPrefix(relPath string) bool {
	parts := strings.Split(relPath, "/")
	for end := 1; end <= len(parts); end++ {
		if r.re.MatchString(strings.Join(parts[:end], "/")) {
			return true
		}
		if !r.anchored && r.re.MatchString(parts[end-1]) {
			return true
		}
	}
	return false
}

func globToRegex(pattern string) string {
	var b strings.Builder
	for i := 0; i < len(pattern); i++ {
		ch := pattern[i]

		if ch == '*' {
			if i+1 < len(pattern) && pattern[i+1] == '*' {
				b.WriteString(".*")
				i++
				continue
			}
			b.WriteString("[^/]*")
			continue
		}

		if ch == '?' {
			b.WriteString("[^/]")
			continue
		}

		if strings.ContainsRune(`.+()|[]{}^$\`, rune(ch)) {
			b.WriteByte('\\')
		}
		b.WriteByte(ch)
	}
	return b.String()
}

func normalizePath(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	p = strings.TrimPrefix(p, "./")
	p = strings.TrimPrefix(p, "/")
	return p
}
