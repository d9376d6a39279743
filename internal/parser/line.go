package parser

import (
	"bufio"
	"bytes"
	"regexp"
)

var includePattern = regexp.MustCompile(`^\s*#\s*include\s*([<"])([^>"]+)[>"]`)

const maxLineBytes = 1 << 20

// LineExtractor matches include directives line by line. It does not expand
// macros or evaluate conditional compilation.
type LineExtractor struct{}

// NewLineExtractor creates the line-oriented extractor
func NewLineExtractor() *LineExtractor {
	return &LineExtractor{}
}

func (LineExtractor) Name() string {
	return "line"
}

func (LineExtractor) Extensions() []string {
	return SourceExtensions
}

func (LineExtractor) Extract(filename string, content []byte) ([]Include, error) {
	includes := make([]Include, 0)

	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	line := 0
	for scanner.Scan() {
		line++
		m := includePattern.FindSubmatch(scanner.Bytes())
		if m == nil {
			continue
		}
		includes = append(includes, Include{
			Name:   string(m[2]),
			System: m[1][0] == '<',
			Line:   line,
		})
	}
	// A line longer than maxLineBytes ends extraction; keep what was found.
	return includes, scanner.Err()
}
