package parser

// Include is one #include directive found in a source file.
type Include struct {
	Name   string // path between the quotes or angle brackets
	System bool   // <...> form
	Line   int    // 1-based
}

// IncludeExtractor finds include directives in a C/C++ source file.
type IncludeExtractor interface {
	// Name identifies the detector (e.g., "line", "tree-sitter")
	Name() string

	// Extensions returns file extensions this extractor handles
	Extensions() []string

	// Extract returns the includes in source order
	Extract(filename string, content []byte) ([]Include, error)
}

// SourceExtensions is the allow-list of C/C++ source and header extensions.
var SourceExtensions = []string{".c", ".cc", ".cpp", ".cxx", ".h", ".hh", ".hpp", ".hxx"}
