package languages

import (
	"context"
	"strings"

	"github.com/morozRed/codegraph/internal/parser"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/cpp"
)

// CppIncludeExtractor finds include directives through the tree-sitter C++
// grammar. Directives nested in #if/#ifdef blocks are reported regardless of
// the condition; macro-valued includes are skipped.
type CppIncludeExtractor struct {
	lang *sitter.Language
}

// NewCppIncludeExtractor creates a tree-sitter backed extractor
func NewCppIncludeExtractor() *CppIncludeExtractor {
	return &CppIncludeExtractor{lang: cpp.GetLanguage()}
}

func (c *CppIncludeExtractor) Name() string {
	return "tree-sitter"
}

func (c *CppIncludeExtractor) Extensions() []string {
	return parser.SourceExtensions
}

// Extract is safe for concurrent use; each call gets its own sitter.Parser.
func (c *CppIncludeExtractor) Extract(filename string, content []byte) ([]parser.Include, error) {
	p := sitter.NewParser()
	p.SetLanguage(c.lang)

	tree, err := p.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	includes := make([]parser.Include, 0)
	c.collect(tree.RootNode(), content, &includes)
	return includes, nil
}

func (c *CppIncludeExtractor) collect(node *sitter.Node, content []byte, out *[]parser.Include) {
	if node == nil {
		return
	}
	if node.Type() == "preproc_include" {
		if inc, ok := includeFromNode(node, content); ok {
			*out = append(*out, inc)
		}
		return
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		c.collect(node.NamedChild(i), content, out)
	}
}

func includeFromNode(node *sitter.Node, content []byte) (parser.Include, bool) {
	pathNode := node.ChildByFieldName("path")
	if pathNode == nil {
		return parser.Include{}, false
	}

	var system bool
	switch pathNode.Type() {
	case "system_lib_string":
		system = true
	case "string_literal":
	default:
		return parser.Include{}, false
	}

	name := strings.TrimSpace(strings.Trim(pathNode.Content(content), `"<>`))
	if name == "" {
		return parser.Include{}, false
	}
	return parser.Include{
		Name:   name,
		System: system,
		Line:   int(node.StartPoint().Row) + 1,
	}, true
}
