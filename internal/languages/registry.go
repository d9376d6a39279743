package languages

import (
	"github.com/morozRed/codegraph/internal/config"
	"github.com/morozRed/codegraph/internal/parser"
)

// NewDefaultRegistry creates a registry for the C/C++ allow-list using the
// named include detector. Unknown names fall back to the line detector.
func NewDefaultRegistry(detector string) *parser.Registry {
	r := parser.NewRegistry()

	switch detector {
	case config.DetectorTreeSitter:
		r.Register(NewCppIncludeExtractor())
	default:
		r.Register(parser.NewLineExtractor())
	}

	return r
}
