package cli

import (
	"fmt"

	"github.com/morozRed/codegraph/internal/config"
	"github.com/morozRed/codegraph/internal/graph"
	"github.com/morozRed/codegraph/internal/scanner"
	"github.com/spf13/cobra"
)

func RunScan(cmd *cobra.Command, args []string) error {
	asJSON, err := OptionalBoolFlag(cmd, "json")
	if err != nil {
		return err
	}

	cfg, err := LoadConfig(cmd, args)
	if err != nil {
		return err
	}

	g, result, err := ScanGraph(cfg)
	if err != nil {
		return err
	}

	return PrintScanSummary(NewScanSummary(cfg, g, result), asJSON)
}

// ScanGraph runs a full scan of cfg.SourceRoots into a fresh graph.
func ScanGraph(cfg config.Config) (*graph.Graph, scanner.Result, error) {
	s, err := NewScanner(cfg)
	if err != nil {
		return nil, scanner.Result{}, fmt.Errorf("failed to create scanner: %w", err)
	}

	g := graph.NewGraph()
	result := s.Run(g)
	return g, result, nil
}

func NewScanSummary(cfg config.Config, g *graph.Graph, result scanner.Result) ScanSummary {
	stats := g.Stats()
	return ScanSummary{
		Mode:         "scan",
		Roots:        cfg.SourceRoots,
		Directories:  stats.Directories,
		Files:        stats.Files,
		Links:        stats.Links,
		DirLinks:     stats.DirLinks,
		IncludeLinks: stats.IncludeLinks,
		Scanned:      result.Files,
		SkippedRoots: result.SkippedRoots,
		Unreadable:   result.Unreadable,
		Includes:     result.Includes,
		Unresolved:   result.Unresolved,
		DurationMS:   result.Duration.Milliseconds(),
	}
}
