package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

type ScanSummary struct {
	Mode         string   `json:"mode"`
	Roots        []string `json:"roots"`
	Directories  int      `json:"directories"`
	Files        int      `json:"files"`
	Links        int      `json:"links"`
	DirLinks     int      `json:"dir_links"`
	IncludeLinks int      `json:"include_links"`
	Scanned      int      `json:"scanned"`
	SkippedRoots int      `json:"skipped_roots"`
	Unreadable   int      `json:"unreadable"`
	Includes     int      `json:"includes"`
	Unresolved   int      `json:"unresolved"`
	DurationMS   int64    `json:"duration_ms"`
}

type PassTiming struct {
	Pass    string  `json:"pass"`
	Calls   int     `json:"calls"`
	TotalMS float64 `json:"total_ms"`
	MeanUS  float64 `json:"mean_us"`
}

type ProfileSummary struct {
	Mode   string       `json:"mode"`
	Nodes  int          `json:"nodes"`
	Links  int          `json:"links"`
	Steps  int          `json:"steps"`
	Passes []PassTiming `json:"passes"`
}

func PrintScanSummary(summary ScanSummary, asJSON bool) error {
	if asJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(summary)
	}

	fmt.Printf("%s complete in %dms\n", summary.Mode, summary.DurationMS)
	fmt.Printf("roots (%d): %s\n", len(summary.Roots), SummarizePaths(summary.Roots, 8))
	fmt.Printf("nodes: directories=%d files=%d\n", summary.Directories, summary.Files)
	fmt.Printf("links: total=%d directory=%d include=%d\n", summary.Links, summary.DirLinks, summary.IncludeLinks)
	fmt.Printf(
		"scan: scanned=%d skipped_roots=%d unreadable=%d includes=%d unresolved=%d\n",
		summary.Scanned,
		summary.SkippedRoots,
		summary.Unreadable,
		summary.Includes,
		summary.Unresolved,
	)
	return nil
}

func PrintProfileSummary(summary ProfileSummary, asJSON bool) error {
	if asJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(summary)
	}

	fmt.Printf("profile: nodes=%d links=%d steps=%d\n", summary.Nodes, summary.Links, summary.Steps)
	for _, pass := range summary.Passes {
		fmt.Printf("  %-12s calls=%-6d total=%9.3fms mean=%9.3fus\n", pass.Pass, pass.Calls, pass.TotalMS, pass.MeanUS)
	}
	return nil
}

func SummarizePaths(paths []string, max int) string {
	if len(paths) <= max {
		return strings.Join(paths, ", ")
	}
	return fmt.Sprintf("%s ... (+%d more)", strings.Join(paths[:max], ", "), len(paths)-max)
}
