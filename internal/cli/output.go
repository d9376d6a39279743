package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/morozRed/codegraph/internal/graph"
)

type Format string

const (
	FormatText  Format = "text"
	FormatJSONL Format = "jsonl"
)

func ParseFormat(value string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(value))) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSONL:
		return FormatJSONL, nil
	default:
		return "", fmt.Errorf("unsupported format %q (supported: text, jsonl)", value)
	}
}

// NodePosition is one JSONL record of the final layout.
type NodePosition struct {
	ID     int     `json:"id"`
	Kind   string  `json:"kind"`
	Path   string  `json:"path"`
	Parent int     `json:"parent"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Mass   float64 `json:"mass"`
	Color  string  `json:"color"`
}

// WritePositions prints every node in ID order.
func WritePositions(w io.Writer, g *graph.Graph, format Format) error {
	out := bufio.NewWriter(w)

	switch format {
	case FormatJSONL:
		encoder := json.NewEncoder(out)
		for _, n := range g.Nodes {
			record := NodePosition{
				ID:     n.ID,
				Kind:   n.Kind.String(),
				Path:   n.Path,
				Parent: n.Parent,
				X:      finiteOrZero(n.X),
				Y:      finiteOrZero(n.Y),
				Mass:   n.Mass,
				Color:  fmt.Sprintf("#%08X", n.Color),
			}
			if err := encoder.Encode(record); err != nil {
				return fmt.Errorf("failed to encode node %d: %w", n.ID, err)
			}
		}
	case FormatText:
		for _, n := range g.Nodes {
			if _, err := fmt.Fprintf(out, "%-4s %10.3f %10.3f  %s\n", n.Kind, n.X, n.Y, n.Path); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("unsupported format %q", format)
	}

	return out.Flush()
}

// encoding/json rejects NaN and Inf.
func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
