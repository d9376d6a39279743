// Package config holds the layout engine configuration and its loaders.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DetectorLine       = "line"
	DetectorTreeSitter = "tree-sitter"
)

// Physics parameters consumed by the solver.
type Physics struct {
	TimeStep          float64 `json:"time_step" yaml:"time_step"`
	SolverIterations  int     `json:"solver_iterations" yaml:"solver_iterations"`
	LinkRestLength    float64 `json:"link_rest_length" yaml:"link_rest_length"`
	LinkStiffness     float64 `json:"link_stiffness" yaml:"link_stiffness"`
	RepulsionRadius   float64 `json:"repulsion_radius" yaml:"repulsion_radius"`
	RepulsionStrength float64 `json:"repulsion_strength" yaml:"repulsion_strength"`
	Damping           float64 `json:"damping" yaml:"damping"`
	MaxDisplacement   float64 `json:"max_displacement" yaml:"max_displacement"`

	// Strength of angular equalization between directory children; 0 disables.
	DirChildrenAngleStrength float64 `json:"dir_children_angle_strength" yaml:"dir_children_angle_strength"`
}

// Graph controls which links exist and how long they are.
type Graph struct {
	EnableDirectoryLinks bool    `json:"enable_directory_links" yaml:"enable_directory_links"`
	EnableIncludeLinks   bool    `json:"enable_include_links" yaml:"enable_include_links"`
	DirDirLengthCoef     float64 `json:"dir_dir_length_coef" yaml:"dir_dir_length_coef"`
	DirFileLengthCoef    float64 `json:"dir_file_length_coef" yaml:"dir_file_length_coef"`
}

// Scan controls the source walk.
type Scan struct {
	Ignore           []string `json:"ignore" yaml:"ignore"`
	IncludeDetector  string   `json:"include_detector" yaml:"include_detector"`
	ResolveCacheSize int      `json:"resolve_cache_size" yaml:"resolve_cache_size"`
}

// Config is the value object handed to the scanner and the solver.
type Config struct {
	SourceRoots []string `json:"source_roots" yaml:"source_roots"`
	Physics     Physics  `json:"physics" yaml:"physics"`
	Graph       Graph    `json:"graph" yaml:"graph"`
	Scan        Scan     `json:"scan" yaml:"scan"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Physics: Physics{
			TimeStep:                 0.016,
			SolverIterations:         8,
			LinkRestLength:           80,
			LinkStiffness:            1,
			RepulsionRadius:          30,
			RepulsionStrength:        200,
			Damping:                  0.02,
			MaxDisplacement:          50,
			DirChildrenAngleStrength: 0.1,
		},
		Graph: Graph{
			EnableDirectoryLinks: true,
			EnableIncludeLinks:   false,
			DirDirLengthCoef:     1,
			DirFileLengthCoef:    1,
		},
		Scan: Scan{
			IncludeDetector:  DetectorLine,
			ResolveCacheSize: 4096,
		},
	}
}

// LoadFile reads a JSON or YAML (by extension) config file on top of the defaults.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to open config file %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(data)
	default:
		return LoadJSON(data)
	}
}

// LoadJSON decodes data on top of the defaults. Absent keys keep their defaults.
func LoadJSON(data []byte) (Config, error) {
	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, cfg.Validate()
}

// LoadYAML decodes data on top of the defaults. Absent keys keep their defaults.
func LoadYAML(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, cfg.Validate()
}

// ApplyEnv loads a .env file when present and applies CODEGRAPH_* overrides.
func (c *Config) ApplyEnv() error {
	_ = godotenv.Load()

	if raw := strings.TrimSpace(os.Getenv("CODEGRAPH_SOURCE_ROOTS")); raw != "" {
		roots := make([]string, 0)
		for _, root := range strings.Split(raw, ",") {
			if root = strings.TrimSpace(root); root != "" {
				roots = append(roots, root)
			}
		}
		c.SourceRoots = roots
	}
	if raw := strings.TrimSpace(os.Getenv("CODEGRAPH_SOLVER_ITERATIONS")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid CODEGRAPH_SOLVER_ITERATIONS %q: %w", raw, err)
		}
		c.Physics.SolverIterations = n
	}
	if raw := strings.TrimSpace(os.Getenv("CODEGRAPH_INCLUDE_DETECTOR")); raw != "" {
		c.Scan.IncludeDetector = raw
	}
	return c.Validate()
}

// Validate rejects values the solver cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Physics.SolverIterations < 0 {
		errs = append(errs, fmt.Errorf("physics.solver_iterations must be >= 0, got %d", c.Physics.SolverIterations))
	}
	if c.Physics.LinkStiffness < 0 || c.Physics.LinkStiffness > 1 {
		errs = append(errs, fmt.Errorf("physics.link_stiffness must be within [0,1], got %v", c.Physics.LinkStiffness))
	}
	if c.Physics.MaxDisplacement < 0 {
		errs = append(errs, fmt.Errorf("physics.max_displacement must be >= 0, got %v", c.Physics.MaxDisplacement))
	}
	switch c.Scan.IncludeDetector {
	case "", DetectorLine, DetectorTreeSitter:
	default:
		errs = append(errs, fmt.Errorf("scan.include_detector must be %q or %q, got %q", DetectorLine, DetectorTreeSitter, c.Scan.IncludeDetector))
	}
	return errors.Join(errs...)
}
