package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func OptionalStringFlag(cmd *cobra.Command, name string) (string, error) {
	if cmd == nil || cmd.Flags().Lookup(name) == nil {
		return "", nil
	}
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		return "", fmt.Errorf("failed to read --%s flag: %w", name, err)
	}
	return strings.TrimSpace(value), nil
}

func OptionalBoolFlag(cmd *cobra.Command, name string) (bool, error) {
	if cmd == nil || cmd.Flags().Lookup(name) == nil {
		return false, nil
	}
	value, err := cmd.Flags().GetBool(name)
	if err != nil {
		return false, fmt.Errorf("failed to read --%s flag: %w", name, err)
	}
	return value, nil
}

func ParseSteps(cmd *cobra.Command) (int, error) {
	steps, err := cmd.Flags().GetInt("steps")
	if err != nil {
		return 0, fmt.Errorf("failed to read --steps flag: %w", err)
	}
	if steps < 0 {
		return 0, fmt.Errorf("--steps must be >= 0, got %d", steps)
	}
	return steps, nil
}

func ParseOutputFormat(cmd *cobra.Command) (Format, error) {
	value, err := cmd.Flags().GetString("format")
	if err != nil {
		return "", fmt.Errorf("failed to read --format flag: %w", err)
	}
	return ParseFormat(value)
}
