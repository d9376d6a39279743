package cli

import (
	"fmt"

	"github.com/morozRed/codegraph/internal/logging"
	"github.com/spf13/cobra"
)

func NewRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "codegraph",
		Short: "Lay out C/C++ source trees as a force-directed graph",
		Long: `Codegraph scans C/C++ source roots into a graph of directories and
files, links them by containment and #include relationships, and runs
a position-based physics solver to lay the graph out in 2D.

Source roots come from positional arguments, the config file
(--config or $CODEGRAPH_CONFIG) or $CODEGRAPH_SOURCE_ROOTS.`,
		SilenceUsage:      true,
		PersistentPreRunE: InitLogging,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logging.Sync()
		},
	}
	rootCmd.PersistentFlags().String("config", "", "Config file (.json, .yaml, .yml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug|info|warn|error (default $CODEGRAPH_LOG_LEVEL or warn)")

	scanCmd := &cobra.Command{
		Use:   "scan [root...]",
		Short: "Scan source roots and summarize the resulting graph",
		RunE:  RunScan,
	}
	scanCmd.Flags().Bool("json", false, "Print machine-readable scan summary")

	runCmd := &cobra.Command{
		Use:   "run [root...]",
		Short: "Scan, run the solver for N steps and print node positions",
		RunE:  RunLayout,
	}
	runCmd.Flags().Int("steps", 300, "Number of solver steps")
	runCmd.Flags().String("format", string(FormatText), "Output format: text|jsonl")
	runCmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address while running (e.g. :9090)")

	profileCmd := &cobra.Command{
		Use:   "profile [root...]",
		Short: "Time every solver pass on a scanned graph",
		RunE:  RunProfile,
	}
	profileCmd.Flags().Int("steps", 100, "Number of repetitions per pass")
	profileCmd.Flags().Bool("json", false, "Print machine-readable profile summary")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("codegraph %s\n", version)
		},
	}

	rootCmd.AddCommand(
		scanCmd,
		runCmd,
		profileCmd,
		versionCmd,
	)

	return rootCmd
}
