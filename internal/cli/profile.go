package cli

import (
	"time"

	"github.com/morozRed/codegraph/internal/logging"
	"github.com/morozRed/codegraph/internal/metrics"
	"github.com/morozRed/codegraph/internal/physics"
	"github.com/spf13/cobra"
)

func RunProfile(cmd *cobra.Command, args []string) error {
	steps, err := ParseSteps(cmd)
	if err != nil {
		return err
	}
	asJSON, err := OptionalBoolFlag(cmd, "json")
	if err != nil {
		return err
	}

	cfg, err := LoadConfig(cmd, args)
	if err != nil {
		return err
	}
	g, _, err := ScanGraph(cfg)
	if err != nil {
		return err
	}

	engine := physics.NewEngine(cfg, g)
	summary := ProfileSummary{
		Mode:   "profile",
		Nodes:  g.Len(),
		Links:  len(g.Links),
		Steps:  steps,
		Passes: ProfilePasses(engine, steps),
	}
	return PrintProfileSummary(summary, asJSON)
}

// ProfilePasses times every engine entry point steps times, interleaved so
// each pass sees a layout in motion.
func ProfilePasses(engine *physics.Engine, steps int) []PassTiming {
	passes := []struct {
		name string
		run  func()
	}{
		{name: "integrate", run: engine.IntegrateOnly},
		{name: "constraints", run: engine.ConstraintsOnly},
		{name: "angles", run: engine.AngleEqualizationOnly},
		{name: "repulsion", run: engine.RepulsionOnly},
		{name: "step", run: engine.Step},
	}

	totals := make([]time.Duration, len(passes))
	for i := 0; i < steps; i++ {
		for j, pass := range passes {
			start := time.Now()
			pass.run()
			elapsed := time.Since(start)
			totals[j] += elapsed
			metrics.RecordPass(pass.name, elapsed)
		}
	}

	timings := make([]PassTiming, 0, len(passes))
	for j, pass := range passes {
		timing := PassTiming{
			Pass:    pass.name,
			Calls:   steps,
			TotalMS: float64(totals[j].Microseconds()) / 1000,
		}
		if steps > 0 {
			timing.MeanUS = float64(totals[j].Nanoseconds()) / float64(steps) / 1000
		}
		timings = append(timings, timing)
		logging.S().Debugw("profiled pass", "pass", pass.name, "calls", steps, "total", totals[j])
	}
	return timings
}
