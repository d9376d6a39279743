package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/morozRed/codegraph/internal/logging"
	"github.com/morozRed/codegraph/internal/metrics"
	"github.com/morozRed/codegraph/internal/physics"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func RunLayout(cmd *cobra.Command, args []string) error {
	steps, err := ParseSteps(cmd)
	if err != nil {
		return err
	}
	format, err := ParseOutputFormat(cmd)
	if err != nil {
		return err
	}
	metricsAddr, err := OptionalStringFlag(cmd, "metrics-addr")
	if err != nil {
		return err
	}

	cfg, err := LoadConfig(cmd, args)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if metricsAddr != "" {
		shutdown, err := serveMetrics(metricsAddr)
		if err != nil {
			return err
		}
		defer shutdown()
	}

	g, result, err := ScanGraph(cfg)
	if err != nil {
		return err
	}
	logging.L().Info("scan complete",
		zap.Int("nodes", g.Len()),
		zap.Int("links", len(g.Links)),
		zap.Int("unresolved", result.Unresolved),
		zap.Duration("duration", result.Duration))

	engine := physics.NewEngine(cfg, g)
	done := RunSteps(ctx, engine, steps, newStepProgressReporter("layout", steps, format == FormatJSONL))
	if done < steps {
		logging.L().Warn("layout interrupted", zap.Int("steps", done), zap.Int("requested", steps))
	}

	return WritePositions(os.Stdout, engine.Graph(), format)
}

// RunSteps advances the engine up to steps times and returns how many steps
// ran. Cancellation is only observed between steps.
func RunSteps(ctx context.Context, engine *physics.Engine, steps int, progress *stepProgressReporter) int {
	done := 0
	for done < steps {
		if ctx.Err() != nil {
			break
		}
		start := time.Now()
		engine.Step()
		metrics.RecordPass("step", time.Since(start))
		done++
		if progress != nil {
			progress.Update(done)
		}
	}
	if progress != nil {
		progress.Done(done)
	}
	return done
}

func serveMetrics(addr string) (func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.L().Error("metrics server failed", zap.Error(err))
		}
	}()
	logging.L().Info("serving metrics", zap.String("addr", listener.Addr().String()))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	}, nil
}
