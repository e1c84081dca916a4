// Package main provides the numdiff CLI, which checks analytical derivatives
// of catalogue functions against finite differences.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/born-ml/numdiff/internal/catalog"
	"github.com/born-ml/numdiff/internal/config"
	"github.com/born-ml/numdiff/internal/findiff"
	"github.com/born-ml/numdiff/internal/metrics"
	"github.com/born-ml/numdiff/internal/parallel"
)

const version = "v0.1.0-dev"

// errChecksFailed is returned by the check command when any point fails.
var errChecksFailed = errors.New("derivative checks failed")

type app struct {
	verbose bool
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:           "numdiff",
		Short:         "Finite-difference derivative checker",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := zap.NewProductionConfig()
			if a.verbose {
				cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			logger, err := cfg.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "numdiff %s\n", version)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "functions",
		Short: "List catalogue functions",
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			for _, e := range catalog.Entries() {
				fmt.Fprintf(w, "%-18s n>=%d  %s\n", e.Name, e.MinDimension, e.Description)
			}
		},
	})

	var planPath string
	check := &cobra.Command{
		Use:   "check",
		Short: "Run the derivative checks of a YAML plan",
		Long: `Loads a check plan and compares every analytical gradient or Jacobian
against finite differences at the listed points.

Environment overrides: NUMDIFF_THRESHOLD, NUMDIFF_EPSILON, NUMDIFF_POLICY, NUMDIFF_WORKERS.
Exits with a non-zero status when any point fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCheck(cmd, planPath)
		},
	}
	check.Flags().StringVarP(&planPath, "config", "c", "", "Check plan (YAML)")
	_ = check.MarkFlagRequired("config")
	root.AddCommand(check)

	return root
}

func (a *app) runCheck(cmd *cobra.Command, path string) error {
	plan, err := config.Load(path)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	col, err := metrics.NewCollector(reg)
	if err != nil {
		return err
	}
	cfg := plan.CheckerConfig(a.logger, col)
	checker, err := findiff.NewChecker(cfg)
	if err != nil {
		return err
	}
	a.logger.Info("running check plan",
		zap.String("path", path),
		zap.Int("checks", len(plan.Checks)),
		zap.String("policy", plan.Policy),
		zap.Float64("threshold", checker.Threshold()),
	)

	// Checks run concurrently; results are printed in plan order.
	results := make([][]error, len(plan.Checks))
	err = parallel.For(cmd.Context(), len(plan.Checks), cfg.Parallel, func(ctx context.Context, i int) error {
		failures, err := runOne(ctx, checker, col, plan.Checks[i])
		if err != nil {
			return fmt.Errorf("check %q: %w", plan.Checks[i].Name, err)
		}
		results[i] = failures
		return nil
	})
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	failed, total := 0, 0
	for ci, c := range plan.Checks {
		for i, x := range c.Points {
			total++
			if results[ci][i] == nil {
				fmt.Fprintf(w, "PASS  %s  x=%v\n", c.Name, x)
				continue
			}
			failed++
			fmt.Fprintf(w, "FAIL  %s  x=%v\n      %v\n", c.Name, x, results[ci][i])
		}
	}

	if err := printSummary(w, reg, total, failed); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d points", errChecksFailed, failed, total)
	}
	return nil
}

// runOne checks every point of c and returns one error per point, nil for
// points that passed.
func runOne(ctx context.Context, checker *findiff.Checker, col *metrics.Collector, c config.Check) ([]error, error) {
	f, err := catalog.Lookup(c.Function, c.Dimension)
	if err != nil {
		return nil, err
	}
	f = col.InstrumentDifferentiable(f)

	if c.Mode == config.ModeJacobian {
		ms, err := checker.JacobianAt(ctx, f, c.Points)
		if err != nil {
			return nil, err
		}
		return jacobianFailures(ms), nil
	}
	ms, err := checker.GradientAt(ctx, f, c.Output, c.Points)
	if err != nil {
		return nil, err
	}
	return gradientFailures(ms), nil
}

func gradientFailures(ms []*findiff.GradientMismatch) []error {
	out := make([]error, len(ms))
	for i, m := range ms {
		if m != nil {
			out[i] = m
		}
	}
	return out
}

func jacobianFailures(ms []*findiff.JacobianMismatch) []error {
	out := make([]error, len(ms))
	for i, m := range ms {
		if m != nil {
			out[i] = m
		}
	}
	return out
}

func printSummary(w io.Writer, reg prometheus.Gatherer, total, failed int) error {
	snap, err := metrics.Gather(reg)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\n%d points checked, %d failed\n", total, failed)

	names := make([]string, 0, len(snap.Evaluations))
	for name := range snap.Evaluations {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-18s %.0f evaluations\n", name, snap.Evaluations[name])
	}
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
