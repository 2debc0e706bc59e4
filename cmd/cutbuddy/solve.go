package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/piwi3910/cutbuddy/internal/engine"
	"github.com/piwi3910/cutbuddy/internal/measure"
	"github.com/piwi3910/cutbuddy/internal/model"
)

var (
	solveFlags   requestFlags
	compareFlags requestFlags
	outputFormat string
)

var solveCmd = &cobra.Command{
	Use:   "solve [request.json|request.yaml]",
	Short: "Solve a cut list and print the plan",
	Long: `Solves a cut list read from a JSON or YAML request file, a saved
project, or the --cut and --stock flags. Flags override file values.

Request files use the wire format:
  {"cuts": [52, 48, 48], "stockLengths": [96, 120], "kerf": 0.125, "timeBudgetMs": 3000}`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSolve,
}

var compareCmd = &cobra.Command{
	Use:   "compare [request.json|request.yaml]",
	Short: "Solve one cut list under several solver scenarios",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCompare,
}

func init() {
	solveFlags.register(solveCmd)
	solveCmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "Output format: json or text")

	compareFlags.register(compareCmd)
	compareCmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "Output format: json or text")
}

func runSolve(cmd *cobra.Command, args []string) error {
	req, settings, unit, err := solveFlags.build(cmd, args, config)
	if err != nil {
		return err
	}
	report, err := plan(req, settings)
	if err != nil {
		return err
	}

	if outputFormat == "text" {
		return writeReportText(cmd.OutOrStdout(), report, unit)
	}
	return writeJSON(cmd.OutOrStdout(), report)
}

// plan runs the planner until it finishes or the process is interrupted.
func plan(req model.Request, settings model.Settings) (model.Report, error) {
	ctx, cancel := signalContext()
	defer cancel()

	logger.Debug("solving",
		zap.Int("cuts", len(req.Cuts)),
		zap.Int("stock_lengths", len(req.StockLengths)),
		zap.String("mode", string(settings.Mode)))

	planner := engine.NewPlanner(settings, engine.WithLogger(logger.Named("engine")))
	report, err := planner.Plan(ctx, req)
	if err != nil {
		return model.Report{}, err
	}
	logger.Debug("solved",
		zap.Int("bins", report.BinCount),
		zap.String("termination", string(report.Termination)),
		zap.String("optimality", string(report.Optimality)))
	return report, nil
}

func runCompare(cmd *cobra.Command, args []string) error {
	req, settings, unit, err := compareFlags.build(cmd, args, config)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()
	results, err := engine.CompareScenarios(ctx, engine.BuildDefaultScenarios(settings),
		req.Cuts, req.StockLengths, engine.WithLogger(logger.Named("compare")))
	if err != nil {
		return err
	}

	if outputFormat == "text" {
		return writeComparisonText(cmd.OutOrStdout(), results, unit)
	}
	return writeJSON(cmd.OutOrStdout(), struct {
		Best    int                       `json:"best"`
		Results []engine.ComparisonResult `json:"results"`
	}{engine.BestScenario(results), results})
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeReportText prints one line per bin followed by the totals.
func writeReportText(w io.Writer, r model.Report, unit measure.Unit) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "BIN\tSTOCK\tCUTS\tREMAINING")
	for i, b := range r.Bins {
		cuts := make([]string, len(b.Cuts))
		for j, c := range b.Cuts {
			cuts[j] = measure.Format(c, unit)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1,
			measure.Format(b.StockLength, unit), strings.Join(cuts, ", "), measure.Format(b.Remaining, unit))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\n%d bins, %s stock, %s waste (%.1f%%), %s kerf loss\n%s, %s, %d nodes in %.0f ms\n",
		r.BinCount,
		measure.Format(r.TotalStockLength, unit),
		measure.Format(r.TotalWaste, unit), r.WastePercent(),
		measure.Format(r.TotalKerfLoss, unit),
		r.Termination, r.Optimality, r.ExploredNodes, r.ElapsedMs)
	return err
}

func writeComparisonText(w io.Writer, results []engine.ComparisonResult, unit measure.Unit) error {
	best := engine.BestScenario(results)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SCENARIO\tBINS\tSTOCK\tWASTE\tSTATUS\t")
	for i, r := range results {
		marker := ""
		if i == best {
			marker = "*"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%.1f%%\t%s\t%s\n", r.Scenario.Name, r.BinsUsed,
			measure.Format(r.Report.TotalStockLength, unit), r.WastePercent, r.Report.Optimality, marker)
	}
	return tw.Flush()
}
