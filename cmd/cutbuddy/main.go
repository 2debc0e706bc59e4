// CutBuddy command line: linear cut list optimizer.
//
// Build:
//   go build -o cutbuddy ./cmd/cutbuddy
//
// Examples:
//   cutbuddy solve --cut "34 1/2" --cut "2' 10\"" --stock "8', 10'" --kerf 1/8
//   cutbuddy solve request.yaml --format text
//   cutbuddy import cutlist.xlsx > request.json
//   cutbuddy export pdf request.json --out plan.pdf

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/piwi3910/cutbuddy/internal/model"
	"github.com/piwi3910/cutbuddy/internal/project"
)

var (
	// Global flags
	verbose    bool
	configPath string

	logger *zap.Logger
	config model.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "cutbuddy",
	Short: "CutBuddy - linear cut list optimizer",
	Long: `CutBuddy plans how to cut boards, pipe and bar stock from the lengths
you can buy, wasting as little material as possible.

Small cut lists are solved exactly with a time-bounded branch-and-bound
search; large ones are improved by a genetic search seeded from best-fit
decreasing. Results are printed as JSON.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zc := zap.NewProductionConfig()
		if verbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		if configPath == "" {
			configPath = project.DefaultConfigPath()
		}
		config, err = project.LoadAppConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config %s: %w", configPath, err)
		}
		if err := project.RegisterCustomProfiles(project.DefaultProfilesPath()); err != nil {
			logger.Warn("custom saw profiles not loaded", zap.Error(err))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: ~/.cutbuddy/config.json)")

	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(gcodeCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		writeError(os.Stdout, err)
		os.Exit(1)
	}
}

// writeError prints the failure payload used by every command.
func writeError(w *os.File, err error) {
	out, mErr := json.Marshal(model.ErrorResponse{Error: err.Error()})
	if mErr != nil {
		out = []byte(`{"error":"internal solver error"}`)
	}
	fmt.Fprintln(w, string(out))
}

// signalContext is cancelled on SIGINT or SIGTERM so a running search
// stops and reports what it has.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			logger.Info("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()
	return ctx, cancel
}
