package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/piwi3910/cutbuddy/internal/export"
	"github.com/piwi3910/cutbuddy/internal/gcode"
	"github.com/piwi3910/cutbuddy/internal/importer"
	"github.com/piwi3910/cutbuddy/internal/measure"
	"github.com/piwi3910/cutbuddy/internal/model"
	"github.com/piwi3910/cutbuddy/internal/project"
)

var (
	importUnit   string
	importFormat string

	exportFlags requestFlags
	exportOut   string

	gcodeFlags requestFlags
	gcodeOut   string
)

var importCmd = &cobra.Command{
	Use:   "import <cutlist.csv|cutlist.xlsx|drawing.dxf>",
	Short: "Read a cut list and print it as a solve request",
	Long: `Reads cut lengths from a CSV file, an Excel workbook or a DXF drawing and
prints a request that "cutbuddy solve" accepts. Stock lengths and kerf come
from the config. Rows that cannot be read are reported on stderr.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var exportCmd = &cobra.Command{
	Use:   "export <pdf|labels|xlsx> [request.json|request.yaml]",
	Short: "Solve a cut list and write a PDF plan, cut labels or a workbook",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runExport,
}

var gcodeCmd = &cobra.Command{
	Use:   "gcode [request.json|request.yaml]",
	Short: "Solve a cut list and write the saw-stop program",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runGCode,
}

func init() {
	importCmd.Flags().StringVarP(&importUnit, "unit", "u", "", "Unit for bare numbers (default: config)")
	importCmd.Flags().StringVarP(&importFormat, "format", "f", "json", "Output format: json or yaml")

	exportFlags.register(exportCmd)
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (default: cut-plan.<ext>)")

	gcodeFlags.register(gcodeCmd)
	gcodeCmd.Flags().StringVarP(&gcodeOut, "out", "o", "", "Output file (default: stdout)")
}

func runImport(cmd *cobra.Command, args []string) error {
	unitName := importUnit
	if unitName == "" {
		unitName = config.DefaultUnit
	}
	unit, err := measure.ParseUnit(unitName)
	if err != nil {
		return err
	}

	path := args[0]
	var result importer.ImportResult
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt", ".tsv":
		result = importer.ImportCSV(path, unit)
	case ".xlsx", ".xlsm":
		result = importer.ImportExcel(path, unit)
	case ".dxf":
		result = importer.ImportDXF(path, unit)
	default:
		return fmt.Errorf("unsupported cut list format %q", filepath.Ext(path))
	}

	for _, w := range result.Warnings {
		logger.Warn("import warning", zap.String("file", path), zap.String("warning", w))
	}
	for _, e := range result.Errors {
		logger.Error("import row skipped", zap.String("file", path), zap.String("error", e))
	}
	if len(result.Cuts) == 0 {
		return fmt.Errorf("no cuts found in %s", path)
	}

	req := model.Request{
		Cuts:         result.Lengths(),
		StockLengths: config.DefaultStockLengths,
		Kerf:         config.DefaultKerf,
		TimeBudgetMs: config.DefaultTimeBudgetMs,
	}
	if importFormat == "yaml" {
		out, err := yaml.Marshal(req)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	}
	return writeJSON(cmd.OutOrStdout(), req)
}

// exporters maps the export kinds to their writer and default extension.
var exporters = map[string]struct {
	write func(string, model.Project, measure.Unit) error
	ext   string
}{
	"pdf":    {export.ExportPDF, ".pdf"},
	"labels": {export.ExportLabels, ".pdf"},
	"xlsx":   {export.ExportExcel, ".xlsx"},
}

func runExport(cmd *cobra.Command, args []string) error {
	kind := strings.ToLower(args[0])
	exp, ok := exporters[kind]
	if !ok {
		return fmt.Errorf("unknown export %q, want pdf, labels or xlsx", args[0])
	}

	p, unit, err := solvedProject(cmd, args[1:], &exportFlags)
	if err != nil {
		return err
	}

	out := exportOut
	if out == "" {
		out = "cut-plan" + exp.ext
		if kind == "labels" {
			out = "cut-labels" + exp.ext
		}
	}
	if err := exp.write(out, p, unit); err != nil {
		return err
	}
	logger.Info("export written", zap.String("kind", kind), zap.String("path", out))
	return nil
}

func runGCode(cmd *cobra.Command, args []string) error {
	p, _, err := solvedProject(cmd, args, &gcodeFlags)
	if err != nil {
		return err
	}

	program := gcode.New(p.Settings).GenerateProgram(p.Result.Solution)
	if gcodeOut == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), program)
		return err
	}
	if err := os.WriteFile(gcodeOut, []byte(program), 0644); err != nil {
		return fmt.Errorf("failed to write program: %w", err)
	}
	logger.Info("program written", zap.String("path", gcodeOut), zap.String("profile", p.Settings.GCodeProfile))
	return nil
}

// solvedProject builds the project an exporter needs. A saved project keeps
// its labels and prices and reuses its stored result when it has one.
func solvedProject(cmd *cobra.Command, args []string, flags *requestFlags) (model.Project, measure.Unit, error) {
	req, settings, unit, err := flags.build(cmd, args, config)
	if err != nil {
		return model.Project{}, "", err
	}

	if flags.projectFile != "" {
		p, err := project.LoadProject(flags.projectFile)
		if err != nil {
			return model.Project{}, "", err
		}
		p.Settings = settings
		if p.Result == nil {
			report, err := plan(req, settings)
			if err != nil {
				return model.Project{}, "", err
			}
			p.Result = &report
		}
		return p, unit, nil
	}

	report, err := plan(req, settings)
	if err != nil {
		return model.Project{}, "", err
	}
	name := "Cut Plan"
	if len(args) > 0 {
		name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	}
	return projectFromRequest(name, req, settings, unit, report), unit, nil
}
