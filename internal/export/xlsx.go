package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/cutbuddy/internal/measure"
	"github.com/piwi3910/cutbuddy/internal/model"
)

const (
	planSheet    = "Plan"
	summarySheet = "Summary"
)

// ExportExcel writes the solved plan of p to an .xlsx workbook with a "Plan"
// sheet (one row per bin) and a "Summary" sheet.
func ExportExcel(path string, p model.Project, unit measure.Unit) error {
	f, err := buildWorkbook(p, unit)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(path)
}

// WriteExcel renders the same workbook as ExportExcel into w.
func WriteExcel(w io.Writer, p model.Project, unit measure.Unit) error {
	f, err := buildWorkbook(p, unit)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

func buildWorkbook(p model.Project, unit measure.Unit) (*excelize.File, error) {
	if p.Result == nil {
		return nil, ErrNoResult
	}
	report := *p.Result

	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), planSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("naming plan sheet: %w", err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("creating summary sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("creating header style: %w", err)
	}

	if err := writePlanSheet(f, p, report, unit, bold); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeSummarySheet(f, p, report, unit, bold); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func writePlanSheet(f *excelize.File, p model.Project, report model.Report, unit measure.Unit, header int) error {
	suffix := unit.Short()
	headers := []interface{}{
		"Bin",
		"Stock (" + suffix + ")",
		"Cuts",
		"Cut Lengths (" + suffix + ")",
		"Used (" + suffix + ")",
		"Remaining (" + suffix + ")",
		"Labels",
	}
	if err := f.SetSheetRow(planSheet, "A1", &headers); err != nil {
		return fmt.Errorf("writing plan header: %w", err)
	}
	if err := f.SetCellStyle(planSheet, "A1", "G1", header); err != nil {
		return fmt.Errorf("styling plan header: %w", err)
	}

	for i, bin := range report.Bins {
		lengths := make([]string, len(bin.Cuts))
		var names []string
		for j, c := range bin.Cuts {
			lengths[j] = measure.Value(c, unit)
			if name := p.LabelFor(c); name != "" {
				names = append(names, name)
			}
		}
		row := []interface{}{
			i + 1,
			model.Round(unit.FromInches(bin.StockLength), 4),
			len(bin.Cuts),
			strings.Join(lengths, ", "),
			model.Round(unit.FromInches(bin.Used), 4),
			model.Round(unit.FromInches(bin.Remaining), 4),
			strings.Join(names, ", "),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(planSheet, cell, &row); err != nil {
			return fmt.Errorf("writing bin %d: %w", i+1, err)
		}
	}

	if err := f.SetColWidth(planSheet, "D", "D", 40); err != nil {
		return err
	}
	return f.SetColWidth(planSheet, "G", "G", 30)
}

func writeSummarySheet(f *excelize.File, p model.Project, report model.Report, unit measure.Unit, header int) error {
	est := model.EstimateCost(report.Solution, p.Stocks)
	suffix := unit.Short()

	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Project", p.Name},
		{"Bins Used", report.BinCount},
		{"Cuts Placed", report.CutCount()},
		{"Stock Purchased (" + suffix + ")", model.Round(unit.FromInches(report.TotalStockLength), 4)},
		{"Used (" + suffix + ")", model.Round(unit.FromInches(report.TotalUsed), 4)},
		{"Waste (" + suffix + ")", model.Round(unit.FromInches(report.TotalWaste), 4)},
		{"Kerf Loss (" + suffix + ")", model.Round(unit.FromInches(report.TotalKerfLoss), 4)},
		{"Utilization", report.Utilization},
		{"Termination", string(report.Termination)},
		{"Optimality", string(report.Optimality)},
		{"Explored Nodes", report.ExploredNodes},
		{"Elapsed (ms)", report.ElapsedMs},
		{"Estimated Cost", est.EstimatedCost},
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("writing summary row %d: %w", i+1, err)
		}
	}
	if err := f.SetCellStyle(summarySheet, "A1", "B1", header); err != nil {
		return fmt.Errorf("styling summary header: %w", err)
	}
	return f.SetColWidth(summarySheet, "A", "A", 24)
}
