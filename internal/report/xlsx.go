package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/hamed0406/sitecheck/internal/domain"
)

const (
	sheetSummary     = "Summary"
	sheetReachable   = "Reachable"
	sheetUnreachable = "Unreachable"
	sheetMalformed   = "Malformed"
	sheetReverify    = "Re-verification"
)

func writeXLSX(w io.Writer, rep Report) error {
	f := excelize.NewFile()
	defer f.Close()

	sum := rep.Summary
	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return err
	}
	rows := [][]any{
		{"Generated", rep.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Run ID", sum.RunID},
		{"Total sites", sum.Stats.Total},
		{"Reachable", len(sum.Reachable)},
		{"Unreachable", len(sum.Unreachable)},
		{"Malformed", len(sum.Malformed)},
		{"Elapsed (s)", sum.Stats.Elapsed.Seconds()},
	}
	if err := setRows(f, sheetSummary, rows); err != nil {
		return err
	}

	for _, b := range []struct {
		name    string
		results []domain.Result
	}{
		{sheetReachable, sum.Reachable},
		{sheetUnreachable, sum.Unreachable},
		{sheetMalformed, sum.Malformed},
	} {
		if _, err := f.NewSheet(b.name); err != nil {
			return err
		}
		rows := [][]any{toAny(csvHeader[1:])}
		for _, r := range b.results {
			rows = append(rows, toAny(resultRow(r)[1:]))
		}
		if err := setRows(f, b.name, rows); err != nil {
			return err
		}
	}

	if len(rep.Diagnoses) > 0 {
		if _, err := f.NewSheet(sheetReverify); err != nil {
			return err
		}
		rows := [][]any{{"url", "detail"}}
		for _, d := range rep.Diagnoses {
			rows = append(rows, []any{d.Target.String(), d.Detail})
		}
		if err := setRows(f, sheetReverify, rows); err != nil {
			return err
		}
	}

	return f.Write(w)
}

func setRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("sheet %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
