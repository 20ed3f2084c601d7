// Package export renders a problem document as an xlsx workbook, one
// sheet per difficulty tier, for review outside the API.
package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/prepdeck/problembank/internal/bank"
)

var columns = []string{
	"Question ID", "Frontend ID", "Title", "Slug", "Topics",
	"Statement", "Examples", "Constraints",
}

// WriteWorkbook writes doc to path as an xlsx file. Each tier gets its
// own sheet, rows in dataset order.
func WriteWorkbook(doc bank.Document, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, tier := range bank.Difficulties() {
		sheet := string(tier)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return fmt.Errorf("renaming sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return fmt.Errorf("creating sheet %s: %w", sheet, err)
			}
		}

		if err := f.SetSheetRow(sheet, "A1", &columns); err != nil {
			return fmt.Errorf("writing header on %s: %w", sheet, err)
		}

		for row, p := range doc.Tier(tier) {
			cell, err := excelize.CoordinatesToCellName(1, row+2)
			if err != nil {
				return fmt.Errorf("locating row %d on %s: %w", row+2, sheet, err)
			}
			values := []any{
				p.QuestionID, p.FrontendID, p.Title, p.TitleSlug,
				strings.Join(p.Topics, ", "),
				p.Statement,
				formatExamples(p.Examples),
				strings.Join(p.Constraints, "\n"),
			}
			if err := f.SetSheetRow(sheet, cell, &values); err != nil {
				return fmt.Errorf("writing %s on %s: %w", p.TitleSlug, sheet, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

func formatExamples(examples []bank.Example) string {
	var b strings.Builder
	for i, ex := range examples {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "Example %d:\nInput: %s\nOutput: %s", ex.Number, ex.Input, ex.Output)
		if ex.Explanation != "" {
			fmt.Fprintf(&b, "\nExplanation: %s", ex.Explanation)
		}
	}
	return b.String()
}
