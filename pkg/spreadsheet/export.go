package spreadsheet

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/freight-tools/loadsheet/pkg/models/domain"
)

var dimensionHeaders = map[domain.Dimension]string{
	domain.DimensionProvince: "到达省",
	domain.DimensionCity:     "到达市",
	domain.DimensionCarrier:  "承运类型",
}

var measureHeaders = []string{"重量（吨）", "收入", "成本", "利润"}

// WriteReport serializes an aggregated result set: one column per active
// grouping dimension followed by the four measure columns. Rows are written
// in the order the engine produced them.
func WriteReport(w io.Writer, groupBy []domain.Dimension, rows []domain.AggregatedRow) error {
	f := excelize.NewFile()
	defer f.Close()

	headers := make([]string, 0, len(groupBy)+len(measureHeaders))
	for _, d := range groupBy {
		h, ok := dimensionHeaders[d]
		if !ok {
			return fmt.Errorf("unknown dimension %q", d)
		}
		headers = append(headers, h)
	}
	headers = append(headers, measureHeaders...)
	if err := setStringRow(f, 1, headers); err != nil {
		return err
	}

	for i, row := range rows {
		if len(row.Keys) != len(groupBy) {
			return fmt.Errorf("row %d has %d keys for %d dimensions", i+1, len(row.Keys), len(groupBy))
		}
		cells := make([]string, 0, len(headers))
		cells = append(cells, row.Keys...)
		cells = append(cells,
			row.Weight.String(),
			row.Income.StringFixed(2),
			row.Expense.StringFixed(2),
			row.Profit.StringFixed(2),
		)
		if err := setStringRow(f, i+2, cells); err != nil {
			return err
		}
	}

	end, _ := excelize.ColumnNumberToName(len(headers))
	if err := f.SetColWidth(templateSheet, "A", end, 14); err != nil {
		return fmt.Errorf("set column widths: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
