package spreadsheet

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/freight-tools/loadsheet/pkg/models/domain"
	"github.com/freight-tools/loadsheet/pkg/services/schema"
)

const templateSheet = "Sheet1"

// Example rows use valid geography so a template imported unchanged maps to
// exactly one clean canonical record.
var exampleRows = map[domain.RecordKind][]string{
	domain.RecordKindOrder: {
		"PO-20240501", "2024-05-01", "2024-05-03", "钢材", "10", "12.5",
		"浙江省", "杭州市", "江苏省", "南京市", "软件大道1号", "加急",
	},
	domain.RecordKindPrice: {
		"浙江省", "杭州市", "江苏省", "南京市", "整车运输", "1000",
	},
	domain.RecordKindProject: {
		"华东钢材专线", "宏远贸易", "2024-01-01", "2024-12-31", "华东区域钢材整车运输",
	},
	domain.RecordKindDelivery: {
		"PO-20240501", "司机直送", "王师傅", "13800000000", "浙A12345", "6000",
	},
}

// ExampleRow returns the template's example data row for a record kind.
func ExampleRow(kind domain.RecordKind) []string {
	row := exampleRows[kind]
	out := make([]string, len(row))
	copy(out, row)
	return out
}

// WriteTemplate serializes an import template for the record kind: the
// canonical header row, matching the kind's FieldMap exactly, plus one
// example row.
func WriteTemplate(w io.Writer, kind domain.RecordKind) error {
	fieldMap, err := schema.ForKind(kind)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	headers := fieldMap.Headers()
	if err := setStringRow(f, 1, headers); err != nil {
		return err
	}
	if err := setStringRow(f, 2, ExampleRow(kind)); err != nil {
		return err
	}

	end, _ := excelize.ColumnNumberToName(len(headers))
	if err := f.SetColWidth(templateSheet, "A", end, 18); err != nil {
		return fmt.Errorf("set column widths: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write template: %w", err)
	}
	return nil
}

func setStringRow(f *excelize.File, row int, values []string) error {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(templateSheet, cell, &cells); err != nil {
		return fmt.Errorf("set row %d: %w", row, err)
	}
	return nil
}
