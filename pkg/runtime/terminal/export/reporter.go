package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/freight-tools/loadsheet/pkg/models/domain"
	"github.com/freight-tools/loadsheet/pkg/services/importer"
	"github.com/freight-tools/loadsheet/pkg/services/report"
)

type TableConfig struct {
	KeyWidth   int
	ValueWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		KeyWidth:   24,
		ValueWidth: 14,
	}
}

type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

// HandleImport prints one import outcome: the batch id and accepted count,
// or the full row error list when the batch was rejected.
func (c *Reporter) HandleImport(result *importer.Result) error {
	tmpl := `{{if .Rejected}}Batch {{.BatchID}} rejected with {{len .Errors}} error(s):
{{range .Errors}}  row {{.Row}}: {{.Message}}
{{end}}{{else}}Batch {{.BatchID}} committed, {{.Accepted}} row(s) accepted.
{{end}}`

	t, err := template.New("import").Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	return t.Execute(c.writer, struct {
		*importer.Result
		Rejected bool
	}{result, result.Rejected()})
}

type reportView struct {
	Headers []string
	Rows    []domain.AggregatedRow
	Totals  domain.AggregatedRow
	Total   int
	Page    int
}

// HandleReport prints one page of grouped results as a bordered table with
// a totals line.
func (c *Reporter) HandleReport(groupBy []domain.Dimension, page *domain.AggregatedPage, pageIndex int) error {
	headers := make([]string, len(groupBy))
	for i, d := range groupBy {
		headers[i] = string(d)
	}

	funcMap := template.FuncMap{
		"formatRow": func(keys []string, weight, income, expense, profit string) string {
			var b strings.Builder
			for _, k := range keys {
				fmt.Fprintf(&b, "| %-*s ", c.config.KeyWidth, k)
			}
			fmt.Fprintf(&b, "| %*s | %*s | %*s | %*s |",
				c.config.ValueWidth, weight,
				c.config.ValueWidth, income,
				c.config.ValueWidth, expense,
				c.config.ValueWidth, profit)
			return b.String()
		},
		"separator": func() string {
			var b strings.Builder
			for range headers {
				b.WriteString("+" + strings.Repeat("-", c.config.KeyWidth+2))
			}
			for i := 0; i < 4; i++ {
				b.WriteString("+" + strings.Repeat("-", c.config.ValueWidth+2))
			}
			b.WriteString("+")
			return b.String()
		},
		"money": func(d domain.AggregatedRow) []string {
			return []string{
				d.Weight.String(),
				d.Income.StringFixed(2),
				d.Expense.StringFixed(2),
				d.Profit.StringFixed(2),
			}
		},
	}

	tmpl := `
Profit report (page {{.Page}}, {{.Total}} group(s) total)

{{separator}}
{{formatRow .Headers "weight" "income" "expense" "profit"}}
{{separator}}
{{range .Rows}}{{$m := money .}}{{formatRow .Keys (index $m 0) (index $m 1) (index $m 2) (index $m 3)}}
{{end}}{{separator}}
{{$t := money .Totals}}{{formatRow .TotalKeys (index $t 0) (index $t 1) (index $t 2) (index $t 3)}}
{{separator}}
`

	t, err := template.New("report").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	totals := report.Totals(page.Items)
	totalKeys := make([]string, len(headers))
	if len(totalKeys) > 0 {
		totalKeys[0] = "TOTAL"
	}
	return t.Execute(c.writer, struct {
		reportView
		TotalKeys []string
	}{
		reportView{
			Headers: headers,
			Rows:    page.Items,
			Totals:  totals,
			Total:   page.Total,
			Page:    pageIndex,
		},
		totalKeys,
	})
}
