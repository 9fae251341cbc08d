// Package report computes grouped profit summaries over committed orders.
// Filtering always happens before grouping, so a filtered report never
// carries residue from excluded rows.
package report

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/freight-tools/loadsheet/pkg/models/domain"
)

const defaultPageSize = 20

// groupKeySep joins key parts into a map key. Unit separator keeps
// composite keys unambiguous even when a part contains punctuation.
const groupKeySep = "\x1f"

// OrderSource supplies the committed orders a report runs over.
type OrderSource interface {
	QueryOrders(ctx context.Context) ([]domain.Order, error)
}

// Engine runs aggregation queries against an order source. It is stateless
// and safe for concurrent use.
type Engine struct {
	source OrderSource
}

func NewEngine(source OrderSource) *Engine {
	return &Engine{source: source}
}

// Aggregate fetches the order set and runs the spec over it.
func (e *Engine) Aggregate(ctx context.Context, spec domain.AggregationSpec) (*domain.AggregatedPage, error) {
	orders, err := e.source.QueryOrders(ctx)
	if err != nil {
		return nil, err
	}
	return Aggregate(orders, spec)
}

// Aggregate filters, groups, summarizes and pages the given orders. The
// result is deterministic: groups are ordered by their key tuples. An empty
// GroupBy collapses all matching orders into a single total row.
func Aggregate(orders []domain.Order, spec domain.AggregationSpec) (*domain.AggregatedPage, error) {
	if err := checkGroupBy(spec.GroupBy); err != nil {
		return nil, err
	}
	page := normalizePage(spec.Page)

	groups := make(map[string]*domain.AggregatedRow)
	for _, o := range orders {
		if !matches(o, spec.Filters) {
			continue
		}
		keys := keysFor(o, spec.GroupBy)
		id := strings.Join(keys, groupKeySep)
		row, ok := groups[id]
		if !ok {
			row = &domain.AggregatedRow{Keys: keys}
			groups[id] = row
		}
		row.Weight = row.Weight.Add(o.Weight)
		row.Income = row.Income.Add(o.Amount)
		row.Expense = row.Expense.Add(o.CarrierFee)
	}

	rows := make([]domain.AggregatedRow, 0, len(groups))
	for _, row := range groups {
		row.Profit = row.Income.Sub(row.Expense)
		if row.Weight.IsPositive() {
			incomePerTon := row.Income.Div(row.Weight)
			profitPerTon := row.Profit.Div(row.Weight)
			row.IncomePerTon = &incomePerTon
			row.ProfitPerTon = &profitPerTon
		}
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		return lessKeys(rows[i].Keys, rows[j].Keys)
	})

	return &domain.AggregatedPage{
		Items: pageOf(rows, page),
		Total: len(rows),
	}, nil
}

func checkGroupBy(dims []domain.Dimension) error {
	seen := make(map[domain.Dimension]bool, len(dims))
	for _, d := range dims {
		if _, ok := domain.ParseDimension(string(d)); !ok {
			return fmt.Errorf("unknown grouping dimension %q", d)
		}
		if seen[d] {
			return fmt.Errorf("grouping dimension %q repeated", d)
		}
		seen[d] = true
	}
	return nil
}

func normalizePage(p domain.Page) domain.Page {
	if p.Index < 1 {
		p.Index = 1
	}
	if p.Size < 1 {
		p.Size = defaultPageSize
	}
	return p
}

// matches applies every active filter. Price bounds are inclusive and read
// the order's configured per-ton unit price.
func matches(o domain.Order, f domain.ReportFilters) bool {
	if f.DestinationProvince != "" && o.DestinationProvince != f.DestinationProvince {
		return false
	}
	if f.DestinationCity != "" && o.DestinationCity != f.DestinationCity {
		return false
	}
	if len(f.Carriers) > 0 && !containsCarrier(f.Carriers, o.CarrierType) {
		return false
	}
	if f.PriceMin != nil && o.UnitPrice.LessThan(*f.PriceMin) {
		return false
	}
	if f.PriceMax != nil && o.UnitPrice.GreaterThan(*f.PriceMax) {
		return false
	}
	return true
}

func containsCarrier(set []domain.CarrierType, c domain.CarrierType) bool {
	for _, v := range set {
		if v == c {
			return true
		}
	}
	return false
}

func keysFor(o domain.Order, dims []domain.Dimension) []string {
	keys := make([]string, len(dims))
	for i, d := range dims {
		switch d {
		case domain.DimensionProvince:
			keys[i] = o.DestinationProvince
		case domain.DimensionCity:
			keys[i] = o.DestinationCity
		case domain.DimensionCarrier:
			keys[i] = o.CarrierType.Label()
		}
	}
	return keys
}

func lessKeys(a, b []string) bool {
	for i := range a {
		if i >= len(b) {
			return false
		}
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

func pageOf(rows []domain.AggregatedRow, p domain.Page) []domain.AggregatedRow {
	start := (p.Index - 1) * p.Size
	if start >= len(rows) {
		return nil
	}
	end := start + p.Size
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}

// Totals folds a set of aggregated rows into one summary line, used by the
// exporter's footer and the terminal report.
func Totals(rows []domain.AggregatedRow) domain.AggregatedRow {
	var total domain.AggregatedRow
	for _, r := range rows {
		total.Weight = total.Weight.Add(r.Weight)
		total.Income = total.Income.Add(r.Income)
		total.Expense = total.Expense.Add(r.Expense)
	}
	total.Profit = total.Income.Sub(total.Expense)
	if total.Weight.IsPositive() {
		incomePerTon := total.Income.Div(total.Weight)
		profitPerTon := total.Profit.Div(total.Weight)
		total.IncomePerTon = &incomePerTon
		total.ProfitPerTon = &profitPerTon
	}
	return total
}
