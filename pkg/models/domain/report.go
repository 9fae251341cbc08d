package domain

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Dimension is an attribute grouped on by the report engine.
type Dimension string

const (
	DimensionProvince Dimension = "province"
	DimensionCity     Dimension = "city"
	DimensionCarrier  Dimension = "carrier"
)

// ParseDimension validates a dimension name.
func ParseDimension(s string) (Dimension, bool) {
	switch Dimension(strings.TrimSpace(s)) {
	case DimensionProvince:
		return DimensionProvince, true
	case DimensionCity:
		return DimensionCity, true
	case DimensionCarrier:
		return DimensionCarrier, true
	}
	return "", false
}

// ReportFilters narrows the source set before grouping. Zero values mean the
// filter is inactive; price bounds are inclusive where given.
type ReportFilters struct {
	DestinationProvince string
	DestinationCity     string
	Carriers            []CarrierType
	PriceMin            *decimal.Decimal
	PriceMax            *decimal.Decimal
}

// Page addresses one page of the grouped result. Index is 1-based.
type Page struct {
	Index int
	Size  int
}

// AggregationSpec drives one report query.
type AggregationSpec struct {
	GroupBy []Dimension
	Filters ReportFilters
	Page    Page
}

// Fingerprint identifies the grouping and filters of the spec, ignoring the
// page. Two specs with equal fingerprints may share pagination state.
func (s AggregationSpec) Fingerprint() string {
	var b strings.Builder
	for _, d := range s.GroupBy {
		b.WriteString(string(d))
		b.WriteByte(',')
	}
	b.WriteByte('|')
	b.WriteString(s.Filters.DestinationProvince)
	b.WriteByte('|')
	b.WriteString(s.Filters.DestinationCity)
	b.WriteByte('|')
	carriers := make([]string, 0, len(s.Filters.Carriers))
	for _, c := range s.Filters.Carriers {
		carriers = append(carriers, c.Label())
	}
	sort.Strings(carriers)
	b.WriteString(strings.Join(carriers, ","))
	b.WriteByte('|')
	if s.Filters.PriceMin != nil {
		b.WriteString(s.Filters.PriceMin.String())
	}
	b.WriteByte('|')
	if s.Filters.PriceMax != nil {
		b.WriteString(s.Filters.PriceMax.String())
	}
	return b.String()
}

// AggregatedRow is one grouped summary row. Keys align position-for-position
// with the spec's GroupBy list. Profit is always Income minus Expense; the
// per-ton figures are nil when the group's weight is zero.
type AggregatedRow struct {
	Keys    []string
	Weight  decimal.Decimal
	Income  decimal.Decimal
	Expense decimal.Decimal
	Profit  decimal.Decimal

	IncomePerTon *decimal.Decimal
	ProfitPerTon *decimal.Decimal
}

// AggregatedPage is the paged grouped result. Total counts groups, not
// source rows.
type AggregatedPage struct {
	Items []AggregatedRow
	Total int
}
