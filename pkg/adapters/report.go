package adapters

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/freight-tools/loadsheet/pkg/models/api"
	"github.com/freight-tools/loadsheet/pkg/models/domain"
)

// MapAggregateRequestApiToDomain validates and converts a report query.
// Unknown dimensions, carrier codes and malformed decimals are rejected
// here so the engine only ever sees well-formed specs.
func MapAggregateRequestApiToDomain(req api.AggregateRequest) (domain.AggregationSpec, error) {
	var spec domain.AggregationSpec

	for _, raw := range req.GroupBy {
		dim, ok := domain.ParseDimension(raw)
		if !ok {
			return spec, fmt.Errorf("unknown grouping dimension %q", raw)
		}
		spec.GroupBy = append(spec.GroupBy, dim)
	}

	spec.Filters.DestinationProvince = req.Filters.DestinationProvince
	spec.Filters.DestinationCity = req.Filters.DestinationCity
	for _, code := range req.Filters.Carriers {
		ct := domain.CarrierType(code)
		if ct != domain.CarrierDriver && ct != domain.CarrierContractor {
			return spec, fmt.Errorf("unknown carrier type %d", code)
		}
		spec.Filters.Carriers = append(spec.Filters.Carriers, ct)
	}
	if req.Filters.PriceMin != nil {
		d, err := decimal.NewFromString(*req.Filters.PriceMin)
		if err != nil {
			return spec, fmt.Errorf("price_min: not a number: %q", *req.Filters.PriceMin)
		}
		spec.Filters.PriceMin = &d
	}
	if req.Filters.PriceMax != nil {
		d, err := decimal.NewFromString(*req.Filters.PriceMax)
		if err != nil {
			return spec, fmt.Errorf("price_max: not a number: %q", *req.Filters.PriceMax)
		}
		spec.Filters.PriceMax = &d
	}

	spec.Page = domain.Page{Index: req.Page, Size: req.PageSize}
	return spec, nil
}

func MapAggregatedRowDomainToApi(r domain.AggregatedRow) api.ReportRow {
	row := api.ReportRow{
		Keys:    r.Keys,
		Weight:  r.Weight.String(),
		Income:  r.Income.StringFixed(2),
		Expense: r.Expense.StringFixed(2),
		Profit:  r.Profit.StringFixed(2),
	}
	if r.IncomePerTon != nil {
		v := r.IncomePerTon.StringFixed(2)
		row.IncomePerTon = &v
	}
	if r.ProfitPerTon != nil {
		v := r.ProfitPerTon.StringFixed(2)
		row.ProfitPerTon = &v
	}
	return row
}

func MapAggregatedPageDomainToApi(p *domain.AggregatedPage, pageIndex int) api.AggregateResponse {
	res := api.AggregateResponse{
		Items: make([]api.ReportRow, 0, len(p.Items)),
		Total: p.Total,
		Page:  pageIndex,
	}
	for _, r := range p.Items {
		res.Items = append(res.Items, MapAggregatedRowDomainToApi(r))
	}
	return res
}

func MapValidationErrorsDomainToApi(errs []domain.ValidationError) []api.RowError {
	out := make([]api.RowError, 0, len(errs))
	for _, e := range errs {
		out = append(out, api.RowError{Row: e.Row, Message: e.Message})
	}
	return out
}
