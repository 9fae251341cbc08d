package validate

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/freight-tools/loadsheet/pkg/models/domain"
	"github.com/freight-tools/loadsheet/pkg/services/geo"
	"github.com/freight-tools/loadsheet/pkg/services/schema"
)

type orderRules struct {
	geo    *geo.Index
	prices *domain.PriceIndex
}

func (r orderRules) check(row int, rec domain.Record, seen map[string]int) []domain.ValidationError {
	o, ok := rec.(domain.Order)
	if !ok {
		return []domain.ValidationError{{Row: row, Message: "not an order record"}}
	}

	errs := requireFields(row, []fieldValue{
		{schema.FieldOrderNumber, o.OrderNumber},
		{schema.FieldOrderDate, o.OrderDate},
		{schema.FieldDeliveryDate, o.DeliveryDate},
		{schema.FieldProductName, o.ProductName},
		{schema.FieldDepartureProvince, o.DepartureProvince},
		{schema.FieldDepartureCity, o.DepartureCity},
		{schema.FieldDestinationProvince, o.DestinationProvince},
		{schema.FieldDestinationCity, o.DestinationCity},
	})

	errs = append(errs, checkGeography(r.geo, row, "departure", o.DepartureProvince, o.DepartureCity)...)
	errs = append(errs, checkGeography(r.geo, row, "destination", o.DestinationProvince, o.DestinationCity)...)

	if o.OrderNumber != "" {
		if first, dup := seen[o.OrderNumber]; dup {
			errs = append(errs, domain.ValidationError{
				Row:     row,
				Message: fmt.Sprintf("duplicate order number %q (first seen at row %d)", o.OrderNumber, first),
			})
		} else {
			seen[o.OrderNumber] = row
		}
	}

	errs = append(errs, requirePositiveInt(row, schema.FieldQuantity, o.Quantity)...)
	errs = append(errs, requirePositive(row, schema.FieldWeight, o.Weight)...)

	if r.prices != nil && o.DepartureProvince != "" && o.DestinationCity != "" {
		if _, ok := r.prices.UnitPrice(o.Route()); !ok {
			errs = append(errs, domain.ValidationError{
				Row:     row,
				Message: fmt.Sprintf("no unit price configured for route %s", o.Route()),
			})
		}
	}
	return errs
}

type priceRules struct {
	geo *geo.Index
}

func (r priceRules) check(row int, rec domain.Record, seen map[string]int) []domain.ValidationError {
	p, ok := rec.(domain.PriceEntry)
	if !ok {
		return []domain.ValidationError{{Row: row, Message: "not a price record"}}
	}

	errs := requireFields(row, []fieldValue{
		{schema.FieldDepartureProvince, p.DepartureProvince},
		{schema.FieldDepartureCity, p.DepartureCity},
		{schema.FieldDestinationProvince, p.DestinationProvince},
		{schema.FieldDestinationCity, p.DestinationCity},
	})

	errs = append(errs, checkGeography(r.geo, row, "departure", p.DepartureProvince, p.DepartureCity)...)
	errs = append(errs, checkGeography(r.geo, row, "destination", p.DestinationProvince, p.DestinationCity)...)

	if p.DepartureProvince != "" && p.DestinationCity != "" {
		key := p.Route().String()
		if first, dup := seen[key]; dup {
			errs = append(errs, domain.ValidationError{
				Row:     row,
				Message: fmt.Sprintf("duplicate departure-destination combination (first seen at row %d)", first),
			})
		} else {
			seen[key] = row
		}
	}

	errs = append(errs, requirePositive(row, schema.FieldUnitPrice, p.UnitPrice)...)
	return errs
}

type deliveryRules struct {
	orders map[string]bool
}

func (r deliveryRules) check(row int, rec domain.Record, seen map[string]int) []domain.ValidationError {
	d, ok := rec.(domain.Delivery)
	if !ok {
		return []domain.ValidationError{{Row: row, Message: "not a delivery record"}}
	}

	errs := requireFields(row, []fieldValue{
		{schema.FieldOrderNumber, d.OrderNumber},
		{schema.FieldCarrierName, d.CarrierName},
		{schema.FieldCarrierPhone, d.CarrierPhone},
	})
	if d.CarrierType == 0 {
		errs = append(errs, domain.ValidationError{
			Row:     row,
			Message: fmt.Sprintf("required field %q is missing", schema.FieldCarrierType),
		})
	}

	if d.OrderNumber != "" && r.orders != nil && !r.orders[d.OrderNumber] {
		errs = append(errs, domain.ValidationError{
			Row:     row,
			Message: fmt.Sprintf("order number %q does not exist", d.OrderNumber),
		})
	}

	if d.OrderNumber != "" {
		if first, dup := seen[d.OrderNumber]; dup {
			errs = append(errs, domain.ValidationError{
				Row:     row,
				Message: fmt.Sprintf("duplicate order number %q (first seen at row %d)", d.OrderNumber, first),
			})
		} else {
			seen[d.OrderNumber] = row
		}
	}

	errs = append(errs, requirePositive(row, schema.FieldCarrierFee, d.CarrierFee)...)
	return errs
}

type projectRules struct{}

func (projectRules) check(row int, rec domain.Record, seen map[string]int) []domain.ValidationError {
	p, ok := rec.(domain.Project)
	if !ok {
		return []domain.ValidationError{{Row: row, Message: "not a project record"}}
	}

	errs := requireFields(row, []fieldValue{
		{schema.FieldProjectName, p.ProjectName},
		{schema.FieldCustomerName, p.CustomerName},
		{schema.FieldStartDate, p.StartDate},
		{schema.FieldEndDate, p.EndDate},
	})

	if p.ProjectName != "" {
		if first, dup := seen[p.ProjectName]; dup {
			errs = append(errs, domain.ValidationError{
				Row:     row,
				Message: fmt.Sprintf("duplicate project name %q (first seen at row %d)", p.ProjectName, first),
			})
		} else {
			seen[p.ProjectName] = row
		}
	}

	if p.StartDate != "" && p.EndDate != "" && p.StartDate > p.EndDate {
		errs = append(errs, domain.ValidationError{
			Row:     row,
			Message: "cooperation start date is later than end date",
		})
	}
	return errs
}

// requirePositive treats zero as missing and negative as a domain violation,
// covering values populated outside coercion.
func requirePositive(row int, field string, d decimal.Decimal) []domain.ValidationError {
	if d.IsPositive() {
		return nil
	}
	return []domain.ValidationError{{
		Row:     row,
		Message: fmt.Sprintf("%s must be greater than 0", field),
	}}
}

func requirePositiveInt(row int, field string, n int) []domain.ValidationError {
	if n > 0 {
		return nil
	}
	return []domain.ValidationError{{
		Row:     row,
		Message: fmt.Sprintf("%s must be greater than 0", field),
	}}
}
