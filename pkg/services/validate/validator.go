// Package validate checks canonical record batches against reference data
// and business rules. Errors are accumulated exhaustively across the whole
// batch so a user can fix every issue in one edit pass; any non-empty error
// set rejects the batch.
package validate

import (
	"fmt"

	"github.com/freight-tools/loadsheet/pkg/models/domain"
	"github.com/freight-tools/loadsheet/pkg/services/geo"
)

// Validator applies kind-specific rule sets over a batch. It holds only
// read-only reference data and is safe for concurrent use.
type Validator struct {
	geo    *geo.Index
	prices *domain.PriceIndex
	orders map[string]bool
}

// Option configures a Validator.
type Option func(*Validator)

// WithPriceIndex enables the route-pricing check applied to order batches:
// every order's route must have a configured per-ton unit price.
func WithPriceIndex(idx *domain.PriceIndex) Option {
	return func(v *Validator) { v.prices = idx }
}

// WithKnownOrders enables the order-reference check applied to delivery
// batches: every delivery's order number must name a committed order.
func WithKnownOrders(orderNumbers map[string]bool) Option {
	return func(v *Validator) { v.orders = orderNumbers }
}

func NewValidator(geoIdx *geo.Index, opts ...Option) *Validator {
	v := &Validator{geo: geoIdx}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate runs every rule against every row, even after earlier rules on
// the same row have failed, and returns the complete error list in row
// order. Within a row, errors follow the kind's fixed check order: required
// fields first, then reference data (geography, known orders), uniqueness
// and numeric domain, route pricing last.
func (v *Validator) Validate(batch *domain.Batch) []domain.ValidationError {
	var errs []domain.ValidationError
	rules := v.rulesFor(batch.Kind)
	seen := make(map[string]int)

	for i, rec := range batch.Records {
		row := i + 1
		errs = append(errs, rules.check(row, rec, seen)...)
	}
	return errs
}

type ruleSet interface {
	check(row int, rec domain.Record, seen map[string]int) []domain.ValidationError
}

func (v *Validator) rulesFor(kind domain.RecordKind) ruleSet {
	switch kind {
	case domain.RecordKindOrder:
		return orderRules{geo: v.geo, prices: v.prices}
	case domain.RecordKindPrice:
		return priceRules{geo: v.geo}
	case domain.RecordKindProject:
		return projectRules{}
	case domain.RecordKindDelivery:
		return deliveryRules{orders: v.orders}
	default:
		return noRules{}
	}
}

type noRules struct{}

func (noRules) check(int, domain.Record, map[string]int) []domain.ValidationError { return nil }

// checkGeography validates one province/city pair against the index. side is
// the human-readable endpoint name used in messages ("departure" or
// "destination"). Empty values are left to the required-field check.
func checkGeography(g *geo.Index, row int, side, province, city string) []domain.ValidationError {
	var errs []domain.ValidationError
	if province != "" && !g.HasProvince(province) {
		errs = append(errs, domain.ValidationError{
			Row:     row,
			Message: fmt.Sprintf("%s province %q does not exist", side, province),
		})
		return errs
	}
	if province != "" && city != "" && !g.HasCity(province, city) {
		errs = append(errs, domain.ValidationError{
			Row:     row,
			Message: fmt.Sprintf("%s city %q does not belong to province %q", side, city, province),
		})
	}
	return errs
}

type fieldValue struct {
	name  string
	value string
}

// requireFields flags empty required fields in declaration order.
func requireFields(row int, fields []fieldValue) []domain.ValidationError {
	var errs []domain.ValidationError
	for _, f := range fields {
		if f.value == "" {
			errs = append(errs, domain.ValidationError{
				Row:     row,
				Message: fmt.Sprintf("required field %q is missing", f.name),
			})
		}
	}
	return errs
}
