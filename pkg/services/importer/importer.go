// Package importer runs the full spreadsheet intake pipeline: parse the
// workbook, align headers to canonical fields, coerce cell text, validate
// the batch and, only when every row passed, commit it to the remote
// service in one call.
package importer

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/freight-tools/loadsheet/pkg/models/domain"
	"github.com/freight-tools/loadsheet/pkg/services/geo"
	"github.com/freight-tools/loadsheet/pkg/services/schema"
	"github.com/freight-tools/loadsheet/pkg/services/validate"
	"github.com/freight-tools/loadsheet/pkg/spreadsheet"
)

// Committer submits a fully validated batch to the system of record. The
// returned count is the number of rows the remote side accepted.
type Committer interface {
	CommitBatch(ctx context.Context, batch *domain.Batch) (int, error)
}

// PriceSource supplies the current per-ton price configuration. Order
// imports price every row against it; the other kinds never consult it.
type PriceSource interface {
	PriceIndex(ctx context.Context) (*domain.PriceIndex, error)
}

// OrderSource supplies the committed orders a delivery import must
// reference; only delivery imports consult it.
type OrderSource interface {
	QueryOrders(ctx context.Context) ([]domain.Order, error)
}

// Result is the outcome of one import. Exactly one of Accepted and Errors
// is meaningful: a batch with errors commits nothing.
type Result struct {
	BatchID  string
	Accepted int
	Errors   []domain.ValidationError
}

// Rejected reports whether the batch was turned away with row errors.
func (r *Result) Rejected() bool { return len(r.Errors) > 0 }

// Importer wires the pipeline stages together. It holds only read-only
// reference data and stateless collaborators, so one instance serves
// concurrent imports.
type Importer struct {
	geo       *geo.Index
	committer Committer
	prices    PriceSource
	orders    OrderSource
}

// Option configures an Importer.
type Option func(*Importer)

// WithPriceSource enables route pricing for order imports.
func WithPriceSource(ps PriceSource) Option {
	return func(im *Importer) { im.prices = ps }
}

// WithOrderSource enables the order-reference check for delivery imports.
func WithOrderSource(os OrderSource) Option {
	return func(im *Importer) { im.orders = os }
}

func NewImporter(geoIdx *geo.Index, committer Committer, opts ...Option) *Importer {
	im := &Importer{geo: geoIdx, committer: committer}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// Import processes one uploaded workbook. Structural problems (unreadable
// file, duplicate headers, no data rows) and commit failures come back as
// the error; row-level problems come back inside the Result and leave the
// remote service untouched.
func (im *Importer) Import(ctx context.Context, kind domain.RecordKind, r io.Reader) (*Result, error) {
	log := zerolog.Ctx(ctx)

	fieldMap, err := schema.ForKind(kind)
	if err != nil {
		return nil, err
	}
	rows, err := spreadsheet.ReadRows(r)
	if err != nil {
		return nil, err
	}
	fields, err := fieldMap.Map(rows[0])
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, domain.NewStructuralError("the sheet has no data rows")
	}

	batch := &domain.Batch{ID: uuid.NewString(), Kind: kind}
	coercionErrs := make(map[int][]domain.ValidationError)
	for i, cells := range rows[1:] {
		row := i + 1
		rec, errs := buildRecord(kind, row, newRawRow(fields, cells))
		batch.Records = append(batch.Records, rec)
		if len(errs) > 0 {
			coercionErrs[row] = errs
		}
	}

	var priceIdx *domain.PriceIndex
	if kind == domain.RecordKindOrder && im.prices != nil {
		priceIdx, err = im.prices.PriceIndex(ctx)
		if err != nil {
			return nil, err
		}
	}

	var opts []validate.Option
	if priceIdx != nil {
		opts = append(opts, validate.WithPriceIndex(priceIdx))
	}
	if kind == domain.RecordKindDelivery && im.orders != nil {
		known, err := im.knownOrderNumbers(ctx)
		if err != nil {
			return nil, err
		}
		opts = append(opts, validate.WithKnownOrders(known))
	}
	validationErrs := validate.NewValidator(im.geo, opts...).Validate(batch)
	batch.Errors = mergeRowErrors(len(batch.Records), coercionErrs, validationErrs)

	if !batch.Valid() {
		log.Info().
			Str("batch_id", batch.ID).
			Str("kind", string(kind)).
			Int("rows", len(batch.Records)).
			Int("errors", len(batch.Errors)).
			Msg("batch rejected")
		return &Result{BatchID: batch.ID, Errors: batch.Errors}, nil
	}

	if kind == domain.RecordKindOrder && priceIdx != nil {
		priceOrders(batch, priceIdx)
	}

	accepted, err := im.committer.CommitBatch(ctx, batch)
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("batch_id", batch.ID).
		Str("kind", string(kind)).
		Int("accepted", accepted).
		Msg("batch committed")
	return &Result{BatchID: batch.ID, Accepted: accepted}, nil
}

func (im *Importer) knownOrderNumbers(ctx context.Context) (map[string]bool, error) {
	orders, err := im.orders.QueryOrders(ctx)
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(orders))
	for _, o := range orders {
		known[o.OrderNumber] = true
	}
	return known, nil
}

// mergeRowErrors interleaves coercion and validation errors so the final
// list is ordered by row, with each row's coercion errors ahead of its
// validation errors.
func mergeRowErrors(rowCount int, coercion map[int][]domain.ValidationError, validation []domain.ValidationError) []domain.ValidationError {
	if len(coercion) == 0 {
		return validation
	}
	byRow := make(map[int][]domain.ValidationError, len(validation))
	for _, e := range validation {
		byRow[e.Row] = append(byRow[e.Row], e)
	}
	var merged []domain.ValidationError
	for row := 1; row <= rowCount; row++ {
		merged = append(merged, coercion[row]...)
		merged = append(merged, byRow[row]...)
	}
	return merged
}

// priceOrders derives each order's unit price and total amount from the
// route's configured per-ton price. The batch is already validated, so
// every route is guaranteed to resolve.
func priceOrders(batch *domain.Batch, idx *domain.PriceIndex) {
	for i, rec := range batch.Records {
		o, ok := rec.(domain.Order)
		if !ok {
			continue
		}
		if price, found := idx.UnitPrice(o.Route()); found {
			o.UnitPrice = price
			o.Amount = o.Weight.Mul(price)
			batch.Records[i] = o
		}
	}
}
