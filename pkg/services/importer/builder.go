package importer

import (
	"fmt"
	"strings"

	"github.com/freight-tools/loadsheet/pkg/models/domain"
	"github.com/freight-tools/loadsheet/pkg/services/coerce"
	"github.com/freight-tools/loadsheet/pkg/services/schema"
)

// rawRow is one data row keyed by canonical field name. Unmapped columns
// never make it in here.
type rawRow map[string]string

func newRawRow(fields []string, cells []string) rawRow {
	row := make(rawRow, len(fields))
	for i, field := range fields {
		if field == "" || i >= len(cells) {
			continue
		}
		row[field] = strings.TrimSpace(cells[i])
	}
	return row
}

func (r rawRow) get(field string) string { return r[field] }

// buildRecord coerces one raw row into a canonical record. Coercion
// failures accumulate into the returned error list and never stop the
// remaining fields of the row, so a single pass surfaces everything.
func buildRecord(kind domain.RecordKind, rowIdx int, raw rawRow) (domain.Record, []domain.ValidationError) {
	switch kind {
	case domain.RecordKindOrder:
		return buildOrder(rowIdx, raw)
	case domain.RecordKindPrice:
		return buildPrice(rowIdx, raw)
	case domain.RecordKindProject:
		return buildProject(rowIdx, raw)
	case domain.RecordKindDelivery:
		return buildDelivery(rowIdx, raw)
	}
	return nil, []domain.ValidationError{{Row: rowIdx, Message: fmt.Sprintf("unknown record kind %q", kind)}}
}

type rowErrors struct {
	row  int
	errs []domain.ValidationError
}

func (r *rowErrors) addf(field, format string, args ...any) {
	r.errs = append(r.errs, domain.ValidationError{
		Row:     r.row,
		Message: fmt.Sprintf("%s: %s", field, fmt.Sprintf(format, args...)),
	})
}

func buildOrder(rowIdx int, raw rawRow) (domain.Record, []domain.ValidationError) {
	re := rowErrors{row: rowIdx}
	o := domain.Order{
		OrderNumber:         raw.get(schema.FieldOrderNumber),
		ProductName:         raw.get(schema.FieldProductName),
		DepartureProvince:   raw.get(schema.FieldDepartureProvince),
		DepartureCity:       raw.get(schema.FieldDepartureCity),
		DestinationProvince: raw.get(schema.FieldDestinationProvince),
		DestinationCity:     raw.get(schema.FieldDestinationCity),
		DestinationAddress:  raw.get(schema.FieldDestinationAddress),
		Remark:              raw.get(schema.FieldRemark),
	}

	if v := raw.get(schema.FieldOrderDate); v != "" {
		d, err := coerce.Date(v)
		if err != nil {
			re.addf(schema.FieldOrderDate, "%v", err)
		} else {
			o.OrderDate = d
		}
	}
	if v := raw.get(schema.FieldDeliveryDate); v != "" {
		d, err := coerce.Date(v)
		if err != nil {
			re.addf(schema.FieldDeliveryDate, "%v", err)
		} else {
			o.DeliveryDate = d
		}
	}
	if v := raw.get(schema.FieldQuantity); v != "" {
		n, err := coerce.Integer(v)
		if err != nil {
			re.addf(schema.FieldQuantity, "%v", err)
		} else {
			o.Quantity = n
		}
	}
	if v := raw.get(schema.FieldWeight); v != "" {
		w, err := coerce.Decimal(v)
		if err != nil {
			re.addf(schema.FieldWeight, "%v", err)
		} else {
			o.Weight = w
		}
	}
	return o, re.errs
}

func buildPrice(rowIdx int, raw rawRow) (domain.Record, []domain.ValidationError) {
	re := rowErrors{row: rowIdx}
	p := domain.PriceEntry{
		DepartureProvince:   raw.get(schema.FieldDepartureProvince),
		DepartureCity:       raw.get(schema.FieldDepartureCity),
		DestinationProvince: raw.get(schema.FieldDestinationProvince),
		DestinationCity:     raw.get(schema.FieldDestinationCity),
	}

	if v := raw.get(schema.FieldTransportType); v != "" {
		tt, err := coerce.TransportType(v)
		if err != nil {
			re.addf(schema.FieldTransportType, "%v", err)
		} else {
			p.Transport = tt
		}
	}
	if v := raw.get(schema.FieldUnitPrice); v != "" {
		up, err := coerce.Decimal(v)
		if err != nil {
			re.addf(schema.FieldUnitPrice, "%v", err)
		} else {
			p.UnitPrice = up
		}
	}
	return p, re.errs
}

func buildDelivery(rowIdx int, raw rawRow) (domain.Record, []domain.ValidationError) {
	re := rowErrors{row: rowIdx}
	d := domain.Delivery{
		OrderNumber:  raw.get(schema.FieldOrderNumber),
		CarrierName:  raw.get(schema.FieldCarrierName),
		CarrierPhone: raw.get(schema.FieldCarrierPhone),
		CarrierPlate: raw.get(schema.FieldCarrierPlate),
	}

	if v := raw.get(schema.FieldCarrierType); v != "" {
		ct, err := coerce.CarrierType(v)
		if err != nil {
			re.addf(schema.FieldCarrierType, "%v", err)
		} else {
			d.CarrierType = ct
		}
	}
	if v := raw.get(schema.FieldCarrierFee); v != "" {
		fee, err := coerce.Decimal(v)
		if err != nil {
			re.addf(schema.FieldCarrierFee, "%v", err)
		} else {
			d.CarrierFee = fee
		}
	}
	return d, re.errs
}

func buildProject(rowIdx int, raw rawRow) (domain.Record, []domain.ValidationError) {
	re := rowErrors{row: rowIdx}
	p := domain.Project{
		ProjectName:  raw.get(schema.FieldProjectName),
		CustomerName: raw.get(schema.FieldCustomerName),
		Description:  raw.get(schema.FieldDescription),
	}

	if v := raw.get(schema.FieldStartDate); v != "" {
		d, err := coerce.Date(v)
		if err != nil {
			re.addf(schema.FieldStartDate, "%v", err)
		} else {
			p.StartDate = d
		}
	}
	if v := raw.get(schema.FieldEndDate); v != "" {
		d, err := coerce.Date(v)
		if err != nil {
			re.addf(schema.FieldEndDate, "%v", err)
		} else {
			p.EndDate = d
		}
	}
	return p, re.errs
}
